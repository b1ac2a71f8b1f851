/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package ipnd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSDNVEncodeDecode(t *testing.T) {
	tests := []struct {
		name string
		in   uint64
		want []byte
	}{
		{"zero", 0, []byte{0x00}},
		{"small", 0x05, []byte{0x05}},
		{"boundary", 0x7F, []byte{0x7F}},
		{"two groups", 0x80, []byte{0x81, 0x00}},
		{"16", 16, []byte{0x10}},
		{"1337", 1337, []byte{0x8a, 0x39}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sdnvEncode(tt.in)
			require.Equal(t, tt.want, got)

			v, n, err := sdnvDecode(got)
			require.NoError(t, err)
			require.Equal(t, tt.in, v)
			require.Equal(t, len(tt.want), n)
			require.Equal(t, len(tt.want), sdnvLen(tt.in))
		})
	}
}

func TestSDNVDecodeTruncated(t *testing.T) {
	_, _, err := sdnvDecode([]byte{0x81})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrTruncated)
}

func TestPrimitiveRoundTrip(t *testing.T) {
	t.Run("boolean", func(t *testing.T) {
		for _, v := range []bool{true, false} {
			buf := writeBoolean(nil, v)
			got, n, err := readBoolean(buf)
			require.NoError(t, err)
			require.Equal(t, v, got)
			require.Equal(t, len(buf), n)
		}
	})
	t.Run("fixed16", func(t *testing.T) {
		buf := writeFixed16(nil, 1337)
		require.Equal(t, []byte{0x03, 0x05, 0x39}, buf)
		got, n, err := readFixed16(buf)
		require.NoError(t, err)
		require.Equal(t, uint16(1337), got)
		require.Equal(t, 3, n)
	})
	t.Run("fixed32", func(t *testing.T) {
		buf := writeFixed32(nil, 0xC6336417)
		require.Equal(t, []byte{0x04, 0xC6, 0x33, 0x64, 0x17}, buf)
		got, n, err := readFixed32(buf)
		require.NoError(t, err)
		require.Equal(t, uint32(0xC6336417), got)
		require.Equal(t, 5, n)
	})
	t.Run("fixed64", func(t *testing.T) {
		buf := writeFixed64(nil, 0x0102030405060708)
		got, n, err := readFixed64(buf)
		require.NoError(t, err)
		require.Equal(t, uint64(0x0102030405060708), got)
		require.Equal(t, 9, n)
	})
	t.Run("uint64", func(t *testing.T) {
		buf := writeUint64(nil, 1410492227)
		got, n, err := readUint64(buf)
		require.NoError(t, err)
		require.Equal(t, uint64(1410492227), got)
		require.Equal(t, len(buf), n)
	})
	t.Run("sint64 negative", func(t *testing.T) {
		buf := writeSint64(nil, -42)
		got, n, err := readSint64(buf)
		require.NoError(t, err)
		require.Equal(t, int64(-42), got)
		require.Equal(t, len(buf), n)
	})
	t.Run("string", func(t *testing.T) {
		buf := writeString(nil, "15.63")
		require.Equal(t, []byte{0x08, 0x05, '1', '5', '.', '6', '3'}, buf)
		got, n, err := readString(buf)
		require.NoError(t, err)
		require.Equal(t, "15.63", got)
		require.Equal(t, len(buf), n)
	})
	t.Run("bytes", func(t *testing.T) {
		v6 := []byte{0x20, 0x01, 0x0D, 0xB8, 0, 0, 0, 0, 0, 0, 0, 0, 0x02, 0x55, 0x00, 0xA5}
		buf := writeBytes(nil, v6)
		require.Equal(t, byte(0x09), buf[0])
		require.Equal(t, byte(0x10), buf[1])
		got, n, err := readBytes(buf)
		require.NoError(t, err)
		require.Equal(t, v6, got)
		require.Equal(t, len(buf), n)
	})
}

func TestReadPrimitiveWrongTag(t *testing.T) {
	buf := writeFixed16(nil, 7)
	_, _, err := readFixed32(buf)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnexpectedTag)
}

func TestReadPrimitiveTruncated(t *testing.T) {
	_, _, err := readFixed32([]byte{0x04, 0x01, 0x02})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrTruncated)
}
