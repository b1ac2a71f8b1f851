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

// TestParamFromV02TagDispatchSoundness is property P3: for every v02
// service tag the factory returns a variant for, the variant's own
// IPNDServiceTag(matching protocol) maps back to the same tag.
func TestParamFromV02TagDispatchSoundness(t *testing.T) {
	cases := []struct {
		tag  ServiceTag
		body []byte
	}{
		{ServiceTagTCPv4, mustSerialize(t, &IPServiceParam{Address: "10.0.0.1", Port: 1})},
		{ServiceTagUDPv4, mustSerialize(t, &IPServiceParam{Address: "10.0.0.1", Port: 1})},
		{ServiceTagTCPv6, mustSerialize(t, &IPServiceParam{Address: "::1", Port: 1})},
		{ServiceTagUDPv6, mustSerialize(t, &IPServiceParam{Address: "::1", Port: 1})},
		{ServiceTagDgramUDP, mustSerialize(t, &DatagramServiceParam{Address: "x"})},
		{ServiceTagDgramEthernet, mustSerialize(t, &DatagramServiceParam{Address: "x"})},
		{ServiceTagDgramLoWPAN, mustSerialize(t, &DatagramServiceParam{Address: "x"})},
		{ServiceTagLoWPAN, mustSerialize(t, &LOWPANServiceParam{PANID: 1, Port: 1})},
		{ServiceTagEmail, mustSerialize(t, &EMailServiceParam{Address: "a@b"})},
		{ServiceTagDHT, mustSerialize(t, &DHTServiceParam{Port: 1})},
		{ServiceTagDTNTP, mustSerialize(t, &DTNTPServiceParam{Version: 1, Quality: 1, Timestamp: 1})},
	}
	for _, tc := range cases {
		param, protocol, err := paramFromV02Tag(tc.tag, tc.body)
		require.NoError(t, err)
		got, err := param.IPNDServiceTag(protocol)
		require.NoError(t, err)
		require.Equal(t, tc.tag, got)
	}
}

func mustSerialize(t *testing.T, p ServiceParam) []byte {
	t.Helper()
	b, err := p.Serialize(ProtocolVersionDraft02)
	require.NoError(t, err)
	return b
}

func TestParamFromV02TagUnknown(t *testing.T) {
	_, _, err := paramFromV02Tag(ServiceTag(0x7F), []byte{1, 2, 3})
	require.ErrorIs(t, err, ErrUnknownService)
}

// TestParamFromKeyValueStringPrecedence exercises §4.3's fixed dispatch
// order: email, then DTNTP, then LoWPAN-by-address-length, then IP.
func TestParamFromKeyValueStringPrecedence(t *testing.T) {
	t.Run("email wins over everything else", func(t *testing.T) {
		p, err := paramFromKeyValueString("port=1;email=a@b;version=1;quality=1;timestamp=1")
		require.NoError(t, err)
		_, ok := p.(*EMailServiceParam)
		require.True(t, ok)
	})
	t.Run("dtntp triple", func(t *testing.T) {
		p, err := paramFromKeyValueString("version=1;quality=1.5;timestamp=9")
		require.NoError(t, err)
		_, ok := p.(*DTNTPServiceParam)
		require.True(t, ok)
	})
	t.Run("lowpan when ip key present and short", func(t *testing.T) {
		p, err := paramFromKeyValueString("port=1;ip=123")
		require.NoError(t, err)
		_, ok := p.(*LOWPANServiceParam)
		require.True(t, ok)
	})
	t.Run("ip when ip key present and long", func(t *testing.T) {
		p, err := paramFromKeyValueString("port=1;ip=198.51.100.23")
		require.NoError(t, err)
		_, ok := p.(*IPServiceParam)
		require.True(t, ok)
	})
	t.Run("ip when ip key absent entirely", func(t *testing.T) {
		p, err := paramFromKeyValueString("port=0")
		require.NoError(t, err)
		ip, ok := p.(*IPServiceParam)
		require.True(t, ok)
		require.Equal(t, "", ip.Address)
	})
	t.Run("no recognizable keys fails", func(t *testing.T) {
		_, err := paramFromKeyValueString("foo=bar")
		require.ErrorIs(t, err, ErrIllegalService)
	})
}

// TestKeyOrderIndependence is property P5: shuffling key=value pairs within
// a parameter string must not change the decoded variant.
func TestKeyOrderIndependence(t *testing.T) {
	a, err := paramFromKeyValueString("port=225;ip=198.51.100.23")
	require.NoError(t, err)
	b, err := paramFromKeyValueString("ip=198.51.100.23;port=225")
	require.NoError(t, err)
	require.True(t, a.Equal(b))

	c, err := paramFromKeyValueString("version=1;quality=1.5;timestamp=9")
	require.NoError(t, err)
	d, err := paramFromKeyValueString("timestamp=9;version=1;quality=1.5")
	require.NoError(t, err)
	require.True(t, c.Equal(d))
}

func TestIPServiceParamV02LengthValidation(t *testing.T) {
	// declared length matches neither the v4 (8 byte) nor v6 (21 byte) layout
	_, err := decodeIPServiceParam(ServiceTagTCPv4, make([]byte, 10))
	require.ErrorIs(t, err, ErrLengthMismatch)
}
