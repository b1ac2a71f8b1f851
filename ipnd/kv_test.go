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

func TestParseKeyValueString(t *testing.T) {
	got := parseKeyValueString("port=225;ip=198.51.100.23")
	require.Equal(t, map[string]string{"port": "225", "ip": "198.51.100.23"}, got)

	require.Empty(t, parseKeyValueString(""))
}

func TestJoinKeyValuePairs(t *testing.T) {
	got := joinKeyValuePairs([][2]string{{"port", "225"}, {"ip", "198.51.100.23"}})
	require.Equal(t, "port=225;ip=198.51.100.23", got)

	require.Equal(t, "", joinKeyValuePairs(nil))
}

// REDESIGN FLAGS §9: clean boolean rule, "true"/"1" parse true, everything
// else parses false, with no silent non-assignment.
func TestParseBoolClean(t *testing.T) {
	require.True(t, parseBoolClean("true"))
	require.True(t, parseBoolClean("1"))
	require.False(t, parseBoolClean("false"))
	require.False(t, parseBoolClean("0"))
	require.False(t, parseBoolClean("yes"))
	require.False(t, parseBoolClean(""))
}
