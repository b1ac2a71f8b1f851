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

import "strings"

// parseKeyValueString splits a semicolon-separated "key=value;key=value"
// parameter string into a map. Order is not preserved: per P5, dispatch and
// decoding must not depend on it.
func parseKeyValueString(s string) map[string]string {
	out := make(map[string]string)
	if s == "" {
		return out
	}
	for _, part := range strings.Split(s, ";") {
		if part == "" {
			continue
		}
		if i := strings.IndexByte(part, '='); i >= 0 {
			out[part[:i]] = part[i+1:]
		} else {
			out[part] = ""
		}
	}
	return out
}

// joinKeyValuePairs renders key=value pairs back into the semicolon form,
// in the caller-supplied order (the variants each emit their keys in the
// fixed order the draft text specifies).
func joinKeyValuePairs(pairs [][2]string) string {
	parts := make([]string, 0, len(pairs))
	for _, kv := range pairs {
		parts = append(parts, kv[0]+"="+kv[1])
	}
	return strings.Join(parts, ";")
}

// parseBoolClean implements the REDESIGN FLAGS clean boolean rule: "true"
// and "1" parse true, everything else parses false. There is no error
// return because every input has a defined outcome.
func parseBoolClean(s string) bool {
	return s == "true" || s == "1"
}
