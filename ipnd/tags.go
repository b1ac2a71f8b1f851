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

import "fmt"

// ProtocolVersion identifies which wire revision a beacon or service uses. Legacy, draft-00, and draft-01 share the textual key=value
// service encoding (§4.2's "v00/v01" grammar applies to all three); only
// draft-02 switches the service list to binary TLVs (§4.2's "v02" layouts,
// §6's authoritative "Primitive TLV (draft-02)" wire format).
type ProtocolVersion byte

const (
	ProtocolVersionLegacy      ProtocolVersion = 0x00
	ProtocolVersionDraft00     ProtocolVersion = 0x01
	ProtocolVersionDraft01     ProtocolVersion = 0x02
	ProtocolVersionDraft02     ProtocolVersion = 0x04
	ProtocolVersionUnspecified ProtocolVersion = 0xFF
)

func (v ProtocolVersion) String() string {
	switch v {
	case ProtocolVersionLegacy:
		return "legacy"
	case ProtocolVersionDraft00:
		return "draft-00"
	case ProtocolVersionDraft01:
		return "draft-01"
	case ProtocolVersionDraft02:
		return "draft-02"
	case ProtocolVersionUnspecified:
		return "unspecified"
	default:
		return fmt.Sprintf("unknown(0x%02x)", byte(v))
	}
}

// Binary reports whether this version carries its service list as binary
// TLVs (draft-02) rather than textual key=value pairs (legacy, draft-00,
// draft-01).
func (v ProtocolVersion) Binary() bool {
	return v == ProtocolVersionDraft02
}

// Valid reports whether v is one of the five wire-defined values.
func (v ProtocolVersion) Valid() bool {
	switch v {
	case ProtocolVersionLegacy, ProtocolVersionDraft00, ProtocolVersionDraft01, ProtocolVersionDraft02, ProtocolVersionUnspecified:
		return true
	default:
		return false
	}
}

// ServiceTag is the one-byte v02 constructed-type code a DiscoveryService is
// framed under.
type ServiceTag byte

const (
	ServiceTagTCPv4 ServiceTag = 64
	ServiceTagUDPv4 ServiceTag = 65
	ServiceTagTCPv6 ServiceTag = 66
	ServiceTagUDPv6 ServiceTag = 67

	ServiceTagDgramUDP      ServiceTag = 187
	ServiceTagDgramEthernet ServiceTag = 188
	ServiceTagDgramLoWPAN   ServiceTag = 189
	ServiceTagLoWPAN        ServiceTag = 190
	ServiceTagEmail         ServiceTag = 191
	ServiceTagDHT           ServiceTag = 192
	ServiceTagDTNTP         ServiceTag = 193
)

// ConvergenceLayerProtocol names a transport binding a DiscoveryService can
// advertise. It is reversibly mapped to the short string tags used by the
// legacy, draft-00 and draft-01 textual encodings.
type ConvergenceLayerProtocol int

const (
	ProtocolUndefined ConvergenceLayerProtocol = iota
	ProtocolUDPIP
	ProtocolTCPIP
	ProtocolLoWPAN
	ProtocolBluetooth
	ProtocolHTTP
	ProtocolFile
	ProtocolDgramUDP
	ProtocolDgramEthernet
	ProtocolDgramLoWPAN
	ProtocolP2PWiFi
	ProtocolP2PBluetooth
	ProtocolEmail
	ProtocolDHT
	ProtocolDTNTP
	ProtocolUnsupported
)

// protocolShortTags is the single source of truth for the protocol <->
// short-tag string mapping; String() and ProtocolFromShortTag both derive
// from it so the two directions can never drift apart.
var protocolShortTags = map[ConvergenceLayerProtocol]string{
	ProtocolUndefined:     "undefined",
	ProtocolUDPIP:         "udpcl",
	ProtocolTCPIP:         "tcpcl",
	ProtocolLoWPAN:        "lowpancl",
	ProtocolBluetooth:     "bt",
	ProtocolHTTP:          "http",
	ProtocolFile:          "file",
	ProtocolDgramUDP:      "dgram:udp",
	ProtocolDgramEthernet: "dgram:eth",
	ProtocolDgramLoWPAN:   "dgram:lowpan",
	ProtocolP2PWiFi:       "p2p:wifi",
	ProtocolP2PBluetooth:  "p2p:bt",
	ProtocolEmail:         "email",
	ProtocolDHT:           "dhtns",
	ProtocolDTNTP:         "dtntp",
	ProtocolUnsupported:   "unsupported",
}

var shortTagToProtocol = func() map[string]ConvergenceLayerProtocol {
	m := make(map[string]ConvergenceLayerProtocol, len(protocolShortTags))
	for p, s := range protocolShortTags {
		m[s] = p
	}
	return m
}()

// String renders the short protocol tag, or "unknown" for a value outside
// the closed enumeration (reachable only via an invalid int conversion).
func (p ConvergenceLayerProtocol) String() string {
	if s, ok := protocolShortTags[p]; ok {
		return s
	}
	return "unknown"
}

// ProtocolFromShortTag maps a v00/v01 protocol-name string back to its
// ConvergenceLayerProtocol. An unrecognized tag maps to ProtocolUnsupported
// rather than failing: the beacon parser should still be able to recover
// the raw parameter bytes for a protocol it doesn't understand.
func ProtocolFromShortTag(tag string) ConvergenceLayerProtocol {
	if p, ok := shortTagToProtocol[tag]; ok {
		return p
	}
	return ProtocolUnsupported
}
