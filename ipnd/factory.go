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

// paramFromV02Tag dispatches a draft-02 constructed tag plus its declared
// body to the concrete ServiceParam variant, validating the declared
// length against the variant's expected wire layout along the way. The
// returned protocol is the binding the tag implies (needed by callers that
// want to reconstruct a DiscoveryService without re-deriving it).
func paramFromV02Tag(tag ServiceTag, body []byte) (ServiceParam, ConvergenceLayerProtocol, error) {
	switch tag {
	case ServiceTagTCPv4:
		p, err := decodeIPServiceParam(tag, body)
		return p, ProtocolTCPIP, err
	case ServiceTagUDPv4:
		p, err := decodeIPServiceParam(tag, body)
		return p, ProtocolUDPIP, err
	case ServiceTagTCPv6:
		p, err := decodeIPServiceParam(tag, body)
		return p, ProtocolTCPIP, err
	case ServiceTagUDPv6:
		p, err := decodeIPServiceParam(tag, body)
		return p, ProtocolUDPIP, err
	case ServiceTagDgramUDP:
		p, err := decodeDatagramServiceParam(body)
		return p, ProtocolDgramUDP, err
	case ServiceTagDgramEthernet:
		p, err := decodeDatagramServiceParam(body)
		return p, ProtocolDgramEthernet, err
	case ServiceTagDgramLoWPAN:
		p, err := decodeDatagramServiceParam(body)
		return p, ProtocolDgramLoWPAN, err
	case ServiceTagLoWPAN:
		p, err := decodeLOWPANServiceParam(body)
		return p, ProtocolLoWPAN, err
	case ServiceTagEmail:
		p, err := decodeEMailServiceParam(body)
		return p, ProtocolEmail, err
	case ServiceTagDHT:
		p, err := decodeDHTServiceParam(body)
		return p, ProtocolDHT, err
	case ServiceTagDTNTP:
		p, err := decodeDTNTPServiceParam(body)
		return p, ProtocolDTNTP, err
	default:
		return nil, ProtocolUndefined, fmt.Errorf("%w: tag 0x%02x", ErrUnknownService, byte(tag))
	}
}

// paramFromKeyValueString classifies a v00/v01 key=value parameter string
// by the keys it contains, in the fixed precedence order a caller cannot
// reorder: email, then DTNTP's triple, then the LoWPAN/IP ambiguity
// resolved by address length, then plain IP, then failure. Datagram and
// DHT never reach this function: their grammars are structured (DHT) or
// keyless (Datagram) and are decoded directly by the caller once the
// protocol name off the wire already identifies them.
func paramFromKeyValueString(s string) (ServiceParam, error) {
	kv := parseKeyValueString(s)

	if _, ok := kv["email"]; ok {
		return &EMailServiceParam{Address: kv["email"]}, nil
	}

	_, hasVersion := kv["version"]
	_, hasQuality := kv["quality"]
	_, hasTimestamp := kv["timestamp"]
	if hasVersion && hasQuality && hasTimestamp {
		return decodeDTNTPServiceParamText(kv)
	}

	if port, hasPort := kv["port"]; hasPort {
		address, hasAddress := kv["ip"]
		if hasAddress && len(address) <= 5 {
			panID, err := parseLOWPANAddress(address)
			if err != nil {
				return nil, err
			}
			p, err := parsePort(port)
			if err != nil {
				return nil, err
			}
			return &LOWPANServiceParam{PANID: panID, Port: p}, nil
		}
		p, err := parsePort(port)
		if err != nil {
			return nil, err
		}
		return &IPServiceParam{Address: address, Port: p}, nil
	}

	return nil, fmt.Errorf("%w: no recognizable key set in %q", ErrIllegalService, s)
}

func parsePort(s string) (uint16, error) {
	v, err := parseUintBounded(s, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid port %q", ErrIllegalService, s)
	}
	return uint16(v), nil
}

func parseLOWPANAddress(s string) (uint16, error) {
	if s == "" {
		return 0, nil
	}
	v, err := parseUintBounded(s, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid LoWPAN PAN ID %q", ErrIllegalService, s)
	}
	return uint16(v), nil
}

func parseUintBounded(s string, bits int) (uint64, error) {
	var v uint64
	if s == "" {
		return 0, fmt.Errorf("empty integer")
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("not a decimal integer: %q", s)
		}
		v = v*10 + uint64(c-'0')
	}
	if bits < 64 && v >= (uint64(1)<<uint(bits)) {
		return 0, fmt.Errorf("value %d exceeds %d bits", v, bits)
	}
	return v, nil
}
