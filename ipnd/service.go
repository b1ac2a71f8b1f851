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

// DiscoveryService is one entry in a beacon's service list: a convergence
// layer binding, the short name it was (or would be) advertised under, and
// its parameter body.
type DiscoveryService struct {
	Protocol ConvergenceLayerProtocol
	Name     string
	Param    ServiceParam
}

// NewDiscoveryService builds a service entry, deriving Name from protocol so
// the two can never disagree.
func NewDiscoveryService(protocol ConvergenceLayerProtocol, param ServiceParam) *DiscoveryService {
	return &DiscoveryService{Protocol: protocol, Name: protocol.String(), Param: param}
}

// SetParam replaces this service's parameter in place, mirroring the
// update-in-place operation the original daemon exposes alongside
// construction.
func (s *DiscoveryService) SetParam(p ServiceParam) {
	s.Param = p
}

// Equal compares two services by protocol and parameter; Name is derived
// and not compared independently.
func (s *DiscoveryService) Equal(o *DiscoveryService) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.Protocol == o.Protocol && s.Param.Equal(o.Param)
}

// Serialize renders this service's complete on-wire frame for version:
// tag + SDNV length + body for draft-02, or LengthPrefixedBytes(name) +
// LengthPrefixedBytes(param) for the textual revisions.
func (s *DiscoveryService) Serialize(version ProtocolVersion) ([]byte, error) {
	if version.Binary() {
		tag, err := s.Param.IPNDServiceTag(s.Protocol)
		if err != nil {
			return nil, err
		}
		body, err := s.Param.Serialize(version)
		if err != nil {
			return nil, err
		}
		buf := make([]byte, 0, 1+sdnvLen(uint64(len(body)))+len(body))
		buf = append(buf, byte(tag))
		buf = append(buf, sdnvEncode(uint64(len(body)))...)
		buf = append(buf, body...)
		return buf, nil
	}

	// v00/v01: textual framing. Falls through and returns normally instead
	// of the original's fallthrough-into-default WrongVersion throw.
	paramBody, err := s.Param.Serialize(version)
	if err != nil {
		return nil, err
	}
	var buf []byte
	buf = writeLengthPrefixedBytes(buf, []byte(s.Protocol.String()))
	buf = writeLengthPrefixedBytes(buf, paramBody)
	return buf, nil
}

// DeserializeDiscoveryService parses one service frame from the head of
// buf, returning the service and the number of bytes consumed. On a
// recoverable failure the returned *ParseError's BytesRead and Skipped
// fields together say exactly how far the caller must advance to resume
// with the next service.
func DeserializeDiscoveryService(version ProtocolVersion, buf []byte) (*DiscoveryService, int, error) {
	if version.Binary() {
		return deserializeDiscoveryServiceBinary(buf)
	}
	return deserializeDiscoveryServiceText(buf)
}

func deserializeDiscoveryServiceBinary(buf []byte) (*DiscoveryService, int, error) {
	if len(buf) < 1 {
		return nil, 0, &ParseError{Err: ErrTruncated, BytesRead: 0}
	}
	tag := ServiceTag(buf[0])
	length, n, err := sdnvDecode(buf[1:])
	if err != nil {
		return nil, 1, &ParseError{Err: ErrTruncated, BytesRead: 1}
	}
	headerLen := 1 + n
	const maxServiceBody = 64 * 1024
	if length > maxServiceBody {
		return nil, headerLen, &ParseError{Err: ErrTruncated, BytesRead: headerLen}
	}
	if uint64(len(buf)-headerLen) < length {
		return nil, len(buf), &ParseError{Err: ErrTruncated, BytesRead: len(buf)}
	}
	body := buf[headerLen : headerLen+int(length)]
	total := headerLen + int(length)

	param, protocol, err := paramFromV02Tag(tag, body)
	if err != nil {
		return nil, headerLen, &ParseError{
			Err:       err,
			BytesRead: headerLen,
			Skipped:   int(length),
			Tag:       byte(tag),
		}
	}
	return &DiscoveryService{Protocol: protocol, Name: protocol.String(), Param: param}, total, nil
}

func deserializeDiscoveryServiceText(buf []byte) (*DiscoveryService, int, error) {
	name, n1, err := readLengthPrefixedBytes(buf)
	if err != nil {
		return nil, n1, err
	}
	paramBytes, n2, err := readLengthPrefixedBytes(buf[n1:])
	if err != nil {
		return nil, n1 + n2, err
	}
	total := n1 + n2

	protocol := ProtocolFromShortTag(string(name))
	var param ServiceParam
	switch protocol {
	case ProtocolDgramUDP, ProtocolDgramEthernet, ProtocolDgramLoWPAN:
		param, err = decodeDatagramServiceParamText(paramBytes)
	case ProtocolDHT:
		param, err = decodeDHTServiceParamText(paramBytes)
	default:
		param, err = paramFromKeyValueString(string(paramBytes))
	}
	if err != nil {
		return nil, total, &ParseError{Err: fmt.Errorf("service %q: %w", name, err), BytesRead: total}
	}
	return &DiscoveryService{Protocol: protocol, Name: string(name), Param: param}, total, nil
}
