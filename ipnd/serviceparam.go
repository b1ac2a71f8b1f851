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
	"fmt"
	"math"
	"net"
	"strconv"
)

// ServiceParam is the sum type of the six concrete parameter shapes a
// DiscoveryService can carry. A single switch in factory.go is the only
// place that needs to know all the concrete types; everywhere else code
// holds this interface.
type ServiceParam interface {
	// IPNDServiceTag returns the v02 constructed tag this parameter is
	// framed under when advertised for protocol. It fails if protocol is
	// not a binding this variant supports.
	IPNDServiceTag(protocol ConvergenceLayerProtocol) (ServiceTag, error)
	// EncodedLength is the exact octet count Serialize(version) produces.
	EncodedLength(version ProtocolVersion) int
	// Serialize renders the parameter body only (the binary TLV payload
	// under version's draft-02 framing, or the key=value/raw string under
	// the legacy/draft textual framing).
	Serialize(version ProtocolVersion) ([]byte, error)
	// Equal reports variant-aware equality, per the comparison rules in
	// the data model (parsed-address comparison for IP, tolerance
	// comparison for DTNTP quality).
	Equal(other ServiceParam) bool
}

// IPServiceParam advertises a CLA reachable at an IPv4 or IPv6 address and
// port. Address family is inferred from the address string, not stored
// separately.
type IPServiceParam struct {
	Address string
	Port    uint16
}

func (p *IPServiceParam) family() (v4 net.IP, v6 net.IP) {
	if p.Address == "" {
		return nil, nil
	}
	ip := net.ParseIP(p.Address)
	if ip == nil {
		return nil, nil
	}
	if v4 := ip.To4(); v4 != nil {
		return v4, nil
	}
	return nil, ip.To16()
}

func (p *IPServiceParam) IPNDServiceTag(protocol ConvergenceLayerProtocol) (ServiceTag, error) {
	v4, v6 := p.family()
	switch {
	case v4 != nil && protocol == ProtocolTCPIP:
		return ServiceTagTCPv4, nil
	case v4 != nil && protocol == ProtocolUDPIP:
		return ServiceTagUDPv4, nil
	case v6 != nil && protocol == ProtocolTCPIP:
		return ServiceTagTCPv6, nil
	case v6 != nil && protocol == ProtocolUDPIP:
		return ServiceTagUDPv6, nil
	default:
		return 0, fmt.Errorf("%w: no IP service tag for protocol %s with address %q", ErrIllegalService, protocol, p.Address)
	}
}

func (p *IPServiceParam) Serialize(version ProtocolVersion) ([]byte, error) {
	if version.Binary() {
		v4, v6 := p.family()
		switch {
		case v4 != nil:
			var buf []byte
			buf = writeFixed32(buf, uint32(v4[0])<<24|uint32(v4[1])<<16|uint32(v4[2])<<8|uint32(v4[3]))
			buf = writeFixed16(buf, p.Port)
			return buf, nil
		case v6 != nil:
			var buf []byte
			buf = writeBytes(buf, v6)
			buf = writeFixed16(buf, p.Port)
			return buf, nil
		default:
			return nil, fmt.Errorf("%w: IP service param has no valid address family", ErrIllegalService)
		}
	}
	pairs := [][2]string{{"port", strconv.Itoa(int(p.Port))}}
	if p.Address != "" {
		pairs = append(pairs, [2]string{"ip", p.Address})
	}
	return []byte(joinKeyValuePairs(pairs)), nil
}

func (p *IPServiceParam) EncodedLength(version ProtocolVersion) int {
	b, err := p.Serialize(version)
	if err != nil {
		return 0
	}
	return len(b)
}

func (p *IPServiceParam) Equal(other ServiceParam) bool {
	o, ok := other.(*IPServiceParam)
	if !ok {
		return false
	}
	if p.Port != o.Port {
		return false
	}
	pa, oa := net.ParseIP(p.Address), net.ParseIP(o.Address)
	if pa == nil || oa == nil {
		return p.Address == o.Address
	}
	return pa.Equal(oa)
}

// decodeIPServiceParam decodes a v02 IP service body; tag distinguishes the
// v4 (FIXED32 address) layout from the v6 (16-byte BYTES address) layout.
func decodeIPServiceParam(tag ServiceTag, body []byte) (*IPServiceParam, error) {
	switch tag {
	case ServiceTagTCPv4, ServiceTagUDPv4:
		if len(body) != 8 {
			return nil, fmt.Errorf("%w: IPv4 service body must be 8 bytes, got %d", ErrLengthMismatch, len(body))
		}
		addr, n, err := readFixed32(body)
		if err != nil {
			return nil, err
		}
		port, _, err := readFixed16(body[n:])
		if err != nil {
			return nil, err
		}
		ip := net.IPv4(byte(addr>>24), byte(addr>>16), byte(addr>>8), byte(addr))
		return &IPServiceParam{Address: ip.String(), Port: port}, nil
	case ServiceTagTCPv6, ServiceTagUDPv6:
		if len(body) != 21 {
			return nil, fmt.Errorf("%w: IPv6 service body must be 21 bytes, got %d", ErrLengthMismatch, len(body))
		}
		addr, n, err := readBytes(body)
		if err != nil {
			return nil, err
		}
		if len(addr) != 16 {
			return nil, fmt.Errorf("%w: IPv6 address must be 16 bytes, got %d", ErrLengthMismatch, len(addr))
		}
		port, _, err := readFixed16(body[n:])
		if err != nil {
			return nil, err
		}
		return &IPServiceParam{Address: net.IP(addr).String(), Port: port}, nil
	default:
		return nil, fmt.Errorf("%w: tag 0x%02x is not an IP service tag", ErrUnknownService, byte(tag))
	}
}

// LOWPANServiceParam advertises a CLA reachable on a 6LoWPAN PAN at a given
// port. v00/v01 cannot distinguish it from IPServiceParam on the wire; the
// factory tells them apart by address length (see factory.go).
type LOWPANServiceParam struct {
	PANID uint16
	Port  uint16
}

func (p *LOWPANServiceParam) IPNDServiceTag(ConvergenceLayerProtocol) (ServiceTag, error) {
	return ServiceTagLoWPAN, nil
}

func (p *LOWPANServiceParam) Serialize(version ProtocolVersion) ([]byte, error) {
	if version.Binary() {
		var buf []byte
		buf = writeFixed16(buf, p.PANID)
		buf = writeFixed16(buf, p.Port)
		return buf, nil
	}
	pairs := [][2]string{
		{"port", strconv.Itoa(int(p.Port))},
		{"ip", strconv.Itoa(int(p.PANID))},
	}
	return []byte(joinKeyValuePairs(pairs)), nil
}

func (p *LOWPANServiceParam) EncodedLength(version ProtocolVersion) int {
	b, _ := p.Serialize(version)
	return len(b)
}

func (p *LOWPANServiceParam) Equal(other ServiceParam) bool {
	o, ok := other.(*LOWPANServiceParam)
	return ok && p.PANID == o.PANID && p.Port == o.Port
}

func decodeLOWPANServiceParam(body []byte) (*LOWPANServiceParam, error) {
	if len(body) != 6 {
		return nil, fmt.Errorf("%w: LoWPAN service body must be 6 bytes, got %d", ErrLengthMismatch, len(body))
	}
	panID, n, err := readFixed16(body)
	if err != nil {
		return nil, err
	}
	port, _, err := readFixed16(body[n:])
	if err != nil {
		return nil, err
	}
	return &LOWPANServiceParam{PANID: panID, Port: port}, nil
}

// DatagramServiceParam advertises a CLA addressed by an opaque link-layer
// address string (a MAC address, a bundle-in-datagram address, etc).
type DatagramServiceParam struct {
	Address string
}

func (p *DatagramServiceParam) IPNDServiceTag(protocol ConvergenceLayerProtocol) (ServiceTag, error) {
	switch protocol {
	case ProtocolDgramUDP:
		return ServiceTagDgramUDP, nil
	case ProtocolDgramEthernet:
		return ServiceTagDgramEthernet, nil
	case ProtocolDgramLoWPAN:
		return ServiceTagDgramLoWPAN, nil
	default:
		return 0, fmt.Errorf("%w: protocol %s has no datagram service tag", ErrIllegalService, protocol)
	}
}

func (p *DatagramServiceParam) Serialize(version ProtocolVersion) ([]byte, error) {
	if version.Binary() {
		return writeString(nil, p.Address), nil
	}
	return []byte(p.Address), nil
}

func (p *DatagramServiceParam) EncodedLength(version ProtocolVersion) int {
	b, _ := p.Serialize(version)
	return len(b)
}

func (p *DatagramServiceParam) Equal(other ServiceParam) bool {
	o, ok := other.(*DatagramServiceParam)
	return ok && p.Address == o.Address
}

func decodeDatagramServiceParam(body []byte) (*DatagramServiceParam, error) {
	s, n, err := readString(body)
	if err != nil {
		return nil, err
	}
	if n != len(body) {
		return nil, fmt.Errorf("%w: datagram service body has %d trailing bytes", ErrLengthMismatch, len(body)-n)
	}
	return &DatagramServiceParam{Address: s}, nil
}

// decodeDatagramServiceParamText decodes the v00/v01 form, where the
// parameter string is the raw address with no key=value wrapping at all.
func decodeDatagramServiceParamText(body []byte) (*DatagramServiceParam, error) {
	return &DatagramServiceParam{Address: string(body)}, nil
}

// EMailServiceParam advertises a CLA reachable at an e-mail address.
type EMailServiceParam struct {
	Address string
}

func (p *EMailServiceParam) IPNDServiceTag(ConvergenceLayerProtocol) (ServiceTag, error) {
	return ServiceTagEmail, nil
}

func (p *EMailServiceParam) Serialize(version ProtocolVersion) ([]byte, error) {
	if version.Binary() {
		return writeString(nil, p.Address), nil
	}
	return []byte(joinKeyValuePairs([][2]string{{"email", p.Address}})), nil
}

func (p *EMailServiceParam) EncodedLength(version ProtocolVersion) int {
	b, _ := p.Serialize(version)
	return len(b)
}

func (p *EMailServiceParam) Equal(other ServiceParam) bool {
	o, ok := other.(*EMailServiceParam)
	return ok && p.Address == o.Address
}

func decodeEMailServiceParam(body []byte) (*EMailServiceParam, error) {
	s, n, err := readString(body)
	if err != nil {
		return nil, err
	}
	if n != len(body) {
		return nil, fmt.Errorf("%w: email service body has %d trailing bytes", ErrLengthMismatch, len(body)-n)
	}
	return &EMailServiceParam{Address: s}, nil
}

// DHTServiceParam advertises a DHT-based rendezvous service.
type DHTServiceParam struct {
	Port  uint16
	Proxy bool
}

func (p *DHTServiceParam) IPNDServiceTag(ConvergenceLayerProtocol) (ServiceTag, error) {
	return ServiceTagDHT, nil
}

func (p *DHTServiceParam) Serialize(version ProtocolVersion) ([]byte, error) {
	if version.Binary() {
		var buf []byte
		buf = writeFixed16(buf, p.Port)
		buf = writeBoolean(buf, p.Proxy)
		return buf, nil
	}
	var pairs [][2]string
	if p.Port != 0 {
		pairs = append(pairs, [2]string{"port", strconv.Itoa(int(p.Port))})
	}
	if !p.Proxy {
		pairs = append(pairs, [2]string{"proxy", "false"})
	}
	return []byte(joinKeyValuePairs(pairs)), nil
}

func (p *DHTServiceParam) EncodedLength(version ProtocolVersion) int {
	b, _ := p.Serialize(version)
	return len(b)
}

func (p *DHTServiceParam) Equal(other ServiceParam) bool {
	o, ok := other.(*DHTServiceParam)
	return ok && p.Port == o.Port && p.Proxy == o.Proxy
}

func decodeDHTServiceParam(body []byte) (*DHTServiceParam, error) {
	if len(body) != 5 {
		return nil, fmt.Errorf("%w: DHT service body must be 5 bytes, got %d", ErrLengthMismatch, len(body))
	}
	port, n, err := readFixed16(body)
	if err != nil {
		return nil, err
	}
	proxy, _, err := readBoolean(body[n:])
	if err != nil {
		return nil, err
	}
	return &DHTServiceParam{Port: port, Proxy: proxy}, nil
}

// decodeDHTServiceParamText decodes the v00/v01 grammar, where proxy
// defaults to true and is emitted only when false, and port is emitted only
// when non-zero.
func decodeDHTServiceParamText(body []byte) (*DHTServiceParam, error) {
	kv := parseKeyValueString(string(body))
	out := &DHTServiceParam{Proxy: true}
	if v, ok := kv["port"]; ok {
		port, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid DHT port %q", ErrIllegalService, v)
		}
		out.Port = uint16(port)
	}
	if v, ok := kv["proxy"]; ok {
		out.Proxy = parseBoolClean(v)
	}
	return out, nil
}

// DTNTPServiceParam advertises a DTNTP time-synchronization service. Quality
// travels as decimal text to avoid cross-platform float representation
// issues; equality uses an absolute tolerance (see Equal).
type DTNTPServiceParam struct {
	Version   uint32
	Quality   float64
	Timestamp uint64
}

func (p *DTNTPServiceParam) IPNDServiceTag(ConvergenceLayerProtocol) (ServiceTag, error) {
	return ServiceTagDTNTP, nil
}

func formatQuality(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

func (p *DTNTPServiceParam) Serialize(version ProtocolVersion) ([]byte, error) {
	if version.Binary() {
		var buf []byte
		buf = writeUint64(buf, uint64(p.Version))
		buf = writeString(buf, formatQuality(p.Quality))
		buf = writeUint64(buf, p.Timestamp)
		return buf, nil
	}
	pairs := [][2]string{
		{"version", strconv.FormatUint(uint64(p.Version), 10)},
		{"quality", formatQuality(p.Quality)},
		{"timestamp", strconv.FormatUint(p.Timestamp, 10)},
	}
	return []byte(joinKeyValuePairs(pairs)), nil
}

func (p *DTNTPServiceParam) EncodedLength(version ProtocolVersion) int {
	b, _ := p.Serialize(version)
	return len(b)
}

func (p *DTNTPServiceParam) Equal(other ServiceParam) bool {
	o, ok := other.(*DTNTPServiceParam)
	if !ok {
		return false
	}
	return p.Version == o.Version && p.Timestamp == o.Timestamp && math.Abs(p.Quality-o.Quality) < 1e-4
}

func decodeDTNTPServiceParam(body []byte) (*DTNTPServiceParam, error) {
	version, n, err := readUint64(body)
	if err != nil {
		return nil, err
	}
	qualityStr, m, err := readString(body[n:])
	if err != nil {
		return nil, err
	}
	n += m
	timestamp, m, err := readUint64(body[n:])
	if err != nil {
		return nil, err
	}
	n += m
	if n != len(body) {
		return nil, fmt.Errorf("%w: DTNTP service body has %d trailing bytes", ErrLengthMismatch, len(body)-n)
	}
	quality, err := strconv.ParseFloat(qualityStr, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid DTNTP quality %q", ErrLengthMismatch, qualityStr)
	}
	return &DTNTPServiceParam{Version: uint32(version), Quality: quality, Timestamp: timestamp}, nil
}

func decodeDTNTPServiceParamText(kv map[string]string) (*DTNTPServiceParam, error) {
	version, err := strconv.ParseUint(kv["version"], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid DTNTP version %q", ErrIllegalService, kv["version"])
	}
	quality, err := strconv.ParseFloat(kv["quality"], 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid DTNTP quality %q", ErrIllegalService, kv["quality"])
	}
	timestamp, err := strconv.ParseUint(kv["timestamp"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid DTNTP timestamp %q", ErrIllegalService, kv["timestamp"])
	}
	return &DTNTPServiceParam{Version: uint32(version), Quality: quality, Timestamp: timestamp}, nil
}
