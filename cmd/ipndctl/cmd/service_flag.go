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

package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dtnx/ipnd/ipnd"
)

// parseServiceFlag parses one --service flag value of the form
// "kind=param", where kind selects a ConvergenceLayerProtocol and param is
// interpreted per kind:
//
//	tcp=ADDR:PORT           udp=ADDR:PORT
//	lowpan=PANID:PORT       dgram-udp=ADDR
//	dgram-eth=ADDR          dgram-lowpan=ADDR
//	email=ADDR              dht=PORT:PROXY
//	dtntp=VERSION:QUALITY:TIMESTAMP
func parseServiceFlag(s string) (*ipnd.DiscoveryService, error) {
	kind, param, ok := strings.Cut(s, "=")
	if !ok {
		return nil, fmt.Errorf("malformed --service %q, want kind=param", s)
	}

	switch kind {
	case "tcp", "udp":
		addr, portStr, ok := strings.Cut(param, ":")
		if !ok {
			return nil, fmt.Errorf("malformed %s service %q, want ADDR:PORT", kind, param)
		}
		port, err := parseUint16(portStr)
		if err != nil {
			return nil, err
		}
		protocol := ipnd.ProtocolTCPIP
		if kind == "udp" {
			protocol = ipnd.ProtocolUDPIP
		}
		return ipnd.NewDiscoveryService(protocol, &ipnd.IPServiceParam{Address: addr, Port: port}), nil

	case "lowpan":
		panStr, portStr, ok := strings.Cut(param, ":")
		if !ok {
			return nil, fmt.Errorf("malformed lowpan service %q, want PANID:PORT", param)
		}
		pan, err := parseUint16(panStr)
		if err != nil {
			return nil, err
		}
		port, err := parseUint16(portStr)
		if err != nil {
			return nil, err
		}
		return ipnd.NewDiscoveryService(ipnd.ProtocolLoWPAN, &ipnd.LOWPANServiceParam{PANID: pan, Port: port}), nil

	case "dgram-udp", "dgram-eth", "dgram-lowpan":
		protocol := map[string]ipnd.ConvergenceLayerProtocol{
			"dgram-udp":    ipnd.ProtocolDgramUDP,
			"dgram-eth":    ipnd.ProtocolDgramEthernet,
			"dgram-lowpan": ipnd.ProtocolDgramLoWPAN,
		}[kind]
		return ipnd.NewDiscoveryService(protocol, &ipnd.DatagramServiceParam{Address: param}), nil

	case "email":
		return ipnd.NewDiscoveryService(ipnd.ProtocolEmail, &ipnd.EMailServiceParam{Address: param}), nil

	case "dht":
		portStr, proxyStr, ok := strings.Cut(param, ":")
		if !ok {
			return nil, fmt.Errorf("malformed dht service %q, want PORT:PROXY", param)
		}
		port, err := parseUint16(portStr)
		if err != nil {
			return nil, err
		}
		proxy, err := strconv.ParseBool(proxyStr)
		if err != nil {
			return nil, fmt.Errorf("malformed dht proxy flag %q: %w", proxyStr, err)
		}
		return ipnd.NewDiscoveryService(ipnd.ProtocolDHT, &ipnd.DHTServiceParam{Port: port, Proxy: proxy}), nil

	case "dtntp":
		parts := strings.Split(param, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("malformed dtntp service %q, want VERSION:QUALITY:TIMESTAMP", param)
		}
		version, err := strconv.ParseUint(parts[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("malformed dtntp version %q: %w", parts[0], err)
		}
		quality, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("malformed dtntp quality %q: %w", parts[1], err)
		}
		timestamp, err := strconv.ParseUint(parts[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed dtntp timestamp %q: %w", parts[2], err)
		}
		return ipnd.NewDiscoveryService(ipnd.ProtocolDTNTP, &ipnd.DTNTPServiceParam{
			Version: uint32(version), Quality: quality, Timestamp: timestamp,
		}), nil

	default:
		return nil, fmt.Errorf("unknown service kind %q", kind)
	}
}

func parseUint16(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid uint16 %q: %w", s, err)
	}
	return uint16(v), nil
}

// parseVersionFlag maps the CLI's human-friendly version names to
// ipnd.ProtocolVersion.
func parseVersionFlag(s string) (ipnd.ProtocolVersion, error) {
	switch s {
	case "legacy", "0x00":
		return ipnd.ProtocolVersionLegacy, nil
	case "draft-00", "0x01":
		return ipnd.ProtocolVersionDraft00, nil
	case "draft-01", "0x02":
		return ipnd.ProtocolVersionDraft01, nil
	case "draft-02", "0x04", "":
		return ipnd.ProtocolVersionDraft02, nil
	default:
		return 0, fmt.Errorf("unknown beacon version %q", s)
	}
}
