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
	"errors"
	"fmt"
)

// Beacon flag bits. Only the period-presence bit is interpreted by this
// codec; other bits are carried opaquely in Flags.
const (
	FlagPeriodPresent uint8 = 0x01
)

// DiscoveryBeacon is the outer envelope advertised on the link: a protocol
// version, a flag byte, the advertising node's EID, a sequence number, an
// optional advertisement period (draft-02 only), and the service list.
type DiscoveryBeacon struct {
	Version  ProtocolVersion
	Flags    uint8
	EID      string
	Sequence uint16
	Period   *uint16
	Services []*DiscoveryService
}

// Equal compares two beacons field by field, using DiscoveryService.Equal
// (and so ServiceParam.Equal) for the service list.
func (b *DiscoveryBeacon) Equal(o *DiscoveryBeacon) bool {
	if b == nil || o == nil {
		return b == o
	}
	if b.Version != o.Version || b.Flags != o.Flags || b.EID != o.EID || b.Sequence != o.Sequence {
		return false
	}
	if (b.Period == nil) != (o.Period == nil) {
		return false
	}
	if b.Period != nil && *b.Period != *o.Period {
		return false
	}
	if len(b.Services) != len(o.Services) {
		return false
	}
	for i := range b.Services {
		if !b.Services[i].Equal(o.Services[i]) {
			return false
		}
	}
	return true
}

// Serialize renders the complete beacon datagram for b.Version.
func (b *DiscoveryBeacon) Serialize() ([]byte, error) {
	if !b.Version.Valid() {
		return nil, fmt.Errorf("%w: 0x%02x", ErrWrongVersion, byte(b.Version))
	}

	buf := []byte{byte(b.Version)}
	flags := b.Flags
	if b.Version.Binary() && b.Period != nil {
		flags |= FlagPeriodPresent
	} else {
		flags &^= FlagPeriodPresent
	}
	buf = append(buf, flags)
	buf = writeLengthPrefixedBytes(buf, []byte(b.EID))
	buf = append(buf, byte(b.Sequence>>8), byte(b.Sequence))

	if b.Version.Binary() {
		if b.Period != nil {
			buf = append(buf, byte(*b.Period>>8), byte(*b.Period))
		}
		buf = append(buf, sdnvEncode(uint64(len(b.Services)))...)
		for _, s := range b.Services {
			sBytes, err := s.Serialize(b.Version)
			if err != nil {
				return nil, fmt.Errorf("service %q: %w", s.Name, err)
			}
			buf = append(buf, sBytes...)
		}
		return buf, nil
	}

	for _, s := range b.Services {
		sBytes, err := s.Serialize(b.Version)
		if err != nil {
			return nil, fmt.Errorf("service %q: %w", s.Name, err)
		}
		buf = append(buf, sBytes...)
	}
	return buf, nil
}

// DeserializeDiscoveryBeacon parses a complete beacon datagram. A malformed
// service is skipped rather than aborting the whole parse: recoverable
// errors (unknown tag, length mismatch, illegal combination) are reported
// to log and the parser resumes at the next service; anything else
// surfaces immediately.
func DeserializeDiscoveryBeacon(data []byte, log Logger) (*DiscoveryBeacon, error) {
	if log == nil {
		log = NopLogger{}
	}
	if len(data) < 2 {
		return nil, &ParseError{Err: ErrTruncated, BytesRead: len(data)}
	}
	version := ProtocolVersion(data[0])
	if !version.Valid() {
		return nil, fmt.Errorf("%w: 0x%02x", ErrWrongVersion, data[0])
	}
	flags := data[1]
	pos := 2

	eid, n, err := readLengthPrefixedBytes(data[pos:])
	if err != nil {
		return nil, annotateOffset(err, pos)
	}
	pos += n

	if len(data)-pos < 2 {
		return nil, &ParseError{Err: ErrTruncated, BytesRead: pos}
	}
	sequence := uint16(data[pos])<<8 | uint16(data[pos+1])
	pos += 2

	// The period-presence bit is derived from Period by Serialize, so it is
	// not carried in Flags.
	b := &DiscoveryBeacon{Version: version, Flags: flags &^ FlagPeriodPresent, EID: string(eid), Sequence: sequence}

	if version.Binary() {
		if flags&FlagPeriodPresent != 0 {
			if len(data)-pos < 2 {
				return nil, &ParseError{Err: ErrTruncated, BytesRead: pos}
			}
			period := uint16(data[pos])<<8 | uint16(data[pos+1])
			b.Period = &period
			pos += 2
		}
		count, n, err := sdnvDecode(data[pos:])
		if err != nil {
			return nil, annotateOffset(err, pos)
		}
		pos += n

		for i := uint64(0); i < count; i++ {
			svc, consumed, err := DeserializeDiscoveryService(version, data[pos:])
			if err := recoverOrFail(b, svc, consumed, err, &pos, log); err != nil {
				return nil, err
			}
		}
		return b, nil
	}

	for pos < len(data) {
		svc, consumed, err := DeserializeDiscoveryService(version, data[pos:])
		if err := recoverOrFail(b, svc, consumed, err, &pos, log); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// recoverOrFail advances pos past one service frame, appending svc to the
// beacon on success. On a recoverable ParseError it logs the skip and
// advances by BytesRead+Skipped so the caller's loop can continue;
// non-recoverable errors are returned for the caller to propagate.
func recoverOrFail(b *DiscoveryBeacon, svc *DiscoveryService, consumed int, err error, pos *int, log Logger) error {
	if err == nil {
		b.Services = append(b.Services, svc)
		*pos += consumed
		return nil
	}
	var pe *ParseError
	if errors.As(err, &pe) && pe.Recoverable() {
		log.Warnf("ipnd: skipping malformed service at offset %d: %v", *pos, pe)
		*pos += pe.BytesRead + pe.Skipped
		return nil
	}
	return annotateOffset(err, *pos)
}

// annotateOffset rewrites a *ParseError's BytesRead to be relative to the
// start of the beacon frame rather than the start of the failed field, per
// §7's "every parse error carries a byte offset from the start of the
// current frame".
func annotateOffset(err error, base int) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		return &ParseError{Err: pe.Err, BytesRead: base + pe.BytesRead, Skipped: pe.Skipped, Tag: pe.Tag}
	}
	return err
}
