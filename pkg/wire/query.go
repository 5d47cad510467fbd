// Package wire builds raw DNS query messages. Probes send these bytes
// directly over UDP or as a DoH request body; responses are never decoded,
// so this is the only wire-format code in the project.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

const (
	// queryID is a fixed transaction ID. Responses are timed, not matched,
	// so the ID is never validated on receipt.
	queryID = 0x1234

	// flagsStandardQuery sets the RD bit on an otherwise zero flags word.
	flagsStandardQuery = 0x0100

	typeA   = 0x0001
	classIN = 0x0001

	headerLength   = 12
	maxLabelLength = 63
)

var (
	// ErrEmptyDomain is returned when the domain name is empty
	ErrEmptyDomain = errors.New("empty domain name")

	// ErrEmptyLabel is returned when the domain contains an empty label
	ErrEmptyLabel = errors.New("empty label in domain name")

	// ErrLabelTooLong is returned when a label exceeds 63 bytes
	ErrLabelTooLong = errors.New("label exceeds 63 bytes")
)

// Encode builds a standard A-record query for domain: a 12-byte header
// (constant ID, RD flag, one question), the name as length-prefixed labels
// with a zero terminator, then QTYPE=A and QCLASS=IN. All multi-byte fields
// are big-endian. No compression, no EDNS, no additional records.
//
// A single trailing dot is accepted; empty or over-length labels are
// rejected rather than truncated, since a truncated name would probe a
// different domain than the one requested.
func Encode(domain string) ([]byte, error) {
	if domain == "" {
		return nil, ErrEmptyDomain
	}

	labels := strings.Split(strings.TrimSuffix(domain, "."), ".")
	for _, label := range labels {
		if label == "" {
			return nil, fmt.Errorf("%w: %q", ErrEmptyLabel, domain)
		}
		if len(label) > maxLabelLength {
			return nil, fmt.Errorf("%w: %q", ErrLabelTooLong, label)
		}
	}

	msg := make([]byte, headerLength, headerLength+len(domain)+6)
	binary.BigEndian.PutUint16(msg[0:2], queryID)
	binary.BigEndian.PutUint16(msg[2:4], flagsStandardQuery)
	binary.BigEndian.PutUint16(msg[4:6], 1) // QDCOUNT; remaining counts stay zero

	for _, label := range labels {
		msg = append(msg, byte(len(label)))
		msg = append(msg, label...)
	}
	msg = append(msg, 0)

	msg = binary.BigEndian.AppendUint16(msg, typeA)
	msg = binary.BigEndian.AppendUint16(msg, classIN)

	return msg, nil
}
