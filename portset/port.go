// Package portset holds sets of protocol-tagged ports as interval lists.
//
// A Port is packed into 32 bits with the protocol in the high half and the
// port number in the low half, so that all TCP ports sort before all UDP
// ports and each protocol's ports form one contiguous range.
package portset

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/src-d/go-errors.v1"
)

var (
	// ErrUnknownProtocol is returned for protocol names other than tcp,
	// udp and sctp.
	ErrUnknownProtocol = errors.NewKind("unknown protocol %q")

	// ErrInvalidPort is returned when a port or port range cannot be parsed.
	ErrInvalidPort = errors.NewKind("invalid port %q")
)

// Protocol identifies the transport of a port.
type Protocol uint16

// Supported protocols.
const (
	TCP  Protocol = 0x0100
	UDP  Protocol = 0x0200
	SCTP Protocol = 0x0300
)

func (p Protocol) String() string {
	switch p {
	case TCP:
		return "TCP"
	case UDP:
		return "UDP"
	case SCTP:
		return "SCTP"
	}
	return "unknown"
}

// Network returns the lower-case network name used by the net package,
// or "" for an unsupported protocol.
func (p Protocol) Network() string {
	switch p {
	case TCP:
		return "tcp"
	case UDP:
		return "udp"
	case SCTP:
		return "sctp"
	}
	return ""
}

// Stream reports whether the protocol is connection oriented.
func (p Protocol) Stream() bool {
	return p == TCP || p == SCTP
}

// ParseProtocol parses a protocol name, ignoring case.
func ParseProtocol(s string) (Protocol, error) {
	switch strings.ToLower(s) {
	case "tcp":
		return TCP, nil
	case "udp":
		return UDP, nil
	case "sctp":
		return SCTP, nil
	}
	return 0, ErrUnknownProtocol.New(s)
}

// Port is a port number tied to a protocol.
type Port struct {
	Value    uint16
	Protocol Protocol
}

// Uint32 packs the port as protocol<<16 | value.
func (p Port) Uint32() uint32 {
	return uint32(p.Protocol)<<16 | uint32(p.Value)
}

// FromUint32 unpacks a value built by Port.Uint32.
func FromUint32(v uint32) Port {
	return Port{Value: uint16(v), Protocol: Protocol(v >> 16)}
}

func (p Port) String() string {
	return fmt.Sprintf("%d/%s", p.Value, strings.ToLower(p.Protocol.String()))
}

// ParsePort parses "80/tcp". A missing protocol defaults to TCP.
func ParsePort(s string) (Port, error) {
	lo, hi, proto, err := parsePortRange(s)
	if err != nil {
		return Port{}, err
	}
	if lo != hi {
		return Port{}, ErrInvalidPort.New(s)
	}
	return Port{Value: lo, Protocol: proto}, nil
}

// parsePortRange reads "lo[-hi][/proto]".
func parsePortRange(s string) (lo, hi uint16, proto Protocol, err error) {
	ports, name, hasProto := strings.Cut(s, "/")
	proto = TCP
	if hasProto {
		if proto, err = ParseProtocol(name); err != nil {
			return 0, 0, 0, err
		}
	}

	first, last, isRange := strings.Cut(ports, "-")
	a, err := strconv.ParseUint(first, 10, 16)
	if err != nil {
		return 0, 0, 0, ErrInvalidPort.New(s)
	}
	b := a
	if isRange {
		if b, err = strconv.ParseUint(last, 10, 16); err != nil {
			return 0, 0, 0, ErrInvalidPort.New(s)
		}
	}
	if a > b {
		a, b = b, a
	}
	return uint16(a), uint16(b), proto, nil
}
