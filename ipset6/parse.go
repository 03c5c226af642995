package ipset6

import (
	"net/netip"
	"strings"

	"gopkg.in/src-d/go-errors.v1"
	"lukechampine.com/uint128"
)

var (
	// ErrInvalidAddress is returned when a string is not an IPv6 address.
	ErrInvalidAddress = errors.NewKind("invalid IPv6 address %q")

	// ErrInvalidRange is returned when a string matches none of the
	// accepted range notations.
	ErrInvalidRange = errors.NewKind("invalid IPv6 range %q")
)

// ParseIPv6 parses an address in any of the textual forms of RFC 4291,
// such as 2001:db8::1 or ::ffff:10.0.0.1. Dotted IPv4 addresses and
// scoped addresses with a zone are rejected.
func ParseIPv6(s string) (uint128.Uint128, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil || !addr.Is6() || addr.Zone() != "" {
		return uint128.Zero, ErrInvalidAddress.New(s)
	}
	return AddrToUint128(addr), nil
}

// ParseRange parses one of the notations below into an interval:
//
//	2001:db8::1                  single address
//	2001:db8::/32                CIDR block, host bits are cleared
//	2001:db8::1-2001:db8::ff     inclusive range, bounds in any order
func ParseRange(s string) (Interval, error) {
	if strings.Contains(s, "/") {
		p, err := netip.ParsePrefix(s)
		if err != nil || !p.Addr().Is6() || p.Bits() < 1 {
			return Interval{}, ErrInvalidRange.New(s)
		}
		return prefixInterval(p)
	}

	if lo, hi, ok := strings.Cut(s, "-"); ok {
		a, errA := ParseIPv6(lo)
		b, errB := ParseIPv6(hi)
		if errA != nil || errB != nil {
			return Interval{}, ErrInvalidRange.New(s)
		}
		return MakeInterval(a, b), nil
	}

	v, err := ParseIPv6(s)
	if err != nil {
		return Interval{}, ErrInvalidRange.New(s)
	}
	return MakeInterval(v, v), nil
}
