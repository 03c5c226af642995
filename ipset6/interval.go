// Package ipset6 holds sets of IPv6 addresses as interval lists.
//
// Addresses are 128 bit integers read in network order, 2001:db8::1 being
// uint128.New(1, 0x20010db800000000), so that ranges of addresses are
// ranges of integers. The package mirrors ipset: ranges are recorded by
// Add and Remove and applied by Aggregate.
package ipset6

import (
	"fmt"
	"net/netip"

	"lukechampine.com/uint128"
)

// Interval is an inclusive range of addresses.
type Interval struct {
	lower, upper uint128.Uint128
}

// MakeInterval returns [lower, upper]. Bounds given in the wrong order are
// swapped.
func MakeInterval(lower, upper uint128.Uint128) Interval {
	if upper.Cmp(lower) < 0 {
		lower, upper = upper, lower
	}
	return Interval{lower: lower, upper: upper}
}

func (i Interval) Lower() uint128.Uint128 { return i.lower }

func (i Interval) Upper() uint128.Uint128 { return i.upper }

// Width returns the number of addresses in the interval. The whole address
// space does not fit and saturates at uint128.Max.
func (i Interval) Width() uint128.Uint128 {
	d := i.upper.Sub(i.lower)
	if d.Equals(uint128.Max) {
		return d
	}
	return d.Add64(1)
}

// Contains reports whether v is in the interval.
func (i Interval) Contains(v uint128.Uint128) bool {
	return i.lower.Cmp(v) <= 0 && v.Cmp(i.upper) <= 0
}

func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s]", Uint128ToAddr(i.lower), Uint128ToAddr(i.upper))
}

// touches reports whether o starts inside i or right after it. i.lower <=
// o.lower is assumed.
func (i Interval) touches(o Interval) bool {
	if o.lower.Cmp(i.upper) <= 0 {
		return true
	}
	return !i.upper.Equals(uint128.Max) && o.lower.Equals(i.upper.Add64(1))
}

// AddrToUint128 converts an address. IPv4 addresses are taken in their
// IPv4-mapped form.
func AddrToUint128(addr netip.Addr) uint128.Uint128 {
	b := addr.As16()
	return uint128.FromBytesBE(b[:])
}

// Uint128ToAddr converts v back to an IPv6 address.
func Uint128ToAddr(v uint128.Uint128) netip.Addr {
	var b [16]byte
	v.PutBytesBE(b[:])
	return netip.AddrFrom16(b)
}

// Prefix returns the CIDR block covering exactly iv, if there is one.
func Prefix(iv Interval) (netip.Prefix, bool) {
	d := iv.upper.Sub(iv.lower)
	// d+1 must be a power of two and lower aligned on it
	if !d.And(d.AddWrap64(1)).IsZero() || !iv.lower.And(d).IsZero() {
		return netip.Prefix{}, false
	}
	return netip.PrefixFrom(Uint128ToAddr(iv.lower), 128-d.OnesCount()), true
}

// Format returns iv in CIDR notation when it is exactly one block, such as
// 2001:db8::/32 or ::1/128, and as lower-upper otherwise.
func Format(iv Interval) string {
	if p, ok := Prefix(iv); ok {
		return p.String()
	}
	return fmt.Sprintf("%s-%s", Uint128ToAddr(iv.lower), Uint128ToAddr(iv.upper))
}
