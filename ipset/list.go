// Package ipset holds sets of IPv4 addresses as interval lists.
//
// Addresses are stored as uint32 in host order, 10.0.0.1 being 0x0a000001,
// so that ranges of addresses are ranges of integers.
package ipset

import (
	"fmt"
	"iter"
	"math/bits"
	"net/netip"

	"github.com/pkg/errors"

	"github.com/contriboss/leeloo-go"
)

// List is a set of IPv4 addresses.
type List struct {
	leeloo.List[uint32]
}

// NewList returns an empty list.
func NewList() *List {
	return &List{}
}

// Add parses s with ParseRange and adds the addresses it describes.
func (l *List) Add(s string) error {
	ivs, err := ParseRange(s)
	if err != nil {
		return err
	}
	for _, iv := range ivs {
		l.List.Add(iv)
	}
	return nil
}

// Remove parses s with ParseRange and records its addresses for removal
// by the next Aggregate.
func (l *List) Remove(s string) error {
	ivs, err := ParseRange(s)
	if err != nil {
		return err
	}
	for _, iv := range ivs {
		l.List.Remove(iv)
	}
	return nil
}

// AddPrefix adds every address of an IPv4 prefix.
func (l *List) AddPrefix(p netip.Prefix) error {
	iv, err := prefixInterval(p)
	if err != nil {
		return err
	}
	l.List.Add(iv)
	return nil
}

// RemovePrefix records every address of an IPv4 prefix for removal.
func (l *List) RemovePrefix(p netip.Prefix) error {
	iv, err := prefixInterval(p)
	if err != nil {
		return err
	}
	l.List.Remove(iv)
	return nil
}

// ContainsAddr reports whether addr is in the aggregated list.
func (l *List) ContainsAddr(addr netip.Addr) bool {
	if !addr.Is4() {
		return false
	}
	return l.Contains(AddrToUint32(addr))
}

// Ranges iterates over the intervals as strings formatted by Format.
func (l *List) Ranges() iter.Seq[string] {
	return func(yield func(string) bool) {
		for iv := range l.All() {
			if !yield(Format(iv)) {
				return
			}
		}
	}
}

func prefixInterval(p netip.Prefix) (leeloo.Interval[uint32], error) {
	if !p.IsValid() || !p.Addr().Is4() {
		return leeloo.Interval[uint32]{}, errors.Errorf("not an IPv4 prefix: %s", p)
	}
	p = p.Masked()
	lo := AddrToUint32(p.Addr())
	size := uint64(1) << (32 - p.Bits())
	return leeloo.MakeInterval(lo, uint32(uint64(lo)+size-1)), nil
}

// AddrToUint32 converts an IPv4 address. It panics if addr is not IPv4.
func AddrToUint32(addr netip.Addr) uint32 {
	b := addr.As4()
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// Uint32ToAddr converts v back to an address.
func Uint32ToAddr(v uint32) netip.Addr {
	return netip.AddrFrom4([4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
}

// FormatIPv4 returns the dotted-quad form of v.
func FormatIPv4(v uint32) string {
	return Uint32ToAddr(v).String()
}

// Format returns iv in CIDR notation when it is exactly one block, such as
// 10.0.0.0/24 or 10.0.0.1/32, and as lower-upper otherwise.
func Format(iv leeloo.Interval[uint32]) string {
	if p, ok := Prefix(iv); ok {
		return p.String()
	}
	return fmt.Sprintf("%s-%s", FormatIPv4(iv.Lower()), FormatIPv4(iv.Upper()))
}

// Prefix returns the CIDR block covering exactly iv, if there is one.
func Prefix(iv leeloo.Interval[uint32]) (netip.Prefix, bool) {
	w := iv.Width()
	if w == 0 || bits.OnesCount64(w) != 1 || uint64(iv.Lower())&(w-1) != 0 {
		return netip.Prefix{}, false
	}
	return netip.PrefixFrom(Uint32ToAddr(iv.Lower()), 32-bits.TrailingZeros64(w)), true
}
