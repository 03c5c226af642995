package ipset

import (
	"strconv"
	"strings"

	"gopkg.in/src-d/go-errors.v1"

	"github.com/contriboss/leeloo-go"
)

var (
	// ErrInvalidAddress is returned when a string is not a dotted IPv4
	// address.
	ErrInvalidAddress = errors.NewKind("invalid IPv4 address %q")

	// ErrInvalidRange is returned when a string matches none of the
	// accepted range notations.
	ErrInvalidRange = errors.NewKind("invalid IPv4 range %q")
)

// ParseIPv4 parses a dotted-quad address such as 192.168.0.1. Each of the
// four groups has one to three decimal digits and is at most 255.
func ParseIPv4(s string) (uint32, error) {
	return parseIPv4(s, 4)
}

// parseIPv4 accepts minGroups to 4 groups, filled from the most
// significant byte: "10" with minGroups 1 is 10.0.0.0.
func parseIPv4(s string, minGroups int) (uint32, error) {
	groups := strings.Split(s, ".")
	if len(groups) < minGroups || len(groups) > 4 {
		return 0, ErrInvalidAddress.New(s)
	}
	var ip uint32
	for i, g := range groups {
		b, ok := parseByte(g)
		if !ok {
			return 0, ErrInvalidAddress.New(s)
		}
		ip |= uint32(b) << (8 * (3 - i))
	}
	return ip, nil
}

// parseByte reads one to three decimal digits holding a value <= 255.
func parseByte(s string) (uint8, bool) {
	if len(s) == 0 || len(s) > 3 {
		return 0, false
	}
	var v int
	for _, c := range []byte(s) {
		if c < '0' || c > '9' {
			return 0, false
		}
		v = v*10 + int(c-'0')
	}
	if v > 0xFF {
		return 0, false
	}
	return uint8(v), true
}

// ParseRange parses one of the notations below into intervals:
//
//	192.168.0.1                  single address
//	192.168.4.0/24, 10/8         CIDR block, host bits are cleared
//	192.168.4.0-192.168.6.0      inclusive range, bounds in any order
//	192.168-170.4-8.0            per-byte ranges
//
// A per-byte range expands to one interval for each combination of the
// first three bytes.
func ParseRange(s string) ([]leeloo.Interval[uint32], error) {
	dashes := strings.Count(s, "-")
	slashes := strings.Count(s, "/")

	switch {
	case dashes == 0 && slashes == 0:
		ip, err := ParseIPv4(s)
		if err != nil {
			return nil, ErrInvalidRange.New(s)
		}
		return []leeloo.Interval[uint32]{leeloo.MakeInterval(ip, ip)}, nil

	case slashes > 0:
		if dashes > 0 || slashes > 1 {
			return nil, ErrInvalidRange.New(s)
		}
		return parseCIDR(s)

	case dashes == 1:
		lo, hi, _ := strings.Cut(s, "-")
		a, errA := ParseIPv4(lo)
		b, errB := ParseIPv4(hi)
		if errA == nil && errB == nil {
			return []leeloo.Interval[uint32]{leeloo.MakeInterval(a, b)}, nil
		}
	}
	return parseByteRanges(s)
}

func parseCIDR(s string) ([]leeloo.Interval[uint32], error) {
	base, bits, _ := strings.Cut(s, "/")
	prefix, err := strconv.Atoi(bits)
	if err != nil || prefix < 1 || prefix > 32 {
		return nil, ErrInvalidRange.New(s)
	}
	ip, err := parseIPv4(base, 1)
	if err != nil {
		return nil, ErrInvalidRange.New(s)
	}
	mask := uint32(1)<<(32-prefix) - 1
	return []leeloo.Interval[uint32]{leeloo.MakeInterval(ip&^mask, ip|mask)}, nil
}

type byteRange struct{ lo, hi uint8 }

func parseByteRanges(s string) ([]leeloo.Interval[uint32], error) {
	groups := strings.Split(s, ".")
	if len(groups) != 4 {
		return nil, ErrInvalidRange.New(s)
	}
	var ranges [4]byteRange
	for i, g := range groups {
		lo, hi, isRange := strings.Cut(g, "-")
		a, ok := parseByte(lo)
		if !ok {
			return nil, ErrInvalidRange.New(s)
		}
		b := a
		if isRange {
			if b, ok = parseByte(hi); !ok {
				return nil, ErrInvalidRange.New(s)
			}
		}
		if a > b {
			a, b = b, a
		}
		ranges[i] = byteRange{a, b}
	}

	n := 1
	for _, r := range ranges[:3] {
		n *= int(r.hi-r.lo) + 1
	}
	out := make([]leeloo.Interval[uint32], 0, n)
	for a := int(ranges[0].lo); a <= int(ranges[0].hi); a++ {
		for b := int(ranges[1].lo); b <= int(ranges[1].hi); b++ {
			for c := int(ranges[2].lo); c <= int(ranges[2].hi); c++ {
				base := uint32(a)<<24 | uint32(b)<<16 | uint32(c)<<8
				out = append(out, leeloo.MakeInterval(base|uint32(ranges[3].lo), base|uint32(ranges[3].hi)))
			}
		}
	}
	return out, nil
}
