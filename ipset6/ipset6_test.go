package ipset6

import (
	"net/netip"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"
)

func mustIP(t *testing.T, s string) uint128.Uint128 {
	t.Helper()
	v, err := ParseIPv6(s)
	require.NoError(t, err)
	return v
}

func TestParseIPv6(t *testing.T) {
	testCases := []struct {
		in       string
		expected uint128.Uint128
		valid    bool
	}{
		{" ", uint128.Zero, false},
		{"      ", uint128.Zero, false},
		{"  1   ", uint128.Zero, false},
		{"2001::", uint128.New(0, 0x2001000000000000), true},
		{"google.com", uint128.Zero, false},
		{"::", uint128.Zero, true},
		{"::1", uint128.From64(1), true},
		{"2001:0DB8::1", uint128.New(1, 0x20010db800000000), true},
		{"ffff:ffff:ffff:ffff:ffff:ffff:ffff:ffff", uint128.Max, true},
		{"::ffff:10.0.0.1", uint128.New(0x0000ffff0a000001, 0), true},
		{"10.0.0.1", uint128.Zero, false},
		{"fe80::1%eth0", uint128.Zero, false},
		{"2001:db8::g", uint128.Zero, false},
		{"1:2:3:4:5:6:7:8:9", uint128.Zero, false},
		{"", uint128.Zero, false},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseIPv6(tc.in)
			if !tc.valid {
				require.Error(t, err)
				assert.True(t, ErrInvalidAddress.Is(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestParseRange(t *testing.T) {
	testCases := []struct {
		in         string
		valid      bool
		start, end string
	}{
		{"2001:0DB8::/32", true, "2001:0DB8::", "2001:0DB8:FFFF:FFFF:FFFF:FFFF:FFFF:FFFF"},
		{"2001:db8::1234/112", true, "2001:db8::", "2001:db8::ffff"},
		{"2001:db8::1/128", true, "2001:db8::1", "2001:db8::1"},
		{"8000::/1", true, "8000::", "ffff:ffff:ffff:ffff:ffff:ffff:ffff:ffff"},
		{"2001:db8::1-2001:db8::ff", true, "2001:db8::1", "2001:db8::ff"},
		{"2001:db8::ff-2001:db8::1", true, "2001:db8::1", "2001:db8::ff"},
		{"::1", true, "::1", "::1"},
		{"::/0", false, "", ""},
		{"2001:db8::/129", false, "", ""},
		{"10.0.0.0/8", false, "", ""},
		{"2001:db8::1-", false, "", ""},
		{"-2001:db8::1", false, "", ""},
		{"2001:db8::1-10.0.0.1", false, "", ""},
		{"google.com", false, "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			l := NewList()
			err := l.Add(tc.in)
			if !tc.valid {
				require.Error(t, err)
				assert.True(t, ErrInvalidRange.Is(err))
				return
			}
			require.NoError(t, err)
			l.Aggregate()

			ref := NewList()
			ref.AddInterval(MakeInterval(mustIP(t, tc.start), mustIP(t, tc.end)))
			assert.True(t, ref.Equal(l), "got %v", l.Intervals())
		})
	}
}

func TestListAddRemove(t *testing.T) {
	l := NewList()
	require.NoError(t, l.Add("2001:db8::/120"))
	require.NoError(t, l.Add("2001:db8::100-2001:db8::1ff"))
	require.NoError(t, l.Add("fe80::1"))
	require.NoError(t, l.Remove("2001:db8::10-2001:db8::1f"))
	require.NoError(t, l.Remove("fe80::1"))
	assert.Error(t, l.Add("not an ip"))
	l.Aggregate()

	assert.Equal(t, []string{"2001:db8::/124", "2001:db8::20-2001:db8::1ff"}, slices.Collect(l.Ranges()))
	assert.Equal(t, uint128.From64(0x1f0), l.Size())

	assert.True(t, l.ContainsString("2001:db8::f"))
	assert.False(t, l.ContainsString("2001:db8::10"))
	assert.True(t, l.ContainsString("2001:db8::1ff"))
	assert.False(t, l.ContainsString("2001:db8::200"))
	assert.False(t, l.ContainsString("fe80::1"))
	assert.False(t, l.ContainsString("garbage"))
	assert.True(t, l.ContainsAddr(netip.MustParseAddr("2001:db8::20")))
	assert.False(t, l.ContainsAddr(netip.Addr{}))
}

func TestListPrefix(t *testing.T) {
	l := NewList()
	require.NoError(t, l.AddPrefix(netip.MustParsePrefix("2001:db8:1::5/48")))
	require.NoError(t, l.RemovePrefix(netip.MustParsePrefix("2001:db8:1:8000::/49")))
	assert.Error(t, l.AddPrefix(netip.MustParsePrefix("10.0.0.0/8")))
	assert.Error(t, l.RemovePrefix(netip.Prefix{}))
	l.Aggregate()

	assert.Equal(t, []string{"2001:db8:1::/49"}, slices.Collect(l.Ranges()))
}

func TestWholeSpace(t *testing.T) {
	l := NewList()
	require.NoError(t, l.Add("::/1"))
	require.NoError(t, l.Add("8000::/1"))
	l.Aggregate()

	require.Equal(t, 1, l.Len())
	assert.Equal(t, uint128.Max, l.Size())
	assert.Equal(t, []string{"::/0"}, slices.Collect(l.Ranges()))
	assert.True(t, l.Contains(uint128.Max))
	assert.True(t, l.Contains(uint128.Zero))

	l.Invert()
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, uint128.Zero, l.Size())

	l.Invert()
	assert.Equal(t, []Interval{MakeInterval(uint128.Zero, uint128.Max)}, l.Intervals())
}

func TestInvert(t *testing.T) {
	l := NewList()
	require.NoError(t, l.Add("::-::ff"))
	require.NoError(t, l.Add("::1:0/112"))
	l.Invert()

	expected := []Interval{
		MakeInterval(mustIP(t, "::100"), mustIP(t, "::ffff")),
		MakeInterval(mustIP(t, "::2:0"), uint128.Max),
	}
	assert.Equal(t, expected, l.Intervals())
}

func TestIntersect(t *testing.T) {
	a := NewList()
	require.NoError(t, a.Add("2001:db8::/112"))
	require.NoError(t, a.Add("2001:db8::2:0-2001:db8::3:ff"))

	b := NewList()
	require.NoError(t, b.Add("2001:db8::ff00-2001:db8::2:f"))
	require.NoError(t, b.Add("2001:db8::3:0/120"))

	a.Intersect(b)
	assert.Equal(t, []string{
		"2001:db8::ff00/120",
		"2001:db8::2:0/124",
		"2001:db8::3:0/120",
	}, slices.Collect(a.Ranges()))
}

func TestFormat(t *testing.T) {
	testCases := []struct {
		lower, upper string
		expected     string
	}{
		{"2001:db8::", "2001:db8:ffff:ffff:ffff:ffff:ffff:ffff", "2001:db8::/32"},
		{"::1", "::1", "::1/128"},
		{"::1", "::2", "::1-::2"},
		{"::", "::3", "::/126"},
		{"::4", "::b", "::4-::b"},
	}
	for _, tc := range testCases {
		iv := MakeInterval(mustIP(t, tc.lower), mustIP(t, tc.upper))
		assert.Equal(t, tc.expected, Format(iv))
	}
}

func TestIntervalWidth(t *testing.T) {
	assert.Equal(t, uint128.From64(1), MakeInterval(uint128.Max, uint128.Max).Width())
	assert.Equal(t, uint128.From64(256), MakeInterval(mustIP(t, "::1:ff"), mustIP(t, "::1:0")).Width())
	assert.Equal(t, uint128.Max, MakeInterval(uint128.Zero, uint128.Max.Sub64(1)).Width())
	assert.Equal(t, uint128.Max, MakeInterval(uint128.Zero, uint128.Max).Width())
}
