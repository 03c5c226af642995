package ipset

import (
	"net/netip"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contriboss/leeloo-go"
)

func TestParseIPv4(t *testing.T) {
	testCases := []struct {
		in       string
		expected uint32
		valid    bool
	}{
		{"0.0.0.10", 0x0a, true},
		{"0.0.10.0", 0x0a00, true},
		{"0.10.0.0", 0x0a0000, true},
		{"10.0.0.0", 0x0a000000, true},
		{"10.10.10.10", 0x0a0a0a0a, true},
		{"111.111.111.111", 0x6f6f6f6f, true},
		{"1.11.111.1", 0x010b6f01, true},
		{"255.255.255.255", 0xffffffff, true},
		{"0.0.0.0", 0, true},
		{"255.255..255", 0, false},
		{"0", 0, false},
		{"0.0.0.", 0, false},
		{"0.0.0", 0, false},
		{"0.1240.0.10", 0, false},
		{"...", 0, false},
		{"12.124.5.678", 0, false},
		{"-12.124.5.678", 0, false},
		{"1.2.3.4.5", 0, false},
		{"", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseIPv4(tc.in)
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

func TestParseIPv4ShortForm(t *testing.T) {
	ip, err := parseIPv4("10", 1)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x0a000000), ip)

	ip, err = parseIPv4("192.168", 1)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xc0a80000), ip)
}

func mustIP(t *testing.T, s string) uint32 {
	t.Helper()
	ip, err := ParseIPv4(s)
	require.NoError(t, err)
	return ip
}

func TestParseRange(t *testing.T) {
	testCases := []struct {
		in         string
		valid      bool
		start, end string
	}{
		{"10.0.0.0-10.0.0.255", true, "10.0.0.0", "10.0.0.255"},
		{"10.0.0.255-10.0.0.0", true, "10.0.0.0", "10.0.0.255"},
		{"127.0.0.1", true, "127.0.0.1", "127.0.0.1"},
		{"10/8", true, "10.0.0.0", "10.255.255.255"},
		{"192.168.10.1/24", true, "192.168.10.0", "192.168.10.255"},
		{"192.168.10.1/16", true, "192.168.0.0", "192.168.255.255"},
		{"10/2", true, "0.0.0.0", "63.255.255.255"},
		{"1.2.3.4/32", true, "1.2.3.4", "1.2.3.4"},
		{"10.0.0.0-255", true, "10.0.0.0", "10.0.0.255"},
		{"blabla", false, "", ""},
		{"google.com", false, "", ""},
		{"10.0.0.0/0", false, "", ""},
		{"10.0.0.0/33", false, "", ""},
		{"10.0.0.0/x", false, "", ""},
		{"10.0.0.0/8/8", false, "", ""},
		{"10.0.0.0-10.0.0.5/24", false, "", ""},
		{"10.0.0.1-", false, "", ""},
		{"10--10.1.5.20----25", false, "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseRange(tc.in)
			if !tc.valid {
				require.Error(t, err)
				assert.True(t, ErrInvalidRange.Is(err))
				return
			}
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, mustIP(t, tc.start), got[0].Lower())
			assert.Equal(t, mustIP(t, tc.end), got[0].Upper())
		})
	}
}

func TestParseByteRanges(t *testing.T) {
	got, err := ParseRange("10-10.1-1.5-5.20-19")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "10.1.5.19-10.1.5.20", Format(got[0]))

	got, err = ParseRange("10-15.1-4.5-9.20-25")
	require.NoError(t, err)
	assert.Len(t, got, 6*4*5)
	assert.Equal(t, "10.1.5.20-10.1.5.25", Format(got[0]))
	assert.Equal(t, "15.4.9.20-15.4.9.25", Format(got[len(got)-1]))

	got, err = ParseRange("10.4-5.8-11.0-255")
	require.NoError(t, err)
	l := NewList()
	for _, iv := range got {
		l.List.Add(iv)
	}
	l.Aggregate()
	assert.Equal(t, []string{"10.4.8.0/22", "10.5.8.0/22"}, slices.Collect(l.Ranges()))
}

func TestListAddRemove(t *testing.T) {
	l := NewList()
	require.NoError(t, l.Add("192.168.0.0/24"))
	require.NoError(t, l.Add("10.0.0.1"))
	require.NoError(t, l.Remove("192.168.0.128/25"))
	require.NoError(t, l.Remove("192.168.0.0"))
	require.Error(t, l.Add("nope"))
	require.Error(t, l.Remove("nope"))
	l.Aggregate()

	assert.Equal(t, []string{"10.0.0.1/32", "192.168.0.1-192.168.0.127"}, slices.Collect(l.Ranges()))
	assert.Equal(t, uint64(128), l.Size())
	assert.True(t, l.ContainsAddr(netip.MustParseAddr("192.168.0.5")))
	assert.False(t, l.ContainsAddr(netip.MustParseAddr("192.168.0.200")))
	assert.False(t, l.ContainsAddr(netip.MustParseAddr("::1")))
}

func TestListPrefix(t *testing.T) {
	l := NewList()
	require.NoError(t, l.AddPrefix(netip.MustParsePrefix("172.16.5.9/12")))
	require.NoError(t, l.RemovePrefix(netip.MustParsePrefix("172.16.0.0/16")))
	require.Error(t, l.AddPrefix(netip.MustParsePrefix("fe80::/10")))
	require.Error(t, l.AddPrefix(netip.Prefix{}))
	l.Aggregate()

	assert.Equal(t, []string{"172.17.0.0-172.31.255.255"}, slices.Collect(l.Ranges()))

	all := NewList()
	require.NoError(t, all.AddPrefix(netip.MustParsePrefix("0.0.0.0/0")))
	all.Aggregate()
	assert.Equal(t, uint64(1)<<32, all.Size())
	assert.Equal(t, []string{"0.0.0.0/0"}, slices.Collect(all.Ranges()))
}

func TestFormat(t *testing.T) {
	testCases := []struct {
		lo, hi   string
		expected string
	}{
		{"10.0.0.0", "10.0.0.255", "10.0.0.0/24"},
		{"10.0.0.1", "10.0.0.1", "10.0.0.1/32"},
		{"10.0.0.2", "10.0.0.5", "10.0.0.2-10.0.0.5"},
		{"10.0.0.1", "10.0.0.2", "10.0.0.1-10.0.0.2"},
		{"10.0.0.0", "10.0.4.255", "10.0.0.0-10.0.4.255"},
	}

	for _, tc := range testCases {
		iv := leeloo.MakeInterval(mustIP(t, tc.lo), mustIP(t, tc.hi))
		assert.Equal(t, tc.expected, Format(iv))
	}
	assert.Equal(t, "1.2.3.4", FormatIPv4(0x01020304))
}

func TestAggregateMaxPrefixOnAddresses(t *testing.T) {
	build := func() *List {
		l := NewList()
		for _, r := range []string{
			"10.0.0.4-10.0.0.25",
			"10.0.0.46-10.0.0.125",
			"10.0.0.76-10.0.1.4",
			"10.0.2.0-10.0.4.4",
			"10.0.7.0-10.0.7.4",
		} {
			require.NoError(t, l.Add(r))
		}
		return l
	}

	l := build()
	l.AggregateMaxPrefix(24)
	assert.Equal(t, []string{"10.0.0.0-10.0.4.255", "10.0.7.0/24"}, slices.Collect(l.Ranges()))

	l = build()
	l.AggregateMaxPrefixStrict(24)
	assert.Equal(t, []string{"10.0.0.0-10.0.4.4", "10.0.7.0/24"}, slices.Collect(l.Ranges()))

	blocks := NewList()
	require.NoError(t, blocks.Add("10.0.0.0/24"))
	require.NoError(t, blocks.Add("10.0.2.0/24"))
	blocks.AggregateMaxPrefix(30)
	assert.Equal(t, []string{"10.0.0.0/24", "10.0.2.0/24"}, slices.Collect(blocks.Ranges()))
}
