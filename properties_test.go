package leeloo

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contriboss/leeloo-go/uni"
)

func TestAggregateProperties(t *testing.T) {
	l := NewPropertyList[uint32, []int]()
	l.AddRange(0, 14)
	l.AddRange(19, 20)
	l.AddProperty(MakeInterval[uint32](5, 10), []int{1})
	l.AddProperty(MakeInterval[uint32](9, 13), []int{2})
	l.AddProperty(MakeInterval[uint32](12, 15), []int{4})
	l.AddProperty(MakeInterval[uint32](16, 19), []int{5})
	l.AddProperty(MakeInterval[uint32](1, 19), []int{6})
	l.Aggregate()
	l.AggregateProperties(func(acc, next []int) []int {
		return slices.Concat(acc, next)
	})

	expected := []PropertyInterval[uint32, []int]{
		{MakeInterval[uint32](1, 4), []int{6}},
		{MakeInterval[uint32](5, 8), []int{1, 6}},
		{MakeInterval[uint32](9, 10), []int{1, 2, 6}},
		{MakeInterval[uint32](11, 11), []int{2, 6}},
		{MakeInterval[uint32](12, 13), []int{2, 4, 6}},
		{MakeInterval[uint32](14, 15), []int{4, 6}},
		{MakeInterval[uint32](16, 19), []int{5, 6}},
	}
	require.Equal(t, expected, l.Properties())

	testCases := []struct {
		v        uint32
		expected []int
		found    bool
	}{
		{5, []int{1, 6}, true},
		{8, []int{1, 6}, true},
		{9, []int{1, 2, 6}, true},
		{10, []int{1, 2, 6}, true},
		{19, []int{5, 6}, true},
		{0, nil, false},
		{20, nil, false},
	}
	for _, tc := range testCases {
		prop, ok := l.PropertyOf(tc.v)
		assert.Equal(t, tc.found, ok, "value %d", tc.v)
		assert.Equal(t, tc.expected, prop, "value %d", tc.v)
	}

	// members are untouched by properties
	assert.Equal(t, ivs(0, 14, 19, 20), l.Intervals())
}

func TestAggregatePropertiesAtUpperBound(t *testing.T) {
	l := NewPropertyList[uint8, string]()
	l.AddProperty(MakeInterval[uint8](250, 255), "a")
	l.AddProperty(MakeInterval[uint8](254, 255), "b")
	l.AddProperty(NewInterval[uint8](), "ignored")
	l.AggregateProperties(func(acc, next string) string { return acc + next })

	expected := []PropertyInterval[uint8, string]{
		{MakeInterval[uint8](250, 253), "a"},
		{MakeInterval[uint8](254, 255), "ab"},
	}
	assert.Equal(t, expected, l.Properties())

	prop, ok := l.PropertyOf(255)
	assert.True(t, ok)
	assert.Equal(t, "ab", prop)
}

func TestRandomSetsWithProperties(t *testing.T) {
	l := NewPropertyList[uint32, string]()
	l.AddRange(0, 9)
	l.AddRange(20, 29)
	l.AddProperty(MakeInterval[uint32](0, 4), "low")
	l.AddProperty(MakeInterval[uint32](3, 22), "mid")
	l.Aggregate()
	l.AggregateProperties(func(acc, next string) string { return acc + "+" + next })

	seen := map[uint32]bool{}
	calls := 0
	l.RandomSetsWithPropertiesFrom(uni.NewEngine(5), 3, func(set []uint32, props []*string) {
		calls++
		require.Len(t, props, len(set))
		assert.Contains(t, []int{6, 7}, len(set))
		for i, v := range set {
			assert.False(t, seen[v], "%d drawn twice", v)
			seen[v] = true

			want, ok := l.PropertyOf(v)
			if !ok {
				assert.Nil(t, props[i], "value %d", v)
				continue
			}
			require.NotNil(t, props[i], "value %d", v)
			assert.Equal(t, want, *props[i], "value %d", v)
		}
	})
	assert.Equal(t, 3, calls)
	assert.Len(t, seen, 20)

	low, _ := l.PropertyOf(1)
	both, _ := l.PropertyOf(4)
	high, ok := l.PropertyOf(22)
	assert.Equal(t, "low", low)
	assert.Equal(t, "low+mid", both)
	assert.True(t, ok)
	assert.Equal(t, "mid", high)
	_, ok = l.PropertyOf(25)
	assert.False(t, ok)
}
