package leeloo

// IntervalU32 is an interval over uint32 values.
type IntervalU32 = Interval[uint32]

// IntervalListU32 is a list of uint32 values.
type IntervalListU32 = List[uint32]

// NewIntervalU32 returns an empty uint32 interval.
func NewIntervalU32() IntervalU32 {
	return NewInterval[uint32]()
}

// NewIntervalListU32 returns an empty uint32 list.
func NewIntervalListU32() *IntervalListU32 {
	return NewList[uint32]()
}
