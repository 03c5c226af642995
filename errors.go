package leeloo

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrInvalidDumpSize is returned when a dump is not made of whole
	// intervals.
	ErrInvalidDumpSize = errors.NewKind("invalid dump size: %d bytes is not a multiple of %d")

	// ErrInvalidDumpInterval is returned when a dumped interval has its
	// lower bound above its upper bound.
	ErrInvalidDumpInterval = errors.NewKind("invalid interval #%d in dump: %d > %d")
)
