package randstate

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrStateNotFound is returned by Store.Load for an unknown name.
	ErrStateNotFound = errors.NewKind("random state %q not found")

	// ErrCorruptState is returned when a stored value has the wrong size.
	ErrCorruptState = errors.NewKind("random state %q is corrupt: bad %s")

	ErrEmptyStateName = errors.NewKind("random state name is empty")
)
