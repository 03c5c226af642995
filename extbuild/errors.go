package extbuild

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrNoBuilder is returned when no registered builder handles a file.
	ErrNoBuilder = errors.NewKind("no builder found for extension file: %s")

	// ErrNoModule is returned when a build succeeds without producing a
	// shared module.
	ErrNoModule = errors.NewKind("no shared module found in %s")

	// ErrMissingTools is returned when a builder's required tools are not
	// installed.
	ErrMissingTools = errors.NewKind("%s builder cannot run: %s")
)
