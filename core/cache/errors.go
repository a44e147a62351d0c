package cache

import "errors"

var (
	// ErrInvalidCapacity is returned when a cache is constructed with capacity below 2.
	ErrInvalidCapacity = errors.New("cache capacity must be greater than 1")

	// errInvariant marks an internal consistency failure found by verify.
	errInvariant = errors.New("cache invariant violated")
)
