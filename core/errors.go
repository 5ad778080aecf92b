package storezip

import "errors"

var (
	// ErrCapacityExceeded is returned when an input would overflow a ZIP
	// size, offset, name length, or entry count field.
	ErrCapacityExceeded = errors.New("storezip: capacity exceeded")

	// ErrDuplicateName is returned when a bundle repeats a path and the
	// duplicate policy rejects duplicates.
	ErrDuplicateName = errors.New("storezip: duplicate entry name")
)
