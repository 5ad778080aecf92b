// Package sizing provides safe size arithmetic and conversions to prevent overflow.
package sizing

import (
	"io"
	"math"
)

// ToUint16 converts n to uint16, returning overflowErr if it doesn't fit.
func ToUint16(n uint64, overflowErr error) (uint16, error) {
	if n > math.MaxUint16 {
		return 0, overflowErr
	}
	return uint16(n), nil
}

// AddUint32 adds a and b, returning (result, false) if the sum exceeds
// the 32-bit range.
func AddUint32(a uint32, b uint64) (uint32, bool) {
	sum := uint64(a) + b
	if sum < b || sum > math.MaxUint32 {
		return 0, false
	}
	return uint32(sum), true
}

// ReadAllWithLimit reads up to maxSize bytes from r.
// Returns overflowErr if more than maxSize bytes are available.
func ReadAllWithLimit(r io.Reader, maxSize uint64, overflowErr error) ([]byte, error) {
	if maxSize > uint64(math.MaxInt-1) {
		return nil, overflowErr
	}
	limit := int64(maxSize) + 1 //nolint:gosec // checked above
	lr := &io.LimitedReader{R: r, N: limit}
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if uint64(len(data)) > maxSize { //nolint:gosec // len is always non-negative
		return nil, overflowErr
	}
	return data, nil
}
