package common

import (
	"errors"
	"math"
)

var ErrCounterOverflow = errors.New("counter overflow")

// AddU64 returns a+b or ErrCounterOverflow when the sum does not fit in a
// uint64. Counters in academy records must never wrap.
func AddU64(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, ErrCounterOverflow
	}
	return a + b, nil
}

// AddU32 returns a+b with the same overflow contract as AddU64.
func AddU32(a, b uint32) (uint32, error) {
	if a > math.MaxUint32-b {
		return 0, ErrCounterOverflow
	}
	return a + b, nil
}

// MulU64 returns a*b or ErrCounterOverflow when the product does not fit in a
// uint64.
func MulU64(a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a > math.MaxUint64/b {
		return 0, ErrCounterOverflow
	}
	return a * b, nil
}

// SaturatingAddU8 returns a+b clamped to the maximum representable value.
// Used for grants that must not fail on overflow, e.g. streak freezes.
func SaturatingAddU8(a, b uint8) uint8 {
	if a > math.MaxUint8-b {
		return math.MaxUint8
	}
	return a + b
}
