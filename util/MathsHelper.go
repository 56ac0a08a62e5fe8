package util

import (
	"golang.org/x/exp/constraints"
)

func Clamp[T constraints.Integer | constraints.Float](v T, lo T, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// IsPowerOfTwoMultiple reports whether v is divisible by 2^exp.
func IsPowerOfTwoMultiple(v int, exp int) bool {
	if exp < 0 {
		return false
	}
	f := 1 << exp
	return v%f == 0
}
