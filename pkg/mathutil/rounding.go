// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/ai-business-solutions/pkg/constants"
)

// RoundTo snaps val to the nearest multiple of unit. Halves round away from
// zero. A non-positive unit returns val unchanged.
func RoundTo(val, unit float64) float64 {
	if unit <= 0 {
		return val
	}
	return math.Round(val/unit) * unit
}

// RoundToThousand snaps val to the nearest thousand.
func RoundToThousand(val float64) float64 {
	return RoundTo(val, constants.RoundingUnit)
}

// IsMultipleOf reports whether val is an exact multiple of unit.
func IsMultipleOf(val, unit float64) bool {
	if unit == 0 {
		return false
	}
	return math.Mod(val, unit) == 0
}

// Min returns the minimum of two float64 values
func Min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// Max returns the maximum of two float64 values
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Bounds returns the smallest and largest value in values. Both are zero for
// an empty slice.
func Bounds(values []float64) (lo, hi float64) {
	for i, v := range values {
		if i == 0 {
			lo, hi = v, v
			continue
		}
		lo = Min(lo, v)
		hi = Max(hi, v)
	}
	return lo, hi
}

// PercentChange returns the change from base to value in percent. A zero base
// yields zero rather than an infinity.
func PercentChange(base, value float64) float64 {
	if base == 0 {
		return 0
	}
	return (value/base - 1) * constants.PercentageMultiplier
}
