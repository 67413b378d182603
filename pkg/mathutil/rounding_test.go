package mathutil

import (
	"math"
	"testing"
)

func TestRoundTo(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		unit     float64
		expected float64
	}{
		{"Round down below midpoint", 136170, 1000, 136000},
		{"Round up at midpoint", 136500, 1000, 137000},
		{"Round up above midpoint", 136501, 1000, 137000},
		{"Already a multiple", 178000, 1000, 178000},
		{"Negative rounds away from zero", -1500, 1000, -2000},
		{"Zero", 0, 1000, 0},
		{"Non-positive unit is a no-op", 1234.5, 0, 1234.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RoundTo(tt.input, tt.unit)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("RoundTo(%v, %v) = %v, expected %v", tt.input, tt.unit, result, tt.expected)
			}
		})
	}
}

func TestRoundToThousand(t *testing.T) {
	if got := RoundToThousand(178000 * 0.85 * 0.9); got != 136000 {
		t.Errorf("RoundToThousand() = %v, expected 136000", got)
	}
}

func TestIsMultipleOf(t *testing.T) {
	tests := []struct {
		name     string
		val      float64
		unit     float64
		expected bool
	}{
		{"Exact multiple", 136000, 1000, true},
		{"Not a multiple", 136170, 1000, false},
		{"Zero value", 0, 1000, true},
		{"Zero unit", 1000, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMultipleOf(tt.val, tt.unit); got != tt.expected {
				t.Errorf("IsMultipleOf(%v, %v) = %v, expected %v", tt.val, tt.unit, got, tt.expected)
			}
		})
	}
}

func TestBounds(t *testing.T) {
	lo, hi := Bounds([]float64{132000, 120000, 178000, 145000})
	if lo != 120000 || hi != 178000 {
		t.Errorf("Bounds() = (%v, %v), expected (120000, 178000)", lo, hi)
	}

	lo, hi = Bounds(nil)
	if lo != 0 || hi != 0 {
		t.Errorf("Bounds(nil) = (%v, %v), expected (0, 0)", lo, hi)
	}
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name     string
		base     float64
		value    float64
		expected float64
	}{
		{"Increase", 120000, 150000, 25},
		{"Decrease", 120000, 90000, -25},
		{"No change", 120000, 120000, 0},
		{"Zero base", 0, 5000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PercentChange(tt.base, tt.value)
			if math.Abs(result-tt.expected) > 0.0001 {
				t.Errorf("PercentChange(%v, %v) = %v, expected %v", tt.base, tt.value, result, tt.expected)
			}
		})
	}
}
