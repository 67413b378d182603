package datetime

import (
	"reflect"
	"testing"
	"time"
)

func TestParseMonth(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		expected time.Month
		wantErr  bool
	}{
		{name: "January", label: "Jan", expected: time.January},
		{name: "June", label: "Jun", expected: time.June},
		{name: "December", label: "Dec", expected: time.December},
		{name: "Full name is rejected", label: "June", wantErr: true},
		{name: "Garbage", label: "Q3", wantErr: true},
		{name: "Empty", label: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseMonth(tt.label)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMonth(%q) error = %v, wantErr %v", tt.label, err, tt.wantErr)
			}
			if !tt.wantErr && result != tt.expected {
				t.Errorf("ParseMonth(%q) = %v, expected %v", tt.label, result, tt.expected)
			}
		})
	}
}

func TestMonthName(t *testing.T) {
	tests := []struct {
		label    string
		expected string
	}{
		{label: "Jan", expected: "January"},
		{label: "Dec", expected: "December"},
		{label: "Q3", expected: "Q3"},
		{label: "", expected: ""},
	}

	for _, tt := range tests {
		if got := MonthName(tt.label); got != tt.expected {
			t.Errorf("MonthName(%q) = %q, expected %q", tt.label, got, tt.expected)
		}
	}
}

func TestOffsetPeriod(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		months   int
		expected string
		wantErr  bool
	}{
		{name: "Next month", label: "Jun", months: 1, expected: "Jul"},
		{name: "Wrap past December", label: "Nov", months: 3, expected: "Feb"},
		{name: "Full year", label: "Mar", months: 12, expected: "Mar"},
		{name: "Backwards", label: "Feb", months: -3, expected: "Nov"},
		{name: "Invalid label", label: "P6", months: 1, expected: "P6", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := OffsetPeriod(tt.label, tt.months)
			if (err != nil) != tt.wantErr {
				t.Fatalf("OffsetPeriod() error = %v, wantErr %v", err, tt.wantErr)
			}
			if result != tt.expected {
				t.Errorf("OffsetPeriod(%q, %d) = %q, expected %q", tt.label, tt.months, result, tt.expected)
			}
		})
	}
}

func TestNextPeriods(t *testing.T) {
	got := NextPeriods("Jun", 6)
	want := []string{"Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NextPeriods(Jun) = %v, expected %v", got, want)
	}

	got = NextPeriods("Oct", 4)
	want = []string{"Nov", "Dec", "Jan", "Feb"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NextPeriods(Oct) = %v, expected %v", got, want)
	}

	got = NextPeriods("W6", 2)
	want = []string{"W6+1", "W6+2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NextPeriods(W6) = %v, expected %v", got, want)
	}
}

func TestIsConsecutive(t *testing.T) {
	tests := []struct {
		name     string
		labels   []string
		expected bool
	}{
		{"Empty", nil, true},
		{"Single", []string{"Jan"}, true},
		{"Seed series", []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}, true},
		{"Across year end", []string{"Nov", "Dec", "Jan"}, true},
		{"Gap", []string{"Jan", "Mar"}, false},
		{"Out of order", []string{"Feb", "Jan"}, false},
		{"Not months", []string{"Q1", "Q2"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConsecutive(tt.labels); got != tt.expected {
				t.Errorf("IsConsecutive(%v) = %v, expected %v", tt.labels, got, tt.expected)
			}
		})
	}
}
