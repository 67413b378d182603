// Package datetime provides helpers for the month-labelled periods used by
// the sales series.
package datetime

import (
	"fmt"
	"time"

	"github.com/iwvelando/ai-business-solutions/pkg/constants"
)

const (
	// PeriodLayout is the layout of a period label, e.g. "Jun".
	PeriodLayout = constants.PeriodLayout
)

// ParseMonth parses an abbreviated month label such as "Jun".
func ParseMonth(label string) (time.Month, error) {
	t, err := time.Parse(PeriodLayout, label)
	if err != nil {
		return 0, fmt.Errorf("invalid period label %q: %w", label, err)
	}
	return t.Month(), nil
}

// MonthName expands a month label to the full month name, e.g. "Dec" to
// "December". Labels that are not months are returned unchanged.
func MonthName(label string) string {
	m, err := ParseMonth(label)
	if err != nil {
		return label
	}
	return m.String()
}

// MonthLabel returns the abbreviated label of m, e.g. "Jul".
func MonthLabel(m time.Month) string {
	return m.String()[:3]
}

// OffsetPeriod returns the label the given number of months after label,
// wrapping around the year.
func OffsetPeriod(label string, months int) (string, error) {
	m, err := ParseMonth(label)
	if err != nil {
		return label, err
	}
	idx := (int(m) - 1 + months) % 12
	if idx < 0 {
		idx += 12
	}
	return MonthLabel(time.Month(idx + 1)), nil
}

// NextPeriods returns the n labels that follow last. Labels that are not
// month names are continued as "<last>+1", "<last>+2", ...
func NextPeriods(last string, n int) []string {
	labels := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		next, err := OffsetPeriod(last, i)
		if err != nil {
			next = fmt.Sprintf("%s+%d", last, i)
		}
		labels = append(labels, next)
	}
	return labels
}

// IsConsecutive reports whether labels are month names in consecutive order.
// An empty or single-element list is trivially consecutive.
func IsConsecutive(labels []string) bool {
	for i := 1; i < len(labels); i++ {
		want, err := OffsetPeriod(labels[i-1], 1)
		if err != nil {
			return false
		}
		got, err := ParseMonth(labels[i])
		if err != nil || MonthLabel(got) != want {
			return false
		}
	}
	return true
}
