package validation

import (
	"fmt"
	"time"

	"github.com/iwvelando/ai-business-solutions/pkg/datetime"
)

// ValidateHistory checks a historical series given as parallel period and
// value lists and returns warnings for anything the forecaster will still
// accept but that looks wrong.
func ValidateHistory(periods []string, values []float64) []string {
	var warnings []string

	if len(periods) == 0 {
		return append(warnings, "historical series is empty; the demo cannot generate a forecast")
	}

	if !datetime.IsConsecutive(periods) {
		warnings = append(warnings, fmt.Sprintf("historical periods %v are not consecutive months; forecast labels will follow %q",
			periods, periods[len(periods)-1]))
	}

	for i, v := range values {
		if v <= 0 {
			warnings = append(warnings, fmt.Sprintf("historical value for %s is %.0f; projections compound from the last value",
				periods[i], v))
		}
	}

	return warnings
}

// ValidateDemoTimings returns warnings for demo delays and session lifetimes
// that would make the widget unusable.
func ValidateDemoTimings(delay, sessionTTL time.Duration) []string {
	var warnings []string

	if delay < 0 {
		warnings = append(warnings, fmt.Sprintf("demo delay %s is negative and will be treated as zero", delay))
	}
	if sessionTTL > 0 && sessionTTL <= delay {
		warnings = append(warnings, fmt.Sprintf("session TTL %s does not exceed the demo delay %s; sessions may expire mid-generation",
			sessionTTL, delay))
	}

	return warnings
}
