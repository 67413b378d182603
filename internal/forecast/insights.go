package forecast

import (
	"fmt"
	"math"

	"github.com/iwvelando/ai-business-solutions/pkg/datetime"
	"github.com/iwvelando/ai-business-solutions/pkg/format"
	"github.com/iwvelando/ai-business-solutions/pkg/mathutil"
)

// Summary holds the headline numbers shown under the chart.
type Summary struct {
	FirstPeriod   string  `json:"firstPeriod"`
	FirstActual   float64 `json:"firstActual"`
	LastPeriod    string  `json:"lastPeriod"`
	LastProjected float64 `json:"lastProjected"`
	PercentChange float64 `json:"percentChange"`
}

// Summarize compares the first historical value with the last projected one.
func Summarize(r Result) Summary {
	var s Summary
	if len(r.History) > 0 {
		s.FirstPeriod = r.History[0].Period
		s.FirstActual = r.History[0].Actual
	}
	if len(r.Forecast) > 0 {
		s.LastPeriod = r.Forecast[len(r.Forecast)-1].Period
		s.LastProjected = r.LastProjected()
	}
	s.PercentChange = mathutil.PercentChange(s.FirstActual, s.LastProjected)
	return s
}

// InventoryIncreasePercent is the stock increase recommended for a season.
func InventoryIncreasePercent(s Seasonality) int {
	switch s {
	case SeasonPeak:
		return 40
	case SeasonHigh:
		return 20
	default:
		return 10
	}
}

// Insights returns the bullet points shown next to a generated forecast.
func Insights(r Result) []string {
	p := r.Parameters
	direction := "decline"
	if p.GrowthRatePercent > 0 {
		direction = "growth"
	}
	summary := Summarize(r)

	return []string{
		fmt.Sprintf("Based on your parameters, we project a %s rate of %s%% over the next %d months",
			direction, format.Number(math.Abs(p.GrowthRatePercent)), len(r.Forecast)),
		fmt.Sprintf("The %s market conditions will have a significant impact on your Q3 results", p.Market),
		fmt.Sprintf("Consider increasing inventory by %d%% to meet projected demand", InventoryIncreasePercent(p.Season)),
		fmt.Sprintf("Your forecasted %s sales represent a %s change from %s",
			datetime.MonthName(summary.LastPeriod), format.Percent(summary.PercentChange, 1), datetime.MonthName(summary.FirstPeriod)),
	}
}
