// Package forecast implements the demo sales forecaster: a closed-form
// extrapolation of a short historical series driven by a market condition, a
// seasonal factor, a growth rate and a random jitter term.
package forecast

import (
	"fmt"

	"github.com/iwvelando/ai-business-solutions/pkg/constants"
	"github.com/iwvelando/ai-business-solutions/pkg/datetime"
	"github.com/iwvelando/ai-business-solutions/pkg/mathutil"
	"go.uber.org/zap"
)

// Result holds one generated forecast together with its inputs.
type Result struct {
	Parameters Parameters        `json:"parameters"`
	History    []HistoricalPoint `json:"history"`
	Forecast   []ForecastPoint   `json:"forecast"`
	Series     []CombinedPoint   `json:"series"`
}

// LastProjected returns the value of the final forecast period, or zero when
// the result is empty.
func (r Result) LastProjected() float64 {
	if len(r.Forecast) == 0 {
		return 0
	}
	return r.Forecast[len(r.Forecast)-1].Projected
}

// Generator produces forecasts using an injected jitter source.
type Generator struct {
	logger *zap.Logger
	jitter JitterSource
}

// NewGenerator returns a Generator. A nil jitter source defaults to an
// unseeded RandomJitter.
func NewGenerator(logger *zap.Logger, jitter JitterSource) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if jitter == nil {
		jitter = NewRandomJitter(0)
	}
	return &Generator{logger: logger, jitter: jitter}
}

// WithSeed returns a generator whose jitter is drawn from seed, so that two
// generators with the same seed produce the same forecast. A zero seed, or a
// generator with fixed jitter, returns g itself.
func (g *Generator) WithSeed(seed uint64) *Generator {
	if seed == 0 {
		return g
	}
	if _, fixed := g.jitter.(FixedJitter); fixed {
		return g
	}
	return &Generator{logger: g.logger, jitter: NewRandomJitter(seed)}
}

// GrowthImpact returns the growth multiplier for the zero-based period index.
// The growth rate ramps linearly to its full effect in the final period.
func GrowthImpact(growthRatePercent float64, period int) float64 {
	growth := growthRatePercent / constants.PercentageMultiplier
	return 1 + growth*float64(period+1)/constants.ForecastPeriods
}

// Generate extrapolates ForecastPeriods periods beyond the last historical
// value. Each period compounds on the previous rounded value. The growth rate
// is used as given; range checks belong to the caller (see Parameters.Validate).
func (g *Generator) Generate(history []HistoricalPoint, params Parameters) (Result, error) {
	if len(history) == 0 {
		return Result{}, ErrEmptyHistory
	}
	marketFactor, ok := params.Market.Factor()
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownMarket, params.Market)
	}
	seasonFactor, ok := params.Season.Factor()
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownSeason, params.Season)
	}

	last := history[len(history)-1]
	periods := datetime.NextPeriods(last.Period, constants.ForecastPeriods)
	current := last.Actual

	projected := make([]ForecastPoint, 0, constants.ForecastPeriods)
	for i, period := range periods {
		jitter := g.jitter.Next()
		current = current * marketFactor * seasonFactor * GrowthImpact(params.GrowthRatePercent, i) * jitter
		current = mathutil.RoundToThousand(current)
		projected = append(projected, ForecastPoint{Period: period, Projected: current})
	}

	hist := make([]HistoricalPoint, len(history))
	copy(hist, history)

	g.logger.Debug("forecast generated",
		zap.String("op", "forecast.Generate"),
		zap.String("market", string(params.Market)),
		zap.String("season", string(params.Season)),
		zap.Float64("growthRatePercent", params.GrowthRatePercent),
		zap.Float64("lastProjected", current),
	)

	return Result{
		Parameters: params,
		History:    hist,
		Forecast:   projected,
		Series:     Combine(hist, projected),
	}, nil
}
