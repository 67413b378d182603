package forecast

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/iwvelando/ai-business-solutions/pkg/constants"
)

var (
	// ErrEmptyHistory is returned when there is no historical value to extrapolate from.
	ErrEmptyHistory = errors.New("historical series is empty")
	// ErrUnknownMarket is returned for a market condition outside the lookup table.
	ErrUnknownMarket = errors.New("unknown market condition")
	// ErrUnknownSeason is returned for a seasonality outside the lookup table.
	ErrUnknownSeason = errors.New("unknown seasonality")
	// ErrInvalidGrowth is returned for a growth rate that is not a finite number.
	ErrInvalidGrowth = errors.New("growth rate is not a number")
	// ErrGrowthOutOfRange is returned by Validate for growth outside the input control's range.
	ErrGrowthOutOfRange = errors.New("growth rate out of range")
)

// MarketCondition describes the overall market trend.
type MarketCondition string

const (
	MarketDeclining MarketCondition = "declining"
	MarketStable    MarketCondition = "stable"
	MarketGrowing   MarketCondition = "growing"
	MarketBooming   MarketCondition = "booming"
)

var marketFactors = map[MarketCondition]float64{
	MarketDeclining: 0.85,
	MarketStable:    1.0,
	MarketGrowing:   1.15,
	MarketBooming:   1.3,
}

// MarketConditions lists the conditions in the order the widget offers them.
func MarketConditions() []MarketCondition {
	return []MarketCondition{MarketDeclining, MarketStable, MarketGrowing, MarketBooming}
}

// Factor returns the multiplier for m and whether m is known.
func (m MarketCondition) Factor() (float64, bool) {
	f, ok := marketFactors[m]
	return f, ok
}

// Label returns the option text shown in the widget, e.g. "Stable Market".
func (m MarketCondition) Label() string {
	return titleCase(string(m)) + " Market"
}

// ParseMarketCondition parses a market condition, ignoring case and surrounding space.
func ParseMarketCondition(value string) (MarketCondition, error) {
	m := MarketCondition(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := m.Factor(); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMarket, value)
	}
	return m, nil
}

// UnmarshalText decodes a market condition the way ParseMarketCondition does.
func (m *MarketCondition) UnmarshalText(text []byte) error {
	parsed, err := ParseMarketCondition(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Seasonality describes the expected seasonal demand.
type Seasonality string

const (
	SeasonLow    Seasonality = "low"
	SeasonNormal Seasonality = "normal"
	SeasonHigh   Seasonality = "high"
	SeasonPeak   Seasonality = "peak"
)

var seasonFactors = map[Seasonality]float64{
	SeasonLow:    0.9,
	SeasonNormal: 1.0,
	SeasonHigh:   1.2,
	SeasonPeak:   1.4,
}

// Seasonalities lists the seasons in the order the widget offers them.
func Seasonalities() []Seasonality {
	return []Seasonality{SeasonLow, SeasonNormal, SeasonHigh, SeasonPeak}
}

// Factor returns the multiplier for s and whether s is known.
func (s Seasonality) Factor() (float64, bool) {
	f, ok := seasonFactors[s]
	return f, ok
}

// Label returns the option text shown in the widget, e.g. "Peak Season".
func (s Seasonality) Label() string {
	return titleCase(string(s)) + " Season"
}

// ParseSeasonality parses a seasonality, ignoring case and surrounding space.
func ParseSeasonality(value string) (Seasonality, error) {
	s := Seasonality(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := s.Factor(); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSeason, value)
	}
	return s, nil
}

// UnmarshalText decodes a seasonality the way ParseSeasonality does.
func (s *Seasonality) UnmarshalText(text []byte) error {
	parsed, err := ParseSeasonality(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Parameters are the three user-chosen inputs of a forecast.
type Parameters struct {
	Market            MarketCondition `json:"marketCondition"`
	Season            Seasonality     `json:"seasonality"`
	GrowthRatePercent float64         `json:"growthRatePercent"`
}

// DefaultParameters returns the values the widget starts with.
func DefaultParameters() Parameters {
	return Parameters{
		Market:            MarketStable,
		Season:            SeasonNormal,
		GrowthRatePercent: constants.DefaultGrowthRatePercent,
	}
}

// ParseParameters builds Parameters from raw form or flag values. Empty values
// keep their defaults. The result is validated.
func ParseParameters(market, season, growth string) (Parameters, error) {
	params := DefaultParameters()
	var err error

	if strings.TrimSpace(market) != "" {
		if params.Market, err = ParseMarketCondition(market); err != nil {
			return params, err
		}
	}
	if strings.TrimSpace(season) != "" {
		if params.Season, err = ParseSeasonality(season); err != nil {
			return params, err
		}
	}
	if trimmed := strings.TrimSpace(growth); trimmed != "" {
		params.GrowthRatePercent, err = strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return params, fmt.Errorf("%w: %q", ErrInvalidGrowth, growth)
		}
	}

	return params, params.Validate()
}

// Validate checks the parameters against the ranges offered by the input
// controls. Generate does not call it; callers gate their input with it.
func (p Parameters) Validate() error {
	if _, ok := p.Market.Factor(); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMarket, p.Market)
	}
	if _, ok := p.Season.Factor(); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSeason, p.Season)
	}
	if math.IsNaN(p.GrowthRatePercent) || math.IsInf(p.GrowthRatePercent, 0) {
		return ErrInvalidGrowth
	}
	if p.GrowthRatePercent < constants.MinGrowthRatePercent || p.GrowthRatePercent > constants.MaxGrowthRatePercent {
		return fmt.Errorf("%w: %v not in [%v, %v]", ErrGrowthOutOfRange,
			p.GrowthRatePercent, constants.MinGrowthRatePercent, constants.MaxGrowthRatePercent)
	}
	return nil
}

// HistoricalPoint is one observed period of the sales series.
type HistoricalPoint struct {
	Period string  `json:"period" mapstructure:"period"`
	Actual float64 `json:"actualValue" mapstructure:"actualValue"`
}

// ForecastPoint is one projected future period.
type ForecastPoint struct {
	Period    string  `json:"period"`
	Projected float64 `json:"projectedValue"`
}

// CombinedPoint is a row of the chart series. Exactly one of Actual and
// Projected is set.
type CombinedPoint struct {
	Period    string   `json:"period"`
	Actual    *float64 `json:"actualValue,omitempty"`
	Projected *float64 `json:"projectedValue,omitempty"`
}

// DefaultHistory returns a fresh copy of the seed series shown by the demo.
func DefaultHistory() []HistoricalPoint {
	return []HistoricalPoint{
		{Period: "Jan", Actual: 120000},
		{Period: "Feb", Actual: 132000},
		{Period: "Mar", Actual: 125000},
		{Period: "Apr", Actual: 145000},
		{Period: "May", Actual: 160000},
		{Period: "Jun", Actual: 178000},
	}
}

// Combine concatenates history and forecast into a single chart series.
func Combine(history []HistoricalPoint, projected []ForecastPoint) []CombinedPoint {
	series := make([]CombinedPoint, 0, len(history)+len(projected))
	for _, h := range history {
		v := h.Actual
		series = append(series, CombinedPoint{Period: h.Period, Actual: &v})
	}
	for _, f := range projected {
		v := f.Projected
		series = append(series, CombinedPoint{Period: f.Period, Projected: &v})
	}
	return series
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
