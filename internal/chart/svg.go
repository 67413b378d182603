// Package chart renders a combined historical and forecast series as an
// inline SVG line chart.
package chart

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/iwvelando/ai-business-solutions/internal/forecast"
	"github.com/iwvelando/ai-business-solutions/pkg/format"
	"github.com/iwvelando/ai-business-solutions/pkg/mathutil"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	// HistoricalColor strokes the observed series.
	HistoricalColor = "#4f46e5"
	// ForecastColor strokes the projected series.
	ForecastColor = "#10b981"

	// HistoricalSeries and ForecastSeries name the two lines in the legend.
	HistoricalSeries = "Historical"
	ForecastSeries   = "AI Forecast"

	// Domain padding below the smallest and above the largest value.
	domainPadLow  = 10000
	domainPadHigh = 20000
)

var forecastDash = []float64{5, 5}

// Options controls the chart geometry.
type Options struct {
	Width  int
	Height int
	Ticks  int
}

// DefaultOptions returns the geometry used by the landing page.
func DefaultOptions() Options {
	return Options{Width: 720, Height: 320, Ticks: 5}
}

// Domain returns the y-axis range for series: the smallest value minus 10k
// to the largest value plus 20k.
func Domain(series []forecast.CombinedPoint) (lo, hi float64) {
	values := make([]float64, 0, len(series))
	for _, row := range series {
		if row.Actual != nil {
			values = append(values, *row.Actual)
		}
		if row.Projected != nil {
			values = append(values, *row.Projected)
		}
	}
	lo, hi = mathutil.Bounds(values)
	return lo - domainPadLow, hi + domainPadHigh
}

// Color converts one of the hex colours above for go-chart.
func Color(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

// Render returns series as an SVG chart wrapped in a figure whose caption is
// the legend. An empty series renders nothing.
func Render(series []forecast.CombinedPoint, opts Options) (string, error) {
	if len(series) == 0 {
		return "", nil
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts = DefaultOptions()
	}
	if opts.Ticks < 2 {
		opts.Ticks = 2
	}

	historical := gochart.ContinuousSeries{Name: HistoricalSeries, Style: lineStyle(HistoricalColor, nil)}
	projected := gochart.ContinuousSeries{Name: ForecastSeries, Style: lineStyle(ForecastColor, forecastDash)}
	xTicks := make([]gochart.Tick, 0, len(series))
	for i, row := range series {
		x := float64(i)
		// Labels are written into the SVG verbatim.
		xTicks = append(xTicks, gochart.Tick{Value: x, Label: html.EscapeString(row.Period)})
		if row.Actual != nil {
			historical.XValues = append(historical.XValues, x)
			historical.YValues = append(historical.YValues, *row.Actual)
		}
		if row.Projected != nil {
			// Start the dashed line at the last observation so the two series join.
			if len(projected.XValues) == 0 && len(historical.XValues) > 0 {
				last := len(historical.XValues) - 1
				projected.XValues = append(projected.XValues, historical.XValues[last])
				projected.YValues = append(projected.YValues, historical.YValues[last])
			}
			projected.XValues = append(projected.XValues, x)
			projected.YValues = append(projected.YValues, *row.Projected)
		}
	}

	var drawn []gochart.ContinuousSeries
	for _, s := range []gochart.ContinuousSeries{historical, projected} {
		if len(s.XValues) > 0 {
			drawn = append(drawn, s)
		}
	}
	lines := make([]gochart.Series, 0, len(drawn))
	for _, s := range drawn {
		lines = append(lines, s)
	}

	lo, hi := Domain(series)
	graph := gochart.Chart{
		Width:  opts.Width,
		Height: opts.Height,
		XAxis: gochart.XAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: mathutil.Max(1, float64(len(series)-1))},
			Ticks: xTicks,
		},
		YAxis: gochart.YAxis{
			Range:          &gochart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: kiloTick,
			Ticks:          valueTicks(lo, hi, opts.Ticks),
		},
		Series: lines,
	}

	var svg bytes.Buffer
	if err := graph.Render(gochart.SVG, &svg); err != nil {
		return "", fmt.Errorf("failed to render chart: %w", err)
	}

	var b strings.Builder
	b.WriteString(`<figure class="chart" role="img" aria-label="Sales forecast chart">`)
	b.Write(svg.Bytes())
	b.WriteString(`<figcaption class="chart-legend">`)
	for _, s := range drawn {
		fmt.Fprintf(&b, `<span data-series="%s" style="--swatch: %s">%s</span>`,
			html.EscapeString(s.Name), s.Style.StrokeColor.String(), html.EscapeString(s.Name))
	}
	b.WriteString(`</figcaption></figure>`)
	return b.String(), nil
}

func lineStyle(hex string, dash []float64) gochart.Style {
	color := Color(hex)
	return gochart.Style{
		StrokeColor:     color,
		StrokeWidth:     2,
		StrokeDashArray: dash,
		DotColor:        color,
		DotWidth:        3,
	}
}

// valueTicks spreads n ticks evenly over [lo, hi], both ends included.
func valueTicks(lo, hi float64, n int) []gochart.Tick {
	ticks := make([]gochart.Tick, 0, n)
	for i := 0; i < n; i++ {
		v := lo + (hi-lo)*float64(i)/float64(n-1)
		ticks = append(ticks, gochart.Tick{Value: v, Label: kiloTick(v)})
	}
	return ticks
}

func kiloTick(v interface{}) string {
	if f, ok := v.(float64); ok {
		return format.KiloTick(f)
	}
	return ""
}
