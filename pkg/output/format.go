// Package output provides utilities for formatting and displaying forecast results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/ai-business-solutions/internal/forecast"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CSVHeader is the header row of CSV and spreadsheet exports.
var CSVHeader = []string{"period", "actual", "forecast"}

// PrettyFormat writes a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, result forecast.Result) error {
	p := message.NewPrinter(language.English)
	params := result.Parameters

	if _, err := fmt.Fprintf(w, "--- Forecast (%s market, %s season, %v%% growth) ---\n",
		params.Market, params.Season, params.GrowthRatePercent); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Period | Actual       | Forecast\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "______ | ____________ | ____________\n"); err != nil {
		return err
	}
	for _, row := range result.Series {
		if _, err := p.Fprintf(w, "%-6s | %12s | %12s\n", row.Period, prettyValue(p, row.Actual), prettyValue(p, row.Projected)); err != nil {
			return err
		}
	}
	return nil
}

func prettyValue(p *message.Printer, v *float64) string {
	if v == nil {
		return ""
	}
	return p.Sprintf("$%d", int64(*v))
}

// CsvFormat writes the combined series in comma-separated value format.
func CsvFormat(w io.Writer, result forecast.Result) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(CSVHeader); err != nil {
		return err
	}
	for _, row := range result.Series {
		if err := writer.Write([]string{row.Period, csvValue(row.Actual), csvValue(row.Projected)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// CsvString returns the CSV rendition of result.
func CsvString(result forecast.Result) string {
	var b strings.Builder
	if err := CsvFormat(&b, result); err != nil {
		return ""
	}
	return b.String()
}

func csvValue(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
