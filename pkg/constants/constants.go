// Package constants provides shared constants for the ai-business-solutions application.
package constants

import "time"

// PeriodLayout is the layout of period labels in the historical series and
// forecast output (abbreviated month name).
const PeriodLayout = "Jan"

// Forecast constants
const (
	// ForecastPeriods is the number of future periods produced by every forecast
	ForecastPeriods = 6

	// RoundingUnit is the granularity projected values are snapped to
	RoundingUnit = 1000.0

	// JitterMin is the lower bound of the per-period random factor
	JitterMin = 0.95

	// JitterMax is the upper bound of the per-period random factor
	JitterMax = 1.05

	// MinGrowthRatePercent is the lowest growth rate the input controls accept
	MinGrowthRatePercent = -20.0

	// MaxGrowthRatePercent is the highest growth rate the input controls accept
	MaxGrowthRatePercent = 50.0

	// DefaultGrowthRatePercent is the growth rate the widget starts with
	DefaultGrowthRatePercent = 5.0

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Demo widget defaults
const (
	// DefaultDemoDelay simulates the latency of a forecasting backend
	DefaultDemoDelay = 1500 * time.Millisecond

	// DefaultSessionTTL is how long an idle demo session is kept in memory
	DefaultSessionTTL = 30 * time.Minute

	// DefaultDisplayName is shown when the visitor left the name field empty
	DefaultDisplayName = "User"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatXLSX is the spreadsheet export format
	OutputFormatXLSX = "xlsx"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment overrides of the site configuration
	EnvPrefix = "AIBS"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024

	// DefaultShutdownTimeout bounds graceful shutdown of the HTTP server
	DefaultShutdownTimeout = 10 * time.Second
)

// Site defaults
const (
	// DefaultCompanyName is rendered in the footer and page title
	DefaultCompanyName = "AI Business Solutions"

	// DefaultTagline is rendered under the company name in the footer
	DefaultTagline = "Transforming businesses with intelligent automation"
)
