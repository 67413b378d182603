// Package validation provides common validation utilities.
package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/ai-business-solutions/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported
// stdout formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ValidateExportFormat checks if the export format is one of the supported
// download formats.
func ValidateExportFormat(format string) error {
	if format != constants.OutputFormatCSV && format != constants.OutputFormatXLSX {
		return fmt.Errorf("expected export format of %s or %s, got %s",
			constants.OutputFormatCSV, constants.OutputFormatXLSX, format)
	}
	return nil
}

// ValidateLogLevel checks a log level name; the empty string means "use the default".
func ValidateLogLevel(level string) error {
	switch strings.ToLower(level) {
	case "", "debug", "info", "warn", "warning", "error":
		return nil
	}
	return fmt.Errorf("invalid log level: %s", level)
}
