package output

import (
	"fmt"
	"io"

	"github.com/iwvelando/ai-business-solutions/internal/forecast"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet that holds exported forecasts.
const SheetName = "Forecast"

// XLSXFormat writes the combined series as a spreadsheet with a bold header
// row. Absent values are left as empty cells.
func XLSXFormat(w io.Writer, result forecast.Result) (err error) {
	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(CSVHeader))
	for i, h := range CSVHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "C1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, row := range result.Series {
		line := i + 2
		if err := f.SetCellValue(SheetName, fmt.Sprintf("A%d", line), row.Period); err != nil {
			return err
		}
		if row.Actual != nil {
			if err := f.SetCellValue(SheetName, fmt.Sprintf("B%d", line), *row.Actual); err != nil {
				return err
			}
		}
		if row.Projected != nil {
			if err := f.SetCellValue(SheetName, fmt.Sprintf("C%d", line), *row.Projected); err != nil {
				return err
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return nil
}
