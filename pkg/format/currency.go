package format

import (
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Thousands returns value rounded to a whole number with thousands separators
// (e.g., "178,000").
func Thousands(value float64) string {
	return printer.Sprintf("%d", int64(math.Round(value)))
}

// Currency returns a whole-dollar amount with thousands separators
// (e.g., "-$1,234").
func Currency(amount float64) string {
	if amount < 0 {
		return "-$" + Thousands(math.Abs(amount))
	}
	return "$" + Thousands(amount)
}

// KiloTick formats an axis value in thousands without decimals (e.g., "178k").
func KiloTick(value float64) string {
	return fmt.Sprintf("%.0fk", value/1000)
}

// Percent formats value with the given number of decimals and a percent sign.
func Percent(value float64, decimals int) string {
	return strconv.FormatFloat(value, 'f', decimals, 64) + "%"
}

// Number formats value using the shortest representation that round-trips,
// so 5 renders as "5" and 2.5 as "2.5".
func Number(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
