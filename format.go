package expenses_bot

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// formatAmount renders a sum for display: two decimals, grouping separators.
func formatAmount(v float64) string {
	return printer.Sprintf("%.2f", v)
}

// formatAmountRaw renders an amount the way it is stored: a plain
// decimal with no grouping or padding.
func formatAmountRaw(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
