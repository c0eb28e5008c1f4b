// Package currency renders amounts the way the dashboard displays them:
// Indonesian Rupiah with "." grouping and "," as the decimal mark.
package currency

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	symbolIDR = "Rp"

	// maxExactCents is the largest cent count a float64 holds exactly.
	maxExactCents = 1 << 53
)

var printer = message.NewPrinter(language.Indonesian)

// FormatIDR formats amount as Rupiah. Whole amounts carry no decimals
// (1000 -> "Rp1.000"); others are rounded to two (12.5 -> "Rp12,50").
func FormatIDR(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return symbolIDR + "-"
	}

	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	if amount*100 >= maxExactCents {
		// Cents are below float precision here; print whole Rupiah only.
		return sign + symbolIDR + printer.Sprint(number.Decimal(math.Round(amount), number.MaxFractionDigits(0)))
	}

	cents := int64(math.Round(amount * 100))
	whole, frac := cents/100, cents%100

	out := sign + symbolIDR + printer.Sprintf("%d", whole)
	if frac != 0 {
		out += fmt.Sprintf(",%02d", frac)
	}
	return out
}
