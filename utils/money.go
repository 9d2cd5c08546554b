package utils

import (
	"math"
	"strconv"
)

// Placeholder is displayed instead of a unit price when the inputs are invalid
const Placeholder = "--"

// RoundHalfAwayFromZero rounds v to the given number of decimal digits.
// Ties (x.xx5 after scaling) move away from zero: 0.125 -> 0.13, -0.125 -> -0.13.
// The value is scaled as a float64 first, so inputs whose binary value sits just
// below the tie (1.005 is stored as 1.00499999...) round down.
func RoundHalfAwayFromZero(v float64, digits int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	pow := math.Pow(10, float64(digits))
	return math.Round(v*pow) / pow
}

// FormatFixed formats v with exactly the given number of decimals after rounding
// half away from zero.
func FormatFixed(v float64, digits int) string {
	return strconv.FormatFloat(RoundHalfAwayFromZero(v, digits), 'f', digits, 64)
}

// FormatUnitPrice formats a unit price with 2 decimals, e.g. "4.50"
func FormatUnitPrice(v float64) string {
	return FormatFixed(v, 2)
}

// FormatPercent formats a savings percentage with 1 decimal, e.g. "11.1"
func FormatPercent(v float64) string {
	return FormatFixed(v, 1)
}

// FormatMoney prefixes a formatted unit price with a currency symbol, e.g. "¥4.50".
// Invalid prices keep the bare placeholder.
func FormatMoney(symbol string, display string) string {
	if display == Placeholder {
		return display
	}
	return symbol + display
}
