package utils

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidNumber is returned when a field is not a finite, strictly positive decimal.
var ErrInvalidNumber = errors.New("invalid numeric field")

// decimalPattern accepts plain decimal literals: optional sign, digits with an optional
// fraction (or a bare fraction like ".5"), and an optional exponent.
// Hex floats, "Inf", "NaN" and digit separators are rejected before ParseFloat sees them.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ParseNumericField turns raw user input into a finite positive float64.
// Empty strings, non-numeric text, non-finite values, zero and negatives all fail
// with ErrInvalidNumber.
func ParseNumericField(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" || !decimalPattern.MatchString(s) {
		return 0, ErrInvalidNumber
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Overflow ("1e999") lands here as well
		return 0, ErrInvalidNumber
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, ErrInvalidNumber
	}
	return v, nil
}
