package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumericField_Valid(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"10", 10},
		{"4.5", 4.5},
		{" 18 ", 18},
		{".5", 0.5},
		{"3.", 3},
		{"+2", 2},
		{"1e2", 100},
		{"0.0001", 0.0001},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseNumericField(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// "0" is rejected for prices as well as quantities: a free item has no meaningful
// unit price to rank against.
func TestParseNumericField_Invalid(t *testing.T) {
	for _, raw := range []string{
		"", "   ", "abc", "12abc", "0", "0.0", "-1", "-0.5",
		"NaN", "Inf", "infinity", "0x1p3", "1_000", "1e999", "1,5", ".",
	} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseNumericField(raw)
			assert.ErrorIs(t, err, ErrInvalidNumber)
		})
	}
}
