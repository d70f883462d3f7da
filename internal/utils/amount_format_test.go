package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount    string
		precision int
		want      string
	}{
		{"0", 2, "0.00"},
		{"12.5", 2, "12.50"},
		{"999.999", 2, "1,000.00"},
		{"1234567.891", 2, "1,234,567.89"},
		{"-1234.5", 2, "-1,234.50"},
		{"-12", 0, "-12"},
		{"100000", 0, "100,000"},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(decimal.RequireFromString(tt.amount), tt.precision))
		})
	}
}
