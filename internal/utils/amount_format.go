package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount formats an amount rounded to precision fractional digits, with
// thousands separators.
// Example: 1234567.891 with precision 2 returns "1,234,567.89"
// Example: -12 with precision 0 returns "-12"
func FormatAmount(amount decimal.Decimal, precision int) string {
	fixed := amount.StringFixed(int32(precision))

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	whole, frac, hasFrac := strings.Cut(fixed, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
