package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultThreshold is the monetary tolerance below which a difference is not
// a discrepancy: one cent.
var DefaultThreshold = decimal.RequireFromString("0.01")

// ParseAmount parses a monetary value as it appears in remittance documents.
// Currency symbols and thousands separators are stripped; an empty value is
// zero. The result is rounded to two decimal places.
func ParseAmount(value string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(value)
	clean = strings.ReplaceAll(clean, "$", "")
	clean = strings.ReplaceAll(clean, ",", "")
	if clean == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid monetary value %q: %w", value, err)
	}
	return round2(d), nil
}

// round2 rounds half away from zero to two decimal places, matching how the
// remittance documents present amounts.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// exceeds reports whether |d| is greater than the threshold.
func exceeds(d, threshold decimal.Decimal) bool {
	return d.Abs().GreaterThan(threshold)
}
