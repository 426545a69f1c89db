package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// QuantityScale is the fixed number of fractional digits every persisted
// quantity is rounded to. All ledger rows carry decimal(20,6) columns.
const QuantityScale = 6

// ParseQuantity parses a decimal string exactly, without going through float64.
// Malformed input returns ErrorInvalidQuantity.
func ParseQuantity(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrorInvalidQuantity
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrorInvalidQuantity
	}
	return d, nil
}

// ParsePositiveQuantity parses like ParseQuantity and additionally requires the
// value to be strictly greater than zero.
func ParsePositiveQuantity(s string) (decimal.Decimal, error) {
	d, err := ParseQuantity(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrorInvalidQuantity
	}
	return d, nil
}

// RoundQuantity rounds to QuantityScale using half-up (half away from zero),
// matching the rounding the ledger has always used. Do not swap this for
// banker's rounding; regression quantities in tests are pinned to it.
func RoundQuantity(d decimal.Decimal) decimal.Decimal {
	return d.Round(QuantityScale)
}

// FormatQuantity renders a quantity at the fixed ledger scale, e.g. "-7.500000".
func FormatQuantity(d decimal.Decimal) string {
	return d.StringFixed(QuantityScale)
}

// IsZeroAtScale reports whether d rounds to exactly zero at the ledger scale.
func IsZeroAtScale(d decimal.Decimal) bool {
	return RoundQuantity(d).IsZero()
}
