package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MinorUnitPlaces is the number of decimal places derived amounts are rounded to.
const MinorUnitPlaces = 2

// ParseAmount parses a fixed-point decimal, keeping the scale of the input
// ("100.00" stays at two places).
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("amount is empty")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", raw, err)
	}
	return d, nil
}

// RoundMinor rounds half-up (away from zero on ties) to MinorUnitPlaces.
func RoundMinor(d decimal.Decimal) decimal.Decimal {
	return d.Round(MinorUnitPlaces)
}

// FormatAmount renders d with its own scale, never in exponent notation.
func FormatAmount(d decimal.Decimal) string {
	places := int32(0)
	if exp := d.Exponent(); exp < 0 {
		places = -exp
	}
	return d.StringFixed(places)
}

// FormatThreshold renders a configured limit with minor-unit precision.
func FormatThreshold(d decimal.Decimal) string {
	return d.StringFixed(MinorUnitPlaces)
}

// FormatNullAmount renders an absent derived amount as an empty string.
func FormatNullAmount(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return FormatAmount(d.Decimal)
}
