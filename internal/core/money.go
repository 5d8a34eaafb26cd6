// Package core provides amount parsing and display formatting.
//
// Aggregation works on float64 values; rounding to two decimals only happens
// in FormatBRL, when a value is about to be shown.
package core

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a submitted amount to a positive number.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted.
// Empty, unparseable, zero or negative input returns ErrInvalidAmount.
func ParseAmount(s string) (float64, error) {
	v, ok := parseNumber(s)
	if !ok || v <= 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// ParseSalary converts free salary text to a number. Empty or invalid
// text counts as zero.
func ParseSalary(s string) float64 {
	v, ok := parseNumber(s)
	if !ok {
		return 0
	}
	return v
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	v := d.InexactFloat64()
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// FormatBRL renders a value as Brazilian reais, e.g. "R$ 1.234,56".
func FormatBRL(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	neg := d.IsNegative()
	if neg {
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	s := "R$ " + b.String() + "," + frac
	if neg {
		return "-" + s
	}
	return s
}
