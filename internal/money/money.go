// Package money parses the monetary strings that appear in marketing exports:
// plain numbers, currency-prefixed strings, and locale-ambiguous separators.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount resolves s to a non-negative amount, returning 0 for anything
// unparseable. When both "," and "." appear, whichever occurs last is the
// decimal separator and the other is a thousands separator; a lone "," is
// always decimal.
func ParseAmount(s string) float64 {
	cleaned := strings.Map(keepNumeric, strings.TrimSpace(s))
	if cleaned == "" {
		return 0
	}

	comma := strings.LastIndex(cleaned, ",")
	dot := strings.LastIndex(cleaned, ".")
	switch {
	case comma >= 0 && dot >= 0:
		if comma > dot {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case comma >= 0:
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil || d.IsNegative() {
		return 0
	}
	return d.InexactFloat64()
}

// keepNumeric drops currency symbols, spaces and anything else that is not
// part of a number.
func keepNumeric(r rune) rune {
	switch {
	case r >= '0' && r <= '9':
		return r
	case r == ',' || r == '.' || r == '-':
		return r
	}
	return -1
}
