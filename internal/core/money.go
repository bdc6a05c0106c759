// Package core provides amount parsing utilities.
//
// This file contains the parser used by form-backed callers to turn user
// input into an expense amount.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseAmount converts a user-entered decimal string to an amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// surrounding whitespace. Signs, exponents, multiple separators and
// non-positive values are rejected with ErrInvalidAmount.
//
// Examples:
//   ParseAmount("12.50") -> 12.5, nil
//   ParseAmount("12,50") -> 12.5, nil
//   ParseAmount("-3")    -> 0, ErrInvalidAmount
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.Count(s, ".") > 1 {
		return 0, ErrInvalidAmount
	}
	digits := 0
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '.':
		default:
			return 0, ErrInvalidAmount
		}
	}
	if digits == 0 {
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !ValidAmount(v) {
		return 0, ErrInvalidAmount
	}
	return v, nil
}
