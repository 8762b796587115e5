// Package isbn normalizes and validates ISBN strings. The normalized,
// digits-only form is the sole identity key for ISBN-based matching.
package isbn

import "strings"

// Normalize strips leading-quote artifacts and every non-digit character
// from an ISBN. Some spreadsheet stores force text-type storage with a
// leading apostrophe; those marks come back on read and must not leak
// into identity comparisons. Returns "" for empty input. Idempotent.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Valid reports whether the normalized form of s is a check-digit-valid
// ISBN-10 or ISBN-13. An ISBN-10 whose check digit is "X" fails the
// digits-only normalization, so Valid is advisory only: a false result
// never blocks a write.
func Valid(s string) bool {
	digits := Normalize(s)
	switch len(digits) {
	case 10:
		return validISBN10(digits)
	case 13:
		return validISBN13(digits)
	}
	return false
}

func validISBN10(digits string) bool {
	sum := 0
	for i, r := range digits {
		sum += (10 - i) * int(r-'0')
	}
	return sum%11 == 0
}

func validISBN13(digits string) bool {
	sum := 0
	for i, r := range digits {
		weight := 1
		if i%2 == 1 {
			weight = 3
		}
		sum += weight * int(r-'0')
	}
	return sum%10 == 0
}
