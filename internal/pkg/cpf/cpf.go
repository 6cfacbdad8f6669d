// Package cpf validates Brazilian CPF numbers (the lookup key partners
// use when a card cannot be scanned).
package cpf

import "strings"

// Normalize strips everything but digits, so "123.456.789-09" and
// "12345678909" compare equal.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValid reports whether s is a well-formed CPF: 11 digits, not a
// repeated-digit sequence, with both check digits correct.
func IsValid(s string) bool {
	digits := Normalize(s)
	if len(digits) != 11 {
		return false
	}

	// 000.000.000-00 through 999.999.999-99 pass the checksum but are
	// reserved invalid numbers.
	allSame := true
	for i := 1; i < 11; i++ {
		if digits[i] != digits[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}

	if checkDigit(digits, 9) != int(digits[9]-'0') {
		return false
	}
	return checkDigit(digits, 10) == int(digits[10]-'0')
}

// checkDigit computes the verification digit at position pos (9 or 10)
// from the preceding digits.
func checkDigit(digits string, pos int) int {
	sum := 0
	for i := 0; i < pos; i++ {
		sum += int(digits[i]-'0') * (pos + 1 - i)
	}
	rem := sum % 11
	if rem < 2 {
		return 0
	}
	return 11 - rem
}
