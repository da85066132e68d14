// Package validation contains pure predicate functions for user input:
// phone numbers, one-time codes, and passwords. No state, no I/O.
package validation

import (
	"strings"
	"unicode"
)

const (
	phoneMinDigits = 10
	phoneMaxDigits = 15
	otpLength      = 6
	passwordMinLen = 8
)

// Password requirement messages, in the order they are checked.
const (
	msgPasswordLength    = "At least 8 characters"
	msgPasswordUppercase = "One uppercase letter"
	msgPasswordNumber    = "One number"
)

// Digits strips every non-digit rune from s.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidatePhoneNumber reports whether s contains between 10 and 15 digits
// after stripping separators, spaces, and other non-digit characters.
func ValidatePhoneNumber(s string) bool {
	n := len(Digits(s))
	return n >= phoneMinDigits && n <= phoneMaxDigits
}

// ValidateOTP reports whether s is exactly six digits.
func ValidateOTP(s string) bool {
	if len(s) != otpLength {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// PasswordCheck is the result of ValidatePassword. Errors lists the unmet
// requirements in display form; Valid is true iff the list is empty.
type PasswordCheck struct {
	Valid  bool
	Errors []string
}

// ValidatePassword checks password strength: length of at least 8,
// one uppercase letter, one digit.
func ValidatePassword(s string) PasswordCheck {
	var errs []string

	if len(s) < passwordMinLen {
		errs = append(errs, msgPasswordLength)
	}
	if !strings.ContainsFunc(s, unicode.IsUpper) {
		errs = append(errs, msgPasswordUppercase)
	}
	if !strings.ContainsFunc(s, unicode.IsDigit) {
		errs = append(errs, msgPasswordNumber)
	}

	return PasswordCheck{Valid: len(errs) == 0, Errors: errs}
}

// FormatPhoneNumber renders a phone number with 3-3-4 digit grouping for
// display, e.g. "5551234567" -> "555 123 4567". Short inputs are returned
// as their bare digits.
func FormatPhoneNumber(s string) string {
	cleaned := Digits(s)
	switch {
	case len(cleaned) <= 3:
		return cleaned
	case len(cleaned) <= 6:
		return cleaned[:3] + " " + cleaned[3:]
	default:
		end := len(cleaned)
		if end > 10 {
			end = 10
		}
		return cleaned[:3] + " " + cleaned[3:6] + " " + cleaned[6:end]
	}
}
