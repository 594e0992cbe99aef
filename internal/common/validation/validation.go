package validation

import (
	"regexp"
)

const PhoneDigits = 10

// Whitespace here follows the broad definition browsers use for \s, so
// non-breaking and other Unicode spaces are rejected as well.
var (
	emailRegex = regexp.MustCompile(`^[^@\s\v\p{Z}\x{FEFF}]+@[^@\s\v\p{Z}\x{FEFF}]+\.[^@\s\v\p{Z}\x{FEFF}]+$`)
	phoneRegex = regexp.MustCompile(`^[0-9]{10}$`)
)

// IsValidEmail checks the local@domain.tld shape with no whitespace anywhere.
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidPhone accepts exactly ten ASCII digits, nothing else.
func IsValidPhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}

// HasEmpty reports whether any of the values is the empty string.
func HasEmpty(values ...string) bool {
	for _, v := range values {
		if v == "" {
			return true
		}
	}
	return false
}
