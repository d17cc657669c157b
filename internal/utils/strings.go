package utils

import (
	"regexp"
	"strings"
)

// emailShape is deliberately loose: something@something.something.
var emailShape = regexp.MustCompile(`.+@.+\..+`)

// NormalizeString trims whitespace and normalizes string input
func NormalizeString(s string) string {
	return strings.TrimSpace(s)
}

// IsValidEmail reports whether email contains an "@" followed later by a ".".
func IsValidEmail(email string) bool {
	return emailShape.MatchString(email)
}
