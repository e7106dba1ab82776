package utils

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail validates an email address
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// SanitizeEmail trims surrounding whitespace from an email address.
// Case is preserved: emails are matched exactly as stored.
func SanitizeEmail(email string) string {
	return strings.TrimSpace(email)
}
