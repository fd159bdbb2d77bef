package util

import (
	"regexp"
	"strings"
)

// MinPasswordLength matches the signup form's minimum.
const MinPasswordLength = 8

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// IsValidEmail checks the email shape the signup and login forms accept.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsBlank reports whether a required field is missing.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ValidatePassword returns an empty string when the password is acceptable,
// otherwise a field-level message.
func ValidatePassword(password string) string {
	if password == "" {
		return "Password is required"
	}
	if len(password) < MinPasswordLength {
		return "Password must be at least 8 characters"
	}
	return ""
}
