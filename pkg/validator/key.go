package validator

import (
	"regexp"
	"strings"
)

// keyRegexp defines the valid format for asset type slugs:
// lowercase letters, numbers, underscores, and hyphens, 1-64 characters.
var keyRegexp = regexp.MustCompile(`^[a-z0-9_-]{1,64}$`)

// fieldKeyRegexp matches CSV header names used as field keys, e.g. "expiresAt".
var fieldKeyRegexp = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{0,63}$`)

// ValidateKey checks if the given slug is well formed.
func ValidateKey(key string) bool {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return false
	}
	return keyRegexp.MatchString(trimmed)
}

// SanitizeKey trims whitespace and validates the slug.
// Returns the sanitized key and a boolean indicating if it's valid.
func SanitizeKey(key string) (string, bool) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", false
	}
	if !keyRegexp.MatchString(trimmed) {
		return trimmed, false
	}
	return trimmed, true
}

// SanitizeFieldKey trims whitespace and validates a field key.
func SanitizeFieldKey(key string) (string, bool) {
	trimmed := strings.TrimSpace(key)
	return trimmed, fieldKeyRegexp.MatchString(trimmed)
}

var emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail performs the loose address check used for seat assignments.
func ValidateEmail(email string) bool {
	return emailRegexp.MatchString(strings.TrimSpace(email))
}
