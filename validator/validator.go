// Package validator holds field-level validation primitives and the error
// type that carries one message per invalid field.
package validator

import (
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

// ValidationErrors is an ordered list of field failures. It is returned as an
// error so callers can errors.As it out of a wrapped chain.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

// ToMap returns field -> message. The first failure per field wins.
func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string, len(v))
	for _, err := range v {
		if _, ok := result[err.Field]; !ok {
			result[err.Field] = err.Message
		}
	}
	return result
}

// Add appends a failure for field.
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, ValidationError{Field: field, Message: message})
}

// Has reports whether field already failed.
func (v ValidationErrors) Has(field string) bool {
	for _, err := range v {
		if err.Field == field {
			return true
		}
	}
	return false
}

// Err returns v as an error, or nil when empty.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail accepts local@domain.tld with no whitespace and a single "@".
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

var phoneRegex = regexp.MustCompile(`^\+?[\d\s\-\(\)]+$`)

// MinPhoneLength is the shortest accepted phone number, counting separators.
const MinPhoneLength = 10

// IsValidPhoneNumber accepts digits, spaces, hyphens and parentheses with an
// optional leading "+", at least MinPhoneLength characters long.
func IsValidPhoneNumber(phone string) bool {
	return phoneRegex.MatchString(phone) && len(phone) >= MinPhoneLength
}

// IsValidDate parses YYYY-MM-DD.
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// IsInSlice reports whether value is in slice.
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// IsInRange reports lo <= v <= hi.
func IsInRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}
