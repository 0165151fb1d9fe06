package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MaxUtteranceLength bounds a single typed or transcribed command
	MaxUtteranceLength = 500
	// MaxPrice bounds a single catalog price
	MaxPrice = 10_000_000
)

// control characters other than tab and newline
var controlChars = regexp.MustCompile(`[\x00-\x08\x0b-\x1f\x7f]`)

// SanitizeString removes control characters, keeping tabs and newlines
func SanitizeString(s string) string {
	return controlChars.ReplaceAllString(s, "")
}

// ValidateUtterance checks the length of a command text received from a client. Blank text
// passes; the parser answers it with an empty input warning.
func ValidateUtterance(text string) error {
	if n := utf8.RuneCountInString(text); n > MaxUtteranceLength {
		return fmt.Errorf("text is too long: %d characters, maximum %d", n, MaxUtteranceLength)
	}
	return nil
}

// ValidatePrice checks a catalog price
func ValidatePrice(price float64) error {
	if price <= 0 {
		return fmt.Errorf("price must be positive: %.2f", price)
	}
	if price > MaxPrice {
		return fmt.Errorf("price exceeds maximum limit: %.2f", price)
	}
	return nil
}

// ValidateName checks an item or customer name used as a lookup key
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if utf8.RuneCountInString(name) > 100 {
		return fmt.Errorf("name is too long: %s", name)
	}
	return nil
}
