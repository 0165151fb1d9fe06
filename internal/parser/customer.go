package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// customerSuffixRe captures the name after the last "for" when it runs to the end of text
var customerSuffixRe = regexp.MustCompile(`(?i)^.*\bfor\s+([\pL][\pL.' ]*?)[\s.!]*$`)

const maxCustomerWords = 3

// extractCustomer returns the normalized customer named by a trailing "for NAME" and the
// matched suffix so callers can strip it. Quantities, units and goods are never names.
func extractCustomer(text string) (name string, suffix string, ok bool) {
	loc := customerSuffixRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", "", false
	}
	candidate := strings.TrimSpace(text[loc[2]:loc[3]])
	if utf8.RuneCountInString(candidate) < 2 {
		return "", "", false
	}
	words := strings.Fields(candidate)
	if len(words) > maxCustomerWords {
		return "", "", false
	}
	for _, w := range words {
		if customerExclusions[strings.ToLower(strings.Trim(w, ".'"))] {
			return "", "", false
		}
	}

	// the suffix starts at the "for" that precedes the name
	start := strings.LastIndex(strings.ToLower(text[:loc[2]]), "for")
	if start < 0 {
		start = loc[2]
	}
	return normalizeCustomer(candidate), text[start:], true
}

// stripCustomer removes the "for NAME" suffix returned by extractCustomer
func stripCustomer(text, suffix string) string {
	if suffix == "" {
		return text
	}
	return strings.TrimSpace(strings.TrimSuffix(text, suffix))
}

// normalizeCustomer trims, collapses whitespace and title-cases a customer name
func normalizeCustomer(name string) string {
	name = strings.Trim(strings.TrimSpace(name), ".")
	if name == "" {
		return ""
	}
	return titleCase(name)
}
