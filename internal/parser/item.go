package parser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var nonWordRe = regexp.MustCompile(`[^\pL\s]+`)

// ExtractItem strips verbs, credit words, stopwords, numbers, currency, punctuation and units from
// text and returns the title-cased remainder. It fails with ErrEmptyInput on blank text and with
// ErrUnknownItem when fewer than two characters remain.
func ExtractItem(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", &ItemError{Kind: ErrEmptyInput, Input: text}
	}

	lower := strings.ToLower(text)
	lower = nonWordRe.ReplaceAllString(lower, " ")

	var kept []string
	for _, word := range strings.Fields(lower) {
		if stripWords[word] || isUnitWord(word) {
			continue
		}
		kept = append(kept, word)
	}

	item := strings.Join(kept, " ")
	if utf8.RuneCountInString(item) < 2 {
		return "", &ItemError{Kind: ErrUnknownItem, Input: text}
	}
	return titleCase(item), nil
}

// fallbackItem re-derives an item from the original words longer than two characters that are
// not stopwords, units or numbers. It returns "" when nothing qualifies.
func fallbackItem(text string) string {
	var kept []string
	for _, raw := range strings.Fields(text) {
		word := strings.TrimFunc(raw, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if utf8.RuneCountInString(word) <= 2 || !hasLetter(word) {
			continue
		}
		lw := strings.ToLower(word)
		if stripWords[lw] || isUnitWord(lw) {
			continue
		}
		kept = append(kept, word)
	}
	if len(kept) == 0 {
		return ""
	}
	return titleCase(strings.Join(kept, " "))
}

// itemName runs the extractor and applies the fallback heuristic on ErrUnknownItem
func itemName(text string) string {
	item, err := ExtractItem(text)
	if err == nil {
		return item
	}
	return fallbackItem(text)
}

func titleCase(s string) string {
	return cases.Title(language.English).String(strings.Join(strings.Fields(s), " "))
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
