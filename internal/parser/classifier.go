package parser

import (
	"regexp"
	"strings"

	"github.com/garyjia/shop-ledger/internal/domain/entity"
)

var (
	creditSaleRe    = regexp.MustCompile(`(?i)^\s*credit\s+sales?\s+`)
	creditPaymentRe = regexp.MustCompile(`(?i)^\s*credit\s+paid\s+`)
	orderKeywordRe  = regexp.MustCompile(`(?i)\b(?:order(?:s|ed|ing)?|book(?:s|ed|ing)?|deliver(?:s|ed|y|ing)?|reserv(?:e|es|ed|ing|ation))\b`)
)

// commandRule is one step of the classifier. Rules are evaluated in declaration order and the
// first match wins; credit comes first because credit text also carries currency tokens.
type commandRule struct {
	command entity.CommandType
	match   func(text string) bool
}

var commandRules = []commandRule{
	{command: entity.CommandCredit, match: isCreditCommand},
	{command: entity.CommandOrder, match: isOrderCommand},
	{command: entity.CommandPrice, match: func(text string) bool { return len(ParsePriceSentence(text)) > 0 }},
}

// Classify decides which grammar applies to text. Anything unmatched is a transaction.
func Classify(text string) entity.CommandType {
	trimmed := strings.TrimSpace(text)
	for _, rule := range commandRules {
		if rule.match(trimmed) {
			return rule.command
		}
	}
	return entity.CommandTransaction
}

func isCreditCommand(text string) bool {
	return creditSaleRe.MatchString(text) || creditPaymentRe.MatchString(text)
}

func isOrderCommand(text string) bool {
	return orderKeywordRe.MatchString(text)
}
