package parser

import (
	"regexp"
	"strings"

	"github.com/garyjia/shop-ledger/internal/domain/entity"
)

const (
	priceAmount  = `(?:` + currencyPattern + `\s*)?(` + numberPattern + `)\s*(?:/-|rs\b\.?|rupees?\b)?`
	priceTrailer = `[\s.!]*$`
)

var (
	priceKeywordRe    = regexp.MustCompile(`(?i)\b(?:prices?|rates?|mrp|costs?)\b`)
	transactionVerbRe = regexp.MustCompile(`(?i)\b(?:` + alternation(transactionVerbs) + `)\b`)
	perUnitPattern    = `(?:\s*(?:per|/|a|an|each)\s*(` + unitAlternation + `))?`
)

// priceSentenceRule is one form of the price-update grammar. The first capture group is the
// item, the second the amount and the third an optional per-unit word.
type priceSentenceRule struct {
	name    string
	pattern *regexp.Regexp
	// continuation rules only apply to a chunk that follows an already-matched update,
	// as in "rice price 40, dal 90"
	continuation bool
}

var priceSentenceRules = []priceSentenceRule{
	{
		name:    "set-to",
		pattern: regexp.MustCompile(`(?i)^\s*(?:set|change|update|make)\s+(?:the\s+)?(.+?)\s+(?:price|rate|mrp|cost)\s+(?:to|as|=|at)\s*` + priceAmount + perUnitPattern + priceTrailer),
	},
	{
		name:    "price-of",
		pattern: regexp.MustCompile(`(?i)^\s*(?:the\s+)?(?:price|rate|mrp|cost)\s+of\s+(.+?)\s*(?:is|=|:|at)?\s*` + priceAmount + perUnitPattern + priceTrailer),
	},
	{
		name:    "item-price",
		pattern: regexp.MustCompile(`(?i)^\s*(.+?)\s+(?:price|rate|mrp)\s*(?:is|=|:|at)?\s*` + priceAmount + perUnitPattern + priceTrailer),
	},
	{
		name:    "item-costs",
		pattern: regexp.MustCompile(`(?i)^\s*(.+?)\s+costs?\s*(?:is|=|:|at)?\s*` + priceAmount + perUnitPattern + priceTrailer),
	},
	{
		name:         "item-amount",
		pattern:      regexp.MustCompile(`(?i)^\s*(\pL[\pL\s]*?)\s+` + priceAmount + perUnitPattern + priceTrailer),
		continuation: true,
	},
}

// ParsePriceSentence extracts catalog price updates such as "price of rice is 45 per kg" or
// "sugar rate 40, dal 90". Text must carry a price keyword and no transaction verb; anything
// else returns nil.
func ParsePriceSentence(text string) []entity.PriceUpdate {
	if !priceKeywordRe.MatchString(text) || transactionVerbRe.MatchString(text) {
		return nil
	}

	var updates []entity.PriceUpdate
	for _, chunk := range chunkSeparatorRe.Split(normalizeNumbers(text), -1) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		if update, ok := matchPriceUpdate(chunk, len(updates) > 0); ok {
			updates = append(updates, update)
		}
	}
	return updates
}

func matchPriceUpdate(chunk string, allowContinuation bool) (entity.PriceUpdate, bool) {
	for _, rule := range priceSentenceRules {
		if rule.continuation && !allowContinuation {
			continue
		}
		m := rule.pattern.FindStringSubmatch(chunk)
		if m == nil {
			continue
		}
		price, ok := positive(m[2])
		if !ok {
			continue
		}
		subject := strings.TrimSpace(m[1])
		item, isBrand := ContainsSpecialBrand(subject)
		if !isBrand {
			item = itemName(subject)
		}
		if item == "" {
			continue
		}
		var unit string
		if m[3] != "" {
			unit = NormalizeUnit(m[3])
		} else {
			unit = ExtractUnit(subject)
		}
		return entity.PriceUpdate{Item: item, Price: price, Unit: unit}, true
	}
	return entity.PriceUpdate{}, false
}
