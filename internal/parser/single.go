package parser

import (
	"regexp"
	"strings"

	"github.com/garyjia/shop-ledger/internal/domain/entity"
	"go.uber.org/zap"
)

// typeRule maps a verb pattern to a cash direction. Cash-out rules are listed before cash-in
// so "paid for stock, sold later" style text resolves as an expense.
type typeRule struct {
	entryType entity.EntryType
	pattern   *regexp.Regexp
	accept    func(m []string) bool
}

var typeRules = []typeRule{
	{
		entryType: entity.CashOut,
		pattern:   regexp.MustCompile(`(?i)\b(?:bought|buy|buying|purchased?|spent|spend|expenses?|invoice|bill)\b`),
	},
	{
		// "paid" is an expense unless money came in "by"/"from" someone
		entryType: entity.CashOut,
		pattern:   regexp.MustCompile(`(?i)\bpaid\b(\s+(?:by|from)\b)?`),
		accept: func(m []string) bool {
			return m[1] == ""
		},
	},
	{
		entryType: entity.CashIn,
		pattern:   regexp.MustCompile(`(?i)\b(?:sold|sell|sells|selling|sale|income|received|receive|earned)\b`),
	},
}

var currencyRe = regexp.MustCompile(`(?i)` + currencyPattern)

// detectType returns the cash direction signalled by text and whether the signal was explicit
func detectType(text string) (entity.EntryType, bool) {
	for _, rule := range typeRules {
		m := rule.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if rule.accept == nil || rule.accept(m) {
			return rule.entryType, true
		}
	}
	return "", false
}

// entryType resolves the cash direction for a chunk: an explicit verb wins, then the
// sentence-level fallback, then the configured default. Currency without a verb is a sale.
func (p *Parser) entryType(text string, fallback entity.EntryType) entity.EntryType {
	if t, ok := detectType(text); ok {
		return t
	}
	if fallback.IsValid() {
		return fallback
	}
	if currencyRe.MatchString(text) {
		return entity.CashIn
	}
	return p.defaultType
}

// ParseSingleItem parses one chunk into an entry, or reports why the chunk was skipped.
func (p *Parser) ParseSingleItem(text string) ItemResult {
	return p.parseChunk(text, "")
}

func (p *Parser) parseChunk(text string, fallback entity.EntryType) ItemResult {
	chunk := strings.TrimSpace(text)
	if chunk == "" {
		return skipped(SkipEmptyChunk)
	}

	qty := ExtractQuantity(chunk)

	var item, unit string
	if brand, ok := ContainsSpecialBrand(chunk); ok {
		item = brand
		unit = ExtractUnit(stripBrands(chunk))
		if unit == "" {
			unit = "packet"
		}
	} else {
		unit = ExtractUnit(chunk)
		item = itemName(chunk)
	}

	if item == "" {
		p.logger.Debug("Skipping chunk with no recognizable item", zap.String("chunk", chunk))
		return skipped(SkipUnknownItem)
	}

	price, _ := ExtractPrice(chunk)

	entry := &entity.ParsedEntry{
		Item:            item,
		Qty:             qty,
		Unit:            unit,
		Price:           price,
		Total:           lineTotal(qty, price),
		Type:            p.entryType(chunk, fallback),
		SourceText:      chunk,
		TransactionDate: p.now(),
		PriceSource:     entity.PriceSourceParsed,
	}

	p.logger.Debug("Parsed chunk",
		zap.String("chunk", chunk),
		zap.String("item", entry.Item),
		zap.Float64("qty", entry.Qty),
		zap.String("unit", entry.Unit),
		zap.Float64("price", entry.Price))

	return ItemResult{Entry: entry}
}

func stripBrands(text string) string {
	for _, brand := range specialBrands {
		text = brand.pattern.ReplaceAllString(text, " ")
	}
	return text
}
