package parser

import (
	"regexp"
	"strings"

	"github.com/garyjia/shop-ledger/internal/domain/entity"
	"go.uber.org/zap"
)

var (
	deliveryDateRe = regexp.MustCompile(`(?i)\s*\b(?:(?:by|on|for)\s+)?(day\s+after\s+tomorrow|tomorrow|today)\b`)
	multiSpaceRe   = regexp.MustCompile(`\s+`)
)

const dateLayout = "2006-01-02"

// deliveryOffsets maps a relative day phrase to days from now
var deliveryOffsets = map[string]int{
	"today":              0,
	"tomorrow":           1,
	"day after tomorrow": 2,
}

// ParseOrder extracts the customer, items and an optional relative delivery date from an
// order utterance. An order without items is returned with a warning and no payload.
func (p *Parser) ParseOrder(text string) entity.ParsedResult {
	result := entity.ParsedResult{
		Type:       entity.CommandOrder,
		Warnings:   []string{},
		SourceText: text,
	}

	remainder, deliveryDate := p.stripDeliveryDate(text)

	customer, suffix, found := extractCustomer(remainder)
	remainder = stripCustomer(remainder, suffix)
	remainder = orderKeywordRe.ReplaceAllString(remainder, " ")
	remainder = strings.TrimSpace(multiSpaceRe.ReplaceAllString(remainder, " "))

	items := p.orderItems(remainder, deliveryDate)
	if len(items) == 0 {
		p.logger.Debug("Order has no recognizable items", zap.String("text", text))
		result.AddWarning("Could not identify any items in the order")
		return result
	}

	if !found {
		customer = p.defaultCustomer
		result.AddWarning("No customer name found, using " + p.defaultCustomer)
	}

	result.Order = &entity.OrderPayload{
		Customer: customer,
		Items:    items,
	}
	return result
}

func (p *Parser) orderItems(text string, deliveryDate *string) []entity.OrderItem {
	var entries []entity.ParsedEntry
	if chunks := SplitChunks(text); len(chunks) > 1 {
		for _, chunk := range chunks {
			if res := p.parseChunk(chunk, ""); res.OK() {
				entries = append(entries, *res.Entry)
			}
		}
	} else {
		entries = p.ParseSentence(text)
	}

	items := make([]entity.OrderItem, 0, len(entries))
	for _, e := range entries {
		item := entity.OrderItem{
			Item: e.Item,
			Qty:  e.Qty,
			Unit: e.Unit,
		}
		if e.Price > 0 {
			price := e.Price
			item.Price = &price
		}
		if deliveryDate != nil {
			date := *deliveryDate
			item.DeliveryDate = &date
		}
		items = append(items, item)
	}
	return items
}

// stripDeliveryDate removes a "today"/"tomorrow"/"day after tomorrow" phrase and resolves it
// against the parser clock
func (p *Parser) stripDeliveryDate(text string) (string, *string) {
	m := deliveryDateRe.FindStringSubmatch(text)
	if m == nil {
		return text, nil
	}
	phrase := strings.ToLower(multiSpaceRe.ReplaceAllString(m[1], " "))
	date := p.now().AddDate(0, 0, deliveryOffsets[phrase]).Format(dateLayout)
	stripped := deliveryDateRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(multiSpaceRe.ReplaceAllString(stripped, " ")), &date
}
