package parser

import (
	"context"
	"regexp"

	"github.com/garyjia/shop-ledger/internal/domain/entity"
	"github.com/garyjia/shop-ledger/internal/domain/workflow"
	"go.uber.org/zap"
)

const (
	payerPattern  = `\s+(?:by|from|for)\s+([\pL][\pL.' ]*?)[\s.!]*$`
	amountSuffix  = `\s*(?:rs\b\.?|rupees?\b|/-)?`
	paymentPrefix = `(?i)^\s*`
)

// paymentRules holds the amount/customer pattern owned by each pattern state
var paymentRules = map[workflow.State]*regexp.Regexp{
	// "Rs 500 by Ramesh"
	workflow.StateTryPattern1: regexp.MustCompile(paymentPrefix + currencyPattern + `\s*(` + numberPattern + `)` + amountSuffix + payerPattern),
	// "500 from Ramesh"
	workflow.StateTryPattern2: regexp.MustCompile(paymentPrefix + `(` + numberPattern + `)` + amountSuffix + payerPattern),
	// "Rs 500" or "500"
	workflow.StateTryPattern3: regexp.MustCompile(paymentPrefix + `(?:` + currencyPattern + `\s*)?(` + numberPattern + `)` + amountSuffix + `[\s.!]*$`),
}

var paymentWorkflow = workflow.NewPaymentExtraction()

// ParseCredit handles "credit sale ..." and "credit paid ..." utterances
func (p *Parser) ParseCredit(ctx context.Context, text string) entity.ParsedResult {
	switch {
	case creditPaymentRe.MatchString(text):
		return p.parseCreditPayment(ctx, text)
	case creditSaleRe.MatchString(text):
		return p.parseCreditSale(ctx, text)
	}
	return entity.ParsedResult{
		Type:       entity.CommandTransaction,
		Warnings:   []string{"Not a credit command"},
		SourceText: text,
	}
}

func (p *Parser) parseCreditSale(ctx context.Context, text string) entity.ParsedResult {
	result := entity.ParsedResult{
		Type:       entity.CommandCredit,
		Warnings:   []string{},
		SourceText: text,
	}

	remainder := creditSaleRe.ReplaceAllString(text, "")
	customer, suffix, found := extractCustomer(remainder)
	if !found {
		customer = p.defaultCustomer
	}
	remainder = stripCustomer(remainder, suffix)

	enriched := p.ParseSentenceWithPriceLookup(ctx, remainder)
	result.Warnings = append(result.Warnings, enriched.Warnings...)

	switch len(enriched.Entries) {
	case 0:
		result.AddWarning("Could not identify items for credit sale")
		return result
	case 1:
		e := enriched.Entries[0]
		result.Credit = &entity.CreditPayload{
			Type:     entity.CreditSale,
			Customer: customer,
			Item:     e.Item,
			Qty:      e.Qty,
			Unit:     e.Unit,
			Price:    e.Price,
			Amount:   e.Total,
		}
	default:
		items := make([]entity.CreditItem, 0, len(enriched.Entries))
		totals := make([]float64, 0, len(enriched.Entries))
		for _, e := range enriched.Entries {
			items = append(items, entity.CreditItem{
				Item:  e.Item,
				Qty:   e.Qty,
				Unit:  e.Unit,
				Price: e.Price,
				Total: e.Total,
			})
			totals = append(totals, e.Total)
		}
		result.Credit = &entity.CreditPayload{
			Type:     entity.CreditSale,
			Customer: customer,
			Items:    items,
			Amount:   sumMoney(totals...),
		}
	}
	return result
}

// parseCreditPayment walks the payment patterns with the extraction workflow. Payments always
// require review before they are committed.
func (p *Parser) parseCreditPayment(ctx context.Context, text string) entity.ParsedResult {
	remainder := normalizeNumbers(creditPaymentRe.ReplaceAllString(text, ""))

	var amount float64
	var customer string

	m := paymentWorkflow.Build(workflow.StateTryPattern1)
	for !m.State().IsTerminal() {
		state := m.State()
		trigger := workflow.TriggerNoMatch
		if match := paymentRules[state].FindStringSubmatch(remainder); match != nil {
			if v, ok := positive(match[1]); ok {
				amount = v
				if len(match) > 2 {
					customer = normalizeCustomer(match[2])
				}
				trigger = workflow.TriggerMatch
			}
		}
		if err := m.Fire(ctx, trigger); err != nil {
			p.logger.Warn("Payment extraction stopped",
				zap.String("state", state.String()),
				zap.Stringer("trigger", trigger),
				zap.Stringers("permitted", m.PermittedTriggers()),
				zap.Error(err))
			break
		}
	}

	if m.State() != workflow.StateDone {
		return entity.ParsedResult{
			Type:       entity.CommandTransaction,
			Warnings:   []string{"Could not identify payment amount"},
			SourceText: text,
		}
	}

	return entity.ParsedResult{
		Type: entity.CommandCredit,
		Credit: &entity.CreditPayload{
			Type:     entity.CreditPayment,
			Customer: customer,
			Amount:   amount,
		},
		Warnings:    []string{},
		SourceText:  text,
		ForceReview: true,
	}
}
