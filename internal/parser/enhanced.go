package parser

import (
	"context"
	"strings"

	"github.com/garyjia/shop-ledger/internal/domain/entity"
	"go.uber.org/zap"
)

// ParseEnhanced classifies text and runs the matching grammar. It always returns a result;
// problems are reported in Warnings.
func (p *Parser) ParseEnhanced(ctx context.Context, text string) entity.ParsedResult {
	if strings.TrimSpace(text) == "" {
		return entity.ParsedResult{
			Type:       entity.CommandTransaction,
			Warnings:   []string{"Empty input text"},
			SourceText: "",
		}
	}

	command := Classify(text)
	p.logger.Debug("Classified utterance",
		zap.String("text", text),
		zap.String("command", string(command)))

	switch command {
	case entity.CommandCredit:
		return p.ParseCredit(ctx, text)
	case entity.CommandOrder:
		return p.ParseOrder(text)
	case entity.CommandPrice:
		return entity.ParsedResult{
			Type:         entity.CommandPrice,
			PriceUpdates: ParsePriceSentence(text),
			Warnings:     []string{},
			SourceText:   text,
		}
	}
	return p.parseTransaction(ctx, text)
}

func (p *Parser) parseTransaction(ctx context.Context, text string) entity.ParsedResult {
	enriched := p.ParseSentenceWithPriceLookup(ctx, text)

	result := entity.ParsedResult{
		Type:       entity.CommandTransaction,
		Entries:    enriched.Entries,
		Warnings:   append([]string{}, enriched.Warnings...),
		SourceText: text,
	}
	if len(enriched.Entries) == 0 {
		result.Entries = nil
		result.AddWarning("Could not identify any items")
	}
	return result
}
