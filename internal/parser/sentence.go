package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/garyjia/shop-ledger/internal/domain/entity"
	"go.uber.org/zap"
)

var (
	boundaryBeforeDigitRe = regexp.MustCompile(`([.!?;])\s+(\d)`)
	chunkSeparatorRe      = regexp.MustCompile(`(?i)\s*(?:,|\||\n|\s+and\s+)\s*`)
)

const chunkMark = "|"

// SplitChunks breaks an utterance into item chunks on commas, "and", and sentence boundaries
// that are followed by a number. Empty chunks are dropped.
func SplitChunks(text string) []string {
	normalized := normalizeNumbers(text)
	normalized = boundaryBeforeDigitRe.ReplaceAllString(normalized, "$1"+chunkMark+"$2")

	var chunks []string
	for _, part := range chunkSeparatorRe.Split(normalized, -1) {
		part = strings.Trim(strings.TrimSpace(part), ".!?;")
		if strings.TrimSpace(part) != "" {
			chunks = append(chunks, strings.TrimSpace(part))
		}
	}
	return chunks
}

// ParseSentence parses a possibly multi-item utterance into entries. It never panics and
// never returns nil: unparseable input yields an empty slice.
func (p *Parser) ParseSentence(text string) (entries []entity.ParsedEntry) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn("Recovered from panic while parsing sentence",
				zap.String("text", text),
				zap.String("panic", fmt.Sprint(r)))
			entries = []entity.ParsedEntry{}
		}
	}()

	entries = []entity.ParsedEntry{}
	if strings.TrimSpace(text) == "" {
		return entries
	}

	// verbs usually appear once per utterance, so chunks without their own verb inherit it
	sentenceType, _ := detectType(text)

	chunks := SplitChunks(text)
	if len(chunks) <= 1 {
		if res := p.parseChunk(text, sentenceType); res.OK() {
			entries = append(entries, *res.Entry)
		}
		return entries
	}

	for _, chunk := range chunks {
		res := p.parseChunk(chunk, sentenceType)
		if !res.OK() {
			p.logger.Debug("Chunk skipped",
				zap.String("chunk", chunk),
				zap.String("reason", string(res.Skip)))
			continue
		}
		entries = append(entries, *res.Entry)
	}

	if len(entries) == 0 {
		if res := p.parseChunk(text, sentenceType); res.OK() {
			entries = append(entries, *res.Entry)
		}
	}
	return entries
}
