package port

import (
	"context"

	"github.com/garyjia/shop-ledger/internal/domain/entity"
)

// CommandExtractor is an optional model-backed extractor consulted when the rule-based
// parser finds nothing in an utterance
type CommandExtractor interface {
	ExtractEntries(ctx context.Context, text string) ([]entity.ParsedEntry, error)
}
