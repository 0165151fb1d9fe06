package parser

import (
	"errors"
	"fmt"

	"github.com/garyjia/shop-ledger/internal/domain/entity"
)

var (
	// ErrEmptyInput is returned by the item extractor for blank text
	ErrEmptyInput = errors.New("empty input")

	// ErrUnknownItem is returned by the item extractor when nothing usable remains after stripping
	ErrUnknownItem = errors.New("unknown item")
)

// ItemError describes why an item name could not be extracted from a chunk
type ItemError struct {
	Kind  error
	Input string
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("%v: %q", e.Kind, e.Input)
}

func (e *ItemError) Unwrap() error {
	return e.Kind
}

// SkipReason explains why a chunk produced no entry
type SkipReason string

const (
	SkipNone        SkipReason = ""
	SkipEmptyChunk  SkipReason = "empty_chunk"
	SkipUnknownItem SkipReason = "unknown_item"
)

// ItemResult is the outcome of parsing one chunk: either an entry or the reason it was skipped
type ItemResult struct {
	Entry *entity.ParsedEntry
	Skip  SkipReason
}

// OK reports whether the chunk produced an entry
func (r ItemResult) OK() bool {
	return r.Entry != nil
}

func skipped(reason SkipReason) ItemResult {
	return ItemResult{Skip: reason}
}
