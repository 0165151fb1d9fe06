package port

import (
	"io"

	"github.com/garyjia/shop-ledger/internal/domain/entity"
)

// LedgerExporter writes ledger entries as a downloadable document
type LedgerExporter interface {
	WriteEntries(w io.Writer, entries []*entity.LedgerEntry) error
	ContentType() string
	FileExtension() string
}
