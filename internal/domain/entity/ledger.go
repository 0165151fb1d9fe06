package entity

import "time"

// LedgerEntry is a confirmed cash transaction line. Entries confirmed together share a BatchID.
type LedgerEntry struct {
	ID              int64     `json:"id"`
	BatchID         string    `json:"batch_id"`
	Item            string    `json:"item"`
	Qty             float64   `json:"qty"`
	Unit            string    `json:"unit"`
	Price           float64   `json:"price"`
	Total           float64   `json:"total"`
	Type            EntryType `json:"type"`
	PriceSource     string    `json:"price_source"`
	SourceText      string    `json:"source_text"`
	TransactionDate time.Time `json:"transaction_date"`
	CreatedAt       time.Time `json:"created_at"`
}

// CatalogPrice is a persisted item price used for auto-lookup
type CatalogPrice struct {
	ID        int64     `json:"id"`
	Item      string    `json:"item"`
	Price     float64   `json:"price"`
	Unit      string    `json:"unit"`
	UpdatedAt time.Time `json:"updated_at"`
}
