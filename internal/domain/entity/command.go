package entity

import "time"

// ParsedEntry is one partial cash transaction extracted from a chunk of text
type ParsedEntry struct {
	Item            string    `json:"item"`
	Qty             float64   `json:"qty"`
	Unit            string    `json:"unit"`
	Price           float64   `json:"price"`
	Total           float64   `json:"total"`
	Type            EntryType `json:"type"`
	SourceText      string    `json:"source_text"`
	TransactionDate time.Time `json:"transaction_date"`
	PriceSource     string    `json:"price_source,omitempty"`
}

// Valid reports whether the entry names an item
func (e ParsedEntry) Valid() bool {
	return e.Item != ""
}

// PriceUpdate is a catalog price change spoken by the shopkeeper
type PriceUpdate struct {
	Item  string  `json:"item"`
	Price float64 `json:"price"`
	Unit  string  `json:"unit,omitempty"`
}

// ParsedResult is the envelope returned for every utterance.
// Exactly one of Entries, Order, PriceUpdates, Credit is populated according to Type;
// none is populated on a soft failure.
type ParsedResult struct {
	Type         CommandType    `json:"type"`
	Entries      []ParsedEntry  `json:"entries,omitempty"`
	Order        *OrderPayload  `json:"order,omitempty"`
	PriceUpdates []PriceUpdate  `json:"priceUpdates,omitempty"`
	Credit       *CreditPayload `json:"credit,omitempty"`
	Warnings     []string       `json:"warnings"`
	SourceText   string         `json:"source_text"`
	ForceReview  bool           `json:"forceReview,omitempty"`
}

// Entry returns the first parsed entry, for callers that handle a single line
func (r *ParsedResult) Entry() *ParsedEntry {
	if len(r.Entries) == 0 {
		return nil
	}
	return &r.Entries[0]
}

// HasPayload reports whether the payload matching Type is populated
func (r *ParsedResult) HasPayload() bool {
	switch r.Type {
	case CommandTransaction:
		return len(r.Entries) > 0
	case CommandOrder:
		return r.Order != nil && len(r.Order.Items) > 0
	case CommandPrice:
		return len(r.PriceUpdates) > 0
	case CommandCredit:
		return r.Credit != nil
	}
	return false
}

// AddWarning appends a warning message
func (r *ParsedResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}
