package entity

import "time"

// CreditItem is one line of a multi-item credit sale
type CreditItem struct {
	Item  string  `json:"item"`
	Qty   float64 `json:"qty"`
	Unit  string  `json:"unit"`
	Price float64 `json:"price"`
	Total float64 `json:"total"`
}

// CreditPayload carries a credit sale (single or multi item) or a credit payment.
// Single-item sales fill Item/Qty/Unit/Price; multi-item sales fill Items.
type CreditPayload struct {
	Type     CreditType   `json:"type"`
	Customer string       `json:"customer"`
	Item     string       `json:"item,omitempty"`
	Qty      float64      `json:"qty,omitempty"`
	Unit     string       `json:"unit,omitempty"`
	Price    float64      `json:"price,omitempty"`
	Items    []CreditItem `json:"items,omitempty"`
	Amount   float64      `json:"amount"`
}

// DisplayCustomer returns the customer name, or DefaultCustomer when none was given
func (c *CreditPayload) DisplayCustomer() string {
	if c.Customer == "" {
		return DefaultCustomer
	}
	return c.Customer
}

// IsMultiItem reports whether the sale carries an item list
func (c *CreditPayload) IsMultiItem() bool {
	return len(c.Items) > 0
}

// CreditRecord is a persisted credit ledger row
type CreditRecord struct {
	ID         string     `json:"id"`
	Customer   string     `json:"customer"`
	Type       CreditType `json:"type"`
	Amount     float64    `json:"amount"`
	Details    string     `json:"details"`
	SourceText string     `json:"source_text"`
	CreatedAt  time.Time  `json:"created_at"`
}

// CustomerBalance is the outstanding credit for one customer
type CustomerBalance struct {
	Customer string  `json:"customer"`
	Sales    float64 `json:"sales"`
	Payments float64 `json:"payments"`
	Balance  float64 `json:"balance"`
}
