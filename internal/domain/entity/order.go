package entity

import "time"

// OrderItem is one line of a customer order. Price and DeliveryDate are nil when unknown.
type OrderItem struct {
	Item         string   `json:"item"`
	Qty          float64  `json:"qty"`
	Unit         string   `json:"unit,omitempty"`
	Price        *float64 `json:"price"`
	DeliveryDate *string  `json:"delivery_date"`
}

// OrderPayload is the structured form of an order utterance
type OrderPayload struct {
	Customer string      `json:"customer"`
	Items    []OrderItem `json:"items"`
}

// Order is a persisted customer order
type Order struct {
	ID         string      `json:"id"`
	Customer   string      `json:"customer"`
	Items      []OrderItem `json:"items"`
	SourceText string      `json:"source_text"`
	Status     string      `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Order status constants
const (
	OrderStatusOpen      = "OPEN"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)
