package event

// Type identifies the type of domain event
type Type string

const (
	TypeCommandConfirmed Type = "command.confirmed"
	TypePricesUpdated    Type = "prices.updated"
	TypeBatchDeleted     Type = "batch.deleted"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeCommandConfirmed, TypePricesUpdated, TypeBatchDeleted:
		return true
	default:
		return false
	}
}
