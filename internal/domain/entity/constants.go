package entity

// CommandType tags which payload a ParsedResult carries
type CommandType string

const (
	CommandTransaction CommandType = "transaction"
	CommandOrder       CommandType = "order"
	CommandPrice       CommandType = "price"
	CommandCredit      CommandType = "credit"
)

// EntryType is the cash direction of a ledger entry
type EntryType string

const (
	CashIn  EntryType = "cash-in"
	CashOut EntryType = "cash-out"
)

// IsValid reports whether t is one of the known cash directions
func (t EntryType) IsValid() bool {
	return t == CashIn || t == CashOut
}

// CreditType distinguishes a credit sale from a payment against credit
type CreditType string

const (
	CreditSale    CreditType = "sale"
	CreditPayment CreditType = "payment"
)

// Price provenance values
const (
	PriceSourceParsed     = "parsed"
	PriceSourceAutoLookup = "auto-lookup"
)

// DefaultCustomer is used when no customer name could be extracted
const DefaultCustomer = "Walk-in"
