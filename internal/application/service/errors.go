package service

import "errors"

var (
	// ErrNothingToConfirm is returned when a result carries no payload for its type
	ErrNothingToConfirm = errors.New("result has nothing to confirm")
	// ErrInvalidEntry is returned for an entry without an item, a positive quantity or a cash direction
	ErrInvalidEntry = errors.New("invalid ledger entry")
	// ErrInvalidPrice is returned for a catalog price that is not positive or has no item
	ErrInvalidPrice = errors.New("invalid catalog price")
	// ErrInvalidAmount is returned for a credit payment without a positive amount
	ErrInvalidAmount = errors.New("invalid credit amount")
	// ErrBatchNotFound is returned when no entries carry the batch id
	ErrBatchNotFound = errors.New("batch not found")
	// ErrOrderNotFound is returned for an unknown order id
	ErrOrderNotFound = errors.New("order not found")
	// ErrUnknownCommand is returned for a result type the ledger does not store
	ErrUnknownCommand = errors.New("unknown command type")
)
