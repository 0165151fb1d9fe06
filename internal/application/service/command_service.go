package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/garyjia/shop-ledger/internal/application/dispatcher"
	"github.com/garyjia/shop-ledger/internal/application/port"
	"github.com/garyjia/shop-ledger/internal/domain/entity"
	"github.com/garyjia/shop-ledger/internal/domain/event"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Logger interface for service logging
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// AIFallbackWarning marks results produced by the model-backed extractor
const AIFallbackWarning = "Parsed with AI fallback"

// CommandParser turns an utterance into a typed result
type CommandParser interface {
	ParseEnhanced(ctx context.Context, text string) entity.ParsedResult
}

// PriceSetter records catalog prices
type PriceSetter interface {
	SetPrice(ctx context.Context, item string, price float64, unit string) (*entity.CatalogPrice, error)
}

// Receipt identifies what a confirmation stored
type Receipt struct {
	Type     entity.CommandType `json:"type"`
	BatchID  string             `json:"batch_id,omitempty"`
	OrderID  string             `json:"order_id,omitempty"`
	CreditID string             `json:"credit_id,omitempty"`
	Count    int                `json:"count"`
}

// ParseOutcome is the result of Parse, with the receipt when it was committed right away
type ParseOutcome struct {
	Result    entity.ParsedResult `json:"result"`
	Committed bool                `json:"committed"`
	Receipt   *Receipt            `json:"receipt,omitempty"`
}

// CommandService parses utterances and stores confirmed commands
type CommandService struct {
	parser     CommandParser
	extractor  port.CommandExtractor
	prices     PriceSetter
	entries    port.EntryRepository
	orders     port.OrderRepository
	credits    port.CreditRepository
	txManager  port.TransactionManager
	dispatcher dispatcher.Dispatcher
	logger     Logger

	quickCapture    bool
	defaultCustomer string
	newID           func() string
	now             func() time.Time
}

// CommandOption configures a CommandService
type CommandOption func(*CommandService)

// WithExtractor enables the model-backed fallback for utterances the rules cannot parse
func WithExtractor(extractor port.CommandExtractor) CommandOption {
	return func(s *CommandService) {
		s.extractor = extractor
	}
}

// WithQuickCapture commits clean results from Parse without an explicit confirmation
func WithQuickCapture(enabled bool) CommandOption {
	return func(s *CommandService) {
		s.quickCapture = enabled
	}
}

// WithCustomer sets the customer stored for unnamed credit and orders
func WithCustomer(name string) CommandOption {
	return func(s *CommandService) {
		if name != "" {
			s.defaultCustomer = name
		}
	}
}

// WithIDGenerator replaces the uuid generator used for batch, order and credit ids
func WithIDGenerator(newID func() string) CommandOption {
	return func(s *CommandService) {
		s.newID = newID
	}
}

// WithNow replaces time.Now for entries that carry no transaction date
func WithNow(now func() time.Time) CommandOption {
	return func(s *CommandService) {
		s.now = now
	}
}

// NewCommandService creates a new CommandService
func NewCommandService(
	parser CommandParser,
	prices PriceSetter,
	entries port.EntryRepository,
	orders port.OrderRepository,
	credits port.CreditRepository,
	txManager port.TransactionManager,
	dispatcher dispatcher.Dispatcher,
	logger Logger,
	opts ...CommandOption,
) *CommandService {
	s := &CommandService{
		parser:          parser,
		prices:          prices,
		entries:         entries,
		orders:          orders,
		credits:         credits,
		txManager:       txManager,
		dispatcher:      dispatcher,
		logger:          logger,
		defaultCustomer: entity.DefaultCustomer,
		newID:           uuid.NewString,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Parse interprets text. When commit is set, or quick capture is configured, a result with a
// payload, no warnings and no forced review is confirmed immediately.
func (s *CommandService) Parse(ctx context.Context, text string, commit bool) (*ParseOutcome, error) {
	result := s.parser.ParseEnhanced(ctx, text)
	if !result.HasPayload() {
		result = s.fallback(ctx, text, result)
	}

	outcome := &ParseOutcome{Result: result}
	if !(commit || s.quickCapture) || !CanAutoCommit(result) {
		return outcome, nil
	}

	receipt, err := s.Confirm(ctx, result)
	if err != nil {
		return outcome, err
	}
	outcome.Committed = true
	outcome.Receipt = receipt
	return outcome, nil
}

// CanAutoCommit reports whether a result may be stored without review
func CanAutoCommit(result entity.ParsedResult) bool {
	return result.HasPayload() && len(result.Warnings) == 0 && !result.ForceReview
}

// fallback asks the extractor for entries when the rules found nothing. The extractor's
// answer always carries a warning so it is reviewed before it is stored.
func (s *CommandService) fallback(ctx context.Context, text string, result entity.ParsedResult) entity.ParsedResult {
	if s.extractor == nil || strings.TrimSpace(text) == "" {
		return result
	}

	extracted, err := s.extractor.ExtractEntries(ctx, text)
	if err != nil {
		s.logger.Error("AI fallback failed", "error", err)
		return result
	}

	entries := make([]entity.ParsedEntry, 0, len(extracted))
	for _, e := range extracted {
		if e.Valid() {
			entries = append(entries, e)
		}
	}
	if len(entries) == 0 {
		return result
	}

	s.logger.Info("Parsed with AI fallback", "entries", len(entries))
	return entity.ParsedResult{
		Type:       entity.CommandTransaction,
		Entries:    entries,
		Warnings:   []string{AIFallbackWarning},
		SourceText: text,
	}
}

// Confirm stores a reviewed result in one transaction and publishes command.confirmed
func (s *CommandService) Confirm(ctx context.Context, result entity.ParsedResult) (*Receipt, error) {
	if !result.HasPayload() {
		return nil, ErrNothingToConfirm
	}

	var receipt *Receipt
	var ledger []*entity.LedgerEntry

	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		switch result.Type {
		case entity.CommandTransaction:
			receipt, ledger, err = s.storeEntries(ctx, result)
		case entity.CommandPrice:
			receipt, err = s.storePrices(ctx, result.PriceUpdates)
		case entity.CommandOrder:
			receipt, err = s.storeOrder(ctx, result)
		case entity.CommandCredit:
			receipt, err = s.storeCredit(ctx, result)
		default:
			err = fmt.Errorf("%w: %q", ErrUnknownCommand, result.Type)
		}
		return err
	})
	if err != nil {
		s.logger.Error("Failed to confirm command", "type", result.Type, "error", err)
		return nil, err
	}

	s.logger.Info("Command confirmed",
		"type", receipt.Type,
		"batch_id", receipt.BatchID,
		"order_id", receipt.OrderID,
		"credit_id", receipt.CreditID,
		"count", receipt.Count)

	s.publish(ctx, receipt, ledger)
	return receipt, nil
}

// publish notifies subscribers; the command is already stored so failures are only logged
func (s *CommandService) publish(ctx context.Context, receipt *Receipt, ledger []*entity.LedgerEntry) {
	if s.dispatcher == nil {
		return
	}

	aggregateID := receipt.BatchID + receipt.OrderID + receipt.CreditID
	evt := event.NewEvent(event.TypeCommandConfirmed, aggregateID, map[string]interface{}{
		event.KeyCommand: string(receipt.Type),
		event.KeyEntries: ledger,
		event.KeyCount:   receipt.Count,
	})
	if err := s.dispatcher.Dispatch(ctx, evt); err != nil {
		s.logger.Error("Failed to dispatch confirmation", "event_id", evt.ID, "error", err)
	}
}

func (s *CommandService) storeEntries(ctx context.Context, result entity.ParsedResult) (*Receipt, []*entity.LedgerEntry, error) {
	batchID := s.newID()
	ledger := make([]*entity.LedgerEntry, 0, len(result.Entries))

	for i, e := range result.Entries {
		if !e.Valid() || e.Qty <= 0 || !e.Type.IsValid() || e.Price < 0 {
			return nil, nil, fmt.Errorf("%w: line %d %q", ErrInvalidEntry, i+1, e.Item)
		}
		date := e.TransactionDate
		if date.IsZero() {
			date = s.now()
		}
		source := e.PriceSource
		if source == "" {
			source = entity.PriceSourceParsed
		}
		sourceText := e.SourceText
		if sourceText == "" {
			sourceText = result.SourceText
		}

		ledger = append(ledger, &entity.LedgerEntry{
			BatchID:         batchID,
			Item:            e.Item,
			Qty:             e.Qty,
			Unit:            e.Unit,
			Price:           e.Price,
			Total:           money(decimal.NewFromFloat(e.Qty).Mul(decimal.NewFromFloat(e.Price))),
			Type:            e.Type,
			PriceSource:     source,
			SourceText:      sourceText,
			TransactionDate: date,
		})
	}

	if err := s.entries.CreateBatch(ctx, ledger); err != nil {
		return nil, nil, err
	}
	return &Receipt{Type: entity.CommandTransaction, BatchID: batchID, Count: len(ledger)}, ledger, nil
}

func (s *CommandService) storePrices(ctx context.Context, updates []entity.PriceUpdate) (*Receipt, error) {
	for _, u := range updates {
		if _, err := s.prices.SetPrice(ctx, u.Item, u.Price, u.Unit); err != nil {
			return nil, err
		}
	}
	return &Receipt{Type: entity.CommandPrice, Count: len(updates)}, nil
}

func (s *CommandService) storeOrder(ctx context.Context, result entity.ParsedResult) (*Receipt, error) {
	customer := strings.TrimSpace(result.Order.Customer)
	if customer == "" {
		customer = s.defaultCustomer
	}

	order := &entity.Order{
		ID:         s.newID(),
		Customer:   customer,
		Items:      result.Order.Items,
		SourceText: result.SourceText,
		Status:     entity.OrderStatusOpen,
	}
	for i, item := range order.Items {
		if item.Item == "" || item.Qty <= 0 {
			return nil, fmt.Errorf("%w: order line %d", ErrInvalidEntry, i+1)
		}
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	return &Receipt{Type: entity.CommandOrder, OrderID: order.ID, Count: len(order.Items)}, nil
}

func (s *CommandService) storeCredit(ctx context.Context, result entity.ParsedResult) (*Receipt, error) {
	credit := result.Credit
	switch credit.Type {
	case entity.CreditPayment:
		if credit.Amount <= 0 {
			return nil, fmt.Errorf("%w: payment of %v", ErrInvalidAmount, credit.Amount)
		}
	case entity.CreditSale:
		sale, err := priceSale(*credit)
		if err != nil {
			return nil, err
		}
		credit = &sale
	default:
		return nil, fmt.Errorf("%w: credit %q", ErrUnknownCommand, credit.Type)
	}

	customer := credit.Customer
	if customer == "" {
		customer = s.defaultCustomer
	}

	details, err := json.Marshal(credit)
	if err != nil {
		return nil, fmt.Errorf("failed to encode credit details: %w", err)
	}

	record := &entity.CreditRecord{
		ID:         s.newID(),
		Customer:   customer,
		Type:       credit.Type,
		Amount:     money(decimal.NewFromFloat(credit.Amount)),
		Details:    string(details),
		SourceText: result.SourceText,
	}
	if err := s.credits.Create(ctx, record); err != nil {
		return nil, err
	}

	count := 1
	if credit.IsMultiItem() {
		count = len(credit.Items)
	}
	return &Receipt{Type: entity.CommandCredit, CreditID: record.ID, Count: count}, nil
}

// priceSale recomputes line totals and the sale amount from quantity and price;
// the amount sent by the client is ignored.
func priceSale(credit entity.CreditPayload) (entity.CreditPayload, error) {
	if !credit.IsMultiItem() {
		if credit.Item == "" || credit.Qty <= 0 || credit.Price < 0 {
			return credit, fmt.Errorf("%w: credit sale %q", ErrInvalidEntry, credit.Item)
		}
		credit.Amount = money(decimal.NewFromFloat(credit.Qty).Mul(decimal.NewFromFloat(credit.Price)))
		return credit, nil
	}

	items := make([]entity.CreditItem, len(credit.Items))
	sum := decimal.Zero
	for i, it := range credit.Items {
		if it.Item == "" || it.Qty <= 0 || it.Price < 0 {
			return credit, fmt.Errorf("%w: line %d %q", ErrInvalidEntry, i+1, it.Item)
		}
		total := decimal.NewFromFloat(it.Qty).Mul(decimal.NewFromFloat(it.Price)).Round(2)
		it.Total, _ = total.Float64()
		items[i] = it
		sum = sum.Add(total)
	}
	credit.Items = items
	credit.Amount = money(sum)
	return credit, nil
}

// money rounds half away from zero to 2 places
func money(d decimal.Decimal) float64 {
	v, _ := d.Round(2).Float64()
	return v
}
