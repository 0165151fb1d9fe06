package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garyjia/shop-ledger/internal/application/port"
	"github.com/garyjia/shop-ledger/internal/domain/entity"
	"github.com/garyjia/shop-ledger/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// CreditRepository implements port.CreditRepository. Customers are matched case-insensitively.
type CreditRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCreditRepository creates a new credit ledger repository
func NewCreditRepository(db *sql.DB, logger *zap.Logger) port.CreditRepository {
	return &CreditRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a credit sale or payment
func (r *CreditRepository) Create(ctx context.Context, record *entity.CreditRecord) error {
	query := `
		INSERT INTO credit_ledger (id, customer, customer_key, type, amount, details, source_text)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := sqlite.Conn(ctx, r.db).ExecContext(ctx, query,
		record.ID,
		record.Customer,
		itemKey(record.Customer),
		record.Type,
		record.Amount,
		record.Details,
		record.SourceText,
	)
	if err != nil {
		r.logger.Error("Failed to create credit record",
			zap.String("customer", record.Customer),
			zap.String("type", string(record.Type)),
			zap.Error(err))
		return fmt.Errorf("failed to create credit record: %w", err)
	}
	return nil
}

// ListByCustomer returns a customer's credit history oldest first
func (r *CreditRepository) ListByCustomer(ctx context.Context, customer string) ([]*entity.CreditRecord, error) {
	query := `
		SELECT id, customer, type, amount, details, source_text, created_at
		FROM credit_ledger
		WHERE customer_key = ?
		ORDER BY created_at ASC, rowid ASC
	`

	rows, err := sqlite.Conn(ctx, r.db).QueryContext(ctx, query, itemKey(customer))
	if err != nil {
		r.logger.Error("Failed to list credit records", zap.String("customer", customer), zap.Error(err))
		return nil, fmt.Errorf("failed to list credit records: %w", err)
	}
	defer rows.Close()

	var records []*entity.CreditRecord
	for rows.Next() {
		var rec entity.CreditRecord
		err := rows.Scan(
			&rec.ID,
			&rec.Customer,
			&rec.Type,
			&rec.Amount,
			&rec.Details,
			&rec.SourceText,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan credit record: %w", err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// Totals sums a customer's sales and payments
func (r *CreditRepository) Totals(ctx context.Context, customer string) (float64, float64, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN type = 'sale' THEN amount END), 0),
			COALESCE(SUM(CASE WHEN type = 'payment' THEN amount END), 0)
		FROM credit_ledger
		WHERE customer_key = ?
	`

	var sales, payments float64
	err := sqlite.Conn(ctx, r.db).QueryRowContext(ctx, query, itemKey(customer)).Scan(&sales, &payments)
	if err != nil {
		r.logger.Error("Failed to sum credit ledger", zap.String("customer", customer), zap.Error(err))
		return 0, 0, fmt.Errorf("failed to sum credit ledger: %w", err)
	}
	return sales, payments, nil
}

// Verify interface compliance
var _ port.CreditRepository = (*CreditRepository)(nil)
