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

// EntryRepository implements port.EntryRepository
type EntryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewEntryRepository creates a new ledger entry repository
func NewEntryRepository(db *sql.DB, logger *zap.Logger) port.EntryRepository {
	return &EntryRepository{
		db:     db,
		logger: logger,
	}
}

const entryColumns = `id, batch_id, item, qty, unit, price, total, type,
			price_source, source_text, transaction_date, created_at`

// CreateBatch inserts entries and sets their IDs. Callers group the inserts with a
// transaction when the batch must be atomic.
func (r *EntryRepository) CreateBatch(ctx context.Context, entries []*entity.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (
			batch_id, item, qty, unit, price, total, type,
			price_source, source_text, transaction_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	exec := sqlite.Conn(ctx, r.db)
	for _, e := range entries {
		result, err := exec.ExecContext(ctx, query,
			e.BatchID,
			e.Item,
			e.Qty,
			e.Unit,
			e.Price,
			e.Total,
			e.Type,
			e.PriceSource,
			e.SourceText,
			e.TransactionDate,
		)
		if err != nil {
			r.logger.Error("Failed to create ledger entry",
				zap.String("batch_id", e.BatchID),
				zap.String("item", e.Item),
				zap.Error(err))
			return fmt.Errorf("failed to create ledger entry: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		e.ID = id
	}
	return nil
}

// GetByBatchID retrieves the entries of one batch in insertion order
func (r *EntryRepository) GetByBatchID(ctx context.Context, batchID string) ([]*entity.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE batch_id = ?
		ORDER BY id ASC
	`

	rows, err := sqlite.Conn(ctx, r.db).QueryContext(ctx, query, batchID)
	if err != nil {
		r.logger.Error("Failed to get entries by batch", zap.String("batch_id", batchID), zap.Error(err))
		return nil, fmt.Errorf("failed to get entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// DeleteBatch removes every entry of a batch
func (r *EntryRepository) DeleteBatch(ctx context.Context, batchID string) (int64, error) {
	result, err := sqlite.Conn(ctx, r.db).ExecContext(ctx,
		`DELETE FROM ledger_entries WHERE batch_id = ?`, batchID)
	if err != nil {
		r.logger.Error("Failed to delete batch", zap.String("batch_id", batchID), zap.Error(err))
		return 0, fmt.Errorf("failed to delete batch: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return n, nil
}

// List returns entries newest first. A non-positive limit returns everything.
func (r *EntryRepository) List(ctx context.Context, limit, offset int) ([]*entity.LedgerEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + entryColumns + `
		FROM ledger_entries
		ORDER BY transaction_date DESC, id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := sqlite.Conn(ctx, r.db).QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list entries", zap.Error(err))
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]*entity.LedgerEntry, error) {
	var entries []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		err := rows.Scan(
			&e.ID,
			&e.BatchID,
			&e.Item,
			&e.Qty,
			&e.Unit,
			&e.Price,
			&e.Total,
			&e.Type,
			&e.PriceSource,
			&e.SourceText,
			&e.TransactionDate,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// Verify interface compliance
var _ port.EntryRepository = (*EntryRepository)(nil)
