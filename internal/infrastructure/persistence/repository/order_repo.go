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

// OrderRepository implements port.OrderRepository
type OrderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB, logger *zap.Logger) port.OrderRepository {
	return &OrderRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts an order and its items. The order ID is assigned by the caller.
func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) error {
	if order.Status == "" {
		order.Status = entity.OrderStatusOpen
	}

	exec := sqlite.Conn(ctx, r.db)
	_, err := exec.ExecContext(ctx, `
		INSERT INTO orders (id, customer, source_text, status)
		VALUES (?, ?, ?, ?)
	`, order.ID, order.Customer, order.SourceText, order.Status)
	if err != nil {
		r.logger.Error("Failed to create order", zap.String("order_id", order.ID), zap.Error(err))
		return fmt.Errorf("failed to create order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, item, qty, unit, price, delivery_date)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	for _, item := range order.Items {
		_, err := exec.ExecContext(ctx, itemQuery,
			order.ID,
			item.Item,
			item.Qty,
			item.Unit,
			nullFloat(item.Price),
			nullString(item.DeliveryDate),
		)
		if err != nil {
			r.logger.Error("Failed to create order item",
				zap.String("order_id", order.ID),
				zap.String("item", item.Item),
				zap.Error(err))
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}
	return nil
}

// GetByID retrieves an order with its items
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	exec := sqlite.Conn(ctx, r.db)

	var order entity.Order
	err := exec.QueryRowContext(ctx, `
		SELECT id, customer, source_text, status, created_at
		FROM orders
		WHERE id = ?
	`, id).Scan(
		&order.ID,
		&order.Customer,
		&order.SourceText,
		&order.Status,
		&order.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get order", zap.String("order_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	rows, err := exec.QueryContext(ctx, `
		SELECT item, qty, unit, price, delivery_date
		FROM order_items
		WHERE order_id = ?
		ORDER BY id ASC
	`, id)
	if err != nil {
		r.logger.Error("Failed to get order items", zap.String("order_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item entity.OrderItem
		var price sql.NullFloat64
		var deliveryDate sql.NullString
		if err := rows.Scan(&item.Item, &item.Qty, &item.Unit, &price, &deliveryDate); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		if price.Valid {
			item.Price = &price.Float64
		}
		if deliveryDate.Valid {
			item.DeliveryDate = &deliveryDate.String
		}
		order.Items = append(order.Items, item)
	}

	return &order, rows.Err()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

// Verify interface compliance
var _ port.OrderRepository = (*OrderRepository)(nil)
