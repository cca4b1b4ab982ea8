package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tastoria/orders-api/internal/domain/order"
)

const (
	orderColumns = `id, order_number, customer_name, phone, address, restaurant, items, total, status, estimated_time, created_at`

	insertOrderSQL = `INSERT INTO orders (id, order_number, customer_name, phone, address, restaurant, items, total, status, estimated_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	updateOrderStatusSQL = `UPDATE orders SET status = $2 WHERE id = $1
		RETURNING ` + orderColumns

	updateOrderStatusScopedSQL = `UPDATE orders SET status = $2 WHERE id = $1 AND restaurant = $3
		RETURNING ` + orderColumns
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. Order
// lines are stored as a JSONB snapshot so later catalog edits never
// change a historical order.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create inserts a new order. A duplicate order number surfaces as
// order.ErrNumberConflict.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	items, err := json.Marshal(o.Lines)
	if err != nil {
		return fmt.Errorf("marshaling order lines: %w", err)
	}

	_, err = r.pool.Exec(ctx, insertOrderSQL,
		o.ID, o.Number, o.CustomerName, o.Phone, o.Address, o.Restaurant,
		items, o.Total, string(o.Status), o.EstimatedTime,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return order.ErrNumberConflict
		}
		return fmt.Errorf("creating order %q: %w", o.Number, err)
	}
	return nil
}

// List returns all orders, most recent first.
func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// ListByRestaurant returns one restaurant's orders, most recent first.
func (r *OrderRepository) ListByRestaurant(ctx context.Context, restaurant string) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE restaurant = $1 ORDER BY created_at DESC`, restaurant)
	if err != nil {
		return nil, fmt.Errorf("listing orders for %q: %w", restaurant, err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// UpdateStatus sets an order's status and returns the updated order. When
// restaurant is non-empty the update is scoped to (id, restaurant); a
// mismatch reads as order.ErrNotFound.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status order.Status, restaurant string) (*order.Order, error) {
	var rows pgx.Rows
	var err error
	if restaurant == "" {
		rows, err = r.pool.Query(ctx, updateOrderStatusSQL, id, string(status))
	} else {
		rows, err = r.pool.Query(ctx, updateOrderStatusScopedSQL, id, string(status), restaurant)
	}
	if err != nil {
		return nil, fmt.Errorf("updating order %q status: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("updating order %q status: %w", id, err)
	}
	return &o, nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o      order.Order
		items  []byte
		status string
	)
	err := row.Scan(
		&o.ID, &o.Number, &o.CustomerName, &o.Phone, &o.Address, &o.Restaurant,
		&items, &o.Total, &status, &o.EstimatedTime, &o.CreatedAt,
	)
	if err != nil {
		return o, err
	}
	o.Status = order.Status(status)
	if err := json.Unmarshal(items, &o.Lines); err != nil {
		return o, fmt.Errorf("unmarshaling lines of order %q: %w", o.Number, err)
	}
	return o, nil
}
