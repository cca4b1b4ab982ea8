package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tastoria/orders-api/internal/domain/cart"
)

const (
	selectCartLinesSQL = `SELECT item_id, name, description, image, price, quantity, restaurant
		FROM cart_items WHERE cart_email = $1 ORDER BY item_id`

	upsertCartSQL = `INSERT INTO carts (email) VALUES ($1)
		ON CONFLICT (email) DO UPDATE SET updated_at = now()`

	insertCartLineSQL = `INSERT INTO cart_items (cart_email, item_id, name, description, image, price, quantity, restaurant)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	mergeCartLineSQL = `INSERT INTO cart_items (cart_email, item_id, name, description, image, price, quantity, restaurant)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (cart_email, item_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity,
			name = EXCLUDED.name, description = EXCLUDED.description,
			image = EXCLUDED.image, price = EXCLUDED.price, restaurant = EXCLUDED.restaurant`
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository backed by PostgreSQL. Carts
// are keyed by customer email, one row per distinct item.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// Get returns the cart's lines. An absent cart reads as an empty slice.
func (r *CartRepository) Get(ctx context.Context, email string) ([]cart.Line, error) {
	rows, err := r.pool.Query(ctx, selectCartLinesSQL, email)
	if err != nil {
		return nil, fmt.Errorf("reading cart for %q: %w", email, err)
	}

	lines, err := pgx.CollectRows(rows, scanCartLine)
	if err != nil {
		return nil, fmt.Errorf("reading cart for %q: %w", email, err)
	}
	if lines == nil {
		lines = []cart.Line{}
	}
	return lines, nil
}

// Replace overwrites the cart's entire line set in one transaction.
func (r *CartRepository) Replace(ctx context.Context, email string, lines []cart.Line) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, upsertCartSQL, email); err != nil {
			return fmt.Errorf("upserting cart: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_email = $1`, email); err != nil {
			return fmt.Errorf("clearing cart lines: %w", err)
		}
		for _, l := range lines {
			_, err := tx.Exec(ctx, insertCartLineSQL,
				email, l.ItemID, l.Name, l.Description, l.Image, l.Price, l.Quantity, l.Restaurant)
			if err != nil {
				return fmt.Errorf("inserting cart line %q: %w", l.ItemID, err)
			}
		}
		return nil
	})
}

// MergeAdd increments quantities for known items and appends new ones.
// The whole merge runs in one transaction, so a mid-merge failure leaves
// the cart untouched.
func (r *CartRepository) MergeAdd(ctx context.Context, email string, lines []cart.Line) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, upsertCartSQL, email); err != nil {
			return fmt.Errorf("upserting cart: %w", err)
		}
		for _, l := range lines {
			_, err := tx.Exec(ctx, mergeCartLineSQL,
				email, l.ItemID, l.Name, l.Description, l.Image, l.Price, l.Quantity, l.Restaurant)
			if err != nil {
				return fmt.Errorf("merging cart line %q: %w", l.ItemID, err)
			}
		}
		return nil
	})
}

// Clear deletes the cart and, through the schema, its lines. Clearing an
// absent cart is a no-op.
func (r *CartRepository) Clear(ctx context.Context, email string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM carts WHERE email = $1`, email); err != nil {
		return fmt.Errorf("clearing cart for %q: %w", email, err)
	}
	return nil
}

func scanCartLine(row pgx.CollectableRow) (cart.Line, error) {
	var l cart.Line
	err := row.Scan(&l.ItemID, &l.Name, &l.Description, &l.Image, &l.Price, &l.Quantity, &l.Restaurant)
	return l, err
}
