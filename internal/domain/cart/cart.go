// Package cart owns per-customer cart state, keyed by email. Carts hold
// denormalized item snapshots taken when the line was added; the order
// engine re-resolves everything against the catalog at checkout.
package cart

import (
	"context"

	"github.com/shopspring/decimal"
)

// Line is a single cart line. Name, Price, and Image are snapshots taken
// at add-time for display; Restaurant is the owning restaurant's slug.
type Line struct {
	ItemID      string          `json:"itemId"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Image       string          `json:"image,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Restaurant  string          `json:"restaurant"`
}

// MissingRestaurantError indicates an incoming line lacks a restaurant id.
type MissingRestaurantError struct {
	ItemID string
}

func (e *MissingRestaurantError) Error() string {
	return "restaurant id is required for item " + e.ItemID
}

// InvalidLineError indicates an incoming line is malformed (missing item
// id or non-positive quantity).
type InvalidLineError struct {
	Reason string
}

func (e *InvalidLineError) Error() string {
	return e.Reason
}

// Repository defines persistence operations for carts. At most one cart
// exists per email.
type Repository interface {
	// Get returns the cart's lines, or an empty slice when no cart exists.
	Get(ctx context.Context, email string) ([]Line, error)
	// Replace overwrites the cart's entire line set, creating the cart if
	// absent.
	Replace(ctx context.Context, email string, lines []Line) error
	// MergeAdd applies an additive merge in a single transaction: existing
	// lines get their quantity incremented atomically, new lines are
	// appended. Either every line lands or none does.
	MergeAdd(ctx context.Context, email string, lines []Line) error
	// Clear deletes the cart. Deleting an absent cart is not an error.
	Clear(ctx context.Context, email string) error
}
