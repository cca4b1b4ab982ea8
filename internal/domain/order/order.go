// Package order implements the order lifecycle: placement with snapshot
// pricing, status transitions, listing, and the admin stats aggregate.
package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusPreparing Status = "Preparing"
	StatusReady     Status = "Ready"
	StatusDelivered Status = "Delivered"
	StatusCancelled Status = "Cancelled"
)

// Valid reports whether s is one of the five defined statuses. No
// transition graph is enforced beyond membership: any valid status may be
// set from any other.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Active reports whether an order in this status still needs kitchen
// attention (used by the admin stats aggregate).
func (s Status) Active() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusReady:
		return true
	}
	return false
}

// Line is a single order line. Name and Price are snapshotted from the
// catalog when the order is placed, so later catalog edits never change a
// historical order's total.
type Line struct {
	ItemID   string          `json:"itemId"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Order is a placed customer order. Orders are never deleted; they are
// retained for analytics.
type Order struct {
	ID            string
	Number        string
	CustomerName  string
	Phone         string
	Address       string
	Restaurant    string
	Lines         []Line
	Total         decimal.Decimal
	Status        Status
	EstimatedTime int
	CreatedAt     time.Time
}

// Sentinel errors for order operations.
var (
	ErrEmptyItems     = errors.New("cart is empty")
	ErrInvalidStatus  = errors.New("invalid status")
	ErrNotFound       = errors.New("order not found")
	ErrNumberConflict = errors.New("order number already exists")
)

// ItemNotFoundError indicates a requested line references a menu item that
// does not exist; the whole order is aborted.
type ItemNotFoundError struct {
	ItemID string
}

func (e *ItemNotFoundError) Error() string {
	return "item not found: " + e.ItemID
}

// InvalidQuantityError indicates a line has a non-positive quantity.
type InvalidQuantityError struct {
	ItemID string
}

func (e *InvalidQuantityError) Error() string {
	return "quantity must be greater than 0 for item " + e.ItemID
}

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	// List returns all orders, most recent first.
	List(ctx context.Context) ([]Order, error)
	// ListByRestaurant returns one restaurant's orders, most recent first.
	ListByRestaurant(ctx context.Context, restaurant string) ([]Order, error)
	// UpdateStatus sets the status of the order with the given id. When
	// restaurant is non-empty the lookup is scoped to (id, restaurant) and a
	// mismatch returns ErrNotFound even if the id exists elsewhere.
	UpdateStatus(ctx context.Context, id string, status Status, restaurant string) (*Order, error)
}
