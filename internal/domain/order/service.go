package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/shopspring/decimal"

	"github.com/tastoria/orders-api/internal/domain/catalog"
)

// numberLength is the length of the short random order number shown to
// customers. Uniqueness is enforced by the store's unique constraint, not
// by the generator.
const numberLength = 8

// PlaceOrderRequest holds the input for placing an order. It deliberately
// carries no price or total fields: amounts are always recomputed from the
// catalog on the server.
type PlaceOrderRequest struct {
	CustomerName  string
	Phone         string
	Address       string
	Restaurant    string
	Items         []RequestedItem
	EstimatedTime int
}

// RequestedItem is one (item, quantity) pair from the client.
type RequestedItem struct {
	ItemID   string
	Quantity int
}

// Stats is the admin dashboard aggregate, derived by a full scan over the
// order store.
type Stats struct {
	TotalOrders    int
	ActiveOrders   int
	TotalRevenue   decimal.Decimal
	AvgOrderValue  decimal.Decimal
	TotalCustomers int
	MenuItems      int
	DailyOrders    int
}

// Service encapsulates order lifecycle business logic.
type Service struct {
	items  catalog.ItemRepository
	orders Repository
}

// NewService creates an order Service backed by the given catalog and
// order repositories.
func NewService(items catalog.ItemRepository, orders Repository) *Service {
	return &Service{items: items, orders: orders}
}

// PlaceOrder resolves every requested line against the catalog, snapshots
// name and price, computes the total server-side, and persists the order
// with a fresh id, number, and Pending status.
//
// Resolution is all-or-nothing: if any line references a missing item the
// whole operation fails and nothing is persisted.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}
	if req.CustomerName == "" {
		return nil, errors.New("customer name is required")
	}

	ids := make([]string, len(req.Items))
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, &InvalidQuantityError{ItemID: item.ItemID}
		}
		ids[i] = item.ItemID
	}

	// Batch fetch all referenced items in a single query.
	fetched, err := s.items.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get menu items")
	}

	byID := make(map[string]catalog.MenuItem, len(fetched))
	for _, m := range fetched {
		byID[m.ID] = m
	}

	// Snapshot name and price at resolution time and compute the total.
	lines := make([]Line, len(req.Items))
	total := decimal.Zero
	for i, item := range req.Items {
		m, ok := byID[item.ItemID]
		if !ok {
			return nil, &ItemNotFoundError{ItemID: item.ItemID}
		}
		lines[i] = Line{
			ItemID:   m.ID,
			Name:     m.Name,
			Price:    m.Price,
			Quantity: item.Quantity,
		}
		total = total.Add(m.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	number, err := gonanoid.New(numberLength)
	if err != nil {
		return nil, errors.Wrap(err, "generate order number")
	}

	o := &Order{
		ID:            uuid.New().String(),
		Number:        number,
		CustomerName:  req.CustomerName,
		Phone:         req.Phone,
		Address:       req.Address,
		Restaurant:    req.Restaurant,
		Lines:         lines,
		Total:         total.Round(2),
		Status:        StatusPending,
		EstimatedTime: req.EstimatedTime,
		CreatedAt:     time.Now(),
	}
	if err := s.orders.Create(ctx, o); err != nil {
		if errors.Is(err, ErrNumberConflict) {
			return nil, ErrNumberConflict
		}
		return nil, errors.Wrap(err, "create order")
	}

	return o, nil
}

// UpdateStatus validates the target status against the closed enum and
// persists it. An empty restaurant means an unscoped (admin) update.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status, restaurant string) (*Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	o, err := s.orders.UpdateStatus(ctx, id, status, restaurant)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "update order status")
	}
	return o, nil
}

// List returns all orders, most recent first.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.orders.List(ctx)
}

// ListByRestaurant returns one restaurant's orders, most recent first.
func (s *Service) ListByRestaurant(ctx context.Context, restaurant string) ([]Order, error) {
	return s.orders.ListByRestaurant(ctx, restaurant)
}

// Stats aggregates the admin dashboard snapshot from a full order scan.
// Revenue and average order value count Delivered orders only; "daily"
// counts orders created since local midnight.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	all, err := s.orders.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}

	menuItems, err := s.items.Count(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "count menu items")
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	st := &Stats{
		TotalOrders:   len(all),
		TotalRevenue:  decimal.Zero,
		AvgOrderValue: decimal.Zero,
		MenuItems:     menuItems,
	}

	delivered := 0
	phones := make(map[string]struct{})
	for _, o := range all {
		if o.Status.Active() {
			st.ActiveOrders++
		}
		if o.Status == StatusDelivered {
			delivered++
			st.TotalRevenue = st.TotalRevenue.Add(o.Total)
		}
		if o.Phone != "" {
			phones[o.Phone] = struct{}{}
		}
		if !o.CreatedAt.Before(midnight) {
			st.DailyOrders++
		}
	}

	st.TotalCustomers = len(phones)
	if delivered > 0 {
		st.AvgOrderValue = st.TotalRevenue.Div(decimal.NewFromInt(int64(delivered))).Round(2)
	}

	return st, nil
}
