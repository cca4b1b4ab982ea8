// Package analytics derives read-only aggregate views (daily sales,
// trending items) by scanning persisted orders. It never mutates state.
package analytics

import (
	"context"
	"sort"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/tastoria/orders-api/internal/domain/catalog"
	"github.com/tastoria/orders-api/internal/domain/order"
)

// DefaultTrendingLimit is used when the caller does not supply a limit.
const DefaultTrendingLimit = 10

// DailySales is one calendar day's revenue and order count.
type DailySales struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
}

// TrendingItem is a menu item ranked by total quantity sold across all
// orders. Display fields come from the catalog as it is now, not from the
// order-time snapshots.
type TrendingItem struct {
	ItemID    string           `json:"itemId"`
	TotalSold int              `json:"totalSold"`
	Name      string           `json:"name"`
	Category  catalog.Category `json:"category"`
	Price     decimal.Decimal  `json:"price"`
	Image     string           `json:"image"`
}

// Reporter computes aggregates over the order store.
type Reporter struct {
	orders order.Repository
	items  catalog.ItemRepository
}

// NewReporter creates a Reporter over the given order and catalog
// repositories.
func NewReporter(orders order.Repository, items catalog.ItemRepository) *Reporter {
	return &Reporter{orders: orders, items: items}
}

// SalesByDay returns one entry per UTC calendar day that has at least one
// order, ascending by date. Revenue is recomputed from each order's line
// snapshots (price × quantity) rather than its stored total.
func (r *Reporter) SalesByDay(ctx context.Context) ([]DailySales, error) {
	all, err := r.orders.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}

	byDay := make(map[string]*DailySales)
	for _, o := range all {
		day := o.CreatedAt.UTC().Format("2006-01-02")
		agg, ok := byDay[day]
		if !ok {
			agg = &DailySales{Date: day, Revenue: decimal.Zero}
			byDay[day] = agg
		}
		agg.Orders++
		for _, l := range o.Lines {
			agg.Revenue = agg.Revenue.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
	}

	out := make([]DailySales, 0, len(byDay))
	for _, agg := range byDay {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// TrendingItems returns the top-selling items by total quantity across all
// orders, descending, joined against current catalog data. Items no longer
// in the catalog are dropped from the result (inner join), so the returned
// slice may be shorter than the computed ranking.
func (r *Reporter) TrendingItems(ctx context.Context, limit int) ([]TrendingItem, error) {
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}

	all, err := r.orders.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}

	sold := make(map[string]int)
	for _, o := range all {
		for _, l := range o.Lines {
			sold[l.ItemID] += l.Quantity
		}
	}

	ids := make([]string, 0, len(sold))
	for id := range sold {
		ids = append(ids, id)
	}
	// Descending by quantity; item id breaks ties so the ranking is stable.
	sort.Slice(ids, func(i, j int) bool {
		if sold[ids[i]] != sold[ids[j]] {
			return sold[ids[i]] > sold[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if len(ids) > limit {
		ids = ids[:limit]
	}
	if len(ids) == 0 {
		return []TrendingItem{}, nil
	}

	items, err := r.items.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get menu items")
	}
	byID := make(map[string]catalog.MenuItem, len(items))
	for _, m := range items {
		byID[m.ID] = m
	}

	out := make([]TrendingItem, 0, len(ids))
	for _, id := range ids {
		m, ok := byID[id]
		if !ok {
			continue
		}
		out = append(out, TrendingItem{
			ItemID:    id,
			TotalSold: sold[id],
			Name:      m.Name,
			Category:  m.Category,
			Price:     m.Price,
			Image:     m.Image,
		})
	}
	return out, nil
}
