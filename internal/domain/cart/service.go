package cart

import (
	"context"

	"github.com/go-faster/errors"
)

// Service validates cart mutations before they reach the store.
type Service struct {
	carts Repository
}

// NewService creates a cart Service backed by the given repository.
func NewService(carts Repository) *Service {
	return &Service{carts: carts}
}

// Get returns the cart for email; an absent cart is an empty slice, never
// an error.
func (s *Service) Get(ctx context.Context, email string) ([]Line, error) {
	lines, err := s.carts.Get(ctx, email)
	if err != nil {
		return nil, errors.Wrap(err, "get cart")
	}
	if lines == nil {
		lines = []Line{}
	}
	return lines, nil
}

// Replace unconditionally overwrites the stored cart with the given lines,
// creating the cart if it does not exist.
func (s *Service) Replace(ctx context.Context, email string, lines []Line) error {
	if err := validateLines(lines, false); err != nil {
		return err
	}
	if err := s.carts.Replace(ctx, email, lines); err != nil {
		return errors.Wrap(err, "replace cart")
	}
	return nil
}

// Merge adds the given lines to the cart: quantities of lines already
// present (same item id) are summed, new lines are appended.
//
// Every incoming line is validated before any state is touched, so a bad
// line can never leave a partially merged cart behind.
func (s *Service) Merge(ctx context.Context, email string, lines []Line) error {
	if len(lines) == 0 {
		return &InvalidLineError{Reason: "items array is required"}
	}
	if err := validateLines(lines, true); err != nil {
		return err
	}
	if err := s.carts.MergeAdd(ctx, email, dedupeLines(lines)); err != nil {
		return errors.Wrap(err, "merge cart")
	}
	return nil
}

// Clear deletes the cart. Clearing an absent cart succeeds.
func (s *Service) Clear(ctx context.Context, email string) error {
	if err := s.carts.Clear(ctx, email); err != nil {
		return errors.Wrap(err, "clear cart")
	}
	return nil
}

// validateLines checks every line up front. requireRestaurant is set for
// merges, where each line must name its owning restaurant.
func validateLines(lines []Line, requireRestaurant bool) error {
	for _, l := range lines {
		if l.ItemID == "" {
			return &InvalidLineError{Reason: "item id is required"}
		}
		if l.Quantity <= 0 {
			return &InvalidLineError{Reason: "quantity must be greater than 0 for item " + l.ItemID}
		}
		if requireRestaurant && l.Restaurant == "" {
			return &MissingRestaurantError{ItemID: l.ItemID}
		}
	}
	return nil
}

// dedupeLines collapses duplicate item ids within a single request by
// summing their quantities, so the store sees each id at most once per
// merge.
func dedupeLines(lines []Line) []Line {
	idx := make(map[string]int, len(lines))
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		if i, ok := idx[l.ItemID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		idx[l.ItemID] = len(out)
		out = append(out, l)
	}
	return out
}
