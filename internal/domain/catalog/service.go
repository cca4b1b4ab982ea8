package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// InvalidItemError wraps a validation failure for a menu item payload.
type InvalidItemError struct {
	Reason error
}

func (e *InvalidItemError) Error() string {
	return "invalid menu item: " + e.Reason.Error()
}

func (e *InvalidItemError) Unwrap() error { return e.Reason }

// Service exposes the read and admin operations of the catalog.
type Service struct {
	restaurants RestaurantRepository
	items       ItemRepository
}

// NewService builds a catalog Service on top of the given repositories.
func NewService(restaurants RestaurantRepository, items ItemRepository) *Service {
	return &Service{restaurants: restaurants, items: items}
}

// Restaurants lists all restaurants.
func (s *Service) Restaurants(ctx context.Context) ([]Restaurant, error) {
	return s.restaurants.List(ctx)
}

// Menu returns the full menu of one restaurant. An unknown restaurant
// yields an empty menu rather than an error.
func (s *Service) Menu(ctx context.Context, restaurant string) ([]MenuItem, error) {
	items, err := s.items.ListByRestaurant(ctx, restaurant)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []MenuItem{}
	}
	return items, nil
}

// Item returns a single menu item by id.
func (s *Service) Item(ctx context.Context, id string) (*MenuItem, error) {
	return s.items.GetByID(ctx, id)
}

// CreateRestaurant registers a new restaurant.
func (s *Service) CreateRestaurant(ctx context.Context, rest *Restaurant) error {
	if rest.ID == "" || rest.Name == "" {
		return &InvalidItemError{Reason: errors.New("restaurant id and name are required")}
	}
	return s.restaurants.Create(ctx, rest)
}

// UpdateRestaurant overwrites an existing restaurant.
func (s *Service) UpdateRestaurant(ctx context.Context, rest *Restaurant) error {
	if rest.ID == "" {
		return &InvalidItemError{Reason: errors.New("restaurant id is required")}
	}
	return s.restaurants.Update(ctx, rest)
}

// DeleteRestaurant removes a restaurant and, through the schema, its menu.
func (s *Service) DeleteRestaurant(ctx context.Context, id string) error {
	return s.restaurants.Delete(ctx, id)
}

// CreateItem validates and stores a new menu item. An id is assigned
// when the payload carries none.
func (s *Service) CreateItem(ctx context.Context, item *MenuItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := item.Validate(); err != nil {
		return &InvalidItemError{Reason: err}
	}
	return s.items.Create(ctx, item)
}

// UpdateItem validates and overwrites a menu item scoped to its restaurant.
func (s *Service) UpdateItem(ctx context.Context, restaurant string, item *MenuItem) error {
	item.Restaurant = restaurant
	if err := item.Validate(); err != nil {
		return &InvalidItemError{Reason: err}
	}
	return s.items.Update(ctx, restaurant, item)
}

// DeleteItem removes a menu item scoped to its restaurant.
func (s *Service) DeleteItem(ctx context.Context, restaurant, id string) error {
	return s.items.Delete(ctx, restaurant, id)
}
