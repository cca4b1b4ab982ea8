// Package catalog holds the restaurant and menu item model shared by the
// ordering, cart and analytics domains.
package catalog

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrItemNotFound is returned when a menu item does not exist.
	ErrItemNotFound = errors.New("menu item not found")
	// ErrRestaurantNotFound is returned when a restaurant does not exist.
	ErrRestaurantNotFound = errors.New("restaurant not found")
)

// Category classifies a menu item on the menu page.
type Category string

const (
	CategoryStarters   Category = "Starters"
	CategoryMainCourse Category = "Main Course"
	CategoryDesserts   Category = "Desserts"
	CategoryBeverages  Category = "Beverages"
	CategorySnacks     Category = "Snacks"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryStarters, CategoryMainCourse, CategoryDesserts, CategoryBeverages, CategorySnacks:
		return true
	}
	return false
}

// Restaurant is a venue whose menu items can be ordered.
type Restaurant struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Images       []string  `json:"images"`
	Description  string    `json:"description"`
	Rating       float64   `json:"rating"`
	Reviews      int       `json:"reviews"`
	Cuisine      string    `json:"cuisine"`
	PriceRange   string    `json:"priceRange"`
	DeliveryTime string    `json:"deliveryTime"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Nutrition holds per-serving nutrition facts for a menu item.
type Nutrition struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fat      int `json:"fat"`
}

// MenuItem is a single orderable dish, scoped to one restaurant.
type MenuItem struct {
	ID                  string          `json:"id"`
	Restaurant          string          `json:"restaurant"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	DetailedDescription string          `json:"detailedDescription,omitempty"`
	Price               decimal.Decimal `json:"price"`
	Category            Category        `json:"category"`
	Image               string          `json:"image,omitempty"`
	Ingredients         []string        `json:"ingredients,omitempty"`
	Nutrition           Nutrition       `json:"nutrition,omitzero"`
	Allergens           []string        `json:"allergens,omitempty"`
	IsVegetarian        bool            `json:"isVegetarian"`
	PreparationTime     string          `json:"preparationTime,omitempty"`
	SpicyLevel          int             `json:"spicyLevel,omitempty"`
	ServingSize         string          `json:"servingSize,omitempty"`
	Rating              float64         `json:"rating"`
	IsAvailable         bool            `json:"isAvailable"`
	CreatedAt           time.Time       `json:"createdAt"`
}

// Validate checks the invariants every stored menu item must satisfy.
func (m *MenuItem) Validate() error {
	switch {
	case m.ID == "":
		return errors.New("id is required")
	case m.Restaurant == "":
		return errors.New("restaurant is required")
	case m.Name == "":
		return errors.New("name is required")
	case m.Price.IsNegative():
		return errors.New("price must not be negative")
	case !m.Category.Valid():
		return errors.Errorf("unknown category %q", m.Category)
	case m.Rating < 0 || m.Rating > 5:
		return errors.New("rating must be between 0 and 5")
	}
	return nil
}

// ItemRepository is the persistence boundary for menu items.
type ItemRepository interface {
	ListByRestaurant(ctx context.Context, restaurant string) ([]MenuItem, error)
	GetByID(ctx context.Context, id string) (*MenuItem, error)
	GetByIDs(ctx context.Context, ids []string) ([]MenuItem, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, item *MenuItem) error
	Update(ctx context.Context, restaurant string, item *MenuItem) error
	Delete(ctx context.Context, restaurant, id string) error
}

// RestaurantRepository is the persistence boundary for restaurants.
type RestaurantRepository interface {
	List(ctx context.Context) ([]Restaurant, error)
	Create(ctx context.Context, rest *Restaurant) error
	Update(ctx context.Context, rest *Restaurant) error
	Delete(ctx context.Context, id string) error
}
