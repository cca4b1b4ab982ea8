package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tastoria/orders-api/internal/domain/catalog"
)

const (
	listRestaurantsSQL = `SELECT id, name, images, description, rating, reviews, cuisine, price_range, delivery_time, created_at
		FROM restaurants ORDER BY id`

	insertRestaurantSQL = `INSERT INTO restaurants (id, name, images, description, rating, reviews, cuisine, price_range, delivery_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	updateRestaurantSQL = `UPDATE restaurants
		SET name = $2, images = $3, description = $4, rating = $5, reviews = $6, cuisine = $7, price_range = $8, delivery_time = $9
		WHERE id = $1`

	deleteRestaurantSQL = `DELETE FROM restaurants WHERE id = $1`
)

var _ catalog.RestaurantRepository = (*RestaurantRepository)(nil)

// RestaurantRepository implements catalog.RestaurantRepository backed by
// PostgreSQL.
type RestaurantRepository struct {
	pool *pgxpool.Pool
}

// NewRestaurantRepository returns a RestaurantRepository that uses the
// given pool.
func NewRestaurantRepository(pool *pgxpool.Pool) *RestaurantRepository {
	return &RestaurantRepository{pool: pool}
}

// List returns all restaurants ordered by slug.
func (r *RestaurantRepository) List(ctx context.Context) ([]catalog.Restaurant, error) {
	rows, err := r.pool.Query(ctx, listRestaurantsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing restaurants: %w", err)
	}
	return pgx.CollectRows(rows, scanRestaurant)
}

// Create inserts a new restaurant.
func (r *RestaurantRepository) Create(ctx context.Context, rest *catalog.Restaurant) error {
	_, err := r.pool.Exec(ctx, insertRestaurantSQL,
		rest.ID, rest.Name, rest.Images, rest.Description, rest.Rating,
		rest.Reviews, rest.Cuisine, rest.PriceRange, rest.DeliveryTime,
	)
	if err != nil {
		return fmt.Errorf("creating restaurant %q: %w", rest.ID, err)
	}
	return nil
}

// Update overwrites a restaurant's fields. It returns
// catalog.ErrRestaurantNotFound when no row matches.
func (r *RestaurantRepository) Update(ctx context.Context, rest *catalog.Restaurant) error {
	tag, err := r.pool.Exec(ctx, updateRestaurantSQL,
		rest.ID, rest.Name, rest.Images, rest.Description, rest.Rating,
		rest.Reviews, rest.Cuisine, rest.PriceRange, rest.DeliveryTime,
	)
	if err != nil {
		return fmt.Errorf("updating restaurant %q: %w", rest.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrRestaurantNotFound
	}
	return nil
}

// Delete removes a restaurant. It returns catalog.ErrRestaurantNotFound
// when no row matches.
func (r *RestaurantRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteRestaurantSQL, id)
	if err != nil {
		return fmt.Errorf("deleting restaurant %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrRestaurantNotFound
	}
	return nil
}

func scanRestaurant(row pgx.CollectableRow) (catalog.Restaurant, error) {
	var rest catalog.Restaurant
	err := row.Scan(
		&rest.ID, &rest.Name, &rest.Images, &rest.Description, &rest.Rating,
		&rest.Reviews, &rest.Cuisine, &rest.PriceRange, &rest.DeliveryTime, &rest.CreatedAt,
	)
	return rest, err
}

const (
	menuItemColumns = `id, restaurant, name, description, detailed_description, price, category, image,
		ingredients, nutrition, allergens, is_vegetarian, preparation_time, spicy_level, serving_size,
		rating, is_available, created_at`

	insertMenuItemSQL = `INSERT INTO menu_items (id, restaurant, name, description, detailed_description, price, category, image,
		ingredients, nutrition, allergens, is_vegetarian, preparation_time, spicy_level, serving_size, rating, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	updateMenuItemSQL = `UPDATE menu_items
		SET name = $3, description = $4, detailed_description = $5, price = $6, category = $7, image = $8,
			ingredients = $9, nutrition = $10, allergens = $11, is_vegetarian = $12, preparation_time = $13,
			spicy_level = $14, serving_size = $15, rating = $16, is_available = $17
		WHERE id = $1 AND restaurant = $2`

	deleteMenuItemSQL = `DELETE FROM menu_items WHERE id = $1 AND restaurant = $2`
)

var _ catalog.ItemRepository = (*MenuItemRepository)(nil)

// MenuItemRepository implements catalog.ItemRepository backed by
// PostgreSQL.
type MenuItemRepository struct {
	pool *pgxpool.Pool
}

// NewMenuItemRepository returns a MenuItemRepository that uses the given
// pool.
func NewMenuItemRepository(pool *pgxpool.Pool) *MenuItemRepository {
	return &MenuItemRepository{pool: pool}
}

// ListByRestaurant returns one restaurant's menu ordered by name.
func (r *MenuItemRepository) ListByRestaurant(ctx context.Context, restaurant string) ([]catalog.MenuItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+menuItemColumns+` FROM menu_items WHERE restaurant = $1 ORDER BY name`, restaurant)
	if err != nil {
		return nil, fmt.Errorf("listing menu for %q: %w", restaurant, err)
	}
	return pgx.CollectRows(rows, scanMenuItem)
}

// GetByID returns a single menu item by its identifier.
func (r *MenuItemRepository) GetByID(ctx context.Context, id string) (*catalog.MenuItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+menuItemColumns+` FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("getting menu item %q: %w", id, err)
	}

	m, err := pgx.CollectExactlyOneRow(rows, scanMenuItem)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrItemNotFound
		}
		return nil, fmt.Errorf("getting menu item %q: %w", id, err)
	}
	return &m, nil
}

// GetByIDs returns menu items matching any of the given ids. Missing ids
// are simply absent from the result.
func (r *MenuItemRepository) GetByIDs(ctx context.Context, ids []string) ([]catalog.MenuItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+menuItemColumns+` FROM menu_items WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("getting menu items by ids: %w", err)
	}
	return pgx.CollectRows(rows, scanMenuItem)
}

// Count returns the number of menu items across all restaurants.
func (r *MenuItemRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM menu_items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting menu items: %w", err)
	}
	return n, nil
}

// Create inserts a new menu item.
func (r *MenuItemRepository) Create(ctx context.Context, item *catalog.MenuItem) error {
	nutrition, err := json.Marshal(item.Nutrition)
	if err != nil {
		return fmt.Errorf("marshaling nutrition: %w", err)
	}

	_, err = r.pool.Exec(ctx, insertMenuItemSQL,
		item.ID, item.Restaurant, item.Name, item.Description, item.DetailedDescription,
		item.Price, string(item.Category), item.Image, item.Ingredients, nutrition,
		item.Allergens, item.IsVegetarian, item.PreparationTime, item.SpicyLevel,
		item.ServingSize, item.Rating, item.IsAvailable,
	)
	if err != nil {
		return fmt.Errorf("creating menu item %q: %w", item.ID, err)
	}
	return nil
}

// Update overwrites a menu item scoped to its restaurant. It returns
// catalog.ErrItemNotFound when no row matches (id, restaurant).
func (r *MenuItemRepository) Update(ctx context.Context, restaurant string, item *catalog.MenuItem) error {
	nutrition, err := json.Marshal(item.Nutrition)
	if err != nil {
		return fmt.Errorf("marshaling nutrition: %w", err)
	}

	tag, err := r.pool.Exec(ctx, updateMenuItemSQL,
		item.ID, restaurant, item.Name, item.Description, item.DetailedDescription,
		item.Price, string(item.Category), item.Image, item.Ingredients, nutrition,
		item.Allergens, item.IsVegetarian, item.PreparationTime, item.SpicyLevel,
		item.ServingSize, item.Rating, item.IsAvailable,
	)
	if err != nil {
		return fmt.Errorf("updating menu item %q: %w", item.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrItemNotFound
	}
	return nil
}

// Delete removes a menu item scoped to its restaurant.
func (r *MenuItemRepository) Delete(ctx context.Context, restaurant, id string) error {
	tag, err := r.pool.Exec(ctx, deleteMenuItemSQL, id, restaurant)
	if err != nil {
		return fmt.Errorf("deleting menu item %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrItemNotFound
	}
	return nil
}

func scanMenuItem(row pgx.CollectableRow) (catalog.MenuItem, error) {
	var (
		m         catalog.MenuItem
		price     decimal.Decimal
		category  string
		nutrition []byte
	)
	err := row.Scan(
		&m.ID, &m.Restaurant, &m.Name, &m.Description, &m.DetailedDescription,
		&price, &category, &m.Image, &m.Ingredients, &nutrition,
		&m.Allergens, &m.IsVegetarian, &m.PreparationTime, &m.SpicyLevel,
		&m.ServingSize, &m.Rating, &m.IsAvailable, &m.CreatedAt,
	)
	if err != nil {
		return m, err
	}
	m.Price = price
	m.Category = catalog.Category(category)
	if len(nutrition) > 0 {
		if err := json.Unmarshal(nutrition, &m.Nutrition); err != nil {
			return m, fmt.Errorf("unmarshaling nutrition for %q: %w", m.ID, err)
		}
	}
	return m, nil
}
