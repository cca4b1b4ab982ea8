// Command seed-db loads the embedded restaurant and menu fixtures into
// PostgreSQL and creates a default admin account.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/tastoria/orders-api/db"
	"github.com/tastoria/orders-api/internal/domain/catalog"
	"github.com/tastoria/orders-api/internal/repository"
)

type seedData struct {
	Restaurants []catalog.Restaurant `json:"restaurants"`
	Items       []catalog.MenuItem   `json:"items"`
}

func main() {
	var (
		databaseURL   string
		adminEmail    string
		adminPassword string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&adminEmail, "admin-email", "admin@tastoria.dev", "email for the seeded admin account")
	flag.StringVar(&adminPassword, "admin-password", "", "password for the seeded admin account (or TASTORIA_SEED_ADMIN_PASSWORD env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if adminPassword == "" {
		adminPassword = os.Getenv("TASTORIA_SEED_ADMIN_PASSWORD")
	}
	if adminPassword == "" {
		slog.Error("admin password is required: set --admin-password or TASTORIA_SEED_ADMIN_PASSWORD")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, adminEmail, adminPassword); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, adminEmail, adminPassword string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	var data seedData
	if err := json.Unmarshal(db.SeedMenu, &data); err != nil {
		return errors.Wrap(err, "parse seed menu")
	}

	if err := seedCatalog(ctx, pool, data); err != nil {
		return errors.Wrap(err, "seed catalog")
	}
	if err := seedAdmin(ctx, pool, adminEmail, adminPassword); err != nil {
		return errors.Wrap(err, "seed admin user")
	}

	return nil
}

func seedCatalog(ctx context.Context, pool *pgxpool.Pool, data seedData) error {
	slog.Info("upserting restaurants", slog.Int("count", len(data.Restaurants)))

	const upsertRestaurant = `INSERT INTO restaurants (id, name, images, description, rating, reviews, cuisine, price_range, delivery_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, images = EXCLUDED.images, description = EXCLUDED.description,
			rating = EXCLUDED.rating, reviews = EXCLUDED.reviews, cuisine = EXCLUDED.cuisine,
			price_range = EXCLUDED.price_range, delivery_time = EXCLUDED.delivery_time`

	for _, r := range data.Restaurants {
		_, err := pool.Exec(ctx, upsertRestaurant,
			r.ID, r.Name, r.Images, r.Description, r.Rating, r.Reviews, r.Cuisine, r.PriceRange, r.DeliveryTime)
		if err != nil {
			return errors.Wrapf(err, "upsert restaurant %s", r.ID)
		}
		slog.Info("upserted restaurant", slog.String("id", r.ID), slog.String("name", r.Name))
	}

	slog.Info("upserting menu items", slog.Int("count", len(data.Items)))

	const upsertItem = `INSERT INTO menu_items (id, restaurant, name, description, detailed_description, price, category, image,
			ingredients, nutrition, allergens, is_vegetarian, preparation_time, spicy_level, serving_size, rating, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (id) DO UPDATE SET
			restaurant = EXCLUDED.restaurant, name = EXCLUDED.name, description = EXCLUDED.description,
			detailed_description = EXCLUDED.detailed_description, price = EXCLUDED.price, category = EXCLUDED.category,
			image = EXCLUDED.image, ingredients = EXCLUDED.ingredients, nutrition = EXCLUDED.nutrition,
			allergens = EXCLUDED.allergens, is_vegetarian = EXCLUDED.is_vegetarian,
			preparation_time = EXCLUDED.preparation_time, spicy_level = EXCLUDED.spicy_level,
			serving_size = EXCLUDED.serving_size, rating = EXCLUDED.rating, is_available = EXCLUDED.is_available`

	for _, m := range data.Items {
		if err := m.Validate(); err != nil {
			return errors.Wrapf(err, "validate item %s", m.ID)
		}
		nutrition, err := json.Marshal(m.Nutrition)
		if err != nil {
			return errors.Wrapf(err, "marshal nutrition for %s", m.ID)
		}
		_, err = pool.Exec(ctx, upsertItem,
			m.ID, m.Restaurant, m.Name, m.Description, m.DetailedDescription, m.Price, string(m.Category), m.Image,
			m.Ingredients, nutrition, m.Allergens, m.IsVegetarian, m.PreparationTime, m.SpicyLevel,
			m.ServingSize, m.Rating, m.IsAvailable)
		if err != nil {
			return errors.Wrapf(err, "upsert item %s", m.ID)
		}
		slog.Info("upserted menu item", slog.String("id", m.ID), slog.String("name", m.Name))
	}

	return nil
}

func seedAdmin(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	slog.Info("seeding admin user", slog.String("email", email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash admin password")
	}

	const upsertAdmin = `INSERT INTO users (id, name, email, password_hash, role, is_verified)
		VALUES ($1, $2, $3, $4, 'admin', TRUE)
		ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash, role = 'admin', is_verified = TRUE`

	if _, err := pool.Exec(ctx, upsertAdmin, uuid.New().String(), "Administrator", email, string(hash)); err != nil {
		return errors.Wrap(err, "upsert admin user")
	}

	slog.Info("seeded admin user", slog.String("email", email))
	return nil
}
