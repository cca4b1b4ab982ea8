//go:build integration

package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/tastoria/orders-api/internal/domain/cart"
	"github.com/tastoria/orders-api/internal/domain/catalog"
	"github.com/tastoria/orders-api/internal/domain/identity"
	"github.com/tastoria/orders-api/internal/domain/order"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("tastoria"),
		tcpostgres.WithUsername("tastoria"),
		tcpostgres.WithPassword("tastoria"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(time.Minute)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func TestRepositories(t *testing.T) {
	ctx := context.Background()
	dsn := startPostgres(t)

	pool, err := NewPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, RunMigrations(ctx, pool))

	restaurants := NewRestaurantRepository(pool)
	items := NewMenuItemRepository(pool)
	carts := NewCartRepository(pool)
	orders := NewOrderRepository(pool)
	users := NewUserRepository(pool)

	require.NoError(t, restaurants.Create(ctx, &catalog.Restaurant{
		ID: "tastoria-downtown", Name: "Tastoria Downtown", Cuisine: "Central Asian",
	}))

	plov := &catalog.MenuItem{
		ID:          "dt-plov",
		Restaurant:  "tastoria-downtown",
		Name:        "Plov",
		Description: "Rice with lamb",
		Price:       decimal.RequireFromString("9.50"),
		Category:    catalog.CategoryMainCourse,
		Ingredients: []string{"rice", "lamb"},
		Nutrition:   catalog.Nutrition{Calories: 650, Protein: 32},
		Rating:      4.8,
		IsAvailable: true,
	}
	require.NoError(t, items.Create(ctx, plov))

	t.Run("menu item round trip", func(t *testing.T) {
		got, err := items.GetByID(ctx, "dt-plov")
		require.NoError(t, err)
		require.Equal(t, "Plov", got.Name)
		require.True(t, got.Price.Equal(decimal.RequireFromString("9.50")))
		require.Equal(t, []string{"rice", "lamb"}, got.Ingredients)
		require.Equal(t, 650, got.Nutrition.Calories)

		_, err = items.GetByID(ctx, "ghost")
		require.ErrorIs(t, err, catalog.ErrItemNotFound)
	})

	t.Run("menu item update is restaurant scoped", func(t *testing.T) {
		hijack := *plov
		hijack.Name = "Hijacked"
		require.ErrorIs(t, items.Update(ctx, "tastoria-riverside", &hijack), catalog.ErrItemNotFound)
	})

	t.Run("order number conflict", func(t *testing.T) {
		mk := func(id string) *order.Order {
			return &order.Order{
				ID:           id,
				Number:       "DUP12345",
				CustomerName: "Aziz",
				Restaurant:   "tastoria-downtown",
				Lines: []order.Line{
					{ItemID: "dt-plov", Name: "Plov", Price: decimal.RequireFromString("9.50"), Quantity: 1},
				},
				Total:  decimal.RequireFromString("9.50"),
				Status: order.StatusPending,
			}
		}
		require.NoError(t, orders.Create(ctx, mk(uuid.New().String())))
		require.ErrorIs(t, orders.Create(ctx, mk(uuid.New().String())), order.ErrNumberConflict)
	})

	t.Run("order status update scoping", func(t *testing.T) {
		o := &order.Order{
			ID:           uuid.New().String(),
			Number:       "SCOPE001",
			CustomerName: "Aziz",
			Restaurant:   "tastoria-downtown",
			Lines:        []order.Line{{ItemID: "dt-plov", Name: "Plov", Price: decimal.RequireFromString("9.50"), Quantity: 1}},
			Total:        decimal.RequireFromString("9.50"),
			Status:       order.StatusPending,
		}
		require.NoError(t, orders.Create(ctx, o))

		_, err := orders.UpdateStatus(ctx, o.ID, order.StatusPreparing, "tastoria-riverside")
		require.ErrorIs(t, err, order.ErrNotFound)

		updated, err := orders.UpdateStatus(ctx, o.ID, order.StatusPreparing, "tastoria-downtown")
		require.NoError(t, err)
		require.Equal(t, order.StatusPreparing, updated.Status)
		require.Len(t, updated.Lines, 1)
	})

	t.Run("cart merge is additive and atomic", func(t *testing.T) {
		const email = "aziz@example.com"
		line := cart.Line{
			ItemID: "dt-plov", Name: "Plov",
			Price: decimal.RequireFromString("9.50"), Quantity: 2,
			Restaurant: "tastoria-downtown",
		}

		require.NoError(t, carts.MergeAdd(ctx, email, []cart.Line{line}))
		require.NoError(t, carts.MergeAdd(ctx, email, []cart.Line{line}))

		lines, err := carts.Get(ctx, email)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		require.Equal(t, 4, lines[0].Quantity)

		require.NoError(t, carts.Clear(ctx, email))
		lines, err = carts.Get(ctx, email)
		require.NoError(t, err)
		require.Empty(t, lines)
	})

	t.Run("concurrent merges do not lose updates", func(t *testing.T) {
		const (
			email   = "race@example.com"
			workers = 8
		)
		line := cart.Line{
			ItemID: "dt-plov", Name: "Plov",
			Price: decimal.RequireFromString("9.50"), Quantity: 1,
			Restaurant: "tastoria-downtown",
		}

		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- carts.MergeAdd(ctx, email, []cart.Line{line})
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		lines, err := carts.Get(ctx, email)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		require.Equal(t, workers, lines[0].Quantity)
	})

	t.Run("user email uniqueness", func(t *testing.T) {
		u := &identity.User{
			ID: uuid.New().String(), Name: "Aziz", Email: "aziz@example.com",
			Role: identity.RoleCustomer,
		}
		require.NoError(t, users.Create(ctx, u))

		dup := &identity.User{ID: uuid.New().String(), Name: "Other", Email: "aziz@example.com", Role: identity.RoleCustomer}
		require.ErrorIs(t, users.Create(ctx, dup), identity.ErrEmailTaken)

		got, err := users.GetByEmail(ctx, "aziz@example.com")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)

		_, err = users.GetByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, identity.ErrUserNotFound)
	})

	t.Run("restaurant delete cascades to its menu", func(t *testing.T) {
		require.NoError(t, restaurants.Create(ctx, &catalog.Restaurant{ID: "temp", Name: "Temp"}))
		require.NoError(t, items.Create(ctx, &catalog.MenuItem{
			ID:         "temp-dish",
			Restaurant: "temp",
			Name:       "Temp Dish",
			Price:      decimal.RequireFromString("1.00"),
			Category:   catalog.CategorySnacks,
		}))

		require.NoError(t, restaurants.Delete(ctx, "temp"))
		require.ErrorIs(t, restaurants.Delete(ctx, "temp"), catalog.ErrRestaurantNotFound)

		_, err := items.GetByID(ctx, "temp-dish")
		require.ErrorIs(t, err, catalog.ErrItemNotFound)
	})
}
