package repo_test

import (
	"context"
	"os"
	"testing"

	"github.com/rogerio-castellano/order-tracker/internal/db"
	"github.com/rogerio-castellano/order-tracker/internal/models"
	"github.com/rogerio-castellano/order-tracker/internal/repo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newPostgresStore connects to DATABASE_URL and truncates every table.
func newPostgresStore(t *testing.T) *repo.PostgresStore {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, dbURL)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx, pool))

	_, err = pool.Exec(ctx, `TRUNCATE movements, orders, products, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	s := repo.NewPostgresStore(pool)
	t.Cleanup(s.Close)
	return s
}

func TestPostgresStore_OrderTransaction(t *testing.T) {
	s := newPostgresStore(t)
	ctx := context.Background()

	u, err := s.Users().Create(ctx, models.User{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 1, u.ID)

	var p models.Product
	require.NoError(t, s.Atomically(ctx, func(tx repo.Tx) error {
		p, err = tx.CreateProduct(ctx, models.Product{
			Name: "Laptop", Price: decimal.RequireFromString("99.99"), Stock: 10, MinStock: 5,
		})
		return err
	}))

	require.NoError(t, s.Atomically(ctx, func(tx repo.Tx) error {
		locked, err := tx.GetProduct(ctx, p.ID)
		if err != nil {
			return err
		}
		if _, err := tx.AdjustStock(ctx, locked.ID, -6); err != nil {
			return err
		}
		o, err := tx.CreateOrder(ctx, models.Order{
			UserID: u.ID, ProductID: p.ID, Quantity: 6, Total: locked.Price.Mul(decimal.NewFromInt(6)),
		})
		if err != nil {
			return err
		}
		_, err = tx.LogMovement(ctx, models.Movement{ProductID: p.ID, Delta: -6, Reason: models.MovementOrder, OrderID: &o.ID})
		return err
	}))

	got, err := s.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Stock)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("99.99")))

	orders, err := s.Orders().GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.True(t, orders[0].Total.Equal(decimal.RequireFromString("599.94")), orders[0].Total.String())

	movements, err := s.Movements().GetByProductID(ctx, p.ID, repo.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, movements, 1)
	require.NotNil(t, movements[0].OrderID)
	assert.Equal(t, orders[0].ID, *movements[0].OrderID)

	low, err := s.Products().LowStock(ctx)
	require.NoError(t, err)
	assert.Len(t, low, 1)

	m, err := s.Metrics().GetDashboardMetrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, m.TotalOrders)
	require.NotNil(t, m.MostOrderedProduct)
	assert.Equal(t, 6, m.MostOrderedProduct.Quantity)
}

func TestPostgresStore_AdjustStockGuards(t *testing.T) {
	s := newPostgresStore(t)
	ctx := context.Background()

	var p models.Product
	require.NoError(t, s.Atomically(ctx, func(tx repo.Tx) error {
		var err error
		p, err = tx.CreateProduct(ctx, models.Product{Name: "Mouse", Price: decimal.NewFromInt(5), Stock: 1})
		return err
	}))

	err := s.Atomically(ctx, func(tx repo.Tx) error {
		_, err := tx.AdjustStock(ctx, p.ID, -2)
		return err
	})
	assert.ErrorIs(t, err, repo.ErrInvalidQuantityChange)

	err = s.Atomically(ctx, func(tx repo.Tx) error {
		_, err := tx.AdjustStock(ctx, 999, 1)
		return err
	})
	assert.ErrorIs(t, err, repo.ErrProductNotFound)

	_, err = s.Orders().GetByID(ctx, 1)
	assert.ErrorIs(t, err, repo.ErrOrderNotFound)
}
