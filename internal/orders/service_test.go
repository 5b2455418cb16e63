package orders

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rogerio-castellano/order-tracker/internal/metrics"
	"github.com/rogerio-castellano/order-tracker/internal/models"
	"github.com/rogerio-castellano/order-tracker/internal/repo"
	"github.com/rogerio-castellano/order-tracker/internal/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	orders []models.Order
	err    error
}

func (p *recordingPublisher) PublishOrderCreated(_ context.Context, o models.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.orders = append(p.orders, o)
	return p.err
}

func intPtr(v int) *int { return &v }

func order(userID, productID, quantity int) validation.OrderPayload {
	return validation.OrderPayload{UserID: intPtr(userID), ProductID: intPtr(productID), Quantity: validation.QuantityOf(quantity)}
}

// newStore holds one user and two products: 1 (99.99, stock 10, min 5) and 2 (5.00, stock 3).
func newStore(t *testing.T) *repo.MemoryStore {
	t.Helper()
	ctx := context.Background()
	s := repo.NewMemoryStore()

	_, err := s.Users().Create(ctx, models.User{Name: "John Doe", Email: "john@example.com"})
	require.NoError(t, err)

	require.NoError(t, s.Atomically(ctx, func(tx repo.Tx) error {
		if _, err := tx.CreateProduct(ctx, models.Product{
			Name: "Laptop", Price: decimal.RequireFromString("99.99"), Stock: 10, MinStock: 5,
		}); err != nil {
			return err
		}
		_, err := tx.CreateProduct(ctx, models.Product{Name: "Cable", Price: decimal.NewFromInt(5), Stock: 3})
		return err
	}))
	return s
}

func stockOf(t *testing.T, s repo.Store, id int) int {
	t.Helper()
	p, err := s.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func TestPlaceOrder_Success(t *testing.T) {
	s := newStore(t)
	pub := &recordingPublisher{}
	svc := NewService(s, WithEvents(pub))

	o, err := svc.PlaceOrder(context.Background(), order(1, 1, 1))
	require.NoError(t, err)

	assert.Equal(t, 1, o.ID)
	assert.Equal(t, 1, o.UserID)
	assert.Equal(t, 1, o.ProductID)
	assert.True(t, decimal.RequireFromString("99.99").Equal(o.Total), o.Total.String())
	assert.Equal(t, 9, stockOf(t, s, 1))
	assert.Equal(t, 3, stockOf(t, s, 2), "other products are untouched")

	movements, err := s.Movements().GetByProductID(context.Background(), 1, repo.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, -1, movements[0].Delta)
	assert.Equal(t, models.MovementOrder, movements[0].Reason)
	require.NotNil(t, movements[0].OrderID)
	assert.Equal(t, o.ID, *movements[0].OrderID)

	require.Len(t, pub.orders, 1)
	assert.Equal(t, o, pub.orders[0])
}

func TestPlaceOrder_TotalIsExact(t *testing.T) {
	s := newStore(t)
	svc := NewService(s)

	o, err := svc.PlaceOrder(context.Background(), order(1, 1, 3))
	require.NoError(t, err)
	assert.Equal(t, "299.97", o.Total.String())
}

func TestPlaceOrder_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		payload validation.OrderPayload
		wantErr *validation.Error
		reason  string
	}{
		{
			name:    "missing product id",
			payload: validation.OrderPayload{UserID: intPtr(1), Quantity: validation.QuantityOf(1)},
			wantErr: validation.ErrOrderFieldsRequired,
			reason:  "missing_fields",
		},
		{
			name:    "zero quantity",
			payload: order(1, 1, 0),
			wantErr: validation.ErrQuantityNotPositive,
			reason:  "quantity_not_positive",
		},
		{
			// malformed input is rejected before any lookup
			name:    "unknown user and zero quantity",
			payload: order(99, 1, 0),
			wantErr: validation.ErrQuantityNotPositive,
			reason:  "quantity_not_positive",
		},
		{
			name:    "unknown user",
			payload: order(99, 1, 1),
			wantErr: validation.ErrUserNotFound,
			reason:  "user_not_found",
		},
		{
			// user is checked before product
			name:    "unknown user and product",
			payload: order(99, 99, 1),
			wantErr: validation.ErrUserNotFound,
			reason:  "user_not_found",
		},
		{
			name:    "unknown product",
			payload: order(1, 99, 1),
			wantErr: validation.ErrProductNotFound,
			reason:  "product_not_found",
		},
		{
			name:    "insufficient stock",
			payload: order(1, 1, 999),
			wantErr: validation.ErrInsufficientStock,
			reason:  "insufficient_stock",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			pub := &recordingPublisher{}
			m := metrics.New(prometheus.NewRegistry())
			svc := NewService(s, WithEvents(pub), WithMetrics(m))

			_, err := svc.PlaceOrder(context.Background(), tt.payload)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			verr, ok := validation.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantErr.Message, verr.Message)

			assert.Equal(t, 10, stockOf(t, s, 1))
			orders, err := s.Orders().GetAll(context.Background())
			require.NoError(t, err)
			assert.Empty(t, orders)
			assert.Empty(t, pub.orders)
			assert.Equal(t, 1.0, testutil.ToFloat64(m.OrdersRejected.WithLabelValues(tt.reason)))
			assert.Equal(t, 0.0, testutil.ToFloat64(m.OrdersPlaced))
		})
	}
}

func TestPlaceOrder_ExactStockDrainsProduct(t *testing.T) {
	s := newStore(t)
	svc := NewService(s)

	_, err := svc.PlaceOrder(context.Background(), order(1, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, 0, stockOf(t, s, 2))

	_, err = svc.PlaceOrder(context.Background(), order(1, 2, 1))
	assert.ErrorIs(t, err, validation.ErrInsufficientStock)
}

func TestPlaceOrder_PublishFailureKeepsOrder(t *testing.T) {
	s := newStore(t)
	svc := NewService(s, WithEvents(&recordingPublisher{err: errors.New("broker down")}))

	o, err := svc.PlaceOrder(context.Background(), order(1, 1, 2))
	require.NoError(t, err)

	got, err := svc.GetOrder(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, o, got)
}

func TestPlaceOrder_ConcurrentOrdersNeverOversell(t *testing.T) {
	s := newStore(t)
	svc := NewService(s)

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		short     atomic.Int32
	)
	for n := 0; n < 50; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.PlaceOrder(context.Background(), order(1, 1, 1))
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, validation.ErrInsufficientStock):
				short.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 10, succeeded.Load())
	assert.EqualValues(t, 40, short.Load())
	assert.Equal(t, 0, stockOf(t, s, 1))

	orders, err := s.Orders().GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, orders, 10)
}

func TestOrdersByUser(t *testing.T) {
	s := newStore(t)
	svc := NewService(s)
	ctx := context.Background()

	first, err := svc.PlaceOrder(ctx, order(1, 1, 1))
	require.NoError(t, err)
	second, err := svc.PlaceOrder(ctx, order(1, 2, 1))
	require.NoError(t, err)

	orders, err := svc.OrdersByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, first.ID, orders[0].ID)
	assert.Equal(t, second.ID, orders[1].ID)

	none, err := svc.OrdersByUser(ctx, 12345)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetOrderNotFound(t *testing.T) {
	svc := NewService(newStore(t))

	_, err := svc.GetOrder(context.Background(), 7)
	assert.ErrorIs(t, err, validation.ErrOrderNotFound)
}
