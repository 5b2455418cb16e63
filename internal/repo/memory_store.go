package repo

import (
	"context"
	"sync"
	"time"

	"github.com/rogerio-castellano/order-tracker/internal/models"
)

// MemoryStore is an in-memory implementation of Store. Each instance is independent,
// so tests can build as many isolated stores as they need.
type MemoryStore struct {
	mu        sync.RWMutex
	users     *table[models.User]
	products  *table[models.Product]
	orders    *table[models.Order]
	movements *table[models.Movement]
	now       func() time.Time
}

// NewMemoryStore creates an empty store whose ids start at 1.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     newTable(func(u *models.User) *int { return &u.ID }),
		products:  newTable(func(p *models.Product) *int { return &p.ID }),
		orders:    newTable(func(o *models.Order) *int { return &o.ID }),
		movements: newTable(func(m *models.Movement) *int { return &m.ID }),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Users() UserRepository         { return &InMemoryUserRepository{s: s} }
func (s *MemoryStore) Products() ProductRepository   { return &InMemoryProductRepository{s: s} }
func (s *MemoryStore) Orders() OrderRepository       { return &InMemoryOrderRepository{s: s} }
func (s *MemoryStore) Movements() MovementRepository { return &InMemoryMovementRepository{s: s} }
func (s *MemoryStore) Metrics() MetricsRepository    { return &InMemoryMetricsRepository{s: s} }

// Atomically holds the store-wide write lock while fn runs and replays the undo
// log when fn fails or panics. A panic is re-raised after the rollback.
func (s *MemoryStore) Atomically(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{s: s}
	committed := false
	defer func() {
		if !committed {
			tx.rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *MemoryStore) Close() {}
