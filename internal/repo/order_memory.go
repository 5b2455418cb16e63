package repo

import (
	"context"

	"github.com/rogerio-castellano/order-tracker/internal/models"
)

type InMemoryOrderRepository struct {
	s *MemoryStore
}

func (r *InMemoryOrderRepository) GetAll(_ context.Context) ([]models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.orders.all(), nil
}

func (r *InMemoryOrderRepository) GetByID(_ context.Context, id int) (models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.orders.get(id)
	if !ok {
		return models.Order{}, ErrOrderNotFound
	}
	return o, nil
}

// GetByUserID returns the user's orders in creation order.
func (r *InMemoryOrderRepository) GetByUserID(_ context.Context, userID int) ([]models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.orders.filter(func(o models.Order) bool { return o.UserID == userID }), nil
}
