package repo

import (
	"context"

	"github.com/rogerio-castellano/order-tracker/internal/models"
)

type InMemoryMovementRepository struct {
	s *MemoryStore
}

// GetByProductID returns all movements for a specific product, oldest first.
func (r *InMemoryMovementRepository) GetByProductID(_ context.Context, productID int, f MovementFilter) ([]models.Movement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.movements.filter(func(m models.Movement) bool {
		return m.ProductID == productID && f.matches(m)
	}), nil
}
