package repo

import (
	"context"

	"github.com/rogerio-castellano/order-tracker/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
type InMemoryProductRepository struct {
	s *MemoryStore
}

// GetAll retrieves all products from the repository.
func (r *InMemoryProductRepository) GetAll(_ context.Context) ([]models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.products.all(), nil
}

// GetByID retrieves a product by its ID.
func (r *InMemoryProductRepository) GetByID(_ context.Context, id int) (models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.products.get(id)
	if !ok {
		return models.Product{}, ErrProductNotFound
	}
	return p, nil
}

func (r *InMemoryProductRepository) LowStock(_ context.Context) ([]models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.products.filter(models.Product.IsLowStock), nil
}
