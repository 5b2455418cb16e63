package repo

import (
	"context"

	"github.com/rogerio-castellano/order-tracker/internal/models"
)

type InMemoryUserRepository struct {
	s *MemoryStore
}

func (r *InMemoryUserRepository) Create(_ context.Context, u models.User) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if u.CreatedAt.IsZero() {
		u.CreatedAt = r.s.now()
	}
	return r.s.users.insert(u), nil
}

func (r *InMemoryUserRepository) GetAll(_ context.Context) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.users.all(), nil
}

func (r *InMemoryUserRepository) GetByID(_ context.Context, id int) (models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users.get(id)
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return u, nil
}
