package repo

import (
	"context"

	"github.com/rogerio-castellano/order-tracker/internal/models"
)

// memoryTx runs with MemoryStore.mu held for writing and must not lock again.
type memoryTx struct {
	s    *MemoryStore
	undo []func()
}

func (tx *memoryTx) rollback() {
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
}

func (tx *memoryTx) GetUser(_ context.Context, id int) (models.User, error) {
	u, ok := tx.s.users.get(id)
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return u, nil
}

func (tx *memoryTx) GetProduct(_ context.Context, id int) (models.Product, error) {
	p, ok := tx.s.products.get(id)
	if !ok {
		return models.Product{}, ErrProductNotFound
	}
	return p, nil
}

func (tx *memoryTx) CreateProduct(_ context.Context, p models.Product) (models.Product, error) {
	now := tx.s.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	created := tx.s.products.insert(p)
	tx.undo = append(tx.undo, func() { tx.s.products.remove(created.ID) })
	return created, nil
}

func (tx *memoryTx) UpdateProduct(_ context.Context, p models.Product) (models.Product, error) {
	prev, ok := tx.s.products.get(p.ID)
	if !ok {
		return models.Product{}, ErrProductNotFound
	}
	if p.Stock < 0 {
		return models.Product{}, ErrInvalidQuantityChange
	}

	p.CreatedAt = prev.CreatedAt
	p.UpdatedAt = tx.s.now()
	tx.s.products.update(p)
	tx.undo = append(tx.undo, func() { tx.s.products.update(prev) })
	return p, nil
}

func (tx *memoryTx) AdjustStock(_ context.Context, productID, delta int) (models.Product, error) {
	prev, ok := tx.s.products.get(productID)
	if !ok {
		return models.Product{}, ErrProductNotFound
	}
	if prev.Stock+delta < 0 {
		return models.Product{}, ErrInvalidQuantityChange
	}

	p := prev
	p.Stock += delta
	p.UpdatedAt = tx.s.now()
	tx.s.products.update(p)
	tx.undo = append(tx.undo, func() { tx.s.products.update(prev) })
	return p, nil
}

func (tx *memoryTx) CreateOrder(_ context.Context, o models.Order) (models.Order, error) {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = tx.s.now()
	}
	created := tx.s.orders.insert(o)
	tx.undo = append(tx.undo, func() { tx.s.orders.remove(created.ID) })
	return created, nil
}

func (tx *memoryTx) LogMovement(_ context.Context, m models.Movement) (models.Movement, error) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = tx.s.now()
	}
	created := tx.s.movements.insert(m)
	tx.undo = append(tx.undo, func() { tx.s.movements.remove(created.ID) })
	return created, nil
}
