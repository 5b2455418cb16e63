package catalog

import (
	"context"
	"fmt"

	"github.com/rogerio-castellano/order-tracker/internal/models"
	"github.com/rogerio-castellano/order-tracker/internal/repo"
	"github.com/shopspring/decimal"
)

var (
	seedUsers = []models.User{
		{Name: "John Doe", Email: "john@example.com"},
		{Name: "Jane Smith", Email: "jane@example.com"},
	}

	seedProducts = []models.Product{
		{Name: "Laptop", Price: decimal.RequireFromString("99.99"), Stock: 10, MinStock: 5},
		{Name: "Mouse", Price: decimal.RequireFromString("25.50"), Stock: 3, MinStock: 5},
		{Name: "Keyboard", Price: decimal.RequireFromString("49.99"), Stock: 50, MinStock: 10},
	}
)

// Seed fills an empty store with demo users and products. It does nothing when
// the store already holds users or products.
func (s *Service) Seed(ctx context.Context) error {
	users, err := s.store.Users().GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}
	products, err := s.store.Products().GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}
	if len(users) > 0 || len(products) > 0 {
		s.log.Debug().Msg("store not empty, skipping seed")
		return nil
	}

	for _, u := range seedUsers {
		if _, err := s.store.Users().Create(ctx, u); err != nil {
			return fmt.Errorf("failed to seed user %q: %w", u.Email, err)
		}
	}

	err = s.store.Atomically(ctx, func(tx repo.Tx) error {
		for _, p := range seedProducts {
			created, err := tx.CreateProduct(ctx, p)
			if err != nil {
				return fmt.Errorf("failed to seed product %q: %w", p.Name, err)
			}
			if err := s.logMovement(ctx, tx, created.ID, created.Stock, models.MovementInitial); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info().Int("users", len(seedUsers)).Int("products", len(seedProducts)).Msg("seeded store")
	return nil
}
