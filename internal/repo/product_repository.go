package repo

import (
	"context"

	"github.com/rogerio-castellano/order-tracker/internal/models"
)

// ProductRepository defines the read operations for products. Writes go through Tx.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int) (models.Product, error)
	// LowStock returns every product whose stock is strictly below its minimum.
	LowStock(ctx context.Context) ([]models.Product, error)
}
