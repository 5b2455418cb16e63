package repo

import (
	"context"

	"github.com/rogerio-castellano/order-tracker/internal/models"
)

// Tx is the write side of the store. All methods run inside Store.Atomically and
// see each other's writes; when the surrounding function fails every write is discarded.
type Tx interface {
	GetUser(ctx context.Context, id int) (models.User, error)
	// GetProduct reads a product and holds it until the transaction ends.
	GetProduct(ctx context.Context, id int) (models.Product, error)
	CreateProduct(ctx context.Context, p models.Product) (models.Product, error)
	UpdateProduct(ctx context.Context, p models.Product) (models.Product, error)
	// AdjustStock adds delta to the product stock. It returns ErrInvalidQuantityChange
	// instead of letting stock go below zero.
	AdjustStock(ctx context.Context, productID, delta int) (models.Product, error)
	CreateOrder(ctx context.Context, o models.Order) (models.Order, error)
	LogMovement(ctx context.Context, m models.Movement) (models.Movement, error)
}

// Store owns users, products, orders and stock movements.
type Store interface {
	Users() UserRepository
	Products() ProductRepository
	Orders() OrderRepository
	Movements() MovementRepository
	Metrics() MetricsRepository

	// Atomically runs fn under mutual exclusion with every other Atomically call
	// touching the same rows. fn's writes are committed only if it returns nil.
	Atomically(ctx context.Context, fn func(tx Tx) error) error
	Close()
}
