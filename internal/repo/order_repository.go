package repo

import (
	"context"

	"github.com/rogerio-castellano/order-tracker/internal/models"
)

// OrderRepository reads orders. Orders are only ever created through Tx.CreateOrder.
type OrderRepository interface {
	GetAll(ctx context.Context) ([]models.Order, error)
	GetByID(ctx context.Context, id int) (models.Order, error)
	GetByUserID(ctx context.Context, userID int) ([]models.Order, error)
}
