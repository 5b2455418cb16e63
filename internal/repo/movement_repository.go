package repo

import (
	"context"

	"github.com/rogerio-castellano/order-tracker/internal/models"
)

type MovementRepository interface {
	GetByProductID(ctx context.Context, productID int, f MovementFilter) ([]models.Movement, error)
}
