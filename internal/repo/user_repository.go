package repo

import (
	"context"

	"github.com/rogerio-castellano/order-tracker/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetAll(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id int) (models.User, error)
}
