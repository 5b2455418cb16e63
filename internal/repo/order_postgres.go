package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rogerio-castellano/order-tracker/internal/models"
)

const orderColumns = `id, user_id, product_id, quantity, total, created_at`

type PostgresOrderRepository struct {
	db querier
}

func NewPostgresOrderRepository(db querier) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

func scanOrder(row scanner) (models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.UserID, &o.ProductID, &o.Quantity, &o.Total, &o.CreatedAt)
	return o, err
}

func (r *PostgresOrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanOrder)
}

func (r *PostgresOrderRepository) GetByID(ctx context.Context, id int) (models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Order{}, ErrOrderNotFound
	}
	return o, err
}

func (r *PostgresOrderRepository) GetByUserID(ctx context.Context, userID int) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanOrder)
}
