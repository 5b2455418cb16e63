package repo

import (
	"context"

	"github.com/rogerio-castellano/order-tracker/internal/models"
)

type PostgresMovementRepository struct {
	db querier
}

func NewPostgresMovementRepository(db querier) *PostgresMovementRepository {
	return &PostgresMovementRepository{db: db}
}

func scanMovement(row scanner) (models.Movement, error) {
	var m models.Movement
	err := row.Scan(&m.ID, &m.ProductID, &m.Delta, &m.Reason, &m.OrderID, &m.CreatedAt)
	return m, err
}

// GetByProductID returns all movements for a specific product
func (r *PostgresMovementRepository) GetByProductID(ctx context.Context, productID int, f MovementFilter) ([]models.Movement, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx,
		`SELECT id, product_id, delta, reason, order_id, created_at
		 FROM movements
		 WHERE product_id = $1
		   AND ($2::timestamptz IS NULL OR created_at >= $2)
		   AND ($3::timestamptz IS NULL OR created_at <= $3)
		 ORDER BY id`,
		productID, f.Since, f.Until,
	)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanMovement)
}
