package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type PostgresMetricsRepository struct {
	db querier
}

func NewPostgresMetricsRepository(db querier) *PostgresMetricsRepository {
	return &PostgresMetricsRepository{db: db}
}

func (r *PostgresMetricsRepository) GetDashboardMetrics(ctx context.Context) (Metrics, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var m Metrics
	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM orders),
			(SELECT COUNT(*) FROM movements),
			(SELECT COUNT(*) FROM products WHERE stock < min_stock),
			(SELECT COALESCE(SUM(total), 0) FROM orders)
	`).Scan(&m.TotalProducts, &m.TotalUsers, &m.TotalOrders, &m.TotalMovements, &m.LowStockCount, &m.Revenue)
	if err != nil {
		return Metrics{}, fmt.Errorf("failed to count dashboard totals: %w", err)
	}

	var top MostOrderedProduct
	err = r.db.QueryRow(ctx, `
		SELECT p.id, p.name, SUM(o.quantity) AS qty
		FROM orders o
		JOIN products p ON o.product_id = p.id
		GROUP BY p.id, p.name
		ORDER BY qty DESC, p.id
		LIMIT 1
	`).Scan(&top.ProductID, &top.Name, &top.Quantity)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
	case err != nil:
		return Metrics{}, fmt.Errorf("failed to find most ordered product: %w", err)
	default:
		m.MostOrderedProduct = &top
	}

	return m, nil
}
