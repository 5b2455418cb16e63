package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rogerio-castellano/order-tracker/internal/models"
)

const productColumns = `id, name, price, stock, min_stock, created_at, updated_at`

type PostgresProductRepository struct {
	db querier
}

func NewPostgresProductRepository(db querier) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

func scanProduct(row scanner) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.MinStock, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *PostgresProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanProduct)
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, id int) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *PostgresProductRepository) LowStock(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products WHERE stock < min_stock ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanProduct)
}
