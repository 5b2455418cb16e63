package repo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rogerio-castellano/order-tracker/internal/models"
)

type postgresTx struct {
	tx pgx.Tx
}

func (t *postgresTx) GetUser(ctx context.Context, id int) (models.User, error) {
	return NewPostgresUserRepository(t.tx).GetByID(ctx, id)
}

func (t *postgresTx) GetProduct(ctx context.Context, id int) (models.Product, error) {
	p, err := scanProduct(t.tx.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (t *postgresTx) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	err := t.tx.QueryRow(ctx,
		`INSERT INTO products (name, price, stock, min_stock, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		p.Name, p.Price, p.Stock, p.MinStock, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	return p, err
}

func (t *postgresTx) UpdateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	if p.Stock < 0 {
		return models.Product{}, ErrInvalidQuantityChange
	}

	updated, err := scanProduct(t.tx.QueryRow(ctx,
		`UPDATE products SET name = $1, price = $2, stock = $3, min_stock = $4, updated_at = $5
		 WHERE id = $6 RETURNING `+productColumns,
		p.Name, p.Price, p.Stock, p.MinStock, time.Now().UTC(), p.ID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return updated, err
}

func (t *postgresTx) AdjustStock(ctx context.Context, productID, delta int) (models.Product, error) {
	p, err := scanProduct(t.tx.QueryRow(ctx,
		`UPDATE products SET stock = stock + $1, updated_at = $2
		 WHERE id = $3 AND stock + $1 >= 0
		 RETURNING `+productColumns,
		delta, time.Now().UTC(), productID,
	))
	if !errors.Is(err, pgx.ErrNoRows) {
		return p, err
	}

	var exists bool
	if err := t.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists); err != nil {
		return models.Product{}, err
	}
	if !exists {
		return models.Product{}, ErrProductNotFound
	}
	return models.Product{}, ErrInvalidQuantityChange
}

func (t *postgresTx) CreateOrder(ctx context.Context, o models.Order) (models.Order, error) {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	err := t.tx.QueryRow(ctx,
		`INSERT INTO orders (user_id, product_id, quantity, total, created_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		o.UserID, o.ProductID, o.Quantity, o.Total, o.CreatedAt,
	).Scan(&o.ID)
	return o, err
}

func (t *postgresTx) LogMovement(ctx context.Context, m models.Movement) (models.Movement, error) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	err := t.tx.QueryRow(ctx,
		`INSERT INTO movements (product_id, delta, reason, order_id, created_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		m.ProductID, m.Delta, m.Reason, m.OrderID, m.CreatedAt,
	).Scan(&m.ID)
	return m, err
}
