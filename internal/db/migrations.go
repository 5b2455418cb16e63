package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         SERIAL PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id         SERIAL PRIMARY KEY,
		name       TEXT NOT NULL,
		price      NUMERIC(14,2) NOT NULL CHECK (price >= 0),
		stock      INTEGER NOT NULL CHECK (stock >= 0),
		min_stock  INTEGER NOT NULL DEFAULT 0 CHECK (min_stock >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id         SERIAL PRIMARY KEY,
		user_id    INTEGER NOT NULL REFERENCES users(id),
		product_id INTEGER NOT NULL REFERENCES products(id),
		quantity   INTEGER NOT NULL CHECK (quantity > 0),
		total      NUMERIC(14,2) NOT NULL CHECK (total >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS orders_user_id_idx ON orders (user_id, id)`,
	`CREATE TABLE IF NOT EXISTS movements (
		id         SERIAL PRIMARY KEY,
		product_id INTEGER NOT NULL REFERENCES products(id),
		delta      INTEGER NOT NULL,
		reason     TEXT NOT NULL,
		order_id   INTEGER REFERENCES orders(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS movements_product_id_idx ON movements (product_id, id)`,
}

// Migrate creates the tables used by the Postgres store if they do not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}
