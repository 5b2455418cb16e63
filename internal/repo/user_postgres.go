package repo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rogerio-castellano/order-tracker/internal/models"
)

type PostgresUserRepository struct {
	db querier
}

func NewPostgresUserRepository(db querier) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func scanUser(row scanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt)
	return u, err
}

func (r *PostgresUserRepository) Create(ctx context.Context, u models.User) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (name, email, created_at) VALUES ($1, $2, $3) RETURNING id`,
		u.Name, u.Email, u.CreatedAt,
	).Scan(&u.ID)
	return u, err
}

func (r *PostgresUserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT id, name, email, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanUser)
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id int) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	u, err := scanUser(r.db.QueryRow(ctx, `SELECT id, name, email, created_at FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return u, err
}
