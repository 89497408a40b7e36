package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates a Postgres-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, given_name, family_name, username, email, updated_at`

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getWhere(ctx, "id", id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getWhere(ctx, "username", username)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getWhere(ctx, "email", email)
}

func (r *userRepository) getWhere(ctx context.Context, column, value string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`
	row := r.pool.QueryRow(ctx, query, value)

	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.GivenName,
		&user.FamilyName,
		&user.Username,
		&user.Email,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO users (id, given_name, family_name, username, email, updated_at)
	VALUES ($1, $2, $3, $4, $5, NOW())
	RETURNING updated_at
	`

	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, query,
			user.ID,
			user.GivenName,
			user.FamilyName,
			user.Username,
			user.Email,
		).Scan(&user.UpdatedAt)
	})
	return mapWriteError(err)
}
