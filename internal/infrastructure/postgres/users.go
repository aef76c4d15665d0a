package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hr-compass/internal/domain"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, is_verified, created_at, updated_at`

type UserRepo struct {
	db DB
}

func NewUserRepo(db DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts u. It fails with domain.ErrConflict when the email is taken.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		u.UserID, u.Email, u.Verified, u.CreatedAt, u.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("user %s: %w", u.Email, domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("create user %s: %w", u.Email, err)
	}
	return nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepo) Get(ctx context.Context, userID string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
}

// MarkVerified sets is_verified on an existing user and returns the updated record.
func (r *UserRepo) MarkVerified(ctx context.Context, email string, at time.Time) (*domain.User, error) {
	return r.getOne(ctx,
		`UPDATE users SET is_verified = TRUE, updated_at = $2 WHERE email = $1 RETURNING `+userColumns,
		email, at,
	)
}

func (r *UserRepo) getOne(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx, query, args...).Scan(&u.UserID, &u.Email, &u.Verified, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}
