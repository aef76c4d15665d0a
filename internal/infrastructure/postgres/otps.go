package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/hr-compass/internal/domain"
	"github.com/jackc/pgx/v5"
)

type OtpRepo struct {
	db DB
}

func NewOtpRepo(db DB) *OtpRepo {
	return &OtpRepo{db: db}
}

// Replace deletes every passcode for o.Email and inserts o in one transaction.
// The advisory lock serialises concurrent issuers for the same address.
func (r *OtpRepo) Replace(ctx context.Context, o *domain.Otp) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, o.Email); err != nil {
		return fmt.Errorf("lock otps for %s: %w", o.Email, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM otps WHERE email = $1`, o.Email); err != nil {
		return fmt.Errorf("delete otps for %s: %w", o.Email, err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO otps (id, email, code_hash, expires_at, created_at) VALUES ($1, $2, $3, $4, $5)`,
		o.OtpID, o.Email, o.CodeHash, o.ExpiresAt, o.CreatedAt,
	); err != nil {
		return fmt.Errorf("create otp for %s: %w", o.Email, err)
	}
	return tx.Commit(ctx)
}

func (r *OtpRepo) ListActive(ctx context.Context, email string, now time.Time) ([]domain.Otp, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, email, code_hash, expires_at, created_at
		 FROM otps
		 WHERE email = $1 AND expires_at > $2
		 ORDER BY created_at DESC`,
		email, now,
	)
	if err != nil {
		return nil, fmt.Errorf("list otps for %s: %w", email, err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Otp, error) {
		var o domain.Otp
		err := row.Scan(&o.OtpID, &o.Email, &o.CodeHash, &o.ExpiresAt, &o.CreatedAt)
		return o, err
	})
}

// Consume deletes the passcode otpID. Only one caller can consume a given
// code; the others get domain.ErrNotFound.
func (r *OtpRepo) Consume(ctx context.Context, email, otpID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM otps WHERE id = $1 AND email = $2`, otpID, email)
	if err != nil {
		return fmt.Errorf("consume otp %s: %w", otpID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("otp %s: %w", otpID, domain.ErrNotFound)
	}
	return nil
}
