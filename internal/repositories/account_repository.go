package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"neofitness/internal/models"
)

type AccountRepository interface {
	Create(ctx context.Context, a *models.Account) error
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	// GetByIdentity resolves an account by username or (case-insensitive)
	// email. Returns nil, nil when nothing matches.
	GetByIdentity(ctx context.Context, identity string) (*models.Account, error)
	UpdatePassword(ctx context.Context, id int64, hash, algo string, at time.Time) error
	MarkEmailVerified(ctx context.Context, id int64, at time.Time) error
}

type accountRepository struct {
	q querier
}

const accountColumns = `
	id, username, email, password_hash, password_algo,
	email_verified_at, status, created_at, updated_at
`

func (r *accountRepository) Create(ctx context.Context, a *models.Account) error {
	const q = `
		INSERT INTO accounts (username, email, password_hash, password_algo, status)
		VALUES ($1, lower($2), $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.q.QueryRowContext(ctx, q,
		a.Username, a.Email, a.PasswordHash, a.PasswordAlgo, a.Status,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicate
		}
		return fmt.Errorf("account create: %w", err)
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	const q = `SELECT` + accountColumns + `FROM accounts WHERE id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, q, id))
}

func (r *accountRepository) GetByIdentity(ctx context.Context, identity string) (*models.Account, error) {
	const q = `
		SELECT` + accountColumns + `
		FROM accounts
		WHERE username = $1 OR lower(email) = lower($1)
	`
	return r.scanOne(r.q.QueryRowContext(ctx, q, identity))
}

func (r *accountRepository) UpdatePassword(ctx context.Context, id int64, hash, algo string, at time.Time) error {
	const q = `
		UPDATE accounts
		SET password_hash = $1, password_algo = $2, updated_at = $3
		WHERE id = $4
	`
	if _, err := r.q.ExecContext(ctx, q, hash, algo, at, id); err != nil {
		return fmt.Errorf("account update password: %w", err)
	}
	return nil
}

func (r *accountRepository) MarkEmailVerified(ctx context.Context, id int64, at time.Time) error {
	const q = `
		UPDATE accounts
		SET email_verified_at = $1, updated_at = $1
		WHERE id = $2 AND email_verified_at IS NULL
	`
	if _, err := r.q.ExecContext(ctx, q, at, id); err != nil {
		return fmt.Errorf("account mark verified: %w", err)
	}
	return nil
}

func (r *accountRepository) scanOne(row *sql.Row) (*models.Account, error) {
	a := &models.Account{}
	var verifiedAt sql.NullTime
	err := row.Scan(
		&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.PasswordAlgo,
		&verifiedAt, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("account scan: %w", err)
	}
	if verifiedAt.Valid {
		t := verifiedAt.Time
		a.EmailVerifiedAt = &t
	}
	return a, nil
}
