package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"neofitness/internal/models"
)

type VerificationCodeRepository interface {
	// Create inserts a new code row. Every issue is a new row; earlier codes
	// of the same purpose are left untouched.
	Create(ctx context.Context, c *models.VerificationCode) error
	// GetLatestUsable returns the newest unconsumed, unexpired code for the
	// account and purpose, or nil, nil when there is none.
	GetLatestUsable(ctx context.Context, accountID int64, purpose string, now time.Time) (*models.VerificationCode, error)
	// Consume sets consumed_at on a still-unconsumed code. Returns false when
	// another transaction got there first.
	Consume(ctx context.Context, id int64, at time.Time) (bool, error)
}

type verificationCodeRepository struct {
	q querier
}

func (r *verificationCodeRepository) Create(ctx context.Context, c *models.VerificationCode) error {
	const q = `
		INSERT INTO verification_codes (account_id, purpose, code_hash, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.q.QueryRowContext(ctx, q,
		c.AccountID, c.Purpose, c.CodeHash, c.ExpiresAt,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("verification code create: %w", err)
	}
	return nil
}

func (r *verificationCodeRepository) GetLatestUsable(ctx context.Context, accountID int64, purpose string, now time.Time) (*models.VerificationCode, error) {
	const q = `
		SELECT id, account_id, purpose, code_hash, expires_at, consumed_at, created_at
		FROM verification_codes
		WHERE account_id = $1 AND purpose = $2
		  AND consumed_at IS NULL AND expires_at > $3
		ORDER BY created_at DESC
		LIMIT 1
	`
	c := &models.VerificationCode{}
	var consumedAt sql.NullTime
	err := r.q.QueryRowContext(ctx, q, accountID, purpose, now).Scan(
		&c.ID, &c.AccountID, &c.Purpose, &c.CodeHash,
		&c.ExpiresAt, &consumedAt, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("verification code latest: %w", err)
	}
	if consumedAt.Valid {
		t := consumedAt.Time
		c.ConsumedAt = &t
	}
	return c, nil
}

func (r *verificationCodeRepository) Consume(ctx context.Context, id int64, at time.Time) (bool, error) {
	// Guarded update: under two concurrent redeems only one sees a row.
	const q = `
		UPDATE verification_codes
		SET consumed_at = $1
		WHERE id = $2 AND consumed_at IS NULL
	`
	res, err := r.q.ExecContext(ctx, q, at, id)
	if err != nil {
		return false, fmt.Errorf("verification code consume: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("verification code consume: %w", err)
	}
	return n == 1, nil
}
