package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrDuplicate — insert hit the username/email uniqueness constraint.
var ErrDuplicate = errors.New("username or email already exists")

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store bundles the account and verification-code repositories together with
// the transactional envelope every writing workflow runs in.
type Store interface {
	Accounts() AccountRepository
	VerificationCodes() VerificationCodeRepository
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}

type sqlStore struct {
	db *sql.DB
	q  querier
}

func NewStore(db *sql.DB) Store {
	return &sqlStore{db: db, q: db}
}

func (s *sqlStore) Accounts() AccountRepository {
	return &accountRepository{q: s.q}
}

func (s *sqlStore) VerificationCodes() VerificationCodeRepository {
	return &verificationCodeRepository{q: s.q}
}

// WithinTx runs fn against a transaction-bound copy of the store. fn
// returning an error rolls everything back. A nested call reuses the
// already-open transaction.
func (s *sqlStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	if _, ok := s.q.(*sql.Tx); ok {
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(&sqlStore{db: s.db, q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
