package models

import "time"

const (
	AccountStatusActive  = "active"
	AccountStatusBlocked = "blocked"

	PasswordAlgoArgon2id = "argon2id"
)

type Account struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"` // stored lowercase
	PasswordHash string `json:"-"`
	PasswordAlgo string `json:"-"`

	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	Status          string     `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Account) IsVerified() bool {
	return a.EmailVerifiedAt != nil
}

func (a *Account) IsBlocked() bool {
	return a.Status == AccountStatusBlocked
}
