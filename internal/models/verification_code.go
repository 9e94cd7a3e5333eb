package models

import "time"

// Code purposes. PurposeLoginOTP is reserved for a future login-by-code flow
// and is never issued by the current workflows.
const (
	PurposeVerifyEmail   = "verify_email"
	PurposeResetPassword = "reset_password"
	PurposeLoginOTP      = "login_otp"
)

// VerificationCode — one row per issued code. Only the sha256 digest of the
// code is stored, never the plaintext.
type VerificationCode struct {
	ID         int64      `json:"id"`
	AccountID  int64      `json:"account_id"`
	Purpose    string     `json:"purpose"`
	CodeHash   string     `json:"-"`
	ExpiresAt  time.Time  `json:"expires_at"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Usable reports whether the code can still be redeemed at the given instant.
func (c *VerificationCode) Usable(now time.Time) bool {
	return c.ConsumedAt == nil && c.ExpiresAt.After(now)
}
