package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"
)

var otpMax = big.NewInt(1_000_000)

type OTPService interface {
	// Generate returns a 6-digit zero-padded code, uniform over
	// 000000-999999.
	Generate() (string, error)
	// Digest is the hex sha256 of the code; only digests are persisted.
	// A fast hash is fine here: the input space is tiny and the code is
	// time-boxed, unlike a password.
	Digest(code string) string
	Expiry(now time.Time, ttl time.Duration) time.Time
}

type otpService struct{}

func NewOTPService() OTPService {
	return &otpService{}
}

func (s *otpService) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, otpMax)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func (s *otpService) Digest(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

func (s *otpService) Expiry(now time.Time, ttl time.Duration) time.Time {
	return now.Add(ttl)
}
