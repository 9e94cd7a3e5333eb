package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"neofitness/internal/models"
	"neofitness/internal/repositories"
)

// AuthService orchestrates the credential and one-time-code lifecycle. It is
// stateless between calls; all state lives in the store, and every writing
// operation runs as a single transaction.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) error
	Login(ctx context.Context, identity, password string) (string, error)
	ForgotPassword(ctx context.Context, identity string) error
	ResetPassword(ctx context.Context, identity, otp, newPassword string) error
	VerifyEmail(ctx context.Context, identity, otp string) error
	ResendVerifyOTP(ctx context.Context, identity string) error
}

type authService struct {
	store     repositories.Store
	passwords PasswordService
	otps      OTPService
	tokens    TokenService
	emails    EmailService
	otpTTL    time.Duration

	now func() time.Time
}

func NewAuthService(
	store repositories.Store,
	passwords PasswordService,
	otps OTPService,
	tokens TokenService,
	emails EmailService,
	otpTTL time.Duration,
) AuthService {
	return &authService{
		store:     store,
		passwords: passwords,
		otps:      otps,
		tokens:    tokens,
		emails:    emails,
		otpTTL:    otpTTL,
		now:       time.Now,
	}
}

func (s *authService) Register(ctx context.Context, username, email, password string) error {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || password == "" {
		return fmt.Errorf("%w: username, email and password are required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: malformed email", ErrInvalidInput)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return err
	}

	// Account, code and delivery commit together or not at all.
	return s.store.WithinTx(ctx, func(tx repositories.Store) error {
		acc := &models.Account{
			Username:     username,
			Email:        email,
			PasswordHash: hash,
			PasswordAlgo: models.PasswordAlgoArgon2id,
			Status:       models.AccountStatusActive,
		}
		if err := tx.Accounts().Create(ctx, acc); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return ErrIdentityTaken
			}
			return err
		}
		return s.issueCode(ctx, tx, acc, models.PurposeVerifyEmail)
	})
}

func (s *authService) Login(ctx context.Context, identity, password string) (string, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" || password == "" {
		return "", fmt.Errorf("%w: identity and password are required", ErrInvalidInput)
	}

	acc, err := s.store.Accounts().GetByIdentity(ctx, identity)
	if err != nil {
		return "", err
	}
	if acc == nil {
		return "", ErrAccountNotFound
	}
	if acc.IsBlocked() {
		return "", ErrAccountBlocked
	}
	if !s.passwords.Verify(acc.PasswordHash, password) {
		return "", ErrWrongPassword
	}
	if !acc.IsVerified() {
		return "", ErrEmailNotVerified
	}
	return s.tokens.Issue(acc.ID, acc.Username)
}

func (s *authService) ForgotPassword(ctx context.Context, identity string) error {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return fmt.Errorf("%w: identity is required", ErrInvalidInput)
	}

	acc, err := s.store.Accounts().GetByIdentity(ctx, identity)
	if err != nil {
		return err
	}
	if acc == nil {
		// don't leak existence
		log.Printf("[auth][forgot] request for unknown identity %q", identity)
		return nil
	}

	return s.store.WithinTx(ctx, func(tx repositories.Store) error {
		return s.issueCode(ctx, tx, acc, models.PurposeResetPassword)
	})
}

func (s *authService) ResetPassword(ctx context.Context, identity, otp, newPassword string) error {
	identity = strings.TrimSpace(identity)
	otp = strings.TrimSpace(otp)
	if identity == "" || otp == "" || newPassword == "" {
		return fmt.Errorf("%w: identity, otp and new_password are required", ErrInvalidInput)
	}

	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return err
	}

	return s.store.WithinTx(ctx, func(tx repositories.Store) error {
		acc, err := tx.Accounts().GetByIdentity(ctx, identity)
		if err != nil {
			return err
		}
		if acc == nil {
			return ErrAccountNotFound
		}

		now := s.now()
		code, err := s.matchCode(ctx, tx, acc.ID, models.PurposeResetPassword, otp, now)
		if err != nil {
			return err
		}
		if err := tx.Accounts().UpdatePassword(ctx, acc.ID, hash, models.PasswordAlgoArgon2id, now); err != nil {
			return err
		}
		return s.consume(ctx, tx, code.ID, now)
	})
}

func (s *authService) VerifyEmail(ctx context.Context, identity, otp string) error {
	identity = strings.TrimSpace(identity)
	otp = strings.TrimSpace(otp)
	if identity == "" || otp == "" {
		return fmt.Errorf("%w: identity and otp are required", ErrInvalidInput)
	}

	return s.store.WithinTx(ctx, func(tx repositories.Store) error {
		acc, err := tx.Accounts().GetByIdentity(ctx, identity)
		if err != nil {
			return err
		}
		if acc == nil {
			return ErrAccountNotFound
		}

		now := s.now()
		code, err := s.matchCode(ctx, tx, acc.ID, models.PurposeVerifyEmail, otp, now)
		if err != nil {
			return err
		}
		if err := s.consume(ctx, tx, code.ID, now); err != nil {
			return err
		}
		return tx.Accounts().MarkEmailVerified(ctx, acc.ID, now)
	})
}

func (s *authService) ResendVerifyOTP(ctx context.Context, identity string) error {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return fmt.Errorf("%w: identity is required", ErrInvalidInput)
	}

	acc, err := s.store.Accounts().GetByIdentity(ctx, identity)
	if err != nil {
		return err
	}
	if acc == nil {
		// don't leak existence
		log.Printf("[auth][resend] request for unknown identity %q", identity)
		return nil
	}

	return s.store.WithinTx(ctx, func(tx repositories.Store) error {
		return s.issueCode(ctx, tx, acc, models.PurposeVerifyEmail)
	})
}

// issueCode creates a fresh code row and sends it within the caller's
// transaction. Earlier usable codes of the same purpose stay valid; only the
// newest one is consulted at redeem time.
func (s *authService) issueCode(ctx context.Context, tx repositories.Store, acc *models.Account, purpose string) error {
	plain, err := s.otps.Generate()
	if err != nil {
		return err
	}
	now := s.now()
	code := &models.VerificationCode{
		AccountID: acc.ID,
		Purpose:   purpose,
		CodeHash:  s.otps.Digest(plain),
		ExpiresAt: s.otps.Expiry(now, s.otpTTL),
	}
	if err := tx.VerificationCodes().Create(ctx, code); err != nil {
		return err
	}
	// Delivery failure rolls back everything written in this operation.
	return s.emails.SendOTPEmail(acc.Email, plain, purpose)
}

// matchCode finds the newest usable code for the account/purpose and checks
// the submitted OTP against its digest. Every failure mode collapses into
// ErrCodeInvalid.
func (s *authService) matchCode(ctx context.Context, tx repositories.Store, accountID int64, purpose, otp string, now time.Time) (*models.VerificationCode, error) {
	code, err := tx.VerificationCodes().GetLatestUsable(ctx, accountID, purpose, now)
	if err != nil {
		return nil, err
	}
	if code == nil {
		return nil, ErrCodeInvalid
	}
	digest := s.otps.Digest(otp)
	if subtle.ConstantTimeCompare([]byte(code.CodeHash), []byte(digest)) != 1 {
		return nil, ErrCodeInvalid
	}
	return code, nil
}

func (s *authService) consume(ctx context.Context, tx repositories.Store, codeID int64, now time.Time) error {
	ok, err := tx.VerificationCodes().Consume(ctx, codeID, now)
	if err != nil {
		return err
	}
	if !ok {
		// lost the race to a concurrent redeem
		return ErrCodeInvalid
	}
	return nil
}
