// Package users owns accounts and the phone verification flow: codes are
// issued server-side, delivered over SMS, and stored only as bcrypt hashes.
package users

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/avelichka/skinform/internal/common"
	"github.com/avelichka/skinform/internal/server/auth"
	"github.com/avelichka/skinform/internal/server/config"
	"github.com/avelichka/skinform/internal/server/sms"
	"github.com/avelichka/skinform/internal/validation"
)

type Service struct {
	repo                        Repository
	challengeRepo               ChallengeRepository
	sender                      sms.Sender
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	codeTTL                     time.Duration
	maxAttempts                 int

	// now is swapped out in tests.
	now func() time.Time
}

func NewService(repo Repository, challengeRepo ChallengeRepository, sender sms.Sender, cfg *config.Config) *Service {
	return &Service{
		repo:                        repo,
		challengeRepo:               challengeRepo,
		sender:                      sender,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		codeTTL:                     cfg.OTPCodeTTL,
		maxAttempts:                 cfg.OTPMaxAttempts,
		now:                         time.Now,
	}
}

// generateCode returns a uniformly random six-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// RequestOTP issues a fresh code for the phone number and hands it to the
// SMS sender. Issuing a new code invalidates any earlier one: verification
// always checks the latest challenge.
func (s *Service) RequestOTP(ctx context.Context, phone string) error {
	digits := validation.Digits(phone)
	if !validation.ValidatePhoneNumber(digits) {
		return fmt.Errorf("%w: invalid phone number", common.ErrValidation)
	}

	code, err := generateCode()
	if err != nil {
		return common.ErrInternal
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return common.ErrInternal
	}

	challenge := &Challenge{
		Phone:     digits,
		CodeHash:  hash,
		ExpiresAt: s.now().Add(s.codeTTL),
	}
	if _, err := s.challengeRepo.Create(ctx, challenge); err != nil {
		return common.ErrInternal
	}

	if err := s.sender.SendCode(ctx, digits, code); err != nil {
		return fmt.Errorf("sending code: %w", err)
	}
	return nil
}

// VerifyOTP checks the entered code against the latest challenge for the
// phone number. On success the challenge is consumed, the account is created
// if it did not exist yet, and an access token is returned.
func (s *Service) VerifyOTP(ctx context.Context, phone, code string) (*User, string, error) {
	digits := validation.Digits(phone)
	if !validation.ValidateOTP(strings.TrimSpace(code)) {
		return nil, "", common.ErrOTPRejected
	}

	challenge, err := s.challengeRepo.Latest(ctx, digits)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", common.ErrOTPRejected
		}
		return nil, "", common.ErrInternal
	}

	if challenge.ConsumedAt != nil ||
		s.now().After(challenge.ExpiresAt) ||
		challenge.Attempts >= s.maxAttempts {
		return nil, "", common.ErrOTPRejected
	}

	if bcrypt.CompareHashAndPassword(challenge.CodeHash, []byte(strings.TrimSpace(code))) != nil {
		if err := s.challengeRepo.RecordAttempt(ctx, challenge.ID); err != nil {
			return nil, "", common.ErrInternal
		}
		return nil, "", common.ErrOTPRejected
	}

	if err := s.challengeRepo.Consume(ctx, challenge.ID); err != nil {
		return nil, "", common.ErrInternal
	}

	user, err := s.repo.GetByPhone(ctx, digits)
	if errors.Is(err, common.ErrNotFound) {
		user, err = s.repo.Create(ctx, digits)
	}
	if err != nil {
		return nil, "", common.ErrInternal
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, "", common.ErrInternal
	}

	return user, token, nil
}

// ResetPassword stores a new password for an authenticated user after
// checking its strength.
func (s *Service) ResetPassword(ctx context.Context, userID, newPassword string) error {
	check := validation.ValidatePassword(newPassword)
	if !check.Valid {
		return fmt.Errorf("%w: %s", common.ErrValidation, strings.Join(check.Errors, "; "))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return common.ErrInternal
	}

	if err := s.repo.SetPasswordHash(ctx, userID, hash); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return common.ErrInternal
	}
	return nil
}
