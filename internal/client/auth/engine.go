// Package auth implements the client's session engine: a small state
// machine over phone-verification login with a durably stored session.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avelichka/skinform/internal/client/models"
	sessionrepo "github.com/avelichka/skinform/internal/client/repositories/session"
	"github.com/avelichka/skinform/internal/common"
	"github.com/avelichka/skinform/internal/logging"
	"github.com/avelichka/skinform/internal/validation"
)

// State is the engine's position in the login flow.
type State int

const (
	StateAnonymous State = iota
	StatePhoneEntered
	StateAwaitingVerification
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StatePhoneEntered:
		return "phone entered"
	case StateAwaitingVerification:
		return "awaiting verification"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// DefaultMaxSessionAge bounds how long a stored session stays valid without
// a fresh login.
const DefaultMaxSessionAge = 30 * 24 * time.Hour

// Engine owns the session record. OTP sequencing (requesting a code,
// resend timing, checking the entered digits) is caller logic; the engine
// only cares about the final Login call and the stored session.
type Engine struct {
	repo   *sessionrepo.Repository
	logger logging.Logger
	maxAge time.Duration
	now    func() time.Time

	state   State
	phone   string
	session *models.Session
}

func NewEngine(repo *sessionrepo.Repository, maxAge time.Duration, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxSessionAge
	}
	return &Engine{
		repo:   repo,
		logger: logger,
		maxAge: maxAge,
		now:    time.Now,
		state:  StateAnonymous,
	}
}

// State returns the current position in the login flow.
func (e *Engine) State() State { return e.state }

// Session returns the live session, or nil when not authenticated.
func (e *Engine) Session() *models.Session { return e.session }

// PhoneNumber returns the phone number entered so far.
func (e *Engine) PhoneNumber() string { return e.phone }

// SetPhoneNumber stores the phone in memory only (nothing is persisted until
// login). Valid from Anonymous or PhoneEntered.
func (e *Engine) SetPhoneNumber(phone string) error {
	if e.state == StateAuthenticated {
		return fmt.Errorf("%w: already authenticated", common.ErrValidation)
	}
	if !validation.ValidatePhoneNumber(phone) {
		return fmt.Errorf("%w: invalid phone number", common.ErrValidation)
	}
	e.phone = validation.Digits(phone)
	e.state = StatePhoneEntered
	return nil
}

// BeginVerification marks that a code was sent for the entered phone.
func (e *Engine) BeginVerification() error {
	if e.state != StatePhoneEntered && e.state != StateAwaitingVerification {
		return fmt.Errorf("%w: no phone number entered", common.ErrValidation)
	}
	e.state = StateAwaitingVerification
	return nil
}

// Login creates a session for phone, persists it, and transitions to
// Authenticated. Persistence failure is propagated and the engine stays in
// its previous state.
func (e *Engine) Login(ctx context.Context, phone string) error {
	return e.LoginVerified(ctx, uuid.NewString(), phone, "")
}

// LoginVerified is Login with a server-assigned user id and access token,
// used after a successful OTP verification round-trip.
func (e *Engine) LoginVerified(ctx context.Context, userID, phone, token string) error {
	if !validation.ValidatePhoneNumber(phone) {
		return fmt.Errorf("%w: invalid phone number", common.ErrValidation)
	}

	s := &models.Session{
		ID:          userID,
		PhoneNumber: validation.Digits(phone),
		CreatedAt:   e.now(),
		Token:       token,
	}

	if err := e.repo.Save(ctx, s); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	e.session = s
	e.phone = s.PhoneNumber
	e.state = StateAuthenticated
	e.logger.Info(ctx, "logged in", "user_id", s.ID)
	return nil
}

// Logout deletes the stored session and returns to Anonymous. Deletion
// failures are logged only; the in-memory state is cleared regardless.
func (e *Engine) Logout(ctx context.Context) {
	if err := e.repo.Delete(ctx); err != nil {
		e.logger.Error(ctx, "could not delete stored session", "error", err)
	}
	e.session = nil
	e.phone = ""
	e.state = StateAnonymous
}

// CheckAuth loads the stored session at process start. A valid session moves
// the engine straight to Authenticated; an expired one is deleted and the
// engine stays Anonymous. Only store failures are returned.
func (e *Engine) CheckAuth(ctx context.Context) error {
	s, err := e.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("check auth: %w", err)
	}
	if s == nil {
		return nil
	}

	if s.Age(e.now()) > e.maxAge {
		e.logger.Info(ctx, "stored session expired", "user_id", s.ID, "created_at", s.CreatedAt)
		if err := e.repo.Delete(ctx); err != nil {
			e.logger.Error(ctx, "could not delete expired session", "error", err)
		}
		return nil
	}

	e.session = s
	e.phone = s.PhoneNumber
	e.state = StateAuthenticated
	return nil
}
