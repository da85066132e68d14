// Package common defines shared constants and sentinel errors used across
// client and server layers of skinform. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound    = errors.New("not found")
	ErrPersistence = errors.New("persistence error")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Validation errors.
	ErrValidation  = errors.New("validation error")
	ErrInvalidStep = errors.New("invalid step number")

	// Auth errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrOTPRejected  = errors.New("verification code rejected")

	// Submission errors.
	ErrSubmissionInFlight = errors.New("submission already in progress")
)
