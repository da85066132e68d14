package users

import (
	"context"
)

type Repository interface {
	// GetByPhone returns the user for a phone number, or common.ErrNotFound.
	GetByPhone(ctx context.Context, phone string) (*User, error)

	// Create inserts a new user for the phone number and returns it with the
	// generated id.
	Create(ctx context.Context, phone string) (*User, error)

	// SetPasswordHash stores a new password hash for the user.
	SetPasswordHash(ctx context.Context, userID string, hash []byte) error
}

type ChallengeRepository interface {
	// Create stores a new challenge and returns it with the generated id.
	Create(ctx context.Context, challenge *Challenge) (*Challenge, error)

	// Latest returns the most recently created challenge for a phone number,
	// or common.ErrNotFound when none was ever issued.
	Latest(ctx context.Context, phone string) (*Challenge, error)

	// RecordAttempt increments the failed-guess counter.
	RecordAttempt(ctx context.Context, id string) error

	// Consume marks the challenge as used so the code cannot be replayed.
	Consume(ctx context.Context, id string) error
}
