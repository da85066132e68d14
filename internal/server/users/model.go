package users

import "time"

// User is an account created on first successful phone verification.
// PasswordHash is nil until the user sets one.
type User struct {
	ID           string
	Phone        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Challenge is a pending phone verification: the bcrypt hash of a sent code
// plus its expiry and guess budget. ConsumedAt marks a code that has already
// been exchanged for a session.
type Challenge struct {
	ID         string
	Phone      string
	CodeHash   []byte
	Attempts   int
	ExpiresAt  time.Time
	ConsumedAt *time.Time
	CreatedAt  time.Time
}
