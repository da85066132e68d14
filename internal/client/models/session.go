package models

import "time"

// Session is the authenticated-user record persisted after phone
// verification. One session at most is live per device store.
type Session struct {
	ID          string    `json:"id"`
	PhoneNumber string    `json:"phoneNumber"`
	CreatedAt   time.Time `json:"createdAt"`

	// Token is the server-issued access token, when the session was created
	// through a verified login rather than offline.
	Token string `json:"token,omitempty"`
}

// Age reports how long ago the session was issued.
func (s *Session) Age(now time.Time) time.Duration {
	return now.Sub(s.CreatedAt)
}
