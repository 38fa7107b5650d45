package model

import "time"

// Session is the authenticated identity held server-side for a client. It
// is created on login, read on every protected request and destroyed on
// logout.
type Session struct {
	UserID    uint64    `json:"user_id"`
	Login     string    `json:"login"`
	CreatedAt time.Time `json:"created_at"`
}

// Authenticated reports whether the session carries an identity.
func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != 0
}
