package domain

import "time"

// User represents a registered account.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Session is the identity blob carried in the browser session cookie.
// It is serialized as plain JSON; there is no server-side session state.
type Session struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SessionFor builds the cookie payload for a user.
func SessionFor(u *User) Session {
	return Session{ID: u.ID, Name: u.Name, Email: u.Email}
}
