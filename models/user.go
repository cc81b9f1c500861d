package models

import (
	"strings"
	"time"
)

// User represents an account identified by email address
type User struct {
	ID        int64     `db:"id"`
	Email     string    `db:"email"`
	CreatedAt time.Time `db:"created_at"`
}

// DefaultDisplayName derives a participant display name from the email local part
func (u *User) DefaultDisplayName() string {
	if i := strings.Index(u.Email, "@"); i > 0 {
		return u.Email[:i]
	}
	return u.Email
}
