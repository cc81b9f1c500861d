package models

import (
	"time"
)

// InviteRole represents the role an invited member receives
type InviteRole string

const (
	InviteRoleAdmin  InviteRole = "admin"
	InviteRoleMember InviteRole = "member"
)

// Invite represents a token-based invitation to join an event
type Invite struct {
	ID             int64      `db:"id"`
	EventID        int64      `db:"event_id"`
	Email          string     `db:"email"`
	Role           InviteRole `db:"role"`
	Token          string     `db:"token"`
	TokenExpiresAt time.Time  `db:"token_expires_at"`
	AcceptedAt     *time.Time `db:"accepted_at"`
}

// IsExpired checks if the invite token has passed its expiry
func (i *Invite) IsExpired(now time.Time) bool {
	return now.After(i.TokenExpiresAt)
}

// IsAccepted checks if the invite has already been used
func (i *Invite) IsAccepted() bool {
	return i.AcceptedAt != nil
}
