package models

// Participant represents a user's membership in an event.
// Participant IDs are assigned in insertion order; that order is the
// canonical iteration order for allocation.
type Participant struct {
	ID          int64  `db:"id"`
	EventID     int64  `db:"event_id"`
	UserID      int64  `db:"user_id"`
	DisplayName string `db:"display_name"`
}
