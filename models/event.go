package models

import (
	"time"
)

// EventStatus represents the lifecycle state of an expense event
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusActive    EventStatus = "active"
	EventStatusFinalized EventStatus = "finalized"
)

// Event represents a shared expense with a fixed total to be split
type Event struct {
	ID          int64       `db:"id"`
	Title       string      `db:"title"`
	Description string      `db:"description"`
	Currency    string      `db:"currency"`
	TotalAmount int64       `db:"total_amount"` // cents
	Status      EventStatus `db:"status"`
	CreatedBy   int64       `db:"created_by"`
	CreatedAt   time.Time   `db:"created_at"`
}

// IsFinalized checks if the event no longer accepts changes
func (e *Event) IsFinalized() bool {
	return e.Status == EventStatusFinalized
}

// CanAcceptChanges checks if participants and pledges may still be modified
func (e *Event) CanAcceptChanges() bool {
	return e.Status == EventStatusActive || e.Status == EventStatusDraft
}

// EventDetail combines an event with its participants and pledges
type EventDetail struct {
	Event        *Event
	Participants []*Participant
	Pledges      []*Pledge
}
