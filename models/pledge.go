package models

import (
	"time"
)

// PledgeKind represents the effect a pledge has on its participant's share
type PledgeKind string

const (
	PledgeKindEqual            PledgeKind = "equal"
	PledgeKindVolunteerOverpay PledgeKind = "volunteer_overpay"
	PledgeKindUnderpayBid      PledgeKind = "underpay_bid"
)

// PledgeValueType represents how a pledge's value is interpreted
type PledgeValueType string

const (
	PledgeValueNone    PledgeValueType = ""
	PledgeValuePercent PledgeValueType = "percent"
	PledgeValueFixed   PledgeValueType = "fixed"
)

// Pledge represents a per-participant adjustment to the equal split.
// Value is cents for fixed pledges and basis points (hundredths of a
// percent) for percent pledges, so records stay integer end to end.
type Pledge struct {
	ID            int64           `db:"id"`
	EventID       int64           `db:"event_id"`
	ParticipantID int64           `db:"participant_id"`
	Kind          PledgeKind      `db:"kind"`
	ValueType     PledgeValueType `db:"value_type"`
	Value         int64           `db:"value"`
	Active        bool            `db:"active"`
	CreatedAt     time.Time       `db:"created_at"`
}

// IsActive checks if the pledge participates in allocation
func (p *Pledge) IsActive() bool {
	return p.Active
}

// RequiresValue checks if the pledge kind carries a value
func (k PledgeKind) RequiresValue() bool {
	return k == PledgeKindVolunteerOverpay || k == PledgeKindUnderpayBid
}

// Valid checks if the kind is one of the known pledge kinds
func (k PledgeKind) Valid() bool {
	switch k {
	case PledgeKindEqual, PledgeKindVolunteerOverpay, PledgeKindUnderpayBid:
		return true
	}
	return false
}

// Valid checks if the value type is one of the known value types
func (v PledgeValueType) Valid() bool {
	switch v {
	case PledgeValueNone, PledgeValuePercent, PledgeValueFixed:
		return true
	}
	return false
}
