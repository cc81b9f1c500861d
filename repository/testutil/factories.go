package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"divvy/database"
	"divvy/models"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

// CreateTestEvent builds an active event owned by the given user
func CreateTestEvent(createdBy int64, title string, totalCents int64) *models.Event {
	return &models.Event{
		Title:       title,
		Description: "test event",
		Currency:    "AUD",
		TotalAmount: totalCents,
		Status:      models.EventStatusActive,
		CreatedBy:   createdBy,
	}
}

// CreateTestPledge builds an active pledge of the given kind
func CreateTestPledge(eventID, participantID int64, kind models.PledgeKind, valueType models.PledgeValueType, value int64) *models.Pledge {
	return &models.Pledge{
		EventID:       eventID,
		ParticipantID: participantID,
		Kind:          kind,
		ValueType:     valueType,
		Value:         value,
		Active:        true,
	}
}

// CreateTestInvite builds an unexpired member invite
func CreateTestInvite(eventID int64, email, token string) *models.Invite {
	return &models.Invite{
		EventID:        eventID,
		Email:          email,
		Role:           models.InviteRoleMember,
		Token:          token,
		TokenExpiresAt: time.Now().Add(24 * time.Hour),
	}
}

// SeedEvent inserts a creator, an event, and one participant per email
// in a single transaction, returning the event ID and the participant IDs
// in insertion order.
func SeedEvent(t *testing.T, db *database.DB, totalCents int64, creatorEmail string, memberEmails ...string) (int64, []int64) {
	t.Helper()
	ctx := context.Background()

	var eventID int64
	var participantIDs []int64

	err := db.WithTransaction(ctx, func(tx pgx.Tx) error {
		var creatorID int64
		if err := tx.QueryRow(ctx,
			`INSERT INTO users (email) VALUES ($1) RETURNING id`, creatorEmail,
		).Scan(&creatorID); err != nil {
			return fmt.Errorf("failed to seed creator: %w", err)
		}

		if err := tx.QueryRow(ctx,
			`INSERT INTO events (title, description, currency, total_amount, status, created_by)
			 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
			"seeded event", "", "AUD", totalCents, string(models.EventStatusActive), creatorID,
		).Scan(&eventID); err != nil {
			return fmt.Errorf("failed to seed event: %w", err)
		}

		emails := append([]string{creatorEmail}, memberEmails...)
		for i, email := range emails {
			userID := creatorID
			if i > 0 {
				if err := tx.QueryRow(ctx,
					`INSERT INTO users (email) VALUES ($1) RETURNING id`, email,
				).Scan(&userID); err != nil {
					return fmt.Errorf("failed to seed user %s: %w", email, err)
				}
			}

			var participantID int64
			if err := tx.QueryRow(ctx,
				`INSERT INTO participants (event_id, user_id, display_name)
				 VALUES ($1, $2, $3) RETURNING id`,
				eventID, userID, email,
			).Scan(&participantID); err != nil {
				return fmt.Errorf("failed to seed participant %s: %w", email, err)
			}
			participantIDs = append(participantIDs, participantID)
		}

		return nil
	})
	require.NoError(t, err)

	return eventID, participantIDs
}
