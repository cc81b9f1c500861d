package repository

import (
	"context"
	"fmt"

	"divvy/database"
	"divvy/models"

	"github.com/jackc/pgx/v5"
)

// ParticipantRepository implements the service.ParticipantRepository interface
type ParticipantRepository struct {
	q queryable
}

// NewParticipantRepository creates a new participant repository
func NewParticipantRepository(db *database.DB) *ParticipantRepository {
	return &ParticipantRepository{q: db.Pool}
}

// newParticipantRepositoryWithTx creates a new participant repository with a transaction
func newParticipantRepositoryWithTx(tx queryable) *ParticipantRepository {
	return &ParticipantRepository{q: tx}
}

// Create creates a new participant
func (r *ParticipantRepository) Create(ctx context.Context, participant *models.Participant) error {
	query := `
		INSERT INTO participants (event_id, user_id, display_name)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.q.QueryRow(ctx, query,
		participant.EventID,
		participant.UserID,
		participant.DisplayName,
	).Scan(&participant.ID)

	if err != nil {
		return fmt.Errorf("failed to create participant: %w", err)
	}

	return nil
}

// GetByEvent returns an event's participants in canonical (insertion) order.
// The allocation engine depends on this ordering for its tie-breaks.
func (r *ParticipantRepository) GetByEvent(ctx context.Context, eventID int64) ([]*models.Participant, error) {
	query := `
		SELECT id, event_id, user_id, display_name
		FROM participants
		WHERE event_id = $1
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants for event %d: %w", eventID, err)
	}
	defer rows.Close()

	var participants []*models.Participant
	for rows.Next() {
		var p models.Participant
		err := rows.Scan(&p.ID, &p.EventID, &p.UserID, &p.DisplayName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return participants, nil
}

// GetByEventAndUser retrieves a participant by event and user
func (r *ParticipantRepository) GetByEventAndUser(ctx context.Context, eventID, userID int64) (*models.Participant, error) {
	query := `
		SELECT id, event_id, user_id, display_name
		FROM participants
		WHERE event_id = $1 AND user_id = $2
	`

	var p models.Participant
	err := r.q.QueryRow(ctx, query, eventID, userID).Scan(&p.ID, &p.EventID, &p.UserID, &p.DisplayName)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant for event %d user %d: %w", eventID, userID, err)
	}

	return &p, nil
}

// GetByID retrieves a participant by ID
func (r *ParticipantRepository) GetByID(ctx context.Context, id int64) (*models.Participant, error) {
	query := `
		SELECT id, event_id, user_id, display_name
		FROM participants
		WHERE id = $1
	`

	var p models.Participant
	err := r.q.QueryRow(ctx, query, id).Scan(&p.ID, &p.EventID, &p.UserID, &p.DisplayName)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant %d: %w", id, err)
	}

	return &p, nil
}
