package repository

import (
	"context"
	"fmt"

	"divvy/database"
	"divvy/models"

	"github.com/jackc/pgx/v5"
)

// PledgeRepository implements the service.PledgeRepository interface
type PledgeRepository struct {
	q queryable
}

// NewPledgeRepository creates a new pledge repository
func NewPledgeRepository(db *database.DB) *PledgeRepository {
	return &PledgeRepository{q: db.Pool}
}

// newPledgeRepositoryWithTx creates a new pledge repository with a transaction
func newPledgeRepositoryWithTx(tx queryable) *PledgeRepository {
	return &PledgeRepository{q: tx}
}

// Create creates a new pledge
func (r *PledgeRepository) Create(ctx context.Context, pledge *models.Pledge) error {
	query := `
		INSERT INTO pledges (event_id, participant_id, kind, value_type, value, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		pledge.EventID,
		pledge.ParticipantID,
		pledge.Kind,
		pledge.ValueType,
		pledge.Value,
		pledge.Active,
	).Scan(&pledge.ID, &pledge.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create pledge: %w", err)
	}

	return nil
}

// GetByID retrieves a pledge by ID
func (r *PledgeRepository) GetByID(ctx context.Context, id int64) (*models.Pledge, error) {
	query := `
		SELECT id, event_id, participant_id, kind, value_type, value, active, created_at
		FROM pledges
		WHERE id = $1
	`

	var p models.Pledge
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.EventID,
		&p.ParticipantID,
		&p.Kind,
		&p.ValueType,
		&p.Value,
		&p.Active,
		&p.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pledge %d: %w", id, err)
	}

	return &p, nil
}

// GetByEvent returns all pledges for an event in creation order
func (r *PledgeRepository) GetByEvent(ctx context.Context, eventID int64) ([]*models.Pledge, error) {
	return r.getByEvent(ctx, eventID, false)
}

// GetActiveByEvent returns an event's active pledges in creation order.
// Creation order is the order the allocation engine applies pledges in.
func (r *PledgeRepository) GetActiveByEvent(ctx context.Context, eventID int64) ([]*models.Pledge, error) {
	return r.getByEvent(ctx, eventID, true)
}

func (r *PledgeRepository) getByEvent(ctx context.Context, eventID int64, activeOnly bool) ([]*models.Pledge, error) {
	query := `
		SELECT id, event_id, participant_id, kind, value_type, value, active, created_at
		FROM pledges
		WHERE event_id = $1
	`
	if activeOnly {
		query += ` AND active`
	}
	query += ` ORDER BY id`

	rows, err := r.q.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pledges for event %d: %w", eventID, err)
	}
	defer rows.Close()

	var pledges []*models.Pledge
	for rows.Next() {
		var p models.Pledge
		err := rows.Scan(
			&p.ID,
			&p.EventID,
			&p.ParticipantID,
			&p.Kind,
			&p.ValueType,
			&p.Value,
			&p.Active,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pledge: %w", err)
		}
		pledges = append(pledges, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pledges: %w", err)
	}

	return pledges, nil
}

// SetActive flips a pledge's active flag
func (r *PledgeRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := `
		UPDATE pledges
		SET active = $1
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("failed to update pledge %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("pledge %d not found", id)
	}

	return nil
}
