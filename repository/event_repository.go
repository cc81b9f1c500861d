package repository

import (
	"context"
	"fmt"

	"divvy/database"
	"divvy/models"

	"github.com/jackc/pgx/v5"
)

// EventRepository implements the service.EventRepository interface
type EventRepository struct {
	q queryable
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{q: db.Pool}
}

// newEventRepositoryWithTx creates a new event repository with a transaction
func newEventRepositoryWithTx(tx queryable) *EventRepository {
	return &EventRepository{q: tx}
}

// Create creates a new event
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (title, description, currency, total_amount, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		event.Title,
		event.Description,
		event.Currency,
		event.TotalAmount,
		event.Status,
		event.CreatedBy,
	).Scan(&event.ID, &event.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	return nil
}

// GetByID retrieves an event by its ID
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	query := `
		SELECT id, title, description, currency, total_amount, status, created_by, created_at
		FROM events
		WHERE id = $1
	`

	var event models.Event
	err := r.q.QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Currency,
		&event.TotalAmount,
		&event.Status,
		&event.CreatedBy,
		&event.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event %d: %w", id, err)
	}

	return &event, nil
}

// GetAll returns all events, newest first
func (r *EventRepository) GetAll(ctx context.Context) ([]*models.Event, error) {
	query := `
		SELECT id, title, description, currency, total_amount, status, created_by, created_at
		FROM events
		ORDER BY created_at DESC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	defer rows.Close()

	var evs []*models.Event
	for rows.Next() {
		var event models.Event
		err := rows.Scan(
			&event.ID,
			&event.Title,
			&event.Description,
			&event.Currency,
			&event.TotalAmount,
			&event.Status,
			&event.CreatedBy,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		evs = append(evs, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return evs, nil
}

// UpdateStatus updates an event's lifecycle status
func (r *EventRepository) UpdateStatus(ctx context.Context, id int64, status models.EventStatus) error {
	query := `
		UPDATE events
		SET status = $1
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update event %d status: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("event %d not found", id)
	}

	return nil
}
