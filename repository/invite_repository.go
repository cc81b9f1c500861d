package repository

import (
	"context"
	"fmt"

	"divvy/database"
	"divvy/models"

	"github.com/jackc/pgx/v5"
)

// InviteRepository implements the service.InviteRepository interface
type InviteRepository struct {
	q queryable
}

// NewInviteRepository creates a new invite repository
func NewInviteRepository(db *database.DB) *InviteRepository {
	return &InviteRepository{q: db.Pool}
}

// newInviteRepositoryWithTx creates a new invite repository with a transaction
func newInviteRepositoryWithTx(tx queryable) *InviteRepository {
	return &InviteRepository{q: tx}
}

// Create creates a new invite
func (r *InviteRepository) Create(ctx context.Context, invite *models.Invite) error {
	query := `
		INSERT INTO invites (event_id, email, role, token, token_expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.q.QueryRow(ctx, query,
		invite.EventID,
		invite.Email,
		invite.Role,
		invite.Token,
		invite.TokenExpiresAt,
	).Scan(&invite.ID)

	if err != nil {
		return fmt.Errorf("failed to create invite: %w", err)
	}

	return nil
}

// GetByToken retrieves an invite by event and token
func (r *InviteRepository) GetByToken(ctx context.Context, eventID int64, token string) (*models.Invite, error) {
	query := `
		SELECT id, event_id, email, role, token, token_expires_at, accepted_at
		FROM invites
		WHERE event_id = $1 AND token = $2
	`

	var invite models.Invite
	err := r.q.QueryRow(ctx, query, eventID, token).Scan(
		&invite.ID,
		&invite.EventID,
		&invite.Email,
		&invite.Role,
		&invite.Token,
		&invite.TokenExpiresAt,
		&invite.AcceptedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invite for event %d: %w", eventID, err)
	}

	return &invite, nil
}

// MarkAccepted stamps the invite's accepted_at
func (r *InviteRepository) MarkAccepted(ctx context.Context, id int64) error {
	query := `
		UPDATE invites
		SET accepted_at = NOW()
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark invite %d accepted: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("invite %d not found", id)
	}

	return nil
}
