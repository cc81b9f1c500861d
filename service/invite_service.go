package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"divvy/config"
	"divvy/events"
	"divvy/models"

	"github.com/google/uuid"
)

// inviteService implements the InviteService interface
type inviteService struct {
	uowFactory UnitOfWorkFactory
	config     *config.Config
}

// NewInviteService creates a new invite service
func NewInviteService(uowFactory UnitOfWorkFactory, cfg *config.Config) InviteService {
	return &inviteService{
		uowFactory: uowFactory,
		config:     cfg,
	}
}

// CreateInvite issues a token-based invite to an email address
func (s *inviteService) CreateInvite(ctx context.Context, eventID, inviterUserID int64, email string) (*models.Invite, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email address")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	event, err := uow.EventRepository().GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, fmt.Errorf("event %w", ErrNotFound)
	}
	if !event.CanAcceptChanges() {
		return nil, fmt.Errorf("event is finalized and no longer accepts members")
	}

	// Only existing members may invite
	inviter, err := uow.ParticipantRepository().GetByEventAndUser(ctx, eventID, inviterUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check inviter membership: %w", err)
	}
	if inviter == nil {
		return nil, fmt.Errorf("only event members can send invites")
	}

	invite := &models.Invite{
		EventID:        eventID,
		Email:          email,
		Role:           models.InviteRoleMember,
		Token:          uuid.NewString(),
		TokenExpiresAt: time.Now().Add(time.Duration(s.config.InviteTTLHours) * time.Hour),
	}
	if err := uow.InviteRepository().Create(ctx, invite); err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return invite, nil
}

// AcceptInvite validates a token and joins the invited user to the event.
// Accepting twice is harmless: the user stays a member and the invite is
// simply re-stamped.
func (s *inviteService) AcceptInvite(ctx context.Context, eventID int64, token string) (*models.Participant, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	event, err := uow.EventRepository().GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, fmt.Errorf("event %w", ErrNotFound)
	}

	invite, err := uow.InviteRepository().GetByToken(ctx, eventID, token)
	if err != nil {
		return nil, fmt.Errorf("failed to get invite: %w", err)
	}
	if invite == nil || invite.IsExpired(time.Now()) {
		return nil, fmt.Errorf("invalid or expired invite")
	}

	user, err := uow.UserRepository().GetByEmail(ctx, invite.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get invited user: %w", err)
	}
	if user == nil {
		user, err = uow.UserRepository().Create(ctx, invite.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to create invited user: %w", err)
		}
		uow.EventBus().Publish(events.UserCreatedEvent{
			UserID: user.ID,
			Email:  user.Email,
		})
	}

	participant, err := uow.ParticipantRepository().GetByEventAndUser(ctx, eventID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing membership: %w", err)
	}
	if participant == nil {
		participant = &models.Participant{
			EventID:     eventID,
			UserID:      user.ID,
			DisplayName: user.DefaultDisplayName(),
		}
		if err := uow.ParticipantRepository().Create(ctx, participant); err != nil {
			return nil, fmt.Errorf("failed to create participant: %w", err)
		}
		uow.EventBus().Publish(events.ParticipantJoinedEvent{
			EventID:       eventID,
			ParticipantID: participant.ID,
			UserID:        user.ID,
			DisplayName:   participant.DisplayName,
		})
	}

	if err := uow.InviteRepository().MarkAccepted(ctx, invite.ID); err != nil {
		return nil, fmt.Errorf("failed to mark invite accepted: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return participant, nil
}
