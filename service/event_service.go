package service

import (
	"context"
	"fmt"

	"divvy/config"
	"divvy/events"
	"divvy/models"
)

// eventService implements the EventService interface
type eventService struct {
	uowFactory UnitOfWorkFactory
	config     *config.Config
}

// NewEventService creates a new event service
func NewEventService(uowFactory UnitOfWorkFactory, cfg *config.Config) EventService {
	return &eventService{
		uowFactory: uowFactory,
		config:     cfg,
	}
}

// CreateEvent creates an active event and joins the creator as its first participant
func (s *eventService) CreateEvent(ctx context.Context, creatorUserID int64, title, description, currency string, totalAmountCents int64) (*models.Event, error) {
	// Validate inputs
	if title == "" {
		return nil, fmt.Errorf("title cannot be empty")
	}
	if totalAmountCents < 0 {
		return nil, fmt.Errorf("total amount cannot be negative")
	}
	if currency == "" {
		currency = s.config.DefaultCurrency
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	creator, err := uow.UserRepository().GetByID(ctx, creatorUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get creator: %w", err)
	}
	if creator == nil {
		return nil, fmt.Errorf("creator %w", ErrNotFound)
	}

	event := &models.Event{
		Title:       title,
		Description: description,
		Currency:    currency,
		TotalAmount: totalAmountCents,
		Status:      models.EventStatusActive,
		CreatedBy:   creatorUserID,
	}
	if err := uow.EventRepository().Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	// The creator always participates in their own event
	participant := &models.Participant{
		EventID:     event.ID,
		UserID:      creatorUserID,
		DisplayName: creator.DefaultDisplayName(),
	}
	if err := uow.ParticipantRepository().Create(ctx, participant); err != nil {
		return nil, fmt.Errorf("failed to create participant: %w", err)
	}

	uow.EventBus().Publish(events.ParticipantJoinedEvent{
		EventID:       event.ID,
		ParticipantID: participant.ID,
		UserID:        creatorUserID,
		DisplayName:   participant.DisplayName,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return event, nil
}

// GetEventDetail retrieves an event with its participants and pledges
func (s *eventService) GetEventDetail(ctx context.Context, eventID int64) (*models.EventDetail, error) {
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

	participants, err := uow.ParticipantRepository().GetByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}

	pledges, err := uow.PledgeRepository().GetByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pledges: %w", err)
	}

	return &models.EventDetail{
		Event:        event,
		Participants: participants,
		Pledges:      pledges,
	}, nil
}

// ListEvents returns all events
func (s *eventService) ListEvents(ctx context.Context) ([]*models.Event, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	evs, err := uow.EventRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	return evs, nil
}

// FinalizeEvent closes an event to further changes; creator only
func (s *eventService) FinalizeEvent(ctx context.Context, eventID, userID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	event, err := uow.EventRepository().GetByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return fmt.Errorf("event %w", ErrNotFound)
	}
	if event.CreatedBy != userID {
		return fmt.Errorf("only the event creator can finalize it")
	}
	if event.IsFinalized() {
		return fmt.Errorf("event is already finalized")
	}

	if err := uow.EventRepository().UpdateStatus(ctx, eventID, models.EventStatusFinalized); err != nil {
		return fmt.Errorf("failed to finalize event: %w", err)
	}

	uow.EventBus().Publish(events.EventFinalizedEvent{
		EventID:     eventID,
		FinalizedBy: userID,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
