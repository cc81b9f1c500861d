package service

import (
	"context"
	"fmt"

	"divvy/allocation"
	"divvy/events"
	"divvy/models"
)

// pledgeService implements the PledgeService interface
type pledgeService struct {
	uowFactory UnitOfWorkFactory
}

// NewPledgeService creates a new pledge service
func NewPledgeService(uowFactory UnitOfWorkFactory) PledgeService {
	return &pledgeService{uowFactory: uowFactory}
}

// CreatePledge validates and records a pledge for a participant.
// Underpay bids are created inactive; a production flow would gate their
// activation on member agreement, here the event creator flips the flag.
func (s *pledgeService) CreatePledge(ctx context.Context, eventID, participantID int64, kind models.PledgeKind, valueType models.PledgeValueType, value int64) (*models.Pledge, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown pledge kind %q", kind)
	}
	if !valueType.Valid() {
		return nil, fmt.Errorf("unknown value type %q", valueType)
	}
	if kind == models.PledgeKindEqual {
		if valueType != models.PledgeValueNone || value != 0 {
			return nil, fmt.Errorf("equal pledges carry no value")
		}
	} else {
		if valueType == models.PledgeValueNone {
			return nil, fmt.Errorf("%s pledges require a percent or fixed value", kind)
		}
		if valueType == models.PledgeValuePercent && value < 0 {
			return nil, fmt.Errorf("%w: %d", allocation.ErrInvalidPercentage, value)
		}
		if valueType == models.PledgeValueFixed && value < 0 {
			return nil, fmt.Errorf("fixed value cannot be negative")
		}
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
		return nil, fmt.Errorf("event is finalized and no longer accepts pledges")
	}

	participant, err := uow.ParticipantRepository().GetByID(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	if participant == nil || participant.EventID != eventID {
		return nil, fmt.Errorf("%w: participant %d not in event %d", allocation.ErrInvalidReference, participantID, eventID)
	}

	pledge := &models.Pledge{
		EventID:       eventID,
		ParticipantID: participantID,
		Kind:          kind,
		ValueType:     valueType,
		Value:         value,
		// Underpay bids shift cost onto everyone else, so they start
		// inactive until the event creator activates them.
		Active: kind != models.PledgeKindUnderpayBid,
	}
	if err := uow.PledgeRepository().Create(ctx, pledge); err != nil {
		return nil, fmt.Errorf("failed to create pledge: %w", err)
	}

	uow.EventBus().Publish(events.PledgeChangedEvent{
		EventID:       eventID,
		PledgeID:      pledge.ID,
		ParticipantID: participantID,
		Kind:          kind,
		Active:        pledge.Active,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return pledge, nil
}

// SetPledgeActive activates or deactivates a pledge; event creator only
func (s *pledgeService) SetPledgeActive(ctx context.Context, eventID, pledgeID, userID int64, active bool) error {
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
	if !event.CanAcceptChanges() {
		return fmt.Errorf("event is finalized and no longer accepts pledge changes")
	}
	if event.CreatedBy != userID {
		return fmt.Errorf("only the event creator can change pledge state")
	}

	pledge, err := uow.PledgeRepository().GetByID(ctx, pledgeID)
	if err != nil {
		return fmt.Errorf("failed to get pledge: %w", err)
	}
	if pledge == nil || pledge.EventID != eventID {
		return fmt.Errorf("pledge %w", ErrNotFound)
	}
	if pledge.Active == active {
		return nil // already in the requested state
	}

	if err := uow.PledgeRepository().SetActive(ctx, pledgeID, active); err != nil {
		return fmt.Errorf("failed to update pledge: %w", err)
	}

	uow.EventBus().Publish(events.PledgeChangedEvent{
		EventID:       eventID,
		PledgeID:      pledgeID,
		ParticipantID: pledge.ParticipantID,
		Kind:          pledge.Kind,
		Active:        active,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
