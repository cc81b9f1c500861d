package service

import (
	"context"
	"fmt"

	"divvy/allocation"
	"divvy/models"
)

// allocationService implements the AllocationService interface
type allocationService struct {
	uowFactory UnitOfWorkFactory
}

// NewAllocationService creates a new allocation service
func NewAllocationService(uowFactory UnitOfWorkFactory) AllocationService {
	return &allocationService{uowFactory: uowFactory}
}

// ComputeForEvent returns per-participant cents for an event's current state
func (s *allocationService) ComputeForEvent(ctx context.Context, eventID int64) (map[int64]int64, error) {
	_, _, result, err := s.compute(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ChartData returns display labels and amounts in participant order
func (s *allocationService) ChartData(ctx context.Context, eventID int64) (*models.ChartData, error) {
	_, participants, result, err := s.compute(ctx, eventID)
	if err != nil {
		return nil, err
	}

	chart := &models.ChartData{
		Labels: make([]string, 0, len(participants)),
		Values: make([]float64, 0, len(participants)),
	}
	for _, p := range participants {
		label := p.DisplayName
		if label == "" {
			label = fmt.Sprintf("User %d", p.UserID)
		}
		chart.Labels = append(chart.Labels, label)
		chart.Values = append(chart.Values, allocation.CentsToAmount(result[p.ID]))
	}
	return chart, nil
}

// compute loads the event state inside a single transaction and runs the
// allocation over it, so the participants and pledges it sees are a
// consistent snapshot.
func (s *allocationService) compute(ctx context.Context, eventID int64) (*models.Event, []*models.Participant, map[int64]int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	event, err := uow.EventRepository().GetByID(ctx, eventID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, nil, nil, fmt.Errorf("event %w", ErrNotFound)
	}

	participants, err := uow.ParticipantRepository().GetByEvent(ctx, eventID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get participants: %w", err)
	}

	pledges, err := uow.PledgeRepository().GetActiveByEvent(ctx, eventID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get pledges: %w", err)
	}

	result, err := allocation.Compute(event.TotalAmount, participants, pledges)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("allocation failed: %w", err)
	}

	return event, participants, result, nil
}
