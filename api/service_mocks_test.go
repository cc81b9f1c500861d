package api

import (
	"context"

	"divvy/models"

	"github.com/stretchr/testify/mock"
)

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) GetOrCreateUser(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type mockEventService struct {
	mock.Mock
}

func (m *mockEventService) CreateEvent(ctx context.Context, creatorUserID int64, title, description, currency string, totalAmountCents int64) (*models.Event, error) {
	args := m.Called(ctx, creatorUserID, title, description, currency, totalAmountCents)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *mockEventService) GetEventDetail(ctx context.Context, eventID int64) (*models.EventDetail, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EventDetail), args.Error(1)
}

func (m *mockEventService) ListEvents(ctx context.Context) ([]*models.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Event), args.Error(1)
}

func (m *mockEventService) FinalizeEvent(ctx context.Context, eventID, userID int64) error {
	args := m.Called(ctx, eventID, userID)
	return args.Error(0)
}

type mockInviteService struct {
	mock.Mock
}

func (m *mockInviteService) CreateInvite(ctx context.Context, eventID, inviterUserID int64, email string) (*models.Invite, error) {
	args := m.Called(ctx, eventID, inviterUserID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invite), args.Error(1)
}

func (m *mockInviteService) AcceptInvite(ctx context.Context, eventID int64, token string) (*models.Participant, error) {
	args := m.Called(ctx, eventID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Participant), args.Error(1)
}

type mockPledgeService struct {
	mock.Mock
}

func (m *mockPledgeService) CreatePledge(ctx context.Context, eventID, participantID int64, kind models.PledgeKind, valueType models.PledgeValueType, value int64) (*models.Pledge, error) {
	args := m.Called(ctx, eventID, participantID, kind, valueType, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Pledge), args.Error(1)
}

func (m *mockPledgeService) SetPledgeActive(ctx context.Context, eventID, pledgeID, userID int64, active bool) error {
	args := m.Called(ctx, eventID, pledgeID, userID, active)
	return args.Error(0)
}

type mockAllocationService struct {
	mock.Mock
}

func (m *mockAllocationService) ComputeForEvent(ctx context.Context, eventID int64) (map[int64]int64, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]int64), args.Error(1)
}

func (m *mockAllocationService) ChartData(ctx context.Context, eventID int64) (*models.ChartData, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChartData), args.Error(1)
}
