package service

import (
	"context"
	"testing"

	"divvy/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func createTestAllocationService() (AllocationService, *MockUnitOfWorkFactory, *MockUnitOfWork, *MockEventRepository, *MockParticipantRepository, *MockPledgeRepository) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockEventRepo := new(MockEventRepository)
	mockParticipantRepo := new(MockParticipantRepository)
	mockPledgeRepo := new(MockPledgeRepository)

	mockUoW.SetRepositories(nil, mockEventRepo, mockParticipantRepo, mockPledgeRepo, nil)
	mockFactory.On("Create").Return(mockUoW)

	service := NewAllocationService(mockFactory)
	return service, mockFactory, mockUoW, mockEventRepo, mockParticipantRepo, mockPledgeRepo
}

func TestAllocationService_ComputeForEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("splits over current participants and active pledges", func(t *testing.T) {
		service, mockFactory, mockUoW, mockEventRepo, mockParticipantRepo, mockPledgeRepo := createTestAllocationService()

		mockUoW.On("Begin", mock.Anything).Return(nil)
		mockUoW.On("Rollback").Return(nil)

		event := &models.Event{ID: 1, TotalAmount: 30000, Status: models.EventStatusActive}
		participants := []*models.Participant{
			{ID: 1, EventID: 1, UserID: 5, DisplayName: "alice"},
			{ID: 2, EventID: 1, UserID: 6, DisplayName: "bob"},
			{ID: 3, EventID: 1, UserID: 7, DisplayName: "carol"},
		}
		pledges := []*models.Pledge{
			{ID: 9, EventID: 1, ParticipantID: 1, Kind: models.PledgeKindVolunteerOverpay, ValueType: models.PledgeValueFixed, Value: 5000, Active: true},
		}

		mockEventRepo.On("GetByID", ctx, int64(1)).Return(event, nil)
		mockParticipantRepo.On("GetByEvent", ctx, int64(1)).Return(participants, nil)
		mockPledgeRepo.On("GetActiveByEvent", ctx, int64(1)).Return(pledges, nil)

		result, err := service.ComputeForEvent(ctx, 1)

		assert.NoError(t, err)
		assert.Equal(t, map[int64]int64{1: 15000, 2: 10000, 3: 10000}, result)

		assertAllMockExpectations(t, mockFactory, mockUoW, mockEventRepo, mockParticipantRepo, mockPledgeRepo)
	})

	t.Run("event not found", func(t *testing.T) {
		service, mockFactory, mockUoW, mockEventRepo, _, _ := createTestAllocationService()

		mockUoW.On("Begin", mock.Anything).Return(nil)
		mockUoW.On("Rollback").Return(nil)

		mockEventRepo.On("GetByID", ctx, int64(404)).Return(nil, nil)

		result, err := service.ComputeForEvent(ctx, 404)

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, result)

		assertAllMockExpectations(t, mockFactory, mockUoW, mockEventRepo)
	})
}

func TestAllocationService_ChartData(t *testing.T) {
	ctx := context.Background()

	t.Run("labels and values follow participant order", func(t *testing.T) {
		service, mockFactory, mockUoW, mockEventRepo, mockParticipantRepo, mockPledgeRepo := createTestAllocationService()

		mockUoW.On("Begin", mock.Anything).Return(nil)
		mockUoW.On("Rollback").Return(nil)

		event := &models.Event{ID: 1, TotalAmount: 10000, Status: models.EventStatusActive}
		participants := []*models.Participant{
			{ID: 1, EventID: 1, UserID: 5, DisplayName: "alice"},
			{ID: 2, EventID: 1, UserID: 6, DisplayName: ""},
		}

		mockEventRepo.On("GetByID", ctx, int64(1)).Return(event, nil)
		mockParticipantRepo.On("GetByEvent", ctx, int64(1)).Return(participants, nil)
		mockPledgeRepo.On("GetActiveByEvent", ctx, int64(1)).Return([]*models.Pledge{}, nil)

		chart, err := service.ChartData(ctx, 1)

		assert.NoError(t, err)
		assert.Equal(t, []string{"alice", "User 6"}, chart.Labels)
		assert.Equal(t, []float64{50.0, 50.0}, chart.Values)

		assertAllMockExpectations(t, mockFactory, mockUoW, mockEventRepo, mockParticipantRepo, mockPledgeRepo)
	})
}
