package service

import (
	"context"
	"testing"

	"divvy/config"
	"divvy/events"
	"divvy/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Test utilities

func createTestEventService() (EventService, *MockUnitOfWorkFactory, *MockUnitOfWork, *MockUserRepository, *MockEventRepository, *MockParticipantRepository) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockEventRepo := new(MockEventRepository)
	mockParticipantRepo := new(MockParticipantRepository)

	mockUoW.SetRepositories(mockUserRepo, mockEventRepo, mockParticipantRepo, new(MockPledgeRepository), nil)
	mockFactory.On("Create").Return(mockUoW)

	cfg := &config.Config{DefaultCurrency: "AUD"}
	service := NewEventService(mockFactory, cfg)
	return service, mockFactory, mockUoW, mockUserRepo, mockEventRepo, mockParticipantRepo
}

func setupBasicTransactionMocks(mockUoW *MockUnitOfWork) {
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
}

func assertAllMockExpectations(t *testing.T, mocks ...interface{}) {
	for _, m := range mocks {
		if mockObj, ok := m.(interface{ AssertExpectations(mock.TestingT) bool }); ok {
			mockObj.AssertExpectations(t)
		}
	}
}

// Tests

func TestEventService_CreateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("successful creation joins the creator", func(t *testing.T) {
		service, mockFactory, mockUoW, mockUserRepo, mockEventRepo, mockParticipantRepo := createTestEventService()
		setupBasicTransactionMocks(mockUoW)

		creator := &models.User{ID: 5, Email: "host@example.com"}
		mockUserRepo.On("GetByID", ctx, int64(5)).Return(creator, nil)

		mockEventRepo.On("Create", ctx, mock.AnythingOfType("*models.Event")).Run(func(args mock.Arguments) {
			args.Get(1).(*models.Event).ID = 42
		}).Return(nil)

		mockParticipantRepo.On("Create", ctx, mock.MatchedBy(func(p *models.Participant) bool {
			return p.EventID == 42 && p.UserID == 5 && p.DisplayName == "host"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*models.Participant).ID = 100
		}).Return(nil)

		event, err := service.CreateEvent(ctx, 5, "Ski trip", "Chalet weekend", "", 45000)

		assert.NoError(t, err)
		assert.Equal(t, int64(42), event.ID)
		assert.Equal(t, models.EventStatusActive, event.Status)
		assert.Equal(t, "AUD", event.Currency)
		assert.Equal(t, int64(45000), event.TotalAmount)

		published := mockUoW.PublishedEvents()
		if assert.Len(t, published, 1) {
			joined := published[0].(events.ParticipantJoinedEvent)
			assert.Equal(t, int64(42), joined.EventID)
			assert.Equal(t, int64(100), joined.ParticipantID)
		}

		assertAllMockExpectations(t, mockFactory, mockUoW, mockUserRepo, mockEventRepo, mockParticipantRepo)
	})

	t.Run("empty title rejected", func(t *testing.T) {
		service, _, _, _, _, _ := createTestEventService()

		event, err := service.CreateEvent(ctx, 5, "", "", "AUD", 45000)

		assert.Error(t, err)
		assert.Nil(t, event)
	})

	t.Run("negative total rejected", func(t *testing.T) {
		service, _, _, _, _, _ := createTestEventService()

		event, err := service.CreateEvent(ctx, 5, "Ski trip", "", "AUD", -1)

		assert.Error(t, err)
		assert.Nil(t, event)
	})

	t.Run("creator not found", func(t *testing.T) {
		service, mockFactory, mockUoW, mockUserRepo, mockEventRepo, _ := createTestEventService()

		mockUoW.On("Begin", mock.Anything).Return(nil)
		mockUoW.On("Rollback").Return(nil)

		mockUserRepo.On("GetByID", ctx, int64(99)).Return(nil, nil)

		event, err := service.CreateEvent(ctx, 99, "Ski trip", "", "AUD", 45000)

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, event)
		mockEventRepo.AssertNotCalled(t, "Create")

		assertAllMockExpectations(t, mockFactory, mockUoW, mockUserRepo)
	})
}

func TestEventService_GetEventDetail(t *testing.T) {
	ctx := context.Background()

	t.Run("returns event with participants and pledges", func(t *testing.T) {
		mockUoW := new(MockUnitOfWork)
		mockFactory := new(MockUnitOfWorkFactory)
		mockEventRepo := new(MockEventRepository)
		mockParticipantRepo := new(MockParticipantRepository)
		mockPledgeRepo := new(MockPledgeRepository)

		mockUoW.SetRepositories(nil, mockEventRepo, mockParticipantRepo, mockPledgeRepo, nil)
		mockFactory.On("Create").Return(mockUoW)
		mockUoW.On("Begin", mock.Anything).Return(nil)
		mockUoW.On("Rollback").Return(nil)

		service := NewEventService(mockFactory, &config.Config{DefaultCurrency: "AUD"})

		event := &models.Event{ID: 42, Title: "Ski trip", TotalAmount: 45000}
		participants := []*models.Participant{{ID: 1, EventID: 42, UserID: 5}}
		pledges := []*models.Pledge{{ID: 9, EventID: 42, ParticipantID: 1, Kind: models.PledgeKindEqual, Active: true}}

		mockEventRepo.On("GetByID", ctx, int64(42)).Return(event, nil)
		mockParticipantRepo.On("GetByEvent", ctx, int64(42)).Return(participants, nil)
		mockPledgeRepo.On("GetByEvent", ctx, int64(42)).Return(pledges, nil)

		detail, err := service.GetEventDetail(ctx, 42)

		assert.NoError(t, err)
		assert.Equal(t, event, detail.Event)
		assert.Equal(t, participants, detail.Participants)
		assert.Equal(t, pledges, detail.Pledges)

		assertAllMockExpectations(t, mockFactory, mockUoW, mockEventRepo, mockParticipantRepo, mockPledgeRepo)
	})

	t.Run("event not found", func(t *testing.T) {
		service, mockFactory, mockUoW, _, mockEventRepo, _ := createTestEventService()

		mockUoW.On("Begin", mock.Anything).Return(nil)
		mockUoW.On("Rollback").Return(nil)
		mockEventRepo.On("GetByID", ctx, int64(404)).Return(nil, nil)

		detail, err := service.GetEventDetail(ctx, 404)

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, detail)

		assertAllMockExpectations(t, mockFactory, mockUoW, mockEventRepo)
	})
}

func TestEventService_FinalizeEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("creator finalizes", func(t *testing.T) {
		service, mockFactory, mockUoW, _, mockEventRepo, _ := createTestEventService()
		setupBasicTransactionMocks(mockUoW)

		event := &models.Event{ID: 42, Status: models.EventStatusActive, CreatedBy: 5}
		mockEventRepo.On("GetByID", ctx, int64(42)).Return(event, nil)
		mockEventRepo.On("UpdateStatus", ctx, int64(42), models.EventStatusFinalized).Return(nil)

		err := service.FinalizeEvent(ctx, 42, 5)

		assert.NoError(t, err)
		published := mockUoW.PublishedEvents()
		if assert.Len(t, published, 1) {
			finalized := published[0].(events.EventFinalizedEvent)
			assert.Equal(t, int64(42), finalized.EventID)
			assert.Equal(t, int64(5), finalized.FinalizedBy)
		}

		assertAllMockExpectations(t, mockFactory, mockUoW, mockEventRepo)
	})

	t.Run("non-creator rejected", func(t *testing.T) {
		service, mockFactory, mockUoW, _, mockEventRepo, _ := createTestEventService()

		mockUoW.On("Begin", mock.Anything).Return(nil)
		mockUoW.On("Rollback").Return(nil)

		event := &models.Event{ID: 42, Status: models.EventStatusActive, CreatedBy: 5}
		mockEventRepo.On("GetByID", ctx, int64(42)).Return(event, nil)

		err := service.FinalizeEvent(ctx, 42, 6)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "creator")
		mockEventRepo.AssertNotCalled(t, "UpdateStatus")

		assertAllMockExpectations(t, mockFactory, mockUoW, mockEventRepo)
	})

	t.Run("already finalized", func(t *testing.T) {
		service, mockFactory, mockUoW, _, mockEventRepo, _ := createTestEventService()

		mockUoW.On("Begin", mock.Anything).Return(nil)
		mockUoW.On("Rollback").Return(nil)

		event := &models.Event{ID: 42, Status: models.EventStatusFinalized, CreatedBy: 5}
		mockEventRepo.On("GetByID", ctx, int64(42)).Return(event, nil)

		err := service.FinalizeEvent(ctx, 42, 5)

		assert.Error(t, err)
		mockEventRepo.AssertNotCalled(t, "UpdateStatus")

		assertAllMockExpectations(t, mockFactory, mockUoW, mockEventRepo)
	})
}
