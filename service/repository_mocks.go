package service

import (
	"context"

	"divvy/events"
	"divvy/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockEventRepository is a mock implementation of EventRepository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, event *models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockEventRepository) GetAll(ctx context.Context) ([]*models.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Event), args.Error(1)
}

func (m *MockEventRepository) UpdateStatus(ctx context.Context, id int64, status models.EventStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockParticipantRepository is a mock implementation of ParticipantRepository
type MockParticipantRepository struct {
	mock.Mock
}

func (m *MockParticipantRepository) Create(ctx context.Context, participant *models.Participant) error {
	args := m.Called(ctx, participant)
	return args.Error(0)
}

func (m *MockParticipantRepository) GetByEvent(ctx context.Context, eventID int64) ([]*models.Participant, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Participant), args.Error(1)
}

func (m *MockParticipantRepository) GetByEventAndUser(ctx context.Context, eventID, userID int64) (*models.Participant, error) {
	args := m.Called(ctx, eventID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Participant), args.Error(1)
}

func (m *MockParticipantRepository) GetByID(ctx context.Context, id int64) (*models.Participant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Participant), args.Error(1)
}

// MockPledgeRepository is a mock implementation of PledgeRepository
type MockPledgeRepository struct {
	mock.Mock
}

func (m *MockPledgeRepository) Create(ctx context.Context, pledge *models.Pledge) error {
	args := m.Called(ctx, pledge)
	return args.Error(0)
}

func (m *MockPledgeRepository) GetByID(ctx context.Context, id int64) (*models.Pledge, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Pledge), args.Error(1)
}

func (m *MockPledgeRepository) GetByEvent(ctx context.Context, eventID int64) ([]*models.Pledge, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Pledge), args.Error(1)
}

func (m *MockPledgeRepository) GetActiveByEvent(ctx context.Context, eventID int64) ([]*models.Pledge, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Pledge), args.Error(1)
}

func (m *MockPledgeRepository) SetActive(ctx context.Context, id int64, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

// MockInviteRepository is a mock implementation of InviteRepository
type MockInviteRepository struct {
	mock.Mock
}

func (m *MockInviteRepository) Create(ctx context.Context, invite *models.Invite) error {
	args := m.Called(ctx, invite)
	return args.Error(0)
}

func (m *MockInviteRepository) GetByToken(ctx context.Context, eventID int64, token string) (*models.Invite, error) {
	args := m.Called(ctx, eventID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invite), args.Error(1)
}

func (m *MockInviteRepository) MarkAccepted(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// capturingPublisher records published events so tests can assert on them
// without setting expectations for every publish.
type capturingPublisher struct {
	published []events.Event
}

func (p *capturingPublisher) Publish(event events.Event) {
	p.published = append(p.published, event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock

	userRepo        UserRepository
	eventRepo       EventRepository
	participantRepo ParticipantRepository
	pledgeRepo      PledgeRepository
	inviteRepo      InviteRepository
	publisher       *capturingPublisher
}

// SetRepositories wires the repositories this unit of work hands out.
// Pass nil for repositories the test does not touch.
func (m *MockUnitOfWork) SetRepositories(user UserRepository, event EventRepository, participant ParticipantRepository, pledge PledgeRepository, invite InviteRepository) {
	m.userRepo = user
	m.eventRepo = event
	m.participantRepo = participant
	m.pledgeRepo = pledge
	m.inviteRepo = invite
	m.publisher = &capturingPublisher{}
}

// PublishedEvents returns the events published through this unit of work
func (m *MockUnitOfWork) PublishedEvents() []events.Event {
	if m.publisher == nil {
		return nil
	}
	return m.publisher.published
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserRepository() UserRepository {
	return m.userRepo
}

func (m *MockUnitOfWork) EventRepository() EventRepository {
	return m.eventRepo
}

func (m *MockUnitOfWork) ParticipantRepository() ParticipantRepository {
	return m.participantRepo
}

func (m *MockUnitOfWork) PledgeRepository() PledgeRepository {
	return m.pledgeRepo
}

func (m *MockUnitOfWork) InviteRepository() InviteRepository {
	return m.inviteRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	if m.publisher == nil {
		m.publisher = &capturingPublisher{}
	}
	return m.publisher
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
