package service

import (
	"context"

	"divvy/events"
	"divvy/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// GetByEmail retrieves a user by email address
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// Create creates a new user
	Create(ctx context.Context, email string) (*models.User, error)
}

// EventRepository defines the interface for expense event data access
type EventRepository interface {
	// Create creates a new event
	Create(ctx context.Context, event *models.Event) error

	// GetByID retrieves an event by its ID
	GetByID(ctx context.Context, id int64) (*models.Event, error)

	// GetAll returns all events, newest first
	GetAll(ctx context.Context) ([]*models.Event, error)

	// UpdateStatus updates an event's lifecycle status
	UpdateStatus(ctx context.Context, id int64, status models.EventStatus) error
}

// ParticipantRepository defines the interface for participant data access
type ParticipantRepository interface {
	// Create creates a new participant
	Create(ctx context.Context, participant *models.Participant) error

	// GetByEvent returns an event's participants in canonical (insertion) order
	GetByEvent(ctx context.Context, eventID int64) ([]*models.Participant, error)

	// GetByEventAndUser retrieves a participant by event and user
	GetByEventAndUser(ctx context.Context, eventID, userID int64) (*models.Participant, error)

	// GetByID retrieves a participant by ID
	GetByID(ctx context.Context, id int64) (*models.Participant, error)
}

// PledgeRepository defines the interface for pledge data access
type PledgeRepository interface {
	// Create creates a new pledge
	Create(ctx context.Context, pledge *models.Pledge) error

	// GetByID retrieves a pledge by ID
	GetByID(ctx context.Context, id int64) (*models.Pledge, error)

	// GetByEvent returns all pledges for an event in creation order
	GetByEvent(ctx context.Context, eventID int64) ([]*models.Pledge, error)

	// GetActiveByEvent returns an event's active pledges in creation order
	GetActiveByEvent(ctx context.Context, eventID int64) ([]*models.Pledge, error)

	// SetActive flips a pledge's active flag
	SetActive(ctx context.Context, id int64, active bool) error
}

// InviteRepository defines the interface for invite data access
type InviteRepository interface {
	// Create creates a new invite
	Create(ctx context.Context, invite *models.Invite) error

	// GetByToken retrieves an invite by event and token
	GetByToken(ctx context.Context, eventID int64, token string) (*models.Invite, error)

	// MarkAccepted stamps the invite's accepted_at
	MarkAccepted(ctx context.Context, id int64) error
}

// UserService defines the interface for user operations
type UserService interface {
	// GetOrCreateUser retrieves an existing user by email or creates a new one
	GetOrCreateUser(ctx context.Context, email string) (*models.User, error)
}

// EventService defines the interface for expense event operations
type EventService interface {
	// CreateEvent creates an active event and joins the creator as its first participant
	CreateEvent(ctx context.Context, creatorUserID int64, title, description, currency string, totalAmountCents int64) (*models.Event, error)

	// GetEventDetail retrieves an event with its participants and pledges
	GetEventDetail(ctx context.Context, eventID int64) (*models.EventDetail, error)

	// ListEvents returns all events
	ListEvents(ctx context.Context) ([]*models.Event, error)

	// FinalizeEvent closes an event to further changes; creator only
	FinalizeEvent(ctx context.Context, eventID, userID int64) error
}

// InviteService defines the interface for invite operations
type InviteService interface {
	// CreateInvite issues a token-based invite to an email address
	CreateInvite(ctx context.Context, eventID, inviterUserID int64, email string) (*models.Invite, error)

	// AcceptInvite validates a token and joins the invited user to the event
	AcceptInvite(ctx context.Context, eventID int64, token string) (*models.Participant, error)
}

// PledgeService defines the interface for pledge operations
type PledgeService interface {
	// CreatePledge validates and records a pledge for a participant.
	// Underpay bids are created inactive; other kinds are active immediately.
	CreatePledge(ctx context.Context, eventID, participantID int64, kind models.PledgeKind, valueType models.PledgeValueType, value int64) (*models.Pledge, error)

	// SetPledgeActive activates or deactivates a pledge; event creator only
	SetPledgeActive(ctx context.Context, eventID, pledgeID, userID int64, active bool) error
}

// AllocationService defines the interface for allocation computation
type AllocationService interface {
	// ComputeForEvent returns per-participant cents for an event's current state
	ComputeForEvent(ctx context.Context, eventID int64) (map[int64]int64, error)

	// ChartData returns display labels and amounts in participant order
	ChartData(ctx context.Context, eventID int64) (*models.ChartData, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	UserRepository() UserRepository
	EventRepository() EventRepository
	ParticipantRepository() ParticipantRepository
	PledgeRepository() PledgeRepository
	InviteRepository() InviteRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
