package repository

import (
	"context"
	"fmt"

	"divvy/database"
	"divvy/events"
	"divvy/service"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the service.UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	userRepo         service.UserRepository
	eventRepo        service.EventRepository
	participantRepo  service.ParticipantRepository
	pledgeRepo       service.PledgeRepository
	inviteRepo       service.InviteRepository
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories bound to the transaction
	u.userRepo = newUserRepositoryWithTx(tx)
	u.eventRepo = newEventRepositoryWithTx(tx)
	u.participantRepo = newParticipantRepositoryWithTx(tx)
	u.pledgeRepo = newPledgeRepositoryWithTx(tx)
	u.inviteRepo = newInviteRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events after successful commit
	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	// Discard pending events on rollback
	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

// UserRepository returns the user repository for this unit of work
func (u *unitOfWork) UserRepository() service.UserRepository {
	if u.userRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.userRepo
}

// EventRepository returns the event repository for this unit of work
func (u *unitOfWork) EventRepository() service.EventRepository {
	if u.eventRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.eventRepo
}

// ParticipantRepository returns the participant repository for this unit of work
func (u *unitOfWork) ParticipantRepository() service.ParticipantRepository {
	if u.participantRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.participantRepo
}

// PledgeRepository returns the pledge repository for this unit of work
func (u *unitOfWork) PledgeRepository() service.PledgeRepository {
	if u.pledgeRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.pledgeRepo
}

// InviteRepository returns the invite repository for this unit of work
func (u *unitOfWork) InviteRepository() service.InviteRepository {
	if u.inviteRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.inviteRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}
