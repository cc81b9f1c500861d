package cmd

import (
	"context"
	"fmt"
	"time"

	"divvy/api"
	"divvy/config"
	"divvy/database"
	"divvy/events"
	"divvy/repository"
	"divvy/service"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting divvy...")

	cfg := config.Get()

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	eventBus := events.NewBus()
	subscribeLogging(eventBus)

	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	userService := service.NewUserService(uowFactory)
	eventService := service.NewEventService(uowFactory, cfg)
	inviteService := service.NewInviteService(uowFactory, cfg)
	pledgeService := service.NewPledgeService(uowFactory)
	allocationService := service.NewAllocationService(uowFactory)

	server := api.New(cfg, userService, eventService, inviteService, pledgeService, allocationService)

	log.WithField("environment", cfg.Environment).Info("Service is running")
	err = server.Start(ctx)

	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Info("Shutdown completed")
	}

	return err
}

// subscribeLogging attaches audit log handlers for domain events
func subscribeLogging(bus *events.Bus) {
	bus.Subscribe(events.EventTypeUserCreated, func(ctx context.Context, e events.Event) {
		created := e.(events.UserCreatedEvent)
		log.WithFields(log.Fields{
			"userID": created.UserID,
			"email":  created.Email,
		}).Info("User created")
	})

	bus.Subscribe(events.EventTypeParticipantJoined, func(ctx context.Context, e events.Event) {
		joined := e.(events.ParticipantJoinedEvent)
		log.WithFields(log.Fields{
			"eventID":       joined.EventID,
			"participantID": joined.ParticipantID,
			"displayName":   joined.DisplayName,
		}).Info("Participant joined event")
	})

	bus.Subscribe(events.EventTypePledgeChanged, func(ctx context.Context, e events.Event) {
		changed := e.(events.PledgeChangedEvent)
		log.WithFields(log.Fields{
			"eventID":  changed.EventID,
			"pledgeID": changed.PledgeID,
			"kind":     changed.Kind,
			"active":   changed.Active,
		}).Info("Pledge changed")
	})

	bus.Subscribe(events.EventTypeEventFinalized, func(ctx context.Context, e events.Event) {
		finalized := e.(events.EventFinalizedEvent)
		log.WithFields(log.Fields{
			"eventID":     finalized.EventID,
			"finalizedBy": finalized.FinalizedBy,
		}).Info("Event finalized")
	})
}
