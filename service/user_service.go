package service

import (
	"context"
	"fmt"
	"strings"

	"divvy/events"
	"divvy/models"
)

// userService implements the UserService interface
type userService struct {
	uowFactory UnitOfWorkFactory
}

// NewUserService creates a new user service
func NewUserService(uowFactory UnitOfWorkFactory) UserService {
	return &userService{uowFactory: uowFactory}
}

// GetOrCreateUser retrieves an existing user by email or creates a new one
func (s *userService) GetOrCreateUser(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email address")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	// Unique constraint on email prevents duplicates under concurrent creation
	user, err = uow.UserRepository().Create(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	uow.EventBus().Publish(events.UserCreatedEvent{
		UserID: user.ID,
		Email:  user.Email,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return user, nil
}
