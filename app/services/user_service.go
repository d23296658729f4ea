package services

import (
	"context"
	"errors"
	"fmt"

	"blogdesk/app/forms"
	"blogdesk/app/models"
	"blogdesk/app/repositories"
)

// UserService handles registration and the user directory
type UserService struct {
	store repositories.Store
}

// NewUserService creates a new UserService
func NewUserService(store repositories.Store) *UserService {
	return &UserService{store: store}
}

// Register validates the form and stores a new user with a hashed password.
// Validation failures come back as *forms.Error; a taken username or email
// as ErrAccountExists.
func (s *UserService) Register(ctx context.Context, form *forms.RegistrationForm) (*models.User, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	user := form.NewUser()
	// hash outside the transaction; bcrypt is slow on purpose
	if err := user.SetPassword(form.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	err := s.store.Update(ctx, func(tx repositories.Tx) error {
		_, err := tx.Users().FindByUsernameOrEmail(ctx, user.Username, user.Email)
		if err == nil {
			return ErrAccountExists
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return err
		}
		return tx.Users().Create(ctx, user)
	})
	if errors.Is(err, repositories.ErrConflict) {
		return nil, ErrAccountExists
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// List returns every user ordered by id
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := s.store.View(ctx, func(tx repositories.Tx) error {
		var err error
		users, err = tx.Users().List(ctx)
		return err
	})
	return users, err
}

// Get retrieves a user by ID
func (s *UserService) Get(ctx context.Context, id int) (*models.User, error) {
	var user *models.User
	err := s.store.View(ctx, func(tx repositories.Tx) error {
		var err error
		user, err = tx.Users().GetByID(ctx, id)
		return err
	})
	return user, err
}

// Delete removes a user, returning repositories.ErrNotFound when absent
func (s *UserService) Delete(ctx context.Context, id int) error {
	return s.store.Update(ctx, func(tx repositories.Tx) error {
		if _, err := tx.Users().GetByID(ctx, id); err != nil {
			return err
		}
		return tx.Users().Delete(ctx, id)
	})
}
