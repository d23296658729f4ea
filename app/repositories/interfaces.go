package repositories

import (
	"context"

	"blogdesk/app/models"
)

// Store hands out transaction-scoped repositories. Update commits when fn
// returns nil and rolls back on error or panic; View is read-only. Update may
// run fn again when its commit loses a race with another writer.
type Store interface {
	View(ctx context.Context, fn func(tx Tx) error) error
	Update(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}

// Tx exposes the repositories bound to one transaction.
type Tx interface {
	Users() UserRepository
	Posts() PostRepository
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	// FindByUsernameOrEmail returns the first user holding either value.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Delete(ctx context.Context, id int) error
}

// PostRepository defines the interface for post data access
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id int) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id int) error
	// Search matches term case-insensitively anywhere in the title and
	// orders results by title, then id.
	Search(ctx context.Context, term string) ([]*models.Post, error)
}
