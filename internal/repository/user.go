package repository

import (
	"context"

	"github.com/ErlanBelekov/guide-api/internal/domain"
)

type ListUsersInput struct {
	AfterID int64 // 0 = first page
	Limit   int
}

// UserRepository is the persisted User store. Each call is its own
// transaction; callers never hold one open across calls.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// FindByEmail matches case-insensitively.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create returns domain.ErrEmailTaken on a unique violation.
	Create(ctx context.Context, in domain.UserCreate) (*domain.User, error)
	// Update applies the non-nil fields and returns the updated row.
	// Returns domain.ErrUserNotFound or domain.ErrEmailTaken.
	Update(ctx context.Context, id int64, upd domain.UserUpdate) (*domain.User, error)
	List(ctx context.Context, input ListUsersInput) ([]*domain.User, error)
}
