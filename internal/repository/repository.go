package repository

import (
	"context"

	"github.com/Justin322322/Ecotracker/internal/domain"
)

// UserRepository persists users.
type UserRepository interface {
	// CreateUser inserts a user and fills the storage-assigned ID and
	// CreatedAt on success. A duplicate email yields ErrDuplicateEmail.
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}
