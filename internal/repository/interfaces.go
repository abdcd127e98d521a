package repository

import (
	"context"
	"errors"

	"github.com/vedran77/accounts/internal/domain"
)

// ErrDuplicateKey is returned by Create and Save when an email or username
// is already held by another record, deleted or not.
var ErrDuplicateKey = errors.New("duplicate key")

// UserRepository lookups return (nil, nil) when no record matches.
type UserRepository interface {
	// FindByLogin matches an active user by email, username or phone and
	// loads the password hash.
	FindByLogin(ctx context.Context, value string) (*domain.User, error)
	// FindByEmailOrUsername searches every record, including soft-deleted ones.
	FindByEmailOrUsername(ctx context.Context, email, userName string) (*domain.User, error)
	FindByID(ctx context.Context, id string, includeDeleted bool) (*domain.User, error)
	ListActive(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Save(ctx context.Context, user *domain.User) error
}
