package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-blog-api/internal/domain/entity"
)

// ErrNotFound is returned by repositories when the requested row does not exist
// or an update/delete affected no rows.
var ErrNotFound = errors.New("not found")

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// UpdateProfile updates name and email; a nil picture keeps the stored one.
	UpdateProfile(ctx context.Context, id, name, email string, picture *string) error
}
