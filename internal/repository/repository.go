package repository

import (
	"context"
	"errors"

	"blog_api/internal/model"
)

var (
	// ErrNotFound is returned by Update and Delete when no record matches the id
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateUsername is returned when the storage layer rejects a second user with the same username
	ErrDuplicateUsername = errors.New("username already exists")
)

// UserRepository defines operations for user data.
// Find methods return (nil, nil) when nothing matches, including malformed ids.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	List(ctx context.Context, page model.Page) ([]model.User, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
}

// BlogRepository defines operations for blog data
type BlogRepository interface {
	Create(ctx context.Context, blog *model.Blog) error
	FindByID(ctx context.Context, id string) (*model.Blog, error)
	List(ctx context.Context, page model.Page) ([]model.Blog, error)
	Count(ctx context.Context) (int64, error)
}
