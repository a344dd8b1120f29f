// Package repository defines the persistence interfaces the service layer
// programs against. The sqlite subpackage is the concrete implementation;
// tests substitute in-memory fakes.
package repository

import (
	"context"

	"github.com/nafis/movielog/internal/model"
)

type ListOptions struct {
	Limit  int
	Offset int
}

// UserRepository is the credential store.
//
// Create must surface username/email uniqueness violations as
// apperror.ErrConflict — the storage engine's UNIQUE constraints are the
// guarantee that two concurrent registrations cannot both succeed.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

// MovieRepository stores the movie entries. Lookup misses are
// apperror.ErrNotFound; ownership checks happen above this layer.
type MovieRepository interface {
	Create(ctx context.Context, movie *model.Movie) error
	GetByID(ctx context.Context, id string) (*model.Movie, error)
	List(ctx context.Context, opts ListOptions) ([]model.Movie, error)
	Update(ctx context.Context, movie *model.Movie) error
	Delete(ctx context.Context, id string) error
}
