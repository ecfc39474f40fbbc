// Package repository declares the storage interfaces the service layer
// depends on. Implementations live in the sqlite and postgres subpackages.
package repository

import (
	"context"

	"github.com/sakif/travel-tracker/internal/model"
)

type UserRepository interface {
	// List returns every user ordered by id.
	List(ctx context.Context) ([]model.User, error)
	// Create inserts the user and sets user.ID to the generated id.
	Create(ctx context.Context, user *model.User) error
}

type CountryRepository interface {
	// FindExact matches name case-insensitively against the full country name.
	FindExact(ctx context.Context, name string) (*model.Country, error)
	// FindContaining returns the first country whose name contains name,
	// case-insensitively. Shorter names win, then lower codes.
	FindContaining(ctx context.Context, name string) (*model.Country, error)
}

// Both Find methods return apperror.ErrNotFound when nothing matches.

type VisitRepository interface {
	ListCodes(ctx context.Context, userID int64) ([]string, error)
	Exists(ctx context.Context, userID int64, code string) (bool, error)
	Add(ctx context.Context, userID int64, code string) error
}

// Store is everything the tracker needs from a backend, plus lifecycle.
type Store interface {
	UserRepository
	CountryRepository
	VisitRepository
	Ping(ctx context.Context) error
	Close() error
}
