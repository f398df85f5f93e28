package expert

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("expert not found")

// Repository is the Experts collection of the record store.
type Repository interface {
	List(ctx context.Context) ([]Expert, error)
	FindByID(ctx context.Context, id string) (Expert, error)
	FindByEmail(ctx context.Context, email string) (Expert, error)
	Search(ctx context.Context, query string) ([]Expert, error)
	Insert(ctx context.Context, e Expert) error
	Upsert(ctx context.Context, e Expert) error
}

// NominationRepository is the Nominations collection of the record store.
type NominationRepository interface {
	EnsureCollection(ctx context.Context) error
	Insert(ctx context.Context, n Nomination) error
}
