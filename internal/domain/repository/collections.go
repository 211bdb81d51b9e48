package repository

import (
	"context"

	"github.com/ugogo-app/ugogo-api/internal/domain/entity"
)

// UserCollection persists the whole users collection as one keyed blob.
// Every mutation is load-entire-collection, modify, save-entire-collection;
// concurrent writers on the same key are last-writer-wins.
type UserCollection interface {
	Load(ctx context.Context) ([]entity.User, error)
	Save(ctx context.Context, users []entity.User) error
	// Seed writes the fixture records once; it is a no-op when the
	// collection already exists. Returns true when it seeded.
	Seed(ctx context.Context, users []entity.User) (bool, error)
}

// EventCollection persists the whole events collection as one keyed blob.
type EventCollection interface {
	Load(ctx context.Context) ([]entity.Event, error)
	Save(ctx context.Context, events []entity.Event) error
	Seed(ctx context.Context, events []entity.Event) (bool, error)
}
