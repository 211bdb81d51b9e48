package collections

import (
	"context"

	"github.com/ugogo-app/ugogo-api/internal/domain/entity"
	"github.com/ugogo-app/ugogo-api/internal/domain/repository"
	"github.com/ugogo-app/ugogo-api/internal/infrastructure/blobstore"
)

type EventCollection struct {
	store blobstore.Store
}

func NewEventCollection(store blobstore.Store) *EventCollection {
	return &EventCollection{store: store}
}

func (c *EventCollection) Load(ctx context.Context) ([]entity.Event, error) {
	return load[entity.Event](ctx, c.store, EventsKey)
}

func (c *EventCollection) Save(ctx context.Context, events []entity.Event) error {
	return save(ctx, c.store, EventsKey, events)
}

func (c *EventCollection) Seed(ctx context.Context, events []entity.Event) (bool, error) {
	return seed(ctx, c.store, EventsKey, events)
}

var _ repository.EventCollection = (*EventCollection)(nil)
