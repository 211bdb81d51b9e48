// Package collections maps the domain collection interfaces onto a blobstore
// Store, serializing each collection as one JSON array blob. The store keys
// mirror the original client database keys so existing data stays readable.
package collections

import (
	"context"
	"encoding/json"

	"github.com/ugogo-app/ugogo-api/internal/infrastructure/blobstore"
)

const (
	UsersKey  = "ugogo_users_db_v1"
	EventsKey = "ugogo_events_db_v1"
)

func load[T any](ctx context.Context, store blobstore.Store, key string) ([]T, error) {
	b, ok, err := store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Absent collection reads as empty, never as an error.
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func save[T any](ctx context.Context, store blobstore.Store, key string, records []T) error {
	b, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return store.Save(ctx, key, b)
}

func seed[T any](ctx context.Context, store blobstore.Store, key string, records []T) (bool, error) {
	b, err := json.Marshal(records)
	if err != nil {
		return false, err
	}
	return store.SaveIfAbsent(ctx, key, b)
}
