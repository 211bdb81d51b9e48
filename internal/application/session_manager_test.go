package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugogo-app/ugogo-api/internal/domain/entity"
	"github.com/ugogo-app/ugogo-api/internal/infrastructure/blobstore"
	"github.com/ugogo-app/ugogo-api/internal/infrastructure/collections"
)

func setupManager(t *testing.T) (*SessionManager, entity.PublicUser) {
	t.Helper()
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	logger := testLogger()

	me := entity.User{
		PublicUser: entity.PublicUser{ID: "u1", Name: "Alex Rider"},
		Email:      "alex@example.com",
		Password:   "$2a$10$hash",
	}
	require.NoError(t, collections.NewUserCollection(store).Save(ctx, []entity.User{me}))
	require.NoError(t, collections.NewEventCollection(store).Save(ctx, []entity.Event{freeEvent("e1")}))

	idSvc := NewIdentityService(collections.NewUserCollection(store), nil, nil, logger, nil, "")
	dir := NewEventService(collections.NewEventCollection(store), logger, nil, "")
	return NewSessionManager(idSvc, dir, newStubGate(), nil, logger), me.Public()
}

func TestSessionManager_AttachAndGet(t *testing.T) {
	m, me := setupManager(t)
	ctx := context.Background()

	attached, err := m.Attach(ctx, me)
	require.NoError(t, err)
	assert.Len(t, attached.Events(), 1, "attach loads the collection")

	got, err := m.Get(ctx, me.ID)
	require.NoError(t, err)
	assert.Same(t, attached, got, "repeat lookups return the live session")
}

func TestSessionManager_RebuildsAfterDrop(t *testing.T) {
	m, me := setupManager(t)
	ctx := context.Background()

	first, err := m.Attach(ctx, me)
	require.NoError(t, err)
	m.Drop(me.ID)

	rebuilt, err := m.Get(ctx, me.ID)
	require.NoError(t, err)
	assert.NotSame(t, first, rebuilt)
	assert.Equal(t, me.ID, rebuilt.Identity().ID)
	assert.Len(t, rebuilt.Events(), 1)
}

func TestSessionManager_UnknownUser(t *testing.T) {
	m, _ := setupManager(t)
	_, err := m.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}
