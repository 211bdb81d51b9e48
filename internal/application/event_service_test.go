package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugogo-app/ugogo-api/internal/domain/entity"
	"github.com/ugogo-app/ugogo-api/internal/infrastructure/blobstore"
	"github.com/ugogo-app/ugogo-api/internal/infrastructure/collections"
)

func setupEventService() (*EventService, *blobstore.MemoryStore) {
	store := blobstore.NewMemoryStore()
	events := collections.NewEventCollection(store)
	return NewEventService(events, testLogger(), nil, ""), store
}

func makeEvent(id, title string, attendees ...entity.PublicUser) entity.Event {
	return entity.Event{
		ID:        id,
		Title:     title,
		Date:      time.Now().Add(48 * time.Hour),
		Location:  "Downtown",
		Category:  entity.CategoryParty,
		Attendees: attendees,
	}
}

func TestCreate_PrependsNewest(t *testing.T) {
	svc, _ := setupEventService()
	ctx := context.Background()

	_, err := svc.Create(ctx, makeEvent("e1", "First"))
	require.NoError(t, err)
	events, err := svc.Create(ctx, makeEvent("e2", "Second"))
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, "e2", events[0].ID, "newest event must come first")
	assert.Equal(t, "e1", events[1].ID)

	listed, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, events, listed)
}

func TestGet_UnknownID(t *testing.T) {
	svc, _ := setupEventService()
	ctx := context.Background()

	_, err := svc.Create(ctx, makeEvent("e1", "First"))
	require.NoError(t, err)

	_, err = svc.Get(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate_ReplacesInPlace(t *testing.T) {
	svc, _ := setupEventService()
	ctx := context.Background()

	_, err := svc.Create(ctx, makeEvent("e1", "First"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, makeEvent("e2", "Second"))
	require.NoError(t, err)

	changed := makeEvent("e1", "First, renamed")
	events, err := svc.Update(ctx, changed)
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, "e2", events[0].ID, "update must not disturb ordering")
	assert.Equal(t, "First, renamed", events[1].Title)
}

func TestUpdate_UnknownIDNeverAppends(t *testing.T) {
	svc, _ := setupEventService()
	ctx := context.Background()

	_, err := svc.Create(ctx, makeEvent("e1", "First"))
	require.NoError(t, err)

	events, err := svc.Update(ctx, makeEvent("ghost", "Phantom"))
	require.NoError(t, err)
	assert.Len(t, events, 1, "an unknown id must be a no-op, never an insert")
	assert.Equal(t, "e1", events[0].ID)
}

func TestPropagateIdentityChange_RewritesOnlyMatchingSnapshots(t *testing.T) {
	svc, _ := setupEventService()
	ctx := context.Background()

	alex := entity.PublicUser{ID: "u1", Name: "Alex", Avatar: "a.png"}
	sarah := entity.PublicUser{ID: "u2", Name: "Sarah", Avatar: "s.png"}

	e1 := makeEvent("e1", "Rooftop", alex, sarah)
	e1.Price = 25
	_, err := svc.Create(ctx, e1)
	require.NoError(t, err)
	_, err = svc.Create(ctx, makeEvent("e2", "Jazz", sarah))
	require.NoError(t, err)
	_, err = svc.Create(ctx, makeEvent("e3", "Pop-up", alex))
	require.NoError(t, err)

	renamed := entity.PublicUser{ID: "u1", Name: "Alexandra", Avatar: "new.png"}
	events, err := svc.PropagateIdentityChange(ctx, renamed)
	require.NoError(t, err)
	require.Len(t, events, 3)

	byID := map[string]entity.Event{}
	for _, ev := range events {
		byID[ev.ID] = ev
	}

	assert.Equal(t, "Alexandra", byID["e1"].Attendees[0].Name)
	assert.Equal(t, "new.png", byID["e1"].Attendees[0].Avatar)
	assert.Equal(t, "Alexandra", byID["e3"].Attendees[0].Name)

	assert.Equal(t, "Sarah", byID["e1"].Attendees[1].Name, "other attendees must be untouched")
	assert.Equal(t, "Sarah", byID["e2"].Attendees[0].Name)

	assert.Equal(t, "Rooftop", byID["e1"].Title, "non-attendee fields must be untouched")
	assert.Equal(t, 25.0, byID["e1"].Price)
}

func TestPropagateIdentityChange_NoMatchSkipsWrite(t *testing.T) {
	svc, store := setupEventService()
	ctx := context.Background()

	_, err := svc.Create(ctx, makeEvent("e1", "Rooftop", entity.PublicUser{ID: "u2", Name: "Sarah"}))
	require.NoError(t, err)

	// Any further write would now fail; propagation with no matching
	// snapshot must not attempt one.
	store.FailWrites = assert.AnError
	events, err := svc.PropagateIdentityChange(ctx, entity.PublicUser{ID: "ghost", Name: "Ghost"})
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
