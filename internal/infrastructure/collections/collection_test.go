package collections

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugogo-app/ugogo-api/internal/domain/entity"
	"github.com/ugogo-app/ugogo-api/internal/infrastructure/blobstore"
)

func TestUserCollection_AbsentReadsAsEmpty(t *testing.T) {
	c := NewUserCollection(blobstore.NewMemoryStore())

	users, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestUserCollection_RoundTripKeepsCredentials(t *testing.T) {
	store := blobstore.NewMemoryStore()
	c := NewUserCollection(store)
	ctx := context.Background()

	in := []entity.User{{
		PublicUser: entity.PublicUser{ID: "u1", Name: "Alex", IsVerified: true},
		Email:      "alex@example.com",
		Password:   "$2a$10$hash",
		Phone:      "555-1234",
	}}
	require.NoError(t, c.Save(ctx, in))

	out, err := c.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, in[0], out[0])
}

func TestEventCollection_PreservesOrderAndDates(t *testing.T) {
	store := blobstore.NewMemoryStore()
	c := NewEventCollection(store)
	ctx := context.Background()

	date := time.Date(2026, 9, 12, 20, 0, 0, 0, time.UTC)
	in := []entity.Event{
		{ID: "e2", Title: "Second", Date: date, Category: entity.CategoryParty},
		{ID: "e1", Title: "First", Date: date.Add(-time.Hour), Category: entity.CategoryArt},
	}
	require.NoError(t, c.Save(ctx, in))

	out, err := c.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "e2", out[0].ID, "store order is document order")
	assert.True(t, out[0].Date.Equal(date))
}

func TestSeed_OnlyWhenAbsent(t *testing.T) {
	store := blobstore.NewMemoryStore()
	c := NewEventCollection(store)
	ctx := context.Background()

	seeded, err := c.Seed(ctx, []entity.Event{{ID: "e1", Title: "Seeded"}})
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = c.Seed(ctx, []entity.Event{{ID: "e2", Title: "Clobber"}})
	require.NoError(t, err)
	assert.False(t, seeded)

	out, err := c.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "e1", out[0].ID)
}

func TestCollections_UseDistinctKeys(t *testing.T) {
	store := blobstore.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, NewUserCollection(store).Save(ctx, []entity.User{{PublicUser: entity.PublicUser{ID: "u1"}}}))
	require.NoError(t, NewEventCollection(store).Save(ctx, []entity.Event{{ID: "e1"}}))

	users, err := NewUserCollection(store).Load(ctx)
	require.NoError(t, err)
	events, err := NewEventCollection(store).Load(ctx)
	require.NoError(t, err)

	require.Len(t, users, 1)
	require.Len(t, events, 1)
	assert.Equal(t, "u1", users[0].ID)
	assert.Equal(t, "e1", events[0].ID)
}
