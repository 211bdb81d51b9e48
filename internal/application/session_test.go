package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugogo-app/ugogo-api/internal/domain/entity"
	"github.com/ugogo-app/ugogo-api/internal/infrastructure/blobstore"
	"github.com/ugogo-app/ugogo-api/internal/infrastructure/collections"
)

// stubGate is an in-memory PaymentGate so session tests can steer the paid
// join flow without redis.
type stubGate struct {
	completed map[string]bool
	started   []Payment
	consumed  []string
}

func newStubGate() *stubGate {
	return &stubGate{completed: map[string]bool{}}
}

func gateKey(userID, eventID string) string { return userID + "/" + eventID }

func (g *stubGate) Start(ctx context.Context, userID, eventID string, amount float64) (Payment, error) {
	p := Payment{
		ID:      fmt.Sprintf("pay_%d", len(g.started)+1),
		UserID:  userID,
		EventID: eventID,
		Amount:  amount,
		Status:  PaymentPending,
	}
	g.started = append(g.started, p)
	return p, nil
}

func (g *stubGate) Complete(ctx context.Context, paymentID string) (Payment, error) {
	for _, p := range g.started {
		if p.ID == paymentID {
			p.Status = PaymentCompleted
			g.completed[gateKey(p.UserID, p.EventID)] = true
			return p, nil
		}
	}
	return Payment{}, ErrNotFound
}

func (g *stubGate) Completed(ctx context.Context, userID, eventID string) (bool, error) {
	return g.completed[gateKey(userID, eventID)], nil
}

func (g *stubGate) Consume(ctx context.Context, userID, eventID string) error {
	g.consumed = append(g.consumed, gateKey(userID, eventID))
	delete(g.completed, gateKey(userID, eventID))
	return nil
}

type sessionEnv struct {
	sess  *Session
	store *blobstore.MemoryStore
	gate  *stubGate
	dir   *EventService
	me    entity.PublicUser
}

// setupSession seeds one user (the current identity) plus the given events
// and returns a session attached to that identity.
func setupSession(t *testing.T, events ...entity.Event) *sessionEnv {
	t.Helper()
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	logger := testLogger()

	me := entity.User{
		PublicUser: entity.PublicUser{ID: "u1", Name: "Alex Rider", Avatar: "alex.png"},
		Email:      "alex@example.com",
		Phone:      "555-1234",
		Password:   "$2a$10$notacheckedhashinthistest",
	}
	require.NoError(t, collections.NewUserCollection(store).Save(ctx, []entity.User{me}))
	require.NoError(t, collections.NewEventCollection(store).Save(ctx, events))

	idSvc := NewIdentityService(collections.NewUserCollection(store), nil, nil, logger, nil, "")
	dir := NewEventService(collections.NewEventCollection(store), logger, nil, "")
	gate := newStubGate()

	sess := NewSession(me.Public(), idSvc, dir, gate, nil, logger)
	require.NoError(t, sess.Reload(ctx))
	return &sessionEnv{sess: sess, store: store, gate: gate, dir: dir, me: me.Public()}
}

func freeEvent(id string, attendees ...entity.PublicUser) entity.Event {
	return entity.Event{
		ID:        id,
		Title:     "Sunday Sunset Jazz",
		Date:      time.Now().Add(5 * 24 * time.Hour),
		Location:  "Riverside Park",
		Category:  entity.CategoryChill,
		Attendees: attendees,
	}
}

func TestToggleJoin_FreeEventLeaveThenRejoin(t *testing.T) {
	env := setupSession(t, freeEvent("e1", entity.PublicUser{ID: "u1", Name: "Alex Rider", Avatar: "alex.png"}))
	ctx := context.Background()
	env.sess.SelectEvent("e1")

	out, err := env.sess.ToggleJoin(ctx)
	require.NoError(t, err)
	assert.Equal(t, JoinStatusLeft, out.Status)
	assert.Empty(t, out.Event.Attendees)

	stored, err := env.dir.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Empty(t, stored.Attendees)

	out, err = env.sess.ToggleJoin(ctx)
	require.NoError(t, err)
	assert.Equal(t, JoinStatusJoined, out.Status)
	require.Len(t, out.Event.Attendees, 1)
	assert.Equal(t, "u1", out.Event.Attendees[0].ID)
}

func TestToggleJoin_AppendsAtEnd(t *testing.T) {
	sarah := entity.PublicUser{ID: "u2", Name: "Sarah Jenks"}
	mike := entity.PublicUser{ID: "u3", Name: "Mike Chen"}
	env := setupSession(t, freeEvent("e1", sarah, mike))
	ctx := context.Background()
	env.sess.SelectEvent("e1")

	out, err := env.sess.ToggleJoin(ctx)
	require.NoError(t, err)
	assert.Equal(t, JoinStatusJoined, out.Status)
	require.Len(t, out.Event.Attendees, 3)
	assert.Equal(t, "u2", out.Event.Attendees[0].ID, "existing attendees keep their order")
	assert.Equal(t, "u3", out.Event.Attendees[1].ID)
	assert.Equal(t, "u1", out.Event.Attendees[2].ID, "joining user goes to the end")
}

func TestToggleJoin_PaidEventRequiresPayment(t *testing.T) {
	ev := freeEvent("e1", entity.PublicUser{ID: "u2", Name: "Sarah"})
	ev.Price = 10
	env := setupSession(t, ev)
	ctx := context.Background()
	env.sess.SelectEvent("e1")

	out, err := env.sess.ToggleJoin(ctx)
	require.NoError(t, err)
	assert.Equal(t, JoinStatusPaymentRequired, out.Status)
	require.NotNil(t, out.Payment)
	assert.Equal(t, 10.0, out.Payment.Amount)
	require.Len(t, env.gate.started, 1)

	stored, err := env.dir.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Len(t, stored.Attendees, 1, "a gated join must not change the attendee list")

	// Simulate the processor callback, then retry the join.
	_, err = env.gate.Complete(ctx, out.Payment.ID)
	require.NoError(t, err)

	out, err = env.sess.ToggleJoin(ctx)
	require.NoError(t, err)
	assert.Equal(t, JoinStatusJoined, out.Status)
	require.Len(t, out.Event.Attendees, 2, "completion must add exactly one entry")
	assert.Equal(t, "u1", out.Event.Attendees[1].ID)
	assert.Equal(t, []string{"u1/e1"}, env.gate.consumed, "the payment session is spent on join")
}

func TestToggleJoin_LeavingPaidEventIsFree(t *testing.T) {
	ev := freeEvent("e1", entity.PublicUser{ID: "u1", Name: "Alex Rider"})
	ev.Price = 25
	env := setupSession(t, ev)
	ctx := context.Background()
	env.sess.SelectEvent("e1")

	out, err := env.sess.ToggleJoin(ctx)
	require.NoError(t, err)
	assert.Equal(t, JoinStatusLeft, out.Status)
	assert.Empty(t, env.gate.started, "leaving never opens a payment session")
}

func TestToggleJoin_UnknownEvent(t *testing.T) {
	env := setupSession(t, freeEvent("e1"))
	env.sess.SelectEvent("ghost")

	_, err := env.sess.ToggleJoin(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVisibleEvents_CategoryFilterPreservesOrder(t *testing.T) {
	a := freeEvent("e1")
	a.Title = "Indie Art Pop-up"
	a.Category = entity.CategoryArt
	b := freeEvent("e2")
	b.Title = "Neon Rooftop Party"
	b.Category = entity.CategoryParty
	c := freeEvent("e3")
	c.Title = "Life Drawing Night"
	c.Category = entity.CategoryArt

	env := setupSession(t, a, b, c)

	require.NoError(t, env.sess.SetCategory(entity.CategoryArt))
	env.sess.SetSearch("")

	visible := env.sess.VisibleEvents()
	require.Len(t, visible, 2)
	assert.Equal(t, "e1", visible[0].ID, "filtering must preserve relative order")
	assert.Equal(t, "e3", visible[1].ID)
}

func TestVisibleEvents_SearchMatchesTitleOrLocation(t *testing.T) {
	a := freeEvent("e1")
	a.Title = "Neon Rooftop Party"
	a.Location = "Skyline Lounge"
	b := freeEvent("e2")
	b.Title = "Sunday Sunset Jazz"
	b.Location = "Riverside Park"

	env := setupSession(t, a, b)

	env.sess.SetSearch("ROOFTOP")
	visible := env.sess.VisibleEvents()
	require.Len(t, visible, 1)
	assert.Equal(t, "e1", visible[0].ID)

	env.sess.SetSearch("riverside")
	visible = env.sess.VisibleEvents()
	require.Len(t, visible, 1)
	assert.Equal(t, "e2", visible[0].ID)

	env.sess.SetSearch("warehouse")
	assert.Empty(t, env.sess.VisibleEvents())
}

func TestSetCategory_RejectsUnknown(t *testing.T) {
	env := setupSession(t)
	assert.ErrorIs(t, env.sess.SetCategory(entity.Category("Rave")), ErrValidation)
	assert.NoError(t, env.sess.SetCategory(entity.CategoryAll))
}

func TestMyEvents(t *testing.T) {
	mine := freeEvent("e1", entity.PublicUser{ID: "u1", Name: "Alex Rider"})
	other := freeEvent("e2", entity.PublicUser{ID: "u2", Name: "Sarah"})
	env := setupSession(t, mine, other)

	got := env.sess.MyEvents()
	require.Len(t, got, 1)
	assert.Equal(t, "e1", got[0].ID)
}

func TestCreateEvent_HostIsSoleAttendee(t *testing.T) {
	env := setupSession(t)
	ctx := context.Background()

	ev, err := env.sess.CreateEvent(ctx, CreateEventInput{
		Title:    "Warehouse Rave",
		Date:     time.Now().Add(72 * time.Hour),
		Location: "Pier 9",
		Category: entity.CategoryParty,
		Price:    15,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, "u1", ev.HostID)
	require.Len(t, ev.Attendees, 1)
	assert.Equal(t, "u1", ev.Attendees[0].ID)
	assert.Equal(t, defaultEventImage, ev.ImageURL)
	assert.Equal(t, ViewDiscover, env.sess.View(), "creation returns to discover")

	listed, err := env.dir.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, ev.ID, listed[0].ID)
}

func TestCreateEvent_Validation(t *testing.T) {
	env := setupSession(t)
	ctx := context.Background()

	cases := []CreateEventInput{
		{Location: "Pier 9", Date: time.Now(), Category: entity.CategoryParty},           // no title
		{Title: "Rave", Date: time.Now(), Category: entity.CategoryParty},                // no location
		{Title: "Rave", Location: "Pier 9", Category: entity.CategoryParty},              // no date
		{Title: "Rave", Location: "Pier 9", Date: time.Now(), Category: "Bogus"},         // bad category
		{Title: "Rave", Location: "Pier 9", Date: time.Now(), Category: entity.CategoryParty, Price: -1}, // negative price
	}
	for _, in := range cases {
		_, err := env.sess.CreateEvent(ctx, in)
		assert.ErrorIs(t, err, ErrValidation)
	}

	listed, err := env.dir.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed, "rejected input must not persist anything")
}

func TestUpdateProfile_PropagatesAcrossEvents(t *testing.T) {
	me := entity.PublicUser{ID: "u1", Name: "Alex Rider", Avatar: "alex.png"}
	sarah := entity.PublicUser{ID: "u2", Name: "Sarah Jenks"}
	env := setupSession(t, freeEvent("e1", me, sarah), freeEvent("e2", sarah), freeEvent("e3", me))
	ctx := context.Background()

	updated, err := env.sess.UpdateProfile(ctx, entity.PublicUser{Name: "Alexandra Rider"})
	require.NoError(t, err)
	assert.Equal(t, "Alexandra Rider", updated.Name)
	assert.Equal(t, "alex.png", updated.Avatar, "fields left empty keep their stored values")

	events := env.sess.Events()
	require.Len(t, events, 3)
	byID := map[string]entity.Event{}
	for _, ev := range events {
		byID[ev.ID] = ev
	}
	assert.Equal(t, "Alexandra Rider", byID["e1"].Attendees[0].Name)
	assert.Equal(t, "Alexandra Rider", byID["e3"].Attendees[0].Name)
	assert.Equal(t, "Sarah Jenks", byID["e1"].Attendees[1].Name, "other attendees stay untouched")
	assert.Equal(t, "Sarah Jenks", byID["e2"].Attendees[0].Name)

	assert.Equal(t, "Alexandra Rider", env.sess.Identity().Name)
}

func TestStorageFailure_KeepsLastKnownState(t *testing.T) {
	env := setupSession(t, freeEvent("e1", entity.PublicUser{ID: "u1", Name: "Alex Rider"}))
	ctx := context.Background()
	before := env.sess.Events()

	env.store.FailWrites = errors.New("store down")

	env.sess.SelectEvent("e1")
	_, err := env.sess.ToggleJoin(ctx)
	require.Error(t, err)

	assert.Equal(t, before, env.sess.Events(), "a failed write must not corrupt held state")

	env.store.FailWrites = nil
	stored, err := env.dir.Get(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, stored.Attendees, 1, "the stored collection must be unchanged")
}

func TestSelectionLifecycle(t *testing.T) {
	env := setupSession(t, freeEvent("e1"))

	env.sess.SelectEvent("e1")
	assert.Equal(t, ViewEventDetails, env.sess.View())
	ev, ok := env.sess.SelectedEvent()
	require.True(t, ok)
	assert.Equal(t, "e1", ev.ID)

	env.sess.ClearSelection()
	assert.Equal(t, ViewDiscover, env.sess.View())
	_, ok = env.sess.SelectedEvent()
	assert.False(t, ok)
}
