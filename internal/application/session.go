package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ugogo-app/ugogo-api/internal/domain/entity"
	"github.com/ugogo-app/ugogo-api/pkg/genai"
)

// ErrValidation means required input is missing or malformed; nothing was
// mutated.
var ErrValidation = errors.New("required fields missing")

// defaultEventImage backs events posted without a picture.
const defaultEventImage = "https://images.unsplash.com/photo-1492684223066-81342ee5ff30?auto=format&fit=crop&q=80&w=800"

type View string

const (
	ViewLogin        View = "login"
	ViewDiscover     View = "discover"
	ViewCreate       View = "create"
	ViewProfile      View = "profile"
	ViewEventDetails View = "event_details"
)

type JoinStatus string

const (
	JoinStatusJoined          JoinStatus = "joined"
	JoinStatusLeft            JoinStatus = "left"
	JoinStatusPaymentRequired JoinStatus = "payment_required"
)

type JoinOutcome struct {
	Status  JoinStatus
	Event   entity.Event
	Payment *Payment // set when Status is payment_required
}

// Session is the authoritative in-memory view-model for one signed-in user:
// identity, the last fetched event collection, the active view and the
// transient UI selections. Derived lists are always recomputed from these,
// never mutated by hand; every mutation goes through the services so the
// store stays the source of truth. Store failures leave the held state at
// its last-known-good value.
type Session struct {
	mu              sync.Mutex
	identity        entity.PublicUser
	events          []entity.Event
	view            View
	searchQuery     string
	activeCategory  entity.Category
	selectedEventID string
	supportChat     *genai.Chat

	identitySvc *IdentityService
	directory   *EventService
	payments    PaymentGate
	assist      *AssistService
	logger      *logrus.Logger
}

func NewSession(identity entity.PublicUser, idSvc *IdentityService, directory *EventService, payments PaymentGate, assist *AssistService, logger *logrus.Logger) *Session {
	return &Session{
		identity:       identity,
		view:           ViewDiscover,
		activeCategory: entity.CategoryAll,
		identitySvc:    idSvc,
		directory:      directory,
		payments:       payments,
		assist:         assist,
		logger:         logger,
	}
}

// Reload fetches the full event collection from the directory service. On
// failure the previously held collection stays visible.
func (s *Session) Reload(ctx context.Context) error {
	events, err := s.directory.ListAll(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.events = events
	s.mu.Unlock()
	return nil
}

func (s *Session) Identity() entity.PublicUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *Session) SetView(v View) {
	s.mu.Lock()
	s.view = v
	s.mu.Unlock()
}

func (s *Session) SetSearch(q string) {
	s.mu.Lock()
	s.searchQuery = q
	s.mu.Unlock()
}

// SetCategory switches the active filter; the wildcard All is always valid.
func (s *Session) SetCategory(c entity.Category) error {
	if c != entity.CategoryAll && !c.Valid() {
		return ErrValidation
	}
	s.mu.Lock()
	s.activeCategory = c
	s.mu.Unlock()
	return nil
}

func (s *Session) SelectEvent(id string) {
	s.mu.Lock()
	s.selectedEventID = id
	s.view = ViewEventDetails
	s.mu.Unlock()
}

func (s *Session) ClearSelection() {
	s.mu.Lock()
	s.selectedEventID = ""
	s.view = ViewDiscover
	s.mu.Unlock()
}

// Events returns the last fetched collection in store order.
func (s *Session) Events() []entity.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Event(nil), s.events...)
}

// VisibleEvents derives the filtered list: title or location contains the
// search text (case-insensitive) and the category matches the filter or the
// filter is the wildcard. Relative order is preserved.
func (s *Session) VisibleEvents() []entity.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := strings.ToLower(s.searchQuery)
	out := make([]entity.Event, 0, len(s.events))
	for _, ev := range s.events {
		matchesSearch := q == "" ||
			strings.Contains(strings.ToLower(ev.Title), q) ||
			strings.Contains(strings.ToLower(ev.Location), q)
		matchesCategory := s.activeCategory == entity.CategoryAll || ev.Category == s.activeCategory
		if matchesSearch && matchesCategory {
			out = append(out, ev)
		}
	}
	return out
}

// MyEvents derives the events whose attendee set contains the current
// identity.
func (s *Session) MyEvents() []entity.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Event, 0)
	for _, ev := range s.events {
		if ev.HasAttendee(s.identity.ID) {
			out = append(out, ev)
		}
	}
	return out
}

// SelectedEvent resolves the selected id against the current collection.
func (s *Session) SelectedEvent() (entity.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(s.selectedEventID)
}

func (s *Session) findLocked(id string) (entity.Event, bool) {
	for _, ev := range s.events {
		if ev.ID == id {
			return ev, true
		}
	}
	return entity.Event{}, false
}

type CreateEventInput struct {
	Title       string
	Date        time.Time
	Location    string
	ImageURL    string
	Description string
	Category    entity.Category
	Price       float64
}

// CreateEvent validates the form, inserts the creating user as the first
// attendee and posts the event through the directory service.
func (s *Session) CreateEvent(ctx context.Context, in CreateEventInput) (entity.Event, error) {
	if in.Title == "" || in.Location == "" || in.Date.IsZero() {
		return entity.Event{}, ErrValidation
	}
	if !in.Category.Valid() || in.Price < 0 {
		return entity.Event{}, ErrValidation
	}
	if in.ImageURL == "" {
		in.ImageURL = defaultEventImage
	}

	s.mu.Lock()
	host := s.identity
	s.mu.Unlock()

	ev := entity.Event{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Date:        in.Date,
		Location:    in.Location,
		ImageURL:    in.ImageURL,
		Description: in.Description,
		Attendees:   []entity.PublicUser{host},
		Category:    in.Category,
		HostID:      host.ID,
		Price:       in.Price,
	}

	events, err := s.directory.Create(ctx, ev)
	if err != nil {
		return entity.Event{}, err
	}

	s.mu.Lock()
	s.events = events
	s.view = ViewDiscover
	s.mu.Unlock()
	return ev, nil
}

// ToggleJoin flips the current identity's attendance on the selected event.
// Leaving always goes through; joining a priced event requires a completed
// payment session first, in which case a pending payment is started and
// returned. The attendee list never gains a second entry for the same id.
func (s *Session) ToggleJoin(ctx context.Context) (JoinOutcome, error) {
	s.mu.Lock()
	me := s.identity
	ev, ok := s.findLocked(s.selectedEventID)
	s.mu.Unlock()
	if !ok {
		return JoinOutcome{}, ErrNotFound
	}

	if ev.HasAttendee(me.ID) {
		return s.applyToggle(ctx, ev, me, false)
	}

	if ev.Price > 0 {
		paid, err := s.payments.Completed(ctx, me.ID, ev.ID)
		if err != nil {
			return JoinOutcome{}, err
		}
		if !paid {
			p, err := s.payments.Start(ctx, me.ID, ev.ID, ev.Price)
			if err != nil {
				return JoinOutcome{}, err
			}
			return JoinOutcome{Status: JoinStatusPaymentRequired, Event: ev, Payment: &p}, nil
		}
		if err := s.payments.Consume(ctx, me.ID, ev.ID); err != nil {
			s.logger.WithError(err).Warn("payment consume failed")
		}
	}
	return s.applyToggle(ctx, ev, me, true)
}

func (s *Session) applyToggle(ctx context.Context, ev entity.Event, me entity.PublicUser, join bool) (JoinOutcome, error) {
	status := JoinStatusLeft
	if join {
		ev.Attendees = append(ev.Attendees, me)
		status = JoinStatusJoined
	} else {
		kept := make([]entity.PublicUser, 0, len(ev.Attendees))
		for _, a := range ev.Attendees {
			if a.ID != me.ID {
				kept = append(kept, a)
			}
		}
		ev.Attendees = kept
	}

	events, err := s.directory.Update(ctx, ev)
	if err != nil {
		return JoinOutcome{}, err
	}
	s.mu.Lock()
	s.events = events
	s.mu.Unlock()
	return JoinOutcome{Status: status, Event: ev}, nil
}

// UpdateProfile edits the identity, fans the new snapshot out across every
// event that embeds it, then reloads the collection. Skipping the reload
// would leave stale attendee snapshots visible for the rest of the session.
func (s *Session) UpdateProfile(ctx context.Context, in entity.PublicUser) (entity.PublicUser, error) {
	s.mu.Lock()
	in.ID = s.identity.ID
	s.mu.Unlock()

	if err := s.identitySvc.UpdateProfile(ctx, in); err != nil {
		return entity.PublicUser{}, err
	}
	updated, err := s.identitySvc.GetProfile(ctx, in.ID)
	if err != nil {
		return entity.PublicUser{}, err
	}
	if _, err := s.directory.PropagateIdentityChange(ctx, updated); err != nil {
		return entity.PublicUser{}, err
	}
	events, err := s.directory.ListAll(ctx)
	if err != nil {
		return entity.PublicUser{}, err
	}

	s.mu.Lock()
	s.identity = updated
	s.events = events
	s.mu.Unlock()
	return updated, nil
}

// SupportReply runs one turn of the support chat, opening the conversation
// with the UGOGO persona on first use.
func (s *Session) SupportReply(ctx context.Context, message string) string {
	s.mu.Lock()
	if s.supportChat == nil {
		s.supportChat = s.assist.NewSupportChat(s.identity.Name)
	}
	chat := s.supportChat
	s.mu.Unlock()
	return s.assist.SupportReply(ctx, chat, message)
}
