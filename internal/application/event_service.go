package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ugogo-app/ugogo-api/internal/domain/entity"
	repo "github.com/ugogo-app/ugogo-api/internal/domain/repository"
	"github.com/ugogo-app/ugogo-api/pkg/helpers"
)

// EventService owns the events collection. The collection is kept
// most-recent-first: Create prepends, and listing preserves store order.
type EventService struct {
	Events        repo.EventCollection
	Logger        *logrus.Logger
	ES            *elasticsearch.Client
	ESEventsIndex string
	GCS           *storage.Client
	GCSBucket     string
}

func NewEventService(events repo.EventCollection, logger *logrus.Logger, es *elasticsearch.Client, esEventsIndex string) *EventService {
	return &EventService{Events: events, Logger: logger, ES: es, ESEventsIndex: esEventsIndex}
}

// WithUploads enables GCS-backed event image uploads. Without it,
// UploadImage reports the store as not configured and clients fall back
// to passing an image URL on create.
func (s *EventService) WithUploads(gcs *storage.Client, bucket string) *EventService {
	s.GCS = gcs
	s.GCSBucket = bucket
	return s
}

// UploadImage stores an event cover image in GCS and returns its public URL.
func (s *EventService) UploadImage(ctx context.Context, hostID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("events", hostID, uuid.NewString()+ext))
	return helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
}

// Create inserts the event at the head of the collection and persists it.
// The host must already be embedded in attendees; see Session.CreateEvent.
func (s *EventService) Create(ctx context.Context, ev entity.Event) ([]entity.Event, error) {
	events, err := s.Events.Load(ctx)
	if err != nil {
		return nil, err
	}
	events = append([]entity.Event{ev}, events...)
	if err := s.Events.Save(ctx, events); err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"event_id": ev.ID, "category": ev.Category}).Info("event created")
	_ = s.indexEvent(ctx, ev)
	return events, nil
}

// ListAll returns the full persisted collection in store order.
func (s *EventService) ListAll(ctx context.Context) ([]entity.Event, error) {
	return s.Events.Load(ctx)
}

// Get returns one event by id.
func (s *EventService) Get(ctx context.Context, id string) (entity.Event, error) {
	events, err := s.Events.Load(ctx)
	if err != nil {
		return entity.Event{}, err
	}
	for _, ev := range events {
		if ev.ID == id {
			return ev, nil
		}
	}
	return entity.Event{}, ErrNotFound
}

// Update replaces the record matching ev.ID. An unknown id is a no-op; it
// must never append.
func (s *EventService) Update(ctx context.Context, ev entity.Event) ([]entity.Event, error) {
	events, err := s.Events.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range events {
		if events[i].ID == ev.ID {
			events[i] = ev
			if err := s.Events.Save(ctx, events); err != nil {
				return nil, err
			}
			_ = s.indexEvent(ctx, ev)
			break
		}
	}
	return events, nil
}

// PropagateIdentityChange rewrites every attendee snapshot matching user.ID
// across the whole collection, leaving other attendees and all other event
// fields untouched. This is what keeps denormalized copies eventually
// consistent after a profile edit.
func (s *EventService) PropagateIdentityChange(ctx context.Context, user entity.PublicUser) ([]entity.Event, error) {
	events, err := s.Events.Load(ctx)
	if err != nil {
		return nil, err
	}
	changed := 0
	for i := range events {
		for j := range events[i].Attendees {
			if events[i].Attendees[j].ID == user.ID {
				events[i].Attendees[j] = user
				changed++
			}
		}
	}
	if changed > 0 {
		if err := s.Events.Save(ctx, events); err != nil {
			return nil, err
		}
		s.Logger.WithFields(logrus.Fields{"user_id": user.ID, "snapshots": changed}).Debug("attendee snapshots synced")
	}
	return events, nil
}

func (s *EventService) indexEvent(ctx context.Context, ev entity.Event) error {
	if s.ES == nil || s.ESEventsIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":       ev.ID,
		"title":    ev.Title,
		"location": ev.Location,
		"category": ev.Category,
		"date":     ev.Date.Format(time.RFC3339),
		"price":    ev.Price,
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESEventsIndex, DocumentID: ev.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("event_id", ev.ID).Warn("es index failed")
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		s.Logger.WithField("status", res.Status()).WithField("event_id", ev.ID).Warn("es index response error")
	}
	return nil
}

// Search performs a multi_match query over title and location. It returns
// nothing when Elasticsearch is not configured; the primary discovery path
// is the in-memory filtered view, not this index.
func (s *EventService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESEventsIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "location"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESEventsIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
