package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ugogo-app/ugogo-api/internal/application"
	"github.com/ugogo-app/ugogo-api/internal/domain/entity"
	"github.com/ugogo-app/ugogo-api/pkg/helpers"
	"github.com/ugogo-app/ugogo-api/pkg/mailer"
	"github.com/ugogo-app/ugogo-api/pkg/response"
	"github.com/ugogo-app/ugogo-api/pkg/validation"
)

type EventHandler struct {
	Identity  *application.IdentityService
	Directory *application.EventService
	Sessions  *application.SessionManager
	Payments  application.PaymentGate
	Assist    *application.AssistService
	Reminders *helpers.RabbitPublisher
	Logger    *logrus.Logger
}

func NewEventHandler(
	identity *application.IdentityService,
	directory *application.EventService,
	sessions *application.SessionManager,
	payments application.PaymentGate,
	assist *application.AssistService,
	reminders *helpers.RabbitPublisher,
	logger *logrus.Logger,
) *EventHandler {
	return &EventHandler{
		Identity:  identity,
		Directory: directory,
		Sessions:  sessions,
		Payments:  payments,
		Assist:    assist,
		Reminders: reminders,
		Logger:    logger,
	}
}

type createEventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
	Location    string    `json:"location" binding:"required"`
	ImageURL    string    `json:"imageUrl" binding:"omitempty,url"`
	Description string    `json:"description"`
	Category    string    `json:"category" binding:"required"`
	Price       float64   `json:"price" binding:"gte=0"`
}

type describeEventRequest struct {
	Title    string `json:"title" binding:"required"`
	Location string `json:"location" binding:"required"`
	Vibe     string `json:"vibe" binding:"required"`
}

type icebreakerRequest struct {
	TargetName string `json:"targetName" binding:"required"`
}

type radarAttendee struct {
	entity.PublicUser
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (h *EventHandler) session(c *gin.Context) (*application.Session, bool) {
	sess, err := h.Sessions.Get(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "not found or incorrect", nil)
		return nil, false
	}
	return sess, true
}

// List GET /api/events?q=&category=
// Applies the search query and category filter to the session and returns
// the filtered list in stored order.
func (h *EventHandler) List(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := sess.Reload(ctx); err != nil {
		h.Logger.WithError(err).Warn("event reload failed, serving last known state")
	}

	sess.SetSearch(c.Query("q"))
	cat := entity.CategoryAll
	if q := c.Query("category"); q != "" {
		cat = entity.Category(q)
	}
	if err := sess.SetCategory(cat); err != nil {
		response.Error[any](c, http.StatusBadRequest, "unknown category", nil)
		return
	}
	response.Success(c, http.StatusOK, sess.VisibleEvents(), "events", map[string]any{
		"q":        c.Query("q"),
		"category": string(cat),
	})
}

// Mine GET /api/events/mine
func (h *EventHandler) Mine(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, sess.MyEvents(), "my events", nil)
}

// Get GET /api/events/:id
// Returns the event with deterministic radar placements for its attendees.
func (h *EventHandler) Get(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	sess.SelectEvent(c.Param("id"))
	ev, found := sess.SelectedEvent()
	if !found {
		response.Error[any](c, http.StatusNotFound, "not found or incorrect", nil)
		return
	}
	radar := make([]radarAttendee, 0, len(ev.Attendees))
	for _, a := range ev.Attendees {
		x, y := helpers.RadarPosition(a.ID)
		radar = append(radar, radarAttendee{PublicUser: a, X: x, Y: y})
	}
	response.Success[any](c, http.StatusOK, gin.H{"event": ev, "radar": radar}, "event", nil)
}

// Create POST /api/events
func (h *EventHandler) Create(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	ev, err := sess.CreateEvent(c.Request.Context(), application.CreateEventInput{
		Title:       req.Title,
		Date:        req.Date,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
		Description: req.Description,
		Category:    entity.Category(req.Category),
		Price:       req.Price,
	})
	if err != nil {
		if errors.Is(err, application.ErrValidation) {
			response.Error[any](c, http.StatusBadRequest, "invalid event", nil)
			return
		}
		h.Logger.WithError(err).Error("event create failed")
		response.Error[any](c, http.StatusInternalServerError, "event create failed", nil)
		return
	}
	response.Success(c, http.StatusCreated, ev, "event created", nil)
}

// UploadImage POST /api/events/image (multipart field "image")
// Stores a cover image and returns the URL to pass in a later create call.
func (h *EventHandler) UploadImage(c *gin.Context) {
	uid := c.GetString("userID")
	file, err := c.FormFile("image")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "missing image file", nil)
		return
	}
	src, err := file.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "unreadable image file", nil)
		return
	}
	defer src.Close()

	url, err := h.Directory.UploadImage(c.Request.Context(), uid, src, file.Filename, file.Header.Get("Content-Type"))
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Error("event image upload failed")
		response.Error[any](c, http.StatusInternalServerError, "image upload failed", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"image_url": url}, "image uploaded", nil)
}

// Join POST /api/events/:id/join
// Toggles attendance. Joining a priced event without a completed payment
// returns 402 with a payment session instead of changing the attendee list.
func (h *EventHandler) Join(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	sess.SelectEvent(c.Param("id"))
	out, err := sess.ToggleJoin(ctx)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "not found or incorrect", nil)
			return
		}
		h.Logger.WithError(err).Error("join toggle failed")
		response.Error[any](c, http.StatusInternalServerError, "join failed", nil)
		return
	}

	switch out.Status {
	case application.JoinStatusPaymentRequired:
		response.Error[any](c, http.StatusPaymentRequired, "payment required", gin.H{"payment": out.Payment})
	case application.JoinStatusJoined:
		h.enqueueReminder(c, out.Event)
		response.Success[any](c, http.StatusOK, gin.H{"status": out.Status, "event": out.Event}, "joined", nil)
	default:
		response.Success[any](c, http.StatusOK, gin.H{"status": out.Status, "event": out.Event}, "left", nil)
	}
}

// CompletePayment POST /api/payments/:id/complete
// Stands in for the card processor callback, then lands the pending join.
func (h *EventHandler) CompletePayment(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	uid := c.GetString("userID")

	p, err := h.Payments.Complete(ctx, c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "payment session not found", nil)
		return
	}
	if p.UserID != uid {
		response.Error[any](c, http.StatusForbidden, "payment belongs to another user", nil)
		return
	}

	sess.SelectEvent(p.EventID)

	// Processor callbacks can repeat. If the user already landed the join,
	// toggling again would drop them off the event, so answer idempotently.
	if ev, ok := sess.SelectedEvent(); ok && ev.HasAttendee(uid) {
		response.Success[any](c, http.StatusOK, gin.H{"status": application.JoinStatusJoined, "event": ev, "payment": p}, "payment completed", nil)
		return
	}

	out, err := sess.ToggleJoin(ctx)
	if err != nil {
		h.Logger.WithError(err).Error("join after payment failed")
		response.Error[any](c, http.StatusInternalServerError, "join failed", nil)
		return
	}
	if out.Status == application.JoinStatusJoined {
		h.enqueueReminder(c, out.Event)
	}
	response.Success[any](c, http.StatusOK, gin.H{"status": out.Status, "event": out.Event, "payment": p}, "payment completed", nil)
}

// Search GET /api/events/search?q=
// Full-text search over the Elasticsearch index; falls back to 503 when no
// index is configured.
func (h *EventHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", nil)
		return
	}
	hits, err := h.Directory.Search(c.Request.Context(), q, 20)
	if err != nil {
		response.Error[any](c, http.StatusServiceUnavailable, "search unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"q": q})
}

// Describe POST /api/events/describe
// Drafts an event description; always returns text, falling back to a
// template when the collaborator is unreachable.
func (h *EventHandler) Describe(c *gin.Context) {
	var req describeEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	text := h.Assist.EventDescription(c.Request.Context(), req.Title, req.Location, req.Vibe)
	response.Success[any](c, http.StatusOK, gin.H{"description": text}, "description drafted", nil)
}

// Icebreaker POST /api/events/:id/icebreaker
func (h *EventHandler) Icebreaker(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req icebreakerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	sess.SelectEvent(c.Param("id"))
	ev, found := sess.SelectedEvent()
	if !found {
		response.Error[any](c, http.StatusNotFound, "not found or incorrect", nil)
		return
	}
	text := h.Assist.Icebreaker(c.Request.Context(), req.TargetName, ev.Title)
	response.Success[any](c, http.StatusOK, gin.H{"message": text}, "icebreaker", nil)
}

func (h *EventHandler) enqueueReminder(c *gin.Context, ev entity.Event) {
	if h.Reminders == nil {
		return
	}
	ctx := c.Request.Context()
	uid := c.GetString("userID")
	email, err := h.Identity.ContactEmail(ctx, uid)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Warn("reminder email lookup failed")
		return
	}
	job := mailer.ReminderJob{
		UserID:     uid,
		Email:      email,
		Name:       c.GetString("userName"),
		EventID:    ev.ID,
		EventTitle: ev.Title,
		EventDate:  ev.Date,
		Location:   ev.Location,
	}
	if err := h.Reminders.PublishJSON(ctx, job); err != nil {
		h.Logger.WithError(err).WithField("event_id", ev.ID).Warn("reminder enqueue failed")
	}
}
