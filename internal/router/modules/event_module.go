package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ugogo-app/ugogo-api/internal/container"
	handlers "github.com/ugogo-app/ugogo-api/internal/interface/http"
	"github.com/ugogo-app/ugogo-api/internal/interface/middleware"
	"github.com/ugogo-app/ugogo-api/pkg/helpers"
)

// EventModule wires the event directory, join/payment flow and the
// drafting endpoints. Everything requires an authenticated session.
type EventModule struct {
	Handler *handlers.EventHandler
	JWT     *helpers.JWTManager
}

func NewEventModule(h *handlers.EventHandler, jwt *helpers.JWTManager) *EventModule {
	return &EventModule{Handler: h, JWT: jwt}
}

func (m *EventModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	// The drafting endpoints call out to the text collaborator, so they get
	// a tighter per-user limit.
	draftLimiter := middleware.RateLimit(container.GetRedis(), 20, time.Minute, middleware.KeyByUserID(), nil)
	{
		auth.GET("/events", m.Handler.List)
		auth.GET("/events/mine", m.Handler.Mine)
		auth.GET("/events/search", m.Handler.Search)
		auth.GET("/events/:id", m.Handler.Get)
		auth.POST("/events", m.Handler.Create)
		auth.POST("/events/image", m.Handler.UploadImage)
		auth.POST("/events/:id/join", m.Handler.Join)
		auth.POST("/payments/:id/complete", m.Handler.CompletePayment)
		auth.POST("/events/describe", draftLimiter, m.Handler.Describe)
		auth.POST("/events/:id/icebreaker", draftLimiter, m.Handler.Icebreaker)
	}
}
