package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ugogo-app/ugogo-api/internal/container"
	handlers "github.com/ugogo-app/ugogo-api/internal/interface/http"
	"github.com/ugogo-app/ugogo-api/internal/interface/middleware"
	"github.com/ugogo-app/ugogo-api/pkg/helpers"
)

// SupportModule wires the in-app support chat.
// Protected: GET /api/support/greeting, POST /api/support/chat
type SupportModule struct {
	Handler *handlers.SupportHandler
	JWT     *helpers.JWTManager
}

func NewSupportModule(h *handlers.SupportHandler, jwt *helpers.JWTManager) *SupportModule {
	return &SupportModule{Handler: h, JWT: jwt}
}

func (m *SupportModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/support/greeting", m.Handler.Greeting)
		auth.POST("/support/chat", m.Handler.Message)
	}
}
