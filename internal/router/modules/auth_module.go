package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ugogo-app/ugogo-api/internal/container"
	handlers "github.com/ugogo-app/ugogo-api/internal/interface/http"
	"github.com/ugogo-app/ugogo-api/internal/interface/middleware"
	"github.com/ugogo-app/ugogo-api/pkg/helpers"
)

// AuthModule wires registration and session endpoints.
// Public: POST /api/register/init, POST /api/register/confirm,
// POST /api/login, POST /api/refresh. Protected: POST /api/logout.
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	registerInitLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	registerConfirmLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/register/init", registerInitLimiter, m.Handler.RegisterInit)
	rg.POST("/register/confirm", registerConfirmLimiter, m.Handler.RegisterConfirm)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	{
		auth.POST("/logout", m.Handler.Logout)
	}
}
