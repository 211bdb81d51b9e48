package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ugogo-app/ugogo-api/internal/container"
	handlers "github.com/ugogo-app/ugogo-api/internal/interface/http"
	"github.com/ugogo-app/ugogo-api/internal/interface/middleware"
	"github.com/ugogo-app/ugogo-api/pkg/helpers"
)

// UserModule wires the profile endpoints.
// Protected: GET /api/profile, PUT /api/profile, POST /api/profile/avatar
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), middleware.AllowPrivateIP()))
	{
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.POST("/profile/avatar", m.Handler.UploadAvatar)
	}
}
