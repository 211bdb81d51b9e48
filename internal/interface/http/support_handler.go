package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ugogo-app/ugogo-api/internal/application"
	"github.com/ugogo-app/ugogo-api/pkg/response"
	"github.com/ugogo-app/ugogo-api/pkg/validation"
)

type SupportHandler struct {
	Sessions *application.SessionManager
	Logger   *logrus.Logger
}

func NewSupportHandler(sessions *application.SessionManager, logger *logrus.Logger) *SupportHandler {
	return &SupportHandler{Sessions: sessions, Logger: logger}
}

type supportMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// Greeting GET /api/support/greeting
func (h *SupportHandler) Greeting(c *gin.Context) {
	name := c.GetString("userName")
	first := name
	if i := strings.IndexByte(name, ' '); i > 0 {
		first = name[:i]
	}
	response.Success[any](c, http.StatusOK, gin.H{"message": application.SupportGreeting(first)}, "greeting", nil)
}

// Message POST /api/support/chat
// One turn of the support conversation. The reply is always text; when the
// collaborator is unreachable the canned connectivity answer comes back.
func (h *SupportHandler) Message(c *gin.Context) {
	sess, err := h.Sessions.Get(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "not found or incorrect", nil)
		return
	}
	var req supportMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	reply := sess.SupportReply(c.Request.Context(), req.Message)
	response.Success[any](c, http.StatusOK, gin.H{"reply": reply}, "support reply", nil)
}
