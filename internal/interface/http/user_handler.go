package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ugogo-app/ugogo-api/internal/application"
	"github.com/ugogo-app/ugogo-api/internal/domain/entity"
	"github.com/ugogo-app/ugogo-api/pkg/response"
	"github.com/ugogo-app/ugogo-api/pkg/validation"
)

type UserHandler struct {
	Svc      *application.IdentityService
	Sessions *application.SessionManager
	Logger   *logrus.Logger
}

func NewUserHandler(svc *application.IdentityService, sessions *application.SessionManager, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Sessions: sessions, Logger: logger}
}

type updateProfileRequest struct {
	Name           string `json:"name"`
	Avatar         string `json:"avatar" binding:"omitempty,url"`
	Bio            string `json:"bio"`
	SnapchatHandle string `json:"snapchatHandle"`
}

// GetProfile GET /api/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	uid := c.GetString("userID")
	u, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "not found or incorrect", nil)
		return
	}
	u.IsCurrentUser = true
	response.Success(c, http.StatusOK, u, "profile", nil)
}

// UpdateProfile PUT /api/profile
// Saves the profile and rewrites the user's attendee snapshots on every
// event before responding.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	uid := c.GetString("userID")
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	ctx := c.Request.Context()

	sess, err := h.Sessions.Get(ctx, uid)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "not found or incorrect", nil)
		return
	}
	u, err := sess.UpdateProfile(ctx, entity.PublicUser{
		ID:             uid,
		Name:           req.Name,
		Avatar:         req.Avatar,
		Bio:            req.Bio,
		SnapchatHandle: req.SnapchatHandle,
	})
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Error("profile update failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to update profile", nil)
		return
	}
	u.IsCurrentUser = true
	response.Success(c, http.StatusOK, u, "profile updated", nil)
}

// UploadAvatar POST /api/profile/avatar (multipart field "avatar")
// Stores the image and applies it through the same update path as
// UpdateProfile so attendee snapshots stay consistent.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	uid := c.GetString("userID")
	file, err := c.FormFile("avatar")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "missing avatar file", nil)
		return
	}
	src, err := file.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "unreadable avatar file", nil)
		return
	}
	defer src.Close()

	ctx := c.Request.Context()
	url, err := h.Svc.UploadAvatar(ctx, uid, src, file.Filename, file.Header.Get("Content-Type"))
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Error("avatar upload failed")
		response.Error[any](c, http.StatusInternalServerError, "avatar upload failed", nil)
		return
	}

	sess, err := h.Sessions.Get(ctx, uid)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "not found or incorrect", nil)
		return
	}
	u, err := sess.UpdateProfile(ctx, entity.PublicUser{ID: uid, Avatar: url})
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Error("avatar profile update failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to update profile", nil)
		return
	}
	u.IsCurrentUser = true
	response.Success(c, http.StatusOK, u, "avatar updated", nil)
}
