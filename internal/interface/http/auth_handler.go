package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ugogo-app/ugogo-api/config"
	"github.com/ugogo-app/ugogo-api/internal/application"
	"github.com/ugogo-app/ugogo-api/pkg/helpers"
	"github.com/ugogo-app/ugogo-api/pkg/response"
	"github.com/ugogo-app/ugogo-api/pkg/validation"
)

const otpTTL = 10 * time.Minute

type AuthHandler struct {
	Svc      *application.IdentityService
	Sessions *application.SessionManager
	RDB      *redis.Client
	Logger   *logrus.Logger
	Cfg      *config.Config
	Cookies  *helpers.Manager
}

func NewAuthHandler(svc *application.IdentityService, sessions *application.SessionManager, rdb *redis.Client, logger *logrus.Logger, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		Svc:      svc,
		Sessions: sessions,
		RDB:      rdb,
		Logger:   logger,
		Cfg:      cfg,
		Cookies:  helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure),
	}
}

type registerInitRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type registerConfirmRequest struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone"`
	Password       string `json:"password" binding:"required,pwd"`
	Bio            string `json:"bio"`
	SnapchatHandle string `json:"snapchatHandle"`
	Code           string `json:"code" binding:"required,len=6"`
}

type loginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// RegisterInit POST /api/register/init
// Issues a 6-digit verification code for the email. Delivery is out of
// scope; outside production the code is written to the app log.
func (h *AuthHandler) RegisterInit(c *gin.Context) {
	var req registerInitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	code, err := helpers.GenOTPCode()
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "code generation failed", nil)
		return
	}
	if err := h.RDB.Set(c.Request.Context(), helpers.KeyRegisterOTP(email), code, otpTTL).Err(); err != nil {
		h.Logger.WithError(err).Error("store registration code failed")
		response.Error[any](c, http.StatusInternalServerError, "could not issue code", nil)
		return
	}
	if h.Cfg.Env != "production" {
		h.Logger.WithFields(logrus.Fields{"email": email, "code": code}).Info("registration code issued")
	}
	response.Success[any](c, http.StatusOK, gin.H{"otp_sent": true}, "verification code sent", nil)
}

// RegisterConfirm POST /api/register/confirm
// Verifies the code, creates the account and signs the user in.
func (h *AuthHandler) RegisterConfirm(c *gin.Context) {
	var req registerConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	ctx := c.Request.Context()
	email := strings.ToLower(strings.TrimSpace(req.Email))

	stored, err := h.RDB.Get(ctx, helpers.KeyRegisterOTP(email)).Result()
	if err != nil || stored == "" || stored != req.Code {
		response.Error[any](c, http.StatusUnauthorized, "invalid or expired code", nil)
		return
	}
	h.RDB.Del(ctx, helpers.KeyRegisterOTP(email))

	u, err := h.Svc.Register(ctx, application.RegisterInput{
		Name:           req.Name,
		Email:          email,
		Phone:          req.Phone,
		Password:       req.Password,
		Bio:            req.Bio,
		SnapchatHandle: req.SnapchatHandle,
	})
	if err != nil {
		if errors.Is(err, application.ErrDuplicateIdentity) {
			response.Error[any](c, http.StatusConflict, "user already exists", nil)
			return
		}
		h.Logger.WithError(err).Error("register failed")
		response.Error[any](c, http.StatusInternalServerError, "registration failed", nil)
		return
	}

	pair, err := h.Svc.IssueTokens(ctx, u)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "session creation failed", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	if _, err := h.Sessions.Attach(ctx, u); err != nil {
		h.Logger.WithError(err).Warn("session attach after register failed")
	}
	response.Success(c, http.StatusCreated, u, "registered", nil)
}

// Login POST /api/login
// Accepts an email address or phone number as identifier. Unknown
// identifier and wrong password produce the same response.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	ctx := c.Request.Context()

	u, pair, err := h.Svc.Login(ctx, req.Identifier, req.Password)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "not found or incorrect", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	if _, err := h.Sessions.Attach(ctx, u); err != nil {
		h.Logger.WithError(err).Warn("session attach after login failed")
	}
	response.Success(c, http.StatusOK, u, "login successful", map[string]any{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
}

// Refresh POST /api/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refresh_token")
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, _, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success[any](c, http.StatusOK, gin.H{"refreshed": true}, "token refreshed", map[string]any{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
}

// Logout POST /api/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	uid := c.GetString("userID")
	h.Svc.Logout(c.Request.Context(), uid)
	h.Sessions.Drop(uid)
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}
