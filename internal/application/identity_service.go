package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ugogo-app/ugogo-api/internal/domain/entity"
	repo "github.com/ugogo-app/ugogo-api/internal/domain/repository"
	"github.com/ugogo-app/ugogo-api/pkg/helpers"
)

var (
	// ErrDuplicateIdentity means the registration email is already taken.
	ErrDuplicateIdentity = errors.New("user already exists")
	// ErrNotFound is the uniform failure for login and missing records; it
	// never distinguishes an unknown identifier from a wrong password.
	ErrNotFound = errors.New("not found or incorrect")
)

// IdentityService owns the users collection: registration, credential
// verification and profile updates. Values returned to callers are always
// credential-stripped public snapshots.
type IdentityService struct {
	Users     repo.UserCollection
	JWT       *helpers.JWTManager
	Redis     *redis.Client
	Logger    *logrus.Logger
	GCS       *storage.Client
	GCSBucket string
}

func NewIdentityService(users repo.UserCollection, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, gcs *storage.Client, gcsBucket string) *IdentityService {
	return &IdentityService{Users: users, JWT: jwt, Redis: rdb, Logger: logger, GCS: gcs, GCSBucket: gcsBucket}
}

type RegisterInput struct {
	Name           string
	Bio            string
	SnapchatHandle string
	Email          string
	Password       string
	Phone          string
}

// Register appends a new user to the collection. Email uniqueness is checked
// case-insensitively; the password is stored as a bcrypt hash.
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (entity.PublicUser, error) {
	users, err := s.Users.Load(ctx)
	if err != nil {
		return entity.PublicUser{}, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, in.Email) {
			return entity.PublicUser{}, ErrDuplicateIdentity
		}
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return entity.PublicUser{}, err
	}
	nu := entity.User{
		PublicUser: entity.PublicUser{
			ID:             uuid.NewString(),
			Name:           in.Name,
			Avatar:         helpers.AvatarURL(in.Name),
			Bio:            in.Bio,
			SnapchatHandle: in.SnapchatHandle,
			IsVerified:     true,
		},
		Email:    in.Email,
		Password: hash,
		Phone:    in.Phone,
	}

	users = append(users, nu)
	if err := s.Users.Save(ctx, users); err != nil {
		return entity.PublicUser{}, err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": nu.ID}).Info("user registered")
	return nu.Public(), nil
}

// Authenticate matches identifier against stored email or phone and checks
// the password against the stored bcrypt hash. Phones are not unique, so
// the scan keeps going past a password mismatch: the caller is whichever
// matching record their password opens. Any failure yields the same
// ErrNotFound so callers cannot probe which identifiers exist.
func (s *IdentityService) Authenticate(ctx context.Context, identifier, password string) (entity.PublicUser, error) {
	users, err := s.Users.Load(ctx)
	if err != nil {
		return entity.PublicUser{}, err
	}
	for _, u := range users {
		if !strings.EqualFold(u.Email, identifier) && u.Phone != identifier {
			continue
		}
		if helpers.CompareHashAndPassword(u.Password, password) {
			return u.Public(), nil
		}
	}
	return entity.PublicUser{}, ErrNotFound
}

// UpdateProfile shallow-merges non-empty public fields over the stored
// record. A missing id is a no-op; it must never create a record. Credential
// fields are preserved untouched.
func (s *IdentityService) UpdateProfile(ctx context.Context, in entity.PublicUser) error {
	users, err := s.Users.Load(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == in.ID {
			users[i].Merge(in)
			return s.Users.Save(ctx, users)
		}
	}
	return nil
}

// GetProfile returns the public snapshot for id.
func (s *IdentityService) GetProfile(ctx context.Context, id string) (entity.PublicUser, error) {
	users, err := s.Users.Load(ctx)
	if err != nil {
		return entity.PublicUser{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u.Public(), nil
		}
	}
	return entity.PublicUser{}, ErrNotFound
}

// ContactEmail returns the registered email for id. It is the one read that
// crosses the public-snapshot boundary, used for outbound notifications only.
func (s *IdentityService) ContactEmail(ctx context.Context, id string) (string, error) {
	users, err := s.Users.Load(ctx)
	if err != nil {
		return "", err
	}
	for _, u := range users {
		if u.ID == id {
			return u.Email, nil
		}
	}
	return "", ErrNotFound
}

// UploadAvatar stores a new avatar image in GCS and returns its public URL.
// The profile itself is updated by the caller through UpdateProfile, so the
// fan-out to attendee snapshots happens in one place.
func (s *IdentityService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, uuid.NewString()+ext))
	return helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
}

// ---- session tokens ----

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *IdentityService) IssueTokens(ctx context.Context, u entity.PublicUser) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		return TokenPair{}, err
	}

	if s.Redis != nil {
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    u.ID,
			"name":       u.Name,
			"avatar":     u.Avatar,
			"sid":        sid,
			"created_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, 24*time.Hour)
		if _, rErr := pipe.Exec(ctx); rErr != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Login authenticates and issues a token pair.
func (s *IdentityService) Login(ctx context.Context, identifier, password string) (entity.PublicUser, TokenPair, error) {
	u, err := s.Authenticate(ctx, identifier, password)
	if err != nil {
		return entity.PublicUser{}, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return entity.PublicUser{}, TokenPair{}, err
	}
	return u, pair, nil
}

// Refresh rotates the session id and token pair for a valid refresh token.
func (s *IdentityService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrNotFound
	}
	u, err := s.GetProfile(ctx, claims.UserID)
	if err != nil {
		return TokenPair{}, "", ErrNotFound
	}
	if s.Redis != nil {
		data, rErr := s.Redis.HGetAll(ctx, sessionKey(u.ID)).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, "", ErrNotFound
		}
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return TokenPair{}, "", err
	}
	return pair, u.ID, nil
}

// Logout drops the redis session.
func (s *IdentityService) Logout(ctx context.Context, userID string) {
	if s.Redis != nil {
		_ = s.Redis.Del(ctx, sessionKey(userID)).Err()
	}
}
