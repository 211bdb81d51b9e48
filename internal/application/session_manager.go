package application

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ugogo-app/ugogo-api/internal/domain/entity"
)

// SessionManager hands out one Session per signed-in user. Sessions are
// rebuilt from the store after a restart, so losing the map is harmless.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	Identity  *IdentityService
	Directory *EventService
	Payments  PaymentGate
	Assist    *AssistService
	Logger    *logrus.Logger
}

func NewSessionManager(identity *IdentityService, directory *EventService, payments PaymentGate, assist *AssistService, logger *logrus.Logger) *SessionManager {
	return &SessionManager{
		sessions:  map[string]*Session{},
		Identity:  identity,
		Directory: directory,
		Payments:  payments,
		Assist:    assist,
		Logger:    logger,
	}
}

// Attach creates a fresh session for user, replacing any existing one, and
// loads the event collection into it.
func (m *SessionManager) Attach(ctx context.Context, user entity.PublicUser) (*Session, error) {
	sess := NewSession(user, m.Identity, m.Directory, m.Payments, m.Assist, m.Logger)
	if err := sess.Reload(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.sessions[user.ID] = sess
	m.mu.Unlock()
	return sess, nil
}

// Get returns the live session for userID, rebuilding it from the store
// when the process restarted since login.
func (m *SessionManager) Get(ctx context.Context, userID string) (*Session, error) {
	m.mu.Lock()
	sess, ok := m.sessions[userID]
	m.mu.Unlock()
	if ok {
		return sess, nil
	}
	user, err := m.Identity.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return m.Attach(ctx, user)
}

// Drop discards the session on logout.
func (m *SessionManager) Drop(userID string) {
	m.mu.Lock()
	delete(m.sessions, userID)
	m.mu.Unlock()
}
