package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/isdelr/tasktracker/internal/models"
)

// ErrNoSession is returned when a token does not resolve to a live session.
var ErrNoSession = errors.New("no session")

// Claims is what the session cookie carries. The user itself stays on the
// server; the cookie only names the session.
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type session struct {
	user      models.User
	expiresAt time.Time
}

// SessionManager maps signed session tokens to the user that logged in.
// Sessions live in memory only and are gone after a restart.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu       sync.RWMutex
	sessions map[string]session
}

// NewSessionManager creates a SessionManager signing tokens with secret.
func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]session),
	}
}

// TTL returns how long a session lives after login.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Login starts a session bound to user and returns its token.
func (m *SessionManager) Login(user models.User) (string, error) {
	sid := uuid.New().String()
	now := m.now()
	expiresAt := now.Add(m.ttl)

	claims := &Claims{
		SessionID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	m.mu.Lock()
	m.sessions[sid] = session{user: user, expiresAt: expiresAt}
	m.mu.Unlock()

	return token, nil
}

// CurrentUser resolves token to the user bound to it.
func (m *SessionManager) CurrentUser(token string) (models.User, error) {
	sid, err := m.sessionID(token, true)
	if err != nil {
		return models.User{}, err
	}

	m.mu.RLock()
	s, ok := m.sessions[sid]
	m.mu.RUnlock()
	if !ok || !m.now().Before(s.expiresAt) {
		return models.User{}, ErrNoSession
	}
	return s.user, nil
}

// Logout destroys the session named by token. Unknown, expired or
// malformed tokens are ignored.
func (m *SessionManager) Logout(token string) {
	sid, err := m.sessionID(token, false)
	if err != nil {
		return
	}
	m.mu.Lock()
	delete(m.sessions, sid)
	m.mu.Unlock()
}

// Sweep drops expired sessions and returns how many were removed.
func (m *SessionManager) Sweep() int {
	now := m.now()
	removed := 0

	m.mu.Lock()
	defer m.mu.Unlock()
	for sid, s := range m.sessions {
		if !now.Before(s.expiresAt) {
			delete(m.sessions, sid)
			removed++
		}
	}
	return removed
}

// Len returns the number of sessions currently held, expired or not.
func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// sessionID verifies the token signature and returns the session id. When
// validateClaims is false an expired token still yields its id.
func (m *SessionManager) sessionID(token string, validateClaims bool) (string, error) {
	if token == "" {
		return "", ErrNoSession
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	}
	if !validateClaims {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid || claims.SessionID == "" {
		return "", ErrNoSession
	}
	return claims.SessionID, nil
}
