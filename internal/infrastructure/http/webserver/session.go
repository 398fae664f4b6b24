package webserver

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	sessionCookieName = "recipify-session"
	sessionKeyPrefix  = "websession:"
)

// Session holds per-browser state for the web front end.
type Session struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	AccessToken string    `json:"access_token"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Authenticated reports whether the session carries a signed-in user.
func (s *Session) Authenticated() bool {
	return s.UserID != "" && s.AccessToken != ""
}

// SessionStore keeps sessions in Redis so they survive web server
// restarts. Keys expire with the session.
type SessionStore struct {
	client redis.UniversalClient
	maxAge time.Duration
	logger *zap.Logger
}

// NewSessionStore creates a Redis-backed session store.
func NewSessionStore(client redis.UniversalClient, maxAge time.Duration, logger *zap.Logger) *SessionStore {
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}

	return &SessionStore{
		client: client,
		maxAge: maxAge,
		logger: logger.Named("sessions"),
	}
}

// Get retrieves the session for the request, or nil when absent or
// expired.
func (s *SessionStore) Get(r *http.Request) *Session {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil
	}

	raw, err := s.client.Get(r.Context(), sessionKeyPrefix+cookie.Value).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		s.logger.Warn("session lookup failed", zap.Error(err))
		return nil
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		s.logger.Warn("session payload corrupt", zap.Error(err))
		return nil
	}
	if time.Now().After(session.ExpiresAt) {
		s.Delete(r.Context(), session.ID)
		return nil
	}

	return &session
}

// New creates a session and persists it.
func (s *SessionStore) New(ctx context.Context) *Session {
	session := &Session{
		ID:        randomToken(32),
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(s.maxAge),
	}

	if err := s.Save(ctx, session); err != nil {
		s.logger.Error("failed to persist new session", zap.Error(err))
	}

	return session
}

// Save writes the session to Redis with the remaining lifetime as TTL.
func (s *SessionStore) Save(ctx context.Context, session *Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Minute
	}

	return s.client.Set(ctx, sessionKeyPrefix+session.ID, raw, ttl).Err()
}

// Delete removes a session.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) {
	if err := s.client.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		s.logger.Warn("session delete failed", zap.Error(err))
	}
}

// WriteCookie sets the session cookie on the response.
func (s *SessionStore) WriteCookie(w http.ResponseWriter, session *Session, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
	})
}

// ClearCookie expires the session cookie.
func (s *SessionStore) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

func randomToken(n int) string {
	b := make([]byte, n)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
