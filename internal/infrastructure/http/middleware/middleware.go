// Package middleware provides HTTP middleware for the API server.
package middleware

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/recipify/v2/internal/infrastructure/config"
	"github.com/recipify/v2/internal/infrastructure/security"
)

type contextKey string

const (
	userIDKey contextKey = "user_id"
	emailKey  contextKey = "user_email"
)

// Logger logs each request with method, path, status and duration.
func Logger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(ww, r)

			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.status),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote_addr", r.RemoteAddr),
			)
		})
	}
}

// SecurityHeaders sets baseline security headers on every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com; style-src 'self' 'unsafe-inline'")
		next.ServeHTTP(w, r)
	})
}

// Authenticate validates the Bearer token and puts the user identity
// on the request context. Requests without a valid token get 401.
func Authenticate(authService *security.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w, "missing or malformed authorization header")
				return
			}

			claims, err := authService.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			ctx = context.WithValue(ctx, emailKey, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithUserID returns a context carrying the given user identity. The
// web front end uses it after session lookup, where no Bearer token is
// present.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID.String())
}

// GetUserIDFromContext returns the authenticated user ID, or uuid.Nil
// when the request was not authenticated.
func GetUserIDFromContext(ctx context.Context) uuid.UUID {
	raw, ok := ctx.Value(userIDKey).(string)
	if !ok {
		return uuid.Nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// GetEmailFromContext returns the authenticated user's email, if any.
func GetEmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(emailKey).(string)
	return email
}

// RateLimit limits requests per client IP using a token bucket per
// visitor, refilled at the configured requests-per-minute rate.
func RateLimit(cfg *config.RateLimitConfig) func(http.Handler) http.Handler {
	rpm := cfg.RequestsPerMin
	if rpm <= 0 {
		rpm = 120
	}
	burst := cfg.BurstSize
	if burst <= 0 {
		burst = rpm
	}

	visitors := &visitorLimiters{
		limit:    rate.Limit(rpm) / 60,
		burst:    burst,
		limiters: make(map[string]*visitor),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enable {
				next.ServeHTTP(w, r)
				return
			}

			if !visitors.get(clientIP(r)).Allow() {
				w.Header().Set("Retry-After", "60")
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type visitor struct {
	*rate.Limiter
	lastSeen time.Time
}

type visitorLimiters struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*visitor
}

func (v *visitorLimiters) get(ip string) *rate.Limiter {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := time.Now()
	entry, ok := v.limiters[ip]
	if !ok {
		entry = &visitor{Limiter: rate.NewLimiter(v.limit, v.burst)}
		v.limiters[ip] = entry
		// Opportunistic cleanup keeps the map from growing unbounded.
		if len(v.limiters) > 10000 {
			for key, other := range v.limiters {
				if now.Sub(other.lastSeen) > 10*time.Minute {
					delete(v.limiters, key)
				}
			}
		}
	}
	entry.lastSeen = now

	return entry.Limiter
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.IndexByte(fwd, ','); idx > 0 {
			return strings.TrimSpace(fwd[:idx])
		}
		return strings.TrimSpace(fwd)
	}

	host := r.RemoteAddr
	if idx := strings.LastIndexByte(host, ':'); idx > 0 {
		host = host[:idx]
	}
	return host
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"success":false,"error":"` + message + `"}`))
}

// responseWriter captures the status code for logging and metrics.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
