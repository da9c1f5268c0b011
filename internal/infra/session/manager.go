package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/boddenberg/moza-banking-bfa-go/internal/domain"
	"github.com/boddenberg/moza-banking-bfa-go/internal/infra/observability"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CookieName is the browser cookie carrying the session id.
const CookieName = "moza_sid"

type contextKey string

const sessionIDKey contextKey = "sessionID"

// Manager binds requests to sessions and implements port.SessionStorage and
// port.TokenSource on top of a Backend.
type Manager struct {
	backend Backend
	ttl     time.Duration
	secure  bool
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewManager creates a session manager.
func NewManager(backend Backend, ttl time.Duration, secureCookie bool, metrics *observability.Metrics, logger *zap.Logger) *Manager {
	return &Manager{
		backend: backend,
		ttl:     ttl,
		secure:  secureCookie,
		metrics: metrics,
		logger:  logger,
	}
}

// Middleware ensures every request carries a session id, issuing a cookie on
// first visit, and binds it to the request context.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := ""
		if c, err := r.Cookie(CookieName); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				sid = c.Value
			}
		}
		if sid == "" {
			sid = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    sid,
				Path:     "/",
				MaxAge:   int(m.ttl.Seconds()),
				HttpOnly: true,
				Secure:   m.secure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), sid)))
	})
}

// WithID returns a context bound to the given session id.
func WithID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sid)
}

// IDFromContext extracts the session id from context.
func IDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(sessionIDKey).(string)
	return v
}

func storageKey(sid, key string) string {
	return fmt.Sprintf("session:%s:%s", sid, key)
}

// GetItem reads a value from the caller's session. Backend failures read as
// absent.
func (m *Manager) GetItem(ctx context.Context, key string) (string, bool) {
	sid := IDFromContext(ctx)
	if sid == "" {
		return "", false
	}
	v, ok, err := m.backend.Get(ctx, storageKey(sid, key))
	if err != nil {
		m.logger.Warn("session: read failed", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return v, ok
}

// SetItem writes a value into the caller's session.
func (m *Manager) SetItem(ctx context.Context, key, value string) error {
	sid := IDFromContext(ctx)
	if sid == "" {
		return &domain.ErrUnauthorized{Message: "no session bound to request"}
	}
	return m.backend.Set(ctx, storageKey(sid, key), value)
}

// RemoveItem deletes a value from the caller's session.
func (m *Manager) RemoveItem(ctx context.Context, key string) error {
	sid := IDFromContext(ctx)
	if sid == "" {
		return nil
	}
	return m.backend.Delete(ctx, storageKey(sid, key))
}

// Token returns the session's bearer token, or "" when none is stored.
func (m *Manager) Token(ctx context.Context) string {
	token, ok := m.GetItem(ctx, domain.TokenKey)
	m.metrics.IncrSessionLookup(ok)
	return token
}

// Ping checks the backend.
func (m *Manager) Ping(ctx context.Context) error {
	return m.backend.Ping(ctx)
}
