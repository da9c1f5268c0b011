package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/boddenberg/moza-banking-bfa-go/internal/domain"
	"github.com/boddenberg/moza-banking-bfa-go/internal/infra/observability"
	"github.com/boddenberg/moza-banking-bfa-go/internal/infra/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newManager(t *testing.T) *session.Manager {
	t.Helper()
	backend := session.NewMemoryBackend(time.Hour)
	t.Cleanup(func() { _ = backend.Close() })
	return session.NewManager(backend, time.Hour, false, observability.NewMetrics(), zap.NewNop())
}

func TestMiddleware_IssuesCookieOnFirstVisit(t *testing.T) {
	m := newManager(t)

	var seen string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = session.IDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, session.CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, cookies[0].Value, seen)
	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
}

func TestMiddleware_ReusesValidCookie(t *testing.T) {
	m := newManager(t)
	sid := uuid.NewString()

	var seen string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = session.IDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/user-dashboard", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sid})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, sid, seen)
	assert.Empty(t, rec.Result().Cookies())
}

func TestMiddleware_ReplacesForgedCookie(t *testing.T) {
	m := newManager(t)

	var seen string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = session.IDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "../../etc"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.NotEqual(t, "../../etc", seen)
	assert.Len(t, rec.Result().Cookies(), 1)
}

func TestStorage_ScopedPerSession(t *testing.T) {
	m := newManager(t)
	a := session.WithID(context.Background(), uuid.NewString())
	b := session.WithID(context.Background(), uuid.NewString())

	require.NoError(t, m.SetItem(a, domain.TokenKey, "token-a"))

	assert.Equal(t, "token-a", m.Token(a))
	assert.Equal(t, "", m.Token(b))

	require.NoError(t, m.RemoveItem(a, domain.TokenKey))
	_, ok := m.GetItem(a, domain.TokenKey)
	assert.False(t, ok)
}

func TestStorage_NoSessionBound(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	assert.Equal(t, "", m.Token(ctx))
	assert.NoError(t, m.RemoveItem(ctx, domain.TokenKey))

	err := m.SetItem(ctx, domain.TokenKey, "x")
	var unauthorized *domain.ErrUnauthorized
	assert.ErrorAs(t, err, &unauthorized)
}

func TestRedisBackend_UnreachableReadsAsAbsent(t *testing.T) {
	backend := session.NewRedisBackend(session.RedisOptions{Addr: "127.0.0.1:1"}, time.Minute)
	defer backend.Close()
	m := session.NewManager(backend, time.Minute, false, observability.NewMetrics(), zap.NewNop())

	ctx, cancel := context.WithTimeout(session.WithID(context.Background(), uuid.NewString()), 2*time.Second)
	defer cancel()

	assert.Error(t, m.Ping(ctx))
	assert.Equal(t, "", m.Token(ctx))
	assert.Error(t, m.SetItem(ctx, domain.TokenKey, "x"))
}
