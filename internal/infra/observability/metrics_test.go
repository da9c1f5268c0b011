package observability_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/boddenberg/moza-banking-bfa-go/internal/infra/observability"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMetrics_Summary(t *testing.T) {
	m := observability.NewMetrics()

	m.IncrLogin(observability.LoginAdmin)
	m.IncrLogin(observability.LoginAdmin)
	m.IncrLogin(observability.LoginInvalidCredentials)
	m.IncrNotice("transfer")
	m.IncrBackendError("accounts")
	m.IncrSessionLookup(true)
	m.IncrSessionLookup(false)
	m.IncrSessionLookup(false)
	m.RecordBackendCall("ListAccounts", 15*time.Millisecond)

	s := m.Summary()
	assert.Equal(t, float64(2), s.Logins[observability.LoginAdmin])
	assert.Equal(t, float64(1), s.Logins[observability.LoginInvalidCredentials])
	assert.Equal(t, float64(1), s.Notices["transfer"])
	assert.Equal(t, float64(1), s.BackendErrors["accounts"])
	assert.Equal(t, float64(1), s.SessionHits)
	assert.Equal(t, float64(2), s.SessionMisses)
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a := observability.NewMetrics()
	b := observability.NewMetrics()

	a.IncrLogin(observability.LoginCliente)

	assert.Empty(t, b.Summary().Logins)
	count, err := testutil.GatherAndCount(a.Registry, "web_logins_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	logger := observability.NewLogger("verbose")
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
}

func TestZapLoggerMiddleware_LevelsByStatus(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	mw := observability.ZapLoggerMiddleware(zap.New(core))

	statuses := []int{http.StatusOK, http.StatusSeeOther, http.StatusNotFound, http.StatusBadGateway}
	for _, status := range statuses {
		h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if status == http.StatusSeeOther {
				w.Header().Set("Location", "/user-dashboard")
			}
			w.WriteHeader(status)
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/login", nil))
	}

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, zap.InfoLevel, entries[1].Level)
	assert.Equal(t, zap.WarnLevel, entries[2].Level)
	assert.Equal(t, zap.ErrorLevel, entries[3].Level)
	assert.Equal(t, "/user-dashboard", entries[1].ContextMap()["location"])
}

func TestInitTracer_NoEndpointIsNoop(t *testing.T) {
	shutdown, err := observability.InitTracer("", "test")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
