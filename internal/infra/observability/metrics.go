package observability

import (
	"time"

	"github.com/boddenberg/moza-banking-bfa-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Login outcomes recorded by IncrLogin.
const (
	LoginAdmin               = "admin"
	LoginCliente             = "cliente"
	LoginUnauthorizedProfile = "unauthorized_profile"
	LoginInvalidCredentials  = "invalid_credentials"
	LoginInvalidForm         = "invalid_form"
)

// Metrics holds all Prometheus metrics for the web client.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	backendDuration *prometheus.HistogramVec
	backendErrors   *prometheus.CounterVec
	logins          *prometheus.CounterVec
	notices         *prometheus.CounterVec
	sessionHits     prometheus.Counter
	sessionMisses   prometheus.Counter
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		backendDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "web_backend_call_duration_seconds",
				Help:    "Duration of banking backend calls by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		backendErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "web_backend_errors_total",
				Help: "Total failed banking backend calls.",
			},
			[]string{"service"},
		),
		logins: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "web_logins_total",
				Help: "Login attempts by outcome.",
			},
			[]string{"outcome"},
		),
		notices: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "web_notices_total",
				Help: "Failure notices shown to users, by action.",
			},
			[]string{"action"},
		),
		sessionHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "web_session_token_hits_total",
			Help: "Session token lookups that found a token.",
		}),
		sessionMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "web_session_token_misses_total",
			Help: "Session token lookups that found nothing.",
		}),
	}
}

// RecordBackendCall records the duration of a backend call.
func (m *Metrics) RecordBackendCall(operation string, d time.Duration) {
	m.backendDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrBackendError increments the backend error counter.
func (m *Metrics) IncrBackendError(service string) {
	m.backendErrors.WithLabelValues(service).Inc()
}

// IncrLogin counts a login attempt by outcome.
func (m *Metrics) IncrLogin(outcome string) {
	m.logins.WithLabelValues(outcome).Inc()
}

// IncrNotice counts a failure notice for the given action.
func (m *Metrics) IncrNotice(action string) {
	m.notices.WithLabelValues(action).Inc()
}

// IncrSessionLookup counts a session token lookup.
func (m *Metrics) IncrSessionLookup(hit bool) {
	if hit {
		m.sessionHits.Inc()
		return
	}
	m.sessionMisses.Inc()
}

// Summary returns a snapshot of the counters for GET /metrics/summary.
func (m *Metrics) Summary() *domain.MetricsSummary {
	return &domain.MetricsSummary{
		Logins:        collectByLabel(m.logins, "outcome"),
		Notices:       collectByLabel(m.notices, "action"),
		BackendErrors: collectByLabel(m.backendErrors, "service"),
		SessionHits:   counterValue(m.sessionHits),
		SessionMisses: counterValue(m.sessionMisses),
	}
}

// collectByLabel reads every child of a CounterVec keyed by one label.
func collectByLabel(cv *prometheus.CounterVec, label string) map[string]float64 {
	out := make(map[string]float64)
	ch := make(chan prometheus.Metric)
	go func() {
		cv.Collect(ch)
		close(ch)
	}()
	for metric := range ch {
		pb := &dto.Metric{}
		if err := metric.Write(pb); err != nil || pb.Counter == nil {
			continue
		}
		for _, lp := range pb.GetLabel() {
			if lp.GetName() == label {
				out[lp.GetValue()] = pb.Counter.GetValue()
			}
		}
	}
	return out
}

// counterValue extracts the current float64 value from a Counter.
func counterValue(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
