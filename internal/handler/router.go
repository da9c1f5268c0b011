package handler

import (
	"net/http"

	"github.com/boddenberg/moza-banking-bfa-go/internal/infra/observability"
	"github.com/boddenberg/moza-banking-bfa-go/internal/infra/session"
	"github.com/boddenberg/moza-banking-bfa-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all pages, operational endpoints
// and middleware. checks are run by /healthz.
func NewRouter(login *service.LoginService, dashboards *service.DashboardService, sessions *session.Manager, checks []HealthCheck, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(checks, logger))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	r.Get("/metrics/summary", metricsSummaryHandler(metrics))

	// --- Pages ---
	r.Group(func(r chi.Router) {
		r.Use(sessions.Middleware)

		r.Get("/", rootHandler())

		r.Get(service.RouteLogin, loginPageHandler())
		r.Post(service.RouteLogin, loginSubmitHandler(login, logger))

		r.Get(service.RouteAdminDashboard, adminDashboardHandler(dashboards, logger))
		r.Post(service.RouteAdminDashboard+"/accounts", createAccountHandler(dashboards, logger))

		r.Get(service.RouteUserDashboard, userDashboardHandler(dashboards, logger))
		r.Post(service.RouteUserDashboard+"/transfer", transferHandler(dashboards, logger))
	})

	return r
}

func rootHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, service.RouteLogin, http.StatusSeeOther)
	}
}
