package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/boddenberg/moza-banking-bfa-go/internal/domain"
	"github.com/boddenberg/moza-banking-bfa-go/internal/infra/observability"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// healthCheckTimeout bounds each dependency check.
const healthCheckTimeout = 2 * time.Second

// HealthCheck checks one dependency for /healthz.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// ============================================================
// 4. Métricas & Health
// ============================================================

func healthzHandler(checks []HealthCheck, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().Format(time.RFC3339)

		services := make([]domain.ServiceHealth, len(checks)+1)
		services[0] = domain.ServiceHealth{Name: "web", Status: "healthy", LastChecked: now}

		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		var g errgroup.Group
		for i, c := range checks {
			i, c := i, c
			g.Go(func() error {
				start := time.Now()
				err := c.Check(ctx)
				status := "healthy"
				if err != nil {
					status = "degraded"
					logger.Warn("healthz: dependency check failed", zap.String("dependency", c.Name), zap.Error(err))
				}
				services[i+1] = domain.ServiceHealth{
					Name:        c.Name,
					Status:      status,
					LatencyMs:   time.Since(start).Milliseconds(),
					LastChecked: now,
				}
				return nil
			})
		}
		_ = g.Wait()

		overallStatus := "healthy"
		for _, s := range services {
			if s.Status != "healthy" {
				overallStatus = "degraded"
				break
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overallStatus,
			Services: services,
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func metricsSummaryHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.Summary())
	}
}
