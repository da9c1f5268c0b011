package service

import (
	"github.com/boddenberg/moza-banking-bfa-go/internal/infra/observability"
	"github.com/boddenberg/moza-banking-bfa-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var dashTracer = otel.Tracer("service/dashboard")

// DashboardService builds a fresh dashboard controller per page visit.
type DashboardService struct {
	accounts     port.AccountsAPI
	transactions port.TransactionsAPI
	metrics      *observability.Metrics
	logger       *zap.Logger
}

// NewDashboardService creates the dashboard factory.
func NewDashboardService(accounts port.AccountsAPI, transactions port.TransactionsAPI, metrics *observability.Metrics, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		accounts:     accounts,
		transactions: transactions,
		metrics:      metrics,
		logger:       logger,
	}
}

// Admin returns an unactivated admin dashboard.
func (s *DashboardService) Admin() *AdminDashboard {
	return newAdminDashboard(s)
}

// User returns an unactivated user dashboard.
func (s *DashboardService) User() *UserDashboard {
	return newUserDashboard(s)
}
