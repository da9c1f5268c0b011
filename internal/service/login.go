// Package service holds the view-controllers behind each page: the login
// flow and the admin and user dashboards. Each controller owns the state it
// renders and delegates every business decision to the banking backend.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/boddenberg/moza-banking-bfa-go/internal/domain"
	"github.com/boddenberg/moza-banking-bfa-go/internal/infra/observability"
	"github.com/boddenberg/moza-banking-bfa-go/internal/port"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var loginTracer = otel.Tracer("service/login")

// Page routes.
const (
	RouteLogin          = "/login"
	RouteAdminDashboard = "/admin-dashboard"
	RouteUserDashboard  = "/user-dashboard"
)

// LoginService runs the login flow: authenticate, keep the token in the
// session, and pick the dashboard from the token's role claim.
type LoginService struct {
	auth    port.Authenticator
	storage port.SessionStorage
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewLoginService creates the login flow.
func NewLoginService(auth port.Authenticator, storage port.SessionStorage, metrics *observability.Metrics, logger *zap.Logger) *LoginService {
	return &LoginService{auth: auth, storage: storage, metrics: metrics, logger: logger}
}

// LoginResult tells the page what to do next. Redirect is empty when the
// user stays on the login page.
type LoginResult struct {
	Redirect string
	Notices  []Notice
	Username string
}

// Submit runs one login attempt.
func (s *LoginService) Submit(ctx context.Context, form domain.LoginForm) LoginResult {
	ctx, span := loginTracer.Start(ctx, "LoginService.Submit")
	defer span.End()

	result := LoginResult{Username: form.Username}

	if err := form.Validate(); err != nil {
		s.metrics.IncrLogin(observability.LoginInvalidForm)
		s.metrics.IncrNotice(actionValidation)
		result.Notices = append(result.Notices, failure(MsgInvalidForm))
		return result
	}

	if err := s.storage.RemoveItem(ctx, domain.TokenKey); err != nil {
		s.logger.Warn("login: failed to clear previous token", zap.Error(err))
	}

	token, err := s.auth.Login(ctx, form.Request())
	if err != nil {
		s.logger.Warn("login: authentication failed",
			zap.String("username", form.Username),
			zap.Error(err),
		)
		s.metrics.IncrLogin(observability.LoginInvalidCredentials)
		s.metrics.IncrNotice(actionLogin)
		result.Notices = append(result.Notices, failure(MsgInvalidCredentials))
		return result
	}

	if err := s.storage.SetItem(ctx, domain.TokenKey, token); err != nil {
		s.logger.Error("login: failed to store token", zap.Error(err))
	}

	role, err := RoleFromToken(token)
	if err != nil {
		s.logger.Warn("login: unreadable token", zap.String("username", form.Username), zap.Error(err))
	}
	span.SetAttributes(attribute.String("role", role))

	route, ok := RouteForRole(role)
	if !ok {
		s.metrics.IncrLogin(observability.LoginUnauthorizedProfile)
		s.metrics.IncrNotice(actionProfile)
		result.Notices = append(result.Notices, failure(MsgUnauthorizedProfile))
		return result
	}

	if role == domain.RoleAdmin {
		s.metrics.IncrLogin(observability.LoginAdmin)
	} else {
		s.metrics.IncrLogin(observability.LoginCliente)
	}
	s.logger.Info("user logged in", zap.String("username", form.Username), zap.String("role", role))

	result.Redirect = route
	return result
}

// RouteForRole maps a role claim to its dashboard.
func RouteForRole(role string) (string, bool) {
	switch role {
	case domain.RoleAdmin:
		return RouteAdminDashboard, true
	case domain.RoleCliente:
		return RouteUserDashboard, true
	default:
		return "", false
	}
}

// RoleFromToken reads the role claim without verifying the signature; the
// backend verifies the token on every call. It accepts a "role" string or
// the first element of a "roles" list.
func RoleFromToken(token string) (string, error) {
	if token == "" {
		return "", &domain.ErrUnauthorized{Message: "empty token"}
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("decode token: %w", err)
	}

	if role, ok := claims["role"].(string); ok && role != "" {
		return role, nil
	}
	if roles, ok := claims["roles"].([]any); ok && len(roles) > 0 {
		if role, ok := roles[0].(string); ok {
			return role, nil
		}
	}
	return "", errors.New("token carries no role claim")
}
