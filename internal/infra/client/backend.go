// Package client calls the banking backend over HTTP. Every authenticated
// call reads the session token at call time and sends it as a Bearer token.
// Each call goes out once, with no client-side limit or deadline.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/boddenberg/moza-banking-bfa-go/internal/domain"
	"github.com/boddenberg/moza-banking-bfa-go/internal/infra/observability"
	"github.com/boddenberg/moza-banking-bfa-go/internal/port"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("client")

// Backend API paths.
const (
	loginPath         = "/api/v1/auth/login"
	createAccountPath = "/api/v1/accounts/create"
	listAccountsPath  = "/api/v1/accounts/"
	myAccountPath     = "/api/v1/accounts/me"
	transferPath      = "/api/v1/transactions/transfer"
	extractPath       = "/api/v1/transactions/extract"
)

// Backend is the shared transport for the banking backend clients. Apart
// from the token read per call it keeps no request state: every call goes
// out exactly once, unthrottled, and is bounded only by its context.
type Backend struct {
	httpClient    *http.Client
	baseURL       string
	tokens        port.TokenSource
	healthBreaker *gobreaker.CircuitBreaker
	metrics       *observability.Metrics
	logger        *zap.Logger
}

// NewHTTPClient returns the client used for backend calls. It sets no
// timeout; cancellation comes from the request context.
func NewHTTPClient() *http.Client {
	return &http.Client{}
}

// NewBackend creates the shared transport. tokens may be nil for callers
// that only use unauthenticated endpoints. healthBreaker guards Ping only and
// may be nil.
func NewBackend(httpClient *http.Client, baseURL string, tokens port.TokenSource, healthBreaker *gobreaker.CircuitBreaker, metrics *observability.Metrics, logger *zap.Logger) *Backend {
	return &Backend{
		httpClient:    httpClient,
		baseURL:       strings.TrimRight(baseURL, "/"),
		tokens:        tokens,
		healthBreaker: healthBreaker,
		metrics:       metrics,
		logger:        logger,
	}
}

// call describes one backend request.
type call struct {
	service   string // accounts, transactions, auth
	operation string
	method    string
	path      string
	body      any
	auth      bool
}

// bearer builds the Authorization header value from the current token.
func (b *Backend) bearer(ctx context.Context) string {
	token := ""
	if b.tokens != nil {
		token = b.tokens.Token(ctx)
	}
	return "Bearer " + token
}

// do executes c once and returns the response body of a 2xx answer.
func (b *Backend) do(ctx context.Context, c call) ([]byte, error) {
	ctx, span := tracer.Start(ctx, c.operation)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", c.method),
		attribute.String("backend.path", c.path),
	)

	start := time.Now()
	defer func() { b.metrics.RecordBackendCall(c.operation, time.Since(start)) }()

	body, err := b.roundTrip(ctx, c)
	if err != nil {
		var status *domain.ErrBackendStatus
		if errors.As(err, &status) {
			span.SetAttributes(attribute.Int("http.status_code", status.Status))
			return nil, b.fail(span, c, err)
		}
		return nil, b.fail(span, c, &domain.ErrExternalService{Service: c.service, Err: err})
	}

	span.SetAttributes(attribute.Int("http.status_code", http.StatusOK))
	return body, nil
}

func (b *Backend) roundTrip(ctx context.Context, c call) ([]byte, error) {
	var reader io.Reader
	if c.body != nil {
		payload, err := json.Marshal(c.body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	url := b.baseURL + c.path
	req, err := http.NewRequestWithContext(ctx, c.method, url, reader)
	if err != nil {
		return nil, err
	}
	if c.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json, text/plain")
	if c.auth {
		req.Header.Set("Authorization", b.bearer(ctx))
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.ErrBackendStatus{Service: c.service, Status: resp.StatusCode, Body: string(body)}
	}

	b.logger.Debug("backend: request OK",
		zap.String("method", c.method),
		zap.String("path", c.path),
		zap.Int("status", resp.StatusCode),
	)
	return body, nil
}

func (b *Backend) fail(span trace.Span, c call, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	b.metrics.IncrBackendError(c.service)
	b.logger.Warn("backend: call failed",
		zap.String("operation", c.operation),
		zap.String("method", c.method),
		zap.String("path", c.path),
		zap.Error(err),
	)
	return err
}

// Ping checks that the backend answers HTTP at all. Any status counts as
// reachable; only transport failures are reported. Repeated failures open
// the health breaker so health checks stop dialing a dead backend.
func (b *Backend) Ping(ctx context.Context) error {
	if b.healthBreaker == nil {
		return b.ping(ctx)
	}
	_, err := b.healthBreaker.Execute(func() (any, error) {
		return nil, b.ping(ctx)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &domain.ErrCircuitOpen{Service: "backend"}
	}
	return err
}

func (b *Backend) ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, b.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return &domain.ErrExternalService{Service: "backend", Err: err}
	}
	resp.Body.Close()
	return nil
}

// decodeJSON decodes a JSON body into v, wrapping failures as external errors.
func decodeJSON(service string, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &domain.ErrExternalService{Service: service, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
