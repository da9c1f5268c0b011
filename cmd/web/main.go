package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boddenberg/moza-banking-bfa-go/internal/config"
	"github.com/boddenberg/moza-banking-bfa-go/internal/handler"
	"github.com/boddenberg/moza-banking-bfa-go/internal/infra/client"
	"github.com/boddenberg/moza-banking-bfa-go/internal/infra/observability"
	"github.com/boddenberg/moza-banking-bfa-go/internal/infra/resilience"
	"github.com/boddenberg/moza-banking-bfa-go/internal/infra/session"
	"github.com/boddenberg/moza-banking-bfa-go/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("backend_url", cfg.BackendURL),
		zap.String("session_backend", cfg.SessionBackend),
		zap.Duration("session_ttl", cfg.SessionTTL),
		zap.Bool("tracing_enabled", cfg.TracingEnabled),
	)

	// --- Tracing ---
	endpoint := ""
	if cfg.TracingEnabled {
		endpoint = cfg.OTLPEndpoint
	}
	shutdown, err := observability.InitTracer(endpoint, "moza-banking-web")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Session store ---
	var store session.Backend
	switch cfg.SessionBackend {
	case config.SessionRedis:
		logger.Info("using Redis session store", zap.String("redis_addr", cfg.RedisAddr), zap.Int("redis_db", cfg.RedisDB))
		store = session.NewRedisBackend(session.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, cfg.SessionTTL)
	default:
		logger.Info("using in-memory session store")
		store = session.NewMemoryBackend(cfg.SessionTTL)
	}
	defer store.Close()

	sessions := session.NewManager(store, cfg.SessionTTL, cfg.CookieSecure, metrics, logger)

	// --- Resilience ---
	// The breaker only guards the /healthz backend check; page calls go out unguarded.
	healthBreaker := resilience.NewCircuitBreaker("banking-backend-health", nil)

	// --- Clients ---
	backend := client.NewBackend(client.NewHTTPClient(), cfg.BackendURL, sessions, healthBreaker, metrics, logger)

	authClient := client.NewAuthClient(backend)
	accountClient := client.NewAccountClient(backend)
	transactionClient := client.NewTransactionClient(backend)

	// --- Services ---
	loginSvc := service.NewLoginService(authClient, sessions, metrics, logger)
	dashboards := service.NewDashboardService(accountClient, transactionClient, metrics, logger)

	// --- Router ---
	checks := []handler.HealthCheck{
		{Name: "session-store", Check: sessions.Ping},
		{Name: "banking-backend", Check: backend.Ping},
	}
	router := handler.NewRouter(loginSvc, dashboards, sessions, checks, metrics, logger)

	// --- Server ---
	// No WriteTimeout: a page waits for the backend as long as it takes.
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
