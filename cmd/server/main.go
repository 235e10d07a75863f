// @title Accounts API
// @version 1.0
// @description Account registration and login with signed session tokens.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "accounts-backend/docs"
	"accounts-backend/internal/audit"
	"accounts-backend/internal/auth"
	"accounts-backend/internal/config"
	"accounts-backend/internal/logging"
	"accounts-backend/internal/storage"
)

func main() {
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)
	if err := run(logger); err != nil {
		logger.Error(context.Background(), "server exited", "error", err)
		os.Exit(1)
	}
}

func run(logger logging.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := connectWithRetry(ctx, logger, dbAttempts, dbRetryDelay, func(ctx context.Context) (*sqlx.DB, error) {
		return sqlx.ConnectContext(ctx, "postgres", cfg.DatabaseDSN)
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	logger.Info(ctx, "connected to database")

	if err := storage.Migrate(ctx, db.DB); err != nil {
		return err
	}
	store := storage.NewStorage(db)

	var auditor auth.Auditor = audit.NewLogPublisher(logger)
	if cfg.NATSURL != "" {
		pub, err := audit.Connect(cfg.NATSURL, cfg.AuditSubject, logger)
		if err != nil {
			return err
		}
		defer pub.Close()
		auditor = pub
	}

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpire)
	service := auth.NewService(store, auth.NewBcryptHasher(cfg.BcryptCost), issuer, auditor, logger)
	h := auth.NewHandler(service, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	h.RegisterRoutes(r)
	r.Get("/healthz", healthHandler(store))
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "server starting", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info(context.Background(), "server stopped")
	return nil
}

const (
	dbAttempts   = 10
	dbRetryDelay = 2 * time.Second
)

// connectWithRetry calls connect up to attempts times, waiting delay between
// failures. It stops early when ctx is cancelled.
func connectWithRetry(ctx context.Context, logger logging.Logger, attempts int, delay time.Duration, connect func(context.Context) (*sqlx.DB, error)) (*sqlx.DB, error) {
	var err error
	for i := 1; i <= attempts; i++ {
		var db *sqlx.DB
		db, err = connect(ctx)
		if err == nil {
			return db, nil
		}
		logger.Warn(ctx, "database connection attempt failed", "attempt", i, "error", err)
		if i == attempts {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w (last error: %w)", ctx.Err(), err)
		case <-timer.C:
		}
	}
	return nil, err
}

type pinger interface {
	Ping(ctx context.Context) error
}

func healthHandler(p pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status, body := http.StatusOK, map[string]string{"status": "ok"}
		if err := p.Ping(ctx); err != nil {
			status, body = http.StatusServiceUnavailable, map[string]string{"status": "unavailable"}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}
