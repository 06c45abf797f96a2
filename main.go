package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msomdec/forum/internal/config"
	"github.com/msomdec/forum/internal/domain"
	"github.com/msomdec/forum/internal/handler"
	"github.com/msomdec/forum/internal/repository/postgres"
	"github.com/msomdec/forum/internal/repository/sqlite"
	"github.com/msomdec/forum/internal/service"
	"github.com/msomdec/forum/internal/telemetry"
)

const serviceName = "forum"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logOpts := &slog.HandlerOptions{Level: cfg.LogLevel}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	if err := run(cfg); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, serviceName, cfg.OTelEndpoint, cfg.OTelEnabled)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			slog.Error("flush traces", "error", err)
		}
	}()

	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return err
	}
	slog.Info("database migrations applied")

	authService := service.NewAuthService(
		db.Users(),
		db.Sessions(),
		service.NewBcryptHasher(cfg.BcryptCost),
		service.NewJWTCodec(cfg.SessionSecret),
		cfg.SessionTTL,
	)
	forumService := service.NewForumService(db.Users(), db.Posts(), db.Comments())

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, authService, forumService, db, handler.CookieConfig{
		Secure: cfg.CookieSecure,
		TTL:    cfg.SessionTTL,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.RequestLogger(handler.CORS(cfg.CORSAllowedOrigin, handler.SecurityHeaders(mux))),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}

// openStore picks Postgres when DATABASE_URL is set and SQLite otherwise.
func openStore(ctx context.Context, cfg config.Config) (domain.Store, error) {
	if cfg.DatabaseURL != "" {
		slog.Info("using postgres store")
		return postgres.New(ctx, cfg.DatabaseURL)
	}
	slog.Info("using sqlite store", "path", cfg.DatabasePath)
	return sqlite.New(cfg.DatabasePath)
}
