// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
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
	"golang.org/x/sync/errgroup"

	"github.com/starford/jera/internal/api"
	"github.com/starford/jera/internal/calendar"
	"github.com/starford/jera/internal/journal"
	"github.com/starford/jera/internal/notify"
	"github.com/starford/jera/internal/runlog"
	"github.com/starford/jera/internal/schedule"
	"github.com/starford/jera/internal/sse"
	"github.com/starford/jera/internal/storage"
	"github.com/starford/jera/internal/syncgate"
)

// NewLogger builds the structured JSON logger used across the app and
// installs it as the slog default.
func NewLogger(cfg *Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// BuildService wires the journal service from configuration: vault
// storage, run ledger, and notification sink. A nil notifier falls
// back to the structured log. The returned cleanup closes the ledger
// and must be called when the service is done.
func BuildService(cfg *Config, logger *slog.Logger, notifier notify.Notifier, extra ...journal.Option) (*journal.Service, func() error, error) {
	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create vault dir: %w", err)
	}

	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}

	db, err := runlog.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init run ledger: %w", err)
	}

	if notifier == nil {
		notifier = notify.NewLog(logger)
	}
	opts := append([]journal.Option{journal.WithLedger(db)}, extra...)
	svc := journal.NewService(store, cfg.Journal, notifier, logger, opts...)
	return svc, db.Close, nil
}

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config
	logger := NewLogger(cfg)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// SSE broker.
	broker := sse.NewBroker()
	defer broker.Close()

	// Notices reach both the log and connected SSE clients.
	logNotifier := notify.NewLog(logger)
	notifier := notify.Func(func(message string) {
		logNotifier.Notify(message)
		broker.PublishNotice(message)
	})

	svc, cleanup, err := BuildService(cfg, logger, notifier,
		journal.WithCreatedCallback(broker.PublishSlotCreated))
	if err != nil {
		return err
	}
	defer cleanup()

	// Build API router.
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// First reconciliation run, gated on vault sync quiescence when
	// configured.
	g.Go(func() error {
		if cfg.Sync.WaitForSync {
			gate := syncgate.New(cfg.Vault.Path, logger,
				syncgate.WithQuietPeriod(time.Duration(cfg.Sync.QuietPeriod)),
				syncgate.WithMaxWait(time.Duration(cfg.Sync.MaxWait)))
			if err := gate.Wait(gCtx); err != nil {
				return nil // shutdown before the gate opened
			}
		}
		res := svc.Run(gCtx)
		broker.PublishRunCompleted(res.RunID, res.Created(), res.Failed())
		return nil
	})

	// Scheduled re-runs while the server stays up.
	if cfg.Schedule.Enabled {
		loc := calendar.Location(cfg.Journal.Timezone)
		sched, schedErr := schedule.NewScheduler(schedule.RunnerFunc(func(runCtx context.Context) {
			res := svc.Run(runCtx)
			broker.PublishRunCompleted(res.RunID, res.Created(), res.Failed())
		}), loc, logger)
		if schedErr != nil {
			return schedErr
		}
		if err := sched.ScheduleDailyRollover(); err != nil {
			return err
		}
		if err := sched.ScheduleInterval(time.Duration(cfg.Schedule.Interval)); err != nil {
			return err
		}
		sched.Start()
		defer func() {
			if stopErr := sched.Stop(); stopErr != nil {
				logger.Warn("scheduler stop failed", slog.String("error", stopErr.Error()))
			}
		}()
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
