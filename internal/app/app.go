package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/heartmarshall/myenglish-reader/internal/adapter/boltdb"
	"github.com/heartmarshall/myenglish-reader/internal/adapter/postgres"
	"github.com/heartmarshall/myenglish-reader/internal/adapter/postgres/outcome"
	"github.com/heartmarshall/myenglish-reader/internal/config"
	"github.com/heartmarshall/myenglish-reader/internal/service/translation"
)

// Run is the server entry point. It loads configuration, connects the
// optional outcome log, builds the translation service and serves HTTP
// until ctx is canceled, then shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("llm_provider", cfg.LLM.Provider),
		slog.String("outcome_log", outcomeLogKind(cfg)),
	)

	deps := Deps{Version: BuildVersion()}

	switch {
	case cfg.Database.Enabled():
		store, closeStore, err := openOutcomeStore(ctx, cfg.Database, logger)
		if err != nil {
			return err
		}
		defer closeStore()
		deps.DB = store.pool
		deps.Outcomes = store.repo
	case cfg.Outcomes.BoltPath != "":
		store, err := boltdb.Open(cfg.Outcomes.BoltPath)
		if err != nil {
			return err
		}
		defer store.Close()
		logger.Info("bolt outcome log opened", slog.String("path", cfg.Outcomes.BoltPath))
		deps.DB = store
		deps.Outcomes = store
	}

	completer, err := NewCompleter(cfg.LLM, logger)
	if err != nil {
		return err
	}
	deps.Translator = translation.NewService(logger, completer, deps.Outcomes)
	deps.ProviderName = completer.Name()

	router := NewRouter(cfg, deps, logger)
	defer router.Close()

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	return serve(ctx, srv, cfg.Server.ShutdownTimeout, logger)
}

func serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", shutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	return nil
}

type outcomeStore struct {
	pool interface {
		Ping(ctx context.Context) error
	}
	repo *outcome.Repo
}

// openOutcomeStore connects to PostgreSQL, applies migrations when enabled
// and returns the outcome repository.
func openOutcomeStore(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (outcomeStore, func(), error) {
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if cfg.AutoMigrate {
		applied, err := postgres.Migrate(connectCtx, cfg.DSN)
		if err != nil {
			return outcomeStore{}, nil, err
		}
		logger.Info("database migrations applied", slog.Int("count", applied))
	}

	pool, err := postgres.NewPool(connectCtx, cfg)
	if err != nil {
		return outcomeStore{}, nil, err
	}

	return outcomeStore{pool: pool, repo: outcome.New(pool)}, pool.Close, nil
}

func outcomeLogKind(cfg *config.Config) string {
	switch {
	case cfg.Database.Enabled():
		return "postgres"
	case cfg.Outcomes.BoltPath != "":
		return "bolt"
	default:
		return "disabled"
	}
}
