package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/p-n-ai/verse-quiz/internal/corpus"
	"github.com/p-n-ai/verse-quiz/internal/history"
	"github.com/p-n-ai/verse-quiz/internal/httpapi"
	"github.com/p-n-ai/verse-quiz/internal/platform/cache"
	"github.com/p-n-ai/verse-quiz/internal/platform/config"
	"github.com/p-n-ai/verse-quiz/internal/platform/database"
	"github.com/p-n-ai/verse-quiz/internal/play"
	"github.com/p-n-ai/verse-quiz/internal/quiz"
)

const sweepInterval = time.Minute

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg.Log, os.Stdout))

	// Graceful shutdown on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	c, err := corpus.Load(cfg.CorpusPath)
	if err != nil {
		return err
	}

	store, closeStore, err := openHistoryStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	log := history.NewLog(history.LogConfig{
		Store:      store,
		Key:        cfg.History.Key,
		MaxEntries: cfg.History.MaxEntries,
	})
	recorder := history.NewRecorder(log, cfg.History.QueueSize)
	defer recorder.Close()

	sessions, err := play.NewManager(play.ManagerConfig{
		Items:         c.Items(),
		Rounds:        cfg.Quiz.Rounds,
		DefaultMode:   quiz.Mode(cfg.Quiz.Mode),
		UniqueAnswers: cfg.Quiz.UniqueAnswers,
		Seed:          cfg.Quiz.Seed,
		History:       recorder,
	})
	if err != nil {
		return err
	}
	go sweepIdle(ctx, sessions, cfg.Quiz.IdleTimeout)

	srv := &http.Server{
		Addr: fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: httpapi.New(httpapi.Config{
			Corpus:   c,
			Sessions: sessions,
			Ready:    log,
			History:  log,
		}),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting",
			"addr", srv.Addr,
			"history_backend", cfg.History.Backend,
			"mode", cfg.Quiz.Mode,
			"rounds", cfg.Quiz.Rounds,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	return nil
}

// newLogger builds the process logger from the log settings.
func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// openHistoryStore connects the configured history backend. The returned
// func releases it.
func openHistoryStore(ctx context.Context, cfg *config.Config) (history.Store, func(), error) {
	switch cfg.History.Backend {
	case config.BackendMemory:
		return history.NewMemoryStore(), func() {}, nil

	case config.BackendRedis:
		client, err := cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return history.NewRedisStore(client), func() { _ = client.Close() }, nil

	case config.BackendPostgres:
		db, err := database.New(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		store, err := history.NewPostgresStore(ctx, db.Pool)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, db.Close, nil

	case config.BackendSQLite:
		store, err := history.OpenSQLiteStore(ctx, cfg.History.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown history backend %q", cfg.History.Backend)
}

func sweepIdle(ctx context.Context, sessions *play.Manager, maxIdle time.Duration) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sessions.Sweep(maxIdle)
		}
	}
}
