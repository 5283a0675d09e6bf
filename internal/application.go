package application

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/dice-backend/internal/config"
	"github.com/rocketscienceinc/dice-backend/internal/presenter"
	"github.com/rocketscienceinc/dice-backend/internal/repository"
	"github.com/rocketscienceinc/dice-backend/internal/repository/storage"
	"github.com/rocketscienceinc/dice-backend/internal/service"
	"github.com/rocketscienceinc/dice-backend/internal/usecase"
	"github.com/rocketscienceinc/dice-backend/transport/rest"
	"github.com/rocketscienceinc/dice-backend/transport/websocket"
)

// RunApp - runs the application until a signal arrives, ctx is done or a server fails.
func RunApp(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	narrator, closeNarrator := newNarrator(ctx, logger, conf)
	defer closeNarrator()

	sessions := usecase.NewSessionManager(logger, narrator, usecase.SessionConfig{
		AutoStop:      conf.Roll.AutoStop,
		IdleTimeout:   conf.Session.IdleTimeout,
		SweepInterval: conf.Session.SweepInterval,
	})
	defer sessions.Close()

	opts := presenter.Options{
		Language: conf.Language,
		Location: conf.Location(),
		AutoStop: conf.Roll.AutoStop,
	}

	router := rest.NewRouter(
		rest.NewHandlers(logger, sessions, opts),
		websocket.New(logger, sessions, opts),
	)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return sessions.Run(groupCtx)
	})

	group.Go(func() error {
		return rest.Start(groupCtx, logger, conf.HTTPPort, router)
	})

	if err := group.Wait(); err != nil {
		return fmt.Errorf("application stopped: %w", err)
	}

	log.Info("application stopped")

	return nil
}

// newNarrator picks the richest narrator the configuration allows. It never fails,
// the dice work without any narration service.
func newNarrator(ctx context.Context, logger *slog.Logger, conf *config.Config) (service.Narrator, func()) {
	log := logger.With("component", "app", "method", "newNarrator")

	noop := func() {}
	fallback := service.NewFallbackNarrator(conf.Language)

	if !conf.Narration.HasCredentials() {
		log.Info("narration service is not configured, using local narration")
		return fallback, noop
	}

	gemini, err := service.NewGeminiNarrator(ctx, logger, service.GeminiConfig{
		APIKey:   conf.Narration.APIKey,
		Model:    conf.Narration.Model,
		BaseURL:  conf.Narration.BaseURL,
		Timeout:  conf.Narration.Timeout,
		Language: conf.Language,
	})
	if err != nil {
		log.Warn("narration service is unavailable, using local narration", "error", err)
		return fallback, noop
	}

	if !conf.Redis.Enabled {
		return gemini, noop
	}

	redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		log.Warn("narration cache is unavailable", "error", err)
		return gemini, noop
	}

	narrationRepo := repository.NewNarrationRepository(redisStorage.Connection, conf.Redis.CacheTTL)

	return service.NewCachedNarrator(logger, gemini, narrationRepo, conf.Language), func() {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}
}
