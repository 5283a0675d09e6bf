package application

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/dice-backend/internal/config"
	"github.com/rocketscienceinc/dice-backend/internal/service"
)

func testConfig() *config.Config {
	return &config.Config{
		LogLevel: "info",
		HTTPPort: "0",
		Language: "en",
		Timezone: "UTC",
		Roll:     config.Roll{AutoStop: 3 * time.Second},
		Session:  config.Session{IdleTimeout: time.Minute, SweepInterval: time.Minute},
		Narration: config.Narration{
			Model:   "gemini-test",
			Timeout: time.Second,
		},
		Redis: config.Redis{Host: "127.0.0.1", Port: "1", CacheTTL: time.Minute},
	}
}

func TestNewNarrator(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)

	t.Run("Falls back without an api key", func(t *testing.T) {
		narrator, closeNarrator := newNarrator(ctx, logger, testConfig())
		defer closeNarrator()

		assert.IsType(t, &service.FallbackNarrator{}, narrator)
	})

	t.Run("Falls back when narration is disabled", func(t *testing.T) {
		conf := testConfig()
		conf.Narration.APIKey = "key"
		conf.Narration.Disabled = true

		narrator, closeNarrator := newNarrator(ctx, logger, conf)
		defer closeNarrator()

		assert.IsType(t, &service.FallbackNarrator{}, narrator)
	})

	t.Run("Uses the model when a key is set", func(t *testing.T) {
		conf := testConfig()
		conf.Narration.APIKey = "key"

		narrator, closeNarrator := newNarrator(ctx, logger, conf)
		defer closeNarrator()

		assert.IsType(t, &service.GeminiNarrator{}, narrator)
	})

	t.Run("Skips an unreachable cache", func(t *testing.T) {
		conf := testConfig()
		conf.Narration.APIKey = "key"
		conf.Redis.Enabled = true

		narrator, closeNarrator := newNarrator(ctx, logger, conf)
		defer closeNarrator()

		assert.IsType(t, &service.GeminiNarrator{}, narrator)
	})
}

func TestRunApp(t *testing.T) {
	t.Run("Stops cleanly when the context ends", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() {
			done <- RunApp(ctx, slog.New(slog.DiscardHandler), testConfig())
		}()

		time.Sleep(50 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(10 * time.Second):
			t.Fatal("application did not stop")
		}
	})
}
