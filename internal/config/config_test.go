package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Applies defaults when the config file is missing", func(t *testing.T) {
		t.Chdir(t.TempDir())

		// When: loading a config path that does not exist
		conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		// Then: defaults should be applied
		require.NoError(t, err)
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, "zh", conf.Language)
		assert.Equal(t, 3*time.Second, conf.Roll.AutoStop)
		assert.Equal(t, 30*time.Minute, conf.Session.IdleTimeout)
		assert.Equal(t, "gemini-3-flash-preview", conf.Narration.Model)
		assert.Equal(t, 10*time.Second, conf.Narration.Timeout)
		assert.False(t, conf.Redis.Enabled)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
	})

	t.Run("Reads values from the config file", func(t *testing.T) {
		t.Chdir(t.TempDir())

		// Given: a config file overriding a few values
		path := filepath.Join(t.TempDir(), "config.yml")
		content := "log-level: debug\nlanguage: en\nroll:\n  auto-stop: 5s\nredis:\n  enabled: true\n  port: \"6380\"\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		// When: loading it
		conf, err := Load(path)

		// Then: file values win over defaults
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "en", conf.Language)
		assert.Equal(t, 5*time.Second, conf.Roll.AutoStop)
		assert.True(t, conf.Redis.Enabled)
		assert.Equal(t, "localhost:6380", conf.Redis.GetRedisAddr())
	})

	t.Run("Reads the narration key from the environment", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("GEMINI_API_KEY", "secret")

		conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		require.NoError(t, err)
		assert.Equal(t, "secret", conf.Narration.APIKey)
		assert.True(t, conf.Narration.HasCredentials())
	})
}

func TestNarration_HasCredentials(t *testing.T) {
	assert.False(t, (&Narration{}).HasCredentials())
	assert.False(t, (&Narration{APIKey: "key", Disabled: true}).HasCredentials())
	assert.True(t, (&Narration{APIKey: "key"}).HasCredentials())
}

func TestConfig_Location(t *testing.T) {
	assert.Equal(t, time.UTC, (&Config{Timezone: "UTC"}).Location())
	assert.Equal(t, time.Local, (&Config{Timezone: "Not/AZone"}).Location())
}
