package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel  string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort  string    `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Language  string    `yaml:"language" env:"APP_LANGUAGE" env-default:"zh"`
	Timezone  string    `yaml:"timezone" env:"APP_TIMEZONE" env-default:"Local"`
	Roll      Roll      `yaml:"roll"`
	Session   Session   `yaml:"session"`
	Narration Narration `yaml:"narration"`
	Redis     Redis     `yaml:"redis"`
}

type Roll struct {
	AutoStop time.Duration `yaml:"auto-stop" env:"ROLL_AUTO_STOP" env-default:"3s"`
}

type Session struct {
	IdleTimeout   time.Duration `yaml:"idle-timeout" env:"SESSION_IDLE_TIMEOUT" env-default:"30m"`
	SweepInterval time.Duration `yaml:"sweep-interval" env:"SESSION_SWEEP_INTERVAL" env-default:"1m"`
}

type Narration struct {
	Disabled bool          `yaml:"disabled" env:"NARRATION_DISABLED"`
	APIKey   string        `yaml:"api-key" env:"GEMINI_API_KEY"`
	Model    string        `yaml:"model" env:"NARRATION_MODEL" env-default:"gemini-3-flash-preview"`
	Timeout  time.Duration `yaml:"timeout" env:"NARRATION_TIMEOUT" env-default:"10s"`
	BaseURL  string        `yaml:"base-url" env:"GEMINI_BASE_URL"`
}

type Redis struct {
	Enabled  bool          `yaml:"enabled" env:"REDIS_ENABLED"`
	Host     string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	CacheTTL time.Duration `yaml:"cache-ttl" env:"REDIS_CACHE_TTL" env-default:"1h"`
}

// MustLoad - load all configurations from the config file, .env and the environment.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config: %w", err))
	}

	return config
}

// Load reads path when it exists and falls back to the environment only otherwise.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("unable to load .env file: %w", err)
	}

	config := &Config{}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err = cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("unable to read environment: %w", err)
		}
	default:
		return nil, fmt.Errorf("unable to stat config file: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func (that *Narration) HasCredentials() bool {
	return !that.Disabled && that.APIKey != ""
}

func (that *Config) Location() *time.Location {
	location, err := time.LoadLocation(that.Timezone)
	if err != nil {
		return time.Local
	}

	return location
}
