// Package config loads the server configuration from a TOML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DevJWTSecret is used when no secret is configured. It must not be used in
// production.
const DevJWTSecret = "groupswipe-dev-secret"

const (
	RealtimeMemory = "memory"
	RealtimeRedis  = "redis"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config represents the entire server configuration.
type Config struct {
	Server   Server   `koanf:"server"`
	Database Database `koanf:"database"`
	Auth     Auth     `koanf:"auth"`
	Matching Matching `koanf:"matching"`
	Realtime Realtime `koanf:"realtime"`
	Push     Push     `koanf:"push"`
	Log      Log      `koanf:"log"`
}

type Server struct {
	// Listen address of the Connect API, e.g. ":8080".
	Addr string `koanf:"addr"`
	// Listen address of the Prometheus endpoint. Empty serves /metrics on Addr.
	MetricsAddr string `koanf:"metrics_addr"`
	// Grace period for in-flight requests on shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type Database struct {
	// Path of the SQLite database file.
	Path string `koanf:"path"`
}

type Auth struct {
	JWTSecret string        `koanf:"jwt_secret"`
	TokenTTL  time.Duration `koanf:"token_ttl"`
}

type Matching struct {
	// How long a group stays discoverable after activation.
	ActivationWindow time.Duration `koanf:"activation_window"`
}

type Realtime struct {
	// Backend is "memory" for a single instance or "redis" to share message
	// events between instances.
	Backend string `koanf:"backend"`
	Redis   Redis  `koanf:"redis"`
}

type Redis struct {
	Addr     string `koanf:"addr"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

type Push struct {
	// Disabled turns off push notifications entirely.
	Disabled    bool          `koanf:"disabled"`
	Endpoint    string        `koanf:"endpoint"`
	Concurrency int           `koanf:"concurrency"`
	Timeout     time.Duration `koanf:"timeout"`
}

type Log struct {
	// Log level (debug, info, warn, error).
	Level string `koanf:"level"`
}

// Default returns the configuration used when nothing else is specified.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the TOML file at path, fills unset fields with defaults and
// applies environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.Addr, ":8080")
	setDefault(&c.Server.ShutdownTimeout, 10*time.Second)
	setDefault(&c.Database.Path, "./data/groupswipe.db")
	setDefault(&c.Auth.JWTSecret, DevJWTSecret)
	setDefault(&c.Auth.TokenTTL, 7*24*time.Hour)
	setDefault(&c.Matching.ActivationWindow, 4*time.Hour)
	setDefault(&c.Realtime.Backend, RealtimeMemory)
	setDefault(&c.Realtime.Redis.Addr, "localhost:6379")
	setDefault(&c.Push.Endpoint, "https://api.expo.dev/v2/push/send")
	setDefault(&c.Push.Concurrency, 4)
	setDefault(&c.Push.Timeout, 10*time.Second)
	setDefault(&c.Log.Level, "info")
}

func setDefault[T comparable](field *T, value T) {
	var zero T
	if *field == zero {
		*field = value
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func (c *Config) applyEnv() {
	c.Server.Addr = getEnv("SERVER_ADDR", c.Server.Addr)
	c.Database.Path = getEnv("DB_PATH", c.Database.Path)
	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Realtime.Redis.Addr = getEnv("REDIS_ADDR", c.Realtime.Redis.Addr)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Realtime.Backend {
	case RealtimeMemory, RealtimeRedis:
	default:
		return fmt.Errorf("%w: unknown realtime backend %q", ErrInvalidConfig, c.Realtime.Backend)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("%w: auth.token_ttl must be positive", ErrInvalidConfig)
	}
	if c.Matching.ActivationWindow <= 0 {
		return fmt.Errorf("%w: matching.activation_window must be positive", ErrInvalidConfig)
	}
	return nil
}
