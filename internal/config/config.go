// Package config loads the server configuration.
//
// Values are layered with koanf: struct defaults, then an optional YAML file
// (CONFIG_PATH, or config.yaml in the working directory), then environment
// variables. SERVER_PORT maps to server.port, PENDING_BATCH_SIZE to
// pending.batch_size and so on. The result is validated before it is returned.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/mmynk/duesbook/internal/pending"
	"github.com/mmynk/duesbook/internal/validation"
)

// ConfigPathEnvVar names the environment variable holding the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are tried in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

// Config is the complete server configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	Logging  LoggingConfig  `koanf:"logging"`
	Pending  PendingConfig  `koanf:"pending"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	// CORSOrigins is a comma-separated list in the environment.
	CORSOrigins []string `koanf:"cors_origins"`
}

// Addr is the listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path         string        `koanf:"path" validate:"required"`
	BusyTimeout  time.Duration `koanf:"busy_timeout" validate:"gte=0"`
	MaxOpenConns int           `koanf:"max_open_conns" validate:"gte=0"`
}

// AuthConfig holds the token settings.
type AuthConfig struct {
	JWTSecret     string        `koanf:"jwt_secret" validate:"required,min=16"`
	TokenDuration time.Duration `koanf:"token_duration" validate:"gt=0"`
}

// LoggingConfig selects the log handler.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
}

// PendingConfig tunes the pending-dues refresh. When Background is false the
// refresh runs inside the transaction that caused it.
type PendingConfig struct {
	Background    bool          `koanf:"background"`
	FlushInterval time.Duration `koanf:"flush_interval" validate:"gt=0"`
	BatchSize     int           `koanf:"batch_size" validate:"gte=1"`
	Concurrency   int           `koanf:"concurrency" validate:"gte=1"`
	RetryBackoff  time.Duration `koanf:"retry_backoff" validate:"gt=0"`
	MaxAttempts   int           `koanf:"max_attempts" validate:"gte=1"`
}

// Queue converts the section into the queue settings.
func (c PendingConfig) Queue() pending.Config {
	return pending.Config{
		FlushInterval: c.FlushInterval,
		BatchSize:     c.BatchSize,
		Concurrency:   c.Concurrency,
		RetryBackoff:  c.RetryBackoff,
		MaxAttempts:   c.MaxAttempts,
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
		},
		Database: DatabaseConfig{
			Path:         "./data/duesbook.db",
			BusyTimeout:  5 * time.Second,
			MaxOpenConns: 0,
		},
		Auth: AuthConfig{
			TokenDuration: 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Pending: defaultPending(),
	}
}

func defaultPending() PendingConfig {
	d := pending.DefaultConfig()
	return PendingConfig{
		Background:    true,
		FlushInterval: d.FlushInterval,
		BatchSize:     d.BatchSize,
		Concurrency:   d.Concurrency,
		RetryBackoff:  d.RetryBackoff,
		MaxAttempts:   d.MaxAttempts,
	}
}

// Load builds the configuration from defaults, the config file and the
// environment.
func Load() (*Config, error) {
	return load(findConfigFile())
}

func load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(envProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := splitList(k, "server.cors_origins"); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c)
}

// sections are the top-level keys environment variables may address.
var sections = []string{"server", "database", "auth", "logging", "pending"}

// envProvider maps SECTION_KEY variables onto section.key paths and ignores
// everything else.
func envProvider() *env.Env {
	return env.ProviderWithValue("", ".", func(key, value string) (string, any) {
		path := envKey(key)
		if path == "" {
			return "", nil
		}
		return path, value
	})
}

func envKey(key string) string {
	key = strings.ToLower(key)
	for _, s := range sections {
		if rest, ok := strings.CutPrefix(key, s+"_"); ok && rest != "" {
			return s + "." + rest
		}
	}
	return ""
}

// splitList turns a comma-separated string into a slice. Values that already
// are lists, from YAML, are left alone.
func splitList(k *koanf.Koanf, path string) error {
	s, ok := k.Get(path).(string)
	if !ok {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if err := k.Set(path, out); err != nil {
		return fmt.Errorf("failed to set %s: %w", path, err)
	}
	return nil
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
