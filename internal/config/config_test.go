package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmynk/duesbook/internal/validation"
)

const testSecret = "0123456789abcdef0123"

func TestDefaultsWithSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", testSecret)

	cfg, err := load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Auth.TokenDuration != 24*time.Hour {
		t.Errorf("token duration = %v, want 24h", cfg.Auth.TokenDuration)
	}
	if !cfg.Pending.Background || cfg.Pending.BatchSize != 100 {
		t.Errorf("unexpected pending defaults: %+v", cfg.Pending)
	}
	if got := cfg.Server.Addr(); got != ":8080" {
		t.Errorf("addr = %q, want :8080", got)
	}
}

func TestMissingSecretFails(t *testing.T) {
	_, err := load("")
	var ve *validation.RequestValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ve.Field() != "jwt_secret" {
		t.Errorf("field = %q, want jwt_secret", ve.Field())
	}
}

func TestFileThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 9090
  cors_origins:
    - https://a.example
    - https://b.example
database:
  path: /tmp/dues.db
auth:
  jwt_secret: from-file-0123456789
logging:
  level: debug
  format: json
pending:
  background: false
  flush_interval: 2s
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("PENDING_BATCH_SIZE", "25")

	cfg, err := load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("env should override file port: got %d", cfg.Server.Port)
	}
	if len(cfg.Server.CORSOrigins) != 2 {
		t.Errorf("cors origins = %v, want 2 entries", cfg.Server.CORSOrigins)
	}
	if cfg.Database.Path != "/tmp/dues.db" {
		t.Errorf("database path = %q", cfg.Database.Path)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.Pending.Background {
		t.Error("pending.background should be false from file")
	}
	q := cfg.Pending.Queue()
	if q.FlushInterval != 2*time.Second || q.BatchSize != 25 {
		t.Errorf("queue config = %+v", q)
	}
	// Untouched keys keep their defaults.
	if q.MaxAttempts != 5 {
		t.Errorf("max attempts = %d, want default 5", q.MaxAttempts)
	}
}

func TestEnvironmentList(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", testSecret)
	t.Setenv("SERVER_CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Server.CORSOrigins) != len(want) {
		t.Fatalf("cors origins = %v, want %v", cfg.Server.CORSOrigins, want)
	}
	for i := range want {
		if cfg.Server.CORSOrigins[i] != want[i] {
			t.Errorf("cors origin %d = %q, want %q", i, cfg.Server.CORSOrigins[i], want[i])
		}
	}
}

func TestInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		field string
	}{
		{"log level", "LOGGING_LEVEL", "verbose", "level"},
		{"log format", "LOGGING_FORMAT", "xml", "format"},
		{"port", "SERVER_PORT", "70000", "port"},
		{"batch size", "PENDING_BATCH_SIZE", "0", "batch_size"},
		{"short secret", "AUTH_JWT_SECRET", "short", "jwt_secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("AUTH_JWT_SECRET", testSecret)
			t.Setenv(tt.key, tt.value)

			_, err := load("")
			var ve *validation.RequestValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if ve.Field() != tt.field {
				t.Errorf("field = %q, want %q", ve.Field(), tt.field)
			}
		})
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"SERVER_PORT":             "server.port",
		"DATABASE_BUSY_TIMEOUT":   "database.busy_timeout",
		"PENDING_RETRY_BACKOFF":   "pending.retry_backoff",
		"HOME":                    "",
		"SERVER_":                 "",
		"LOGGINGLEVEL":            "",
		"AUTH_TOKEN_DURATION":     "auth.token_duration",
		"PATH":                    "",
		"database_max_open_conns": "database.max_open_conns",
	}
	for in, want := range tests {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}
