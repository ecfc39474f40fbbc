// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sakif/travel-tracker/internal/session"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port int

	// DatabaseURL selects Postgres. When empty the SQLite file at DBPath is used.
	DatabaseURL        string
	DBPath             string
	DBInsecureSkipTLS  bool
	DBMaxConns         int32
	DefaultUserID      int64
	SessionSecret      string
	SessionTTL         time.Duration
	SessionSecure      bool
	RedisAddr          string
	RedisPassword      string
	CORSAllowedOrigins []string
	LogLevel           slog.Level
	TemplateDir        string
	StaticDir          string
}

// Load reads the environment. Malformed numbers, durations and levels are
// reported instead of silently falling back.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:   getenv("DATABASE_URL", ""),
		DBPath:        getenv("DB_PATH", "data/travel.db"),
		SessionSecret: getenv("SESSION_SECRET", ""),
		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		TemplateDir:   getenv("TEMPLATE_DIR", "web/templates"),
		StaticDir:     getenv("STATIC_DIR", "web/static"),
	}

	var err error
	if cfg.Port, err = atoi("PORT", "3000"); err != nil {
		return nil, err
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("config: PORT %d out of range", cfg.Port)
	}

	maxConns, err := atoi("DB_MAX_CONNS", "1")
	if err != nil {
		return nil, err
	}
	if maxConns < 1 {
		return nil, fmt.Errorf("config: DB_MAX_CONNS must be at least 1")
	}
	cfg.DBMaxConns = int32(maxConns)

	if cfg.DefaultUserID, err = strconv.ParseInt(getenv("DEFAULT_USER_ID", "1"), 10, 64); err != nil {
		return nil, fmt.Errorf("config: invalid DEFAULT_USER_ID: %w", err)
	}

	if cfg.DBInsecureSkipTLS, err = parseBool("DB_INSECURE_SKIP_VERIFY", "true"); err != nil {
		return nil, err
	}
	if cfg.SessionSecure, err = parseBool("SESSION_SECURE_COOKIE", "false"); err != nil {
		return nil, err
	}

	if cfg.SessionTTL, err = time.ParseDuration(getenv("SESSION_TTL", session.DefaultTTL.String())); err != nil {
		return nil, fmt.Errorf("config: invalid SESSION_TTL: %w", err)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("config: SESSION_TTL must be positive")
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getenv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("config: invalid LOG_LEVEL: %w", err)
	}

	for _, origin := range strings.Split(getenv("CORS_ALLOWED_ORIGINS", ""), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}

// UsePostgres reports whether DATABASE_URL selected the Postgres backend.
func (c *Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func atoi(key, fallback string) (int, error) {
	v := getenv(key, fallback)
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func parseBool(key, fallback string) (bool, error) {
	v := getenv(key, fallback)
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: invalid %s %q: %w", key, v, err)
	}
	return b, nil
}
