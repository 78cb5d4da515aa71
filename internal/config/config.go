package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable; every variable has a default so the service
// starts with an embedded SQLite database and no external dependencies.
type Config struct {
	Env          string   // APP_ENV: development, test, production
	Port         string   // APP_PORT: HTTP port to listen on
	DatabaseURL  string   // DATABASE_URL: sqlite://, mysql:// or postgres:// URL
	BcryptCost   int      // BCRYPT_COST: bcrypt cost for password hashing
	RequireAuth  bool     // REQUIRE_AUTH: put clinical routes behind a bearer token
	CORSOrigins  []string // CORS_ALLOWED_ORIGINS: comma separated, "*" allows all
	LogLevel     string   // LOG_LEVEL: zerolog level name
	LogFormat    string   // LOG_FORMAT: json or console
	AMQPURL      string   // RABBITMQ_URL / AMQP_URL: empty disables events
	NotifyLogDir string   // NOTIFY_LOG_DIR: where the worker writes notifications

	Redis     RedisConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
}

// Load reads an optional .env file and then the process environment.
// Values already present in the environment win over .env entries.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		Env:          getenv("APP_ENV", "development"),
		Port:         getenv("APP_PORT", "8000"),
		DatabaseURL:  getenv("DATABASE_URL", "sqlite://./health.db"),
		BcryptCost:   envInt("BCRYPT_COST", bcrypt.DefaultCost),
		RequireAuth:  envBool("REQUIRE_AUTH", false),
		CORSOrigins:  splitList(getenv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		LogFormat:    getenv("LOG_FORMAT", "json"),
		AMQPURL:      firstNonEmpty(os.Getenv("RABBITMQ_URL"), os.Getenv("AMQP_URL")),
		NotifyLogDir: getenv("NOTIFY_LOG_DIR", "logs"),
		Redis:        LoadRedisConfig(),
		RateLimit:    LoadRateLimitConfig(),
		Cache:        LoadCacheConfig(),
	}
	return cfg, cfg.Validate()
}

// Validate rejects values the server cannot run with.
func (c Config) Validate() error {
	if n, err := strconv.Atoi(c.Port); err != nil || n < 0 || n > 65535 {
		return fmt.Errorf("invalid APP_PORT %q", c.Port)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if len(c.CORSOrigins) == 0 {
		return errors.New("CORS_ALLOWED_ORIGINS must not be empty")
	}
	return nil
}

// IsProduction reports whether APP_ENV selects production behaviour.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production") || strings.EqualFold(c.Env, "prod")
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
