package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultSecretKey signs flash cookies when SECRET_KEY is unset.
// It is public and must never be used in production.
const DefaultSecretKey = "dev-secret-key"

var ErrInsecureSecretKey = errors.New("SECRET_KEY must be set in production")

type Config struct {
	// Application
	AppName  string
	AppEnv   string
	Host     string
	Port     string
	LogLevel string

	// Database (DATABASE_URL wins over DB_DRIVER/DB_CONNECTION)
	DBDriver     string
	DBConnection string

	// Security
	SecretKey string

	// HTTP server
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Form submissions per client IP per window; 0 disables the limit
	WriteRateLimit  int
	WriteRateWindow time.Duration

	// Honor X-Forwarded-For/X-Real-IP; only safe behind a proxy that overwrites them
	TrustProxy bool

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:  envString("APP_NAME", "Progress Tracker"),
		AppEnv:   envString("APP_ENV", "development"),
		Host:     envString("HOST", "0.0.0.0"),
		Port:     envString("PORT", "5000"),
		LogLevel: envString("LOG_LEVEL", ""),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/progress.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_time_format=sqlite"),

		// Security
		SecretKey: envString("SECRET_KEY", DefaultSecretKey),

		// HTTP server
		ReadTimeout:     envDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    envDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     envDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: envDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),

		// Rate limiting
		WriteRateLimit:  envInt("WRITE_RATE_LIMIT", 60),
		WriteRateWindow: envDuration("WRITE_RATE_WINDOW", time.Minute),
		TrustProxy:      envBool("TRUST_PROXY", false),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
	}

	// Hosted environments hand out a single URL
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DBDriver = "pgx"
		cfg.DBConnection = normalizePostgresURL(url)
	}

	return cfg
}

// Validate reports configuration that is unsafe for the current environment.
// Development gets a warning for the default secret, production is refused.
func (c *Config) Validate() error {
	if c.SecretKey != DefaultSecretKey {
		return nil
	}
	if c.IsProduction() {
		return ErrInsecureSecretKey
	}
	slog.Warn("using insecure default SECRET_KEY",
		"hint", "set SECRET_KEY before deploying; APP_ENV=production refuses the default")
	return nil
}

// normalizePostgresURL rewrites the legacy postgres:// scheme some hosts still hand out.
func normalizePostgresURL(url string) string {
	if rest, ok := strings.CutPrefix(url, "postgres://"); ok {
		return "postgresql://" + rest
	}
	return url
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// SecureCookies reports whether cookies should carry the Secure flag.
// COOKIE_SECURE overrides the production default for TLS-terminating proxies.
func (c *Config) SecureCookies() bool {
	return envBool("COOKIE_SECURE", c.IsProduction())
}

// Sanitized returns a copy of the config with only public/safe fields.
// Safe to expose in ctx and templates.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName: c.AppName,
		AppEnv:  c.AppEnv,
		Host:    c.Host,
		Port:    c.Port,
	}
}
