package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config is built once at startup and passed to every component that needs it.
type Config struct {
	Env  string
	Port string

	// --- Database ---
	DBDSN             string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	// --- Auth ---
	JWTSecret string
	JWTTTL    time.Duration

	// --- HTTP ---
	CORSAllowedOrigins []string
	AuthRateLimit      int // requests per minute per client IP on /auth routes

	// --- Background sweeper ---
	PendingOrderTTL time.Duration // 0 disables the sweeper
	SweepInterval   time.Duration

	LogLevel string
}

// Load reads a .env file when present and then the process environment.
func Load() (*Config, error) {
	// 0. --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, applying defaults.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Env:                stringOr(getenv("APP_ENV"), EnvDevelopment),
		Port:               stringOr(getenv("PORT"), "8080"),
		DBDSN:              getenv("DB_DSN"),
		JWTSecret:          getenv("JWT_SECRET"),
		CORSAllowedOrigins: splitList(stringOr(getenv("CORS_ALLOWED_ORIGINS"), "http://localhost:5173")),
		LogLevel:           stringOr(getenv("LOG_LEVEL"), "info"),
	}

	var err error
	if cfg.DBMaxOpenConns, err = intOr(getenv("DB_MAX_OPEN_CONNS"), 25); err != nil {
		return nil, fmt.Errorf("DB_MAX_OPEN_CONNS: %w", err)
	}
	if cfg.DBMaxIdleConns, err = intOr(getenv("DB_MAX_IDLE_CONNS"), 25); err != nil {
		return nil, fmt.Errorf("DB_MAX_IDLE_CONNS: %w", err)
	}
	if cfg.DBConnMaxLifetime, err = durationOr(getenv("DB_CONN_MAX_LIFETIME"), 5*time.Minute); err != nil {
		return nil, fmt.Errorf("DB_CONN_MAX_LIFETIME: %w", err)
	}
	if cfg.JWTTTL, err = durationOr(getenv("JWT_TTL"), 72*time.Hour); err != nil {
		return nil, fmt.Errorf("JWT_TTL: %w", err)
	}
	if cfg.AuthRateLimit, err = intOr(getenv("AUTH_RATE_LIMIT"), 20); err != nil {
		return nil, fmt.Errorf("AUTH_RATE_LIMIT: %w", err)
	}
	if cfg.PendingOrderTTL, err = durationOr(getenv("PENDING_ORDER_TTL"), 0); err != nil {
		return nil, fmt.Errorf("PENDING_ORDER_TTL: %w", err)
	}
	if cfg.SweepInterval, err = durationOr(getenv("SWEEP_INTERVAL"), time.Hour); err != nil {
		return nil, fmt.Errorf("SWEEP_INTERVAL: %w", err)
	}

	if cfg.DBDSN != "" && !strings.Contains(cfg.DBDSN, "parseTime=") {
		sep := "?"
		if strings.Contains(cfg.DBDSN, "?") {
			sep = "&"
		}
		cfg.DBDSN += sep + "parseTime=true"
	}

	if cfg.JWTSecret == "" && cfg.Env != EnvProduction {
		// Development fallback so the API boots without a .env file.
		cfg.JWTSecret = "dev-only-secret-change-me"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Env {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		return fmt.Errorf("APP_ENV must be one of development, production, test (got %q)", c.Env)
	}
	if c.Env == EnvProduction && len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters in production")
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if c.DBMaxOpenConns < 1 {
		return errors.New("DB_MAX_OPEN_CONNS must be at least 1")
	}
	if c.AuthRateLimit < 1 {
		return errors.New("AUTH_RATE_LIMIT must be at least 1")
	}
	if c.PendingOrderTTL < 0 {
		return errors.New("PENDING_ORDER_TTL cannot be negative")
	}
	if c.PendingOrderTTL > 0 && c.SweepInterval <= 0 {
		return errors.New("SWEEP_INTERVAL must be positive when the sweeper is enabled")
	}
	return nil
}

// IsDevelopment reports whether error details may be exposed to clients.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

func stringOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func intOr(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func durationOr(v string, def time.Duration) (time.Duration, error) {
	if v == "" {
		return def, nil
	}
	return time.ParseDuration(v)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
