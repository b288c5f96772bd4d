package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

const devJWTSecret = "dev-secret-change-in-production"

// Profile store backends.
const (
	StoreBolt  = "bolt"
	StoreMySQL = "mysql"
	StoreNone  = "none"
)

type Config struct {
	Port              string
	Env               string
	ProfileStore      string
	BoltPath          string
	DatabaseDSN       string
	JWTSecret         string
	JWTExpiry         time.Duration
	AdminPasswordHash string
	MaxHTTPLength     int
	RateLimitRPS      float64
	RateLimitBurst    int
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var errs []error
	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("ENV", "development"),
		ProfileStore:      getEnv("PROFILE_STORE", StoreBolt),
		BoltPath:          getEnv("BOLT_PATH", "passgen.db"),
		DatabaseDSN:       getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/passgen"),
		JWTSecret:         getEnv("JWT_SECRET", devJWTSecret),
		JWTExpiry:         getDuration("JWT_EXPIRY", time.Hour, &errs),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		MaxHTTPLength:     getInt("MAX_HTTP_LENGTH", 4096, &errs),
		RateLimitRPS:      getFloat("RATE_LIMIT_RPS", 5, &errs),
		RateLimitBurst:    getInt("RATE_LIMIT_BURST", 10, &errs),
	}

	switch cfg.ProfileStore {
	case StoreBolt, StoreMySQL, StoreNone:
	default:
		errs = append(errs, fmt.Errorf("PROFILE_STORE must be %q, %q or %q, got %q", StoreBolt, StoreMySQL, StoreNone, cfg.ProfileStore))
	}
	if cfg.IsProduction() && cfg.JWTSecret == devJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET must be set in production environment"))
	}
	if cfg.AdminPasswordHash == "" {
		slog.Warn("ADMIN_PASSWORD_HASH not set, profile changes are disabled")
	}

	return cfg, errors.Join(errs...)
}

// IsProduction reports whether ENV is production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64, errs *[]error) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return f
}

func getDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}
