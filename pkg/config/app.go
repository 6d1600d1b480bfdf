package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds runtime configuration for the EcoTracker API service.
type Config struct {
	Environment   string
	Addr          string
	MigrationsDir string

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Artificial processing delays on the credential endpoints. They blunt
	// enumeration and brute-force timing, matching the deployed behavior.
	RegisterDelay time.Duration
	LoginDelay    time.Duration

	RateLimitRedisAddr string
	RateLimitRedisPass string
	RateLimitRedisDB   int
}

// Load constructs a Config from environment variables. Each value has a
// working default so a bare process starts against a local database.
func Load() Config {
	return Config{
		Environment:        GetString("APP_ENV", "development"),
		Addr:               GetString("API_ADDR", ":4000"),
		MigrationsDir:      GetString("DB_MIGRATIONS_DIR", "db/migrations"),
		DBHost:             GetString("POSTGRES_HOST", "localhost"),
		DBPort:             GetInt("POSTGRES_PORT", 5432),
		DBUser:             GetString("POSTGRES_USER", "ecotracker"),
		DBPassword:         GetString("POSTGRES_PASSWORD", "ecotracker"),
		DBName:             GetString("POSTGRES_DATABASE", "ecotracker"),
		DBSSLMode:          GetString("POSTGRES_SSLMODE", "disable"),
		RegisterDelay:      GetDuration("REGISTER_DELAY", 1800*time.Millisecond),
		LoginDelay:         GetDuration("LOGIN_DELAY", 1500*time.Millisecond),
		RateLimitRedisAddr: GetString("RATE_LIMIT_REDIS_ADDR", ""),
		RateLimitRedisPass: GetString("RATE_LIMIT_REDIS_PASSWORD", ""),
		RateLimitRedisDB:   GetInt("RATE_LIMIT_REDIS_DB", 0),
	}
}

// DatabaseURL assembles a pgx-compatible DSN from the discrete settings.
func (c Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.DBUser), url.QueryEscape(c.DBPassword),
		c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// Production reports whether the process runs with production settings.
// Cookie Secure flags are tied to this.
func (c Config) Production() bool {
	return c.Environment == "production"
}
