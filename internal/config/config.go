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

// Supported fact store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Fact store configuration
	Database DatabaseConfig

	// JWT configuration
	JWT JWTConfig

	// Rate limiting configuration
	RateLimit RateLimitConfig

	// CORS configuration
	CORS CORSConfig

	// Logging configuration
	Logging LoggingConfig

	// Application metadata
	App AppConfig

	// Report tuning
	Analytics AnalyticsConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds fact store configuration
type DatabaseConfig struct {
	Driver          string // postgres, sqlite
	URL             string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret         string
	Issuer         string
	AccessTokenTTL time.Duration
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
	ReportRPS         float64 // Per-employee limit on report endpoints
	ReportBurst       int
}

// CORSConfig holds cross-origin configuration
type CORSConfig struct {
	AllowedOrigins []string
	MaxAge         int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

// AnalyticsConfig holds report tuning
type AnalyticsConfig struct {
	ReferenceCacheTTL time.Duration // 0 disables the roster/province cache
	MaxRangeDays      int
	RankingSize       int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	loadDotEnv()

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDatabase loads only what a store client needs. Offline tools use it
// so they do not require server secrets.
func LoadDatabase() (*Config, error) {
	loadDotEnv()

	cfg := FromEnv()
	if errs := cfg.Database.problems(); len(errs) > 0 {
		return nil, joinProblems(errs)
	}

	return cfg, nil
}

func loadDotEnv() {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
}

// FromEnv reads the configuration without validating it.
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", ":8080"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     getDurationOrDefault("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(getEnvOrDefault("DATABASE_DRIVER", DriverPostgres)),
			URL:             os.Getenv("DATABASE_URL"),
			SQLitePath:      getEnvOrDefault("SQLITE_PATH", "data/analytics.db"),
			MaxOpenConns:    getIntOrDefault("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getIntOrDefault("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationOrDefault("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnMaxIdleTime: getDurationOrDefault("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
		},
		JWT: JWTConfig{
			Secret:         os.Getenv("JWT_SECRET"),
			Issuer:         getEnvOrDefault("JWT_ISSUER", "field-service"),
			AccessTokenTTL: getDurationOrDefault("JWT_ACCESS_TOKEN_TTL", 1*time.Hour),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getBoolOrDefault("RATE_LIMIT_ENABLED", true),
			RequestsPerSecond: getFloatOrDefault("RATE_LIMIT_RPS", 10),
			BurstSize:         getIntOrDefault("RATE_LIMIT_BURST", 20),
			ReportRPS:         getFloatOrDefault("RATE_LIMIT_REPORT_RPS", 2),
			ReportBurst:       getIntOrDefault("RATE_LIMIT_REPORT_BURST", 10),
		},
		CORS: CORSConfig{
			AllowedOrigins: getStringSliceOrDefault("CORS_ALLOWED_ORIGINS", []string{}),
			MaxAge:         getIntOrDefault("CORS_MAX_AGE", 300),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
		App: AppConfig{
			Name:        getEnvOrDefault("APP_NAME", "field-service-analytics"),
			Version:     getEnvOrDefault("APP_VERSION", "dev"),
			Environment: getEnvOrDefault("APP_ENV", "development"),
		},
		Analytics: AnalyticsConfig{
			ReferenceCacheTTL: getDurationOrDefault("ANALYTICS_REFERENCE_CACHE_TTL", 5*time.Minute),
			MaxRangeDays:      getIntOrDefault("ANALYTICS_MAX_RANGE_DAYS", 366),
			RankingSize:       getIntOrDefault("ANALYTICS_RANKING_SIZE", 10),
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	errs := c.Database.problems()

	if c.JWT.Secret == "" {
		errs = append(errs, "JWT_SECRET is required")
	}

	// Security validations
	if c.IsProduction() {
		if len(c.JWT.Secret) < 32 {
			errs = append(errs, "JWT_SECRET must be at least 32 characters in production")
		}

		if len(c.CORS.AllowedOrigins) == 0 {
			errs = append(errs, "CORS_ALLOWED_ORIGINS must be set in production")
		}
	}

	// Logical validations
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.ReportRPS <= 0) {
		errs = append(errs, "RATE_LIMIT_RPS and RATE_LIMIT_REPORT_RPS must be positive when rate limiting is enabled")
	}

	if c.Analytics.ReferenceCacheTTL < 0 {
		errs = append(errs, "ANALYTICS_REFERENCE_CACHE_TTL cannot be negative")
	}

	if c.Analytics.MaxRangeDays < 1 {
		errs = append(errs, "ANALYTICS_MAX_RANGE_DAYS must be at least 1")
	}

	if c.Analytics.RankingSize < 1 {
		errs = append(errs, "ANALYTICS_RANKING_SIZE must be at least 1")
	}

	if len(errs) > 0 {
		return joinProblems(errs)
	}

	return nil
}

func (d DatabaseConfig) problems() []string {
	var errs []string

	switch d.Driver {
	case DriverPostgres:
		if d.URL == "" {
			errs = append(errs, "DATABASE_URL is required")
		}
		if d.MaxIdleConns > d.MaxOpenConns {
			errs = append(errs, "DB_MAX_IDLE_CONNS cannot be greater than DB_MAX_OPEN_CONNS")
		}
	case DriverSQLite:
		if d.SQLitePath == "" {
			errs = append(errs, "SQLITE_PATH is required")
		}
	default:
		errs = append(errs, fmt.Sprintf("DATABASE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, d.Driver))
	}

	return errs
}

func joinProblems(errs []string) error {
	return errors.New("configuration errors:\n  - " + strings.Join(errs, "\n  - "))
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getStringSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

// String returns a redacted string representation of the config (safe for logging)
func (c *Config) String() string {
	store := redactURL(c.Database.URL)
	if c.Database.Driver == DriverSQLite {
		store = c.Database.SQLitePath
	}
	return fmt.Sprintf(
		"Config{Server: %s, Store: %s(%s), JWT: [REDACTED], RateLimit: %v, CacheTTL: %s, Environment: %s}",
		c.Server.Port,
		c.Database.Driver,
		store,
		c.RateLimit.Enabled,
		c.Analytics.ReferenceCacheTTL,
		c.App.Environment,
	)
}

// redactURL redacts the credentials of a database URL
func redactURL(url string) string {
	if url == "" {
		return ""
	}
	if idx := strings.LastIndex(url, "@"); idx > 0 {
		return "[REDACTED]" + url[idx:]
	}
	return "[REDACTED]"
}
