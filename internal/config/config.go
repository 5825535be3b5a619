package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values
type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Mail         MailConfig
	Verification VerificationConfig
	Cache        CacheConfig
	RateLimit    RateLimitConfig
	Jobs         JobsConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
	// PublicHost is the externally reachable base URL used in emailed links.
	PublicHost   string
	CookieSecure bool
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	Password string
}

// JWTConfig holds session token configuration
type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

// MailConfig holds the SMTP relay settings. An empty Host selects the log sender.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type VerificationConfig struct {
	TokenTTL time.Duration
}

// CacheConfig sizes the short code resolution cache
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// RateLimitConfig limits credential endpoints per client IP. Limit 0 disables it.
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

type JobsConfig struct {
	TokenCleanupSpec string
	// TokenRetention is how long expired action tokens are kept before cleanup
	TokenRetention time.Duration
}

// Load loads configuration from a .env file (when present) and environment variables
func Load() *Config {
	_ = godotenv.Load()

	port := getEnv("SERVER_PORT", "3000")
	return &Config{
		Server: ServerConfig{
			Port:         port,
			Env:          getEnv("SERVER_ENV", "development"),
			PublicHost:   strings.TrimRight(getEnv("PUBLIC_HOST", "http://localhost:"+port), "/"),
			CookieSecure: getEnvAsBool("COOKIE_SECURE", false),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "shortlink"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "change-this-in-production"),
			Expiry: getEnvAsDuration("JWT_EXPIRY", time.Hour),
		},
		Mail: MailConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "no-reply@shortlink.local"),
		},
		Verification: VerificationConfig{
			TokenTTL: getEnvAsDuration("VERIFICATION_TOKEN_TTL", 15*time.Minute),
		},
		Cache: CacheConfig{
			Size: getEnvAsInt("URL_CACHE_SIZE", 1024),
			TTL:  getEnvAsDuration("URL_CACHE_TTL", 5*time.Minute),
		},
		RateLimit: RateLimitConfig{
			Limit:  getEnvAsInt("AUTH_RATE_LIMIT", 20),
			Window: getEnvAsDuration("AUTH_RATE_WINDOW", time.Minute),
		},
		Jobs: JobsConfig{
			TokenCleanupSpec: getEnv("TOKEN_CLEANUP_SPEC", "@every 1h"),
			TokenRetention:   getEnvAsDuration("TOKEN_RETENTION", 7*24*time.Hour),
		},
	}
}

// IsProduction reports whether the server runs with the production profile
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
