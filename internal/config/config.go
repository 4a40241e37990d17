// Package config provides application configuration management following SOLID principles.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Supported environments.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Config defines the application configuration interface.
// Following Interface Segregation Principle.
type Config interface {
	GetServerPort() string
	GetWebPort() string
	GetEnvironment() string
	GetLogLevel() string
	IsProduction() bool
	IsDevelopment() bool
}

// ServerConfig interface for server-specific configuration.
type ServerConfig interface {
	GetReadTimeout() time.Duration
	GetWriteTimeout() time.Duration
	GetIdleTimeout() time.Duration
	GetShutdownTimeout() time.Duration
	GetCORSAllowedOrigins() []string
}

// LoggingConfig interface for log output configuration.
type LoggingConfig interface {
	GetLogLevel() string
	GetLogFile() string
	GetLogMaxSizeMB() int
	GetLogMaxBackups() int
	GetLogMaxAgeDays() int
}

// SessionConfig interface for the cookie session gate.
type SessionConfig interface {
	GetAuthEmail() string
	GetAuthPassword() string
	GetSessionTTL() time.Duration
	GetProtectedPath() string
	GetLoginPath() string
	GetDefaultRedirect() string
	UseSecureCookies() bool
}

// CatalogClientConfig interface for reaching the catalog API.
type CatalogClientConfig interface {
	GetCatalogAPIURL() string
	GetCatalogAPITimeout() time.Duration
	GetCatalogAPIRetries() int
	GetCatalogCacheTTL() time.Duration
}

// RateLimitConfig interface for request throttling.
type RateLimitConfig interface {
	IsRateLimitEnabled() bool
	GetRateLimitRequestsPerMinute() int
	GetRateLimitCacheCapacity() int
	IsRedisEnabled() bool
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
}

// AppConfig implements all configuration interfaces.
type AppConfig struct {
	serverPort         string
	webPort            string
	environment        string
	logLevel           string
	logFile            string
	logMaxSizeMB       int
	logMaxBackups      int
	logMaxAgeDays      int
	readTimeout        time.Duration
	writeTimeout       time.Duration
	idleTimeout        time.Duration
	shutdownTimeout    time.Duration
	corsAllowedOrigins []string

	authEmail       string
	authPassword    string
	sessionTTL      time.Duration
	protectedPath   string
	loginPath       string
	defaultRedirect string
	secureCookies   bool

	catalogAPIURL     string
	catalogAPITimeout time.Duration
	catalogAPIRetries int
	catalogCacheTTL   time.Duration
	seedCatalog       bool

	rateLimitEnabled           bool
	rateLimitRequestsPerMinute int
	rateLimitCacheCapacity     int
	redisEnabled               bool
	redisAddr                  string
	redisPassword              string
	redisDB                    int
}

// NewConfig creates a new configuration instance with default values
// and overrides from environment variables.
func NewConfig() *AppConfig {
	return &AppConfig{
		serverPort:         getEnvString("SERVER_PORT", "5000"),
		webPort:            getEnvString("WEB_PORT", "3000"),
		environment:        getEnvString("ENVIRONMENT", EnvDevelopment),
		logLevel:           getEnvString("LOG_LEVEL", "info"),
		logFile:            getEnvString("LOG_FILE", ""),
		logMaxSizeMB:       getEnvInt("LOG_MAX_SIZE_MB", 100),
		logMaxBackups:      getEnvInt("LOG_MAX_BACKUPS", 3),
		logMaxAgeDays:      getEnvInt("LOG_MAX_AGE_DAYS", 28),
		readTimeout:        getEnvDuration("READ_TIMEOUT", "15s"),
		writeTimeout:       getEnvDuration("WRITE_TIMEOUT", "15s"),
		idleTimeout:        getEnvDuration("IDLE_TIMEOUT", "60s"),
		shutdownTimeout:    getEnvDuration("SHUTDOWN_TIMEOUT", "30s"),
		corsAllowedOrigins: getEnvStringSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),

		authEmail:       getEnvString("AUTH_EMAIL", "admin@example.com"),
		authPassword:    getEnvString("AUTH_PASSWORD", "123456"),
		sessionTTL:      getEnvDuration("SESSION_TTL", "24h"),
		protectedPath:   getEnvString("PROTECTED_PATH", "/add-item"),
		loginPath:       getEnvString("LOGIN_PATH", "/login"),
		defaultRedirect: getEnvString("DEFAULT_REDIRECT", "/items"),
		secureCookies:   getEnvBool("SECURE_COOKIES", false),

		catalogAPIURL:     strings.TrimRight(getEnvString("CATALOG_API_URL", "http://localhost:5000"), "/"),
		catalogAPITimeout: getEnvDuration("CATALOG_API_TIMEOUT", "10s"),
		catalogAPIRetries: getEnvInt("CATALOG_API_RETRIES", 3),
		catalogCacheTTL:   getEnvDuration("CATALOG_CACHE_TTL", "0s"),
		seedCatalog:       getEnvBool("SEED_CATALOG", true),

		rateLimitEnabled:           getEnvBool("RATE_LIMIT_ENABLED", false),
		rateLimitRequestsPerMinute: getEnvInt("RATE_LIMIT_REQUESTS_PER_MINUTE", 120),
		rateLimitCacheCapacity:     getEnvInt("RATE_LIMIT_CACHE_CAPACITY", 10000),
		redisEnabled:               getEnvBool("REDIS_ENABLED", false),
		redisAddr:                  getEnvString("REDIS_ADDR", "localhost:6379"),
		redisPassword:              getEnvString("REDIS_PASSWORD", ""),
		redisDB:                    getEnvInt("REDIS_DB", 0),
	}
}

// GetServerPort returns the catalog API port.
func (c *AppConfig) GetServerPort() string {
	return c.serverPort
}

// GetWebPort returns the web front-end port.
func (c *AppConfig) GetWebPort() string {
	return c.webPort
}

// GetEnvironment returns the application environment configuration.
func (c *AppConfig) GetEnvironment() string {
	return c.environment
}

// GetLogLevel returns the log level configuration.
func (c *AppConfig) GetLogLevel() string {
	return c.logLevel
}

// GetLogFile returns the rotating log file path, empty for stdout.
func (c *AppConfig) GetLogFile() string {
	return c.logFile
}

// GetLogMaxSizeMB returns the size at which the log file is rotated.
func (c *AppConfig) GetLogMaxSizeMB() int {
	return c.logMaxSizeMB
}

// GetLogMaxBackups returns the number of rotated log files to keep.
func (c *AppConfig) GetLogMaxBackups() int {
	return c.logMaxBackups
}

// GetLogMaxAgeDays returns the number of days rotated log files are kept.
func (c *AppConfig) GetLogMaxAgeDays() int {
	return c.logMaxAgeDays
}

// IsProduction returns true if the application is running in production environment.
func (c *AppConfig) IsProduction() bool {
	return c.environment == EnvProduction
}

// IsDevelopment returns true if the application is running in development environment.
func (c *AppConfig) IsDevelopment() bool {
	return c.environment == EnvDevelopment
}

// GetReadTimeout returns the server read timeout configuration.
func (c *AppConfig) GetReadTimeout() time.Duration {
	return c.readTimeout
}

// GetWriteTimeout returns the server write timeout configuration.
func (c *AppConfig) GetWriteTimeout() time.Duration {
	return c.writeTimeout
}

// GetIdleTimeout returns the server idle timeout configuration.
func (c *AppConfig) GetIdleTimeout() time.Duration {
	return c.idleTimeout
}

// GetShutdownTimeout returns how long in-flight requests get on shutdown.
func (c *AppConfig) GetShutdownTimeout() time.Duration {
	return c.shutdownTimeout
}

// GetCORSAllowedOrigins returns the allowed CORS origins.
func (c *AppConfig) GetCORSAllowedOrigins() []string {
	return c.corsAllowedOrigins
}

// GetAuthEmail returns the configured login email.
func (c *AppConfig) GetAuthEmail() string {
	return c.authEmail
}

// GetAuthPassword returns the configured login password.
func (c *AppConfig) GetAuthPassword() string {
	return c.authPassword
}

// GetSessionTTL returns the session lifetime.
func (c *AppConfig) GetSessionTTL() time.Duration {
	return c.sessionTTL
}

// GetProtectedPath returns the guarded route.
func (c *AppConfig) GetProtectedPath() string {
	return c.protectedPath
}

// GetLoginPath returns the login entry point.
func (c *AppConfig) GetLoginPath() string {
	return c.loginPath
}

// GetDefaultRedirect returns the post-login destination when none was preserved.
func (c *AppConfig) GetDefaultRedirect() string {
	return c.defaultRedirect
}

// UseSecureCookies reports whether the session cookie carries the Secure attribute.
func (c *AppConfig) UseSecureCookies() bool {
	return c.secureCookies
}

// GetCatalogAPIURL returns the catalog API base URL without a trailing slash.
func (c *AppConfig) GetCatalogAPIURL() string {
	return c.catalogAPIURL
}

// GetCatalogAPITimeout returns the per-request timeout for catalog API calls.
func (c *AppConfig) GetCatalogAPITimeout() time.Duration {
	return c.catalogAPITimeout
}

// GetCatalogAPIRetries returns how many attempts a catalog API call gets.
func (c *AppConfig) GetCatalogAPIRetries() int {
	return c.catalogAPIRetries
}

// GetCatalogCacheTTL returns how long the web front end caches catalog reads.
// Zero disables the cache.
func (c *AppConfig) GetCatalogCacheTTL() time.Duration {
	return c.catalogCacheTTL
}

// ShouldSeedCatalog reports whether the API starts with the sample items.
func (c *AppConfig) ShouldSeedCatalog() bool {
	return c.seedCatalog
}

// IsRateLimitEnabled reports whether the API throttles clients.
func (c *AppConfig) IsRateLimitEnabled() bool {
	return c.rateLimitEnabled
}

// GetRateLimitRequestsPerMinute returns the per-client request budget.
func (c *AppConfig) GetRateLimitRequestsPerMinute() int {
	return c.rateLimitRequestsPerMinute
}

// GetRateLimitCacheCapacity returns the number of tracked clients for the in-memory limiter.
func (c *AppConfig) GetRateLimitCacheCapacity() int {
	return c.rateLimitCacheCapacity
}

// IsRedisEnabled reports whether rate limiting is shared through Redis.
func (c *AppConfig) IsRedisEnabled() bool {
	return c.redisEnabled
}

// GetRedisAddr returns the Redis address.
func (c *AppConfig) GetRedisAddr() string {
	return c.redisAddr
}

// GetRedisPassword returns the Redis password.
func (c *AppConfig) GetRedisPassword() string {
	return c.redisPassword
}

// GetRedisDB returns the Redis database number.
func (c *AppConfig) GetRedisDB() int {
	return c.redisDB
}

// Validate checks if the configuration is valid.
func (c *AppConfig) Validate() error {
	if c.serverPort == "" {
		return fmt.Errorf("server port cannot be empty")
	}

	if c.webPort == "" {
		return fmt.Errorf("web port cannot be empty")
	}

	if c.environment != EnvDevelopment && c.environment != EnvStaging && c.environment != EnvProduction {
		return fmt.Errorf("environment must be one of: development, staging, production")
	}

	if c.authEmail == "" || c.authPassword == "" {
		return fmt.Errorf("auth email and password cannot be empty")
	}

	if c.sessionTTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}

	for name, path := range map[string]string{
		"protected path":   c.protectedPath,
		"login path":       c.loginPath,
		"default redirect": c.defaultRedirect,
	} {
		if !strings.HasPrefix(path, "/") {
			return fmt.Errorf("%s must start with '/': %q", name, path)
		}
	}

	if c.protectedPath == c.loginPath {
		return fmt.Errorf("login path cannot be the protected path")
	}

	if _, err := url.ParseRequestURI(c.catalogAPIURL); err != nil {
		return fmt.Errorf("catalog API URL is invalid: %w", err)
	}

	if c.catalogAPIRetries < 1 {
		return fmt.Errorf("catalog API retries must be at least 1")
	}

	if c.catalogCacheTTL < 0 {
		return fmt.Errorf("catalog cache TTL cannot be negative")
	}

	if c.rateLimitEnabled && c.rateLimitRequestsPerMinute < 1 {
		return fmt.Errorf("rate limit requests per minute must be at least 1")
	}

	return nil
}

// Helper functions for environment variable parsing.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	if duration, err := time.ParseDuration(defaultValue); err == nil {
		return duration
	}
	return time.Second
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
