package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port               string
	CORSAllowedOrigins []string
	TrustProxyHeaders  bool // Key rate limits on X-Forwarded-For/X-Real-IP

	// Logging
	LogLevel  string
	LogPretty bool

	// Country detection
	DefaultLookupIP      string        // Address used for loopback/empty client IPs
	DefaultCountry       string        // Country returned when every provider fails
	PrimaryProviderURL   string        // ipapi.co compatible base URL
	SecondaryProviderURL string        // ip-api.com compatible base URL
	ProviderTimeout      time.Duration // Per outbound request
	ProviderRatePerMin   int           // Local quota per provider, 0 disables it

	// Detection result cache
	GeoCacheType string // "none", "memory" or "redis"
	GeoCacheSize int
	GeoCacheTTL  time.Duration

	// Rate limiting
	RateLimitType   string // "memory" or "redis"
	RateLimit       int    // number of requests allowed
	RateLimitWindow int    // time window in seconds

	// City datastore configuration
	DatastoreType string // "csv", "mysql", or "redis"
	DatastorePath string // path to the cities CSV file

	// MySQL configuration
	MySQLDSN string

	// Redis configuration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Form sessions
	SessionIdleTimeout time.Duration
	DetectorURL        string // Remote detection service; empty uses the in-process resolver
}

// Load reads configuration from environment variables
// with sensible defaults
func Load() *Config {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or defaults")
	}

	return &Config{
		Port:               getEnv("PORT", "3000"),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		TrustProxyHeaders:  getEnvAsBool("TRUST_PROXY_HEADERS", false),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvAsBool("LOG_PRETTY", true),

		DefaultLookupIP:      getEnv("DEFAULT_LOOKUP_IP", "8.8.8.8"),
		DefaultCountry:       strings.ToUpper(getEnv("DEFAULT_COUNTRY", "US")),
		PrimaryProviderURL:   getEnv("PRIMARY_PROVIDER_URL", "https://ipapi.co"),
		SecondaryProviderURL: getEnv("SECONDARY_PROVIDER_URL", "http://ip-api.com"),
		ProviderTimeout:      time.Duration(getEnvAsInt("PROVIDER_TIMEOUT_MS", 3000)) * time.Millisecond,
		ProviderRatePerMin:   getEnvAsInt("PROVIDER_RATE_PER_MINUTE", 40),

		GeoCacheType: getEnv("GEO_CACHE_TYPE", "memory"),
		GeoCacheSize: getEnvAsInt("GEO_CACHE_SIZE", 4096),
		GeoCacheTTL:  time.Duration(getEnvAsInt("GEO_CACHE_TTL_SECONDS", 3600)) * time.Second,

		RateLimitType:   getEnv("RATE_LIMITER_TYPE", "memory"),
		RateLimit:       getEnvAsInt("RATE_LIMIT", 20),
		RateLimitWindow: getEnvAsInt("RATE_LIMIT_WINDOW", 1),

		DatastoreType: getEnv("DATASTORE_TYPE", "csv"),
		DatastorePath: getEnv("DATASTORE_PATH", "./data/cities.csv"),

		MySQLDSN: getEnv("MYSQL_DSN", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		SessionIdleTimeout: time.Duration(getEnvAsInt("SESSION_IDLE_TIMEOUT_SECONDS", 1800)) * time.Second,
		DetectorURL:        getEnv("DETECTOR_URL", ""),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt reads an environment variable as an integer
// Returns default if not set or invalid
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsBool reads an environment variable as a boolean
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsList reads a comma separated environment variable
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var values []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}

	return values
}
