package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// MongoDB configuration
	MongoURI       string
	MongoDatabase  string
	MongoTimeout   time.Duration

	// Authentication
	JWTSecret   string
	JWTIssuer   string
	JWTTokenTTL time.Duration

	// Rate limiting
	IPRateLimit       int           // requests per window per IP
	IPRateWindow      time.Duration
	UserRateLimit     int           // requests per window per user
	UserRateWindow    time.Duration
	LoginBurstSize    int           // token bucket capacity for login attempts
	LoginRefillPerMin int

	// Proxy client
	ProxyTimeout      time.Duration
	ProxyMaxBodyBytes int64

	// Logging
	LogLevel string

	// Feature flags
	EnableMetrics        bool
	EnableRequestLog     bool
	EnableMongoRateLimit bool
	EnableCORS           bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "memeboard"),
		MongoTimeout:  getEnvDuration("MONGO_TIMEOUT", 10*time.Second),

		JWTSecret:   getEnv("JWT_SECRET", ""),
		JWTIssuer:   getEnv("JWT_ISSUER", "memeboard-backend"),
		JWTTokenTTL: getEnvDuration("JWT_TOKEN_TTL", 24*time.Hour),

		IPRateLimit:       getEnvInt("IP_RATE_LIMIT", 120),
		IPRateWindow:      getEnvDuration("IP_RATE_WINDOW", time.Minute),
		UserRateLimit:     getEnvInt("USER_RATE_LIMIT", 300),
		UserRateWindow:    getEnvDuration("USER_RATE_WINDOW", time.Minute),
		LoginBurstSize:    getEnvInt("LOGIN_BURST_SIZE", 5),
		LoginRefillPerMin: getEnvInt("LOGIN_REFILL_PER_MIN", 3),

		ProxyTimeout:      getEnvDuration("PROXY_TIMEOUT", 10*time.Second),
		ProxyMaxBodyBytes: int64(getEnvInt("PROXY_MAX_BODY_BYTES", 4<<20)),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		EnableMetrics:        getEnvBool("ENABLE_METRICS", true),
		EnableRequestLog:     getEnvBool("ENABLE_REQUEST_LOG", true),
		EnableMongoRateLimit: getEnvBool("ENABLE_MONGO_RATE_LIMIT", false),
		EnableCORS:           getEnvBool("ENABLE_CORS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required")
		}
	}
	if c.IPRateLimit <= 0 || c.UserRateLimit <= 0 {
		return fmt.Errorf("rate limits must be positive")
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
