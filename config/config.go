package config

import (
	"os"
	"strconv"
	"time"

	"sangkumfund/utils"
)

type Config struct {
	// Server configuration
	Port        string
	Environment string

	// Backend API
	APIBaseURL       string
	APITimeout       time.Duration
	AdminEmail       string
	AdminPassword    string
	NotificationPage int

	// Dashboard
	RefreshInterval time.Duration
	SnapshotKey     string
	SnapshotTTL     time.Duration
	Breaker         utils.BreakerSettings

	// Redis configuration
	RedisURL      string
	RedisPassword string
	RedisDB       int
	TokenKey      string

	// PubNub configuration
	PubNubPublishKey   string
	PubNubSubscribeKey string
	PubNubSecretKey    string
	PubNubUserID       string
	PubNubChannel      string

	// Console access
	ConsoleKeyHash string
	RateLimit      int64

	// Monitoring
	EnableMetrics bool
}

func LoadConfig() *Config {
	return &Config{
		// Server
		Port:        getEnv("PORT", "8090"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// Backend
		APIBaseURL:       getEnv("API_BASE_URL", "http://localhost:8080"),
		APITimeout:       getEnvAsDuration("API_TIMEOUT", "0s"),
		AdminEmail:       getEnv("ADMIN_EMAIL", ""),
		AdminPassword:    getEnv("ADMIN_PASSWORD", ""),
		NotificationPage: getEnvAsInt("NOTIFICATION_PAGE_SIZE", 50),

		// Dashboard
		RefreshInterval: getEnvAsDuration("REFRESH_INTERVAL", "30s"),
		SnapshotKey:     getEnv("SNAPSHOT_KEY", "console:dashboard:snapshot"),
		SnapshotTTL:     getEnvAsDuration("SNAPSHOT_TTL", "24h"),
		Breaker: utils.BreakerSettings{
			MinRequests:  uint32(getEnvAsInt("BREAKER_MIN_REQUESTS", 3)),
			FailureRatio: getEnvAsFloat("BREAKER_FAILURE_RATIO", 0.6),
			Interval:     getEnvAsDuration("BREAKER_INTERVAL", "5m"),
			Timeout:      getEnvAsDuration("BREAKER_TIMEOUT", "60s"),
			HalfOpenMax:  uint32(getEnvAsInt("BREAKER_HALF_OPEN_MAX", 1)),
		},

		// Redis
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		TokenKey:      getEnv("TOKEN_KEY", "console:auth:token"),

		// PubNub
		PubNubPublishKey:   getEnv("PUBNUB_PUBLISH_KEY", ""),
		PubNubSubscribeKey: getEnv("PUBNUB_SUBSCRIBE_KEY", ""),
		PubNubSecretKey:    getEnv("PUBNUB_SECRET_KEY", ""),
		PubNubUserID:       getEnv("PUBNUB_USER_ID", "sangkumfund-console"),
		PubNubChannel:      getEnv("PUBNUB_CHANNEL", "admin-dashboard"),

		// Console
		ConsoleKeyHash: getEnv("CONSOLE_KEY_HASH", ""),
		RateLimit:      int64(getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120)),

		// Monitoring
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	// If parsing fails, try to parse default value
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
