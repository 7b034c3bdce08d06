package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	FrontendURL     string
	AIProvider      string
	AIModel         string
	AIBaseURL       string
	APIKeyEnv       string
	EnableHSTS      bool
	RedisURL        string
	ChatRateLimit   string
	RequestTimeout  time.Duration
	ServerDebugMode bool
	LogFormat       string
	OTELEnabled     bool
	OTELEndpoint    string
	GreetingOnStart bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:3000"),
		AIProvider:      strings.ToLower(getEnv("AI_PROVIDER", "gemini")),
		AIModel:         getEnv("AI_MODEL", ""),
		AIBaseURL:       getEnv("AI_BASE_URL", ""),
		APIKeyEnv:       getEnv("API_KEY_ENV", "API_KEY"),
		EnableHSTS:      getEnvBool("ENABLE_HSTS", false),
		RedisURL:        getEnv("REDIS_URL", ""),
		ChatRateLimit:   getEnv("CHAT_RATE_LIMIT", "30-M"),
		RequestTimeout:  time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 30)) * time.Second,
		ServerDebugMode: getEnvBool("SERVER_DEBUG_MODE", false),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
		OTELEnabled:     getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		GreetingOnStart: getEnvBool("GREETING_ON_START", false),
	}

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be a valid port number, got %q", cfg.ServerPort)
	}

	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be positive")
	}

	if cfg.OTELEnabled && cfg.OTELEndpoint == "" {
		return nil, fmt.Errorf("OTEL_EXPORTER_OTLP_ENDPOINT is required when OTEL_ENABLED is set")
	}

	return cfg, nil
}

// LoadEnvFiles loads .env files that exist, later files overriding earlier ones.
// Missing files are skipped; unreadable ones are reported to stderr.
func LoadEnvFiles(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env", "../.env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
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
