package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// PlaceholderAPIKey is the value shipped in the sample .env file.
const PlaceholderAPIKey = "your_actual_api_key_here"

type Config struct {
	// Server
	Port string
	Env  string

	// Database (optional, history is disabled when empty)
	DatabaseURL string

	// Redis (optional, falls back to in-process stores when empty)
	RedisURL string

	// JWT
	JWTSecret string

	// LLM
	LLMProvider           string
	PerplexityAPIKey      string
	PerplexityBaseURL     string
	PerplexityModel       string
	GeminiAPIKey          string
	GeminiModel           string
	AnthropicAPIKey       string
	AnthropicModel        string
	LLMRequestsPerMinute  int
	LLMConcurrentRequests int
	LLMTimeout            time.Duration

	// Caching & background refresh
	TrendingCacheTTL  time.Duration
	CacheWarmSchedule string
	WarmCategories    []string
	WorkerCount       int

	// HTTP
	RateLimitPerMinute int
	FrontendURL        string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	env := getEnvOrDefault("ENV", "development")

	cfg := &Config{
		Port:                  getEnvOrDefault("PORT", "8080"),
		Env:                   env,
		DatabaseURL:           getEnvOrDefault("DATABASE_URL", ""),
		RedisURL:              getEnvOrDefault("REDIS_URL", ""),
		LLMProvider:           strings.ToLower(getEnvOrDefault("LLM_PROVIDER", "perplexity")),
		PerplexityAPIKey:      getEnvOrDefault("PERPLEXITY_API_KEY", ""),
		PerplexityBaseURL:     getEnvOrDefault("PERPLEXITY_BASE_URL", "https://api.perplexity.ai"),
		PerplexityModel:       getEnvOrDefault("PERPLEXITY_MODEL", "sonar-pro"),
		GeminiAPIKey:          getEnvOrDefault("GEMINI_API_KEY", ""),
		GeminiModel:           getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		AnthropicAPIKey:       getEnvOrDefault("ANTHROPIC_API_KEY", ""),
		AnthropicModel:        getEnvOrDefault("ANTHROPIC_MODEL", "claude-sonnet-4-5"),
		LLMRequestsPerMinute:  getEnvAsIntOrDefault("LLM_REQUESTS_PER_MINUTE", 60),
		LLMConcurrentRequests: getEnvAsIntOrDefault("LLM_CONCURRENT_REQUESTS", 5),
		LLMTimeout:            getEnvAsDurationOrDefault("LLM_TIMEOUT", 90*time.Second),
		TrendingCacheTTL:      getEnvAsDurationOrDefault("TRENDING_CACHE_TTL", 15*time.Minute),
		CacheWarmSchedule:     getEnvOrDefault("CACHE_WARM_SCHEDULE", "@every 15m"),
		WarmCategories:        getEnvAsListOrDefault("CACHE_WARM_CATEGORIES", []string{"general", "technology", "science"}),
		WorkerCount:           getEnvAsIntOrDefault("WORKER_COUNT", 3),
		RateLimitPerMinute:    getEnvAsIntOrDefault("RATE_LIMIT_PER_MINUTE", 30),
		FrontendURL:           getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	// Participant tokens must be signed with a real secret outside development.
	if env == "development" || env == "test" {
		cfg.JWTSecret = getEnvOrDefault("JWT_SECRET", "studyforge-dev-secret")
	} else {
		cfg.JWTSecret = mustGetEnv("JWT_SECRET")
	}

	return cfg
}

// LLMAPIKey returns the key of the selected provider.
func (c *Config) LLMAPIKey() string {
	switch c.LLMProvider {
	case "gemini":
		return c.GeminiAPIKey
	case "anthropic":
		return c.AnthropicAPIKey
	default:
		return c.PerplexityAPIKey
	}
}

// LLMConfigured reports whether the selected provider has a usable key.
func (c *Config) LLMConfigured() bool {
	key := c.LLMAPIKey()
	return key != "" && key != PlaceholderAPIKey
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func getEnvAsListOrDefault(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
