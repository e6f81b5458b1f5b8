package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	SessionTTL  time.Duration

	OpenAIAPIKey       string
	EmbeddingModel     string
	EmbeddingRateLimit float64

	OpenRouterAPIKey  string
	OpenRouterModel   string
	OpenRouterBaseURL string

	AnthropicAPIKey string
	AnthropicModel  string
	PreferAnthropic bool

	PineconeAPIKey    string
	PineconeIndexName string
	PineconeNamespace string

	RetrievalTimeout  time.Duration
	GenerationTimeout time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[INFO] No .env file loaded, using process environment")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DB_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		SessionTTL:  getEnvDuration("SESSION_TTL", time.Hour),

		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		EmbeddingModel:     getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingRateLimit: getEnvFloat("EMBEDDING_RATE_LIMIT", 5),

		OpenRouterAPIKey:  os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterModel:   getEnv("OPENROUTER_MODEL", "openai/gpt-4o-mini"),
		OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),
		PreferAnthropic: getEnvBool("PREFER_ANTHROPIC", false),

		PineconeAPIKey:    os.Getenv("PINECONE_API_KEY"),
		PineconeIndexName: getEnv("PINECONE_INDEX_NAME", "tutor-content-index"),
		PineconeNamespace: getEnv("PINECONE_NAMESPACE", "tutor-content"),

		RetrievalTimeout:  getEnvDuration("RETRIEVAL_TIMEOUT", 10*time.Second),
		GenerationTimeout: getEnvDuration("GENERATION_TIMEOUT", 60*time.Second),
	}
}

// Validate checks the settings every binary needs. At least one generation
// provider must be configured.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DB_URL environment variable is required")
	}
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY environment variable is required for embeddings")
	}
	if c.OpenRouterAPIKey == "" && c.AnthropicAPIKey == "" {
		return fmt.Errorf("OPENROUTER_API_KEY or ANTHROPIC_API_KEY environment variable is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvFloat(key string, fallback float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return f
}

// getEnvDuration accepts Go durations ("90s") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	value = strings.TrimSpace(value)
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}
