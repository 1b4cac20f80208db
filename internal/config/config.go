package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	GinMode     string
	CORSOrigins []string

	// Redis (sessions, trending snapshot, rate limiting)
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// Gemini (embeddings + answer generation)
	GeminiAPIKey   string
	EmbeddingModel string
	AnswerModel    string
	GeminiTier     string

	// GNews feed
	GNewsAPIKey   string
	GNewsEndpoint string
	GNewsLang     string
	GNewsPageSize int

	// Qdrant vector index
	QdrantURL        string
	QdrantAPIKey     string
	QdrantCollection string
	VectorDimensions int

	// Ingestion
	IngestTarget      int
	IngestMaxAttempts int
	IngestInterval    time.Duration

	// Retrieval
	SearchTopK int

	// HTTP rate limiting
	RateLimitReqs   int
	RateLimitWindow int

	// Tracing
	TracingEnabled bool
	OTLPEndpoint   string
}

func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),

		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		EmbeddingModel: getEnv("GEMINI_EMBEDDING_MODEL", "text-embedding-004"),
		AnswerModel:    getEnv("GEMINI_ANSWER_MODEL", "gemini-2.0-flash"),
		GeminiTier:     getEnv("GEMINI_TIER", "free"),

		GNewsAPIKey:   getEnv("GNEWS_API_KEY", ""),
		GNewsEndpoint: getEnv("GNEWS_ENDPOINT", "https://gnews.io/api/v4/top-headlines"),
		GNewsLang:     getEnv("GNEWS_LANG", "en"),
		GNewsPageSize: getEnvInt("GNEWS_PAGE_SIZE", 10),

		QdrantURL:        getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantAPIKey:     getEnv("QDRANT_API_KEY", ""),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "news_articles"),
		VectorDimensions: getEnvInt("VECTOR_DIMENSIONS", 768),

		IngestTarget:      getEnvInt("INGEST_TARGET", 50),
		IngestMaxAttempts: getEnvInt("INGEST_MAX_ATTEMPTS", 10),
		IngestInterval:    getEnvDuration("INGEST_INTERVAL", time.Hour),

		SearchTopK: getEnvInt("SEARCH_TOP_K", 3),

		RateLimitReqs:   getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow: getEnvInt("RATE_LIMIT_WINDOW", 60),

		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
		OTLPEndpoint:   getEnv("OTLP_ENDPOINT", "localhost:4317"),
	}

	// Validate required fields
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if cfg.GNewsAPIKey == "" {
		return nil, fmt.Errorf("GNEWS_API_KEY is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
