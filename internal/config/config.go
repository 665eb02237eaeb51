package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Analysis AnalysisConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JWTSecret          string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	EmbeddingProvider string // "ollama"
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "ollama", "openai", etc
	LLMModel          string // e.g. "llama3", "qwen2.5"
}

type AnalysisConfig struct {
	// SessionContinuation picks which existing session an unanchored
	// request continues: "most_recent" or "oldest".
	SessionContinuation string
	// VectorIndex selects the chunk index backend: "memory" or "pgvector".
	VectorIndex string
	// DictionaryBaseURL is the specialized legal dictionary root.
	DictionaryBaseURL string
	// SearchURL is the JSON web-search endpoint for the fallback tier.
	SearchURL string
	// HistoryLimit caps how many prior turns feed a follow-up analysis.
	HistoryLimit int
	// ProgressTopic is the in-process topic for pipeline progress events.
	ProgressTopic string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JWTSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
		},
		Analysis: AnalysisConfig{
			SessionContinuation: getEnv("SESSION_CONTINUATION", "most_recent"),
			VectorIndex:         getEnv("VECTOR_INDEX", "pgvector"),
			DictionaryBaseURL:   getEnv("DICTIONARY_BASE_URL", "https://www.nolo.com"),
			SearchURL:           getEnv("SEARCH_URL", ""),
			HistoryLimit:        getEnvAsInt("HISTORY_LIMIT", 20),
			ProgressTopic:       getEnv("PROGRESS_TOPIC_NAME", "analysis.progress"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
