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
	SMTP     SMTPConfig
	Ai       AIConfig
	Rag      RagConfig
	Chat     ChatConfig
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
	IngestTopic        string // Watermill topic for knowledge indexing
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
	SalesEmail string // Recipient of lead notifications
}

type AIConfig struct {
	EmbeddingProvider    string // "ollama" or "openai"
	OllamaBaseURL        string
	OllamaEmbeddingModel string
	LLMProvider          string // "ollama" or "openai"
	LLMModel             string // e.g. "llama3", "qwen2.5"
	OpenAIAPIKey         string
	OpenAIBaseURL        string
}

type RagConfig struct {
	TopK            int
	SimilarityFloor float64
	PromptBudget    int // Token budget for the composed prompt
}

type ChatConfig struct {
	PingIntervalSeconds int
	HistoryWindow       int
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
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			IngestTopic:        getEnv("INGEST_TOPIC_NAME", "INGEST_KNOWLEDGE_DOCUMENT"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Tunisie Numérique"),
			SalesEmail: getEnv("SALES_TEAM_EMAIL", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider:    getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:        getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaEmbeddingModel: getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:          getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:             getEnv("LLM_MODEL", "llama3"),
			OpenAIAPIKey:         getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:        getEnv("OPENAI_BASE_URL", ""),
		},
		Rag: RagConfig{
			TopK:            getEnvAsInt("RAG_TOP_K", 4),
			SimilarityFloor: getEnvAsFloat("RAG_SIMILARITY_FLOOR", 0.35),
			PromptBudget:    getEnvAsInt("RAG_PROMPT_BUDGET", 2048),
		},
		Chat: ChatConfig{
			PingIntervalSeconds: getEnvAsInt("PING_INTERVAL_SECONDS", 15),
			HistoryWindow:       getEnvAsInt("CHAT_HISTORY_WINDOW", 10),
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
