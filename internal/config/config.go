package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App  AppConfig
	Ai   AIConfig
	Chat ChatConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string

	// DataDir holds the persisted settings and identity blobs.
	DataDir string
}

type AIConfig struct {
	Provider      string // "gemini" or "ollama"
	Model         string
	GeminiAPIKey  string
	OllamaBaseURL string

	RetrievalTemperature float64
	AnswerTemperature    float64
}

type ChatConfig struct {
	// AskTimeout bounds one whole question cycle (retrieve + answer).
	AskTimeout time.Duration

	// PacingDelay separates the retrieval and answer oracle calls.
	PacingDelay time.Duration

	// UploadTick is the interval between simulated upload progress steps.
	UploadTick time.Duration

	// PhraseInterval is how long each loading phrase is shown.
	PhraseInterval time.Duration

	ProgressTopic string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", ""),
			DataDir:            getEnv("DATA_DIR", "data"),
		},
		Ai: AIConfig{
			Provider:             getEnv("LLM_PROVIDER", "gemini"),
			Model:                getEnv("LLM_MODEL", "gemini-2.0-flash"),
			GeminiAPIKey:         getEnv("GOOGLE_GEMINI_API_KEY", ""),
			OllamaBaseURL:        getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			RetrievalTemperature: getEnvAsFloat("RETRIEVAL_TEMPERATURE", 0.7),
			AnswerTemperature:    getEnvAsFloat("ANSWER_TEMPERATURE", 0.2),
		},
		Chat: ChatConfig{
			AskTimeout:     getEnvAsDuration("ASK_TIMEOUT_MS", 60_000),
			PacingDelay:    getEnvAsDuration("PACING_DELAY_MS", 600),
			UploadTick:     getEnvAsDuration("UPLOAD_TICK_MS", 400),
			PhraseInterval: getEnvAsDuration("LOADING_PHRASE_INTERVAL_MS", 2_000),
			ProgressTopic:  getEnv("SOURCE_PROGRESS_TOPIC_NAME", "SOURCE_PROGRESS"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
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

func getEnvAsDuration(key string, fallbackMs int) time.Duration {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil && value > 0 {
		return time.Duration(value) * time.Millisecond
	}
	return time.Duration(fallbackMs) * time.Millisecond
}
