package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string

	// Logging
	LogLevel  string // debug | info | warn | error
	LogFormat string // json | console

	// Auth
	JWTSecret string

	// Mail source
	MailProvider          string // gmail | imap
	SyncDefaultWindowDays int
	SyncMaxWindowDays     int

	// Gmail (OAuth2)
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRefreshToken string
	GoogleProjectID    string
	GooglePubSubSub    string

	// IMAP
	IMAPAddr     string
	IMAPUsername string
	IMAPPassword string
	IMAPMailbox  string

	// AI extraction
	AIProvider         string // gemini | ollama | openai | auto
	GeminiAPIKey       string
	OllamaBaseURL      string
	OllamaModel        string
	OpenAIAPIKey       string
	OpenAIModel        string
	ExtractWorkerCount int
	ExtractJobTimeout  time.Duration
	ExtractWaitTimeout time.Duration

	// Entity matching
	DirectoryBaseURL   string
	MatchMinConfidence float64

	// Import
	ImportStrictDuplicates bool
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", "host=localhost user=postgres dbname=suppliermail port=5432 sslmode=disable"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		JWTSecret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),

		MailProvider:          getEnv("MAIL_PROVIDER", "imap"),
		SyncDefaultWindowDays: getEnvInt("SYNC_DEFAULT_WINDOW_DAYS", 7),
		SyncMaxWindowDays:     getEnvInt("SYNC_MAX_WINDOW_DAYS", 90),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRefreshToken: getEnv("GOOGLE_REFRESH_TOKEN", ""),
		GoogleProjectID:    getEnv("GOOGLE_PROJECT_ID", ""),
		GooglePubSubSub:    getEnv("GOOGLE_PUBSUB_SUBSCRIPTION", "gmail-updates-sub"),

		IMAPAddr:     getEnv("IMAP_ADDR", "imap.gmail.com:993"),
		IMAPUsername: getEnv("IMAP_USERNAME", ""),
		IMAPPassword: getEnv("IMAP_PASSWORD", ""),
		IMAPMailbox:  getEnv("IMAP_MAILBOX", "INBOX"),

		AIProvider:         getEnv("AI_PROVIDER", "auto"),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:        getEnv("OLLAMA_MODEL", "llama3"),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		ExtractWorkerCount: getEnvInt("EXTRACT_WORKER_COUNT", 3),
		ExtractJobTimeout:  getEnvDuration("EXTRACT_JOB_TIMEOUT", 60*time.Second),
		ExtractWaitTimeout: getEnvDuration("EXTRACT_WAIT_TIMEOUT", 2*time.Second),

		DirectoryBaseURL:   getEnv("DIRECTORY_BASE_URL", "http://localhost:8090"),
		MatchMinConfidence: getEnvFloat("MATCH_MIN_CONFIDENCE", 0.65),

		ImportStrictDuplicates: getEnvBool("IMPORT_STRICT_DUPLICATES", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
