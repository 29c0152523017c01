package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type App struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	ClientURL          string
	RedisURL           string
	NatsURL            string
}

type Database struct {
	Connection string
}

type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

type Admin struct {
	// Secret is the shared dashboard secret exchanged for a JWT on login.
	// SecretHash, when set, is a bcrypt hash that takes precedence over the
	// plaintext value.
	Secret          string
	SecretHash      string
	JWTSecret       string
	ResearcherEmail string
}

type Ai struct {
	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	Model             string
}

type Survey struct {
	// MaxQuestions is the per-agent question budget. Deployments use 3 or 5.
	MaxQuestions int
	// AutoFirePrompt launches the challenge prompt into both threads when a
	// challenge starts.
	AutoFirePrompt bool
	// SessionTTLHours ages out abandoned redis session slots. 0 disables.
	SessionTTLHours int
}

type Config struct {
	App      App
	Database Database
	SMTP     SMTP
	Admin    Admin
	Ai       Ai
	Survey   Survey
}

// LoadConfig reads .env when present and builds the typed config. The
// returned value is injected everywhere; nothing reads the environment
// after startup.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	return &Config{
		App: App{
			Port:               getEnv("APP_PORT", "3001"),
			Environment:        getEnv("APP_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "./logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:3000"),
			RedisURL:           getEnv("REDIS_URL", ""),
			NatsURL:            getEnv("NATS_URL", ""),
		},
		Database: Database{
			Connection: getEnv("DB_CONNECTION", ""),
		},
		SMTP: SMTP{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			Sender:   getEnv("SMTP_SENDER", ""),
		},
		Admin: Admin{
			Secret:          getEnv("ADMIN_SECRET", "admin123"),
			SecretHash:      getEnv("ADMIN_SECRET_HASH", ""),
			JWTSecret:       getEnv("ADMIN_JWT_SECRET", "survey-admin-dev-secret"),
			ResearcherEmail: getEnv("RESEARCHER_EMAIL", ""),
		},
		Ai: Ai{
			OpenRouterAPIKey:  getEnv("OPENROUTER_API_KEY", ""),
			OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", ""),
			Model:             getEnv("OPENROUTER_MODEL", ""),
		},
		Survey: Survey{
			MaxQuestions:    getEnvAsInt("SURVEY_MAX_QUESTIONS", 3),
			AutoFirePrompt:  getEnvAsBool("SURVEY_AUTO_FIRE", true),
			SessionTTLHours: getEnvAsInt("SURVEY_SESSION_TTL_HOURS", 0),
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
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
