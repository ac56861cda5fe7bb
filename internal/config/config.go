package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App          AppConfig
	Orchestrator OrchestratorConfig
	Sync         SyncConfig
	Quota        QuotaConfig
	Keys         APIKeys
	Ai           AIConfig
	Memory       MemoryConfig
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
}

// OrchestratorConfig tunes the Session lifecycle and the deadlines every
// outbound call carries, per spec §5.
type OrchestratorConfig struct {
	ReadingWPM        int
	SessionTTL        time.Duration
	DeadlineDefault   time.Duration
	DeviceTimeout     time.Duration
	HeartbeatPeriod   time.Duration
	MaxInFlightPerSes int
}

// SyncConfig configures the whitelist root and manifest cache window (§4.7).
type SyncConfig struct {
	RootDir      string
	AllowedPaths []string
	CacheTTL     time.Duration
}

// QuotaConfig configures per-subject daily limits and the burst rate limiter (§4.8).
type QuotaConfig struct {
	DailyPlay     int
	DailyTTS      int
	DailyImageGen int
	BurstPerSec   float64
}

type APIKeys struct {
	AllowedAPIKeys []string
	JWTSecret      string
	GoogleGemini   string
	HuggingFace    string
	Jina           string
}

type AIConfig struct {
	EmbeddingProvider string // "gemini", "ollama", "jina"
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "ollama", "huggingface"
	LLMModel          string
}

// MemoryConfig points at the embedded, restart-durable key/value file.
type MemoryConfig struct {
	SQLitePath string
}

// defaultSyncAllowedPaths whitelists two representative files per manifest
// category (content, user-data, model) so a fresh checkout has a non-empty
// manifest without an operator having to hand-author the whitelist first.
const defaultSyncAllowedPaths = "segments/default.json,highlights/default.json,prefs/default.json,bookmarks/default.json,models/manifest.json,mapping/tables.json"

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
		},
		Orchestrator: OrchestratorConfig{
			ReadingWPM:        getEnvAsInt("READING_WPM", 200),
			SessionTTL:        getEnvAsDuration("SESSION_TTL", 30*time.Minute),
			DeadlineDefault:   getEnvAsDuration("ORCHESTRATOR_DEADLINE", 10*time.Second),
			DeviceTimeout:     getEnvAsDuration("DEVICE_TIMEOUT", 2*time.Second),
			HeartbeatPeriod:   getEnvAsDuration("HEARTBEAT_PERIOD", 20*time.Second),
			MaxInFlightPerSes: getEnvAsInt("MAX_INFLIGHT_PER_SESSION", 32),
		},
		Sync: SyncConfig{
			RootDir:      getEnv("SYNC_ROOT_DIR", "./syncable"),
			AllowedPaths: splitCSV(getEnv("SYNC_ALLOWED_PATHS", defaultSyncAllowedPaths)),
			CacheTTL:     getEnvAsDuration("SYNC_CACHE_TTL", 5*time.Second),
		},
		Quota: QuotaConfig{
			DailyPlay:     getEnvAsInt("QUOTA_DAILY_PLAY", 200),
			DailyTTS:      getEnvAsInt("QUOTA_DAILY_TTS", 200),
			DailyImageGen: getEnvAsInt("QUOTA_DAILY_IMAGE_GEN", 50),
			BurstPerSec:   getEnvAsFloat("RATE_LIMIT_PER_SEC", 20.0),
		},
		Keys: APIKeys{
			AllowedAPIKeys: splitCSV(getEnv("API_KEYS", "")),
			JWTSecret:      getEnv("JWT_SECRET", ""),
			GoogleGemini:   getEnv("GOOGLE_GEMINI_API_KEY", ""),
			HuggingFace:    getEnv("HUGGINGFACE_API_KEY", ""),
			Jina:           getEnv("JINA_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", ""),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", ""),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
		},
		Memory: MemoryConfig{
			SQLitePath: getEnv("MEMORY_DB_PATH", "./data/orchestrator.db"),
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

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

func splitCSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
