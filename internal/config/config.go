package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

// Storage backends.
const (
	StorageMemory    = "memory"
	StorageFirestore = "firestore"
	StoragePostgres  = "postgres"
)

// LLM backends.
const (
	LLMGemini = "gemini" // Gemini API with an API key
	LLMVertex = "vertex" // Vertex AI with project + location
)

type Config struct {
	Mode Mode

	Port string

	LLMBackend   string
	GeminiAPIKey string
	GCPProjectID string
	GCPLocation  string
	ModelName    string
	UseMockLLM   bool // true = use mock even on GCP
	LLMTimeout   time.Duration

	StorageBackend string // "memory", "firestore" or "postgres"
	DatabaseURL    string

	RedisURL string // when set, turn locks are held in Redis
	LockTTL  time.Duration

	SummaryMaxTokens int
	SeedDepartments  bool

	LogLevel string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

func getDurationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getIntEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// Load reads a .env file when present, then all env vars, and builds the config.
func Load() (*Config, error) {
	// A missing .env is normal outside of local development.
	_ = godotenv.Load()

	modeStr := getEnv("INTAKE_MODE", "local")
	var mode Mode
	switch modeStr {
	case "gcp":
		mode = ModeGCP
	default:
		mode = ModeLocal
	}

	cfg := &Config{
		Mode: mode,

		Port: getEnv("INTAKE_PORT", getEnv("PORT", "8080")),

		LLMBackend:   strings.ToLower(getEnv("INTAKE_LLM_BACKEND", LLMGemini)),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GCPProjectID: getEnv("INTAKE_GCP_PROJECT", ""),
		GCPLocation:  getEnv("INTAKE_GCP_LOCATION", "us-central1"),
		ModelName:    getEnv("INTAKE_MODEL_NAME", "gemini-2.0-flash"),
		UseMockLLM:   getBoolEnv("INTAKE_USE_MOCK_LLM", mode == ModeLocal),

		StorageBackend: strings.ToLower(getEnv("INTAKE_STORAGE_BACKEND", StorageMemory)),
		DatabaseURL:    strings.TrimSpace(getEnv("DB_URL", "")),

		RedisURL: getEnv("REDIS_URL", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.LLMTimeout, err = getDurationEnv("LLM_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.LockTTL, err = getDurationEnv("LOCK_TTL", 2*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SummaryMaxTokens, err = getIntEnv("SUMMARY_MAX_TOKENS", 24000); err != nil {
		return nil, err
	}
	cfg.SeedDepartments = getBoolEnv("SEED_DEPARTMENTS", cfg.StorageBackend == StorageMemory)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageBackend {
	case StorageMemory:
	case StorageFirestore:
		if c.GCPProjectID == "" {
			return fmt.Errorf("INTAKE_GCP_PROJECT is required for the firestore storage backend")
		}
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DB_URL is required for the postgres storage backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}

	if c.LLMTimeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive")
	}
	if c.LockTTL <= 0 {
		return fmt.Errorf("LOCK_TTL must be positive")
	}
	if c.UseMockLLM {
		return nil
	}
	switch c.LLMBackend {
	case LLMGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY must be set for the gemini backend")
		}
	case LLMVertex:
		if c.GCPProjectID == "" || c.GCPLocation == "" {
			return fmt.Errorf("INTAKE_GCP_PROJECT and INTAKE_GCP_LOCATION must be set for the vertex backend")
		}
	default:
		return fmt.Errorf("unknown llm backend %q", c.LLMBackend)
	}
	return nil
}
