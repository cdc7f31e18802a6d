package config

import (
	"log"
	"os"
	"time"

	"allvoter/internal/utils"
)

// Config carries everything the server reads from the environment. It is
// built once in main and handed to whatever needs it, so tests can construct
// their own instead of poking process-wide state.
type Config struct {
	Port        string
	DatabaseURL string

	JWTSecret []byte
	TokenTTL  time.Duration

	// Bounded timeout applied to every datastore call.
	DBTimeout time.Duration

	// Chat assistant proxy (Gemini-style generative-language API).
	GeminiAPIKey  string
	GeminiBaseURL string
	GeminiModel   string
	GeminiTimeout time.Duration
}

// Load reads the environment into a Config. JWT_SECRET is mandatory; the
// rest falls back to development defaults.
func Load() *Config {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatalf("JWT_SECRET not set")
	}

	cfg := &Config{
		Port:          getEnv("PORT", "3000"),
		DatabaseURL:   getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=allvoter port=5432 sslmode=disable"),
		JWTSecret:     []byte(secret),
		TokenTTL:      time.Duration(utils.StringToInt(getEnv("TOKEN_TTL_MINUTES", "60"))) * time.Minute,
		DBTimeout:     time.Duration(utils.StringToInt(getEnv("DB_TIMEOUT_SECONDS", "5"))) * time.Second,
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiTimeout: time.Duration(utils.StringToInt(getEnv("GEMINI_TIMEOUT_SECONDS", "30"))) * time.Second,
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	if cfg.DBTimeout <= 0 {
		cfg.DBTimeout = 5 * time.Second
	}
	if cfg.GeminiTimeout <= 0 {
		cfg.GeminiTimeout = 30 * time.Second
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
