package config

import (
	"os"
)

// Config collects every environment knob in one place so the rest of the code
// never reads os.Getenv directly.
type Config struct {
	HTTPAddr          string
	DatabaseDSN       string
	JWTSecret         string
	CORSOrigins       string
	UploadDir         string
	ModelPath         string // local GGUF model for the assistant
	GeminiAPIKey      string // when set, the assistant uses the hosted engine instead
	AllowRegistration bool
	BaseURL           string
}

func Load() *Config {
	return &Config{
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		DatabaseDSN:       os.Getenv("DB_DSN"),
		JWTSecret:         getEnv("JWT_SECRET", "dev-only-secret-change-me"),
		CORSOrigins:       getEnv("CORS_ORIGINS", "http://localhost:5173"),
		UploadDir:         getEnv("UPLOAD_DIR", "./uploads"),
		ModelPath:         getEnv("MODEL_PATH", "model/gemma-2b-it-q4_k_m.gguf"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		AllowRegistration: os.Getenv("ALLOW_REGISTRATION") == "true",
		BaseURL:           getEnv("BASE_URL", "http://localhost:8080"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
