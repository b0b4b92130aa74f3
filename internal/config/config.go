package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/jwebster45206/scene-engine/internal/services"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	GeminiAPIKey     string
	GeminiBaseURL    string
	TextModel        string
	ImageModel       string
	ImageAspectRatio string
	ImageMIMEType    string

	// ContentRating enables the profanity filter for G, PG and PG-13.
	ContentRating  string
	RequestTimeout time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Environment:      getEnv("ENVIRONMENT", "development"),
		LogLevel:         parseLogLevel(getEnv("LOG_LEVEL", "info")),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", os.Getenv("API_KEY")),
		GeminiBaseURL:    getEnv("GEMINI_BASE_URL", ""),
		TextModel:        getEnv("GEMINI_TEXT_MODEL", "gemini-2.5-flash"),
		ImageModel:       getEnv("GEMINI_IMAGE_MODEL", "imagen-4.0-generate-001"),
		ImageAspectRatio: getEnv("IMAGE_ASPECT_RATIO", "16:9"),
		ImageMIMEType:    getEnv("IMAGE_MIME_TYPE", "image/jpeg"),
		ContentRating:    getEnv("CONTENT_RATING", ""),
		RequestTimeout:   parseDuration(getEnv("REQUEST_TIMEOUT", "60s"), 60*time.Second),
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY (or API_KEY) is not set: %w", services.ErrMissingAPIKey)
	}
	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
