package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
)

const (
	defaultAPIBaseURL = "http://localhost:8080"

	// Covers a full image generation round trip.
	defaultTimeout = 90 * time.Second
)

type ConsoleConfig struct {
	APIBaseURL string
	Timeout    time.Duration
}

func main() {
	_ = godotenv.Load()
	cfg := loadConsoleConfig()

	client := &http.Client{
		Timeout: cfg.Timeout,
	}

	if !testConnection(client, cfg.APIBaseURL) {
		fmt.Fprintf(os.Stderr, "Could not reach the scene engine at %s. Start it with `go run ./cmd/api` or set API_BASE_URL.\n", cfg.APIBaseURL)
		os.Exit(1)
	}

	p := tea.NewProgram(NewConsoleUI(cfg, client),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

// loadConsoleConfig reads API_BASE_URL and CONSOLE_TIMEOUT. An invalid or
// non-positive timeout falls back to the default.
func loadConsoleConfig() *ConsoleConfig {
	timeout, err := time.ParseDuration(getEnv("CONSOLE_TIMEOUT", defaultTimeout.String()))
	if err != nil || timeout <= 0 {
		timeout = defaultTimeout
	}
	return &ConsoleConfig{
		APIBaseURL: strings.TrimRight(getEnv("API_BASE_URL", defaultAPIBaseURL), "/"),
		Timeout:    timeout,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
