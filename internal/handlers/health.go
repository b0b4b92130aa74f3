package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

const serviceName = "scene-engine"

type HealthResponse struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Service    string            `json:"service"`
	Components map[string]string `json:"components"`
}

// HealthHandler reports liveness. The generative service is not probed,
// since every probe would be a billed model call.
type HealthHandler struct {
	components map[string]string
	logger     *slog.Logger
}

// NewHealthHandler creates a health handler reporting the configured models.
func NewHealthHandler(textModel, imageModel string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		components: map[string]string{
			"text_model":  textModel,
			"image_model": imageModel,
		},
		logger: logger,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	h.logger.Debug("Health check requested",
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr)

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:     "healthy",
		Timestamp:  time.Now(),
		Service:    serviceName,
		Components: h.components,
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Error encoding health response",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path)
	}
}
