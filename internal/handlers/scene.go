package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jwebster45206/scene-engine/internal/logger"
	"github.com/jwebster45206/scene-engine/internal/metrics"
	"github.com/jwebster45206/scene-engine/pkg/scene"
)

const DefaultRequestTimeout = 60 * time.Second

// Storyteller is the set of scene operations the API exposes.
type Storyteller interface {
	StartScene(ctx context.Context) (*scene.Record, error)
	NextScene(ctx context.Context, history []string, choice string) (*scene.Record, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// SceneHandler serves scene and image generation.
// It holds no game state; clients send the full history with each request.
type SceneHandler struct {
	storyteller Storyteller
	timeout     time.Duration
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

// NewSceneHandler creates a new scene handler
func NewSceneHandler(storyteller Storyteller, timeout time.Duration, logger *slog.Logger) *SceneHandler {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &SceneHandler{
		storyteller: storyteller,
		timeout:     timeout,
		logger:      logger,
	}
}

// WithMetrics records every generation call on m.
func (h *SceneHandler) WithMetrics(m *metrics.Metrics) *SceneHandler {
	h.metrics = m
	return h
}

// Register mounts the scene routes on mux.
func (h *SceneHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/v1/scenes", h.StartScene)
	mux.HandleFunc("/v1/scenes/next", h.NextScene)
	mux.HandleFunc("/v1/images", h.GenerateImage)
}

// StartScene handles POST /v1/scenes
func (h *SceneHandler) StartScene(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context(), h.logger)
	if !h.requirePost(w, r, log) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	start := time.Now()
	rec, err := h.storyteller.StartScene(ctx)
	h.metrics.ObserveGeneration("start", time.Since(start), err)
	if err != nil {
		logger.WithError(log, err).Error("Error generating initial scene")
		h.writeError(w, log, statusFor(err), "Failed to generate the opening scene. Please try again.")
		return
	}

	log.Info("Initial scene generated", "choices", len(rec.Choices))
	h.writeJSON(w, log, http.StatusOK, rec)
}

// NextScene handles POST /v1/scenes/next
func (h *SceneHandler) NextScene(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context(), h.logger)
	if !h.requirePost(w, r, log) {
		return
	}

	var request scene.NextRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.WithError(log, err).Warn("Invalid request body")
		h.writeError(w, log, http.StatusBadRequest, "Invalid request body. Expected JSON with 'history' and 'choice' fields.")
		return
	}
	if err := request.Validate(); err != nil {
		logger.WithError(log, err).Warn("Invalid next scene request")
		h.writeError(w, log, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	start := time.Now()
	rec, err := h.storyteller.NextScene(ctx, request.History, request.Choice)
	h.metrics.ObserveGeneration("next", time.Since(start), err)
	if err != nil {
		logger.WithError(log, err).Error("Error generating next scene",
			"history_length", len(request.History))
		h.writeError(w, log, statusFor(err), "Failed to generate the next scene. Please try again.")
		return
	}

	log.Info("Next scene generated",
		"history_length", len(request.History),
		"choices", len(rec.Choices))
	h.writeJSON(w, log, http.StatusOK, rec)
}

// GenerateImage handles POST /v1/images
func (h *SceneHandler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context(), h.logger)
	if !h.requirePost(w, r, log) {
		return
	}

	var request scene.ImageRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.WithError(log, err).Warn("Invalid request body")
		h.writeError(w, log, http.StatusBadRequest, "Invalid request body. Expected JSON with 'prompt' field.")
		return
	}
	if err := request.Validate(); err != nil {
		logger.WithError(log, err).Warn("Invalid image request")
		h.writeError(w, log, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	start := time.Now()
	uri, err := h.storyteller.GenerateImage(ctx, request.Prompt)
	h.metrics.ObserveGeneration("image", time.Since(start), err)
	if err != nil {
		logger.WithError(log, err).Error("Error generating image")
		h.writeError(w, log, statusFor(err), "Failed to generate the scene image. Please try again.")
		return
	}

	log.Info("Scene image generated", "data_uri_length", len(uri))
	h.writeJSON(w, log, http.StatusOK, scene.ImageResponse{DataURI: uri})
}

func (h *SceneHandler) requirePost(w http.ResponseWriter, r *http.Request, log *slog.Logger) bool {
	if r.Method == http.MethodPost {
		return true
	}
	log.Warn("Method not allowed",
		"method", r.Method,
		"path", r.URL.Path)
	w.Header().Set("Allow", http.MethodPost)
	h.writeError(w, log, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported at "+r.URL.Path+".")
	return false
}

// statusFor maps a generation error to an HTTP status. Every failure
// originates upstream, so anything but a timeout is a bad gateway.
func statusFor(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}

func (h *SceneHandler) writeError(w http.ResponseWriter, log *slog.Logger, status int, message string) {
	h.writeJSON(w, log, status, scene.ErrorResponse{Error: message})
}

func (h *SceneHandler) writeJSON(w http.ResponseWriter, log *slog.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.WithError(log, err).Error("Error encoding response", "status", status)
	}
}
