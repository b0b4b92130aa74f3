package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/scene-engine/internal/adventure"
	"github.com/jwebster45206/scene-engine/internal/config"
	"github.com/jwebster45206/scene-engine/internal/handlers"
	"github.com/jwebster45206/scene-engine/internal/logger"
	"github.com/jwebster45206/scene-engine/internal/metrics"
	"github.com/jwebster45206/scene-engine/internal/middleware"
	"github.com/jwebster45206/scene-engine/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Scene Engine API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"text_model", cfg.TextModel,
		"image_model", cfg.ImageModel,
		"content_rating", cfg.ContentRating)

	// The client is built once and shared by every request.
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()
	genaiService, err := services.NewGeminiService(initCtx, services.GeminiConfig{
		APIKey:     cfg.GeminiAPIKey,
		TextModel:  cfg.TextModel,
		ImageModel: cfg.ImageModel,
		BaseURL:    cfg.GeminiBaseURL,
	}, log)
	if err != nil {
		log.Error("Failed to initialize Gemini client", "error", err)
		os.Exit(1)
	}

	storyteller := adventure.NewStoryteller(genaiService, adventure.Options{
		ImageMIMEType:    cfg.ImageMIMEType,
		ImageAspectRatio: cfg.ImageAspectRatio,
		ContentRating:    cfg.ContentRating,
	}, log)

	m := metrics.New()
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	healthHandler := handlers.NewHealthHandler(cfg.TextModel, cfg.ImageModel, log)
	mux.Handle("/health", healthHandler)

	sceneHandler := handlers.NewSceneHandler(storyteller, cfg.RequestTimeout, log).WithMetrics(m)
	sceneHandler.Register(mux)

	// Image responses are large and generation is slow.
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      middleware.Logger(log, middleware.Metrics(m, mux)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
