package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

const (
	DefaultGeminiTextModel  = "gemini-2.5-flash"
	DefaultGeminiImageModel = "imagen-4.0-generate-001"

	jsonMIMEType = "application/json"
)

var ErrMissingAPIKey = errors.New("gemini API key is required")

// GeminiConfig holds everything needed to build a GeminiService.
type GeminiConfig struct {
	APIKey     string
	TextModel  string
	ImageModel string

	// BaseURL overrides the API endpoint. Empty uses the SDK default.
	BaseURL string
}

// GeminiService implements GenAIService on the Gemini API.
// The underlying client is created once and only read afterwards.
type GeminiService struct {
	client     *genai.Client
	textModel  string
	imageModel string
	logger     *slog.Logger
}

// NewGeminiService creates the Gemini client. It fails fast when no API key is set.
func NewGeminiService(ctx context.Context, cfg GeminiConfig, logger *slog.Logger) (*GeminiService, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TextModel == "" {
		cfg.TextModel = DefaultGeminiTextModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = DefaultGeminiImageModel
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiService{
		client:     client,
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
		logger:     logger,
	}, nil
}

// GenerateText sends a single-turn prompt and returns the response text.
func (g *GeminiService) GenerateText(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: jsonMIMEType,
		ResponseSchema:   schema,
	}

	g.logger.Debug("Sending text generation request",
		"model", g.textModel,
		"prompt_length", len(prompt))

	resp, err := g.client.Models.GenerateContent(ctx, g.textModel, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	return resp.Text(), nil
}

// GenerateImages requests images for prompt and returns whatever came back.
func (g *GeminiService) GenerateImages(ctx context.Context, prompt string, opts ImageOptions) ([]Image, error) {
	config := &genai.GenerateImagesConfig{
		NumberOfImages: opts.Count,
		OutputMIMEType: opts.MIMEType,
		AspectRatio:    opts.AspectRatio,
	}

	g.logger.Debug("Sending image generation request",
		"model", g.imageModel,
		"aspect_ratio", opts.AspectRatio,
		"mime_type", opts.MIMEType)

	resp, err := g.client.Models.GenerateImages(ctx, g.imageModel, prompt, config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate images: %w", err)
	}

	images := make([]Image, 0, len(resp.GeneratedImages))
	for _, generated := range resp.GeneratedImages {
		if generated == nil || generated.Image == nil || len(generated.Image.ImageBytes) == 0 {
			if generated != nil && generated.RAIFilteredReason != "" {
				g.logger.Warn("Generated image was filtered", "reason", generated.RAIFilteredReason)
			}
			continue
		}
		images = append(images, Image{
			MIMEType: generated.Image.MIMEType,
			Data:     generated.Image.ImageBytes,
		})
	}

	return images, nil
}
