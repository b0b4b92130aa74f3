// Package adventure turns player actions into generated scenes and
// scene illustrations. Every operation is one stateless request to the
// generative service; the caller owns the story history.
package adventure

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/scene-engine/internal/services"
	"github.com/jwebster45206/scene-engine/pkg/prompts"
	"github.com/jwebster45206/scene-engine/pkg/scene"
	"github.com/jwebster45206/scene-engine/pkg/textfilter"
)

const (
	DefaultImageMIMEType    = "image/jpeg"
	DefaultImageAspectRatio = "16:9"
)

var (
	ErrInitialScene = errors.New("could not produce an initial scene")
	ErrNextScene    = errors.New("could not produce the next scene")
	ErrNoImage      = errors.New("no image was generated")
)

// Options configures a Storyteller. Zero values fall back to defaults.
type Options struct {
	ImageMIMEType    string
	ImageAspectRatio string
	ContentRating    string
}

// Storyteller generates scenes and illustrations through a GenAIService.
type Storyteller struct {
	genai  services.GenAIService
	opts   Options
	filter *textfilter.Filter
	logger *slog.Logger
}

// NewStoryteller wires a Storyteller to its generative service.
func NewStoryteller(genai services.GenAIService, opts Options, logger *slog.Logger) *Storyteller {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.ImageMIMEType == "" {
		opts.ImageMIMEType = DefaultImageMIMEType
	}
	if opts.ImageAspectRatio == "" {
		opts.ImageAspectRatio = DefaultImageAspectRatio
	}

	st := &Storyteller{
		genai:  genai,
		opts:   opts,
		logger: logger,
	}
	if textfilter.ShouldFilterContent(opts.ContentRating) {
		st.filter = textfilter.New()
	}
	return st
}

// StartScene opens a new adventure.
func (s *Storyteller) StartScene(ctx context.Context) (*scene.Record, error) {
	rec, err := s.generateScene(ctx, prompts.InitialScenePrompt)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrInitialScene
	}
	return rec, nil
}

// NextScene continues the story after the player's choice.
// history holds every prior scene description, oldest first, and may be empty.
func (s *Storyteller) NextScene(ctx context.Context, history []string, choice string) (*scene.Record, error) {
	prompt, err := prompts.BuildContinuation(history, choice)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNextScene, err)
	}

	rec, err := s.generateScene(ctx, prompt)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNextScene
	}
	return rec, nil
}

// GenerateImage illustrates a scene and returns the first image as a data URI.
func (s *Storyteller) GenerateImage(ctx context.Context, prompt string) (string, error) {
	images, err := s.genai.GenerateImages(ctx, prompts.BuildImagePrompt(prompt), services.ImageOptions{
		Count:       1,
		MIMEType:    s.opts.ImageMIMEType,
		AspectRatio: s.opts.ImageAspectRatio,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate image: %w", err)
	}
	if len(images) == 0 {
		s.logger.Error("Image generation returned no images", "prompt", prompt)
		return "", ErrNoImage
	}

	img := images[0]
	mimeType := img.MIMEType
	if mimeType == "" {
		mimeType = s.opts.ImageMIMEType
	}
	return DataURI(mimeType, img.Data), nil
}

// DataURI encodes data as a self-contained base64 data URI.
func DataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// generateScene returns nil without error when the model output is unusable.
func (s *Storyteller) generateScene(ctx context.Context, prompt string) (*scene.Record, error) {
	raw, err := s.genai.GenerateText(ctx, prompt, services.SceneSchema())
	if err != nil {
		return nil, fmt.Errorf("failed to generate scene: %w", err)
	}

	rec := scene.Parse(raw, s.logger)
	if rec == nil || s.filter == nil || !s.needsFilter(rec) {
		return rec, nil
	}

	rec.SceneDescription = s.filter.Apply(rec.SceneDescription)
	rec.Choices = s.filter.ApplyAll(rec.Choices)
	s.logger.Debug("Filtered scene text for content rating", "content_rating", s.opts.ContentRating)
	return rec, nil
}

// needsFilter reports whether the player-facing text has any filtered word.
// The image prompt is never shown to players and is left alone.
func (s *Storyteller) needsFilter(rec *scene.Record) bool {
	if s.filter.Contains(rec.SceneDescription) {
		return true
	}
	for _, choice := range rec.Choices {
		if s.filter.Contains(choice) {
			return true
		}
	}
	return false
}
