package services

import (
	"context"

	"google.golang.org/genai"
)

// Image is a single generated picture as returned by the provider.
type Image struct {
	MIMEType string
	Data     []byte
}

// ImageOptions controls an image generation request.
type ImageOptions struct {
	Count       int32
	MIMEType    string
	AspectRatio string
}

// GenAIService defines the interface for the hosted generative model.
// Implementations must be safe for concurrent use.
type GenAIService interface {
	// GenerateText returns the raw text of a response constrained to schema.
	GenerateText(ctx context.Context, prompt string, schema *genai.Schema) (string, error)

	// GenerateImages returns every image the provider produced, which may be none.
	GenerateImages(ctx context.Context, prompt string, opts ImageOptions) ([]Image, error)
}

// SceneSchema is the declared response shape for scene generation.
func SceneSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"sceneDescription": {
				Type:        genai.TypeString,
				Description: "Narration of the current scene.",
			},
			"imagePrompt": {
				Type:        genai.TypeString,
				Description: "Visual description of the scene for an image generator.",
			},
			"choices": {
				Type:        genai.TypeArray,
				Description: "Exactly 3 short actions the player can take next.",
				Items:       &genai.Schema{Type: genai.TypeString},
				MinItems:    genai.Ptr[int64](3),
				MaxItems:    genai.Ptr[int64](3),
			},
		},
		Required:         []string{"sceneDescription", "imagePrompt", "choices"},
		PropertyOrdering: []string{"sceneDescription", "imagePrompt", "choices"},
	}
}
