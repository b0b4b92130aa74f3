package services

import (
	"context"
	"sync"

	"google.golang.org/genai"
)

// MockGenAI is a mock implementation of GenAIService for testing
type MockGenAI struct {
	GenerateTextFunc   func(ctx context.Context, prompt string, schema *genai.Schema) (string, error)
	GenerateImagesFunc func(ctx context.Context, prompt string, opts ImageOptions) ([]Image, error)

	// Track calls for testing
	GenerateTextCalls   []GenerateTextCall
	GenerateImagesCalls []GenerateImagesCall

	mu sync.Mutex // protects all fields above
}

type GenerateTextCall struct {
	Prompt string
	Schema *genai.Schema
}

type GenerateImagesCall struct {
	Prompt  string
	Options ImageOptions
}

// MockSceneJSON is the default scene returned by MockGenAI.GenerateText.
const MockSceneJSON = `{"sceneDescription":"You wake in a mossy clearing.","imagePrompt":"a mossy forest clearing at dawn","choices":["Follow the path","Climb the oak","Call out"]}`

// NewMockGenAI creates a new mock generative service
func NewMockGenAI() *MockGenAI {
	return &MockGenAI{
		GenerateTextCalls:   make([]GenerateTextCall, 0),
		GenerateImagesCalls: make([]GenerateImagesCall, 0),
	}
}

// GenerateText mocks text generation
func (m *MockGenAI) GenerateText(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	m.mu.Lock()
	m.GenerateTextCalls = append(m.GenerateTextCalls, GenerateTextCall{
		Prompt: prompt,
		Schema: schema,
	})
	fn := m.GenerateTextFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, prompt, schema)
	}

	// Default behavior - a valid scene
	return MockSceneJSON, nil
}

// GenerateImages mocks image generation
func (m *MockGenAI) GenerateImages(ctx context.Context, prompt string, opts ImageOptions) ([]Image, error) {
	m.mu.Lock()
	m.GenerateImagesCalls = append(m.GenerateImagesCalls, GenerateImagesCall{
		Prompt:  prompt,
		Options: opts,
	})
	fn := m.GenerateImagesFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, prompt, opts)
	}

	// Default behavior - one tiny image
	return []Image{{MIMEType: opts.MIMEType, Data: []byte("img")}}, nil
}

// SetTextResponse sets up the mock to return raw text from GenerateText
func (m *MockGenAI) SetTextResponse(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateTextFunc = func(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
		return text, nil
	}
}

// SetTextError sets up the mock to return an error on GenerateText
func (m *MockGenAI) SetTextError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateTextFunc = func(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
		return "", err
	}
}

// SetImages sets up the mock to return specific images
func (m *MockGenAI) SetImages(images []Image) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateImagesFunc = func(ctx context.Context, prompt string, opts ImageOptions) ([]Image, error) {
		return images, nil
	}
}

// SetImagesError sets up the mock to return an error on GenerateImages
func (m *MockGenAI) SetImagesError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateImagesFunc = func(ctx context.Context, prompt string, opts ImageOptions) ([]Image, error) {
		return nil, err
	}
}

// Reset clears all call tracking
func (m *MockGenAI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateTextCalls = make([]GenerateTextCall, 0)
	m.GenerateImagesCalls = make([]GenerateImagesCall, 0)
}

// GetCalls returns a copy of the call tracking data in a thread-safe way
func (m *MockGenAI) GetCalls() ([]GenerateTextCall, []GenerateImagesCall) {
	m.mu.Lock()
	defer m.mu.Unlock()

	textCalls := make([]GenerateTextCall, len(m.GenerateTextCalls))
	copy(textCalls, m.GenerateTextCalls)

	imageCalls := make([]GenerateImagesCall, len(m.GenerateImagesCalls))
	copy(imageCalls, m.GenerateImagesCalls)

	return textCalls, imageCalls
}
