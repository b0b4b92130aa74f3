package services

import (
	"context"
	"fmt"
	"testing"
)

func TestMockGenAI(t *testing.T) {
	mockService := NewMockGenAI()

	text, err := mockService.GenerateText(context.Background(), "Begin", SceneSchema())
	if err != nil {
		t.Errorf("GenerateText failed: %v", err)
	}
	if text != MockSceneJSON {
		t.Errorf("Expected default scene JSON, got '%s'", text)
	}

	images, err := mockService.GenerateImages(context.Background(), "a castle", ImageOptions{Count: 1, MIMEType: "image/png"})
	if err != nil {
		t.Errorf("GenerateImages failed: %v", err)
	}
	if len(images) != 1 || images[0].MIMEType != "image/png" {
		t.Errorf("Expected one image/png image, got %+v", images)
	}

	textCalls, imageCalls := mockService.GetCalls()
	if len(textCalls) != 1 || textCalls[0].Prompt != "Begin" {
		t.Errorf("Expected 1 GenerateText call with prompt 'Begin', got %+v", textCalls)
	}
	if len(imageCalls) != 1 || imageCalls[0].Options.Count != 1 {
		t.Errorf("Expected 1 GenerateImages call with count 1, got %+v", imageCalls)
	}

	mockService.Reset()
	textCalls, imageCalls = mockService.GetCalls()
	if len(textCalls) != 0 || len(imageCalls) != 0 {
		t.Error("Expected Reset to clear call tracking")
	}
}

func TestMockGenAI_ErrorHandling(t *testing.T) {
	mockService := NewMockGenAI()

	expectedErr := fmt.Errorf("quota exceeded")
	mockService.SetTextError(expectedErr)
	mockService.SetImagesError(expectedErr)

	if _, err := mockService.GenerateText(context.Background(), "Begin", nil); err == nil || err.Error() != expectedErr.Error() {
		t.Errorf("Expected error '%v', got '%v'", expectedErr, err)
	}
	if _, err := mockService.GenerateImages(context.Background(), "a castle", ImageOptions{}); err == nil {
		t.Error("Expected error, got nil")
	}
}

func TestSceneSchema(t *testing.T) {
	schema := SceneSchema()

	if len(schema.Required) != 3 {
		t.Fatalf("Expected 3 required fields, got %v", schema.Required)
	}
	for _, field := range []string{"sceneDescription", "imagePrompt", "choices"} {
		if _, ok := schema.Properties[field]; !ok {
			t.Errorf("Expected property %s in schema", field)
		}
	}

	choices := schema.Properties["choices"]
	if choices.Items == nil {
		t.Fatal("Expected choices to declare item type")
	}
	if choices.MinItems == nil || *choices.MinItems != 3 || choices.MaxItems == nil || *choices.MaxItems != 3 {
		t.Error("Expected choices to be constrained to exactly 3 items")
	}
}

func TestNewGeminiService_MissingAPIKey(t *testing.T) {
	service, err := NewGeminiService(context.Background(), GeminiConfig{}, nil)
	if err != ErrMissingAPIKey {
		t.Errorf("Expected ErrMissingAPIKey, got %v", err)
	}
	if service != nil {
		t.Error("Expected nil service")
	}
}
