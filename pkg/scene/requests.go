package scene

import "fmt"

// NextRequest asks for the scene that follows the player's choice.
// History holds the description of every prior scene, oldest first.
type NextRequest struct {
	History []string `json:"history"`
	Choice  string   `json:"choice"`
}

// ImageRequest asks for an illustration of a scene.
type ImageRequest struct {
	Prompt string `json:"prompt"`
}

// ImageResponse carries the generated illustration as a data URI.
type ImageResponse struct {
	DataURI string `json:"dataUri"`
}

// ErrorResponse is returned by the API for any failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (r *NextRequest) Validate() error {
	if r.Choice == "" {
		return fmt.Errorf("choice cannot be empty")
	}
	return nil
}

func (r *ImageRequest) Validate() error {
	if r.Prompt == "" {
		return fmt.Errorf("prompt cannot be empty")
	}
	return nil
}
