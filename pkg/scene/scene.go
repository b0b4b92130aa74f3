package scene

import (
	"errors"
)

// ChoiceCount is the number of choices requested from the model for every scene.
const ChoiceCount = 3

var (
	ErrMissingDescription = errors.New("sceneDescription is missing or empty")
	ErrMissingImagePrompt = errors.New("imagePrompt is missing or empty")
	ErrMissingChoices     = errors.New("choices must contain at least one entry")
)

// Record is one generated scene as returned by the model and served to clients.
type Record struct {
	SceneDescription string   `json:"sceneDescription"`
	ImagePrompt      string   `json:"imagePrompt"`
	Choices          []string `json:"choices"`
}

// Validate reports the first structural problem with the record.
// Only a non-empty choice list is required; the model is asked for
// exactly ChoiceCount but fewer are accepted.
func (r *Record) Validate() error {
	if r == nil {
		return ErrMissingDescription
	}
	if r.SceneDescription == "" {
		return ErrMissingDescription
	}
	if r.ImagePrompt == "" {
		return ErrMissingImagePrompt
	}
	if len(r.Choices) == 0 {
		return ErrMissingChoices
	}
	return nil
}
