package prompts

import (
	"fmt"
	"strings"
)

// Builder constructs the continuation prompt using a fluent interface.
// The full history is always embedded; nothing is windowed or truncated.
type Builder struct {
	history []string
	choice  string
}

// New creates a new prompt builder.
func New() *Builder {
	return &Builder{
		history: make([]string, 0),
	}
}

// WithHistory sets the descriptions of all prior scenes, oldest first.
func (b *Builder) WithHistory(history []string) *Builder {
	b.history = history
	return b
}

// WithChoice sets the action the player picked.
func (b *Builder) WithChoice(choice string) *Builder {
	b.choice = choice
	return b
}

// Build returns the final prompt text.
func (b *Builder) Build() (string, error) {
	if b.choice == "" {
		return "", fmt.Errorf("choice is required")
	}
	return fmt.Sprintf(ContinuationPrompt, b.historyBlock(), b.choice), nil
}

// historyBlock numbers each prior scene, one block per scene.
func (b *Builder) historyBlock() string {
	var sb strings.Builder
	for i, desc := range b.history {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(fmt.Sprintf("Scene %d: %s", i+1, desc))
	}
	return sb.String()
}

// BuildContinuation is a convenience function for the common case.
func BuildContinuation(history []string, choice string) (string, error) {
	return New().
		WithHistory(history).
		WithChoice(choice).
		Build()
}
