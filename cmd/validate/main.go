package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jwebster45206/scene-engine/pkg/scene"
	"github.com/spf13/cobra"
)

var strict bool

var rootCmd = &cobra.Command{
	Use:   "validate [flags] <response.txt>...",
	Short: "Check captured model responses against the scene shape",
	Long: `validate runs saved model output through the same fence stripping and
structural checks the API applies. Pass "-" to read a response from stdin.`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().BoolVar(&strict, "strict", false, "require exactly 3 choices")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	failed := 0
	for _, filename := range args {
		if err := validateFile(filename, strict); err != nil {
			fmt.Fprintf(errOut, "%s: %v\n", filename, err)
			failed++
			continue
		}
		fmt.Fprintf(out, "%s: valid\n", filename)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d responses failed validation", failed, len(args))
	}
	return nil
}

func validateFile(filename string, strict bool) error {
	var (
		data []byte
		err  error
	)
	if filename == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(filename)
	}
	if err != nil {
		return fmt.Errorf("failed to read: %w", err)
	}
	return validateResponse(string(data), strict)
}

// validateResponse reports why a raw response would be rejected.
func validateResponse(raw string, strict bool) error {
	text := scene.StripCodeFence(raw)
	if !json.Valid([]byte(text)) {
		return fmt.Errorf("response is not valid JSON")
	}

	var rec scene.Record
	decoder := json.NewDecoder(strings.NewReader(text))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&rec); err != nil {
		return fmt.Errorf("response does not match the scene shape: %w", err)
	}

	if err := rec.Validate(); err != nil {
		return err
	}

	if strict && len(rec.Choices) != scene.ChoiceCount {
		return fmt.Errorf("expected %d choices, got %d", scene.ChoiceCount, len(rec.Choices))
	}
	for i, c := range rec.Choices {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("choice %d is empty", i+1)
		}
	}
	return nil
}
