package scene

import (
	"encoding/json"
	"log/slog"
	"strings"
)

const (
	fenceJSON = "```json"
	fence     = "```"
)

// StripCodeFence removes a markdown code fence wrapped around a JSON payload,
// along with surrounding whitespace. Text without a fence only gets trimmed.
func StripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, fenceJSON) {
		text = strings.TrimPrefix(text, fenceJSON)
	} else {
		text = strings.TrimPrefix(text, fence)
	}
	text = strings.TrimSuffix(text, fence)
	return strings.TrimSpace(text)
}

// Parse converts raw model output into a Record.
// It returns nil when the payload is not JSON or fails Validate; the
// caller decides what a missing scene means. Failures are logged.
func Parse(raw string, log *slog.Logger) *Record {
	if log == nil {
		log = slog.Default()
	}

	text := StripCodeFence(raw)

	var rec Record
	if err := json.Unmarshal([]byte(text), &rec); err != nil {
		log.Warn("Failed to decode scene response",
			"error", err,
			"raw_response", raw)
		return nil
	}

	if err := rec.Validate(); err != nil {
		log.Warn("Scene response failed validation",
			"error", err,
			"raw_response", raw,
			"decoded", rec)
		return nil
	}

	return &rec
}
