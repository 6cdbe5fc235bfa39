package generation

import (
	"encoding/json"
	"strings"
)

type listingPayload struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Price           string `json:"price"`
	MannequinPrompt string `json:"mannequin_prompt"`
}

// parseListingPayload decodes the model's answer. Models occasionally wrap
// JSON in prose or code fences even when asked for strict output, so the
// fragment between the outermost braces is extracted first. Any failure
// yields the zero payload: Stage 1 must degrade to defaults, never error on
// a malformed answer.
func parseListingPayload(raw string) listingPayload {
	var decoded listingPayload
	cleaned := extractJSONFragment(raw)
	if cleaned == "" {
		return decoded
	}
	_ = json.Unmarshal([]byte(cleaned), &decoded)
	return decoded
}

func extractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "]}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
