package llm

import (
	"encoding/json"
	"strings"
)

// NormalizeText cleans raw model output before it reaches the client. Models
// sometimes wrap the answer in a JSON object or a code fence even when asked
// for plain text; the text inside is the answer.
func NormalizeText(raw string) string {
	stripped := strings.TrimSpace(raw)
	if stripped == "" {
		return ""
	}

	if strings.HasPrefix(stripped, "{") {
		var payload map[string]interface{}
		if err := json.Unmarshal([]byte(stripped), &payload); err == nil {
			if msg, ok := payload["assistant_message"].(string); ok && strings.TrimSpace(msg) != "" {
				return strings.TrimSpace(msg)
			}
		}
	}

	if strings.HasPrefix(stripped, "```") {
		lines := strings.Split(stripped, "\n")
		if len(lines) > 0 && strings.HasPrefix(lines[0], "```") {
			lines = lines[1:]
		}
		if len(lines) > 0 && strings.HasPrefix(lines[len(lines)-1], "```") {
			lines = lines[:len(lines)-1]
		}
		stripped = strings.TrimSpace(strings.Join(lines, "\n"))
	}

	return stripped
}
