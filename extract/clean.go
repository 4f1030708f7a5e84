package extract

import (
	"errors"
	"strings"

	"github.com/tidwall/jsonc"
)

// ErrNoJSONObject is returned when model output contains no {...} object.
var ErrNoJSONObject = errors.New("no JSON object in model output")

// CleanJSON turns raw model output into decodable JSON. It removes Markdown
// code fences, drops any prose around the outermost braces, and strips
// comments and trailing commas.
func CleanJSON(raw string) ([]byte, error) {
	text := strings.ReplaceAll(raw, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, ErrNoJSONObject
	}
	return jsonc.ToJSON([]byte(text[start : end+1])), nil
}
