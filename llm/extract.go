package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"veille-strategique/models"
)

// ExtractJSONArray returns the first complete top-level JSON array in s.
// Surrounding prose and markdown fences are ignored.
func ExtractJSONArray(s string) (json.RawMessage, error) {
	return extractFirst(s, '[')
}

// ExtractJSONObject returns the first complete top-level JSON object in s.
func ExtractJSONObject(s string) (json.RawMessage, error) {
	return extractFirst(s, '{')
}

func extractFirst(s string, open byte) (json.RawMessage, error) {
	for i := 0; i < len(s); i++ {
		if s[i] != open {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(s[i:]))
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			continue
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) > 0 && raw[0] == open {
			return raw, nil
		}
	}
	return nil, fmt.Errorf("%w: no JSON %s found in response", models.ErrParse, kind(open))
}

func kind(open byte) string {
	if open == '[' {
		return "array"
	}
	return "object"
}
