package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoChoices is returned when a provider answers without any completion.
var ErrNoChoices = errors.New("no response choices returned")

// decodeJSON extracts a JSON document from content and unmarshals it.
func decodeJSON(content string, result any) error {
	if err := json.Unmarshal([]byte(extractJSON(content)), result); err != nil {
		return fmt.Errorf("parsing JSON response: %w (content: %s)", err, content)
	}
	return nil
}

// extractJSON returns the JSON document embedded in s. Fenced code blocks win
// over bare objects; if nothing looks like JSON, s is returned unchanged.
func extractJSON(s string) string {
	for _, fence := range []string{"```json", "```"} {
		if block, ok := fenced(s, fence); ok {
			return block
		}
	}
	if doc, ok := balanced(s); ok {
		return doc
	}
	return s
}

func fenced(s, open string) (string, bool) {
	i := strings.Index(s, open)
	if i < 0 {
		return "", false
	}
	rest := strings.TrimLeft(s[i+len(open):], "\r\n")
	j := strings.Index(rest, "```")
	if j < 0 {
		return "", false
	}
	return strings.TrimRight(rest[:j], "\r\n"), true
}

// balanced returns the first bracketed object or array in s.
func balanced(s string) (string, bool) {
	i := strings.IndexAny(s, "{[")
	if i < 0 {
		return "", false
	}
	depth := 0
	for j := i; j < len(s); j++ {
		switch s[j] {
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return s[i : j+1], true
			}
		}
	}
	return "", false
}
