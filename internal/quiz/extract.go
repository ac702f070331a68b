package quiz

import (
	"encoding/json"
	"strings"
)

// envelopeKeys are the wrapper keys tried, in order, after the direct
// "content" leaf.
var envelopeKeys = []string{"message", "delta", "result", "output", "choices", "answer", "data"}

// ExtractContent walks a generation response of unknown shape depth-first and
// returns the first non-empty text it finds, trimmed. Absence of content is
// reported as "", never as an error.
func ExtractContent(raw any) string {
	switch value := raw.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(value)
	case json.RawMessage:
		return extractBytes(value)
	case []byte:
		return extractBytes(value)
	case []any:
		for _, item := range value {
			if content := ExtractContent(item); content != "" {
				return content
			}
		}
		return ""
	case []string:
		for _, item := range value {
			if content := strings.TrimSpace(item); content != "" {
				return content
			}
		}
		return ""
	case []map[string]any:
		for _, item := range value {
			if content := ExtractContent(item); content != "" {
				return content
			}
		}
		return ""
	case map[string]any:
		if leaf, ok := value["content"].(string); ok {
			if content := strings.TrimSpace(leaf); content != "" {
				return content
			}
		}
		for _, key := range envelopeKeys {
			nested, ok := value[key]
			if !ok {
				continue
			}
			if content := ExtractContent(nested); content != "" {
				return content
			}
		}
		return ""
	case map[string]string:
		generic := make(map[string]any, len(value))
		for key, item := range value {
			generic[key] = item
		}
		return ExtractContent(generic)
	default:
		return ""
	}
}

func extractBytes(data []byte) string {
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return strings.TrimSpace(string(data))
	}
	return ExtractContent(decoded)
}
