package extraction

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Parse failure kinds, matchable with errors.Is.
var (
	ErrNotJSONObject  = errors.New("response is not a JSON object")
	ErrNonScalarValue = errors.New("non-scalar field value")
)

// stripCodeFences removes a leading/trailing markdown fence so that
// ```json {...} ``` responses parse the same as bare objects.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 && !strings.ContainsAny(s[:idx], "{}") {
		// drop the language tag line ("json", "JSON", ...)
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// extractFirstJSON finds the first top-level JSON object in a string.
func extractFirstJSON(s string) string {
	start := -1
	depth := 0
	for i, ch := range s {
		if ch == '{' {
			if depth == 0 {
				start = i
			}
			depth++
		} else if ch == '}' {
			if depth > 0 {
				depth--
			}
			if depth == 0 && start != -1 {
				return s[start : i+1]
			}
		}
	}
	return s
}

// ParseFieldResult decodes an LLM response into a flat key->value map.
// Fenced output and surrounding prose are tolerated; nested values and
// non-object payloads are rejected so a retry can correct them.
func ParseFieldResult(raw string) (FieldResult, error) {
	candidate := extractFirstJSON(stripCodeFences(raw))
	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(candidate), &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJSONObject, err)
	}
	result := make(FieldResult, len(decoded))
	for k, v := range decoded {
		switch val := v.(type) {
		case nil:
			result[k] = "null"
		case string:
			result[k] = val
		case float64:
			result[k] = strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", val), "0"), ".")
		case bool:
			result[k] = fmt.Sprintf("%t", val)
		default:
			return nil, fmt.Errorf("%w: field %q", ErrNonScalarValue, k)
		}
	}
	return result, nil
}
