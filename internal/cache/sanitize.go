package cache

import (
	"encoding/json"
	"strings"
)

// disallowedKey reports whether a key carries transient state that
// must not be persisted. Keys starting with an underscore are
// caller-side scratch fields.
func disallowedKey(key string) bool {
	return strings.HasPrefix(key, "_")
}

// Sanitize projects a value onto its JSON-serializable subset:
// disallowed keys are dropped at every depth and values that cannot
// be marshaled become nil. The input is not modified.
func Sanitize(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, elem := range v {
			if disallowedKey(k) {
				continue
			}
			out[k] = Sanitize(elem)
		}
		return out
	case []any:
		out := make([]any, 0, len(v))
		for _, elem := range v {
			out = append(out, Sanitize(elem))
		}
		return out
	case nil, bool, string, float64, int, int32, int64, float32, json.Number:
		return v
	default:
		// Structured values round-trip through JSON; anything that
		// cannot marshal is resolved to nil rather than failing the
		// whole save.
		raw, err := json.Marshal(v)
		if err != nil {
			return nil
		}
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return nil
		}
		return Sanitize(generic)
	}
}
