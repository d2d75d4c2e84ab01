// Package parse recovers structured objects from free-form model
// output. Models wrap JSON in prose, code fences and trailing commas
// despite explicit instructions, so parsing runs an ordered cascade of
// strategies and always terminates in a caller-supplied fallback.
package parse

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrNoJSON is returned by Attempt when no strategy produced a valid
// object carrying all required keys.
var ErrNoJSON = errors.New("no parseable JSON object in text")

// Strategy narrows raw text down to one candidate JSON span. It
// reports false when it cannot propose a candidate. Strategies are
// pure; ordering is the only state.
type Strategy func(text string) (candidate string, ok bool)

// strategies is the ordered cascade. Direct parse first, then
// progressively looser span extraction.
var strategies = []Strategy{
	wholeText,
	braceSpan,
	firstToLastBrace,
}

var (
	braceSpanRe     = regexp.MustCompile(`(?s)\{.*\}`)
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// wholeText proposes the trimmed input as-is.
func wholeText(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	return trimmed, trimmed != ""
}

// braceSpan proposes the greedy {...} span found by regex.
func braceSpan(text string) (string, bool) {
	match := braceSpanRe.FindString(text)
	return match, match != ""
}

// firstToLastBrace proposes the substring between the first '{' and
// the last '}' inclusive.
func firstToLastBrace(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// Preprocess strips Markdown code fences and trailing commas so the
// strategies see the cleanest possible text.
func Preprocess(text string) string {
	text = stripCodeFences(text)
	text = trailingCommaRe.ReplaceAllString(text, "$1")
	return text
}

// stripCodeFences removes ```json ... ``` (or bare ```) wrappers.
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Drop a leading language identifier line if present
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}

// Attempt runs the strategy cascade and returns the first candidate
// that unmarshals into T and carries every required key. Keys may use
// dot notation ("breakdown.keywordMatch") to require nested object
// fields. A successfully parsed object missing a required key counts
// as total failure, the same as invalid JSON.
func Attempt[T any](raw string, required []string) (T, error) {
	var zero T
	cleaned := Preprocess(raw)

	for _, strategy := range strategies {
		candidate, ok := strategy(cleaned)
		if !ok {
			continue
		}
		var out T
		if err := json.Unmarshal([]byte(candidate), &out); err != nil {
			continue
		}
		if !hasRequiredKeys([]byte(candidate), required) {
			continue
		}
		return out, nil
	}

	return zero, ErrNoJSON
}

// Recover is the non-failing entry point: Attempt, falling back to the
// caller-supplied constructor when every strategy fails. The fallback
// must not depend on the raw text being well formed.
func Recover[T any](raw string, required []string, fallback func() T) T {
	out, err := Attempt[T](raw, required)
	if err != nil {
		return fallback()
	}
	return out
}

// hasRequiredKeys checks key presence on the raw candidate rather
// than on T, so absent fields are not hidden by zero values. A dot in
// a key descends into nested objects.
func hasRequiredKeys(candidate []byte, required []string) bool {
	if len(required) == 0 {
		return true
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(candidate, &top); err != nil {
		return false
	}
	for _, key := range required {
		if !hasKeyPath(top, strings.Split(key, ".")) {
			return false
		}
	}
	return true
}

func hasKeyPath(obj map[string]json.RawMessage, path []string) bool {
	raw, present := obj[path[0]]
	if !present {
		return false
	}
	if len(path) == 1 {
		return true
	}
	var nested map[string]json.RawMessage
	if err := json.Unmarshal(raw, &nested); err != nil {
		return false
	}
	return hasKeyPath(nested, path[1:])
}
