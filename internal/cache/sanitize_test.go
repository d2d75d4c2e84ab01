package cache

import (
	"reflect"
	"testing"
)

func TestSanitizeDropsDisallowedKeysRecursively(t *testing.T) {
	in := map[string]any{
		"resume":   "text",
		"_scratch": "drop me",
		"nested": map[string]any{
			"keep":      "yes",
			"_internal": "drop me too",
			"deeper": []any{
				map[string]any{"_tmp": 1, "ok": true},
			},
		},
	}

	got := Sanitize(in)

	want := map[string]any{
		"resume": "text",
		"nested": map[string]any{
			"keep": "yes",
			"deeper": []any{
				map[string]any{"ok": true},
			},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Sanitize = %#v, want %#v", got, want)
	}
}

func TestSanitizeUnmarshalableValue(t *testing.T) {
	in := map[string]any{
		"good": "value",
		"bad":  make(chan int),
	}

	got, ok := Sanitize(in).(map[string]any)
	if !ok {
		t.Fatal("Sanitize should return a map")
	}
	if got["good"] != "value" {
		t.Errorf("good = %v", got["good"])
	}
	if got["bad"] != nil {
		t.Errorf("unmarshalable value should become nil, got %v", got["bad"])
	}
}

func TestSanitizeStructProjection(t *testing.T) {
	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	got, ok := Sanitize(payload{Name: "x", Count: 2}).(map[string]any)
	if !ok {
		t.Fatal("struct should project to a map")
	}
	if got["name"] != "x" {
		t.Errorf("name = %v", got["name"])
	}
}
