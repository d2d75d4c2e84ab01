package parse

import (
	"encoding/json"
	"reflect"
	"testing"
)

type scorePayload struct {
	Score    int      `json:"score"`
	Feedback []string `json:"feedback"`
}

func TestAttemptDirectParse(t *testing.T) {
	// Well-formed JSON must round-trip identically to json.Unmarshal
	raw := `{"score": 72, "feedback": ["good keywords", "weak summary"]}`

	var want scorePayload
	if err := json.Unmarshal([]byte(raw), &want); err != nil {
		t.Fatal(err)
	}

	got, err := Attempt[scorePayload](raw, []string{"score", "feedback"})
	if err != nil {
		t.Fatalf("Attempt() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Attempt() = %+v, want %+v", got, want)
	}
}

func TestAttemptExtractsObjectFromProse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "object surrounded by prose",
			raw:  `Here is the result: {"score": 55, "feedback": []} Thanks`,
		},
		{
			name: "json code fence",
			raw:  "```json\n{\"score\": 55, \"feedback\": []}\n```",
		},
		{
			name: "bare code fence",
			raw:  "```\n{\"score\": 55, \"feedback\": []}\n```",
		},
		{
			name: "trailing comma",
			raw:  `{"score": 55, "feedback": ["a", "b",],}`,
		},
		{
			name: "leading chatter with newlines",
			raw:  "Sure! I analyzed the resume.\n\n{\"score\": 55,\n\"feedback\": []}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Attempt[scorePayload](tt.raw, []string{"score"})
			if err != nil {
				t.Fatalf("Attempt() error = %v", err)
			}
			if got.Score != 55 {
				t.Errorf("score = %d, want 55", got.Score)
			}
		})
	}
}

func TestAttemptMissingRequiredKey(t *testing.T) {
	// Valid JSON of the wrong shape is total failure
	raw := `{"result": 80}`
	if _, err := Attempt[scorePayload](raw, []string{"score"}); err == nil {
		t.Error("expected error for object missing required key")
	}
}

func TestAttemptNestedRequiredKeys(t *testing.T) {
	type payload struct {
		Score     int            `json:"score"`
		Breakdown map[string]int `json:"breakdown"`
	}
	required := []string{"score", "breakdown.keywordMatch"}

	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"nested key present", `{"score":70,"breakdown":{"keywordMatch":14}}`, false},
		{"nested object empty", `{"score":70,"breakdown":{}}`, true},
		{"nested parent missing", `{"score":70}`, true},
		{"nested parent not an object", `{"score":70,"breakdown":null}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Attempt[payload](tt.raw, required)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecoverFallsBack(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "no braces at all", raw: "the model refused to answer"},
		{name: "empty input", raw: ""},
		{name: "only open brace", raw: "{ truncated output"},
		{name: "braces but not json", raw: "set {x} to {y}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recover(tt.raw, []string{"score"}, func() scorePayload {
				return scorePayload{Score: -1}
			})
			if got.Score != -1 {
				t.Errorf("expected fallback object, got %+v", got)
			}
		})
	}
}

func TestRecoverPassthrough(t *testing.T) {
	got := Recover(`{"score": 42, "feedback": []}`, []string{"score"}, func() scorePayload {
		t.Error("fallback must not run for valid input")
		return scorePayload{}
	})
	if got.Score != 42 {
		t.Errorf("score = %d, want 42", got.Score)
	}
}

func TestPreprocessTrailingCommas(t *testing.T) {
	in := `{"a": [1, 2,], "b": {"c": 3,},}`
	out := Preprocess(in)

	var v map[string]any
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Errorf("preprocessed text still invalid: %v (%q)", err, out)
	}
}

func TestStrategiesDoNotPanic(t *testing.T) {
	inputs := []string{"", "{", "}", "{}", "}{", "\x00{\"a\":1}", "{{{{"}
	for _, in := range inputs {
		_ = Recover(in, nil, func() scorePayload { return scorePayload{} })
	}
}
