package ats

import (
	"testing"

	"lettersmith/internal/types"
)

func TestSanitizeSuggestions(t *testing.T) {
	in := []types.RevisionSuggestion{
		{Title: "Add metrics", Description: "Quantify outcomes", Severity: "HIGH", Section: "experience"},
		{Title: "", Description: ""},
		{Title: "Trim summary", Description: "Two sentences max", Severity: "unknown"},
		{ID: "keep-me", Title: "Reorder skills", Description: "Match posting order", Severity: "low"},
	}

	out := sanitizeSuggestions(in)

	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
	if out[0].Severity != types.SeverityHigh {
		t.Errorf("severity not normalized: %q", out[0].Severity)
	}
	if out[1].Severity != types.SeverityMedium {
		t.Errorf("unknown severity should default to medium, got %q", out[1].Severity)
	}
	if out[2].ID != "keep-me" {
		t.Errorf("existing id overwritten: %q", out[2].ID)
	}
	for i, sg := range out {
		if sg.ID == "" {
			t.Errorf("suggestion %d has no id", i)
		}
	}
}
