package prompt

import (
	"strings"
	"testing"
	"unicode/utf8"

	"lettersmith/internal/types"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{name: "under budget untouched", input: "short", max: 10, expected: "short"},
		{name: "exact budget untouched", input: "12345", max: 5, expected: "12345"},
		{name: "over budget prefix cut", input: "1234567890", max: 5, expected: "12345..."},
		{name: "zero budget passthrough", input: "abc", max: 0, expected: "abc"},
		{name: "cut mid-rune backs up", input: "abécd", max: 3, expected: "ab..."},
		{name: "cut on rune boundary kept", input: "abécd", max: 4, expected: "abé..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.input, tt.max)
			if got != tt.expected {
				t.Errorf("Truncate() = %q, want %q", got, tt.expected)
			}
			if !utf8.ValidString(got) {
				t.Errorf("Truncate() produced invalid UTF-8: %q", got)
			}
		})
	}
}

func TestCoverLetterPromptRespectsBudget(t *testing.T) {
	builder := NewBuilder(Overrides{})
	job := types.JobDetails{
		JobTitle:    "Engineer",
		CompanyName: "Acme",
		Location:    "Remote",
		Description: strings.Repeat("x", CoverLetterJobBudget*3),
	}

	got := builder.CoverLetter(job, types.UserProfile{FullName: "Sam"}, types.ToneAnalysis{})

	if strings.Contains(got, strings.Repeat("x", CoverLetterJobBudget+10)) {
		t.Error("job description was not truncated to its budget")
	}
	if !strings.Contains(got, "JSON only") {
		t.Error("structured prompt must demand JSON only output")
	}
	if !strings.Contains(got, `"greeting"`) {
		t.Error("prompt must embed the output example skeleton")
	}
}

func TestCoverLetterPromptDeterministic(t *testing.T) {
	builder := NewBuilder(Overrides{})
	job := types.JobDetails{JobTitle: "Engineer", CompanyName: "Acme", Description: "desc"}
	profile := types.UserProfile{FullName: "Sam", Resume: "resume"}
	tone := types.ToneAnalysis{DetectedTone: types.ToneTechnical, CompanyTraits: []string{"Our mission is speed"}}

	a := builder.CoverLetter(job, profile, tone)
	b := builder.CoverLetter(job, profile, tone)
	if a != b {
		t.Error("identical inputs must produce identical prompts")
	}
}

func TestToneGuidanceVariesByTone(t *testing.T) {
	builder := NewBuilder(Overrides{})
	job := types.JobDetails{JobTitle: "Engineer", CompanyName: "Acme", Description: "desc"}
	profile := types.UserProfile{FullName: "Sam"}

	casual := builder.CoverLetter(job, profile, types.ToneAnalysis{DetectedTone: types.ToneCasual})
	formal := builder.CoverLetter(job, profile, types.ToneAnalysis{DetectedTone: types.ToneFormal})
	if casual == formal {
		t.Error("tone must change the prompt text")
	}
}

func TestATSScorePromptContents(t *testing.T) {
	got := NewBuilder(Overrides{}).ATSScore("my resume", "the job")

	for _, want := range []string{"keywordMatch", "experienceRelevance", "formatCompatibility", "sectionCompleteness", "clarityUniqueness", "JSON only", "my resume", "the job"} {
		if !strings.Contains(got, want) {
			t.Errorf("score prompt missing %q", want)
		}
	}
}

func TestExtractionPromptRespectsBudget(t *testing.T) {
	long := strings.Repeat("y", ExtractionBudget*2)
	got := NewBuilder(Overrides{}).Extraction(long)

	if strings.Contains(got, strings.Repeat("y", ExtractionBudget+10)) {
		t.Error("extraction input was not capped at its budget")
	}
	if !strings.Contains(got, `"jobTitle"`) {
		t.Error("extraction prompt must embed the output skeleton")
	}
}

func TestOverrideReplacesTemplate(t *testing.T) {
	got := NewBuilder(Overrides{ATSScore: "CUSTOM %s %s"}).ATSScore("r", "j")
	if got != "CUSTOM r j" {
		t.Errorf("override not applied, got %q", got)
	}
}
