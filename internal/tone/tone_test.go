package tone

import (
	"strings"
	"testing"

	"lettersmith/internal/types"
)

func TestAnalyzeDetectsTone(t *testing.T) {
	tests := []struct {
		name        string
		description string
		expected    types.ToneType
	}{
		{
			name: "technical posting",
			description: "We build scalable distributed backend services. You will design " +
				"API infrastructure and own the cloud architecture end to end.",
			expected: types.ToneTechnical,
		},
		{
			name: "mission driven posting",
			description: "Join us to make an impact. Our mission is to bring sustainability " +
				"to every community we serve, with purpose behind everything we do.",
			expected: types.ToneMissionDriven,
		},
		{
			name: "casual startup posting",
			description: "Awesome fast-paced startup looking for a flexible team player. " +
				"We have ping pong and a laid-back office.",
			expected: types.ToneCasual,
		},
		{
			name: "formal corporate posting",
			description: "An established enterprise seeks a professional to manage corporate " +
				"governance and compliance for executive stakeholder reporting.",
			expected: types.ToneFormal,
		},
		{
			name:        "no keywords falls back to first category",
			description: "Doing things with stuff.",
			expected:    types.ToneFormal,
		},
	}

	analyzer := NewAnalyzer(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyzer.Analyze(tt.description)
			if got.DetectedTone != tt.expected {
				t.Errorf("DetectedTone = %v, want %v", got.DetectedTone, tt.expected)
			}
		})
	}
}

func TestAnalyzeTieBreaksByDeclarationOrder(t *testing.T) {
	analyzer := NewAnalyzer([]Category{
		{Tone: types.ToneCasual, Keywords: []string{"widget"}},
		{Tone: types.ToneTechnical, Keywords: []string{"widget"}},
	})

	got := analyzer.Analyze("we make a widget")
	if got.DetectedTone != types.ToneCasual {
		t.Errorf("tie should go to first-declared category, got %v", got.DetectedTone)
	}
}

func TestAnalyzeExtractsTraits(t *testing.T) {
	description := "Acme builds rockets. Our mission is to make space travel routine. " +
		"We believe in radical transparency at every level. Salary is competitive. " +
		"The culture here rewards curiosity and craft. Another mission statement here too."

	got := NewAnalyzer(nil).Analyze(description)

	if len(got.CompanyTraits) == 0 {
		t.Fatal("expected trait phrases to be extracted")
	}
	if len(got.CompanyTraits) > 3 {
		t.Errorf("trait count = %d, want at most 3", len(got.CompanyTraits))
	}
	for _, trait := range got.CompanyTraits {
		if strings.TrimSpace(trait) != trait {
			t.Errorf("trait %q not trimmed", trait)
		}
	}
}

func TestAnalyzeStateless(t *testing.T) {
	analyzer := NewAnalyzer(nil)
	desc := "Our mission is scalable engineering impact."

	first := analyzer.Analyze(desc)
	second := analyzer.Analyze(desc)

	if first.DetectedTone != second.DetectedTone {
		t.Error("repeated analysis changed the detected tone")
	}
	if len(first.CompanyTraits) != len(second.CompanyTraits) {
		t.Error("repeated analysis changed the extracted traits")
	}
}
