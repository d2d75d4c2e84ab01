package ats

import (
	"testing"

	"lettersmith/internal/parse"
	"lettersmith/internal/types"
)

func TestNormalizeClampsScore(t *testing.T) {
	s := NewScorer(nil, nil, 0, nil)

	tests := []struct {
		name  string
		score int
		want  int
	}{
		{"above ceiling", 130, 95},
		{"perfect score withheld", 100, 95},
		{"at ceiling", 95, 95},
		{"normal", 72, 72},
		{"negative", -10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Normalize(types.ATSScoreResult{
				Score:     tt.score,
				Breakdown: evenSplit(clamp(tt.score, 0, 95)),
			})
			if got.Score != tt.want {
				t.Errorf("Score = %d, want %d", got.Score, tt.want)
			}
		})
	}
}

func TestNormalizeReconcilesBreakdown(t *testing.T) {
	s := NewScorer(nil, nil, 0, nil)

	// Breakdown sums to 100 but the score is 50, so every field
	// should be halved.
	got := s.Normalize(types.ATSScoreResult{
		Score: 50,
		Breakdown: types.ScoreBreakdown{
			KeywordMatch:        20,
			ExperienceRelevance: 20,
			FormatCompatibility: 20,
			SectionCompleteness: 20,
			ClarityUniqueness:   20,
		},
	})

	want := types.ScoreBreakdown{
		KeywordMatch:        10,
		ExperienceRelevance: 10,
		FormatCompatibility: 10,
		SectionCompleteness: 10,
		ClarityUniqueness:   10,
	}
	if got.Breakdown != want {
		t.Errorf("Breakdown = %+v, want %+v", got.Breakdown, want)
	}
}

func TestNormalizeLeavesConsistentBreakdownAlone(t *testing.T) {
	s := NewScorer(nil, nil, 5, nil)

	breakdown := types.ScoreBreakdown{
		KeywordMatch:        15,
		ExperienceRelevance: 14,
		FormatCompatibility: 16,
		SectionCompleteness: 13,
		ClarityUniqueness:   12,
	}
	// Sum is 70, score 68: drift of 2 is inside the tolerance.
	got := s.Normalize(types.ATSScoreResult{Score: 68, Breakdown: breakdown})
	if got.Breakdown != breakdown {
		t.Errorf("Breakdown = %+v, want unchanged %+v", got.Breakdown, breakdown)
	}
}

func TestNormalizeZeroBreakdownGetsEvenSplit(t *testing.T) {
	s := NewScorer(nil, nil, 0, nil)

	got := s.Normalize(types.ATSScoreResult{Score: 62})
	if got.Breakdown.Total() != 62 {
		t.Errorf("even split total = %d, want 62", got.Breakdown.Total())
	}
	if got.Breakdown.KeywordMatch < got.Breakdown.ClarityUniqueness {
		t.Error("even split should front-load the remainder")
	}
}

func TestCustomTolerance(t *testing.T) {
	// With a wide tolerance, a drift of 10 is acceptable.
	s := NewScorer(nil, nil, 15, nil)

	breakdown := types.ScoreBreakdown{
		KeywordMatch:        20,
		ExperienceRelevance: 20,
		FormatCompatibility: 20,
		SectionCompleteness: 10,
		ClarityUniqueness:   10,
	}
	got := s.Normalize(types.ATSScoreResult{Score: 70, Breakdown: breakdown})
	if got.Breakdown != breakdown {
		t.Errorf("Breakdown = %+v, want unchanged %+v", got.Breakdown, breakdown)
	}
}

func TestNormalizeClampsBreakdownFields(t *testing.T) {
	s := NewScorer(nil, nil, 0, nil)

	// One field far past the per-field ceiling. It is clamped to 20
	// before summing, and rescaling must not push any field back out
	// of range.
	got := s.Normalize(types.ATSScoreResult{
		Score: 95,
		Breakdown: types.ScoreBreakdown{
			KeywordMatch:        50,
			ExperienceRelevance: 5,
			FormatCompatibility: 5,
			SectionCompleteness: 5,
			ClarityUniqueness:   5,
		},
	})

	want := types.ScoreBreakdown{
		KeywordMatch:        20,
		ExperienceRelevance: 12,
		FormatCompatibility: 12,
		SectionCompleteness: 12,
		ClarityUniqueness:   12,
	}
	if got.Breakdown != want {
		t.Errorf("Breakdown = %+v, want %+v", got.Breakdown, want)
	}
	for name, v := range map[string]int{
		"keywordMatch":        got.Breakdown.KeywordMatch,
		"experienceRelevance": got.Breakdown.ExperienceRelevance,
		"formatCompatibility": got.Breakdown.FormatCompatibility,
		"sectionCompleteness": got.Breakdown.SectionCompleteness,
		"clarityUniqueness":   got.Breakdown.ClarityUniqueness,
	} {
		if v < 0 || v > MaxBreakdownField {
			t.Errorf("%s = %d, outside [0,%d]", name, v, MaxBreakdownField)
		}
	}
}

func TestScoreRequiredKeysRejectEmptyBreakdown(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{
			"empty breakdown object",
			`{"score":80,"feedback":[],"breakdown":{}}`,
			true,
		},
		{
			"one dimension missing",
			`{"score":80,"breakdown":{"keywordMatch":16,"experienceRelevance":16,"formatCompatibility":16,"sectionCompleteness":16}}`,
			true,
		},
		{
			"breakdown is not an object",
			`{"score":80,"breakdown":80}`,
			true,
		},
		{
			"all five dimensions present",
			`{"score":80,"breakdown":{"keywordMatch":16,"experienceRelevance":16,"formatCompatibility":16,"sectionCompleteness":16,"clarityUniqueness":16}}`,
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse.Attempt[types.ATSScoreResult](tt.raw, scoreRequiredKeys)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFallbackResult(t *testing.T) {
	got := FallbackResult()
	if got.Score == 0 {
		t.Error("fallback score must be non-zero")
	}
	if got.Breakdown.Total() != got.Score {
		t.Errorf("fallback breakdown total = %d, want %d", got.Breakdown.Total(), got.Score)
	}
	if len(got.Feedback) == 0 {
		t.Error("fallback should explain itself in feedback")
	}
}
