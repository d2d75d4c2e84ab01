package ats

import (
	"context"
	"math"

	"lettersmith/internal/ai"
	"lettersmith/internal/errors"
	"lettersmith/internal/parse"
	"lettersmith/internal/prompt"
	"lettersmith/internal/types"
)

const (
	// MaxScore caps the reported score. A perfect 100 is withheld so
	// the output always leaves room for improvement suggestions.
	MaxScore = 95

	// DefaultReconcileTolerance is the allowed drift between the
	// overall score and the breakdown sum before rescaling kicks in.
	DefaultReconcileTolerance = 5

	// MaxBreakdownField bounds each breakdown dimension.
	MaxBreakdownField = 20

	scoreTemperature float32 = 0.1
)

// scoreRequiredKeys rejects responses whose breakdown object is
// missing any of the five scored dimensions, so a bare {} cannot
// masquerade as an all-zero breakdown.
var scoreRequiredKeys = []string{
	"score",
	"breakdown.keywordMatch",
	"breakdown.experienceRelevance",
	"breakdown.formatCompatibility",
	"breakdown.sectionCompleteness",
	"breakdown.clarityUniqueness",
}

// Scorer produces deterministic-shape ATS score results from model
// output. Parsing and shape failures degrade to a conservative
// fallback result rather than an error.
type Scorer struct {
	ai        *ai.Service
	prompts   *prompt.Builder
	tolerance int
	logger    *errors.Logger
}

// NewScorer creates a Scorer. A non-positive tolerance falls back to
// DefaultReconcileTolerance.
func NewScorer(aiService *ai.Service, prompts *prompt.Builder, tolerance int, logger *errors.Logger) *Scorer {
	if tolerance <= 0 {
		tolerance = DefaultReconcileTolerance
	}
	return &Scorer{ai: aiService, prompts: prompts, tolerance: tolerance, logger: logger}
}

// Score evaluates a resume against a job description. The model runs
// at low temperature; the result is clamped and its breakdown
// reconciled so downstream consumers always see internally consistent
// numbers.
func (s *Scorer) Score(ctx context.Context, input types.ScoreInput, premium bool) types.ATSScoreResult {
	p := s.prompts.ATSScore(input.Resume, input.JobDescription)

	temp := scoreTemperature
	raw, _, err := s.ai.Generate(ctx, p, ai.GenerateOptions{
		Temperature: &temp,
		Premium:     premium,
	})
	if err != nil {
		if s.logger != nil {
			s.logger.LogError(err, "ATS scoring generation failed")
		}
		return FallbackResult()
	}

	result, err := parse.Attempt[types.ATSScoreResult](raw, scoreRequiredKeys)
	if err != nil {
		if s.logger != nil {
			s.logger.LogError(err, "ATS scoring response unusable")
		}
		return FallbackResult()
	}

	return s.Normalize(result)
}

// Normalize clamps the score and reconciles the breakdown against it.
// Safe to call on already-normalized results.
func (s *Scorer) Normalize(result types.ATSScoreResult) types.ATSScoreResult {
	result.Score = clamp(result.Score, 0, MaxScore)
	result.Breakdown = reconcile(result.Breakdown, result.Score, s.tolerance)
	if result.Feedback == nil {
		result.Feedback = []string{}
	}
	if result.Improvements == nil {
		result.Improvements = []string{}
	}
	return result
}

// reconcile rescales each breakdown field by score/sum when the sum
// drifts beyond the tolerance, so the parts always explain the whole.
// Fields are clamped to [0,MaxBreakdownField] on entry and again
// after rescaling; a factor above 1 must not push a field past 20.
func reconcile(b types.ScoreBreakdown, score, tolerance int) types.ScoreBreakdown {
	b = clampBreakdown(b)
	sum := b.Total()
	if sum <= 0 {
		return evenSplit(score)
	}
	if abs(sum-score) <= tolerance {
		return b
	}

	factor := float64(score) / float64(sum)
	b.KeywordMatch = scale(b.KeywordMatch, factor)
	b.ExperienceRelevance = scale(b.ExperienceRelevance, factor)
	b.FormatCompatibility = scale(b.FormatCompatibility, factor)
	b.SectionCompleteness = scale(b.SectionCompleteness, factor)
	b.ClarityUniqueness = scale(b.ClarityUniqueness, factor)
	return clampBreakdown(b)
}

func clampBreakdown(b types.ScoreBreakdown) types.ScoreBreakdown {
	b.KeywordMatch = clamp(b.KeywordMatch, 0, MaxBreakdownField)
	b.ExperienceRelevance = clamp(b.ExperienceRelevance, 0, MaxBreakdownField)
	b.FormatCompatibility = clamp(b.FormatCompatibility, 0, MaxBreakdownField)
	b.SectionCompleteness = clamp(b.SectionCompleteness, 0, MaxBreakdownField)
	b.ClarityUniqueness = clamp(b.ClarityUniqueness, 0, MaxBreakdownField)
	return b
}

// evenSplit distributes a score across the five fields, front-loading
// the remainder.
func evenSplit(score int) types.ScoreBreakdown {
	base := score / 5
	rem := score % 5
	fields := [5]int{base, base, base, base, base}
	for i := 0; i < rem; i++ {
		fields[i]++
	}
	return types.ScoreBreakdown{
		KeywordMatch:        fields[0],
		ExperienceRelevance: fields[1],
		FormatCompatibility: fields[2],
		SectionCompleteness: fields[3],
		ClarityUniqueness:   fields[4],
	}
}

// FallbackResult is the conservative non-zero result returned when
// scoring cannot complete. Non-zero so callers can distinguish it
// from a genuinely terrible resume.
func FallbackResult() types.ATSScoreResult {
	return types.ATSScoreResult{
		Score: 50,
		Feedback: []string{
			"Automated scoring was unavailable; this is a neutral placeholder score.",
		},
		Breakdown:    evenSplit(50),
		Improvements: []string{"Retry scoring once the service is reachable."},
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func scale(v int, factor float64) int {
	return int(math.Round(float64(v) * factor))
}
