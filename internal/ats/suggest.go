package ats

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"lettersmith/internal/ai"
	"lettersmith/internal/errors"
	"lettersmith/internal/parse"
	"lettersmith/internal/prompt"
	"lettersmith/internal/types"
)

var suggestRequiredKeys = []string{"suggestions"}

var validSeverities = map[string]bool{
	types.SeverityHigh:   true,
	types.SeverityMedium: true,
	types.SeverityLow:    true,
}

// Suggester produces revision suggestions for a resume against a job
// description. Suggestions are ephemeral: recomputed per call, never
// cached.
type Suggester struct {
	ai      *ai.Service
	prompts *prompt.Builder
	logger  *errors.Logger
}

func NewSuggester(aiService *ai.Service, prompts *prompt.Builder, logger *errors.Logger) *Suggester {
	return &Suggester{ai: aiService, prompts: prompts, logger: logger}
}

// Suggest analyzes a resume and returns prioritized suggestions. An
// unusable model response yields an empty slice, not an error.
func (s *Suggester) Suggest(ctx context.Context, input types.SuggestInput) ([]types.RevisionSuggestion, error) {
	p := s.prompts.Suggestions(input.Resume, input.JobDescription)

	raw, _, err := s.ai.Generate(ctx, p, ai.GenerateOptions{})
	if err != nil {
		return nil, err
	}

	out := parse.Recover(raw, suggestRequiredKeys, func() types.SuggestOutput {
		return types.SuggestOutput{Suggestions: []types.RevisionSuggestion{}}
	})

	return sanitizeSuggestions(out.Suggestions), nil
}

// sanitizeSuggestions drops empty entries, normalizes severities, and
// assigns ids so every suggestion is addressable in a UI.
func sanitizeSuggestions(in []types.RevisionSuggestion) []types.RevisionSuggestion {
	out := make([]types.RevisionSuggestion, 0, len(in))
	for _, sg := range in {
		if strings.TrimSpace(sg.Title) == "" && strings.TrimSpace(sg.Description) == "" {
			continue
		}
		sg.Severity = strings.ToLower(strings.TrimSpace(sg.Severity))
		if !validSeverities[sg.Severity] {
			sg.Severity = types.SeverityMedium
		}
		if sg.ID == "" {
			sg.ID = uuid.NewString()
		}
		out = append(out, sg)
	}
	return out
}
