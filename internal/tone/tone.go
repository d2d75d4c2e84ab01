// Package tone classifies a job description into a writing tone and
// pulls out company trait phrases, both used to steer prompt style.
package tone

import (
	"regexp"
	"strings"

	"lettersmith/internal/types"
)

// Category pairs a tone with the keywords that vote for it. Categories
// are evaluated in declaration order and ties go to the earlier entry.
type Category struct {
	Tone     types.ToneType
	Keywords []string
}

// DefaultCategories is the built-in classification table. The keyword
// sets are configuration: callers may supply their own table via
// NewAnalyzer as long as the tones stay within the closed ToneType set.
var DefaultCategories = []Category{
	{
		Tone: types.ToneFormal,
		Keywords: []string{
			"professional", "corporate", "enterprise", "compliance",
			"governance", "stakeholder", "executive", "established",
		},
	},
	{
		Tone: types.ToneCasual,
		Keywords: []string{
			"fun", "awesome", "fast-paced", "startup", "flexible",
			"team player", "ping pong", "laid-back", "casual",
		},
	},
	{
		Tone: types.ToneMissionDriven,
		Keywords: []string{
			"mission", "impact", "purpose", "community", "social",
			"nonprofit", "sustainability", "change the world", "values",
		},
	},
	{
		Tone: types.ToneTechnical,
		Keywords: []string{
			"engineering", "architecture", "scalable", "distributed",
			"algorithms", "infrastructure", "backend", "api", "cloud",
		},
	},
}

// traitCue marks sentences worth quoting back as company traits.
var traitCue = regexp.MustCompile(`(?i)\b(mission|vision|values|impact|culture|believe)\b`)

const maxTraits = 3

// Analyzer scores descriptions against a category table. It holds no
// mutable state; analyses are recomputed on every call.
type Analyzer struct {
	categories []Category
}

// NewAnalyzer creates an analyzer over the given category table,
// falling back to DefaultCategories when the table is empty.
func NewAnalyzer(categories []Category) *Analyzer {
	if len(categories) == 0 {
		categories = DefaultCategories
	}
	return &Analyzer{categories: categories}
}

// Analyze classifies the description and extracts trait phrases.
func (a *Analyzer) Analyze(description string) types.ToneAnalysis {
	lower := strings.ToLower(description)

	bestTone := a.categories[0].Tone
	bestScore := -1
	for _, cat := range a.categories {
		score := 0
		for _, kw := range cat.Keywords {
			score += strings.Count(lower, kw)
		}
		// Strictly greater keeps the first-declared category on ties
		if score > bestScore {
			bestScore = score
			bestTone = cat.Tone
		}
	}

	return types.ToneAnalysis{
		DetectedTone:  bestTone,
		CompanyTraits: extractTraits(description),
	}
}

// extractTraits returns up to maxTraits sentences containing a trait
// cue word, trimmed of surrounding whitespace.
func extractTraits(description string) []string {
	var traits []string
	for _, sentence := range splitSentences(description) {
		if len(traits) >= maxTraits {
			break
		}
		trimmed := strings.TrimSpace(sentence)
		if trimmed == "" || len(trimmed) < 15 {
			continue
		}
		if traitCue.MatchString(trimmed) {
			traits = append(traits, trimmed)
		}
	}
	return traits
}

var sentenceSplit = regexp.MustCompile(`[.!?]+\s+|\n+`)

func splitSentences(text string) []string {
	return sentenceSplit.Split(text, -1)
}
