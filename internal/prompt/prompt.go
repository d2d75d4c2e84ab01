// Package prompt composes bounded-length prompts for every generation
// operation. Builders are deterministic: identical inputs always yield
// identical prompt text, temperature lives with the generation call.
package prompt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"lettersmith/internal/types"
)

// Character budgets for variable-length inputs. Truncation is a prefix
// cut to bound token cost, never resampling.
const (
	CoverLetterJobBudget = 1500
	ExtractionBudget     = 3000
	ScoreResumeBudget    = 6000
	ScoreJobBudget       = 3000
	RefineContextBudget  = 2000
)

// Truncate cuts s to at most max bytes, appending an ellipsis marker
// when anything was dropped. The cut backs up to a rune boundary so
// the result is always valid UTF-8.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// Overrides carries operation-level template replacements resolved by
// the config layer (file > config > default precedence).
type Overrides struct {
	CoverLetter   string
	SectionRefine string
	BulletRefine  string
	ATSScore      string
	Extraction    string
	Suggestions   string
}

// Builder produces prompt strings for the pipeline operations.
type Builder struct {
	overrides Overrides
}

// NewBuilder creates a Builder using the given template overrides;
// empty override fields fall back to the built-in defaults.
func NewBuilder(overrides Overrides) *Builder {
	return &Builder{overrides: overrides}
}

// toneGuidance turns a tone analysis into prompt steering text.
func toneGuidance(tone types.ToneAnalysis) string {
	var b strings.Builder

	switch tone.DetectedTone {
	case types.ToneCasual:
		b.WriteString("Write in a warm, conversational voice. Contractions are fine; stiff corporate phrasing is not.")
	case types.ToneMissionDriven:
		b.WriteString("Write with genuine enthusiasm for the company's mission. Connect the candidate's values to the company's purpose.")
	case types.ToneTechnical:
		b.WriteString("Write in a precise, confident voice. Lead with concrete technical accomplishments and name specific technologies.")
	default:
		b.WriteString("Write in a polished, professional voice appropriate for a traditional employer.")
	}

	if len(tone.CompanyTraits) > 0 {
		b.WriteString("\nThe company describes itself this way; echo what is relevant:\n")
		for _, trait := range tone.CompanyTraits {
			b.WriteString("- " + Truncate(trait, 200) + "\n")
		}
	}

	return b.String()
}

// CoverLetter builds the cover letter generation prompt.
func (p *Builder) CoverLetter(job types.JobDetails, profile types.UserProfile, tone types.ToneAnalysis) string {
	template := p.overrides.CoverLetter
	if template == "" {
		template = defaultCoverLetterPrompt
	}

	return fmt.Sprintf(template,
		job.JobTitle,
		job.CompanyName,
		job.Location,
		Truncate(job.Description, CoverLetterJobBudget),
		profile.FullName,
		Truncate(profile.Resume, RefineContextBudget),
		toneGuidance(tone),
	)
}

// SectionRefine builds the prompt for rewriting one resume section.
func (p *Builder) SectionRefine(section, content, jobDescription string) string {
	template := p.overrides.SectionRefine
	if template == "" {
		template = defaultSectionRefinePrompt
	}

	return fmt.Sprintf(template,
		section,
		Truncate(content, RefineContextBudget),
		Truncate(jobDescription, CoverLetterJobBudget),
	)
}

// BulletRefine builds the prompt for tightening resume bullets.
func (p *Builder) BulletRefine(bullets []string, jobDescription string) string {
	template := p.overrides.BulletRefine
	if template == "" {
		template = defaultBulletRefinePrompt
	}

	return fmt.Sprintf(template,
		Truncate(strings.Join(bullets, "\n"), RefineContextBudget),
		Truncate(jobDescription, CoverLetterJobBudget),
	)
}

// ATSScore builds the scoring prompt with per-criterion point budgets
// and harsh-grader guidance to counter model leniency.
func (p *Builder) ATSScore(resume, jobDescription string) string {
	template := p.overrides.ATSScore
	if template == "" {
		template = defaultATSScorePrompt
	}

	return fmt.Sprintf(template,
		Truncate(resume, ScoreResumeBudget),
		Truncate(jobDescription, ScoreJobBudget),
	)
}

// Extraction builds the structured-field extraction prompt over a
// capped prefix of cleaned posting text.
func (p *Builder) Extraction(cleanedText string) string {
	template := p.overrides.Extraction
	if template == "" {
		template = defaultExtractionPrompt
	}

	return fmt.Sprintf(template, Truncate(cleanedText, ExtractionBudget))
}

// Suggestions builds the revision suggestion analysis prompt.
func (p *Builder) Suggestions(resume, jobDescription string) string {
	template := p.overrides.Suggestions
	if template == "" {
		template = defaultSuggestionsPrompt
	}

	return fmt.Sprintf(template,
		Truncate(resume, ScoreResumeBudget),
		Truncate(jobDescription, ScoreJobBudget),
	)
}
