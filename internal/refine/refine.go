package refine

import (
	"context"
	"strings"

	"lettersmith/internal/ai"
	"lettersmith/internal/errors"
	"lettersmith/internal/parse"
	"lettersmith/internal/prompt"
)

var (
	sectionRequiredKeys = []string{"content"}
	bulletRequiredKeys  = []string{"bullets"}
)

// RefinedSection is the rewritten form of one resume section.
type RefinedSection struct {
	Section string `json:"section"`
	Content string `json:"content"`
}

// RefinedBullets is the rewritten form of a bullet list.
type RefinedBullets struct {
	Bullets []string `json:"bullets"`
}

// Refiner rewrites resume sections and bullets to target a job
// description. An unusable model response leaves the input unchanged;
// the caller never gets degraded content.
type Refiner struct {
	ai      *ai.Service
	prompts *prompt.Builder
	logger  *errors.Logger
}

func NewRefiner(aiService *ai.Service, prompts *prompt.Builder, logger *errors.Logger) *Refiner {
	return &Refiner{ai: aiService, prompts: prompts, logger: logger}
}

// Section rewrites one resume section against the job description.
func (r *Refiner) Section(ctx context.Context, section, content, jobDescription string, premium bool) (RefinedSection, error) {
	p := r.prompts.SectionRefine(section, content, jobDescription)

	raw, _, err := r.ai.Generate(ctx, p, ai.GenerateOptions{Premium: premium})
	if err != nil {
		return RefinedSection{}, err
	}

	out := parse.Recover(raw, sectionRequiredKeys, func() RefinedSection {
		return RefinedSection{Section: section, Content: content}
	})
	if strings.TrimSpace(out.Content) == "" {
		out.Content = content
	}
	if out.Section == "" {
		out.Section = section
	}
	return out, nil
}

// Bullets rewrites a set of resume bullets against the job description.
func (r *Refiner) Bullets(ctx context.Context, bullets []string, jobDescription string, premium bool) (RefinedBullets, error) {
	p := r.prompts.BulletRefine(bullets, jobDescription)

	raw, _, err := r.ai.Generate(ctx, p, ai.GenerateOptions{Premium: premium})
	if err != nil {
		return RefinedBullets{}, err
	}

	out := parse.Recover(raw, bulletRequiredKeys, func() RefinedBullets {
		return RefinedBullets{Bullets: bullets}
	})
	if len(out.Bullets) == 0 {
		out.Bullets = bullets
	}
	return out, nil
}
