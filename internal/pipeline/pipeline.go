package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lettersmith/internal/ai"
	"lettersmith/internal/ats"
	"lettersmith/internal/cache"
	"lettersmith/internal/errors"
	"lettersmith/internal/extract"
	"lettersmith/internal/jobhash"
	"lettersmith/internal/parse"
	"lettersmith/internal/prompt"
	"lettersmith/internal/tone"
	"lettersmith/internal/types"
)

var letterRequiredKeys = []string{"greeting", "body"}

// Pipeline wires extraction, tone analysis, generation, scoring and
// the session cache into the full generate flow.
type Pipeline struct {
	extractor *extract.Extractor
	tones     *tone.Analyzer
	prompts   *prompt.Builder
	letterAI  *ai.Service
	scorer    *ats.Scorer
	suggester *ats.Suggester
	sessions  *cache.Manager
	blobs     BlobStore
	logger    *errors.Logger
	metrics   Metrics
}

// Metrics is the observation hook the pipeline reports into. A nil
// implementation is replaced with a no-op.
type Metrics interface {
	RecordCacheHit(ctx context.Context)
	RecordCacheMiss(ctx context.Context)
	RecordLetterGenerated(ctx context.Context)
	RecordScoreComputed(ctx context.Context, score int)
}

type noopMetrics struct{}

func (noopMetrics) RecordCacheHit(context.Context)           {}
func (noopMetrics) RecordCacheMiss(context.Context)          {}
func (noopMetrics) RecordLetterGenerated(context.Context)    {}
func (noopMetrics) RecordScoreComputed(context.Context, int) {}

// Options carries the optional collaborators.
type Options struct {
	Blobs   BlobStore
	Metrics Metrics
}

func New(extractor *extract.Extractor, tones *tone.Analyzer, prompts *prompt.Builder,
	letterAI *ai.Service, scorer *ats.Scorer, suggester *ats.Suggester,
	sessions *cache.Manager, logger *errors.Logger, opts Options) *Pipeline {

	metrics := opts.Metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}

	return &Pipeline{
		extractor: extractor,
		tones:     tones,
		prompts:   prompts,
		letterAI:  letterAI,
		scorer:    scorer,
		suggester: suggester,
		sessions:  sessions,
		blobs:     opts.Blobs,
		logger:    logger,
		metrics:   metrics,
	}
}

// Generate runs the full flow for one job posting. A cached session
// for an equivalent posting short-circuits generation entirely.
func (p *Pipeline) Generate(ctx context.Context, input types.GenerateInput) (types.GenerateOutput, error) {
	details := p.extractDetails(ctx, input)
	if !details.Success {
		return types.GenerateOutput{JobDetails: details},
			errors.NewValidationError(errors.ErrCodeExtractionFailed, details.Error, nil)
	}

	jdHash := jobhash.Hash(details.Description, details.JobTitle, details.CompanyName)

	if cached := p.lookup(input.JobURL, jdHash); cached != nil {
		p.metrics.RecordCacheHit(ctx)
		return outputFromSession(cached), nil
	}
	p.metrics.RecordCacheMiss(ctx)

	toneResult := p.tones.Analyze(details.Description)

	letterPrompt := p.prompts.CoverLetter(details, input.Profile, toneResult)
	raw, usage, err := p.letterAI.Generate(ctx, letterPrompt, ai.GenerateOptions{
		Premium: input.UsePremium,
	})
	if err != nil {
		return types.GenerateOutput{JobDetails: details, Tone: toneResult}, err
	}
	if usage != nil && p.logger != nil {
		p.logger.Debug("Letter generation token usage",
			"input_tokens", usage.InputTokens,
			"output_tokens", usage.OutputTokens,
			"total_tokens", usage.TotalTokens)
	}

	letter := parse.Recover(raw, letterRequiredKeys, func() types.GeneratedCoverLetter {
		return fallbackLetter(details, input.Profile)
	})
	letter.Success = letter.Error == ""
	letter.ToneUsed = toneResult.DetectedTone
	p.metrics.RecordLetterGenerated(ctx)

	var score *types.ATSScoreResult
	if input.Profile.Resume != "" {
		result := p.scorer.Score(ctx, types.ScoreInput{
			Resume:         input.Profile.Resume,
			JobDescription: details.Description,
		}, input.UsePremium)
		score = &result
		p.metrics.RecordScoreComputed(ctx, result.Score)
	}

	sessionID := p.persist(input, details, letter, score)
	p.upload(ctx, sessionID, letter)

	return types.GenerateOutput{
		SessionID:   sessionID,
		JobDetails:  details,
		Tone:        toneResult,
		CoverLetter: letter,
		Score:       score,
	}, nil
}

// Score runs the standalone scoring operation.
func (p *Pipeline) Score(ctx context.Context, input types.ScoreInput, premium bool) types.ATSScoreResult {
	return p.scorer.Score(ctx, input, premium)
}

// Suggest runs the revision suggestion analysis. Results are never
// cached.
func (p *Pipeline) Suggest(ctx context.Context, input types.SuggestInput) (types.SuggestOutput, error) {
	suggestions, err := p.suggester.Suggest(ctx, input)
	if err != nil {
		return types.SuggestOutput{}, err
	}
	return types.SuggestOutput{Suggestions: suggestions}, nil
}

// Extract runs extraction alone, for the extract command and route.
func (p *Pipeline) Extract(ctx context.Context, jobURL, jobText string) types.JobDetails {
	return p.extractDetails(ctx, types.GenerateInput{JobURL: jobURL, JobText: jobText})
}

// Sessions exposes the session cache for management commands.
func (p *Pipeline) Sessions() *cache.Manager {
	return p.sessions
}

func (p *Pipeline) extractDetails(ctx context.Context, input types.GenerateInput) types.JobDetails {
	if input.JobURL != "" {
		return p.extractor.FromURL(ctx, input.JobURL)
	}
	return p.extractor.FromText(ctx, input.JobText)
}

// lookup checks the cache by content hash first, then by URL. Only a
// session that already carries a letter counts as a hit.
func (p *Pipeline) lookup(jobURL, jdHash string) *types.CachedSession {
	if p.sessions == nil {
		return nil
	}

	session, err := p.sessions.FindSessionByJobHash(jdHash)
	if err == nil && session != nil && session.CoverLetter != nil {
		return session
	}

	if jobURL != "" {
		session, err = p.sessions.FindSessionByJobURL(jobURL)
		if err == nil && session != nil && session.CoverLetter != nil {
			return session
		}
	}
	return nil
}

// persist saves the completed session. Failures are logged, never
// surfaced: a cache outage must not cost the user their letter.
func (p *Pipeline) persist(input types.GenerateInput, details types.JobDetails,
	letter types.GeneratedCoverLetter, score *types.ATSScoreResult) string {

	if p.sessions == nil {
		return ""
	}

	profile := input.Profile
	saved, err := p.sessions.SaveSession(types.CachedSession{
		JobURL:      input.JobURL,
		JobDetails:  &details,
		UserProfile: &profile,
		Resume:      input.Profile.Resume,
		CoverLetter: &letter,
		Score:       score,
		UsePremium:  input.UsePremium,
	})
	if err != nil {
		if p.logger != nil {
			p.logger.LogError(err, "Failed to cache completed session")
		}
		return ""
	}
	return saved.ID
}

// upload hands the generated letter to the artifact store, if one is
// configured. Non-fatal.
func (p *Pipeline) upload(ctx context.Context, sessionID string, letter types.GeneratedCoverLetter) {
	if p.blobs == nil || !letter.Success {
		return
	}
	name := fmt.Sprintf("letter-%s.json", sessionID)
	if sessionID == "" {
		name = fmt.Sprintf("letter-%d.json", time.Now().UnixNano())
	}
	data, err := json.MarshalIndent(letter, "", "  ")
	if err != nil {
		return
	}
	if err := p.blobs.Put(ctx, name, data); err != nil && p.logger != nil {
		p.logger.LogError(err, "Artifact upload failed")
	}
}

func outputFromSession(s *types.CachedSession) types.GenerateOutput {
	out := types.GenerateOutput{
		SessionID: s.ID,
		FromCache: true,
		Score:     s.Score,
	}
	if s.JobDetails != nil {
		out.JobDetails = *s.JobDetails
	}
	if s.CoverLetter != nil {
		out.CoverLetter = *s.CoverLetter
		out.Tone = types.ToneAnalysis{DetectedTone: s.CoverLetter.ToneUsed}
	}
	return out
}

// fallbackLetter synthesizes a minimal but well-formed letter when the
// model output cannot be parsed. Marked unsuccessful so callers can
// tell it apart from generated content.
func fallbackLetter(details types.JobDetails, profile types.UserProfile) types.GeneratedCoverLetter {
	return types.GeneratedCoverLetter{
		Location: profile.Location,
		Date:     time.Now().Format("January 2, 2006"),
		Recipient: types.Recipient{
			Name:     "Hiring Manager",
			Company:  details.CompanyName,
			Location: details.Location,
		},
		Greeting: "Dear Hiring Manager,",
		Body: types.LetterBody{
			Hook: fmt.Sprintf("I am writing to express my interest in the %s role at %s.",
				details.JobTitle, details.CompanyName),
			Skills:  "My background aligns closely with the responsibilities described in the posting.",
			Closing: fmt.Sprintf("Thank you for considering my application. Sincerely, %s", profile.FullName),
		},
		Success: false,
		Error:   "Generated letter could not be parsed; a fallback letter was assembled instead.",
	}
}
