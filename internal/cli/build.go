package cli

import (
	"fmt"

	"lettersmith/internal/ai"
	"lettersmith/internal/ats"
	"lettersmith/internal/cache"
	"lettersmith/internal/config"
	"lettersmith/internal/errors"
	"lettersmith/internal/extract"
	"lettersmith/internal/pipeline"
	"lettersmith/internal/prompt"
	"lettersmith/internal/refine"
	"lettersmith/internal/tone"
	"lettersmith/internal/types"
)

// newPromptBuilder snapshots the loaded prompt set into a builder.
// Called on every pipeline build so prompt hot reloads propagate.
func newPromptBuilder() *prompt.Builder {
	loaded := config.GetPromptsSnapshot()
	return prompt.NewBuilder(prompt.Overrides{
		CoverLetter:   loaded.CoverLetter,
		Extraction:    loaded.Extraction,
		ATSScore:      loaded.ATSScore,
		Suggestions:   loaded.Suggestions,
		SectionRefine: loaded.SectionRefine,
		BulletRefine:  loaded.BulletRefine,
	})
}

// newSessionManager selects the file-backed store when a cache path is
// configured, the in-memory store otherwise.
func newSessionManager(cfg *config.Config, logger *errors.Logger) *cache.Manager {
	var store cache.Store
	if cfg.Cache.Path != "" {
		store = cache.NewFileStore(cfg.Cache.Path)
	} else {
		store = cache.NewMemoryStore()
	}
	return cache.NewManager(store, cfg.Cache.MaxSessions, cfg.Cache.RetentionWindow, logger)
}

// buildPipeline wires every pipeline collaborator from configuration.
func buildPipeline(cfg *config.Config, logger *errors.Logger, metrics pipeline.Metrics) (*pipeline.Pipeline, error) {
	prompts := newPromptBuilder()

	extractCfg := cfg.GetExtractConfig()
	extractAI, err := ai.NewService(&extractCfg, "extract", logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create extract AI service: %w", err)
	}

	letterCfg := cfg.GetLetterConfig()
	letterAI, err := ai.NewService(&letterCfg, "letter", logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create letter AI service: %w", err)
	}

	scoreCfg := cfg.GetScoreConfig()
	scoreAI, err := ai.NewService(&scoreCfg, "score", logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create score AI service: %w", err)
	}

	fetcher := extract.NewFetcher(cfg.Fetch.Timeout, cfg.Fetch.JobBoards, logger)
	extractor := extract.NewExtractor(fetcher, prompts, extractAI, logger)
	tones := tone.NewAnalyzer(nil)
	scorer := ats.NewScorer(scoreAI, prompts, cfg.App.ScoreReconcileTolerance, logger)
	suggester := ats.NewSuggester(scoreAI, prompts, logger)
	sessions := newSessionManager(cfg, logger)

	opts := pipeline.Options{Metrics: metrics}
	if cfg.Artifacts.Enabled && cfg.Artifacts.Dir != "" {
		opts.Blobs = pipeline.NewFSBlobStore(cfg.Artifacts.Dir)
	}

	return pipeline.New(extractor, tones, prompts, letterAI, scorer, suggester, sessions, logger, opts), nil
}

// findCachedSession locates a session for eviction before a forced
// regeneration. Text-only input has no stable key before extraction
// runs, so only URL lookups are attempted.
func findCachedSession(pl *pipeline.Pipeline, input types.GenerateInput) *types.CachedSession {
	if input.JobURL == "" || pl.Sessions() == nil {
		return nil
	}
	session, err := pl.Sessions().FindSessionByJobURL(input.JobURL)
	if err != nil {
		return nil
	}
	return session
}

// buildRefiner wires the section and bullet refiner from configuration.
func buildRefiner(cfg *config.Config, logger *errors.Logger) (*refine.Refiner, error) {
	refineCfg := cfg.GetRefineConfig()
	refineAI, err := ai.NewService(&refineCfg, "refine", logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create refine AI service: %w", err)
	}
	return refine.NewRefiner(refineAI, newPromptBuilder(), logger), nil
}
