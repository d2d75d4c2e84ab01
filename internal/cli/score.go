package cli

import (
	"context"
	"fmt"

	"lettersmith/internal/common"
	"lettersmith/internal/types"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score [resume-file] [job-description-file]",
	Short: "Score a resume against a job description",
	Long: `Compute an ATS compatibility score for a resume against a job
description. The score is on a 0-100 scale with a breakdown across five
categories; the breakdown is reconciled so its sum always matches the
headline score.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if scoreConfig.OutputFormat == "" {
			scoreConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(scoreConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runScore,
}

var (
	scoreConfig  common.CommandConfig
	scorePremium bool
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	scoreCmd.Flags().StringVar(&scoreConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	scoreCmd.Flags().BoolVar(&scorePremium, "premium", false, "Use the premium model tier")
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	pl, err := buildPipeline(cfg, logger, nil)
	if err != nil {
		return err
	}

	createInput := func(contents []string) (types.ScoreInput, error) {
		if len(contents) != 2 {
			return types.ScoreInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		return types.ScoreInput{
			Resume:         contents[0],
			JobDescription: contents[1],
		}, nil
	}

	logDetails := func(input types.ScoreInput, cfg common.CommandConfig) {
		logger.Info("Starting ATS scoring",
			"resume_chars", len(input.Resume),
			"job_chars", len(input.JobDescription),
			"output_format", cfg.OutputFormat)
	}

	scoreOperation := func(ctx context.Context, input types.ScoreInput) (types.ATSScoreResult, error) {
		return pl.Score(ctx, input, scorePremium), nil
	}

	err = common.RunPipelineCommand(
		cmd.Context(),
		logger,
		scoreConfig,
		args,
		createInput,
		scoreOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to score resume: %w", err)
	}
	logger.Info("ATS scoring completed successfully")
	return nil
}
