package cli

import (
	"context"
	"fmt"

	"lettersmith/internal/common"
	"lettersmith/internal/types"

	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [resume-file] [job-description-file]",
	Short: "Suggest resume revisions for a job description",
	Long: `Analyze a resume against a job description and produce targeted
revision suggestions, each tied to a resume section with a severity
level. Suggestions are recomputed on every run and never cached.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if suggestConfig.OutputFormat == "" {
			suggestConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(suggestConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runSuggest,
}

var suggestConfig common.CommandConfig

func init() {
	suggestCmd.Flags().StringVarP(&suggestConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	suggestCmd.Flags().StringVar(&suggestConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	pl, err := buildPipeline(cfg, logger, nil)
	if err != nil {
		return err
	}

	createInput := func(contents []string) (types.SuggestInput, error) {
		if len(contents) != 2 {
			return types.SuggestInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		return types.SuggestInput{
			Resume:         contents[0],
			JobDescription: contents[1],
		}, nil
	}

	logDetails := func(input types.SuggestInput, cfg common.CommandConfig) {
		logger.Info("Starting revision suggestion analysis",
			"resume_chars", len(input.Resume),
			"job_chars", len(input.JobDescription),
			"output_format", cfg.OutputFormat)
	}

	err = common.RunPipelineCommand(
		cmd.Context(),
		logger,
		suggestConfig,
		args,
		createInput,
		func(ctx context.Context, input types.SuggestInput) (types.SuggestOutput, error) {
			return pl.Suggest(ctx, input)
		},
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}
	logger.Info("Revision suggestion analysis completed successfully")
	return nil
}
