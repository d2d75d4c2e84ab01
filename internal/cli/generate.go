package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"lettersmith/internal/common"
	"lettersmith/internal/types"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate [profile-file]",
	Short: "Generate a cover letter for a job posting",
	Long: `Generate a tailored cover letter from your profile and a job posting.
The command takes one argument: the path to your profile file (JSON with
fullName, email, location and resume fields). Supply the posting either
as a URL with --job-url or as a plain text file with --job-file.

Repeated runs against the same posting are served from the session
cache; use --fresh to force regeneration.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if generateJobURL == "" && generateJobFile == "" {
			return fmt.Errorf("either --job-url or --job-file is required")
		}
		// Apply default format if not specified
		if generateConfig.OutputFormat == "" {
			generateConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(generateConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runGenerate,
}

var (
	generateConfig  common.CommandConfig
	generateJobURL  string
	generateJobFile string
	generatePremium bool
	generateFresh   bool
)

func init() {
	generateCmd.Flags().StringVarP(&generateConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	generateCmd.Flags().StringVar(&generateConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	generateCmd.Flags().StringVar(&generateJobURL, "job-url", "", "Job posting URL to fetch and extract")
	generateCmd.Flags().StringVar(&generateJobFile, "job-file", "", "File containing the job posting text")
	generateCmd.Flags().BoolVar(&generatePremium, "premium", false, "Use the premium model tier")
	generateCmd.Flags().BoolVar(&generateFresh, "fresh", false, "Evict any cached session for this job URL and regenerate")

	// Add completion for format flag
	_ = generateCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	pl, err := buildPipeline(cfg, logger, nil)
	if err != nil {
		return err
	}

	files := []string{args[0]}
	if generateJobFile != "" {
		files = append(files, generateJobFile)
	}

	createInput := func(contents []string) (types.GenerateInput, error) {
		var profile types.UserProfile
		if err := json.Unmarshal([]byte(contents[0]), &profile); err != nil {
			return types.GenerateInput{}, fmt.Errorf("profile file is not valid JSON: %w", err)
		}
		input := types.GenerateInput{
			JobURL:     generateJobURL,
			Profile:    profile,
			UsePremium: generatePremium,
		}
		if len(contents) > 1 {
			input.JobText = contents[1]
		}
		return input, nil
	}

	logDetails := func(input types.GenerateInput, cfg common.CommandConfig) {
		logger.Info("Starting cover letter generation",
			"job_url", input.JobURL,
			"job_chars", len(input.JobText),
			"premium", input.UsePremium,
			"output_format", cfg.OutputFormat)
	}

	generateOperation := func(ctx context.Context, input types.GenerateInput) (types.GenerateOutput, error) {
		if generateFresh {
			if session := findCachedSession(pl, input); session != nil {
				if err := pl.Sessions().DeleteSession(session.ID); err != nil {
					logger.Warn("Failed to evict cached session", "session_id", session.ID, "error", err)
				}
			}
		}
		return pl.Generate(ctx, input)
	}

	err = common.RunPipelineCommand(
		cmd.Context(),
		logger,
		generateConfig,
		files,
		createInput,
		generateOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to generate cover letter: %w", err)
	}
	logger.Info("Cover letter generation completed successfully")
	return nil
}
