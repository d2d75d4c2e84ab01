package cli

import (
	"context"
	"fmt"

	"lettersmith/internal/common"
	"lettersmith/internal/types"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [job-file]",
	Short: "Extract structured details from a job posting",
	Long: `Extract the job title, company name, location and description from a
job posting. Supply the posting either as a URL with --job-url or as a
plain text file argument. Extraction never hard-fails: on any problem
the full input text is kept as the description.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if extractJobURL == "" && len(args) == 0 {
			return fmt.Errorf("either --job-url or a job text file is required")
		}
		if extractConfig.OutputFormat == "" {
			extractConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(extractConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runExtract,
}

var (
	extractConfig common.CommandConfig
	extractJobURL string
)

type extractInput struct {
	jobURL  string
	jobText string
}

func init() {
	extractCmd.Flags().StringVarP(&extractConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	extractCmd.Flags().StringVar(&extractConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	extractCmd.Flags().StringVar(&extractJobURL, "job-url", "", "Job posting URL to fetch and extract")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	pl, err := buildPipeline(cfg, logger, nil)
	if err != nil {
		return err
	}

	createInput := func(contents []string) (extractInput, error) {
		input := extractInput{jobURL: extractJobURL}
		if len(contents) > 0 {
			input.jobText = contents[0]
		}
		return input, nil
	}

	logDetails := func(input extractInput, cfg common.CommandConfig) {
		logger.Info("Starting job detail extraction",
			"job_url", input.jobURL,
			"job_chars", len(input.jobText),
			"output_format", cfg.OutputFormat)
	}

	extractOperation := func(ctx context.Context, input extractInput) (types.JobDetails, error) {
		return pl.Extract(ctx, input.jobURL, input.jobText), nil
	}

	err = common.RunPipelineCommand(
		cmd.Context(),
		logger,
		extractConfig,
		args,
		createInput,
		extractOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to extract job details: %w", err)
	}
	logger.Info("Job detail extraction completed")
	return nil
}
