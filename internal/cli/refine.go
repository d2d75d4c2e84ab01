package cli

import (
	"context"
	"fmt"
	"strings"

	"lettersmith/internal/common"

	"github.com/spf13/cobra"
)

var refineCmd = &cobra.Command{
	Use:   "refine [content-file] [job-description-file]",
	Short: "Rewrite a resume section or bullet list for a job description",
	Long: `Rewrite part of a resume so it speaks to a specific job description.
By default the content file is treated as one resume section; name it
with --section. With --bullets the content file is read as one bullet
point per line instead. If the model output cannot be parsed the
original content is returned unchanged.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if !refineBullets && refineSection == "" {
			return fmt.Errorf("--section is required unless --bullets is set")
		}
		if refineConfig.OutputFormat == "" {
			refineConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(refineConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runRefine,
}

var (
	refineConfig  common.CommandConfig
	refineSection string
	refineBullets bool
	refinePremium bool
)

func init() {
	refineCmd.Flags().StringVarP(&refineConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	refineCmd.Flags().StringVar(&refineConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	refineCmd.Flags().StringVar(&refineSection, "section", "", "Name of the resume section being rewritten")
	refineCmd.Flags().BoolVar(&refineBullets, "bullets", false, "Treat the content file as one bullet point per line")
	refineCmd.Flags().BoolVar(&refinePremium, "premium", false, "Use the premium model tier")
}

type refineInput struct {
	content        string
	jobDescription string
}

func runRefine(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	refiner, err := buildRefiner(cfg, logger)
	if err != nil {
		return err
	}

	createInput := func(contents []string) (refineInput, error) {
		if len(contents) != 2 {
			return refineInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		return refineInput{content: contents[0], jobDescription: contents[1]}, nil
	}

	logDetails := func(input refineInput, cfg common.CommandConfig) {
		logger.Info("Starting refinement",
			"section", refineSection,
			"bullets", refineBullets,
			"content_chars", len(input.content),
			"output_format", cfg.OutputFormat)
	}

	refineOperation := func(ctx context.Context, input refineInput) (any, error) {
		if refineBullets {
			result, err := refiner.Bullets(ctx, splitBullets(input.content), input.jobDescription, refinePremium)
			return result, err
		}
		result, err := refiner.Section(ctx, refineSection, input.content, input.jobDescription, refinePremium)
		return result, err
	}

	err = common.RunPipelineCommand(
		cmd.Context(),
		logger,
		refineConfig,
		args,
		createInput,
		refineOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to refine content: %w", err)
	}
	logger.Info("Refinement completed successfully")
	return nil
}

// splitBullets reads one bullet per non-empty line, stripping common
// list markers.
func splitBullets(content string) []string {
	var bullets []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "- ")
		line = strings.TrimPrefix(line, "* ")
		line = strings.TrimSpace(line)
		if line != "" {
			bullets = append(bullets, line)
		}
	}
	return bullets
}
