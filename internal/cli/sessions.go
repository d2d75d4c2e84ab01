package cli

import (
	"fmt"

	"lettersmith/internal/common"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage the session cache",
	Long: `Inspect and manage cached generation sessions. Every completed
generate run is cached keyed by the job posting's content hash, so
repeated runs against the same posting are served instantly.`,
}

var sessionsConfig common.CommandConfig

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached sessions",
	Args:  cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if sessionsConfig.OutputFormat == "" {
			sessionsConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(sessionsConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		logger := getLoggerFromContext(cmd.Context())

		manager := newSessionManager(cfg, logger)
		sessions, err := manager.GetSessions()
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		return common.NewOutputHandler(logger).HandleOutput(sessions, sessionsConfig)
	},
}

var sessionsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show session cache statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		logger := getLoggerFromContext(cmd.Context())

		manager := newSessionManager(cfg, logger)
		stats, err := manager.GetCacheStats()
		if err != nil {
			return fmt.Errorf("failed to read cache stats: %w", err)
		}

		return common.NewOutputHandler(logger).HandleOutput(stats, common.CommandConfig{OutputFormat: "json"})
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete [session-id]",
	Short: "Delete a cached session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		logger := getLoggerFromContext(cmd.Context())

		manager := newSessionManager(cfg, logger)
		if err := manager.DeleteSession(args[0]); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}

		fmt.Printf("Session %s deleted\n", args[0])
		return nil
	},
}

func init() {
	sessionsListCmd.Flags().StringVarP(&sessionsConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	sessionsListCmd.Flags().StringVar(&sessionsConfig.OutputFormat, "format", "", "Output format: json or text")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsStatsCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
}
