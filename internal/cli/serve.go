package cli

import (
	"lettersmith/internal/observability"
	"lettersmith/internal/pipeline"
	"lettersmith/internal/refine"
	"lettersmith/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for cover letter generation",
	Long: `Start an HTTP server that provides REST API endpoints for cover letter
generation, job detail extraction, ATS scoring and session management.

Available endpoints:
- POST /generate: Generate a cover letter for a job posting
- POST /score: Score a resume against a job description
- POST /suggest: Suggest resume revisions
- POST /extract: Extract structured job details
- POST /refine: Rewrite a resume section or bullet list
- GET /sessions: List cached sessions
- GET /health: Health check endpoint
- GET /stats: Server statistics and rate limiting info

TLS Configuration:
- Use --tls to enable TLS
- Use --cert-file and --key-file for the certificate pair`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")
	serveCmd.Flags().Bool("tls", false, "Enable TLS (overrides config)")
	serveCmd.Flags().String("cert-file", "", "Server certificate file (PEM, overrides config)")
	serveCmd.Flags().String("key-file", "", "Server private key file (PEM, overrides config)")

	// Bind flags to viper config keys
	bindFlag := func(key, flagName string) {
		if err := viper.BindPFlag(key, serveCmd.Flags().Lookup(flagName)); err != nil {
			panic(err)
		}
	}

	bindFlag("server.port", "port")
	bindFlag("server.host", "host")
	bindFlag("server.tls.enabled", "tls")
	bindFlag("server.tls.certfile", "cert-file")
	bindFlag("server.tls.keyfile", "key-file")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	build := func(om *observability.ObservabilityManager) (*pipeline.Pipeline, *refine.Refiner, error) {
		pl, err := buildPipeline(cfg, logger, observability.NewPipelineMetrics(om))
		if err != nil {
			return nil, nil, err
		}
		rf, err := buildRefiner(cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return pl, rf, nil
	}

	serverCfg := server.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        Version,
		TLSConfig:      cfg.Server.TLS,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.App.MaxFileSize,
		RateLimit:      &cfg.Server.RateLimit,
	}
	return server.NewServer(cfg, serverCfg, build, logger).Start()
}
