package server

import (
	"sync/atomic"
	"time"

	"lettersmith/internal/config"
	lserrors "lettersmith/internal/errors"
	"lettersmith/internal/observability"
	"lettersmith/internal/pipeline"
	"lettersmith/internal/refine"
	"lettersmith/internal/types"
)

// GenerateRequest represents the request body for the generate endpoint
type GenerateRequest struct {
	JobURL     string            `json:"jobUrl,omitempty"`
	JobText    string            `json:"jobText,omitempty"`
	Profile    types.UserProfile `json:"profile"`
	UsePremium bool              `json:"usePremium"`
}

// ScoreRequest represents the request body for the score endpoint
type ScoreRequest struct {
	Resume         string `json:"resume"`
	JobDescription string `json:"jobDescription"`
	UsePremium     bool   `json:"usePremium"`
}

// SuggestRequest represents the request body for the suggest endpoint
type SuggestRequest struct {
	Resume         string `json:"resume"`
	JobDescription string `json:"jobDescription"`
}

// ExtractRequest represents the request body for the extract endpoint
type ExtractRequest struct {
	JobURL  string `json:"jobUrl,omitempty"`
	JobText string `json:"jobText,omitempty"`
}

// RefineRequest represents the request body for the refine endpoint.
// Either Section+Content or Bullets must be set.
type RefineRequest struct {
	Section        string   `json:"section,omitempty"`
	Content        string   `json:"content,omitempty"`
	Bullets        []string `json:"bullets,omitempty"`
	JobDescription string   `json:"jobDescription"`
	UsePremium     bool     `json:"usePremium"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// TLS Configuration
	TLSConfig config.TLSConfig

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Generation pipeline; swapped atomically on prompt hot reload
	pipeline atomic.Pointer[pipeline.Pipeline]
	refiner  atomic.Pointer[refine.Refiner]
	build    BuildFunc

	promptWatcher *config.PromptWatcher

	// Logger
	Logger *lserrors.Logger
}

// BuildFunc constructs the pipeline and refiner once observability is
// up. It runs again after each prompt reload, so new template
// overrides take effect without a restart.
type BuildFunc func(om *observability.ObservabilityManager) (*pipeline.Pipeline, *refine.Refiner, error)

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, build BuildFunc, logger *lserrors.Logger) *Server {

	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		build:          build,
		Logger:         logger,
	}
}

// Pipeline returns the current pipeline instance.
func (s *Server) Pipeline() *pipeline.Pipeline {
	return s.pipeline.Load()
}

// Refiner returns the current refiner instance.
func (s *Server) Refiner() *refine.Refiner {
	return s.refiner.Load()
}
