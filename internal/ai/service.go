package ai

import (
	"context"
	"fmt"

	"lettersmith/internal/config"
	"lettersmith/internal/errors"
)

// Service wraps a Generator configured for a specific operation
type Service struct {
	Generator Generator
	config    *config.OperationAIConfig
	logger    *errors.Logger
}

// NewService creates an AI service for one operation (extract, letter,
// refine, score), each of which may carry its own model and limits
func NewService(cfg *config.OperationAIConfig, operationType string, logger *errors.Logger) (*Service, error) {
	var generator Generator
	var err error

	logger.Debug("Initializing AI service",
		"provider", cfg.Provider,
		"operation_type", operationType,
		"model", cfg.Model,
		"premium_model", cfg.PremiumModel,
		"temperature", *cfg.Temperature,
		"timeout", *cfg.Timeout,
		"max_retries", *cfg.MaxRetries)

	switch cfg.Provider {
	case "gemini":
		generator, err = NewGeminiProvider(cfg, operationType, logger)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}

	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"Failed to create AI provider", err)
	}

	return &Service{
		Generator: generator,
		config:    cfg,
		logger:    logger,
	}, nil
}

// Generate forwards to the configured provider
func (s *Service) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, *TokenUsage, error) {
	return s.Generator.Generate(ctx, prompt, opts)
}

// GetModelInfo returns information about the AI model for health checks
func (s *Service) GetModelInfo(ctx context.Context) *ModelInfo {
	return s.Generator.GetModelInfo(ctx)
}

// Close releases the provider's resources
func (s *Service) Close() error {
	return s.Generator.Close()
}
