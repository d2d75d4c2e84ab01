package config

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.PremiumModel == "" {
		opCfg.PremiumModel = c.AI.PremiumModel
	}
	if opCfg.Timeout == nil {
		opCfg.Timeout = &c.AI.Timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		opCfg.MaxRetries = &c.AI.MaxRetries
	}
	if opCfg.Temperature == nil {
		opCfg.Temperature = &c.AI.Temperature
	}
}

// GetExtractConfig returns the AI configuration for extraction with fallback to global config
func (c *Config) GetExtractConfig() OperationAIConfig {
	config := c.AI.Extract
	c.applyOperationDefaults(&config)

	if config.CustomPrompts.Extraction == "" {
		config.CustomPrompts.Extraction = c.AI.CustomPrompts.Extraction
	}
	if config.CustomPrompts.ExtractionFile == "" {
		config.CustomPrompts.ExtractionFile = c.AI.CustomPrompts.ExtractionFile
	}

	return config
}

// GetLetterConfig returns the AI configuration for letter generation with fallback to global config
func (c *Config) GetLetterConfig() OperationAIConfig {
	config := c.AI.Letter
	c.applyOperationDefaults(&config)

	if config.CustomPrompts.CoverLetter == "" {
		config.CustomPrompts.CoverLetter = c.AI.CustomPrompts.CoverLetter
	}
	if config.CustomPrompts.CoverLetterFile == "" {
		config.CustomPrompts.CoverLetterFile = c.AI.CustomPrompts.CoverLetterFile
	}

	return config
}

// GetRefineConfig returns the AI configuration for refinement operations with fallback to global config
func (c *Config) GetRefineConfig() OperationAIConfig {
	config := c.AI.Refine
	c.applyOperationDefaults(&config)

	if config.CustomPrompts.SectionRefine == "" {
		config.CustomPrompts.SectionRefine = c.AI.CustomPrompts.SectionRefine
	}
	if config.CustomPrompts.SectionRefineFile == "" {
		config.CustomPrompts.SectionRefineFile = c.AI.CustomPrompts.SectionRefineFile
	}
	if config.CustomPrompts.BulletRefine == "" {
		config.CustomPrompts.BulletRefine = c.AI.CustomPrompts.BulletRefine
	}
	if config.CustomPrompts.BulletRefineFile == "" {
		config.CustomPrompts.BulletRefineFile = c.AI.CustomPrompts.BulletRefineFile
	}

	return config
}

// GetScoreConfig returns the AI configuration for scoring operations with fallback to global config
func (c *Config) GetScoreConfig() OperationAIConfig {
	config := c.AI.Score
	c.applyOperationDefaults(&config)

	if config.CustomPrompts.ATSScore == "" {
		config.CustomPrompts.ATSScore = c.AI.CustomPrompts.ATSScore
	}
	if config.CustomPrompts.ATSScoreFile == "" {
		config.CustomPrompts.ATSScoreFile = c.AI.CustomPrompts.ATSScoreFile
	}
	if config.CustomPrompts.Suggestions == "" {
		config.CustomPrompts.Suggestions = c.AI.CustomPrompts.Suggestions
	}
	if config.CustomPrompts.SuggestionsFile == "" {
		config.CustomPrompts.SuggestionsFile = c.AI.CustomPrompts.SuggestionsFile
	}

	return config
}

// GetLoadedPromptOverrides returns the effective prompt overrides after
// file loading: a file-loaded prompt wins over an inline config prompt.
func (c *Config) GetLoadedPromptOverrides() LoadedPrompts {
	return loadedPrompts
}
