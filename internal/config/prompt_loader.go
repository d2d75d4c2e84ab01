package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// promptFileBinding pairs a configured file path with its inline
// fallback and the loaded-prompt slot it fills.
type promptFileBinding struct {
	name   string
	file   string
	inline string
	target *string
}

func (c *Config) promptBindings(target *LoadedPrompts) []promptFileBinding {
	global := c.AI.CustomPrompts
	return []promptFileBinding{
		{"coverLetter", firstNonEmpty(c.AI.Letter.CustomPrompts.CoverLetterFile, global.CoverLetterFile),
			firstNonEmpty(c.AI.Letter.CustomPrompts.CoverLetter, global.CoverLetter), &target.CoverLetter},
		{"extraction", firstNonEmpty(c.AI.Extract.CustomPrompts.ExtractionFile, global.ExtractionFile),
			firstNonEmpty(c.AI.Extract.CustomPrompts.Extraction, global.Extraction), &target.Extraction},
		{"atsScore", firstNonEmpty(c.AI.Score.CustomPrompts.ATSScoreFile, global.ATSScoreFile),
			firstNonEmpty(c.AI.Score.CustomPrompts.ATSScore, global.ATSScore), &target.ATSScore},
		{"suggestions", firstNonEmpty(c.AI.Score.CustomPrompts.SuggestionsFile, global.SuggestionsFile),
			firstNonEmpty(c.AI.Score.CustomPrompts.Suggestions, global.Suggestions), &target.Suggestions},
		{"sectionRefine", firstNonEmpty(c.AI.Refine.CustomPrompts.SectionRefineFile, global.SectionRefineFile),
			firstNonEmpty(c.AI.Refine.CustomPrompts.SectionRefine, global.SectionRefine), &target.SectionRefine},
		{"bulletRefine", firstNonEmpty(c.AI.Refine.CustomPrompts.BulletRefineFile, global.BulletRefineFile),
			firstNonEmpty(c.AI.Refine.CustomPrompts.BulletRefine, global.BulletRefine), &target.BulletRefine},
	}
}

// loadPromptsFromFiles resolves every prompt slot with the precedence
// file > inline config > built-in default (left empty here).
func (c *Config) loadPromptsFromFiles() error {
	log.Println("[CONFIG] Starting custom prompt loading from files")

	var result LoadedPrompts
	loadedCount := 0

	for _, binding := range c.promptBindings(&result) {
		if binding.file != "" {
			content, err := loadPromptFromFile(binding.file, binding.name)
			if err != nil {
				return err
			}
			*binding.target = content
			loadedCount++
			continue
		}
		if binding.inline != "" {
			*binding.target = binding.inline
			loadedCount++
		}
	}

	setLoadedPrompts(result)

	if loadedCount == 0 {
		log.Println("[CONFIG] No custom prompts loaded - using built-in defaults")
	} else {
		log.Printf("[CONFIG] Total custom prompts loaded: %d", loadedCount)
	}

	return nil
}

// ReloadPrompts re-runs prompt file loading. Used by the hot-reload
// watcher when a prompt file changes on disk.
func (c *Config) ReloadPrompts() error {
	return c.loadPromptsFromFiles()
}

// PromptFiles returns the configured prompt file paths, for the
// hot-reload watcher.
func (c *Config) PromptFiles() []string {
	var target LoadedPrompts
	var files []string
	for _, binding := range c.promptBindings(&target) {
		if binding.file != "" {
			files = append(files, binding.file)
		}
	}
	return files
}

// loadPromptFromFile loads a prompt from a file with proper error handling and logging
func loadPromptFromFile(filePath, name string) (string, error) {
	// Resolve relative paths
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s prompt file '%s': %w", name, filePath, err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s prompt file '%s': %w", name, absPath, err)
	}

	// Validate content is not empty
	trimmedContent := strings.TrimSpace(string(content))
	if trimmedContent == "" {
		return "", fmt.Errorf("%s prompt file '%s' is empty", name, absPath)
	}

	log.Printf("[CONFIG] Successfully loaded %s prompt from file: %s (%d characters)",
		name, absPath, len(trimmedContent))

	return trimmedContent, nil
}

// validatePromptFiles validates that prompt files exist before loading
func (c *Config) validatePromptFiles() error {
	var validationErrors []string

	var target LoadedPrompts
	for _, binding := range c.promptBindings(&target) {
		if binding.file == "" {
			continue
		}
		absPath, err := filepath.Abs(binding.file)
		if err != nil {
			validationErrors = append(validationErrors,
				fmt.Sprintf("invalid path for %s prompt: %s", binding.name, binding.file))
			continue
		}
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			validationErrors = append(validationErrors,
				fmt.Sprintf("%s prompt file not found: %s", binding.name, absPath))
		}
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
