package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadPromptsFromFiles(t *testing.T) {
	// Create temporary directory for test files
	tempDir := t.TempDir()

	letterPromptContent := "Test cover letter prompt with {{jobTitle}}"
	scorePromptContent := "Test scoring prompt"

	letterPromptFile := filepath.Join(tempDir, "letter.md")
	scorePromptFile := filepath.Join(tempDir, "score.md")

	if err := os.WriteFile(letterPromptFile, []byte(letterPromptContent), 0600); err != nil {
		t.Fatalf("Failed to create test letter prompt file: %v", err)
	}
	if err := os.WriteFile(scorePromptFile, []byte(scorePromptContent), 0600); err != nil {
		t.Fatalf("Failed to create test score prompt file: %v", err)
	}

	config := &Config{
		AI: AIConfig{
			Letter: OperationAIConfig{
				CustomPrompts: PromptConfig{
					CoverLetterFile: letterPromptFile,
				},
			},
			Score: OperationAIConfig{
				CustomPrompts: PromptConfig{
					ATSScoreFile: scorePromptFile,
				},
			},
		},
	}

	if err := config.loadPromptsFromFiles(); err != nil {
		t.Fatalf("Failed to load prompts from files: %v", err)
	}

	loaded := GetPromptsSnapshot()

	if loaded.CoverLetter != letterPromptContent {
		t.Errorf("Expected loaded cover letter prompt '%s', got '%s'",
			letterPromptContent, loaded.CoverLetter)
	}
	if loaded.ATSScore != scorePromptContent {
		t.Errorf("Expected loaded score prompt '%s', got '%s'",
			scorePromptContent, loaded.ATSScore)
	}

	// Verify file paths are preserved (new immutable design)
	if config.AI.Letter.CustomPrompts.CoverLetterFile != letterPromptFile {
		t.Error("Expected letter prompt file path to be preserved")
	}
	if config.AI.Score.CustomPrompts.ATSScoreFile != scorePromptFile {
		t.Error("Expected score prompt file path to be preserved")
	}
}

func TestLoadPromptsFilePrecedenceOverInline(t *testing.T) {
	tempDir := t.TempDir()

	fileContent := "Prompt from file"
	promptFile := filepath.Join(tempDir, "extraction.md")
	if err := os.WriteFile(promptFile, []byte(fileContent), 0600); err != nil {
		t.Fatalf("Failed to create test prompt file: %v", err)
	}

	config := &Config{
		AI: AIConfig{
			Extract: OperationAIConfig{
				CustomPrompts: PromptConfig{
					Extraction:     "Inline prompt that should lose",
					ExtractionFile: promptFile,
				},
			},
		},
	}

	if err := config.loadPromptsFromFiles(); err != nil {
		t.Fatalf("Failed to load prompts: %v", err)
	}

	loaded := GetPromptsSnapshot()
	if loaded.Extraction != fileContent {
		t.Errorf("Expected file content to take precedence, got '%s'", loaded.Extraction)
	}
}

func TestLoadPromptsInlineFallback(t *testing.T) {
	config := &Config{
		AI: AIConfig{
			CustomPrompts: PromptConfig{
				Suggestions: "Inline suggestions prompt",
			},
		},
	}

	if err := config.loadPromptsFromFiles(); err != nil {
		t.Fatalf("Failed to load prompts: %v", err)
	}

	loaded := GetPromptsSnapshot()
	if loaded.Suggestions != "Inline suggestions prompt" {
		t.Errorf("Expected inline prompt to be used, got '%s'", loaded.Suggestions)
	}
	if loaded.CoverLetter != "" {
		t.Errorf("Expected unset slots to stay empty, got '%s'", loaded.CoverLetter)
	}
}

func TestOperationFileOverridesGlobal(t *testing.T) {
	tempDir := t.TempDir()

	globalFile := filepath.Join(tempDir, "global.md")
	opFile := filepath.Join(tempDir, "op.md")
	if err := os.WriteFile(globalFile, []byte("global prompt"), 0600); err != nil {
		t.Fatalf("Failed to create global prompt file: %v", err)
	}
	if err := os.WriteFile(opFile, []byte("operation prompt"), 0600); err != nil {
		t.Fatalf("Failed to create operation prompt file: %v", err)
	}

	config := &Config{
		AI: AIConfig{
			CustomPrompts: PromptConfig{
				CoverLetterFile: globalFile,
			},
			Letter: OperationAIConfig{
				CustomPrompts: PromptConfig{
					CoverLetterFile: opFile,
				},
			},
		},
	}

	if err := config.loadPromptsFromFiles(); err != nil {
		t.Fatalf("Failed to load prompts: %v", err)
	}

	loaded := GetPromptsSnapshot()
	if loaded.CoverLetter != "operation prompt" {
		t.Errorf("Expected operation-level file to win, got '%s'", loaded.CoverLetter)
	}
}

func TestLoadPromptsEmptyFileFails(t *testing.T) {
	tempDir := t.TempDir()

	emptyFile := filepath.Join(tempDir, "empty.md")
	if err := os.WriteFile(emptyFile, []byte("   \n  "), 0600); err != nil {
		t.Fatalf("Failed to create empty prompt file: %v", err)
	}

	config := &Config{
		AI: AIConfig{
			CustomPrompts: PromptConfig{
				BulletRefineFile: emptyFile,
			},
		},
	}

	err := config.loadPromptsFromFiles()
	if err == nil {
		t.Fatal("Expected error for empty prompt file")
	}
	if !strings.Contains(err.Error(), "is empty") {
		t.Errorf("Expected empty-file error, got: %v", err)
	}
}

func TestLoadPromptsMissingFileFails(t *testing.T) {
	config := &Config{
		AI: AIConfig{
			CustomPrompts: PromptConfig{
				SectionRefineFile: "/nonexistent/prompt.md",
			},
		},
	}

	if err := config.loadPromptsFromFiles(); err == nil {
		t.Fatal("Expected error for missing prompt file")
	}
}

func TestValidatePromptFiles(t *testing.T) {
	tempDir := t.TempDir()

	validFile := filepath.Join(tempDir, "valid.md")
	if err := os.WriteFile(validFile, []byte("Valid content"), 0600); err != nil {
		t.Fatalf("Failed to create valid prompt file: %v", err)
	}

	t.Run("all files exist", func(t *testing.T) {
		config := &Config{
			AI: AIConfig{
				CustomPrompts: PromptConfig{
					CoverLetterFile: validFile,
				},
			},
		}

		if err := config.validatePromptFiles(); err != nil {
			t.Errorf("Expected validation to pass, got: %v", err)
		}
	})

	t.Run("missing file reported", func(t *testing.T) {
		config := &Config{
			AI: AIConfig{
				CustomPrompts: PromptConfig{
					CoverLetterFile: validFile,
					ExtractionFile:  filepath.Join(tempDir, "missing.md"),
				},
			},
		}

		err := config.validatePromptFiles()
		if err == nil {
			t.Fatal("Expected validation error for missing file")
		}
		if !strings.Contains(err.Error(), "extraction prompt file not found") {
			t.Errorf("Expected missing-file detail in error, got: %v", err)
		}
	})
}

func TestPromptFiles(t *testing.T) {
	config := &Config{
		AI: AIConfig{
			CustomPrompts: PromptConfig{
				CoverLetterFile: "/tmp/letter.md",
			},
			Score: OperationAIConfig{
				CustomPrompts: PromptConfig{
					ATSScoreFile: "/tmp/score.md",
				},
			},
		},
	}

	files := config.PromptFiles()
	if len(files) != 2 {
		t.Fatalf("Expected 2 prompt files, got %d: %v", len(files), files)
	}
}
