package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"lettersmith/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "GenerateOutput", &LetterTextFormatter{})
	registry.RegisterFormatter("markdown", "GenerateOutput", &LetterMarkdownFormatter{})
	registry.RegisterFormatter("text", "ATSScoreResult", &ScoreTextFormatter{})
	registry.RegisterFormatter("markdown", "ATSScoreResult", &ScoreMarkdownFormatter{})
	registry.RegisterFormatter("text", "SuggestOutput", &SuggestTextFormatter{})
	registry.RegisterFormatter("markdown", "SuggestOutput", &SuggestMarkdownFormatter{})
	registry.RegisterFormatter("text", "JobDetails", &JobDetailsTextFormatter{})
	registry.RegisterFormatter("markdown", "JobDetails", &JobDetailsMarkdownFormatter{})
	registry.RegisterFormatter("text", "SessionList", &SessionListTextFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.GenerateOutput:
		return "GenerateOutput"
	case types.ATSScoreResult:
		return "ATSScoreResult"
	case types.SuggestOutput:
		return "SuggestOutput"
	case types.JobDetails:
		return "JobDetails"
	case []types.CachedSession:
		return "SessionList"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// writeLetter renders the letter block shared by the text and markdown formatters
func writeLetter(output *strings.Builder, letter types.GeneratedCoverLetter) {
	if letter.Location != "" {
		output.WriteString(letter.Location)
		output.WriteString("\n")
	}
	output.WriteString(letter.Date)
	output.WriteString("\n\n")

	if letter.Recipient.Name != "" {
		output.WriteString(letter.Recipient.Name)
		output.WriteString("\n")
	}
	if letter.Recipient.Company != "" {
		output.WriteString(letter.Recipient.Company)
		output.WriteString("\n")
	}
	if letter.Recipient.Location != "" {
		output.WriteString(letter.Recipient.Location)
		output.WriteString("\n")
	}
	output.WriteString("\n")

	output.WriteString(letter.Greeting)
	output.WriteString("\n\n")
	output.WriteString(letter.Body.Hook)
	output.WriteString("\n\n")
	output.WriteString(letter.Body.Skills)
	output.WriteString("\n\n")
	output.WriteString(letter.Body.Closing)
	output.WriteString("\n")
}

// LetterTextFormatter handles text formatting for generation results
type LetterTextFormatter struct{}

func (ltf *LetterTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.GenerateOutput)
	if !ok {
		return "", fmt.Errorf("expected GenerateOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== COVER LETTER ===\n\n")
	if !result.CoverLetter.Success {
		output.WriteString("Generation failed: ")
		output.WriteString(result.CoverLetter.Error)
		output.WriteString("\n")
		return output.String(), nil
	}
	writeLetter(&output, result.CoverLetter)
	output.WriteString("\n")

	output.WriteString("=== JOB ===\n")
	output.WriteString(fmt.Sprintf("Title: %s\n", result.JobDetails.JobTitle))
	output.WriteString(fmt.Sprintf("Company: %s\n", result.JobDetails.CompanyName))
	output.WriteString(fmt.Sprintf("Location: %s\n", result.JobDetails.Location))
	output.WriteString(fmt.Sprintf("Tone: %s\n", result.Tone.DetectedTone))
	output.WriteString("\n")

	if result.Score != nil {
		output.WriteString("=== ATS SCORE ===\n")
		output.WriteString(fmt.Sprintf("Score: %d/100\n", result.Score.Score))
		output.WriteString("\n")
	}

	output.WriteString(fmt.Sprintf("Session: %s", result.SessionID))
	if result.FromCache {
		output.WriteString(" (from cache)")
	}
	output.WriteString("\n")

	return output.String(), nil
}

func (ltf *LetterTextFormatter) SupportedType() string {
	return "GenerateOutput"
}

// LetterMarkdownFormatter handles markdown formatting for generation results
type LetterMarkdownFormatter struct{}

func (lmf *LetterMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.GenerateOutput)
	if !ok {
		return "", fmt.Errorf("expected GenerateOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Cover Letter\n\n")
	if !result.CoverLetter.Success {
		output.WriteString("**Generation failed:** ")
		output.WriteString(result.CoverLetter.Error)
		output.WriteString("\n")
		return output.String(), nil
	}
	writeLetter(&output, result.CoverLetter)
	output.WriteString("\n")

	output.WriteString("## Job\n\n")
	output.WriteString(fmt.Sprintf("**Title:** %s\n\n", result.JobDetails.JobTitle))
	output.WriteString(fmt.Sprintf("**Company:** %s\n\n", result.JobDetails.CompanyName))
	output.WriteString(fmt.Sprintf("**Location:** %s\n\n", result.JobDetails.Location))
	output.WriteString(fmt.Sprintf("**Tone:** %s\n\n", result.Tone.DetectedTone))

	if result.Score != nil {
		output.WriteString("## ATS Score\n\n")
		output.WriteString(fmt.Sprintf("**Score:** %d/100\n\n", result.Score.Score))
	}

	output.WriteString(fmt.Sprintf("_Session %s", result.SessionID))
	if result.FromCache {
		output.WriteString(", served from cache")
	}
	output.WriteString("_\n")

	return output.String(), nil
}

func (lmf *LetterMarkdownFormatter) SupportedType() string {
	return "GenerateOutput"
}

// ScoreTextFormatter handles text formatting for ATS score results
type ScoreTextFormatter struct{}

func (stf *ScoreTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ATSScoreResult)
	if !ok {
		return "", fmt.Errorf("expected ATSScoreResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== ATS SCORE ===\n\n")
	output.WriteString(fmt.Sprintf("Score: %d/100\n\n", result.Score))

	output.WriteString("Breakdown:\n")
	output.WriteString(fmt.Sprintf("  Keyword match:        %d/20\n", result.Breakdown.KeywordMatch))
	output.WriteString(fmt.Sprintf("  Experience relevance: %d/20\n", result.Breakdown.ExperienceRelevance))
	output.WriteString(fmt.Sprintf("  Format compatibility: %d/20\n", result.Breakdown.FormatCompatibility))
	output.WriteString(fmt.Sprintf("  Section completeness: %d/20\n", result.Breakdown.SectionCompleteness))
	output.WriteString(fmt.Sprintf("  Clarity/uniqueness:   %d/20\n", result.Breakdown.ClarityUniqueness))
	output.WriteString("\n")

	if len(result.Feedback) > 0 {
		output.WriteString("Feedback:\n")
		for _, item := range result.Feedback {
			output.WriteString(fmt.Sprintf("- %s\n", item))
		}
		output.WriteString("\n")
	}

	if len(result.Improvements) > 0 {
		output.WriteString("Improvements:\n")
		for _, item := range result.Improvements {
			output.WriteString(fmt.Sprintf("- %s\n", item))
		}
	}

	return output.String(), nil
}

func (stf *ScoreTextFormatter) SupportedType() string {
	return "ATSScoreResult"
}

// ScoreMarkdownFormatter handles markdown formatting for ATS score results
type ScoreMarkdownFormatter struct{}

func (smf *ScoreMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ATSScoreResult)
	if !ok {
		return "", fmt.Errorf("expected ATSScoreResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# ATS Score\n\n")
	output.WriteString(fmt.Sprintf("**Score:** %d/100\n\n", result.Score))

	output.WriteString("## Breakdown\n\n")
	output.WriteString(fmt.Sprintf("- Keyword match: %d/20\n", result.Breakdown.KeywordMatch))
	output.WriteString(fmt.Sprintf("- Experience relevance: %d/20\n", result.Breakdown.ExperienceRelevance))
	output.WriteString(fmt.Sprintf("- Format compatibility: %d/20\n", result.Breakdown.FormatCompatibility))
	output.WriteString(fmt.Sprintf("- Section completeness: %d/20\n", result.Breakdown.SectionCompleteness))
	output.WriteString(fmt.Sprintf("- Clarity/uniqueness: %d/20\n", result.Breakdown.ClarityUniqueness))
	output.WriteString("\n")

	if len(result.Feedback) > 0 {
		output.WriteString("## Feedback\n\n")
		for _, item := range result.Feedback {
			output.WriteString(fmt.Sprintf("- %s\n", item))
		}
		output.WriteString("\n")
	}

	if len(result.Improvements) > 0 {
		output.WriteString("## Improvements\n\n")
		for _, item := range result.Improvements {
			output.WriteString(fmt.Sprintf("- %s\n", item))
		}
	}

	return output.String(), nil
}

func (smf *ScoreMarkdownFormatter) SupportedType() string {
	return "ATSScoreResult"
}

// SuggestTextFormatter handles text formatting for revision suggestions
type SuggestTextFormatter struct{}

func (stf *SuggestTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.SuggestOutput)
	if !ok {
		return "", fmt.Errorf("expected SuggestOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== REVISION SUGGESTIONS ===\n\n")
	if len(result.Suggestions) == 0 {
		output.WriteString("No suggestions.\n")
		return output.String(), nil
	}

	for i, suggestion := range result.Suggestions {
		output.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, strings.ToUpper(suggestion.Severity), suggestion.Title))
		output.WriteString(fmt.Sprintf("   Section: %s\n", suggestion.Section))
		output.WriteString(fmt.Sprintf("   %s\n\n", suggestion.Description))
	}

	return output.String(), nil
}

func (stf *SuggestTextFormatter) SupportedType() string {
	return "SuggestOutput"
}

// SuggestMarkdownFormatter handles markdown formatting for revision suggestions
type SuggestMarkdownFormatter struct{}

func (smf *SuggestMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.SuggestOutput)
	if !ok {
		return "", fmt.Errorf("expected SuggestOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Revision Suggestions\n\n")
	if len(result.Suggestions) == 0 {
		output.WriteString("No suggestions.\n")
		return output.String(), nil
	}

	for i, suggestion := range result.Suggestions {
		output.WriteString(fmt.Sprintf("### %d. %s\n\n", i+1, suggestion.Title))
		output.WriteString(fmt.Sprintf("**Severity:** %s\n\n", suggestion.Severity))
		output.WriteString(fmt.Sprintf("**Section:** %s\n\n", suggestion.Section))
		output.WriteString(suggestion.Description)
		output.WriteString("\n\n")
	}

	return output.String(), nil
}

func (smf *SuggestMarkdownFormatter) SupportedType() string {
	return "SuggestOutput"
}

// JobDetailsTextFormatter handles text formatting for extracted job details
type JobDetailsTextFormatter struct{}

func (jdf *JobDetailsTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.JobDetails)
	if !ok {
		return "", fmt.Errorf("expected JobDetails, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== JOB DETAILS ===\n\n")
	if !result.Success {
		output.WriteString("Extraction failed: ")
		output.WriteString(result.Error)
		output.WriteString("\n")
		return output.String(), nil
	}

	output.WriteString(fmt.Sprintf("Title:    %s\n", result.JobTitle))
	output.WriteString(fmt.Sprintf("Company:  %s\n", result.CompanyName))
	output.WriteString(fmt.Sprintf("Location: %s\n\n", result.Location))
	output.WriteString("Description:\n")
	output.WriteString(result.Description)
	output.WriteString("\n")

	return output.String(), nil
}

func (jdf *JobDetailsTextFormatter) SupportedType() string {
	return "JobDetails"
}

// JobDetailsMarkdownFormatter handles markdown formatting for extracted job details
type JobDetailsMarkdownFormatter struct{}

func (jdm *JobDetailsMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.JobDetails)
	if !ok {
		return "", fmt.Errorf("expected JobDetails, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Job Details\n\n")
	if !result.Success {
		output.WriteString("**Extraction failed:** ")
		output.WriteString(result.Error)
		output.WriteString("\n")
		return output.String(), nil
	}

	output.WriteString(fmt.Sprintf("**Title:** %s\n\n", result.JobTitle))
	output.WriteString(fmt.Sprintf("**Company:** %s\n\n", result.CompanyName))
	output.WriteString(fmt.Sprintf("**Location:** %s\n\n", result.Location))
	output.WriteString("## Description\n\n")
	output.WriteString(result.Description)
	output.WriteString("\n")

	return output.String(), nil
}

func (jdm *JobDetailsMarkdownFormatter) SupportedType() string {
	return "JobDetails"
}

// SessionListTextFormatter handles text formatting for cached session listings
type SessionListTextFormatter struct{}

func (slf *SessionListTextFormatter) Format(data any) (string, error) {
	sessions, ok := data.([]types.CachedSession)
	if !ok {
		return "", fmt.Errorf("expected []CachedSession, got %T", data)
	}

	var output strings.Builder

	if len(sessions) == 0 {
		output.WriteString("No cached sessions.\n")
		return output.String(), nil
	}

	output.WriteString(fmt.Sprintf("%d cached session(s):\n\n", len(sessions)))
	for _, session := range sessions {
		output.WriteString(fmt.Sprintf("%s  %s\n", session.ID, session.Timestamp.Format("2006-01-02 15:04:05")))
		if session.JobDetails != nil {
			output.WriteString(fmt.Sprintf("  %s at %s\n", session.JobDetails.JobTitle, session.JobDetails.CompanyName))
		}
		if session.Score != nil {
			output.WriteString(fmt.Sprintf("  ATS score: %d/100\n", session.Score.Score))
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (slf *SessionListTextFormatter) SupportedType() string {
	return "SessionList"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
