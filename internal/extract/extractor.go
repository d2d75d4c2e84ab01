package extract

import (
	"context"
	"strings"

	"lettersmith/internal/ai"
	"lettersmith/internal/errors"
	"lettersmith/internal/parse"
	"lettersmith/internal/prompt"
	"lettersmith/internal/types"
)

// Placeholder values for fields no strategy could recover.
const (
	UnknownPosition    = "Unknown Position"
	UnknownCompany     = "Unknown Company"
	UnknownLocation    = "Unknown Location"
	UnknownDescription = "No description available"
)

var extractionRequiredKeys = []string{"jobTitle", "companyName", "location", "description"}

// Extractor turns a job URL or pasted text into structured JobDetails.
// Pattern extraction runs first; the AI pass fills whatever the
// patterns could not recover. Neither path returns an error: failures
// degrade to placeholder values with Success set to false.
type Extractor struct {
	fetcher *Fetcher
	prompts *prompt.Builder
	ai      *ai.Service
	logger  *errors.Logger
}

func NewExtractor(fetcher *Fetcher, prompts *prompt.Builder, aiService *ai.Service, logger *errors.Logger) *Extractor {
	return &Extractor{fetcher: fetcher, prompts: prompts, ai: aiService, logger: logger}
}

// FromURL validates and fetches the posting page, then extracts from
// its cleaned text. Fetch-side failures produce a failed JobDetails
// carrying the error message, never a panic or error return.
func (e *Extractor) FromURL(ctx context.Context, jobURL string) types.JobDetails {
	board, err := e.fetcher.ValidateURL(jobURL)
	if err != nil {
		return failedDetails(err)
	}

	page, err := e.fetcher.Fetch(ctx, jobURL)
	if err != nil {
		return failedDetails(err)
	}

	details := e.extractFromPage(ctx, page, BrandToken(board))
	return details
}

// FromText extracts from pasted job posting text, skipping the fetch
// and page-pattern stages.
func (e *Extractor) FromText(ctx context.Context, text string) types.JobDetails {
	cleaned := CollapseWhitespace(text)
	if cleaned == "" {
		return failedDetails(errors.NewValidationError(errors.ErrCodeExtractionFailed,
			"Job posting text is empty", nil))
	}

	details := types.JobDetails{
		JobTitle:    UnknownPosition,
		CompanyName: UnknownCompany,
		Location:    UnknownLocation,
		Description: CleanDescription(cleaned),
		Success:     true,
	}

	e.fillWithAI(ctx, cleaned, &details)
	return details
}

// extractFromPage runs the pattern tables against raw markup, the
// description cleaner against stripped text, and the AI pass for
// remaining gaps.
func (e *Extractor) extractFromPage(ctx context.Context, page, brand string) types.JobDetails {
	details := types.JobDetails{
		JobTitle:    UnknownPosition,
		CompanyName: UnknownCompany,
		Location:    UnknownLocation,
		Description: UnknownDescription,
		Success:     true,
	}

	if title, ok := applyPatterns(titlePatterns, page, brand); ok {
		details.JobTitle = title
	}
	if company, ok := applyPatterns(companyPatterns, page, brand); ok {
		details.CompanyName = company
	}
	if location, ok := applyPatterns(locationPatterns, page, brand); ok {
		details.Location = location
	}

	stripped := StripHTML(page)
	if desc, ok := applyPatterns(descriptionPatterns, page, brand); ok {
		details.Description = CleanDescription(desc)
	} else if len(stripped) > 100 {
		details.Description = CleanDescription(stripped)
	}

	if e.needsAI(details) {
		e.fillWithAI(ctx, stripped, &details)
	}

	return details
}

func (e *Extractor) needsAI(d types.JobDetails) bool {
	return d.JobTitle == UnknownPosition ||
		d.CompanyName == UnknownCompany ||
		d.Location == UnknownLocation ||
		d.Description == UnknownDescription
}

// fillWithAI asks the model for the structured fields and overwrites
// only placeholder values, so pattern hits always win.
func (e *Extractor) fillWithAI(ctx context.Context, text string, details *types.JobDetails) {
	if e.ai == nil {
		return
	}

	p := e.prompts.Extraction(text)
	raw, _, err := e.ai.Generate(ctx, p, ai.GenerateOptions{})
	if err != nil {
		if e.logger != nil {
			e.logger.LogError(err, "AI extraction pass failed")
		}
		return
	}

	parsed, err := parse.Attempt[types.JobDetails](raw, extractionRequiredKeys)
	if err != nil {
		if e.logger != nil {
			e.logger.LogError(err, "AI extraction response unusable")
		}
		return
	}

	if details.JobTitle == UnknownPosition && validTitle(parsed.JobTitle, "") {
		details.JobTitle = parsed.JobTitle
	}
	if details.CompanyName == UnknownCompany && validCompany(parsed.CompanyName, "") {
		details.CompanyName = parsed.CompanyName
	}
	if details.Location == UnknownLocation && validLocation(parsed.Location, "") {
		details.Location = parsed.Location
	}
	if (details.Description == UnknownDescription || len(details.Description) < 100) &&
		validDescription(parsed.Description, "") {
		details.Description = CleanDescription(parsed.Description)
	}
}

func failedDetails(err error) types.JobDetails {
	msg := "Extraction failed"
	if err != nil {
		msg = err.Error()
		if appErr, ok := err.(*errors.AppError); ok {
			msg = appErr.Message
		}
	}
	return types.JobDetails{
		JobTitle:    UnknownPosition,
		CompanyName: UnknownCompany,
		Location:    UnknownLocation,
		Description: UnknownDescription,
		Success:     false,
		Error:       strings.TrimSpace(msg),
	}
}
