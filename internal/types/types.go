package types

import "time"

// JobDetails represents the structured fields extracted from a job posting
type JobDetails struct {
	JobTitle    string `json:"jobTitle"`
	CompanyName string `json:"companyName"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
}

// ToneType is a closed set of writing tones derived from a job description
type ToneType string

const (
	ToneFormal        ToneType = "formal"
	ToneCasual        ToneType = "casual"
	ToneMissionDriven ToneType = "mission-driven"
	ToneTechnical     ToneType = "technical"
)

// ToneAnalysis represents the detected tone and company trait phrases
// used to steer prompt style
type ToneAnalysis struct {
	DetectedTone  ToneType `json:"detectedTone"`
	CompanyTraits []string `json:"companyTraits"`
}

// Recipient represents the addressee block of a cover letter
type Recipient struct {
	Name     string `json:"name"`
	Company  string `json:"company"`
	Location string `json:"location"`
}

// LetterBody holds the three-part body of a generated cover letter
type LetterBody struct {
	Hook    string `json:"hook"`
	Skills  string `json:"skills"`
	Closing string `json:"closing"`
}

// GeneratedCoverLetter represents a fully structured cover letter.
// On success every string field is populated; on failure all string
// fields are empty and Error is set, never a partial mix.
type GeneratedCoverLetter struct {
	Location  string     `json:"location"`
	Date      string     `json:"date"`
	Recipient Recipient  `json:"recipient"`
	Greeting  string     `json:"greeting"`
	Body      LetterBody `json:"body"`
	Success   bool       `json:"success"`
	Error     string     `json:"error,omitempty"`
	ToneUsed  ToneType   `json:"toneUsed,omitempty"`
}

// ScoreBreakdown holds the five ATS sub-scores, each in [0,20]
type ScoreBreakdown struct {
	KeywordMatch        int `json:"keywordMatch"`
	ExperienceRelevance int `json:"experienceRelevance"`
	FormatCompatibility int `json:"formatCompatibility"`
	SectionCompleteness int `json:"sectionCompleteness"`
	ClarityUniqueness   int `json:"clarityUniqueness"`
}

// Total returns the sum of all breakdown fields
func (b ScoreBreakdown) Total() int {
	return b.KeywordMatch + b.ExperienceRelevance + b.FormatCompatibility +
		b.SectionCompleteness + b.ClarityUniqueness
}

// ATSScoreResult represents the reconciled ATS scoring output.
// Score is clamped to [0,95]; the breakdown is rescaled whenever its
// sum drifts more than the configured tolerance from Score.
type ATSScoreResult struct {
	Score        int            `json:"score"`
	Feedback     []string       `json:"feedback"`
	Breakdown    ScoreBreakdown `json:"breakdown"`
	Improvements []string       `json:"improvements"`
}

// UserProfile holds the applicant data the pipeline works from
type UserProfile struct {
	FullName string `json:"fullName"`
	Email    string `json:"email,omitempty"`
	Location string `json:"location,omitempty"`
	Resume   string `json:"resume,omitempty"`
}

// CachedSession is one complete unit of cached work for a job posting:
// extracted details, generated artifacts and score, keyed by id and jdHash
type CachedSession struct {
	ID          string                `json:"id"`
	Timestamp   time.Time             `json:"timestamp"`
	JobURL      string                `json:"jobUrl,omitempty"`
	JobDetails  *JobDetails           `json:"jobDetails,omitempty"`
	UserProfile *UserProfile          `json:"userProfile,omitempty"`
	Resume      string                `json:"resume,omitempty"`
	CoverLetter *GeneratedCoverLetter `json:"coverLetter,omitempty"`
	Score       *ATSScoreResult       `json:"score,omitempty"`
	UsePremium  bool                  `json:"usePremium"`
	JDHash      string                `json:"jdHash"`
}

// Severity levels for revision suggestions
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// RevisionSuggestion is an ephemeral improvement hint for a resume
// section, recomputed on each analysis call and never persisted
type RevisionSuggestion struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Section     string `json:"section"`
}

// GenerateInput represents the input for a full generation run
type GenerateInput struct {
	JobURL     string      `json:"jobUrl,omitempty"`
	JobText    string      `json:"jobText,omitempty"`
	Profile    UserProfile `json:"profile"`
	UsePremium bool        `json:"usePremium"`
}

// GenerateOutput represents the result of a full generation run
type GenerateOutput struct {
	SessionID   string               `json:"sessionId"`
	FromCache   bool                 `json:"fromCache"`
	JobDetails  JobDetails           `json:"jobDetails"`
	Tone        ToneAnalysis         `json:"tone"`
	CoverLetter GeneratedCoverLetter `json:"coverLetter"`
	Score       *ATSScoreResult      `json:"score,omitempty"`
}

// ScoreInput represents the input for a standalone ATS scoring call
type ScoreInput struct {
	Resume         string `json:"resume"`
	JobDescription string `json:"jobDescription"`
}

// SuggestInput represents the input for revision suggestion analysis
type SuggestInput struct {
	Resume         string `json:"resume"`
	JobDescription string `json:"jobDescription"`
}

// SuggestOutput wraps the suggestions produced for one analysis call
type SuggestOutput struct {
	Suggestions []RevisionSuggestion `json:"suggestions"`
}

// CacheStats reports the state of the session cache
type CacheStats struct {
	Sessions    int        `json:"sessions"`
	MaxSessions int        `json:"maxSessions"`
	Oldest      *time.Time `json:"oldest,omitempty"`
	Newest      *time.Time `json:"newest,omitempty"`
}
