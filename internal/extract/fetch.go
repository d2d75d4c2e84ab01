package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lettersmith/internal/errors"
)

// DefaultJobBoards lists the accepted job-board URL prefixes
// (host plus leading path). Adding a source site means adding a row
// here or in the fetch configuration, not new branching code.
var DefaultJobBoards = []string{
	"www.linkedin.com/jobs",
	"linkedin.com/jobs",
	"boards.greenhouse.io",
	"jobs.lever.co",
	"www.indeed.com/viewjob",
	"indeed.com/viewjob",
	"myworkdayjobs.com",
	"jobs.ashbyhq.com",
}

const fetchUserAgent = "Mozilla/5.0 (compatible; lettersmith/1.0)"

// maxFetchBytes caps the response body read. Job posting pages are
// well under this; anything larger is not a posting.
const maxFetchBytes = 5 << 20

// Fetcher retrieves job posting pages from approved job boards
type Fetcher struct {
	client    *http.Client
	jobBoards []string
	logger    *errors.Logger
}

// NewFetcher creates a Fetcher; an empty board list falls back to
// DefaultJobBoards.
func NewFetcher(timeout time.Duration, jobBoards []string, logger *errors.Logger) *Fetcher {
	if len(jobBoards) == 0 {
		jobBoards = DefaultJobBoards
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		jobBoards: jobBoards,
		logger:    logger,
	}
}

// ValidateURL checks the scheme and matches the host+path against the
// approved job-board prefixes. It returns the matched board prefix so
// callers can derive the site's brand token.
func (f *Fetcher) ValidateURL(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.NewValidationError(errors.ErrCodeUnsupportedURL,
			"Job URL could not be parsed", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.NewValidationError(errors.ErrCodeUnsupportedURL,
			fmt.Sprintf("Unsupported URL scheme: %s", parsed.Scheme), nil)
	}

	hostPath := strings.ToLower(parsed.Host + parsed.Path)
	for _, board := range f.jobBoards {
		if strings.HasPrefix(hostPath, board) || strings.Contains(parsed.Host, board) {
			return board, nil
		}
	}

	return "", errors.NewValidationError(errors.ErrCodeUnsupportedURL,
		"URL does not match a supported job board", nil).
		WithContext("host", parsed.Host)
}

// Fetch retrieves the page body. Non-2xx responses are network errors
// carrying the status code.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", errors.NewNetworkError(errors.ErrCodeFetchFailed,
			"Failed to build job posting request", err)
	}
	req.Header.Set("User-Agent", fetchUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", errors.NewNetworkError(errors.ErrCodeFetchFailed,
			"Failed to fetch job posting", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errors.NewNetworkError(errors.ErrCodeFetchFailed,
			fmt.Sprintf("Job posting fetch returned status %d", resp.StatusCode), nil).
			WithContext("status_code", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes+1))
	if err != nil {
		return "", errors.NewNetworkError(errors.ErrCodeFetchFailed,
			"Failed to read job posting body", err)
	}
	if len(body) > maxFetchBytes {
		return "", errors.NewNetworkError(errors.ErrCodeFetchFailed,
			"Job posting response exceeds the size limit", nil).
			WithContext("limit_bytes", maxFetchBytes)
	}

	return string(body), nil
}

// BrandToken derives the site's own brand name from a board prefix,
// e.g. "boards.greenhouse.io" -> "greenhouse". Used to reject page
// titles that are really the job board's name.
func BrandToken(board string) string {
	host := board
	if idx := strings.Index(host, "/"); idx >= 0 {
		host = host[:idx]
	}
	parts := strings.Split(host, ".")
	if len(parts) >= 2 {
		return parts[len(parts)-2]
	}
	return host
}
