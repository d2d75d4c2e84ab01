package extract

import (
	"regexp"
	"strings"
)

// fieldPattern pairs a capture regex with a validator for its first
// capture group. Patterns for a field are tried in declared order and
// the first validated capture wins.
type fieldPattern struct {
	re       *regexp.Regexp
	validate func(value, brand string) bool
}

func validTitle(value, brand string) bool {
	v := strings.TrimSpace(value)
	if len(v) <= 3 {
		return false
	}
	if brand != "" && strings.Contains(strings.ToLower(v), brand) {
		return false
	}
	return true
}

func validCompany(value, _ string) bool {
	return len(strings.TrimSpace(value)) > 1
}

func validLocation(value, _ string) bool {
	return len(strings.TrimSpace(value)) > 2
}

func validDescription(value, _ string) bool {
	return len(strings.TrimSpace(value)) > 100
}

var titlePatterns = []fieldPattern{
	{regexp.MustCompile(`(?is)<meta\s+property="og:title"\s+content="([^"]+)"`), validTitle},
	{regexp.MustCompile(`(?is)<h1[^>]*>([^<]+)</h1>`), validTitle},
	{regexp.MustCompile(`(?is)<title[^>]*>([^<|–-]+)`), validTitle},
	{regexp.MustCompile(`(?i)"title"\s*:\s*"([^"]+)"`), validTitle},
}

var companyPatterns = []fieldPattern{
	{regexp.MustCompile(`(?i)"hiringOrganization"\s*:\s*\{[^}]*"name"\s*:\s*"([^"]+)"`), validCompany},
	{regexp.MustCompile(`(?is)<meta\s+property="og:site_name"\s+content="([^"]+)"`), validCompany},
	{regexp.MustCompile(`(?i)\bat\s+([A-Z][A-Za-z0-9&.\- ]{1,40})\s*(?:\||·|-)`), validCompany},
	{regexp.MustCompile(`(?i)"companyName"\s*:\s*"([^"]+)"`), validCompany},
}

var locationPatterns = []fieldPattern{
	{regexp.MustCompile(`(?i)"jobLocation"\s*:\s*\{[^}]*"addressLocality"\s*:\s*"([^"]+)"`), validLocation},
	{regexp.MustCompile(`(?i)"location"\s*:\s*"([^"]+)"`), validLocation},
	{regexp.MustCompile(`(?i)\b(Remote(?:\s*[-,(]\s*[A-Za-z ]{2,30})?)\b`), validLocation},
	{regexp.MustCompile(`(?i)Location:?\s*([A-Za-z][A-Za-z ,.\-]{2,60})`), validLocation},
}

var descriptionPatterns = []fieldPattern{
	{regexp.MustCompile(`(?is)<meta\s+name="description"\s+content="([^"]{100,})"`), validDescription},
	{regexp.MustCompile(`(?is)"description"\s*:\s*"((?:[^"\\]|\\.){100,})"`), validDescription},
}

// applyPatterns runs a field's pattern table against the page in
// declared order.
func applyPatterns(patterns []fieldPattern, page, brand string) (string, bool) {
	for _, p := range patterns {
		matches := p.re.FindStringSubmatch(page)
		if len(matches) < 2 {
			continue
		}
		candidate := CollapseWhitespace(matches[1])
		if p.validate(candidate, brand) {
			return candidate, true
		}
	}
	return "", false
}
