package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	tagRe        = regexp.MustCompile(`<[^>]*>`)
)

// StripHTML removes script/style/nav/footer/header subtrees and all
// remaining markup, returning whitespace-collapsed text.
func StripHTML(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return stripHTMLFallback(html)
	}

	doc.Find("script, style, nav, footer, header, noscript, iframe, svg").Remove()

	return CollapseWhitespace(doc.Text())
}

// stripHTMLFallback is the regex path for markup goquery cannot parse.
func stripHTMLFallback(html string) string {
	// backreferences are not supported by RE2 so remove each block kind in turn
	for _, tag := range []string{"script", "style", "nav", "footer", "header"} {
		re := regexp.MustCompile(`(?is)<` + tag + `\b[^>]*>.*?</\s*` + tag + `\s*>`)
		html = re.ReplaceAllString(html, " ")
	}
	html = tagRe.ReplaceAllString(html, " ")
	return CollapseWhitespace(html)
}

// CollapseWhitespace reduces all whitespace runs to single spaces
func CollapseWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// boilerplateHeadings marks the sections the description cleaner
// strips. Matching is heading-to-next-heading.
var boilerplateHeadings = regexp.MustCompile(`(?i)^\s*(about (the )?company|about us|benefits( & perks)?|perks|equal opportunity|eeo statement|how to apply|application process)\b`)

// headingLine recognizes a plausible section heading: short, starts
// with a letter, no terminal sentence punctuation.
var headingLine = regexp.MustCompile(`^\s*[A-Za-z][^.!?]{0,60}:?\s*$`)

// safetyValveRatio is the fraction of content that may be removed
// before the aggressive clean is abandoned. Tunable, not load-bearing.
const safetyValveRatio = 0.70

// CleanDescription strips boilerplate sections from a job description.
// If the strip would remove more than safetyValveRatio of the text the
// original is returned with only whitespace collapsed, guarding
// against over-eager removal on unusually structured postings.
func CleanDescription(text string) string {
	lines := strings.Split(text, "\n")

	var kept []string
	skipping := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if boilerplateHeadings.MatchString(trimmed) {
			skipping = true
			continue
		}
		if skipping {
			// A new heading ends the skipped section
			if trimmed != "" && headingLine.MatchString(trimmed) && !boilerplateHeadings.MatchString(trimmed) {
				skipping = false
			} else {
				continue
			}
		}
		kept = append(kept, line)
	}

	cleaned := CollapseWhitespace(strings.Join(kept, "\n"))
	original := CollapseWhitespace(text)

	if len(original) > 0 && float64(len(original)-len(cleaned))/float64(len(original)) > safetyValveRatio {
		return original
	}

	return cleaned
}
