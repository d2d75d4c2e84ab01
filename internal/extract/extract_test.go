package extract

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestValidateURL(t *testing.T) {
	f := NewFetcher(0, nil, nil)

	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"linkedin job", "https://www.linkedin.com/jobs/view/1234", false},
		{"greenhouse board", "https://boards.greenhouse.io/acme/jobs/99", false},
		{"lever posting", "https://jobs.lever.co/acme/abc-def", false},
		{"workday subdomain", "https://acme.wd5.myworkdayjobs.com/careers/job/123", false},
		{"arbitrary site", "https://example.com/careers/123", true},
		{"linkedin non-jobs path", "https://www.linkedin.com/feed/", true},
		{"ftp scheme", "ftp://www.linkedin.com/jobs/view/1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestFetchStatusCodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte("<html><body>posting</body></html>"))
		case "/gone":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, nil, nil)

	body, err := f.Fetch(context.Background(), srv.URL+"/ok")
	if err != nil {
		t.Fatalf("Fetch ok path: %v", err)
	}
	if !strings.Contains(body, "posting") {
		t.Errorf("Fetch body = %q, want posting content", body)
	}

	if _, err := f.Fetch(context.Background(), srv.URL+"/gone"); err == nil {
		t.Error("Fetch on 404 should return an error")
	}
	if _, err := f.Fetch(context.Background(), srv.URL+"/boom"); err == nil {
		t.Error("Fetch on 500 should return an error")
	}
}

func TestFetchRejectsOversizedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chunk := bytes.Repeat([]byte("x"), 1<<20)
		for i := 0; i < 6; i++ {
			w.Write(chunk)
		}
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, nil, nil)
	if _, err := f.Fetch(context.Background(), srv.URL); err == nil {
		t.Error("Fetch should reject a body over the size limit")
	}
}

func TestBrandToken(t *testing.T) {
	tests := []struct {
		board string
		want  string
	}{
		{"www.linkedin.com/jobs", "linkedin"},
		{"boards.greenhouse.io", "greenhouse"},
		{"jobs.lever.co", "lever"},
		{"myworkdayjobs.com", "myworkdayjobs"},
	}
	for _, tt := range tests {
		if got := BrandToken(tt.board); got != tt.want {
			t.Errorf("BrandToken(%q) = %q, want %q", tt.board, got, tt.want)
		}
	}
}

func TestStripHTML(t *testing.T) {
	html := `<html><head><title>Job</title><style>.a{color:red}</style>
<script>var tracking = "secret";</script></head>
<body><nav>Home | Jobs</nav><header>Site header</header>
<h1>Senior   Engineer</h1><p>Build   things.</p>
<footer>Copyright</footer></body></html>`

	got := StripHTML(html)

	for _, banned := range []string{"tracking", "color:red", "Home | Jobs", "Site header", "Copyright", "<"} {
		if strings.Contains(got, banned) {
			t.Errorf("StripHTML output contains %q: %q", banned, got)
		}
	}
	if !strings.Contains(got, "Senior Engineer") || !strings.Contains(got, "Build things.") {
		t.Errorf("StripHTML lost content: %q", got)
	}
	if strings.Contains(got, "  ") {
		t.Errorf("StripHTML output has uncollapsed whitespace: %q", got)
	}
}

func TestCleanDescriptionStripsBoilerplate(t *testing.T) {
	text := `Responsibilities
Design and ship backend services.
Own reliability for the payments stack.

About the Company
We were founded in 2009 and love synergy.

Requirements
5+ years of Go experience.

Benefits
Free snacks and unlimited PTO.

Equal Opportunity
We are an equal opportunity employer.`

	got := CleanDescription(text)

	for _, banned := range []string{"synergy", "snacks", "equal opportunity employer"} {
		if strings.Contains(got, banned) {
			t.Errorf("CleanDescription kept boilerplate %q: %q", banned, got)
		}
	}
	for _, kept := range []string{"backend services", "payments stack", "5+ years of Go"} {
		if !strings.Contains(got, kept) {
			t.Errorf("CleanDescription dropped real content %q: %q", kept, got)
		}
	}
}

func TestCleanDescriptionSafetyValve(t *testing.T) {
	// Nearly everything sits under a boilerplate heading, so the strip
	// would remove more than the allowed fraction and must back off.
	text := `Benefits
Great healthcare coverage for you and your family.
Generous retirement matching and stock options.
Four weeks of vacation plus company holidays.
Annual learning stipend and conference budget.

Apply now.`

	got := CleanDescription(text)

	if !strings.Contains(got, "healthcare coverage") {
		t.Errorf("safety valve should preserve original text, got %q", got)
	}
}

func TestApplyPatternsOrderAndValidation(t *testing.T) {
	page := `<html><head>
<meta property="og:title" content="at linkedin">
<title>Staff Engineer | Acme</title></head>
<body><h1>x</h1></body></html>`

	// og:title fails validation (contains the brand), h1 is too short,
	// so the title tag wins.
	got, ok := applyPatterns(titlePatterns, page, "linkedin")
	if !ok {
		t.Fatal("expected a title match")
	}
	if got != "Staff Engineer" {
		t.Errorf("title = %q, want %q", got, "Staff Engineer")
	}
}

func TestExtractFromPage(t *testing.T) {
	desc := strings.Repeat("Design, build, and operate distributed systems. ", 10)
	page := `<html><head>
<meta property="og:title" content="Senior Backend Engineer">
<meta property="og:site_name" content="Acme Robotics">
</head><body>
<script type="application/ld+json">{"jobLocation":{"@type":"Place","addressLocality":"Berlin"}}</script>
<p>` + desc + `</p>
</body></html>`

	e := NewExtractor(NewFetcher(0, nil, nil), nil, nil, nil)
	details := e.extractFromPage(context.Background(), page, "linkedin")

	if !details.Success {
		t.Fatalf("extraction failed: %s", details.Error)
	}
	if details.JobTitle != "Senior Backend Engineer" {
		t.Errorf("JobTitle = %q", details.JobTitle)
	}
	if details.CompanyName != "Acme Robotics" {
		t.Errorf("CompanyName = %q", details.CompanyName)
	}
	if details.Location != "Berlin" {
		t.Errorf("Location = %q", details.Location)
	}
	if len(details.Description) < 100 {
		t.Errorf("Description too short: %q", details.Description)
	}
}

func TestFromURLRejectsUnsupportedHost(t *testing.T) {
	e := NewExtractor(NewFetcher(0, nil, nil), nil, nil, nil)

	details := e.FromURL(context.Background(), "https://example.com/jobs/1")
	if details.Success {
		t.Error("unsupported host should produce a failed result")
	}
	if details.Error == "" {
		t.Error("failed result should carry an error message")
	}
	if details.JobTitle != UnknownPosition {
		t.Errorf("JobTitle = %q, want placeholder", details.JobTitle)
	}
}

func TestFromTextNeverErrors(t *testing.T) {
	e := NewExtractor(NewFetcher(0, nil, nil), nil, nil, nil)

	details := e.FromText(context.Background(), "   ")
	if details.Success {
		t.Error("empty text should produce a failed result")
	}

	details = e.FromText(context.Background(), "We are hiring a Platform Engineer in Oslo. "+
		strings.Repeat("You will build infrastructure. ", 5))
	if !details.Success {
		t.Errorf("plain text extraction failed: %s", details.Error)
	}
	if !strings.Contains(details.Description, "Platform Engineer") {
		t.Errorf("Description lost content: %q", details.Description)
	}
}
