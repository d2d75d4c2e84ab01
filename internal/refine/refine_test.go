package refine

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"lettersmith/internal/ai"
	"lettersmith/internal/prompt"
)

type fakeGenerator struct {
	response string
	err      error
}

func (f *fakeGenerator) Generate(_ context.Context, _ string, _ ai.GenerateOptions) (string, *ai.TokenUsage, error) {
	if f.err != nil {
		return "", nil, f.err
	}
	return f.response, nil, nil
}

func (f *fakeGenerator) GetModelInfo(context.Context) *ai.ModelInfo { return &ai.ModelInfo{} }
func (f *fakeGenerator) Close() error                               { return nil }

func newTestRefiner(response string, err error) *Refiner {
	svc := &ai.Service{Generator: &fakeGenerator{response: response, err: err}}
	return NewRefiner(svc, prompt.NewBuilder(prompt.Overrides{}), nil)
}

func TestSectionRefine(t *testing.T) {
	r := newTestRefiner(`Sure thing:
{"section": "Experience", "content": "Led a team of five engineers shipping Go services."}`, nil)

	out, err := r.Section(context.Background(), "Experience", "Worked on backend stuff.", "Go services role", false)
	if err != nil {
		t.Fatalf("Section returned error: %v", err)
	}
	if out.Section != "Experience" {
		t.Errorf("Section = %q, want Experience", out.Section)
	}
	if out.Content != "Led a team of five engineers shipping Go services." {
		t.Errorf("unexpected content: %q", out.Content)
	}
}

func TestSectionRefineUnparsableKeepsOriginal(t *testing.T) {
	original := "Worked on backend stuff."
	r := newTestRefiner("I cannot help with that.", nil)

	out, err := r.Section(context.Background(), "Experience", original, "job", false)
	if err != nil {
		t.Fatalf("Section returned error: %v", err)
	}
	if out.Content != original {
		t.Errorf("expected original content back, got %q", out.Content)
	}
	if out.Section != "Experience" {
		t.Errorf("expected original section name, got %q", out.Section)
	}
}

func TestSectionRefineEmptyContentKeepsOriginal(t *testing.T) {
	original := "Shipped the billing system."
	r := newTestRefiner(`{"section": "Experience", "content": "   "}`, nil)

	out, err := r.Section(context.Background(), "Experience", original, "job", false)
	if err != nil {
		t.Fatalf("Section returned error: %v", err)
	}
	if out.Content != original {
		t.Errorf("blank rewrite should fall back to original, got %q", out.Content)
	}
}

func TestSectionRefineGenerationErrorSurfaces(t *testing.T) {
	r := newTestRefiner("", errors.New("model unavailable"))

	_, err := r.Section(context.Background(), "Experience", "content", "job", false)
	if err == nil {
		t.Fatal("expected generation error to surface")
	}
}

func TestBulletRefine(t *testing.T) {
	r := newTestRefiner(`{"bullets": ["Cut deploy time by 40%", "Mentored three junior engineers"]}`, nil)

	out, err := r.Bullets(context.Background(), []string{"did deploys", "helped juniors"}, "job", false)
	if err != nil {
		t.Fatalf("Bullets returned error: %v", err)
	}
	want := []string{"Cut deploy time by 40%", "Mentored three junior engineers"}
	if !reflect.DeepEqual(out.Bullets, want) {
		t.Errorf("Bullets = %v, want %v", out.Bullets, want)
	}
}

func TestBulletRefineUnparsableKeepsOriginal(t *testing.T) {
	original := []string{"did deploys", "helped juniors"}
	r := newTestRefiner("no json here", nil)

	out, err := r.Bullets(context.Background(), original, "job", false)
	if err != nil {
		t.Fatalf("Bullets returned error: %v", err)
	}
	if !reflect.DeepEqual(out.Bullets, original) {
		t.Errorf("expected original bullets back, got %v", out.Bullets)
	}
}
