package common

import (
	"testing"
)

func TestValidateOutputFormat(t *testing.T) {
	supported := []string{"json", "text", "markdown"}

	tests := []struct {
		name        string
		format      string
		supported   []string
		expectError bool
	}{
		{name: "json", format: "json", supported: supported},
		{name: "text", format: "text", supported: supported},
		{name: "markdown", format: "markdown", supported: supported},
		{name: "uppercase normalized", format: "JSON", supported: supported},
		{name: "md alias", format: "md", supported: supported},
		{name: "txt alias", format: "txt", supported: supported},
		{name: "surrounding whitespace", format: " json ", supported: supported},
		{name: "xml rejected", format: "xml", supported: supported, expectError: true},
		{name: "yaml rejected", format: "yaml", supported: supported, expectError: true},
		{name: "empty format rejected", format: "", supported: supported, expectError: true},
		{name: "no restriction allows anything", format: "xml", supported: nil},
		{name: "single format valid", format: "json", supported: []string{"json"}},
		{name: "single format invalid", format: "text", supported: []string{"json"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.supported)
			if tt.expectError && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNormalizeFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"json", "json"},
		{"JSON", "json"},
		{"md", "markdown"},
		{"MD", "markdown"},
		{"txt", "text"},
		{" markdown ", "markdown"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeFormat(tt.in); got != tt.want {
			t.Errorf("NormalizeFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
