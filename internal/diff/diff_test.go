package diff

import (
	"strings"
	"testing"

	"github.com/gerunddev/hybridnote/format"
	"github.com/gerunddev/hybridnote/parser"
)

func TestUnified(t *testing.T) {
	tests := []struct {
		name   string
		before string
		after  string
		want   []string
	}{
		{
			name:   "identical",
			before: "a\nb\n",
			after:  "a\nb\n",
		},
		{
			name:   "missing final newline is ignored",
			before: "a\nb",
			after:  "a\nb\n",
		},
		{
			name:   "changed line",
			before: "a\nb\n",
			after:  "a\nc\n",
			want:   []string{"--- old\n", "+++ new\n", "-b\n", "+c\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Unified("old", "new", tt.before, tt.after)
			if len(tt.want) == 0 {
				if got != "" {
					t.Errorf("Unified() = %q, want empty", got)
				}
				return
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("Unified() = %q, missing %q", got, w)
				}
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	m := parser.NewDefaultManager()

	got, err := RoundTrip("notes/clean.md", "# Title\nText", m)
	if err != nil {
		t.Fatalf("RoundTrip() error = %v", err)
	}
	if got != "" {
		t.Errorf("canonical document produced a diff:\n%s", got)
	}

	got, err = RoundTrip("notes/spaced.md", "# Title\n\nText", m)
	if err != nil {
		t.Fatalf("RoundTrip() error = %v", err)
	}
	if !strings.Contains(got, "--- spaced.md\n") || !strings.Contains(got, "\n-\n") {
		t.Errorf("expected the dropped blank line in diff, got:\n%s", got)
	}
	if m.BlockCount() != 2 {
		t.Errorf("BlockCount() = %d, want 2", m.BlockCount())
	}
}

func TestRoundTripParseError(t *testing.T) {
	cfg := parser.DefaultDetectionConfig()
	cfg.Strict = true
	m := parser.NewManager(parser.DefaultRegistry(), parser.NewDetector(cfg))

	if _, err := RoundTrip("bad.md", "```go\nx := 1", m); err == nil {
		t.Error("RoundTrip() should fail on an unterminated fence in strict mode")
	}
}

func TestConversion(t *testing.T) {
	got, err := Conversion("note.md", "# Header", format.NewMarkdown(), nil)
	if err != nil {
		t.Fatalf("Conversion() error = %v", err)
	}
	if got != "" {
		t.Errorf("lossless note produced a diff:\n%s", got)
	}

	org := "* Task\n:PROPERTIES:\n:ID: x\n:END:\n"
	got, err = Conversion("note.org", org, format.NewOrg(nil), nil)
	if err != nil {
		t.Fatalf("Conversion() error = %v", err)
	}
	if !strings.Contains(got, "-:ID: x\n") {
		t.Errorf("expected the dropped drawer in diff, got:\n%s", got)
	}
}

func TestRender(t *testing.T) {
	unified := Unified("a", "b", "x\n", "y\n")

	if got := Render(unified, FormatPlain, 80); got != unified {
		t.Errorf("Render(FormatPlain) = %q, want %q", got, unified)
	}
	if got := Render("", FormatRendered, 80); got != "" {
		t.Errorf("Render(empty) = %q, want empty", got)
	}
	if got := Render(unified, FormatRendered, 80); strings.TrimSpace(got) == "" {
		t.Error("Render(FormatRendered) returned nothing")
	}
}
