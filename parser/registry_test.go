package parser

import (
	"errors"
	"testing"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Get(Markdown); ok {
		t.Fatal("empty registry returned a parser")
	}

	md := NewMarkdownParser()
	r.Register(md)
	if got, ok := r.Get(Markdown); !ok || got != md {
		t.Errorf("Get(Markdown) = %v, %v", got, ok)
	}

	replacement := NewMarkdownParser()
	r.Register(replacement)
	if got, _ := r.Get(Markdown); got != replacement {
		t.Error("Register did not replace the existing parser")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		input string
		want  SyntaxKind
	}{
		{"* TODO call back", Org},
		{"#+TITLE: Notes", Org},
		{"#+BEGIN_SRC go\nx\n#+END_SRC", Org},
		{"```go\nx\n```", Code},
		{"$$x^2$$", LaTeX},
		{"# Markdown heading", Markdown},
		{"plain words", Markdown},
	}

	r := DefaultRegistry()
	for _, tt := range tests {
		got, ok := r.Classify(tt.input)
		if !ok || got != tt.want {
			t.Errorf("Classify(%q) = %v, %v, want %v", tt.input, got, ok, tt.want)
		}
	}

	if _, ok := NewRegistry().Classify("anything"); ok {
		t.Error("empty registry classified text")
	}
}

func TestParseSyntaxKind(t *testing.T) {
	tests := []struct {
		input string
		want  SyntaxKind
	}{
		{"markdown", Markdown},
		{"Org-mode", Org},
		{"org", Org},
		{" LaTeX ", LaTeX},
		{"code", Code},
	}
	for _, tt := range tests {
		got, err := ParseSyntaxKind(tt.input)
		if err != nil || got != tt.want {
			t.Errorf("ParseSyntaxKind(%q) = %v, %v, want %v", tt.input, got, err, tt.want)
		}
	}

	_, err := ParseSyntaxKind("asciidoc")
	if !errors.Is(err, ErrUnsupportedSyntax) {
		t.Errorf("ParseSyntaxKind(asciidoc) error = %v, want ErrUnsupportedSyntax", err)
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"syntax", NewSyntaxError(3, "bad %s", "thing"), "syntax error at line 3: bad thing"},
		{"detection", detectionFailed(0, "unterminated code fence"), "block detection failed at line 0: unterminated code fence"},
		{"index", invalidIndex(5, 2), "invalid block index: index 5 out of range for 2 blocks"},
		{"parser", missingParser(LaTeX), "missing parser for LaTeX"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("%s: Error() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestMissingParserMatchesUnsupported(t *testing.T) {
	err := missingParser(Custom)
	if !errors.Is(err, ErrMissingParser) || !errors.Is(err, ErrUnsupportedSyntax) {
		t.Errorf("missingParser does not match both kinds: %v", err)
	}
	if errors.Is(NewSyntaxError(0, "x"), ErrUnsupportedSyntax) {
		t.Error("syntax error matched ErrUnsupportedSyntax")
	}
}

func TestHybridBlockHelpers(t *testing.T) {
	b := HybridBlock{
		Syntax:    Org,
		Metadata:  BlockMetadata{HeadingLevel: 2, TodoState: "DONE"},
		LineRange: LineRange{Start: 3, End: 5},
	}
	if !b.IsHeading() || b.HeadingLevel() != 2 {
		t.Errorf("heading helpers wrong for %+v", b)
	}
	if b.IsTodo() || !b.IsDone() {
		t.Errorf("todo helpers wrong for %+v", b)
	}
	if b.LineCount() != 3 {
		t.Errorf("LineCount() = %d, want 3", b.LineCount())
	}
	if !b.IsSyntax(Org) || b.IsSyntax(Markdown) {
		t.Error("IsSyntax wrong")
	}
	if b.HasProperties() {
		t.Error("HasProperties() = true on empty metadata")
	}
	b.AddProperty("k", "v1")
	b.AddProperty("k", "v2")
	if v, ok := b.Property("k"); !ok || v != "v2" || len(b.Metadata.Properties) != 1 {
		t.Errorf("Property(k) = %q, %v; properties %v", v, ok, b.Metadata.Properties)
	}
}
