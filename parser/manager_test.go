package parser

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gerunddev/hybridnote/ast"
)

func parsedManager(t *testing.T, text string) *Manager {
	t.Helper()
	m := NewDefaultManager()
	if err := m.ParseDocument(text); err != nil {
		t.Fatalf("ParseDocument(%q) error: %v", text, err)
	}
	return m
}

func kinds(blocks []HybridBlock) []SyntaxKind {
	var out []SyntaxKind
	for _, b := range blocks {
		out = append(out, b.Syntax)
	}
	return out
}

func TestManagerEndToEnd(t *testing.T) {
	m := parsedManager(t, "# Title\n\nA paragraph.\n\n```py\nx=1\n```")

	if got := m.BlockCount(); got != 3 {
		t.Fatalf("BlockCount() = %d, want 3", got)
	}
	if diff := cmp.Diff([]SyntaxKind{Markdown, Markdown, Code}, kinds(m.Blocks())); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}

	first, _ := m.Block(0)
	if diff := cmp.Diff(ast.Block(ast.NewHeading(1, "Title")), first.AST); diff != "" {
		t.Errorf("heading mismatch (-want +got):\n%s", diff)
	}
	if first.HeadingLevel() != 1 {
		t.Errorf("HeadingLevel() = %d, want 1", first.HeadingLevel())
	}

	code, _ := m.Block(2)
	if code.LineRange != (LineRange{Start: 4, End: 6}) {
		t.Errorf("code LineRange = %+v, want {4 6}", code.LineRange)
	}

	want := "# Title\nA paragraph.\n```py\nx=1\n```"
	if got := m.RenderDocument(); got != want {
		t.Errorf("RenderDocument() = %q, want %q", got, want)
	}
	if got := m.DirtyBlocks(); len(got) != 0 {
		t.Errorf("DirtyBlocks() after parse = %v, want empty", got)
	}
}

func TestManagerRoundTripKeepsKinds(t *testing.T) {
	input := "# Title\n```go\nx := 1\n```\nSome *text*.\n$$E=mc^2$$\n[^1]: note\n    - item\n#+BEGIN_QUOTE\nquoted\n#+END_QUOTE\nTail paragraph."
	m := parsedManager(t, input)
	want := []SyntaxKind{Markdown, Code, Markdown, LaTeX, Markdown, Org, Markdown}
	if diff := cmp.Diff(want, kinds(m.Blocks())); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}

	again := parsedManager(t, m.RenderDocument())
	if diff := cmp.Diff(want, kinds(again.Blocks())); diff != "" {
		t.Errorf("kinds after re-detect mismatch (-want +got):\n%s", diff)
	}
}

func TestManagerDollarProseDegrades(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		render string
	}{
		{"odd delimiters", "Costs $$5 and $$10 and $$20", "Costs $$5 and$$10 and $$20"},
		{"trailing delimiter", "a $$ b $$ c $$", "a $$b$$ c $$"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := parsedManager(t, tt.input)
			b, err := m.Block(0)
			if err != nil {
				t.Fatal(err)
			}
			if b.Syntax != LaTeX {
				t.Errorf("syntax = %v, want LaTeX", b.Syntax)
			}
			if _, ok := b.AST.(ast.Paragraph); !ok {
				t.Errorf("AST = %T, want ast.Paragraph", b.AST)
			}
			got := m.RenderDocument()
			if got != tt.render {
				t.Errorf("RenderDocument() = %q, want %q", got, tt.render)
			}
			parsedManager(t, got)
		})
	}
}

func TestManagerOrgEndLineWithArguments(t *testing.T) {
	m := parsedManager(t, "#+BEGIN_SRC python\nprint(1)\n#+END_SRC :results output\nAfter.")
	if diff := cmp.Diff([]SyntaxKind{Org, Markdown}, kinds(m.Blocks())); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
	b, _ := m.Block(0)
	want := ast.CodeBlock{Language: "python", Content: "print(1)"}
	if diff := cmp.Diff(want, b.AST); diff != "" {
		t.Errorf("block 0 AST mismatch (-want +got):\n%s", diff)
	}
}

func TestManagerUpdateBlockText(t *testing.T) {
	m := parsedManager(t, "# Old\n\n```go\nx\n```")

	if err := m.UpdateBlockText(0, "## New"); err != nil {
		t.Fatalf("UpdateBlockText() error: %v", err)
	}
	b, _ := m.Block(0)
	if b.RawText != "## New" || b.HeadingLevel() != 2 {
		t.Errorf("block after update = %+v", b)
	}
	if diff := cmp.Diff([]int{0}, m.DirtyBlocks()); diff != "" {
		t.Errorf("DirtyBlocks() mismatch (-want +got):\n%s", diff)
	}
	if got := m.RenderDirtyBlocks(); got != "## New" {
		t.Errorf("RenderDirtyBlocks() = %q, want %q", got, "## New")
	}

	m.ClearDirty()
	err := m.UpdateBlockText(1, "not fenced")
	if !errors.Is(err, ErrSyntax) {
		t.Fatalf("UpdateBlockText() error = %v, want ErrSyntax", err)
	}
	code, _ := m.Block(1)
	if code.RawText != "```go\nx\n```" {
		t.Errorf("failed update changed raw text to %q", code.RawText)
	}
	if got := m.DirtyBlocks(); len(got) != 0 {
		t.Errorf("failed update marked %v dirty", got)
	}
}

func TestManagerInvalidIndex(t *testing.T) {
	m := parsedManager(t, "one\n\ntwo")

	checks := map[string]error{
		"update":      m.UpdateBlockText(2, "x"),
		"insert low":  m.InsertBlock(-1, HybridBlock{}),
		"insert high": m.InsertBlock(3, HybridBlock{}),
	}
	_, checks["remove"] = m.RemoveBlock(5)
	_, checks["edit"] = m.EditBlock(-1)
	_, checks["block"] = m.Block(2)

	for name, err := range checks {
		if !errors.Is(err, ErrInvalidIndex) {
			t.Errorf("%s: error = %v, want ErrInvalidIndex", name, err)
		}
	}
	if m.BlockCount() != 2 {
		t.Errorf("BlockCount() = %d after failed calls, want 2", m.BlockCount())
	}
}

func TestManagerDirtyTracking(t *testing.T) {
	m := parsedManager(t, "a\n\nb\n\nc")

	if err := m.InsertText(1, "* TODO new task"); err != nil {
		t.Fatalf("InsertText() error: %v", err)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, m.DirtyBlocks()); diff != "" {
		t.Errorf("DirtyBlocks() after insert mismatch (-want +got):\n%s", diff)
	}
	inserted, _ := m.Block(1)
	if inserted.Syntax != Org || !inserted.IsTodo() {
		t.Errorf("inserted block = %+v, want an org TODO", inserted)
	}

	m.ClearDirty()
	if got := m.DirtyBlocks(); len(got) != 0 {
		t.Fatalf("DirtyBlocks() after ClearDirty = %v", got)
	}

	_ = m.Blocks()
	_ = m.FindHeadings()
	_, _ = m.Block(0)
	if got := m.DirtyBlocks(); len(got) != 0 {
		t.Errorf("reads marked %v dirty", got)
	}

	if _, err := m.EditBlock(0); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{0}, m.DirtyBlocks()); diff != "" {
		t.Errorf("DirtyBlocks() after EditBlock mismatch (-want +got):\n%s", diff)
	}

	m.ClearDirty()
	if _, err := m.EditBlock(3); err != nil {
		t.Fatal(err)
	}
	removed, err := m.RemoveBlock(2)
	if err != nil {
		t.Fatal(err)
	}
	if removed.RawText != "b" {
		t.Errorf("RemoveBlock(2) = %q, want %q", removed.RawText, "b")
	}
	// index 3 no longer exists; 2 now holds "c"
	if diff := cmp.Diff([]int{2}, m.DirtyBlocks()); diff != "" {
		t.Errorf("DirtyBlocks() after remove mismatch (-want +got):\n%s", diff)
	}
	if got := m.RenderDirtyBlocks(); got != "c" {
		t.Errorf("RenderDirtyBlocks() = %q, want %q", got, "c")
	}
}

func TestManagerEditBlockWritesThrough(t *testing.T) {
	m := parsedManager(t, "# Heading")
	b, err := m.EditBlock(0)
	if err != nil {
		t.Fatal(err)
	}
	b.WithID("h-1")
	got, _ := m.Block(0)
	if got.ID() != "h-1" {
		t.Errorf("ID() = %q, want h-1", got.ID())
	}
}

func TestManagerBlocksIsACopy(t *testing.T) {
	m := parsedManager(t, "one\n\ntwo")
	blocks := m.Blocks()
	blocks[0].RawText = "changed"
	if got, _ := m.Block(0); got.RawText != "one" {
		t.Errorf("mutating Blocks() result changed manager: %q", got.RawText)
	}
}

func TestManagerRenderDirtyInDocumentOrder(t *testing.T) {
	m := parsedManager(t, "a\n\nb\n\nc\n\nd")
	for _, i := range []int{3, 0, 2} {
		if err := m.UpdateBlockText(i, "x"+string(rune('0'+i))); err != nil {
			t.Fatal(err)
		}
	}
	if got, want := m.RenderDirtyBlocks(), "x0\nx2\nx3"; got != want {
		t.Errorf("RenderDirtyBlocks() = %q, want %q", got, want)
	}
}

func TestManagerParseDocumentIsAtomic(t *testing.T) {
	registry := NewRegistry()
	registry.Register(NewMarkdownParser())
	m := NewManager(registry, NewDetector(DefaultDetectionConfig()))

	if err := m.ParseDocument("# Kept"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.EditBlock(0); err != nil {
		t.Fatal(err)
	}

	err := m.ParseDocument("# Replaced\n\n```go\nx\n```")
	if !errors.Is(err, ErrMissingParser) || !errors.Is(err, ErrUnsupportedSyntax) {
		t.Fatalf("ParseDocument() error = %v, want missing parser", err)
	}
	if got := m.RenderDocument(); got != "# Kept" {
		t.Errorf("RenderDocument() after failed parse = %q, want %q", got, "# Kept")
	}
	if diff := cmp.Diff([]int{0}, m.DirtyBlocks()); diff != "" {
		t.Errorf("failed parse changed dirty set (-want +got):\n%s", diff)
	}

	strict := DefaultDetectionConfig()
	strict.Strict = true
	m.detector = NewDetector(strict)
	if err := m.ParseDocument("```go\nopen"); !errors.Is(err, ErrDetectionFailed) {
		t.Fatalf("ParseDocument() error = %v, want ErrDetectionFailed", err)
	}
	if m.BlockCount() != 1 {
		t.Errorf("BlockCount() = %d after failed detection, want 1", m.BlockCount())
	}
}

func TestManagerRenderWithoutParserUsesRawText(t *testing.T) {
	registry := DefaultRegistry()
	m := NewManager(registry, NewDetector(DefaultDetectionConfig()))
	if err := m.ParseDocument("$$x$$\n\ntext"); err != nil {
		t.Fatal(err)
	}
	delete(registry.parsers, LaTeX)
	if got, want := m.RenderDocument(), "$$x$$\ntext"; got != want {
		t.Errorf("RenderDocument() = %q, want %q", got, want)
	}
}

func TestManagerFindHeadings(t *testing.T) {
	m := parsedManager(t, "# A\n\npara\n\n## B\n\n### C\n\n## D")

	var titles []string
	for _, b := range m.FindHeadings() {
		titles = append(titles, b.RawText)
	}
	if diff := cmp.Diff([]string{"# A", "## B", "### C", "## D"}, titles); diff != "" {
		t.Errorf("FindHeadings() mismatch (-want +got):\n%s", diff)
	}

	level2 := m.FindBlocksByHeadingLevel(2)
	if len(level2) != 2 || level2[0].RawText != "## B" || level2[1].RawText != "## D" {
		t.Errorf("FindBlocksByHeadingLevel(2) = %+v", level2)
	}
	if got := m.FindBlocksByHeadingLevel(0); got != nil {
		t.Errorf("FindBlocksByHeadingLevel(0) = %+v, want nil", got)
	}
}

func TestManagerInsertBlockAppends(t *testing.T) {
	m := parsedManager(t, "first")
	p := NewLaTeXParser()
	block, meta, err := p.Parse("$$y$$", 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.InsertBlock(1, HybridBlock{Syntax: LaTeX, RawText: "$$y$$", AST: block, Metadata: meta}); err != nil {
		t.Fatal(err)
	}
	if got, want := m.RenderDocument(), "first\n$$y$$"; got != want {
		t.Errorf("RenderDocument() = %q, want %q", got, want)
	}
	if !slices.Equal(m.DirtyBlocks(), []int{1}) {
		t.Errorf("DirtyBlocks() = %v, want [1]", m.DirtyBlocks())
	}
}
