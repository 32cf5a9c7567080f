package org

import (
	"testing"

	"github.com/gerunddev/hybridnote/ast"
	"github.com/google/go-cmp/cmp"
)

func text(s string) ast.Text { return ast.Text{Text: s} }

func TestParseHeadline(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Headline
		ok    bool
	}{
		{
			name:  "simple",
			input: "* Introduction",
			want:  Headline{Level: 1, Title: "Introduction"},
			ok:    true,
		},
		{
			name:  "todo keyword",
			input: "** TODO Write tests",
			want:  Headline{Level: 2, Keyword: "TODO", Title: "Write tests"},
			ok:    true,
		},
		{
			name:  "done with tags",
			input: "*** DONE Ship it :work:release:",
			want:  Headline{Level: 3, Keyword: "DONE", Title: "Ship it", Tags: []string{"work", "release"}},
			ok:    true,
		},
		{
			name:  "uppercase word is not a keyword",
			input: "* API design",
			want:  Headline{Level: 1, Title: "API design"},
			ok:    true,
		},
		{
			name:  "level six",
			input: "****** Deep",
			want:  Headline{Level: 6, Title: "Deep"},
			ok:    true,
		},
		{
			name:  "level seven rejected",
			input: "******* Too deep",
			ok:    false,
		},
		{
			name:  "bold text is not a headline",
			input: "*bold* text",
			ok:    false,
		},
		{
			name:  "indented star",
			input: "  * item",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseHeadline(tt.input, nil)
			if ok != tt.ok {
				t.Fatalf("ParseHeadline(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if !ok {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseHeadline(%q) diff (-want +got):\n%s", tt.input, diff)
			}
			if got.String() != tt.input {
				t.Errorf("String() = %q, want %q", got.String(), tt.input)
			}
		})
	}
}

func TestParseHeadlineCustomKeywords(t *testing.T) {
	h, ok := ParseHeadline("* WAITING Reply from Bob", []string{"TODO", "WAITING", "DONE"})
	if !ok || h.Keyword != "WAITING" || h.Title != "Reply from Bob" {
		t.Errorf("ParseHeadline with custom keywords = %+v, %v", h, ok)
	}
}

func TestParseInlines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []ast.Inline
	}{
		{
			name:  "emphasis",
			input: "a *b* /c/ +d+",
			want: []ast.Inline{
				text("a "),
				ast.Bold{Content: []ast.Inline{text("b")}},
				text(" "),
				ast.Italic{Content: []ast.Inline{text("c")}},
				text(" "),
				ast.Strikethrough{Content: []ast.Inline{text("d")}},
			},
		},
		{
			name:  "code and verbatim",
			input: "~x~ and =y=",
			want:  []ast.Inline{ast.Code{Code: "x"}, text(" and "), ast.Code{Code: "y"}},
		},
		{
			name:  "link with description",
			input: "[[id:123][Related]]",
			want:  []ast.Inline{ast.Link{Text: []ast.Inline{text("Related")}, Target: "id:123"}},
		},
		{
			name:  "bare link",
			input: "[[https://example.com]]",
			want:  []ast.Inline{ast.Link{Text: []ast.Inline{text("https://example.com")}, Target: "https://example.com"}},
		},
		{
			name:  "image link",
			input: "[[./img/a.png]]",
			want:  []ast.Inline{ast.Image{Src: "./img/a.png"}},
		},
		{
			name:  "math",
			input: `\(x^2\)`,
			want:  []ast.Inline{ast.Math{Content: "x^2"}},
		},
		{
			name:  "url slashes are not italic",
			input: "see http://a/b/c",
			want:  []ast.Inline{text("see http://a/b/c")},
		},
		{
			name:  "snake case is literal",
			input: "snake_case_name",
			want:  []ast.Inline{text("snake_case_name")},
		},
		{
			name:  "footnote",
			input: "claim[fn:1]",
			want:  []ast.Inline{text("claim"), ast.FootnoteReference{Label: "1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseInlines(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseInlines(%q) diff (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

const sampleDoc = `:PROPERTIES:
:ID: abc-123
:END:
#+TITLE: Project
#+FILETAGS: :work:plan:

Intro text.

* TODO Write proposal :urgent:
SCHEDULED: <2025-01-01 Wed>
:PROPERTIES:
:CUSTOM_ID: proposal
:END:
Body of proposal.
** DONE Draft
#+BEGIN_SRC go
* not a headline
#+END_SRC
* Review
`

func TestIsEndLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"#+END_SRC", true},
		{"  #+end_src  ", true},
		{"#+END_SRC :results output", true},
		{"#+END_SRCX", false},
		{"#+END_QUOTE", false},
		{"#+END_", false},
	}
	for _, tt := range tests {
		if got := IsEndLine(tt.line, "SRC"); got != tt.want {
			t.Errorf("IsEndLine(%q, SRC) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestParseDocument(t *testing.T) {
	doc := Parse(sampleDoc, nil)

	if id, ok := doc.Property("ID"); !ok || id != "abc-123" {
		t.Errorf("file ID = %q, %v", id, ok)
	}
	if title, ok := doc.Keyword("title"); !ok || title != "Project" {
		t.Errorf("title keyword = %q, %v", title, ok)
	}
	if len(doc.Nodes) != 2 {
		t.Fatalf("expected 2 top-level nodes, got %d", len(doc.Nodes))
	}

	proposal := doc.Nodes[0]
	if proposal.Headline.Keyword != "TODO" || proposal.Headline.Title != "Write proposal" {
		t.Errorf("first headline = %+v", proposal.Headline)
	}
	if proposal.Planning != "SCHEDULED: <2025-01-01 Wed>" {
		t.Errorf("planning = %q", proposal.Planning)
	}
	if v, ok := proposal.Property("custom_id"); !ok || v != "proposal" {
		t.Errorf("CUSTOM_ID = %q, %v", v, ok)
	}
	if len(proposal.Children) != 1 || proposal.Children[0].Headline.Title != "Draft" {
		t.Fatalf("expected one child 'Draft', got %+v", proposal.Children)
	}

	draftBody := []ast.Block{ast.CodeBlock{Language: "go", Content: "* not a headline"}}
	if diff := cmp.Diff(draftBody, proposal.Children[0].Body); diff != "" {
		t.Errorf("draft body (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"work", "plan", "urgent"}, doc.Tags()); diff != "" {
		t.Errorf("Tags (-want +got):\n%s", diff)
	}
}

func TestLowerPreOrder(t *testing.T) {
	got := Parse(sampleDoc, nil).Lower()
	want := []ast.Block{
		ast.Paragraph{Content: []ast.Inline{text("Intro text.")}},
		ast.Heading{Level: 1, Content: []ast.Inline{text("TODO Write proposal")}},
		ast.Paragraph{Content: []ast.Inline{text("Body of proposal.")}},
		ast.Heading{Level: 2, Content: []ast.Inline{text("DONE Draft")}},
		ast.CodeBlock{Language: "go", Content: "* not a headline"},
		ast.Heading{Level: 1, Content: []ast.Inline{text("Review")}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Lower (-want +got):\n%s", diff)
	}
}

func TestParseBodyBlocks(t *testing.T) {
	input := []string{
		"#+BEGIN_QUOTE",
		"Quoted /words/.",
		"#+BEGIN_NOTE",
		"inside",
		"#+END_NOTE",
		"#+END_QUOTE",
		"#+BEGIN_EXAMPLE",
		"raw *text*",
		"#+END_EXAMPLE",
		"-----",
		"\\[",
		"a + b",
		"\\]",
	}
	want := []ast.Block{
		ast.Quote{Blocks: []ast.Block{
			ast.Paragraph{Content: []ast.Inline{text("Quoted "), ast.Italic{Content: []ast.Inline{text("words")}}, text(".")}},
			ast.Div{Classes: []string{"note"}, Children: []ast.Block{ast.Paragraph{Content: []ast.Inline{text("inside")}}}},
		}},
		ast.Div{Classes: []string{"example"}, Children: []ast.Block{ast.CodeBlock{Content: "raw *text*"}}},
		ast.HorizontalRule{},
		ast.MathBlock{Content: "a + b"},
	}
	if diff := cmp.Diff(want, ParseBody(input)); diff != "" {
		t.Errorf("ParseBody (-want +got):\n%s", diff)
	}
}

func TestRenderRoundTrip(t *testing.T) {
	inputs := []string{
		"Plain *bold* and /italic/ with ~code~.",
		"#+BEGIN_SRC python\nprint(1)\n#+END_SRC",
		"#+BEGIN_QUOTE\nquoted\n#+END_QUOTE",
		"- one\n- two\n  - nested",
		"1. first\n2. second",
		"| a | b |\n|---+---|\n| 1 | 2 |",
		"-----",
		"\\[\nE = mc^2\n\\]",
		"See [[id:42][Other]] and [[https://x.y]].",
		"#+BEGIN_EXAMPLE\nraw\n#+END_EXAMPLE",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			got := RenderBlocks(ParseBody(splitLines(input)))
			if got != input {
				t.Errorf("RenderBlocks(ParseBody(%q)) = %q", input, got)
			}
		})
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}
