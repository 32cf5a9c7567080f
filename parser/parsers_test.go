package parser

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gerunddev/hybridnote/ast"
)

func text(s string) ast.Text { return ast.Text{Text: s} }

type parseCase struct {
	name     string
	input    string
	want     ast.Block
	wantMeta BlockMetadata
	render   string
}

func runParseCases(t *testing.T, p Parser, tests []parseCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block, meta, err := p.Parse(tt.input, 0)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.want, block); diff != "" {
				t.Errorf("Parse(%q) block mismatch (-want +got):\n%s", tt.input, diff)
			}
			if diff := cmp.Diff(tt.wantMeta, meta); diff != "" {
				t.Errorf("Parse(%q) metadata mismatch (-want +got):\n%s", tt.input, diff)
			}
			if got := p.Render(block, meta); got != tt.render {
				t.Errorf("Render(Parse(%q)) = %q, want %q", tt.input, got, tt.render)
			}
		})
	}
}

func TestMarkdownParser(t *testing.T) {
	runParseCases(t, NewMarkdownParser(), []parseCase{
		{
			name:     "heading",
			input:    "## Section",
			want:     ast.Heading{Level: 2, Content: []ast.Inline{text("Section")}},
			wantMeta: BlockMetadata{HeadingLevel: 2},
			render:   "## Section",
		},
		{
			name:   "paragraph",
			input:  "A **bold** move.",
			want:   ast.Paragraph{Content: []ast.Inline{text("A "), ast.Bold{Content: []ast.Inline{text("bold")}}, text(" move.")}},
			render: "A **bold** move.",
		},
		{
			name:  "several blocks wrap in a div",
			input: "intro\n- a\n- b",
			want: ast.Div{Children: []ast.Block{
				ast.Paragraph{Content: []ast.Inline{text("intro")}},
				ast.List{Style: ast.Unordered('-'), Items: [][]ast.Block{
					{ast.Paragraph{Content: []ast.Inline{text("a")}}},
					{ast.Paragraph{Content: []ast.Inline{text("b")}}},
				}},
			}},
			render: "intro\n- a\n- b",
		},
		{
			name:   "blank",
			input:  "   ",
			want:   ast.Paragraph{},
			render: "",
		},
	})
}

func TestOrgParser(t *testing.T) {
	runParseCases(t, NewOrgParser(nil), []parseCase{
		{
			name:  "headline with keyword and tags",
			input: "** TODO Write docs :work:",
			want:  ast.Heading{Level: 2, Content: []ast.Inline{text("Write docs")}},
			wantMeta: BlockMetadata{
				HeadingLevel: 2,
				TodoState:    "TODO",
				Properties:   []Property{{Key: PropTags, Value: "work"}},
			},
			render: "** TODO Write docs :work:",
		},
		{
			name:  "headline with drawer and body",
			input: "* DONE Ship\nCLOSED: [2024-01-02]\n:PROPERTIES:\n:ID: abc-123\n:EFFORT: 2h\n:END:\nShipped it.",
			want: ast.Div{Children: []ast.Block{
				ast.Heading{Level: 1, Content: []ast.Inline{text("Ship")}},
				ast.Paragraph{Content: []ast.Inline{text("Shipped it.")}},
			}},
			wantMeta: BlockMetadata{
				HeadingLevel: 1,
				ID:           "abc-123",
				TodoState:    "DONE",
				Properties: []Property{
					{Key: PropPlanning, Value: "CLOSED: [2024-01-02]"},
					{Key: "ID", Value: "abc-123"},
					{Key: "EFFORT", Value: "2h"},
				},
			},
			render: "* DONE Ship\nCLOSED: [2024-01-02]\n:PROPERTIES:\n:ID: abc-123\n:EFFORT: 2h\n:END:\nShipped it.",
		},
		{
			name:  "title that looks like a keyword",
			input: "* API design",
			want:  ast.Heading{Level: 1, Content: []ast.Inline{text("API design")}},
			wantMeta: BlockMetadata{
				HeadingLevel: 1,
			},
			render: "* API design",
		},
		{
			name:   "src block",
			input:  "#+BEGIN_SRC python\nprint(1)\n#+END_SRC",
			want:   ast.CodeBlock{Language: "python", Content: "print(1)"},
			render: "#+BEGIN_SRC python\nprint(1)\n#+END_SRC",
		},
		{
			name:   "quote block",
			input:  "#+BEGIN_QUOTE\nquoted\n#+END_QUOTE",
			want:   ast.Quote{Blocks: []ast.Block{ast.Paragraph{Content: []ast.Inline{text("quoted")}}}},
			render: "#+BEGIN_QUOTE\nquoted\n#+END_QUOTE",
		},
		{
			name:  "keyword run",
			input: "#+TITLE: Notes\n#+AUTHOR: Me",
			want: ast.Div{
				Classes:    []string{"keywords"},
				Attributes: []ast.Attribute{{Key: "TITLE", Value: "Notes"}, {Key: "AUTHOR", Value: "Me"}},
			},
			wantMeta: BlockMetadata{
				Properties: []Property{{Key: "TITLE", Value: "Notes"}, {Key: "AUTHOR", Value: "Me"}},
			},
			render: "#+TITLE: Notes\n#+AUTHOR: Me",
		},
	})
}

func TestOrgParserRendersAddedID(t *testing.T) {
	p := NewOrgParser(nil)
	block, meta, err := p.Parse("* Plain", 0)
	if err != nil {
		t.Fatal(err)
	}
	meta.ID = "n-1"
	want := "* Plain\n:PROPERTIES:\n:ID: n-1\n:END:"
	if got := p.Render(block, meta); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestOrgParserCustomKeywords(t *testing.T) {
	p := NewOrgParser([]string{"NEXT", "WAITING"})
	_, meta, err := p.Parse("* WAITING on review", 0)
	if err != nil {
		t.Fatal(err)
	}
	if meta.TodoState != "WAITING" {
		t.Errorf("TodoState = %q, want WAITING", meta.TodoState)
	}
	_, meta, _ = p.Parse("* TODO not a keyword here", 0)
	if meta.TodoState != "" {
		t.Errorf("TodoState = %q, want empty", meta.TodoState)
	}
}

func TestLaTeXParser(t *testing.T) {
	runParseCases(t, NewLaTeXParser(), []parseCase{
		{
			name:   "one line",
			input:  "$$E=mc^2$$",
			want:   ast.MathBlock{Content: "E=mc^2"},
			render: "$$E=mc^2$$",
		},
		{
			name:   "multi line",
			input:  "$$\n\\sum_i x_i\n$$",
			want:   ast.MathBlock{Content: `\sum_i x_i`},
			render: `$$\sum_i x_i$$`,
		},
		{
			name:     "bracket delimiters",
			input:    "\\[ a^2 + b^2 \\]",
			want:     ast.MathBlock{Content: "a^2 + b^2"},
			wantMeta: BlockMetadata{Properties: []Property{{Key: PropDelimiter, Value: `\[`}}},
			render:   "\\[\na^2 + b^2\n\\]",
		},
		{
			name:     "environment",
			input:    "\\begin{align}\nx &= 1\n\\end{align}",
			want:     ast.MathBlock{Content: "\\begin{align}\nx &= 1\n\\end{align}"},
			wantMeta: BlockMetadata{Properties: []Property{{Key: PropDelimiter, Value: "env"}}},
			render:   "\\begin{align}\nx &= 1\n\\end{align}",
		},
		{
			name:   "inline span inside text",
			input:  "Energy $$E$$ here",
			want:   ast.Paragraph{Content: []ast.Inline{text("Energy "), ast.Math{Content: "E"}, text(" here")}},
			render: "Energy $$E$$ here",
		},
		{
			name:  "odd delimiter count is prose",
			input: "Costs $$5 and $$10 and $$20",
			want: ast.Paragraph{Content: []ast.Inline{
				text("Costs "), ast.Math{Content: "5 and"}, text("10 and $$20"),
			}},
			render: "Costs $$5 and$$10 and $$20",
		},
		{
			name:   "trailing delimiter is text",
			input:  "a $$ b $$ c $$",
			want:   ast.Paragraph{Content: []ast.Inline{text("a "), ast.Math{Content: "b"}, text(" c $$")}},
			render: "a $$b$$ c $$",
		},
	})
}

func TestCodeParser(t *testing.T) {
	runParseCases(t, NewCodeParser(), []parseCase{
		{
			name:  "go",
			input: "```go\nfmt.Println()\n```",
			want:  ast.CodeBlock{Language: "go", Content: "fmt.Println()"},
			wantMeta: BlockMetadata{Properties: []Property{
				{Key: PropLanguage, Value: "go"},
				{Key: PropLexer, Value: "Go"},
			}},
			render: "```go\nfmt.Println()\n```",
		},
		{
			name:   "no language",
			input:  "```\nplain\ntext\n```",
			want:   ast.CodeBlock{Content: "plain\ntext"},
			render: "```\nplain\ntext\n```",
		},
		{
			name:  "alias resolves to canonical lexer",
			input: "```sh\n```",
			want:  ast.CodeBlock{Language: "sh"},
			wantMeta: BlockMetadata{Properties: []Property{
				{Key: PropLanguage, Value: "sh"},
				{Key: PropLexer, Value: "Bash"},
			}},
			render: "```sh\n```",
		},
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		parser   Parser
		input    string
		offset   int
		wantLine int
	}{
		{"code without fence", NewCodeParser(), "plain", 4, 4},
		{"code unterminated", NewCodeParser(), "```go\nx\ny", 4, 6},
		{"latex open bracket", NewLaTeXParser(), "\\[ x", 0, 0},
		{"org unterminated block", NewOrgParser(nil), "#+BEGIN_SRC go\nx", 7, 7},
		{"org unterminated drawer", NewOrgParser(nil), "* H\n:PROPERTIES:\n:ID: x", 3, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.parser.Parse(tt.input, tt.offset)
			if !errors.Is(err, ErrSyntax) {
				t.Fatalf("Parse(%q) error = %v, want ErrSyntax", tt.input, err)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("error %v is not a *ParseError", err)
			}
			if perr.Line != tt.wantLine {
				t.Errorf("Parse(%q) error line = %d, want %d", tt.input, perr.Line, tt.wantLine)
			}
		})
	}
}

func TestRenderMismatchIsEmpty(t *testing.T) {
	tests := []struct {
		name   string
		parser Parser
		block  ast.Block
	}{
		{"code renders only code blocks", NewCodeParser(), ast.NewParagraph("x")},
		{"latex renders only math", NewLaTeXParser(), ast.HorizontalRule{}},
		{"markdown unknown", NewMarkdownParser(), nil},
		{"org unknown", NewOrgParser(nil), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.parser.Render(tt.block, BlockMetadata{}); got != "" {
				t.Errorf("Render(%#v) = %q, want empty", tt.block, got)
			}
		})
	}
}

func TestCanHandle(t *testing.T) {
	tests := []struct {
		name   string
		parser Parser
		input  string
		want   bool
	}{
		{"org headline", NewOrgParser(nil), "* TODO x", true},
		{"org begin", NewOrgParser(nil), "#+BEGIN_QUOTE\nq\n#+END_QUOTE", true},
		{"org keyword", NewOrgParser(nil), "#+TITLE: t", true},
		{"org rejects markdown heading", NewOrgParser(nil), "# Title", false},
		{"org rejects bold", NewOrgParser(nil), "*bold*", false},
		{"code fence", NewCodeParser(), "  ```js\nx\n```", true},
		{"code plain", NewCodeParser(), "x", false},
		{"latex dollars", NewLaTeXParser(), "$$x$$", true},
		{"latex brackets", NewLaTeXParser(), "\\[x\\]", true},
		{"latex single dollar", NewLaTeXParser(), "costs $5", false},
		{"markdown anything", NewMarkdownParser(), "whatever", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.parser.CanHandle(tt.input); got != tt.want {
				t.Errorf("CanHandle(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
