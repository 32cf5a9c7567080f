package parser

import (
	"strings"

	"github.com/gerunddev/hybridnote/ast"
	"github.com/gerunddev/hybridnote/markdown"
)

// PropDelimiter records how a LaTeX chunk was delimited so it renders back
// the same way: "$$" (the default), `\[` or "env" for \begin{...} blocks.
const PropDelimiter = "delimiter"

// LaTeXParser handles display math chunks
type LaTeXParser struct{}

// NewLaTeXParser creates a LaTeX parser
func NewLaTeXParser() *LaTeXParser {
	return &LaTeXParser{}
}

// SyntaxKind implements Parser
func (p *LaTeXParser) SyntaxKind() SyntaxKind {
	return LaTeX
}

// Parse implements Parser. A chunk wrapped in $$ or \[ \] becomes a math
// block holding the trimmed interior. Text around an inline $$...$$ span, or
// an odd number of $$ delimiters, makes the chunk a paragraph instead.
func (p *LaTeXParser) Parse(raw string, lineOffset int) (ast.Block, BlockMetadata, error) {
	var meta BlockMetadata
	trimmed := strings.TrimSpace(raw)
	last := lineOffset + strings.Count(strings.TrimRight(raw, "\n"), "\n")

	// prose such as "$$5 and $$10" reaches here through the detector
	if strings.Count(trimmed, "$$")%2 != 0 {
		return ast.Paragraph{Content: markdown.ParseInlines(trimmed)}, meta, nil
	}

	switch {
	case strings.HasPrefix(trimmed, "$$") && strings.HasSuffix(trimmed, "$$") && strings.Count(trimmed, "$$") == 2:
		return ast.MathBlock{Content: strings.TrimSpace(trimmed[2 : len(trimmed)-2])}, meta, nil
	case strings.HasPrefix(trimmed, `\[`):
		if !strings.HasSuffix(trimmed, `\]`) || len(trimmed) < 4 {
			return nil, meta, NewSyntaxError(last, `unterminated \[ block`)
		}
		meta.SetProperty(PropDelimiter, `\[`)
		return ast.MathBlock{Content: strings.TrimSpace(trimmed[2 : len(trimmed)-2])}, meta, nil
	case strings.HasPrefix(trimmed, `\begin{`):
		meta.SetProperty(PropDelimiter, "env")
		return ast.MathBlock{Content: trimmed}, meta, nil
	case strings.Contains(trimmed, "$$"):
		return ast.Paragraph{Content: markdown.ParseInlines(trimmed)}, meta, nil
	}
	return ast.MathBlock{Content: trimmed}, meta, nil
}

// Render implements Parser
func (p *LaTeXParser) Render(block ast.Block, meta BlockMetadata) string {
	switch v := block.(type) {
	case ast.MathBlock:
		delim, _ := meta.Property(PropDelimiter)
		switch {
		case delim == "env":
			return v.Content
		case delim == `\[`:
			return "\\[\n" + v.Content + "\n\\]"
		case strings.Contains(v.Content, "\n"):
			return "$$\n" + v.Content + "\n$$"
		default:
			return "$$" + v.Content + "$$"
		}
	case ast.Paragraph:
		var sb strings.Builder
		for _, in := range v.Content {
			if m, ok := in.(ast.Math); ok {
				sb.WriteString("$$" + m.Content + "$$")
				continue
			}
			sb.WriteString(markdown.RenderInlines([]ast.Inline{in}))
		}
		return sb.String()
	}
	return ""
}

// CanHandle implements Parser
func (p *LaTeXParser) CanHandle(text string) bool {
	trimmed := strings.TrimSpace(text)
	return strings.Contains(trimmed, "$$") ||
		strings.HasPrefix(trimmed, `\[`) ||
		strings.HasPrefix(trimmed, `\begin{`)
}
