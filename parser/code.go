package parser

import (
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/gerunddev/hybridnote/ast"
)

// Metadata property keys written by CodeParser
const (
	PropLanguage = "language"
	PropLexer    = "lexer"
)

// CodeParser handles fenced code chunks
type CodeParser struct {
	fence string
}

// NewCodeParser creates a code parser for ``` fences
func NewCodeParser() *CodeParser {
	return NewCodeParserWithFence("```")
}

// NewCodeParserWithFence creates a code parser for a custom fence marker
func NewCodeParserWithFence(fence string) *CodeParser {
	return &CodeParser{fence: fence}
}

// SyntaxKind implements Parser
func (p *CodeParser) SyntaxKind() SyntaxKind {
	return Code
}

// Parse implements Parser. The info string after the opening fence names
// the language; when chroma knows it, its canonical lexer name is stored too.
func (p *CodeParser) Parse(raw string, lineOffset int) (ast.Block, BlockMetadata, error) {
	var meta BlockMetadata
	lines := splitLines(strings.Trim(raw, "\n"))
	if len(lines) == 0 || !strings.HasPrefix(strings.TrimSpace(lines[0]), p.fence) {
		return nil, meta, NewSyntaxError(lineOffset, "expected opening %s fence", p.fence)
	}
	last := len(lines) - 1
	if last == 0 || !strings.HasPrefix(strings.TrimSpace(lines[last]), p.fence) {
		return nil, meta, NewSyntaxError(lineOffset+last, "unterminated code fence")
	}

	language := ""
	if fields := strings.Fields(strings.TrimSpace(lines[0])[len(p.fence):]); len(fields) > 0 {
		language = fields[0]
		meta.SetProperty(PropLanguage, language)
		if lexer := lexers.Get(language); lexer != nil {
			meta.SetProperty(PropLexer, lexer.Config().Name)
		}
	}

	return ast.CodeBlock{
		Language: language,
		Content:  strings.Join(lines[1:last], "\n"),
	}, meta, nil
}

// Render implements Parser
func (p *CodeParser) Render(block ast.Block, _ BlockMetadata) string {
	code, ok := block.(ast.CodeBlock)
	if !ok {
		return ""
	}
	if code.Content == "" {
		return p.fence + code.Language + "\n" + p.fence
	}
	return p.fence + code.Language + "\n" + code.Content + "\n" + p.fence
}

// CanHandle implements Parser
func (p *CodeParser) CanHandle(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), p.fence)
}
