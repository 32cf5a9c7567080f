package parser

import (
	"github.com/gerunddev/hybridnote/ast"
	"github.com/gerunddev/hybridnote/markdown"
)

// MarkdownParser handles markdown chunks. A chunk holding several blocks
// parses to an unclassed Div wrapping them.
type MarkdownParser struct{}

// NewMarkdownParser creates a markdown parser
func NewMarkdownParser() *MarkdownParser {
	return &MarkdownParser{}
}

// SyntaxKind implements Parser
func (p *MarkdownParser) SyntaxKind() SyntaxKind {
	return Markdown
}

// Parse implements Parser. Markdown never fails to parse: anything
// unrecognized becomes a paragraph.
func (p *MarkdownParser) Parse(raw string, lineOffset int) (ast.Block, BlockMetadata, error) {
	blocks := markdown.ParseBlocks(raw)

	var meta BlockMetadata
	if len(blocks) > 0 {
		if level, ok := ast.HeadingLevel(blocks[0]); ok {
			meta.HeadingLevel = level
		}
	}

	switch len(blocks) {
	case 0:
		return ast.Paragraph{}, meta, nil
	case 1:
		return blocks[0], meta, nil
	default:
		return ast.Div{Children: blocks}, meta, nil
	}
}

// Render implements Parser
func (p *MarkdownParser) Render(block ast.Block, _ BlockMetadata) string {
	if div, ok := block.(ast.Div); ok && len(div.Classes) == 0 && len(div.Attributes) == 0 {
		return markdown.RenderCompact(div.Children)
	}
	return markdown.RenderBlock(block)
}

// CanHandle implements Parser. Any text can be read as markdown.
func (p *MarkdownParser) CanHandle(string) bool {
	return true
}
