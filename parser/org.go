package parser

import (
	"strings"

	"github.com/gerunddev/hybridnote/ast"
	"github.com/gerunddev/hybridnote/org"
)

// Metadata property keys written by OrgParser
const (
	PropTags     = "TAGS"
	PropPlanning = "PLANNING"
)

// OrgParser handles org chunks: headlines with their drawers and bodies,
// #+BEGIN_ blocks and #+KEY: keyword runs.
type OrgParser struct {
	keywords []string
}

// NewOrgParser creates an org parser recognizing the given TODO keywords;
// nil means TODO and DONE.
func NewOrgParser(todoKeywords []string) *OrgParser {
	return &OrgParser{keywords: todoKeywords}
}

// SyntaxKind implements Parser
func (p *OrgParser) SyntaxKind() SyntaxKind {
	return Org
}

// Parse implements Parser
func (p *OrgParser) Parse(raw string, lineOffset int) (ast.Block, BlockMetadata, error) {
	var meta BlockMetadata
	lines := splitLines(raw)
	first := 0
	for first < len(lines) && strings.TrimSpace(lines[first]) == "" {
		first++
	}
	if first == len(lines) {
		return ast.Paragraph{}, meta, nil
	}

	line := strings.TrimLeft(lines[first], " \t")
	if h, ok := org.ParseHeadline(line, p.keywords); ok {
		return p.parseSection(h, lines, first, lineOffset)
	}

	if begin, ok := org.ParseBeginLine(line); ok {
		end := org.FindEnd(lines, first, begin.Type)
		if end < 0 {
			return nil, meta, NewSyntaxError(lineOffset+first, "unterminated #+BEGIN_%s block", begin.Type)
		}
		block := org.BlockFromBegin(begin, lines[first+1:end])
		if rest := org.ParseBody(lines[end+1:]); len(rest) > 0 {
			block = ast.Div{Children: append([]ast.Block{block}, rest...)}
		}
		return block, meta, nil
	}

	if attrs, ok := keywordRun(lines); ok {
		for _, a := range attrs {
			meta.SetProperty(a.Key, a.Value)
		}
		return ast.Div{Classes: []string{"keywords"}, Attributes: attrs}, meta, nil
	}

	return wrapBlocks(org.ParseBody(lines)), meta, nil
}

func (p *OrgParser) parseSection(h org.Headline, lines []string, first, lineOffset int) (ast.Block, BlockMetadata, error) {
	meta := BlockMetadata{HeadingLevel: h.Level, TodoState: h.Keyword}
	if len(h.Tags) > 0 {
		meta.SetProperty(PropTags, strings.Join(h.Tags, ":"))
	}

	i := first + 1
	if i < len(lines) && org.IsPlanningLine(lines[i]) {
		meta.SetProperty(PropPlanning, strings.TrimSpace(lines[i]))
		i++
	}
	if i < len(lines) && org.IsDrawerStart(lines[i]) {
		start := i
		for i++; i < len(lines) && !org.IsDrawerEnd(lines[i]); i++ {
			prop, ok := org.ParsePropertyLine(lines[i])
			if !ok {
				continue
			}
			if strings.EqualFold(prop.Key, "ID") {
				meta.ID = prop.Value
			}
			meta.SetProperty(prop.Key, prop.Value)
		}
		if i == len(lines) {
			return nil, meta, NewSyntaxError(lineOffset+start, "unterminated :PROPERTIES: drawer")
		}
		i++
	}

	heading := ast.Heading{Level: h.Level, Content: org.ParseInlines(h.Title)}
	body := org.ParseBody(lines[i:])
	if len(body) == 0 {
		return heading, meta, nil
	}
	return ast.Div{Children: append([]ast.Block{heading}, body...)}, meta, nil
}

// keywordRun parses a chunk made only of #+KEY: value lines
func keywordRun(lines []string) ([]ast.Attribute, bool) {
	var attrs []ast.Attribute
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		kw, ok := org.ParseKeywordLine(line)
		if !ok {
			return nil, false
		}
		attrs = append(attrs, ast.Attribute{Key: kw.Key, Value: kw.Value})
	}
	return attrs, len(attrs) > 0
}

func wrapBlocks(blocks []ast.Block) ast.Block {
	switch len(blocks) {
	case 0:
		return ast.Paragraph{}
	case 1:
		return blocks[0]
	default:
		return ast.Div{Children: blocks}
	}
}

// Render implements Parser
func (p *OrgParser) Render(block ast.Block, meta BlockMetadata) string {
	switch v := block.(type) {
	case ast.Heading:
		return p.renderHeading(v, meta)
	case ast.Div:
		if len(v.Classes) == 1 && v.Classes[0] == "keywords" {
			lines := make([]string, 0, len(v.Attributes))
			for _, a := range v.Attributes {
				lines = append(lines, "#+"+a.Key+": "+a.Value)
			}
			return strings.Join(lines, "\n")
		}
		if len(v.Classes) > 0 {
			return org.RenderBlock(v)
		}
		parts := make([]string, 0, len(v.Children))
		for i, child := range v.Children {
			if h, ok := child.(ast.Heading); ok && i == 0 && meta.HeadingLevel > 0 {
				parts = append(parts, p.renderHeading(h, meta))
				continue
			}
			parts = append(parts, org.RenderBlock(child))
		}
		return strings.Join(parts, "\n")
	}
	return org.RenderBlock(block)
}

func (p *OrgParser) renderHeading(h ast.Heading, meta BlockMetadata) string {
	headline := org.Headline{
		Level:   h.Level,
		Keyword: meta.TodoState,
		Title:   org.RenderInlines(h.Content),
	}
	if tags, ok := meta.Property(PropTags); ok && tags != "" {
		headline.Tags = strings.Split(tags, ":")
	}

	lines := []string{headline.String()}
	if planning, ok := meta.Property(PropPlanning); ok {
		lines = append(lines, planning)
	}

	var drawer []org.Property
	hasID := false
	for _, prop := range meta.Properties {
		if prop.Key == PropTags || prop.Key == PropPlanning {
			continue
		}
		if strings.EqualFold(prop.Key, "ID") {
			hasID = true
		}
		drawer = append(drawer, org.Property{Key: prop.Key, Value: prop.Value})
	}
	if meta.ID != "" && !hasID {
		drawer = append([]org.Property{{Key: "ID", Value: meta.ID}}, drawer...)
	}
	if d := org.RenderDrawer(drawer); d != "" {
		lines = append(lines, d)
	}
	return strings.Join(lines, "\n")
}

// CanHandle implements Parser
func (p *OrgParser) CanHandle(text string) bool {
	for _, line := range splitLines(text) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if _, ok := org.ParseHeadline(trimmed, p.keywords); ok {
			return true
		}
		_, isBegin := org.ParseBeginLine(trimmed)
		_, isKeyword := org.ParseKeywordLine(trimmed)
		return isBegin || isKeyword || org.IsDrawerStart(trimmed)
	}
	return false
}
