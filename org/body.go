package org

import (
	"regexp"
	"slices"
	"strings"

	"github.com/gerunddev/hybridnote/ast"
)

var (
	beginRegexp       = regexp.MustCompile(`(?i)^#\+BEGIN_(\S+)(?:[ \t]+(.*))?$`)
	ruleRegexp        = regexp.MustCompile(`^-{5,}$`)
	orgListRegexp     = regexp.MustCompile(`^(?:[-+]|\d+[.)]) `)
	tableRuleRegexp   = regexp.MustCompile(`^\|[-+:| ]*\|?$`)
	footnoteDefRegexp = regexp.MustCompile(`^\[fn:([^\]\s]+)\]\s*(.*)$`)
)

// verbatimBlocks keep their interior as raw text
var verbatimBlocks = []string{"EXAMPLE", "EXPORT", "VERSE", "COMMENT"}

// BeginLine describes a "#+BEGIN_TYPE params" line
type BeginLine struct {
	Type   string
	Params string
}

// ParseBeginLine parses a "#+BEGIN_TYPE params" line; Type is upper-cased
func ParseBeginLine(line string) (BeginLine, bool) {
	m := beginRegexp.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return BeginLine{}, false
	}
	return BeginLine{Type: strings.ToUpper(m[1]), Params: strings.TrimSpace(m[2])}, true
}

// IsEndLine reports whether line closes a block of the given type
func IsEndLine(line, blockType string) bool {
	trimmed := strings.TrimSpace(line)
	marker := "#+END_" + blockType
	if len(trimmed) < len(marker) || !strings.EqualFold(trimmed[:len(marker)], marker) {
		return false
	}
	rest := trimmed[len(marker):]
	return rest == "" || rest[0] == ' ' || rest[0] == '\t'
}

// FindEnd returns the index of the line closing the block opened at lines[i],
// or -1 when the block is unterminated.
func FindEnd(lines []string, i int, blockType string) int {
	for j := i + 1; j < len(lines); j++ {
		if IsEndLine(lines[j], blockType) {
			return j
		}
	}
	return -1
}

// BlockFromBegin builds the block for a #+BEGIN_ ... #+END_ region given its
// interior lines.
func BlockFromBegin(begin BeginLine, interior []string) ast.Block {
	raw := strings.Join(interior, "\n")
	switch {
	case begin.Type == "SRC":
		lang := ""
		if fields := strings.Fields(begin.Params); len(fields) > 0 {
			lang = fields[0]
		}
		return ast.CodeBlock{Language: lang, Content: raw}
	case begin.Type == "QUOTE":
		return ast.Quote{Blocks: ParseBody(interior)}
	case slices.Contains(verbatimBlocks, begin.Type):
		return ast.Div{
			Classes:    []string{strings.ToLower(begin.Type)},
			Attributes: paramsAttribute(begin.Params),
			Children:   []ast.Block{ast.CodeBlock{Content: raw}},
		}
	default:
		return ast.Div{
			Classes:    []string{strings.ToLower(begin.Type)},
			Attributes: paramsAttribute(begin.Params),
			Children:   ParseBody(interior),
		}
	}
}

func paramsAttribute(params string) []ast.Attribute {
	if params == "" {
		return nil
	}
	return []ast.Attribute{{Key: "params", Value: params}}
}

// ParseBody parses the body of an org section (everything between two
// headlines) into blocks. Keyword lines and drawers are skipped.
func ParseBody(lines []string) []ast.Block {
	var blocks []ast.Block
	i := 0
	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			i++
		case IsDrawerStart(trimmed):
			i++
			for i < len(lines) && !IsDrawerEnd(lines[i]) {
				i++
			}
			i++
		case strings.HasPrefix(trimmed, "#+"):
			begin, ok := ParseBeginLine(trimmed)
			if !ok {
				i++
				continue
			}
			end := FindEnd(lines, i, begin.Type)
			if end < 0 {
				end = len(lines)
			}
			blocks = append(blocks, BlockFromBegin(begin, lines[i+1:end]))
			i = end + 1
		case trimmed == "#" || strings.HasPrefix(trimmed, "# "):
			i++
		case strings.HasPrefix(trimmed, `\[`) || strings.HasPrefix(trimmed, "$$"):
			block, next := parseMath(lines, i)
			blocks = append(blocks, block)
			i = next
		case ruleRegexp.MatchString(trimmed):
			blocks = append(blocks, ast.HorizontalRule{})
			i++
		case strings.HasPrefix(trimmed, "|"):
			block, next := parseTable(lines, i)
			blocks = append(blocks, block)
			i = next
		case isListLine(line):
			block, next := parseList(lines, i)
			blocks = append(blocks, block)
			i = next
		case footnoteDefRegexp.MatchString(trimmed):
			m := footnoteDefRegexp.FindStringSubmatch(trimmed)
			blocks = append(blocks, ast.FootnoteDefinition{
				Label:   m[1],
				Content: []ast.Block{ast.Paragraph{Content: ParseInlines(m[2])}},
			})
			i++
		default:
			block, next := parseParagraph(lines, i)
			blocks = append(blocks, block)
			i = next
		}
	}
	return blocks
}

func parseMath(lines []string, i int) (ast.Block, int) {
	open, closer := `\[`, `\]`
	if strings.HasPrefix(strings.TrimSpace(lines[i]), "$$") {
		open, closer = "$$", "$$"
	}
	first := strings.TrimPrefix(strings.TrimSpace(lines[i]), open)
	if end := strings.Index(first, closer); end >= 0 {
		return ast.MathBlock{Content: strings.TrimSpace(first[:end])}, i + 1
	}
	parts := []string{first}
	j := i + 1
	for ; j < len(lines); j++ {
		if end := strings.Index(lines[j], closer); end >= 0 {
			parts = append(parts, lines[j][:end])
			j++
			break
		}
		parts = append(parts, lines[j])
	}
	return ast.MathBlock{Content: strings.TrimSpace(strings.Join(parts, "\n"))}, j
}

func splitRow(row string) []string {
	row = strings.TrimSpace(row)
	row = strings.TrimPrefix(row, "|")
	row = strings.TrimSuffix(row, "|")
	cells := strings.Split(row, "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

func parseTable(lines []string, i int) (ast.Block, int) {
	var rows [][][]ast.Inline
	j := i
	for ; j < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[j]), "|"); j++ {
		if tableRuleRegexp.MatchString(strings.TrimSpace(lines[j])) && strings.Contains(lines[j], "-") {
			continue
		}
		var cells [][]ast.Inline
		for _, cell := range splitRow(lines[j]) {
			cells = append(cells, ParseInlines(cell))
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return ast.Table{}, j
	}
	return ast.Table{Headers: rows[0], Rows: rows[1:]}, j
}

func isListLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	if orgListRegexp.MatchString(trimmed) {
		return true
	}
	// "* " only marks a list item when indented; at column 0 it is a headline
	return strings.HasPrefix(trimmed, "* ") && indentOf(line) > 0
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

func listMarker(trimmed string) string {
	if m := orgListRegexp.FindString(trimmed); m != "" {
		return m
	}
	return trimmed[:2]
}

func parseList(lines []string, i int) (ast.Block, int) {
	base := indentOf(lines[i])
	style := ast.Unordered('-')
	first := listMarker(strings.TrimLeft(lines[i], " \t"))
	switch {
	case first[0] == '+' || first[0] == '*':
		style = ast.Unordered(first[0])
	case first[0] >= '0' && first[0] <= '9':
		numbering := ast.Numbering{Type: ast.Decimal, Style: ast.Dot}
		if strings.Contains(first, ")") {
			numbering.Style = ast.Paren
		}
		style = ast.Ordered(numbering)
	}

	var items [][]ast.Block
	j := i
	for j < len(lines) {
		line := lines[j]
		if strings.TrimSpace(line) == "" {
			k := j + 1
			for k < len(lines) && strings.TrimSpace(lines[k]) == "" {
				k++
			}
			if k < len(lines) && (indentOf(lines[k]) > base || (isListLine(lines[k]) && indentOf(lines[k]) == base)) {
				j = k
				continue
			}
			break
		}
		if indentOf(line) != base || !isListLine(line) {
			break
		}

		trimmed := strings.TrimLeft(line, " \t")
		marker := listMarker(trimmed)
		var item []ast.Block
		if text := strings.TrimSpace(trimmed[len(marker):]); text != "" {
			item = append(item, ast.Paragraph{Content: ParseInlines(text)})
		}
		j++
		var nested []string
		for j < len(lines) {
			next := lines[j]
			if strings.TrimSpace(next) != "" && indentOf(next) <= base {
				break
			}
			nested = append(nested, next)
			j++
		}
		item = append(item, ParseBody(dedent(nested))...)
		items = append(items, item)
	}
	return ast.List{Style: style, Items: items}, j
}

func dedent(lines []string) []string {
	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if n := indentOf(line); minIndent < 0 || n < minIndent {
			minIndent = n
		}
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			out[i] = line[minIndent:]
		}
	}
	return out
}

// startsBlock reports whether line begins something other than paragraph text
func startsBlock(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" ||
		strings.HasPrefix(trimmed, "#+") ||
		strings.HasPrefix(trimmed, "|") ||
		strings.HasPrefix(trimmed, `\[`) ||
		strings.HasPrefix(trimmed, "$$") ||
		IsDrawerStart(trimmed) ||
		ruleRegexp.MatchString(trimmed) ||
		isListLine(line) ||
		IsHeadline(line)
}

func parseParagraph(lines []string, i int) (ast.Block, int) {
	parts := []string{strings.TrimSpace(lines[i])}
	j := i + 1
	for ; j < len(lines) && !startsBlock(lines[j]); j++ {
		parts = append(parts, strings.TrimSpace(lines[j]))
	}
	text := strings.Join(parts, "\n")
	if len(parts) == 1 {
		if target, ok := strings.CutPrefix(text, "[["); ok && strings.HasSuffix(target, "]]") {
			target = strings.TrimSuffix(target, "]]")
			if !strings.Contains(target, "][") && IsImagePath(target) {
				return ast.ImageBlock{Src: target}, j
			}
		}
	}
	return ast.Paragraph{Content: ParseInlines(text)}, j
}
