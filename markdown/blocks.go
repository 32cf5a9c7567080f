// Package markdown implements the block and inline markdown grammar used by
// the hybrid block parser and the markdown note format.
package markdown

import (
	"regexp"
	"strings"

	"github.com/gerunddev/hybridnote/ast"
)

const (
	fence     = "```"
	mathDelim = "$$"
)

var (
	atxHeadingRegexp    = regexp.MustCompile(`^(#{1,6}) (.*)$`)
	thematicBreakRegexp = regexp.MustCompile(`^(?:(?:-[ \t]*){3,}|(?:_[ \t]*){3,}|(?:\*[ \t]*){3,})$`)
	orderedMarkerRegexp = regexp.MustCompile(`^(\d+)([.)]) `)
	footnoteDefRegexp   = regexp.MustCompile(`^\[\^([^\]\s]+)\]:[ \t]?(.*)$`)
	imageLineRegexp     = regexp.MustCompile(`^!\[([^\]]*)\]\(([^()\s]*)\)$`)
)

type blockFunc func(lines []string, i int) (ast.Block, int, bool)

// blockParsers is filled in init since the container parsers recurse
// through parseBlockAt.
var blockParsers []blockFunc

func init() {
	// Order matters: a thematic break must win over a "* * *" list item.
	blockParsers = []blockFunc{
		parseFence,
		parseMathBlock,
		parseHeading,
		parseThematicBreak,
		parseQuote,
		parseList,
		parseFootnoteDefinition,
		parseTable,
		parseImageLine,
	}
}

// ParseBlocks parses markdown text into a block sequence
func ParseBlocks(text string) []ast.Block {
	return parseLines(SplitLines(text))
}

// SplitLines splits text on newlines, normalizing CRLF
func SplitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

func parseLines(lines []string) []ast.Block {
	var blocks []ast.Block
	i := 0
	for i < len(lines) {
		if strings.TrimSpace(lines[i]) == "" {
			i++
			continue
		}

		block, next, ok := parseBlockAt(lines, i)
		if !ok {
			block, next = parseParagraph(lines, i)
		}
		blocks = append(blocks, block)
		i = next
	}
	return blocks
}

func parseBlockAt(lines []string, i int) (ast.Block, int, bool) {
	for _, parse := range blockParsers {
		if block, next, ok := parse(lines, i); ok {
			return block, next, true
		}
	}
	return nil, i, false
}

func parseFence(lines []string, i int) (ast.Block, int, bool) {
	trimmed := strings.TrimSpace(lines[i])
	if !strings.HasPrefix(trimmed, fence) {
		return nil, i, false
	}
	language := ""
	if fields := strings.Fields(trimmed[len(fence):]); len(fields) > 0 {
		language = fields[0]
	}

	var body []string
	j := i + 1
	for ; j < len(lines); j++ {
		if strings.HasPrefix(strings.TrimSpace(lines[j]), fence) {
			j++
			break
		}
		body = append(body, lines[j])
	}
	return ast.CodeBlock{Language: language, Content: strings.Join(body, "\n")}, j, true
}

func parseMathBlock(lines []string, i int) (ast.Block, int, bool) {
	trimmed := strings.TrimSpace(lines[i])
	if !strings.HasPrefix(trimmed, mathDelim) {
		return nil, i, false
	}
	rest := trimmed[len(mathDelim):]
	if end := strings.Index(rest, mathDelim); end >= 0 {
		return ast.MathBlock{Content: strings.TrimSpace(rest[:end])}, i + 1, true
	}

	parts := []string{rest}
	j := i + 1
	for ; j < len(lines); j++ {
		if end := strings.Index(lines[j], mathDelim); end >= 0 {
			parts = append(parts, lines[j][:end])
			j++
			break
		}
		parts = append(parts, lines[j])
	}
	return ast.MathBlock{Content: strings.TrimSpace(strings.Join(parts, "\n"))}, j, true
}

func parseHeading(lines []string, i int) (ast.Block, int, bool) {
	level, text, ok := ParseATXHeading(strings.TrimSpace(lines[i]))
	if !ok {
		return nil, i, false
	}
	return ast.Heading{Level: level, Content: ParseInlines(text)}, i + 1, true
}

// ParseATXHeading parses "# Title" style headings, levels 1 through 6
func ParseATXHeading(line string) (level int, text string, ok bool) {
	m := atxHeadingRegexp.FindStringSubmatch(line)
	if m == nil {
		return 0, "", false
	}
	return len(m[1]), strings.TrimSpace(m[2]), true
}

func parseThematicBreak(lines []string, i int) (ast.Block, int, bool) {
	if !thematicBreakRegexp.MatchString(strings.TrimSpace(lines[i])) {
		return nil, i, false
	}
	return ast.HorizontalRule{}, i + 1, true
}

func parseQuote(lines []string, i int) (ast.Block, int, bool) {
	if !isQuoteLine(lines[i]) {
		return nil, i, false
	}
	var inner []string
	j := i
	for ; j < len(lines) && isQuoteLine(lines[j]); j++ {
		line := strings.TrimLeft(lines[j], " \t")[1:]
		inner = append(inner, strings.TrimPrefix(line, " "))
	}
	return ast.Quote{Blocks: parseLines(inner)}, j, true
}

func isQuoteLine(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), ">")
}

// listMarker returns the marker (including its trailing space) that starts
// line, which must already have its indentation removed.
func listMarker(line string) (string, bool) {
	if len(line) >= 2 && line[1] == ' ' {
		switch line[0] {
		case '-', '*', '+':
			return line[:2], true
		}
	}
	if m := orderedMarkerRegexp.FindString(line); m != "" {
		return m, true
	}
	return "", false
}

func isListLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	if thematicBreakRegexp.MatchString(strings.TrimSpace(trimmed)) {
		return false
	}
	_, ok := listMarker(trimmed)
	return ok
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

func parseList(lines []string, i int) (ast.Block, int, bool) {
	if !isListLine(lines[i]) {
		return nil, i, false
	}
	base := indentOf(lines[i])
	first, _ := listMarker(lines[i][base:])

	// continues reports whether line still belongs to the list
	continues := func(line string) bool {
		if indentOf(line) > base {
			return true
		}
		marker, ok := listMarker(strings.TrimLeft(line, " \t"))
		return ok && isListLine(line) && sameListKind(first, marker)
	}

	j := i + 1
	for j < len(lines) {
		if strings.TrimSpace(lines[j]) == "" {
			k := j + 1
			for k < len(lines) && strings.TrimSpace(lines[k]) == "" {
				k++
			}
			if k < len(lines) && continues(lines[k]) {
				j = k
				continue
			}
			break
		}
		if !continues(lines[j]) {
			break
		}
		j++
	}

	items, style := parseListItems(lines[i:j])
	return ast.List{Style: style, Items: items}, j, true
}

func parseListItems(lines []string) ([][]ast.Block, ast.ListStyle) {
	var (
		items [][]ast.Block
		style ast.ListStyle
	)
	k := 0
	for k < len(lines) {
		line := lines[k]
		indent := indentOf(line)
		marker, ok := listMarker(line[indent:])
		if strings.TrimSpace(line) == "" || !ok {
			k++
			continue
		}
		if items == nil {
			style = styleForMarker(marker)
		}

		first := strings.TrimSpace(line[indent+len(marker):])
		var nested []string
		k++
		for k < len(lines) {
			next := lines[k]
			if strings.TrimSpace(next) != "" && indentOf(next) <= indent {
				break
			}
			nested = append(nested, next)
			k++
		}

		var item []ast.Block
		if first != "" {
			item = append(item, ast.Paragraph{Content: ParseInlines(first)})
		}
		item = append(item, parseLines(dedent(nested))...)
		items = append(items, item)
	}
	return items, style
}

// sameListKind reports whether two markers belong to the same list:
// the same bullet character, or both ordered.
func sameListKind(a, b string) bool {
	aOrdered := orderedMarkerRegexp.MatchString(a)
	bOrdered := orderedMarkerRegexp.MatchString(b)
	if aOrdered || bOrdered {
		return aOrdered && bOrdered
	}
	return a[0] == b[0]
}

func styleForMarker(marker string) ast.ListStyle {
	switch marker[0] {
	case '-', '*', '+':
		return ast.Unordered(marker[0])
	}
	numbering := ast.Numbering{Type: ast.Decimal, Style: ast.Dot}
	if strings.Contains(marker, ")") {
		numbering.Style = ast.Paren
	}
	return ast.Ordered(numbering)
}

// dedent strips the smallest common indentation from lines
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
	for idx, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out[idx] = line[minIndent:]
	}
	return out
}

func parseFootnoteDefinition(lines []string, i int) (ast.Block, int, bool) {
	m := footnoteDefRegexp.FindStringSubmatch(strings.TrimSpace(lines[i]))
	if m == nil {
		return nil, i, false
	}
	body := []string{m[2]}
	j := i + 1
	var cont []string
	for ; j < len(lines); j++ {
		if strings.TrimSpace(lines[j]) != "" && indentOf(lines[j]) == 0 {
			break
		}
		cont = append(cont, lines[j])
	}
	body = append(body, dedent(cont)...)
	return ast.FootnoteDefinition{Label: m[1], Content: parseLines(body)}, j, true
}

func parseTable(lines []string, i int) (ast.Block, int, bool) {
	j := i
	for j < len(lines) && strings.TrimSpace(lines[j]) != "" && strings.Contains(lines[j], "|") {
		j++
	}
	if j-i < 2 {
		return nil, i, false
	}

	rows := lines[i:j]
	table := ast.Table{Headers: parseCells(rows[0])}
	body := rows[1:]
	if isAlignmentRow(body[0]) {
		table.Alignments = parseAlignments(body[0])
		body = body[1:]
	}
	for _, row := range body {
		table.Rows = append(table.Rows, parseCells(row))
	}
	return table, j, true
}

func splitRow(row string) []string {
	row = strings.TrimSpace(row)
	row = strings.TrimPrefix(row, "|")
	row = strings.TrimSuffix(row, "|")
	cells := strings.Split(row, "|")
	for idx := range cells {
		cells[idx] = strings.TrimSpace(cells[idx])
	}
	return cells
}

func parseCells(row string) [][]ast.Inline {
	var cells [][]ast.Inline
	for _, cell := range splitRow(row) {
		cells = append(cells, ParseInlines(cell))
	}
	return cells
}

func isAlignmentRow(row string) bool {
	row = strings.TrimSpace(row)
	if !strings.Contains(row, "-") {
		return false
	}
	return strings.Trim(row, "-:| \t") == ""
}

func parseAlignments(row string) []ast.Alignment {
	var aligns []ast.Alignment
	for _, cell := range splitRow(row) {
		left := strings.HasPrefix(cell, ":")
		right := strings.HasSuffix(cell, ":") && len(cell) > 1
		switch {
		case left && right:
			aligns = append(aligns, ast.AlignCenter)
		case left:
			aligns = append(aligns, ast.AlignLeft)
		case right:
			aligns = append(aligns, ast.AlignRight)
		default:
			aligns = append(aligns, ast.AlignNone)
		}
	}
	return aligns
}

func parseImageLine(lines []string, i int) (ast.Block, int, bool) {
	m := imageLineRegexp.FindStringSubmatch(strings.TrimSpace(lines[i]))
	if m == nil {
		return nil, i, false
	}
	return ast.ImageBlock{AltText: m[1], Src: m[2]}, i + 1, true
}

// startsTable reports whether lines[i] is a table header followed by an alignment row
func startsTable(lines []string, i int) bool {
	return strings.Contains(lines[i], "|") && i+1 < len(lines) && isAlignmentRow(lines[i+1])
}

func parseParagraph(lines []string, i int) (ast.Block, int) {
	var parts []string
	j := i
	for j < len(lines) {
		line := lines[j]
		if strings.TrimSpace(line) == "" {
			break
		}
		if j > i {
			if startsTable(lines, j) {
				break
			}
			if _, _, ok := parseBlockAt(lines, j); ok && !strings.Contains(line, "|") {
				break
			}
		}
		parts = append(parts, strings.TrimLeft(line, " \t"))
		j++
	}
	text := strings.TrimRight(strings.Join(parts, "\n"), " \t")
	return ast.Paragraph{Content: ParseInlines(text)}, j
}
