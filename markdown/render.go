package markdown

import (
	"fmt"
	"strings"

	"github.com/gerunddev/hybridnote/ast"
)

// RenderBlocks writes blocks back to markdown, separated by blank lines
func RenderBlocks(blocks []ast.Block) string {
	return joinRendered(blocks, "\n\n")
}

// RenderCompact writes blocks separated by single newlines, the layout of a
// chunk that came out of the detector without blank lines.
func RenderCompact(blocks []ast.Block) string {
	return joinRendered(blocks, "\n")
}

func joinRendered(blocks []ast.Block, sep string) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		parts = append(parts, RenderBlock(b))
	}
	return strings.Join(parts, sep)
}

// RenderBlock writes a single block. Unknown block types render as "".
func RenderBlock(b ast.Block) string {
	switch v := b.(type) {
	case ast.Paragraph:
		return RenderInlines(v.Content)
	case ast.Heading:
		return strings.Repeat("#", v.Level) + " " + RenderInlines(v.Content)
	case ast.ImageBlock:
		return "![" + v.AltText + "](" + v.Src + ")"
	case ast.CodeBlock:
		if v.Content == "" {
			return fence + v.Language + "\n" + fence
		}
		return fence + v.Language + "\n" + v.Content + "\n" + fence
	case ast.MathBlock:
		return mathDelim + "\n" + v.Content + "\n" + mathDelim
	case ast.HorizontalRule:
		return "---"
	case ast.AttachmentBlock:
		return "[" + v.Attachment.Name + "](" + v.Attachment.Src + ")"
	case ast.Quote:
		return prefixLines(RenderBlocks(v.Blocks), "> ", ">")
	case ast.List:
		return renderList(v)
	case ast.Table:
		return renderTable(v)
	case ast.Div:
		return RenderBlocks(v.Children)
	case ast.DefinitionList:
		return renderDefinitionList(v)
	case ast.FootnoteDefinition:
		return renderFootnote(v)
	}
	return ""
}

// prefixLines prefixes every line of s; empty lines get bare instead
func prefixLines(s, prefix, bare string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = bare
		} else {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

func listMarkerFor(style ast.ListStyle, n int) string {
	if !style.Ordered {
		bullet := style.Bullet
		if bullet == 0 {
			bullet = '-'
		}
		return string(bullet) + " "
	}
	switch style.Numbering.Style {
	case ast.Paren:
		return fmt.Sprintf("%d) ", n)
	case ast.ZeroPadded:
		return fmt.Sprintf("%02d. ", n)
	default:
		return fmt.Sprintf("%d. ", n)
	}
}

func renderList(l ast.List) string {
	var sb strings.Builder
	for i, item := range l.Items {
		if i > 0 {
			sb.WriteByte('\n')
		}
		marker := listMarkerFor(l.Style, i+1)
		rest := item
		if len(item) > 0 {
			if p, ok := item[0].(ast.Paragraph); ok {
				first := strings.Split(RenderInlines(p.Content), "\n")
				sb.WriteString(marker + first[0])
				for _, line := range first[1:] {
					sb.WriteString("\n  " + line)
				}
				rest = item[1:]
			} else {
				sb.WriteString(strings.TrimRight(marker, " "))
			}
		} else {
			sb.WriteString(strings.TrimRight(marker, " "))
		}
		if len(rest) > 0 {
			sb.WriteByte('\n')
			sb.WriteString(prefixLines(RenderCompact(rest), "  ", ""))
		}
	}
	return sb.String()
}

func alignmentCell(a ast.Alignment) string {
	switch a {
	case ast.AlignLeft:
		return ":---"
	case ast.AlignCenter:
		return ":---:"
	case ast.AlignRight:
		return "---:"
	default:
		return "---"
	}
}

func renderRow(cells [][]ast.Inline) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = RenderInlines(cell)
	}
	return "| " + strings.Join(parts, " | ") + " |"
}

func renderTable(t ast.Table) string {
	lines := []string{renderRow(t.Headers)}
	seps := make([]string, len(t.Headers))
	for i := range seps {
		a := ast.AlignNone
		if i < len(t.Alignments) {
			a = t.Alignments[i]
		}
		seps[i] = alignmentCell(a)
	}
	lines = append(lines, "| "+strings.Join(seps, " | ")+" |")
	for _, row := range t.Rows {
		lines = append(lines, renderRow(row))
	}
	if len(t.Caption) > 0 {
		lines = append(lines, "", "Table: "+RenderInlines(t.Caption))
	}
	return strings.Join(lines, "\n")
}

func renderDefinitionList(d ast.DefinitionList) string {
	var parts []string
	for _, item := range d.Items {
		lines := []string{RenderInlines(item.Term)}
		for _, def := range item.Definitions {
			lines = append(lines, prefixLines(RenderCompact(def), ": ", ":"))
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}
	return strings.Join(parts, "\n\n")
}

// renderFootnote keeps the body free of blank lines so the definition stays
// one chunk, as list items do.
func renderFootnote(f ast.FootnoteDefinition) string {
	body := RenderCompact(f.Content)
	lines := strings.Split(body, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = "    " + lines[i]
		}
	}
	return "[^" + f.Label + "]: " + strings.Join(lines, "\n")
}
