package org

import (
	"fmt"
	"strings"

	"github.com/gerunddev/hybridnote/ast"
)

// RenderBlocks writes blocks as org text, separated by blank lines
func RenderBlocks(blocks []ast.Block) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		parts = append(parts, RenderBlock(b))
	}
	return strings.Join(parts, "\n\n")
}

// RenderBlock writes a single block as org text. Unknown blocks render as "".
func RenderBlock(b ast.Block) string {
	switch v := b.(type) {
	case ast.Paragraph:
		return RenderInlines(v.Content)
	case ast.Heading:
		return strings.Repeat("*", v.Level) + " " + RenderInlines(v.Content)
	case ast.ImageBlock:
		if v.AltText != "" {
			return "#+CAPTION: " + v.AltText + "\n[[" + v.Src + "]]"
		}
		return "[[" + v.Src + "]]"
	case ast.CodeBlock:
		return RenderSource(v.Language, v.Content)
	case ast.MathBlock:
		return "\\[\n" + v.Content + "\n\\]"
	case ast.HorizontalRule:
		return "-----"
	case ast.AttachmentBlock:
		return "[[" + v.Attachment.Src + "][" + v.Attachment.Name + "]]"
	case ast.Quote:
		return "#+BEGIN_QUOTE\n" + RenderBlocks(v.Blocks) + "\n#+END_QUOTE"
	case ast.List:
		return renderList(v)
	case ast.Table:
		return renderTable(v)
	case ast.Div:
		return renderDiv(v)
	case ast.DefinitionList:
		var lines []string
		for _, item := range v.Items {
			var defs []string
			for _, def := range item.Definitions {
				defs = append(defs, RenderBlocks(def))
			}
			lines = append(lines, "- "+RenderInlines(item.Term)+" :: "+strings.Join(defs, " "))
		}
		return strings.Join(lines, "\n")
	case ast.FootnoteDefinition:
		return "[fn:" + v.Label + "] " + RenderBlocks(v.Content)
	}
	return ""
}

// RenderSource writes a #+BEGIN_SRC block
func RenderSource(language, content string) string {
	begin := "#+BEGIN_SRC"
	if language != "" {
		begin += " " + language
	}
	if content == "" {
		return begin + "\n#+END_SRC"
	}
	return begin + "\n" + content + "\n#+END_SRC"
}

func renderDiv(d ast.Div) string {
	if len(d.Classes) == 0 {
		return RenderBlocks(d.Children)
	}
	blockType := strings.ToUpper(d.Classes[0])
	begin := "#+BEGIN_" + blockType
	for _, attr := range d.Attributes {
		if attr.Key == "params" {
			begin += " " + attr.Value
		}
	}

	body := RenderBlocks(d.Children)
	if len(d.Children) == 1 {
		if code, ok := d.Children[0].(ast.CodeBlock); ok && code.Language == "" {
			body = code.Content
		}
	}
	if body == "" {
		return begin + "\n#+END_" + blockType
	}
	return begin + "\n" + body + "\n#+END_" + blockType
}

func renderList(l ast.List) string {
	var sb strings.Builder
	for i, item := range l.Items {
		if i > 0 {
			sb.WriteByte('\n')
		}
		marker := "- "
		switch {
		case l.Style.Ordered && l.Style.Numbering.Style == ast.Paren:
			marker = fmt.Sprintf("%d) ", i+1)
		case l.Style.Ordered:
			marker = fmt.Sprintf("%d. ", i+1)
		case l.Style.Bullet == '+':
			marker = "+ "
		}

		rest := item
		if len(item) > 0 {
			if p, ok := item[0].(ast.Paragraph); ok {
				lines := strings.Split(RenderInlines(p.Content), "\n")
				sb.WriteString(marker + lines[0])
				for _, line := range lines[1:] {
					sb.WriteString("\n  " + line)
				}
				rest = item[1:]
			} else {
				sb.WriteString(strings.TrimRight(marker, " "))
			}
		} else {
			sb.WriteString(strings.TrimRight(marker, " "))
		}
		for _, b := range rest {
			for _, line := range strings.Split(RenderBlock(b), "\n") {
				sb.WriteString("\n")
				if line != "" {
					sb.WriteString("  " + line)
				}
			}
		}
	}
	return sb.String()
}

func renderTable(t ast.Table) string {
	row := func(cells [][]ast.Inline) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = RenderInlines(cell)
		}
		return "| " + strings.Join(parts, " | ") + " |"
	}

	lines := []string{row(t.Headers)}
	if len(t.Headers) > 0 {
		rule := make([]string, len(t.Headers))
		for i := range rule {
			rule[i] = "---"
		}
		lines = append(lines, "|"+strings.Join(rule, "+")+"|")
	}
	for _, r := range t.Rows {
		lines = append(lines, row(r))
	}
	return strings.Join(lines, "\n")
}
