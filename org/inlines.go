package org

import (
	"path"
	"slices"
	"strings"

	"github.com/gerunddev/hybridnote/ast"
)

const (
	emphasisPre  = " \t\n([{'\"-"
	emphasisPost = " \t\n.,;:!?)]}'\"-"
)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp", ".svg"}

// ParseInlines tokenizes org span markup: *bold*, /italic/, +strike+,
// ~code~, =verbatim=, [[links]], \(math\), ^{sup}, _{sub} and [fn:x].
func ParseInlines(s string) []ast.Inline {
	var (
		out  []ast.Inline
		text strings.Builder
	)
	flush := func() {
		if text.Len() > 0 {
			out = append(out, ast.Text{Text: text.String()})
			text.Reset()
		}
	}

	for i := 0; i < len(s); {
		node, n := parseInlineAt(s, i)
		if n == 0 {
			text.WriteByte(s[i])
			i++
			continue
		}
		flush()
		out = append(out, node)
		i += n
	}
	flush()
	return ast.MergeText(out)
}

func parseInlineAt(s string, i int) (ast.Inline, int) {
	switch s[i] {
	case '*', '/', '+', '~', '=':
		return parseEmphasis(s, i)
	case '[':
		return parseBracket(s[i:])
	case '\\':
		if strings.HasPrefix(s[i:], `\(`) {
			if end := strings.Index(s[i+2:], `\)`); end > 0 {
				return ast.Math{Content: strings.TrimSpace(s[i+2 : i+2+end])}, end + 4
			}
		}
	case '^', '_':
		if strings.HasPrefix(s[i+1:], "{") {
			if end := strings.IndexByte(s[i+2:], '}'); end > 0 {
				content := ParseInlines(s[i+2 : i+2+end])
				if s[i] == '^' {
					return ast.Superscript{Content: content}, end + 3
				}
				return ast.Subscript{Content: content}, end + 3
			}
		}
	}
	return nil, 0
}

func parseEmphasis(s string, i int) (ast.Inline, int) {
	marker := s[i]
	if i > 0 && !strings.ContainsRune(emphasisPre, rune(s[i-1])) {
		return nil, 0
	}
	if i+1 >= len(s) || strings.ContainsRune(" \t\n", rune(s[i+1])) {
		return nil, 0
	}
	for j := i + 2; j < len(s); j++ {
		if s[j] == '\n' && j+1 < len(s) && s[j+1] == '\n' {
			return nil, 0
		}
		if s[j] != marker || strings.ContainsRune(" \t\n", rune(s[j-1])) {
			continue
		}
		if j+1 < len(s) && !strings.ContainsRune(emphasisPost, rune(s[j+1])) {
			continue
		}
		inner := s[i+1 : j]
		n := j - i + 1
		switch marker {
		case '*':
			return ast.Bold{Content: ParseInlines(inner)}, n
		case '/':
			return ast.Italic{Content: ParseInlines(inner)}, n
		case '+':
			return ast.Strikethrough{Content: ParseInlines(inner)}, n
		default:
			return ast.Code{Code: inner}, n
		}
	}
	return nil, 0
}

func parseBracket(s string) (ast.Inline, int) {
	if strings.HasPrefix(s, "[fn:") {
		end := strings.IndexByte(s, ']')
		if end > 4 {
			return ast.FootnoteReference{Label: s[4:end]}, end + 1
		}
		return nil, 0
	}
	if !strings.HasPrefix(s, "[[") {
		return nil, 0
	}
	end := strings.Index(s, "]]")
	if end < 0 {
		return nil, 0
	}
	inner := s[2:end]
	target, desc, hasDesc := strings.Cut(inner, "][")
	if !hasDesc && IsImagePath(target) {
		return ast.Image{Src: target}, end + 2
	}
	text := ast.Texts(target)
	if hasDesc {
		text = ParseInlines(desc)
	}
	return ast.Link{Text: text, Target: target}, end + 2
}

// IsImagePath reports whether target names an image file
func IsImagePath(target string) bool {
	return slices.Contains(imageExtensions, strings.ToLower(path.Ext(target)))
}

// RenderInlines writes inline content as org markup
func RenderInlines(inlines []ast.Inline) string {
	var sb strings.Builder
	for _, in := range inlines {
		sb.WriteString(renderInline(in))
	}
	return sb.String()
}

func renderInline(in ast.Inline) string {
	switch v := in.(type) {
	case ast.Text:
		return v.Text
	case ast.Bold:
		return "*" + RenderInlines(v.Content) + "*"
	case ast.Italic:
		return "/" + RenderInlines(v.Content) + "/"
	case ast.Strikethrough:
		return "+" + RenderInlines(v.Content) + "+"
	case ast.Code:
		return "~" + v.Code + "~"
	case ast.Math:
		return `\(` + v.Content + `\)`
	case ast.Link:
		text := RenderInlines(v.Text)
		if text == "" || text == v.Target {
			return "[[" + v.Target + "]]"
		}
		return "[[" + v.Target + "][" + text + "]]"
	case ast.Image:
		return "[[" + v.Src + "]]"
	case ast.LineBreak:
		return "\\\\\n"
	case ast.Superscript:
		return "^{" + RenderInlines(v.Content) + "}"
	case ast.Subscript:
		return "_{" + RenderInlines(v.Content) + "}"
	case ast.FootnoteReference:
		return "[fn:" + v.Label + "]"
	}
	return ""
}
