package markdown

import (
	"strings"

	"github.com/gerunddev/hybridnote/ast"
)

// specialChars stop a plain-text run
const specialChars = "*~`!$[\n"

// ParseInlines tokenizes span-level markdown. Unmatched delimiters are kept
// as literal text.
func ParseInlines(s string) []ast.Inline {
	return ast.MergeText(parseInlines(s))
}

func parseInlines(s string) []ast.Inline {
	var out []ast.Inline
	i := 0
	for i < len(s) {
		var (
			node ast.Inline
			n    int
		)
		switch s[i] {
		case '*':
			node, n = parseEmphasis(s[i:])
		case '~':
			node, n = parseStrikethrough(s[i:])
		case '`':
			node, n = parseCodeSpan(s[i:])
		case '!':
			node, n = parseInlineImage(s[i:])
		case '$':
			node, n = parseInlineMath(s[i:])
		case '[':
			node, n = parseBracket(s[i:])
		case '\n':
			out = appendNewline(out)
			i++
			continue
		default:
			end := strings.IndexAny(s[i:], specialChars)
			if end < 0 {
				end = len(s) - i
			}
			out = append(out, ast.Text{Text: s[i : i+end]})
			i += end
			continue
		}

		if n == 0 {
			out = append(out, ast.Text{Text: s[i : i+1]})
			i++
			continue
		}
		out = append(out, node)
		i += n
	}
	return out
}

// appendNewline turns two trailing spaces before a newline into a hard break
func appendNewline(out []ast.Inline) []ast.Inline {
	if n := len(out); n > 0 {
		if t, ok := out[n-1].(ast.Text); ok && strings.HasSuffix(t.Text, "  ") {
			out[n-1] = ast.Text{Text: strings.TrimRight(t.Text, " ")}
			return append(out, ast.LineBreak{})
		}
	}
	return append(out, ast.Text{Text: "\n"})
}

func parseEmphasis(s string) (ast.Inline, int) {
	if strings.HasPrefix(s, "**") {
		end := strings.Index(s[2:], "**")
		if end <= 0 {
			return nil, 0
		}
		return ast.Bold{Content: ParseInlines(s[2 : 2+end])}, end + 4
	}

	if len(s) < 2 || s[1] == ' ' || s[1] == '\t' || s[1] == '\n' {
		return nil, 0
	}
	for j := 1; j < len(s); j++ {
		if s[j] != '*' {
			continue
		}
		if j+1 < len(s) && s[j+1] == '*' {
			j++
			continue
		}
		return ast.Italic{Content: ParseInlines(s[1:j])}, j + 1
	}
	return nil, 0
}

func parseStrikethrough(s string) (ast.Inline, int) {
	if !strings.HasPrefix(s, "~~") {
		return nil, 0
	}
	end := strings.Index(s[2:], "~~")
	if end <= 0 {
		return nil, 0
	}
	return ast.Strikethrough{Content: ParseInlines(s[2 : 2+end])}, end + 4
}

func parseCodeSpan(s string) (ast.Inline, int) {
	end := strings.IndexByte(s[1:], '`')
	if end <= 0 {
		return nil, 0
	}
	return ast.Code{Code: s[1 : 1+end]}, end + 2
}

func parseInlineImage(s string) (ast.Inline, int) {
	if len(s) < 2 || s[1] != '[' {
		return nil, 0
	}
	alt, src, n, ok := splitBracketTarget(s[1:])
	if !ok {
		return nil, 0
	}
	return ast.Image{AltText: alt, Src: src}, n + 1
}

func parseInlineMath(s string) (ast.Inline, int) {
	if strings.HasPrefix(s, "$$") {
		end := strings.Index(s[2:], "$$")
		if end <= 0 {
			return nil, 0
		}
		return ast.Math{Content: strings.TrimSpace(s[2 : 2+end])}, end + 4
	}
	end := strings.IndexByte(s[1:], '$')
	if end <= 0 {
		return nil, 0
	}
	return ast.Math{Content: s[1 : 1+end]}, end + 2
}

// parseBracket handles [[wiki]] links, [^footnote] references and [text](target) links
func parseBracket(s string) (ast.Inline, int) {
	if strings.HasPrefix(s, "[[") {
		end := strings.Index(s[2:], "]]")
		if end <= 0 {
			return nil, 0
		}
		inner := s[2 : 2+end]
		target, text := inner, inner
		if pipe := strings.IndexByte(inner, '|'); pipe >= 0 {
			target, text = inner[:pipe], inner[pipe+1:]
		}
		return ast.Link{Text: ast.Texts(text), Target: target, Wiki: true}, end + 4
	}

	if strings.HasPrefix(s, "[^") {
		end := strings.IndexByte(s, ']')
		label := ""
		if end > 2 {
			label = s[2:end]
		}
		if label != "" && !strings.ContainsAny(label, " \t\n") {
			return ast.FootnoteReference{Label: label}, end + 1
		}
	}

	text, target, n, ok := splitBracketTarget(s)
	if !ok {
		return nil, 0
	}
	return ast.Link{Text: ParseInlines(text), Target: target}, n
}

// splitBracketTarget parses "[text](target)" at the start of s and returns
// the bracket text, the target and the number of bytes consumed.
func splitBracketTarget(s string) (text, target string, n int, ok bool) {
	depth := 0
	closeIdx := -1
	for j := 0; j < len(s) && closeIdx < 0; j++ {
		switch s[j] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				closeIdx = j
			}
		case '\n':
			return "", "", 0, false
		}
	}
	if closeIdx < 0 || closeIdx+1 >= len(s) || s[closeIdx+1] != '(' {
		return "", "", 0, false
	}
	end := strings.IndexByte(s[closeIdx+2:], ')')
	if end < 0 {
		return "", "", 0, false
	}
	target = strings.TrimSpace(s[closeIdx+2 : closeIdx+2+end])
	if strings.ContainsAny(target, "\n") {
		return "", "", 0, false
	}
	return s[1:closeIdx], target, closeIdx + 3 + end, true
}

// RenderInlines writes inline content back to markdown
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
		return "**" + RenderInlines(v.Content) + "**"
	case ast.Italic:
		return "*" + RenderInlines(v.Content) + "*"
	case ast.Strikethrough:
		return "~~" + RenderInlines(v.Content) + "~~"
	case ast.Link:
		if v.Wiki {
			text := ast.PlainText(v.Text)
			if text == "" || text == v.Target {
				return "[[" + v.Target + "]]"
			}
			return "[[" + v.Target + "|" + text + "]]"
		}
		return "[" + RenderInlines(v.Text) + "](" + v.Target + ")"
	case ast.Image:
		return "![" + v.AltText + "](" + v.Src + ")"
	case ast.Code:
		return "`" + v.Code + "`"
	case ast.Math:
		return "$" + v.Content + "$"
	case ast.LineBreak:
		return "  \n"
	case ast.Superscript:
		return "^" + RenderInlines(v.Content)
	case ast.Subscript:
		return "_" + RenderInlines(v.Content)
	case ast.FootnoteReference:
		return "[^" + v.Label + "]"
	}
	return ""
}
