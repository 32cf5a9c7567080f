// Package diff shows what parsing and conversion change in a document.
package diff

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/gerunddev/hybridnote/convert"
	"github.com/gerunddev/hybridnote/format"
	"github.com/gerunddev/hybridnote/parser"
)

// Format represents the output format for diffs
type Format int

const (
	// FormatPlain returns the unified diff as-is
	FormatPlain Format = iota
	// FormatRendered renders the diff with glamour for terminal output
	FormatRendered
)

// Unified returns the unified diff turning before into after. Identical
// inputs give an empty string.
func Unified(fromName, toName, before, after string) string {
	before, after = withNewline(before), withNewline(after)
	if before == after {
		return ""
	}
	edits := myers.ComputeEdits(span.URIFromPath(fromName), before, after)
	return fmt.Sprint(gotextdiff.ToUnified(fromName, toName, before, edits))
}

// RoundTrip parses content with m and diffs it against the rendered
// document. The manager keeps the parsed blocks.
func RoundTrip(name, content string, m *parser.Manager) (string, error) {
	if err := m.ParseDocument(content); err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", name, err)
	}
	base := filepath.Base(name)
	return Unified(base, base+" (rendered)", content, m.RenderDocument()), nil
}

// Conversion converts content to the other note dialect and back, and diffs
// the result against the original. src selects the dialect content is in.
func Conversion(name, content string, src format.Format, idMap map[string]string) (string, error) {
	var back string
	switch src.Name() {
	case "markdown":
		org, err := convert.MarkdownToOrg(content, idMap)
		if err != nil {
			return "", fmt.Errorf("failed to convert markdown to org: %w", err)
		}
		back, err = convert.OrgToMarkdown(org, idMap)
		if err != nil {
			return "", fmt.Errorf("failed to convert org to markdown: %w", err)
		}
	case "org":
		md, err := convert.OrgToMarkdown(content, idMap)
		if err != nil {
			return "", fmt.Errorf("failed to convert org to markdown: %w", err)
		}
		back, err = convert.MarkdownToOrg(md, idMap)
		if err != nil {
			return "", fmt.Errorf("failed to convert markdown to org: %w", err)
		}
	default:
		return "", fmt.Errorf("unsupported diff format: %s", src.Name())
	}

	base := filepath.Base(name)
	return Unified(base, base+" (converted)", content, back), nil
}

// Render formats a unified diff for output. Rendering failures fall back
// to the fenced plain diff.
func Render(unified string, f Format, width int) string {
	if f == FormatPlain || unified == "" {
		return unified
	}

	// Wrap in diff code fence for syntax highlighting (+ in green, - in red)
	diffMarkdown := fmt.Sprintf("```diff\n%s```\n", unified)

	options := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		options = append(options, glamour.WithWordWrap(width))
	}
	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return diffMarkdown
	}
	rendered, err := renderer.Render(diffMarkdown)
	if err != nil {
		return diffMarkdown
	}
	return rendered
}

func withNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
