// Package convert translates notes between Obsidian-style markdown and
// org-roam. Both directions parse into the shared block tree, rewrite links,
// tasks and callouts there, and render with the target grammar.
package convert

import (
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/gerunddev/hybridnote/ast"
)

// ErrInvalidUTF8 is returned for input that is not valid UTF-8
var ErrInvalidUTF8 = errors.New("content is not valid UTF-8")

// calloutTypes are the Obsidian callouts that map to org special blocks.
// "quote" and "cite" are plain block quotes on both sides.
var calloutTypes = map[string]bool{
	"note": true, "abstract": true, "summary": true, "tldr": true,
	"info": true, "todo": true, "tip": true, "hint": true, "important": true,
	"success": true, "check": true, "done": true,
	"question": true, "help": true, "faq": true,
	"warning": true, "caution": true, "attention": true,
	"failure": true, "fail": true, "missing": true,
	"danger": true, "error": true, "bug": true,
	"example": true,
}

var (
	planningRegexp = regexp.MustCompile(`(SCHEDULED|DEADLINE|CLOSED):\s*[<\[](\d{4}-\d{2}-\d{2})[^>\]]*[>\]]`)
	priorityRegexp = regexp.MustCompile(`^\[#([ABC])\]\s*`)
	aliasRegexp    = regexp.MustCompile(`"([^"]+)"`)
)

// Task metadata markers used by the Obsidian Tasks plugin
const (
	scheduledMarker = "⏳ "
	deadlineMarker  = "📅 "
	closedMarker    = "✅ "
	priorityMarker  = "Priority: "
)

var priorityNames = map[string]string{"A": "high", "B": "medium", "C": "low"}

// GenerateOrgID returns a new org-roam ID
func GenerateOrgID() string {
	return uuid.New().String()
}

// isUUID reports whether s is a canonical, dashed UUID
func isUUID(s string) bool {
	return len(s) == 36 && uuid.Validate(s) == nil
}

// reverseIDMap turns an ID -> note name map into name -> ID
func reverseIDMap(idMap map[string]string) map[string]string {
	names := make(map[string]string, len(idMap))
	for id, name := range idMap {
		names[name] = id
	}
	return names
}

// parseOrgAliases parses a ROAM_ALIASES value: "alias one" "alias two"
func parseOrgAliases(s string) []string {
	var aliases []string
	for _, m := range aliasRegexp.FindAllStringSubmatch(s, -1) {
		aliases = append(aliases, m[1])
	}
	return aliases
}

// parseOrgTags parses :tag1:tag2: into its tags
func parseOrgTags(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ':' || r == ' ' })
}

// inlineFunc rewrites one run of inline content
type inlineFunc func([]ast.Inline) []ast.Inline

// rewriteBlocks applies fn to every inline run in blocks, descending into
// containers. Blocks are values, so the input is left untouched.
func rewriteBlocks(blocks []ast.Block, fn inlineFunc) []ast.Block {
	if blocks == nil {
		return nil
	}
	out := make([]ast.Block, len(blocks))
	for i, b := range blocks {
		out[i] = rewriteBlock(b, fn)
	}
	return out
}

func rewriteBlock(b ast.Block, fn inlineFunc) ast.Block {
	switch v := b.(type) {
	case ast.Paragraph:
		v.Content = fn(v.Content)
		return v
	case ast.Heading:
		v.Content = fn(v.Content)
		return v
	case ast.Quote:
		v.Blocks = rewriteBlocks(v.Blocks, fn)
		return v
	case ast.Div:
		v.Children = rewriteBlocks(v.Children, fn)
		return v
	case ast.FootnoteDefinition:
		v.Content = rewriteBlocks(v.Content, fn)
		return v
	case ast.List:
		items := make([][]ast.Block, len(v.Items))
		for i, item := range v.Items {
			items[i] = rewriteBlocks(item, fn)
		}
		v.Items = items
		return v
	case ast.Table:
		v.Headers = rewriteCells(v.Headers, fn)
		rows := make([][][]ast.Inline, len(v.Rows))
		for i, row := range v.Rows {
			rows[i] = rewriteCells(row, fn)
		}
		v.Rows = rows
		return v
	case ast.DefinitionList:
		items := make([]ast.DefinitionItem, len(v.Items))
		for i, item := range v.Items {
			item.Term = fn(item.Term)
			defs := make([][]ast.Block, len(item.Definitions))
			for j, def := range item.Definitions {
				defs[j] = rewriteBlocks(def, fn)
			}
			item.Definitions = defs
			items[i] = item
		}
		v.Items = items
		return v
	}
	return b
}

func rewriteCells(cells [][]ast.Inline, fn inlineFunc) [][]ast.Inline {
	out := make([][]ast.Inline, len(cells))
	for i, cell := range cells {
		out[i] = fn(cell)
	}
	return out
}

// rewriteSpans applies fn to the content nested inside span inlines
func rewriteSpans(in ast.Inline, fn inlineFunc) ast.Inline {
	switch v := in.(type) {
	case ast.Bold:
		v.Content = fn(v.Content)
		return v
	case ast.Italic:
		v.Content = fn(v.Content)
		return v
	case ast.Strikethrough:
		v.Content = fn(v.Content)
		return v
	case ast.Superscript:
		v.Content = fn(v.Content)
		return v
	case ast.Subscript:
		v.Content = fn(v.Content)
		return v
	}
	return in
}

// cutTextPrefix removes prefix from the leading text of inlines
func cutTextPrefix(inlines []ast.Inline, prefix string) ([]ast.Inline, bool) {
	if len(inlines) == 0 {
		return inlines, false
	}
	t, ok := inlines[0].(ast.Text)
	if !ok || !strings.HasPrefix(t.Text, prefix) {
		return inlines, false
	}
	rest := strings.TrimLeft(t.Text[len(prefix):], " ")
	out := append([]ast.Inline(nil), inlines[1:]...)
	if rest != "" {
		out = append([]ast.Inline{ast.Text{Text: rest}}, out...)
	}
	return out, true
}
