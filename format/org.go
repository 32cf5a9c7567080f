package format

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gerunddev/hybridnote/ast"
	"github.com/gerunddev/hybridnote/org"
)

// Org reads and writes org notes
type Org struct {
	keywords []string
}

// NewOrg creates the org format recognizing the given TODO keywords; nil
// means TODO and DONE.
func NewOrg(todoKeywords []string) *Org {
	return &Org{keywords: todoKeywords}
}

// Name implements Format
func (f *Org) Name() string { return "org" }

// Extension implements Format
func (f *Org) Extension() string { return ".org" }

// Deserialize parses a whole org file and lowers its outline into blocks.
// The title is #+TITLE, else the first heading, else "Untitled".
func (f *Org) Deserialize(data []byte, idHint string) (ast.Note, error) {
	if !utf8.Valid(data) {
		return ast.Note{}, fmt.Errorf("failed to read %q: not valid UTF-8", idHint)
	}
	doc := org.Parse(string(data), f.keywords)
	blocks := doc.Lower()

	title, ok := doc.Keyword("TITLE")
	if !ok || title == "" {
		title = firstHeadingTitle(blocks)
	}
	embedded, _ := doc.Property("ID")

	return ast.Note{
		ID:     noteID(idHint, embedded),
		Title:  title,
		Blocks: blocks,
	}, nil
}

func firstHeadingTitle(blocks []ast.Block) string {
	for _, b := range blocks {
		if h, ok := b.(ast.Heading); ok {
			return ast.PlainText(h.Content)
		}
	}
	return "Untitled"
}

// Serialize writes an :ID: drawer, a #+TITLE line and the blocks
func (f *Org) Serialize(note ast.Note) ([]byte, error) {
	var sb strings.Builder
	if note.ID != "" {
		sb.WriteString(org.RenderDrawer([]org.Property{{Key: "ID", Value: note.ID}}) + "\n")
	}
	if note.Title != "" {
		sb.WriteString("#+TITLE: " + note.Title + "\n")
	}
	if len(note.Blocks) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(org.RenderBlocks(note.Blocks) + "\n")
	}
	return []byte(sb.String()), nil
}

// ExtractTags returns #+FILETAGS followed by headline tags
func (f *Org) ExtractTags(content string) []string {
	return org.Parse(content, f.keywords).Tags()
}

// ExtractLinks lists the note's outgoing links. id: links name notes by
// ID and file: links are attachments.
func (f *Org) ExtractLinks(note ast.Note, attachments []ast.Attachment) []ast.LinkTarget {
	known := attachmentSet(attachments)
	links := collectLinks(note.Blocks, func(target string) bool {
		return known(target) || strings.HasPrefix(target, "file:") || isEmbeddable(target)
	})
	for i, l := range links {
		switch {
		case l.Kind == ast.LinkNote:
			links[i].Target = strings.TrimPrefix(l.Target, "id:")
		default:
			links[i].Target = strings.TrimPrefix(l.Target, "file:")
		}
	}
	return links
}
