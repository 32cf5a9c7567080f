// Package format reads and writes whole notes as markdown or org files and
// extracts the tags and links used for indexing.
package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/gerunddev/hybridnote/ast"
)

// ErrUnknownFormat is returned when no format matches a name or extension
var ErrUnknownFormat = errors.New("unknown note format")

// NoteSerialization converts between note files and notes
type NoteSerialization interface {
	Deserialize(data []byte, idHint string) (ast.Note, error)
	Serialize(note ast.Note) ([]byte, error)
}

// NoteMetadata extracts indexing data from notes
type NoteMetadata interface {
	ExtractTags(content string) []string
	ExtractLinks(note ast.Note, attachments []ast.Attachment) []ast.LinkTarget
}

// Format is a complete note format
type Format interface {
	NoteSerialization
	NoteMetadata
	Name() string
	Extension() string
}

// ByName returns the format called name ("markdown", "md" or "org")
func ByName(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "markdown", "md":
		return NewMarkdown(), nil
	case "org", "org-mode":
		return NewOrg(nil), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// ForPath picks the format from a file extension
func ForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return NewMarkdown(), nil
	case ".org":
		return NewOrg(nil), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// FileStem returns the file name of path without directories or extension.
// Both slash styles are accepted.
func FileStem(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		path = path[i+1:]
	}
	if i := strings.LastIndexByte(path, '.'); i > 0 {
		path = path[:i]
	}
	return path
}

// noteID picks the ID from the hint's stem, then the note's own ID, then a
// fresh UUID.
func noteID(idHint, embedded string) string {
	if idHint != "" {
		return FileStem(idHint)
	}
	if embedded != "" {
		return embedded
	}
	return uuid.NewString()
}

// collectLinks walks blocks and classifies every link and image. Images
// only count when they are known attachments.
func collectLinks(blocks []ast.Block, isAttachment func(string) bool) []ast.LinkTarget {
	var links []ast.LinkTarget
	visit := func(in ast.Inline) {
		switch v := in.(type) {
		case ast.Link:
			if isAttachment(v.Target) {
				links = append(links, ast.AttachmentLink(v.Target))
			} else {
				links = append(links, ast.NoteLink(v.Target))
			}
		case ast.Image:
			if isAttachment(v.Src) {
				links = append(links, ast.AttachmentLink(v.Src))
			}
		}
	}

	ast.Walk(blocks, func(b ast.Block) bool {
		switch v := b.(type) {
		case ast.ImageBlock:
			if isAttachment(v.Src) {
				links = append(links, ast.AttachmentLink(v.Src))
			}
		case ast.AttachmentBlock:
			links = append(links, ast.AttachmentLink(v.Attachment.Src))
		default:
			ast.WalkInlines(ast.Inlines(b), visit)
		}
		return true
	})
	return links
}

func attachmentSet(attachments []ast.Attachment) func(string) bool {
	srcs := make(map[string]struct{}, len(attachments))
	for _, a := range attachments {
		srcs[a.Src] = struct{}{}
	}
	return func(target string) bool {
		_, ok := srcs[target]
		return ok
	}
}

func appendUnique(list []string, seen map[string]struct{}, items ...string) []string {
	for _, item := range items {
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		list = append(list, item)
	}
	return list
}
