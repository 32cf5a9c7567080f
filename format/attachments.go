package format

import (
	"slices"
	"strings"

	"github.com/gerunddev/hybridnote/ast"
)

var (
	imageExtensions    = []string{"png", "jpg", "jpeg", "gif", "bmp", "webp", "svg"}
	audioExtensions    = []string{"mp3", "wav", "ogg", "flac"}
	videoExtensions    = []string{"mp4", "mkv", "mov", "avi"}
	documentExtensions = []string{"pdf", "doc", "docx", "txt", "md"}
)

// NewAttachment describes the file at path, classified by extension
func NewAttachment(path string) ast.Attachment {
	name := path
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		name = path[i+1:]
	}

	a := ast.Attachment{Name: name, Src: path}
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		a.Mime = "unknown"
		return a
	}
	ext := strings.ToLower(name[i+1:])
	switch {
	case slices.Contains(imageExtensions, ext):
		a.Type = ast.AttachmentImage
	case slices.Contains(audioExtensions, ext):
		a.Type = ast.AttachmentAudio
	case slices.Contains(videoExtensions, ext):
		a.Type = ast.AttachmentVideo
	case slices.Contains(documentExtensions, ext):
		a.Type = ast.AttachmentDocument
	default:
		a.Mime = ext
	}
	return a
}

// isEmbeddable reports whether a wiki link target names a media file
// rather than another note
func isEmbeddable(target string) bool {
	a := NewAttachment(target)
	return a.Type == ast.AttachmentImage || a.Type == ast.AttachmentAudio || a.Type == ast.AttachmentVideo
}

// ExtractAttachments lists the files a block tree references: image
// blocks, attachment blocks, inline images and wiki links to media files.
func ExtractAttachments(blocks []ast.Block) []ast.Attachment {
	var out []ast.Attachment
	seen := make(map[string]struct{})
	add := func(a ast.Attachment) {
		if _, ok := seen[a.Src]; ok {
			return
		}
		seen[a.Src] = struct{}{}
		out = append(out, a)
	}

	ast.Walk(blocks, func(b ast.Block) bool {
		switch v := b.(type) {
		case ast.ImageBlock:
			add(NewAttachment(v.Src))
		case ast.AttachmentBlock:
			add(v.Attachment)
		default:
			ast.WalkInlines(ast.Inlines(b), func(in ast.Inline) {
				switch v := in.(type) {
				case ast.Image:
					add(NewAttachment(v.Src))
				case ast.Link:
					if v.Wiki && isEmbeddable(v.Target) {
						add(NewAttachment(v.Target))
					}
				}
			})
		}
		return true
	})
	return out
}
