package ast

// Note is a titled block sequence, the unit read and written by note formats.
type Note struct {
	ID     string
	Title  string
	Blocks []Block
}

// AttachmentType classifies an attachment by its file extension
type AttachmentType int

const (
	AttachmentOther AttachmentType = iota
	AttachmentImage
	AttachmentAudio
	AttachmentVideo
	AttachmentDocument
)

func (t AttachmentType) String() string {
	switch t {
	case AttachmentImage:
		return "image"
	case AttachmentAudio:
		return "audio"
	case AttachmentVideo:
		return "video"
	case AttachmentDocument:
		return "document"
	default:
		return "other"
	}
}

// Attachment is a file referenced from a note.
// Mime carries the raw extension (or "unknown") for AttachmentOther.
type Attachment struct {
	Name string
	Src  string
	Type AttachmentType
	Mime string
}

// MimeType returns a representative MIME type for the attachment
func (a Attachment) MimeType() string {
	switch a.Type {
	case AttachmentImage:
		return "image/png"
	case AttachmentAudio:
		return "audio/mpeg"
	case AttachmentVideo:
		return "video/mp4"
	case AttachmentDocument:
		return "application/pdf"
	default:
		return a.Mime
	}
}

// LinkKind says whether a link resolves to a note or an attachment
type LinkKind int

const (
	LinkNote LinkKind = iota
	LinkAttachment
)

// LinkTarget is an outgoing reference found in a note
type LinkTarget struct {
	Kind   LinkKind
	Target string
}

// NoteLink returns a link target pointing at another note
func NoteLink(target string) LinkTarget {
	return LinkTarget{Kind: LinkNote, Target: target}
}

// AttachmentLink returns a link target pointing at an attachment
func AttachmentLink(src string) LinkTarget {
	return LinkTarget{Kind: LinkAttachment, Target: src}
}
