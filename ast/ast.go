// Package ast defines the block and inline tree shared by every parser,
// renderer and note format in hybridnote.
package ast

// Inline is span-level content inside a block.
type Inline interface {
	inline()
}

// Text is a run of literal characters
type Text struct {
	Text string
}

// Bold is **strong** emphasis
type Bold struct {
	Content []Inline
}

// Italic is *emphasis*
type Italic struct {
	Content []Inline
}

// Strikethrough is ~~deleted~~ text
type Strikethrough struct {
	Content []Inline
}

// Link points at a URL, a note or an attachment.
// Wiki is set for [[target]] style links so renderers can keep that form.
type Link struct {
	Text   []Inline
	Target string
	Wiki   bool
}

// Image is an inline image. AltText is empty when absent.
type Image struct {
	AltText string
	Src     string
}

// Code is a `code span`
type Code struct {
	Code string
}

// Math is inline $math$
type Math struct {
	Content string
}

// LineBreak is a hard line break
type LineBreak struct{}

// Superscript is raised text
type Superscript struct {
	Content []Inline
}

// Subscript is lowered text
type Subscript struct {
	Content []Inline
}

// FootnoteReference is a [^label] reference
type FootnoteReference struct {
	Label string
}

func (Text) inline()              {}
func (Bold) inline()              {}
func (Italic) inline()            {}
func (Strikethrough) inline()     {}
func (Link) inline()              {}
func (Image) inline()             {}
func (Code) inline()              {}
func (Math) inline()              {}
func (LineBreak) inline()         {}
func (Superscript) inline()       {}
func (Subscript) inline()         {}
func (FootnoteReference) inline() {}

// Block is a block-level node. Every Block is either a Leaf, a Container,
// a DefinitionList or a FootnoteDefinition.
type Block interface {
	block()
}

// Leaf is a block that holds no nested blocks.
type Leaf interface {
	Block
	leaf()
}

// Container is a block that owns nested blocks.
type Container interface {
	Block
	container()
}

// Paragraph is a run of inline content
type Paragraph struct {
	Content []Inline
}

// Heading is a section heading, Level 1 through 6
type Heading struct {
	Level   int
	Content []Inline
}

// ImageBlock is an image standing on its own line
type ImageBlock struct {
	AltText string
	Src     string
}

// CodeBlock is fenced or #+BEGIN_SRC code. Language is empty when unknown.
type CodeBlock struct {
	Language string
	Content  string
}

// MathBlock is display math
type MathBlock struct {
	Content string
}

// HorizontalRule is a thematic break
type HorizontalRule struct{}

// AttachmentBlock embeds a file attachment
type AttachmentBlock struct {
	Attachment Attachment
}

// Quote is a block quote
type Quote struct {
	Blocks []Block
}

// List is an ordered or unordered list. Each item is its own block sequence.
type List struct {
	Style ListStyle
	Items [][]Block
}

// Table is a pipe table. Alignments and Caption are nil when absent.
type Table struct {
	Headers    [][]Inline
	Rows       [][][]Inline
	Alignments []Alignment
	Caption    []Inline
}

// Div is a generic container carrying classes and attributes
type Div struct {
	Classes    []string
	Attributes []Attribute
	Children   []Block
}

// DefinitionList is a list of terms with their definitions
type DefinitionList struct {
	Items []DefinitionItem
}

// FootnoteDefinition is the body of a footnote
type FootnoteDefinition struct {
	Label   string
	Content []Block
}

func (Paragraph) block()          {}
func (Heading) block()            {}
func (ImageBlock) block()         {}
func (CodeBlock) block()          {}
func (MathBlock) block()          {}
func (HorizontalRule) block()     {}
func (AttachmentBlock) block()    {}
func (Quote) block()              {}
func (List) block()               {}
func (Table) block()              {}
func (Div) block()                {}
func (DefinitionList) block()     {}
func (FootnoteDefinition) block() {}

func (Paragraph) leaf()       {}
func (Heading) leaf()         {}
func (ImageBlock) leaf()      {}
func (CodeBlock) leaf()       {}
func (MathBlock) leaf()       {}
func (HorizontalRule) leaf()  {}
func (AttachmentBlock) leaf() {}

func (Quote) container() {}
func (List) container()  {}
func (Table) container() {}
func (Div) container()   {}

// Attribute is a key/value pair on a Div
type Attribute struct {
	Key   string
	Value string
}

// DefinitionItem is one term of a DefinitionList
type DefinitionItem struct {
	Term        []Inline
	Definitions [][]Block
}

// Alignment of a table column. AlignNone means the source gave no alignment.
type Alignment int

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// NumberingType is the counter used by an ordered list
type NumberingType int

const (
	Decimal NumberingType = iota
	LowerAlpha
	UpperAlpha
	LowerRoman
	UpperRoman
)

// NumberingStyle is the punctuation after an ordered list counter
type NumberingStyle int

const (
	Dot NumberingStyle = iota
	Paren
	ZeroPadded
)

// Numbering describes how an ordered list is counted
type Numbering struct {
	Type  NumberingType
	Style NumberingStyle
}

// ListStyle is either unordered with a bullet character or ordered with a numbering.
type ListStyle struct {
	Ordered   bool
	Bullet    byte
	Numbering Numbering
}

// Unordered returns a bullet list style
func Unordered(bullet byte) ListStyle {
	return ListStyle{Bullet: bullet}
}

// Ordered returns a numbered list style
func Ordered(n Numbering) ListStyle {
	return ListStyle{Ordered: true, Numbering: n}
}
