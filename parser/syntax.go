// Package parser turns hybrid documents (markdown, org, LaTeX and fenced code
// mixed in one file) into editable blocks and renders them back to text.
package parser

import (
	"fmt"
	"strings"

	"github.com/gerunddev/hybridnote/ast"
)

// SyntaxKind is the dialect a block is written in
type SyntaxKind int

const (
	Markdown SyntaxKind = iota
	Org
	LaTeX
	Code
	Custom
)

// Name returns the human readable dialect name
func (k SyntaxKind) Name() string {
	switch k {
	case Markdown:
		return "Markdown"
	case Org:
		return "Org-mode"
	case LaTeX:
		return "LaTeX"
	case Code:
		return "Code"
	case Custom:
		return "Custom"
	default:
		return fmt.Sprintf("SyntaxKind(%d)", int(k))
	}
}

func (k SyntaxKind) String() string {
	return k.Name()
}

// ParseSyntaxKind maps a dialect name (case-insensitive) to its kind
func ParseSyntaxKind(name string) (SyntaxKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "markdown", "md":
		return Markdown, nil
	case "org", "org-mode", "orgmode":
		return Org, nil
	case "latex", "tex", "math":
		return LaTeX, nil
	case "code":
		return Code, nil
	case "custom":
		return Custom, nil
	}
	return 0, &ParseError{Kind: ErrUnsupportedSyntax, Line: -1, Message: name}
}

// Property is an ordered metadata key/value pair
type Property struct {
	Key   string
	Value string
}

// BlockMetadata is what a parser derives from a chunk besides its AST
type BlockMetadata struct {
	HeadingLevel int
	ID           string
	TodoState    string
	Properties   []Property
}

// Property returns the value stored under key
func (m BlockMetadata) Property(key string) (string, bool) {
	for _, p := range m.Properties {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// SetProperty replaces the value under key, or appends it
func (m *BlockMetadata) SetProperty(key, value string) {
	for i, p := range m.Properties {
		if p.Key == key {
			m.Properties[i].Value = value
			return
		}
	}
	m.Properties = append(m.Properties, Property{Key: key, Value: value})
}

// LineRange is an inclusive, 0-based range of source lines
type LineRange struct {
	Start int
	End   int
}

// HybridBlock is one block of a hybrid document: its raw text, the parsed
// tree and metadata, and where it came from. AST and Metadata reflect
// RawText as of the last successful parse.
type HybridBlock struct {
	Syntax    SyntaxKind
	RawText   string
	AST       ast.Block
	Metadata  BlockMetadata
	LineRange LineRange
}

// IsHeading reports whether the block parsed as a heading
func (b *HybridBlock) IsHeading() bool {
	return b.Metadata.HeadingLevel > 0
}

// HeadingLevel returns the heading level, or 0 for non-headings
func (b *HybridBlock) HeadingLevel() int {
	return b.Metadata.HeadingLevel
}

// TodoState returns the TODO keyword of an org heading
func (b *HybridBlock) TodoState() string {
	return b.Metadata.TodoState
}

// IsTodo reports whether the block is an open TODO item
func (b *HybridBlock) IsTodo() bool {
	return b.Metadata.TodoState == "TODO"
}

// IsDone reports whether the block is a finished TODO item
func (b *HybridBlock) IsDone() bool {
	return b.Metadata.TodoState == "DONE"
}

// ID returns the block's identifier, if any
func (b *HybridBlock) ID() string {
	return b.Metadata.ID
}

// WithID sets the block's identifier and returns the block
func (b *HybridBlock) WithID(id string) *HybridBlock {
	b.Metadata.ID = id
	return b
}

// LineCount returns the number of source lines the block spans
func (b *HybridBlock) LineCount() int {
	return b.LineRange.End - b.LineRange.Start + 1
}

// IsSyntax reports whether the block is written in kind
func (b *HybridBlock) IsSyntax(kind SyntaxKind) bool {
	return b.Syntax == kind
}

// AddProperty records a metadata property on the block
func (b *HybridBlock) AddProperty(key, value string) {
	b.Metadata.SetProperty(key, value)
}

// Property returns a metadata property of the block
func (b *HybridBlock) Property(key string) (string, bool) {
	return b.Metadata.Property(key)
}

// HasProperties reports whether any metadata properties are set
func (b *HybridBlock) HasProperties() bool {
	return len(b.Metadata.Properties) > 0
}
