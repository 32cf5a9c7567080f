// Package section builds a heading outline from a flat block sequence.
package section

import (
	"github.com/gerunddev/hybridnote/ast"
	"github.com/gerunddev/hybridnote/parser"
)

// NodeID identifies a block node within one build
type NodeID uint64

// TextSpan is a half-open [Start, End) range in the source
type TextSpan struct {
	Start int
	End   int
}

// Contains reports whether pos lies in the span
func (s TextSpan) Contains(pos int) bool {
	return pos >= s.Start && pos < s.End
}

// Intersects reports whether the spans share at least one position
func (s TextSpan) Intersects(other TextSpan) bool {
	return s.Start < other.End && other.Start < s.End
}

// BlockNode is a block tagged with its ID and source span
type BlockNode struct {
	ID    NodeID
	Block ast.Block
	Span  TextSpan
}

// Section is one heading and everything under it up to the next heading of
// the same or a higher level. The root has level 0 and no title. Span is
// the span of the heading node itself.
type Section struct {
	ID       NodeID
	Level    int
	Title    []ast.Inline
	Span     TextSpan
	Blocks   []BlockNode
	Children []Section
}

// Document is a built outline with an identity
type Document struct {
	ID   string
	Root Section
}

// Build nests nodes under their headings. Blocks before the first heading
// belong to the root. Level skips are accepted as-is.
func Build(nodes []BlockNode) Section {
	stack := []Section{{}}

	closeTop := func() {
		done := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		parent := &stack[len(stack)-1]
		parent.Children = append(parent.Children, done)
	}

	for _, node := range nodes {
		heading, ok := node.Block.(ast.Heading)
		if !ok {
			top := &stack[len(stack)-1]
			top.Blocks = append(top.Blocks, node)
			continue
		}
		for len(stack) > 1 && stack[len(stack)-1].Level >= heading.Level {
			closeTop()
		}
		stack = append(stack, Section{
			ID:    node.ID,
			Level: heading.Level,
			Title: heading.Content,
			Span:  node.Span,
		})
	}

	for len(stack) > 1 {
		closeTop()
	}
	return stack[0]
}

// NewDocument builds the outline of nodes under id
func NewDocument(id string, nodes []BlockNode) Document {
	return Document{ID: id, Root: Build(nodes)}
}

// NodesFromHybrid numbers the blocks of a hybrid document from 1, with
// spans in source lines. Unclassed divs (several markdown blocks in one
// chunk, or an org heading with its body) are split so their headings take
// part in the outline.
func NodesFromHybrid(blocks []parser.HybridBlock) []BlockNode {
	var nodes []BlockNode
	next := NodeID(1)
	for _, b := range blocks {
		span := TextSpan{Start: b.LineRange.Start, End: b.LineRange.End + 1}
		for _, block := range flatten(b.AST) {
			nodes = append(nodes, BlockNode{ID: next, Block: block, Span: span})
			next++
		}
	}
	return nodes
}

func flatten(b ast.Block) []ast.Block {
	div, ok := b.(ast.Div)
	if !ok || len(div.Classes) > 0 || len(div.Attributes) > 0 {
		return []ast.Block{b}
	}
	var out []ast.Block
	for _, child := range div.Children {
		out = append(out, flatten(child)...)
	}
	return out
}

// Walk visits s and its descendants depth-first, parents before children.
// Returning false from fn skips that section's children.
func (s *Section) Walk(fn func(*Section) bool) {
	if !fn(s) {
		return
	}
	for i := range s.Children {
		s.Children[i].Walk(fn)
	}
}

// TitleText returns the title as plain text
func (s *Section) TitleText() string {
	return ast.PlainText(s.Title)
}

// Find returns the section whose heading has id
func (s *Section) Find(id NodeID) (*Section, bool) {
	var found *Section
	s.Walk(func(sec *Section) bool {
		if found != nil {
			return false
		}
		if sec.ID == id && sec.Level > 0 {
			found = sec
			return false
		}
		return true
	})
	return found, found != nil
}

// At returns the innermost section whose heading or blocks hold pos
func (s *Section) At(pos int) (*Section, bool) {
	var found *Section
	s.Walk(func(sec *Section) bool {
		if sec.Level > 0 && sec.Span.Contains(pos) {
			found = sec
		}
		for _, b := range sec.Blocks {
			if b.Span.Contains(pos) {
				found = sec
			}
		}
		return true
	})
	return found, found != nil
}
