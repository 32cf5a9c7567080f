package parser

import (
	"github.com/gerunddev/hybridnote/ast"
)

// Parser converts raw chunks of one dialect into blocks and back.
//
// Render never fails: a block the parser does not understand renders as "".
// CanHandle is advisory and used when classifying text that did not come
// through the detector.
type Parser interface {
	SyntaxKind() SyntaxKind
	Parse(raw string, lineOffset int) (ast.Block, BlockMetadata, error)
	Render(block ast.Block, meta BlockMetadata) string
	CanHandle(text string) bool
}

// Registry maps each syntax kind to at most one parser
type Registry struct {
	parsers map[SyntaxKind]Parser
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[SyntaxKind]Parser)}
}

// DefaultRegistry returns a registry with the markdown, org, LaTeX and code parsers
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewMarkdownParser())
	r.Register(NewOrgParser(nil))
	r.Register(NewLaTeXParser())
	r.Register(NewCodeParser())
	return r
}

// Register adds p, replacing any parser already registered for its kind
func (r *Registry) Register(p Parser) {
	r.parsers[p.SyntaxKind()] = p
}

// Get returns the parser for kind
func (r *Registry) Get(kind SyntaxKind) (Parser, bool) {
	p, ok := r.parsers[kind]
	return p, ok
}

// classifyOrder is the order CanHandle is consulted in Classify; markdown
// accepts anything and so comes last.
var classifyOrder = []SyntaxKind{Org, Code, LaTeX, Custom, Markdown}

// Classify picks the syntax kind for free-standing text by asking each
// registered parser whether it can handle it.
func (r *Registry) Classify(text string) (SyntaxKind, bool) {
	for _, kind := range classifyOrder {
		if p, ok := r.parsers[kind]; ok && p.CanHandle(text) {
			return kind, true
		}
	}
	return 0, false
}
