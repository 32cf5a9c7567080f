package parser

import (
	"slices"
	"strings"
	"time"

	"github.com/gerunddev/hybridnote/internal/logger"
)

// Manager owns the ordered blocks of one hybrid document and tracks which
// of them changed since the last ClearDirty.
//
// A Manager is not safe for concurrent use; callers sharing one must hold a
// lock for the duration of each call.
type Manager struct {
	registry *Registry
	detector *Detector
	log      *logger.Logger

	blocks []HybridBlock
	dirty  map[int]struct{}
}

// NewManager creates an empty manager
func NewManager(registry *Registry, detector *Detector) *Manager {
	return &Manager{
		registry: registry,
		detector: detector,
		log:      logger.Discard(),
		dirty:    make(map[int]struct{}),
	}
}

// NewDefaultManager creates a manager with the default parsers and markers
func NewDefaultManager() *Manager {
	return NewManager(DefaultRegistry(), NewDetector(DefaultDetectionConfig()))
}

// SetLogger sets the logger for the manager and its detector
func (m *Manager) SetLogger(l *logger.Logger) {
	m.log = l
	m.detector.SetLogger(l)
}

// Registry returns the parser registry the manager dispatches through
func (m *Manager) Registry() *Registry {
	return m.registry
}

// ParseDocument replaces the document with the blocks detected in text.
// On error the previous blocks and dirty set are left untouched.
func (m *Manager) ParseDocument(text string) error {
	start := time.Now()

	chunks, err := m.detector.Detect(text)
	if err != nil {
		m.log.ParseFailed("detect", err)
		return err
	}

	staged := make([]HybridBlock, 0, len(chunks))
	for _, chunk := range chunks {
		p, ok := m.registry.Get(chunk.Kind)
		if !ok {
			err := missingParser(chunk.Kind)
			m.log.ParseFailed("parse document", err)
			return err
		}
		block, meta, err := p.Parse(chunk.RawText, chunk.StartLine)
		if err != nil {
			m.log.ParseFailed("parse document", err)
			return err
		}
		staged = append(staged, HybridBlock{
			Syntax:    chunk.Kind,
			RawText:   chunk.RawText,
			AST:       block,
			Metadata:  meta,
			LineRange: LineRange{Start: chunk.StartLine, End: chunk.EndLine},
		})
	}

	m.blocks = staged
	clear(m.dirty)
	m.log.DocumentParsed(len(staged), time.Since(start))
	return nil
}

// UpdateBlockText reparses the block at index from text with its own parser
// and marks it dirty. On error the block is unchanged.
func (m *Manager) UpdateBlockText(index int, text string) error {
	if err := m.checkIndex(index); err != nil {
		return err
	}
	b := &m.blocks[index]
	p, ok := m.registry.Get(b.Syntax)
	if !ok {
		return missingParser(b.Syntax)
	}
	block, meta, err := p.Parse(text, b.LineRange.Start)
	if err != nil {
		m.log.ParseFailed("update block", err)
		return err
	}

	b.RawText = text
	b.AST = block
	b.Metadata = meta
	b.LineRange.End = b.LineRange.Start + strings.Count(text, "\n")
	m.dirty[index] = struct{}{}
	m.log.BlockReparsed(index, b.Syntax.Name())
	return nil
}

// InsertBlock inserts block before index (index == BlockCount appends) and
// marks every block from index on dirty.
func (m *Manager) InsertBlock(index int, block HybridBlock) error {
	if index < 0 || index > len(m.blocks) {
		return invalidIndex(index, len(m.blocks))
	}
	m.blocks = slices.Insert(m.blocks, index, block)
	m.markTail(index)
	m.log.BlockInserted(index, block.Syntax.Name())
	return nil
}

// InsertText classifies text, parses it with the matching parser and
// inserts the result before index.
func (m *Manager) InsertText(index int, text string) error {
	if index < 0 || index > len(m.blocks) {
		return invalidIndex(index, len(m.blocks))
	}
	kind, ok := m.registry.Classify(text)
	if !ok {
		return &ParseError{Kind: ErrUnsupportedSyntax, Line: -1, Message: "no registered parser accepts the text"}
	}
	p, _ := m.registry.Get(kind)

	start := 0
	if index > 0 {
		start = m.blocks[index-1].LineRange.End + 1
	}
	block, meta, err := p.Parse(text, start)
	if err != nil {
		m.log.ParseFailed("insert text", err)
		return err
	}
	return m.InsertBlock(index, HybridBlock{
		Syntax:    kind,
		RawText:   text,
		AST:       block,
		Metadata:  meta,
		LineRange: LineRange{Start: start, End: start + strings.Count(text, "\n")},
	})
}

// RemoveBlock removes and returns the block at index. Every index from
// index on is marked dirty and indices past the new end are dropped.
func (m *Manager) RemoveBlock(index int) (HybridBlock, error) {
	if err := m.checkIndex(index); err != nil {
		return HybridBlock{}, err
	}
	removed := m.blocks[index]
	m.blocks = slices.Delete(m.blocks, index, index+1)
	for i := range m.dirty {
		if i >= len(m.blocks) {
			delete(m.dirty, i)
		}
	}
	m.markTail(index)
	m.log.BlockRemoved(index, removed.Syntax.Name())
	return removed, nil
}

// EditBlock returns a pointer into the collection for in-place changes.
// The block is marked dirty whether or not the caller writes through it.
func (m *Manager) EditBlock(index int) (*HybridBlock, error) {
	if err := m.checkIndex(index); err != nil {
		return nil, err
	}
	m.dirty[index] = struct{}{}
	return &m.blocks[index], nil
}

// Block returns a copy of the block at index
func (m *Manager) Block(index int) (HybridBlock, error) {
	if err := m.checkIndex(index); err != nil {
		return HybridBlock{}, err
	}
	return m.blocks[index], nil
}

// Blocks returns a copy of the block sequence
func (m *Manager) Blocks() []HybridBlock {
	return slices.Clone(m.blocks)
}

// BlockCount returns the number of blocks
func (m *Manager) BlockCount() int {
	return len(m.blocks)
}

// DirtyBlocks returns the dirty indices in ascending order
func (m *Manager) DirtyBlocks() []int {
	out := make([]int, 0, len(m.dirty))
	for i := range m.dirty {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}

// ClearDirty empties the dirty set
func (m *Manager) ClearDirty() {
	clear(m.dirty)
}

// RenderDocument renders every block, one newline between blocks, with
// trailing whitespace trimmed.
func (m *Manager) RenderDocument() string {
	parts := make([]string, 0, len(m.blocks))
	for i := range m.blocks {
		parts = append(parts, m.render(i))
	}
	return strings.TrimRight(strings.Join(parts, "\n"), " \t\r\n")
}

// RenderDirtyBlocks renders the dirty blocks in document order, joined the
// same way as RenderDocument.
func (m *Manager) RenderDirtyBlocks() string {
	indices := m.DirtyBlocks()
	parts := make([]string, 0, len(indices))
	for _, i := range indices {
		parts = append(parts, m.render(i))
	}
	return strings.TrimRight(strings.Join(parts, "\n"), " \t\r\n")
}

// render falls back to the raw text when the block's parser has since
// been removed from the registry.
func (m *Manager) render(index int) string {
	b := m.blocks[index]
	p, ok := m.registry.Get(b.Syntax)
	if !ok {
		m.log.RenderSkipped(index, b.Syntax.Name())
		return b.RawText
	}
	return p.Render(b.AST, b.Metadata)
}

// FindHeadings returns the heading blocks in document order
func (m *Manager) FindHeadings() []HybridBlock {
	var out []HybridBlock
	for _, b := range m.blocks {
		if b.IsHeading() {
			out = append(out, b)
		}
	}
	return out
}

// FindBlocksByHeadingLevel returns the heading blocks at level
func (m *Manager) FindBlocksByHeadingLevel(level int) []HybridBlock {
	var out []HybridBlock
	for _, b := range m.blocks {
		if b.HeadingLevel() == level && level > 0 {
			out = append(out, b)
		}
	}
	return out
}

func (m *Manager) checkIndex(index int) error {
	if index < 0 || index >= len(m.blocks) {
		return invalidIndex(index, len(m.blocks))
	}
	return nil
}

func (m *Manager) markTail(from int) {
	for i := from; i < len(m.blocks); i++ {
		m.dirty[i] = struct{}{}
	}
}
