package parser

import (
	"strings"

	"github.com/gerunddev/hybridnote/internal/logger"
)

// DetectionConfig holds the markers the detector splits on
type DetectionConfig struct {
	CodeFence     string
	OrgBlockBegin string
	OrgBlockEnd   string
	MathDelimiter string
	// Strict turns an unterminated fence, org block or math block into a
	// DetectionFailed error instead of a markdown fallback.
	Strict bool
}

// DefaultDetectionConfig returns the standard markers
func DefaultDetectionConfig() DetectionConfig {
	return DetectionConfig{
		CodeFence:     "```",
		OrgBlockBegin: "#+BEGIN_",
		OrgBlockEnd:   "#+END_",
		MathDelimiter: "$$",
	}
}

// SyntaxBlock is a raw chunk tagged with its dialect. StartLine and EndLine
// are 0-based and inclusive.
type SyntaxBlock struct {
	Kind         SyntaxKind
	LanguageHint string
	RawText      string
	StartLine    int
	EndLine      int
}

// Detector segments text into syntax-tagged chunks
type Detector struct {
	cfg DetectionConfig
	log *logger.Logger
}

// NewDetector creates a detector using cfg
func NewDetector(cfg DetectionConfig) *Detector {
	return &Detector{cfg: cfg, log: logger.Discard()}
}

// SetLogger sets the logger used to report markdown fallbacks
func (d *Detector) SetLogger(l *logger.Logger) {
	d.log = l
}

// Detect splits text into chunks covering every non-blank line exactly once,
// in order. Blank lines separate chunks and are not emitted.
//
// Dialect markers interrupt a markdown run even without a blank line. An
// opening marker that is never closed falls back to markdown, or fails with
// ErrDetectionFailed when the config is strict.
func (d *Detector) Detect(text string) ([]SyntaxBlock, error) {
	lines := splitLines(text)
	var blocks []SyntaxBlock
	i := 0
	for i < len(lines) {
		if strings.TrimSpace(lines[i]) == "" {
			i++
			continue
		}
		block, next, err := d.detectAt(lines, i)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
		i = next
	}
	return blocks, nil
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

func (d *Detector) detectAt(lines []string, i int) (SyntaxBlock, int, error) {
	trimmed := strings.TrimSpace(lines[i])

	switch {
	case d.isOrgBegin(trimmed):
		if block, next, ok := d.detectOrgBlock(lines, i); ok {
			return block, next, nil
		}
		return d.unterminated(lines, i, "org block")
	case strings.HasPrefix(trimmed, d.cfg.CodeFence):
		if block, next, ok := d.detectFence(lines, i); ok {
			return block, next, nil
		}
		return d.unterminated(lines, i, "code fence")
	case strings.Contains(lines[i], d.cfg.MathDelimiter):
		if block, next, ok := d.detectMath(lines, i); ok {
			return block, next, nil
		}
		return d.unterminated(lines, i, "math block")
	}
	block, next := d.detectMarkdown(lines, i)
	return block, next, nil
}

func (d *Detector) unterminated(lines []string, i int, what string) (SyntaxBlock, int, error) {
	if d.cfg.Strict {
		return SyntaxBlock{}, i, detectionFailed(i, "unterminated %s", what)
	}
	d.log.DetectionFallback(i, what)
	block, next := d.detectMarkdown(lines, i)
	return block, next, nil
}

func (d *Detector) isOrgBegin(trimmed string) bool {
	return len(trimmed) > len(d.cfg.OrgBlockBegin) &&
		strings.EqualFold(trimmed[:len(d.cfg.OrgBlockBegin)], d.cfg.OrgBlockBegin)
}

// isMarker reports whether line opens another dialect and so ends a markdown run
func (d *Detector) isMarker(line string) bool {
	trimmed := strings.TrimSpace(line)
	return d.isOrgBegin(trimmed) ||
		strings.HasPrefix(trimmed, d.cfg.CodeFence) ||
		strings.Contains(line, d.cfg.MathDelimiter)
}

func (d *Detector) detectOrgBlock(lines []string, i int) (SyntaxBlock, int, bool) {
	rest := strings.TrimSpace(lines[i])[len(d.cfg.OrgBlockBegin):]
	fields := strings.Fields(rest)
	blockType := strings.ToUpper(fields[0])
	hint := ""
	if blockType == "SRC" && len(fields) > 1 {
		hint = fields[1]
	}

	endMarker := d.cfg.OrgBlockEnd + blockType
	for j := i + 1; j < len(lines); j++ {
		if hasMarkerPrefix(strings.TrimSpace(lines[j]), endMarker) {
			return newSyntaxBlock(Org, hint, lines, i, j), j + 1, true
		}
	}
	return SyntaxBlock{}, i, false
}

// hasMarkerPrefix reports whether line starts with marker, ignoring case,
// followed by the end of the line or whitespace.
func hasMarkerPrefix(line, marker string) bool {
	if len(line) < len(marker) || !strings.EqualFold(line[:len(marker)], marker) {
		return false
	}
	return len(line) == len(marker) || line[len(marker)] == ' ' || line[len(marker)] == '\t'
}

func (d *Detector) detectFence(lines []string, i int) (SyntaxBlock, int, bool) {
	hint := ""
	if fields := strings.Fields(strings.TrimSpace(lines[i])[len(d.cfg.CodeFence):]); len(fields) > 0 {
		hint = fields[0]
	}
	for j := i + 1; j < len(lines); j++ {
		if strings.HasPrefix(strings.TrimSpace(lines[j]), d.cfg.CodeFence) {
			return newSyntaxBlock(Code, hint, lines, i, j), j + 1, true
		}
	}
	return SyntaxBlock{}, i, false
}

func (d *Detector) detectMath(lines []string, i int) (SyntaxBlock, int, bool) {
	if strings.Count(lines[i], d.cfg.MathDelimiter) >= 2 {
		return newSyntaxBlock(LaTeX, "", lines, i, i), i + 1, true
	}
	for j := i + 1; j < len(lines); j++ {
		if strings.Contains(lines[j], d.cfg.MathDelimiter) {
			return newSyntaxBlock(LaTeX, "", lines, i, j), j + 1, true
		}
	}
	return SyntaxBlock{}, i, false
}

// detectMarkdown takes lines from i up to a blank line or a marker line. The
// first line is always taken so an unclosed marker still lands in a block.
func (d *Detector) detectMarkdown(lines []string, i int) (SyntaxBlock, int) {
	j := i + 1
	for j < len(lines) && strings.TrimSpace(lines[j]) != "" && !d.isMarker(lines[j]) {
		j++
	}
	return newSyntaxBlock(Markdown, "", lines, i, j-1), j
}

func newSyntaxBlock(kind SyntaxKind, hint string, lines []string, start, end int) SyntaxBlock {
	return SyntaxBlock{
		Kind:         kind,
		LanguageHint: hint,
		RawText:      strings.Join(lines[start:end+1], "\n"),
		StartLine:    start,
		EndLine:      end,
	}
}
