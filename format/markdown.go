package format

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/gerunddev/hybridnote/ast"
	"github.com/gerunddev/hybridnote/markdown"
)

// FrontMatter is the YAML header of a markdown note
type FrontMatter struct {
	ID      string   `yaml:"id,omitempty"`
	Title   string   `yaml:"title,omitempty"`
	Aliases []string `yaml:"aliases,omitempty"`
	Tags    []string `yaml:"tags,omitempty"`
	Refs    []string `yaml:"refs,omitempty"`
}

// IsZero reports whether no front matter field is set
func (fm FrontMatter) IsZero() bool {
	return fm.ID == "" && fm.Title == "" && len(fm.Aliases) == 0 && len(fm.Tags) == 0 && len(fm.Refs) == 0
}

// SplitFrontMatter separates a leading "---" YAML block from the body.
// Content without a closed, valid header is returned unchanged with ok false.
func SplitFrontMatter(content string) (fm FrontMatter, body string, ok bool) {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return fm, content, false
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
	}
	if end == -1 {
		return fm, content, false
	}

	if err := yaml.Unmarshal([]byte(strings.Join(lines[1:end], "\n")), &fm); err != nil {
		return FrontMatter{}, content, false
	}
	return fm, strings.Join(lines[end+1:], "\n"), true
}

// RenderFrontMatter writes fm as a "---" delimited YAML block
func RenderFrontMatter(fm FrontMatter) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return "", fmt.Errorf("failed to marshal front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to marshal front matter: %w", err)
	}
	return "---\n" + buf.String() + "---\n", nil
}

// hashtagRegexp matches #tags that are not part of a word or a heading marker
var hashtagRegexp = regexp.MustCompile(`(?:^|\s)#([\p{L}\p{N}_][\p{L}\p{N}_/-]*)`)

// Markdown reads and writes markdown notes
type Markdown struct{}

// NewMarkdown creates the markdown format
func NewMarkdown() *Markdown {
	return &Markdown{}
}

// Name implements Format
func (f *Markdown) Name() string { return "markdown" }

// Extension implements Format
func (f *Markdown) Extension() string { return ".md" }

// Deserialize reads a markdown note. The title comes from front matter,
// else a leading "# " heading (which is then dropped from the body), else
// the file stem of idHint.
func (f *Markdown) Deserialize(data []byte, idHint string) (ast.Note, error) {
	if !utf8.Valid(data) {
		return ast.Note{}, fmt.Errorf("failed to read %q: not valid UTF-8", idHint)
	}
	fm, body, _ := SplitFrontMatter(string(data))

	title := fm.Title
	if title == "" {
		title = FileStem(idHint)
		lines := strings.Split(body, "\n")
		for i, line := range lines {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			if rest, ok := strings.CutPrefix(trimmed, "# "); ok {
				title = strings.TrimSpace(rest)
				body = strings.Join(lines[i+1:], "\n")
			}
			break
		}
	}

	return ast.Note{
		ID:     noteID(idHint, fm.ID),
		Title:  title,
		Blocks: markdown.ParseBlocks(body),
	}, nil
}

// Serialize writes the title as a level one heading followed by the blocks
func (f *Markdown) Serialize(note ast.Note) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString("# " + note.Title + "\n")
	if len(note.Blocks) > 0 {
		sb.WriteString("\n" + markdown.RenderBlocks(note.Blocks) + "\n")
	}
	return []byte(sb.String()), nil
}

// SerializeWithFrontMatter writes fm ahead of the serialized note
func (f *Markdown) SerializeWithFrontMatter(note ast.Note, fm FrontMatter) ([]byte, error) {
	body, err := f.Serialize(note)
	if err != nil {
		return nil, err
	}
	if fm.IsZero() {
		return body, nil
	}
	header, err := RenderFrontMatter(fm)
	if err != nil {
		return nil, err
	}
	return append([]byte(header+"\n"), body...), nil
}

// ExtractTags returns the front matter tags followed by inline #tags from
// the body text, deduplicated. Code is not searched.
func (f *Markdown) ExtractTags(content string) []string {
	fm, body, _ := SplitFrontMatter(content)
	seen := make(map[string]struct{})
	tags := appendUnique(nil, seen, fm.Tags...)

	ast.Walk(markdown.ParseBlocks(body), func(b ast.Block) bool {
		var sb strings.Builder
		ast.WalkInlines(ast.Inlines(b), func(in ast.Inline) {
			if t, ok := in.(ast.Text); ok {
				sb.WriteString(t.Text)
			}
		})
		for _, m := range hashtagRegexp.FindAllStringSubmatch(sb.String(), -1) {
			tags = appendUnique(tags, seen, m[1])
		}
		return true
	})
	return tags
}

// ExtractLinks lists the note's outgoing links. Targets matching one of
// attachments are attachment links; all other links point at notes.
func (f *Markdown) ExtractLinks(note ast.Note, attachments []ast.Attachment) []ast.LinkTarget {
	return collectLinks(note.Blocks, attachmentSet(attachments))
}
