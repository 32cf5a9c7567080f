package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gerunddev/hybridnote/ast"
	"github.com/gerunddev/hybridnote/format"
	"github.com/gerunddev/hybridnote/internal/styles"
	"github.com/gerunddev/hybridnote/parser"
	"github.com/gerunddev/hybridnote/section"
)

// Detect prints the chunks the detector finds. Usage: detect <file>
func (e *Env) Detect(raw []string) error {
	a, err := parseArgs(raw)
	if err != nil {
		return err
	}
	path, err := a.input("detect")
	if err != nil {
		return err
	}
	text, err := e.read(path)
	if err != nil {
		return err
	}

	detector := parser.NewDetector(e.Config.Detection())
	detector.SetLogger(e.Log)
	chunks, err := detector.Detect(text)
	if err != nil {
		e.Log.FileError(path, err)
		return err
	}

	rows := make([][]string, 0, len(chunks))
	kinds := make([]parser.SyntaxKind, 0, len(chunks))
	for i, c := range chunks {
		rows = append(rows, []string{
			strconv.Itoa(i),
			c.Kind.Name(),
			c.LanguageHint,
			fmt.Sprintf("%d-%d", c.StartLine+1, c.EndLine+1),
			firstLine(c.RawText),
		})
		kinds = append(kinds, c.Kind)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.BorderStyle).
		Headers("#", "KIND", "LANG", "LINES", "FIRST LINE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styles.HeaderStyle.Padding(0, 1)
			case col == 1 && row >= 0 && row < len(kinds):
				return styles.KindStyle(kinds[row]).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	fmt.Fprintln(e.Out, t.Render())
	fmt.Fprintln(e.Out, styles.DimStyle.Render(fmt.Sprintf("%d chunks", len(chunks))))
	return nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	const width = 48
	if r := []rune(line); len(r) > width {
		return string(r[:width-1]) + "…"
	}
	return line
}

// parse reads path into a configured manager
func (e *Env) parse(path string) (*parser.Manager, error) {
	text, err := e.read(path)
	if err != nil {
		return nil, err
	}
	m := e.Config.NewManager()
	m.SetLogger(e.Log)
	if err := m.ParseDocument(text); err != nil {
		e.Log.FileError(path, err)
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return m, nil
}

// Render parses a document and prints its canonical rendering.
// Usage: render <file>
func (e *Env) Render(raw []string) error {
	a, err := parseArgs(raw)
	if err != nil {
		return err
	}
	path, err := a.input("render")
	if err != nil {
		return err
	}
	m, err := e.parse(path)
	if err != nil {
		return err
	}
	fmt.Fprintln(e.Out, m.RenderDocument())
	return nil
}

// Outline prints the heading tree of a document. Usage: outline <file>
func (e *Env) Outline(raw []string) error {
	a, err := parseArgs(raw)
	if err != nil {
		return err
	}
	path, err := a.input("outline")
	if err != nil {
		return err
	}
	m, err := e.parse(path)
	if err != nil {
		return err
	}

	root := section.Build(section.NodesFromHybrid(m.Blocks()))
	if len(root.Children) == 0 {
		fmt.Fprintln(e.Out, styles.DimStyle.Render("No headings"))
		return nil
	}

	root.Walk(func(s *section.Section) bool {
		if s.Level == 0 {
			return true
		}
		indent := strings.Repeat("  ", s.Level-1)
		title := styles.HighlightStyle.Render(s.TitleText())
		lines := styles.DimStyle.Render(fmt.Sprintf("(line %d, %d blocks)", s.Span.Start+1, len(s.Blocks)))
		fmt.Fprintf(e.Out, "%s%s %s %s\n", indent, strings.Repeat("#", s.Level), title, lines)
		return true
	})
	return nil
}

// Info prints a note's identity, tags, links and attachments.
// Usage: info <file>
func (e *Env) Info(raw []string) error {
	a, err := parseArgs(raw)
	if err != nil {
		return err
	}
	path, err := a.input("info")
	if err != nil {
		return err
	}
	text, err := e.read(path)
	if err != nil {
		return err
	}
	f, err := e.Config.FormatFor(path)
	if err != nil {
		return err
	}
	note, err := f.Deserialize([]byte(text), path)
	if err != nil {
		e.Log.FileError(path, err)
		return fmt.Errorf("failed to read note: %w", err)
	}

	attachments := format.ExtractAttachments(note.Blocks)
	links := f.ExtractLinks(note, attachments)

	fmt.Fprintln(e.Out, styles.TitleStyle.Render(note.Title))
	fmt.Fprintf(e.Out, "ID:     %s\n", note.ID)
	fmt.Fprintf(e.Out, "Format: %s\n", f.Name())
	fmt.Fprintf(e.Out, "Blocks: %d\n", len(note.Blocks))
	fmt.Fprintf(e.Out, "Tags:   %s\n", strings.Join(f.ExtractTags(text), ", "))

	if len(links) > 0 {
		fmt.Fprintln(e.Out, styles.HeaderStyle.Render("Links"))
		for _, l := range links {
			kind := "note"
			if l.Kind == ast.LinkAttachment {
				kind = "attachment"
			}
			fmt.Fprintf(e.Out, "  %s %s\n", l.Target, styles.DimStyle.Render("("+kind+")"))
		}
	}
	if len(attachments) > 0 {
		fmt.Fprintln(e.Out, styles.HeaderStyle.Render("Attachments"))
		for _, att := range attachments {
			fmt.Fprintf(e.Out, "  %s %s\n", att.Src, styles.DimStyle.Render(att.MimeType()))
		}
	}
	return nil
}
