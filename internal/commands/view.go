package commands

import (
	"bytes"
	"fmt"
	"html"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/gerunddev/hybridnote/convert"
	"github.com/gerunddev/hybridnote/format"
)

// htmlMarkdown renders exported notes; GFM covers tables, strikethrough
// and task lists
var htmlMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// markdownNote reads path as markdown, converting org notes first, and
// splits off the front matter
func (e *Env) markdownNote(path string) (format.FrontMatter, string, error) {
	text, err := e.read(path)
	if err != nil {
		return format.FrontMatter{}, "", err
	}
	f, err := e.Config.FormatFor(path)
	if err != nil {
		return format.FrontMatter{}, "", err
	}
	if f.Name() == "org" {
		text, err = convert.OrgToMarkdown(text, nil)
		if err != nil {
			e.Log.FileError(path, err)
			return format.FrontMatter{}, "", err
		}
	}
	fm, body, _ := format.SplitFrontMatter(text)
	if fm.Title == "" {
		note, err := format.NewMarkdown().Deserialize([]byte(text), path)
		if err == nil {
			fm.Title = note.Title
		}
	}
	return fm, body, nil
}

// View renders a note in the terminal. Usage: view <file>
func (e *Env) View(raw []string) error {
	a, err := parseArgs(raw)
	if err != nil {
		return err
	}
	path, err := a.input("view")
	if err != nil {
		return err
	}
	_, body, err := e.markdownNote(path)
	if err != nil {
		return err
	}

	options := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if e.Config.WrapWidth > 0 {
		options = append(options, glamour.WithWordWrap(e.Config.WrapWidth))
	}
	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	rendered, err := renderer.Render(body)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	fmt.Fprint(e.Out, rendered)
	return nil
}

// Export writes a note as HTML.
// Usage: export <file> [--out path] [--standalone]
func (e *Env) Export(raw []string) error {
	a, err := parseArgs(raw, "standalone")
	if err != nil {
		return err
	}
	path, err := a.input("export")
	if err != nil {
		return err
	}
	fm, body, err := e.markdownNote(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if a.has("standalone") {
		fmt.Fprintf(&buf, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n",
			html.EscapeString(fm.Title))
	}
	if err := htmlMarkdown.Convert([]byte(body), &buf); err != nil {
		return fmt.Errorf("failed to convert %s to html: %w", path, err)
	}
	if a.has("standalone") {
		buf.WriteString("</body>\n</html>\n")
	}

	dest, ok := a.flag("out")
	if !ok {
		_, err := e.Out.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(dest, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	e.Log.FileConverted(path, dest, "html")
	return nil
}
