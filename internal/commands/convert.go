package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gerunddev/hybridnote/convert"
	"github.com/gerunddev/hybridnote/format"
	"github.com/gerunddev/hybridnote/internal/diff"
	"github.com/gerunddev/hybridnote/internal/styles"
)

// Convert rewrites a note in the other dialect.
// Usage: convert <file> [--to markdown|org] [--out path] [--ids ids.json]
func (e *Env) Convert(raw []string) error {
	a, err := parseArgs(raw)
	if err != nil {
		return err
	}
	path, err := a.input("convert")
	if err != nil {
		return err
	}
	src, err := e.Config.FormatFor(path)
	if err != nil {
		return err
	}

	target := otherFormat(src.Name())
	if v, ok := a.flag("to"); ok {
		f, err := format.ByName(v)
		if err != nil {
			return err
		}
		target = f.Name()
	}

	ids, err := loadIDMap(a.flags["ids"])
	if err != nil {
		return err
	}
	text, err := e.read(path)
	if err != nil {
		return err
	}

	out, err := convertText(text, src, target, ids)
	if err != nil {
		e.Log.FileError(path, err)
		return err
	}

	dest, ok := a.flag("out")
	if !ok {
		fmt.Fprintln(e.Out, out)
		e.Log.FileConverted(path, "stdout", target)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(dest, []byte(out+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	e.Log.FileConverted(path, dest, target)
	fmt.Fprintln(e.Out, styles.SuccessStyle.Render(fmt.Sprintf("✓ Converted %s → %s", path, dest)))
	return nil
}

func otherFormat(name string) string {
	if name == "org" {
		return "markdown"
	}
	return "org"
}

// convertText converts text from src to the target dialect. Converting to
// the same dialect normalizes the note through its format.
func convertText(text string, src format.Format, target string, ids map[string]string) (string, error) {
	switch {
	case src.Name() == "markdown" && target == "org":
		return convert.MarkdownToOrg(text, ids)
	case src.Name() == "org" && target == "markdown":
		return convert.OrgToMarkdown(text, ids)
	}

	note, err := src.Deserialize([]byte(text), "")
	if err != nil {
		return "", fmt.Errorf("failed to read note: %w", err)
	}
	var data []byte
	if md, ok := src.(*format.Markdown); ok {
		fm, _, _ := format.SplitFrontMatter(text)
		data, err = md.SerializeWithFrontMatter(note, fm)
	} else {
		data, err = src.Serialize(note)
	}
	if err != nil {
		return "", fmt.Errorf("failed to write note: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// Diff shows what a parse and render round trip changes in a document, or
// with --convert what converting to the other dialect and back changes.
// Usage: diff <file> [--convert] [--plain] [--ids ids.json]
func (e *Env) Diff(raw []string) error {
	a, err := parseArgs(raw, "convert", "plain")
	if err != nil {
		return err
	}
	path, err := a.input("diff")
	if err != nil {
		return err
	}
	text, err := e.read(path)
	if err != nil {
		return err
	}

	var unified string
	if a.has("convert") {
		src, err := e.Config.FormatFor(path)
		if err != nil {
			return err
		}
		ids, err := loadIDMap(a.flags["ids"])
		if err != nil {
			return err
		}
		unified, err = diff.Conversion(path, text, src, ids)
		if err != nil {
			return err
		}
	} else {
		m := e.Config.NewManager()
		m.SetLogger(e.Log)
		unified, err = diff.RoundTrip(path, text, m)
		if err != nil {
			e.Log.FileError(path, err)
			return err
		}
	}

	if unified == "" {
		fmt.Fprintln(e.Out, styles.SuccessStyle.Render("✓ No changes"))
		return nil
	}
	mode := diff.FormatRendered
	if a.has("plain") {
		mode = diff.FormatPlain
	}
	fmt.Fprint(e.Out, diff.Render(unified, mode, e.Config.WrapWidth))
	return nil
}
