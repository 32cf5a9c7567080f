package ast

import "strings"

// Texts wraps a plain string as inline content
func Texts(s string) []Inline {
	if s == "" {
		return nil
	}
	return []Inline{Text{Text: s}}
}

// NewParagraph returns a paragraph holding plain text
func NewParagraph(s string) Paragraph {
	return Paragraph{Content: Texts(s)}
}

// NewHeading returns a heading holding plain text
func NewHeading(level int, s string) Heading {
	return Heading{Level: level, Content: Texts(s)}
}

// IsLeaf reports whether b holds no nested blocks
func IsLeaf(b Block) bool {
	_, ok := b.(Leaf)
	return ok
}

// IsContainer reports whether b owns nested blocks
func IsContainer(b Block) bool {
	_, ok := b.(Container)
	return ok
}

// HeadingLevel returns the level of b if it is a heading
func HeadingLevel(b Block) (int, bool) {
	h, ok := b.(Heading)
	if !ok {
		return 0, false
	}
	return h.Level, true
}

// PlainText flattens inline content to its visible text
func PlainText(inlines []Inline) string {
	var sb strings.Builder
	writePlain(&sb, inlines)
	return sb.String()
}

func writePlain(sb *strings.Builder, inlines []Inline) {
	for _, in := range inlines {
		switch v := in.(type) {
		case Text:
			sb.WriteString(v.Text)
		case Bold:
			writePlain(sb, v.Content)
		case Italic:
			writePlain(sb, v.Content)
		case Strikethrough:
			writePlain(sb, v.Content)
		case Superscript:
			writePlain(sb, v.Content)
		case Subscript:
			writePlain(sb, v.Content)
		case Link:
			writePlain(sb, v.Text)
		case Image:
			sb.WriteString(v.AltText)
		case Code:
			sb.WriteString(v.Code)
		case Math:
			sb.WriteString(v.Content)
		case LineBreak:
			sb.WriteByte('\n')
		case FootnoteReference:
			sb.WriteString(v.Label)
		}
	}
}

// Children returns the blocks directly owned by b, in order.
// Table cells are inline-only and so a table has no block children.
func Children(b Block) []Block {
	switch v := b.(type) {
	case Quote:
		return v.Blocks
	case Div:
		return v.Children
	case FootnoteDefinition:
		return v.Content
	case List:
		var out []Block
		for _, item := range v.Items {
			out = append(out, item...)
		}
		return out
	case DefinitionList:
		var out []Block
		for _, item := range v.Items {
			for _, def := range item.Definitions {
				out = append(out, def...)
			}
		}
		return out
	}
	return nil
}

// Walk visits blocks in pre-order. Returning false from fn skips the
// children of that block.
func Walk(blocks []Block, fn func(Block) bool) {
	for _, b := range blocks {
		if fn(b) {
			Walk(Children(b), fn)
		}
	}
}

// Inlines returns the inline content carried directly by b
func Inlines(b Block) []Inline {
	switch v := b.(type) {
	case Paragraph:
		return v.Content
	case Heading:
		return v.Content
	case Table:
		var out []Inline
		for _, cell := range v.Headers {
			out = append(out, cell...)
		}
		for _, row := range v.Rows {
			for _, cell := range row {
				out = append(out, cell...)
			}
		}
		return append(out, v.Caption...)
	case DefinitionList:
		var out []Inline
		for _, item := range v.Items {
			out = append(out, item.Term...)
		}
		return out
	}
	return nil
}

// WalkInlines visits inline content in pre-order, descending into nested spans.
func WalkInlines(inlines []Inline, fn func(Inline)) {
	for _, in := range inlines {
		fn(in)
		switch v := in.(type) {
		case Bold:
			WalkInlines(v.Content, fn)
		case Italic:
			WalkInlines(v.Content, fn)
		case Strikethrough:
			WalkInlines(v.Content, fn)
		case Superscript:
			WalkInlines(v.Content, fn)
		case Subscript:
			WalkInlines(v.Content, fn)
		case Link:
			WalkInlines(v.Text, fn)
		}
	}
}

// MergeText joins adjacent Text nodes
func MergeText(inlines []Inline) []Inline {
	var out []Inline
	for _, in := range inlines {
		t, ok := in.(Text)
		if !ok {
			out = append(out, in)
			continue
		}
		if t.Text == "" {
			continue
		}
		if n := len(out); n > 0 {
			if prev, ok := out[n-1].(Text); ok {
				out[n-1] = Text{Text: prev.Text + t.Text}
				continue
			}
		}
		out = append(out, t)
	}
	return out
}
