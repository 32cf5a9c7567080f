package convert

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gerunddev/hybridnote/ast"
	"github.com/gerunddev/hybridnote/format"
	"github.com/gerunddev/hybridnote/markdown"
	"github.com/gerunddev/hybridnote/org"
)

// OrgToMarkdown converts org-mode content to markdown. The file drawer,
// #+title and #+filetags become YAML front matter and id: links become
// wiki links named through idMap (org ID -> note name).
func OrgToMarkdown(orgContent string, idMap map[string]string) (string, error) {
	if !utf8.ValidString(orgContent) {
		return "", fmt.Errorf("failed to convert org: %w", ErrInvalidUTF8)
	}
	doc := org.Parse(orgContent, nil)
	c := &orgToMD{names: idMap}

	var chunks []string
	for _, b := range doc.Preamble {
		chunks = append(chunks, markdown.RenderBlock(c.block(b)))
	}
	chunks = c.nodes(doc.Nodes, chunks)
	body := strings.Join(chunks, "\n\n")

	fm := frontMatter(doc)
	if fm.IsZero() {
		return strings.TrimSpace(body), nil
	}
	header, err := format.RenderFrontMatter(fm)
	if err != nil {
		return "", fmt.Errorf("failed to convert org: %w", err)
	}
	return strings.TrimSpace(header + "\n" + body), nil
}

func frontMatter(doc *org.Document) format.FrontMatter {
	var fm format.FrontMatter
	fm.ID, _ = doc.Property("ID")
	if v, ok := doc.Property("ROAM_ALIASES"); ok {
		fm.Aliases = parseOrgAliases(v)
	}
	if v, ok := doc.Property("ROAM_REFS"); ok {
		fm.Refs = strings.Fields(v)
	}
	fm.Title, _ = doc.Keyword("TITLE")
	if v, ok := doc.Keyword("FILETAGS"); ok {
		fm.Tags = parseOrgTags(v)
	}
	return fm
}

type orgToMD struct {
	// names maps org IDs to note names
	names map[string]string
}

// nodes appends each headline, its body and its children in document order.
// Headline drawers have no markdown form and are dropped.
func (c *orgToMD) nodes(nodes []*org.Node, chunks []string) []string {
	for _, n := range nodes {
		h := orgHeadline(n)
		h.title = c.inlines(h.title)
		chunks = append(chunks, h.markdown())
		for _, b := range n.Body {
			chunks = append(chunks, markdown.RenderBlock(c.block(b)))
		}
		chunks = c.nodes(n.Children, chunks)
	}
	return chunks
}

func (c *orgToMD) block(b ast.Block) ast.Block {
	switch v := b.(type) {
	case ast.Div:
		if len(v.Classes) > 0 && calloutTypes[v.Classes[0]] {
			b = calloutQuote(v)
		}
	case ast.ImageBlock:
		if src, ok := strings.CutPrefix(v.Src, "file:"); ok {
			return ast.Paragraph{Content: embed(src)}
		}
	}
	return rewriteBlock(b, c.inlines)
}

// calloutQuote turns a special block into a "> [!type]" quote
func calloutQuote(d ast.Div) ast.Quote {
	children := d.Children
	if len(children) == 1 {
		if code, ok := children[0].(ast.CodeBlock); ok && code.Language == "" {
			children = markdown.ParseBlocks(code.Content)
		}
	}

	marker := ast.Text{Text: "[!" + d.Classes[0] + "]"}
	if len(children) > 0 {
		if p, ok := children[0].(ast.Paragraph); ok {
			content := append([]ast.Inline{marker, ast.Text{Text: "\n"}}, p.Content...)
			blocks := append([]ast.Block{ast.Paragraph{Content: ast.MergeText(content)}}, children[1:]...)
			return ast.Quote{Blocks: blocks}
		}
	}
	return ast.Quote{Blocks: append([]ast.Block{ast.Paragraph{Content: []ast.Inline{marker}}}, children...)}
}

// embed returns the ![[file]] form of an attachment
func embed(src string) []ast.Inline {
	return []ast.Inline{ast.Text{Text: "!"}, ast.Link{Text: ast.Texts(src), Target: src, Wiki: true}}
}

func (c *orgToMD) inlines(in []ast.Inline) []ast.Inline {
	var out []ast.Inline
	for _, x := range in {
		switch v := x.(type) {
		case ast.Link:
			out = append(out, c.link(v))
		case ast.Image:
			if src, ok := strings.CutPrefix(v.Src, "file:"); ok {
				out = append(out, embed(src)...)
				continue
			}
			out = append(out, v)
		default:
			out = append(out, rewriteSpans(v, c.inlines))
		}
	}
	return ast.MergeText(out)
}

func (c *orgToMD) link(l ast.Link) ast.Link {
	desc := ast.PlainText(l.Text)
	described := desc != "" && desc != l.Target

	if id, ok := strings.CutPrefix(l.Target, "id:"); ok {
		name, known := c.names[id]
		if !known {
			name = id
		}
		text := ast.Texts(name)
		if described {
			text = ast.Texts(desc)
		}
		return ast.Link{Text: text, Target: name, Wiki: true}
	}

	target := strings.TrimPrefix(l.Target, "file:")
	if !described {
		return ast.Link{Text: ast.Texts(target), Target: target}
	}
	return ast.Link{Text: c.inlines(l.Text), Target: target}
}
