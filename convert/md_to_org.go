package convert

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gerunddev/hybridnote/ast"
	"github.com/gerunddev/hybridnote/format"
	"github.com/gerunddev/hybridnote/markdown"
	"github.com/gerunddev/hybridnote/org"
)

var calloutRegexp = regexp.MustCompile(`^\[!([A-Za-z]+)\][ \t]*\n?`)

// MarkdownToOrg converts markdown content to org-mode.
//
// idMap maps org IDs to note names. A wiki link to a known name becomes an
// id: link; a target that already is a UUID is used as the ID, and any
// other target gets a fresh ID shared by every link to it.
func MarkdownToOrg(mdContent string, idMap map[string]string) (string, error) {
	if !utf8.ValidString(mdContent) {
		return "", fmt.Errorf("failed to convert markdown: %w", ErrInvalidUTF8)
	}
	fm, body, _ := format.SplitFrontMatter(mdContent)
	c := &mdToOrg{ids: reverseIDMap(idMap)}

	blocks := markdown.ParseBlocks(body)
	var chunks []string
	for i := 0; i < len(blocks); i++ {
		h, ok := blocks[i].(ast.Heading)
		if !ok {
			chunks = append(chunks, org.RenderBlock(c.block(blocks[i])))
			continue
		}

		hl := markdownHeadline(h)
		if hl.keyword != "" && i+1 < len(blocks) {
			if p, ok := blocks[i+1].(ast.Paragraph); ok && hl.absorbMetadata(p) {
				i++
			}
		}
		hl.title = c.inlines(hl.title)
		chunks = append(chunks, hl.org())
	}

	return strings.TrimSpace(orgHeader(fm) + strings.Join(chunks, "\n\n")), nil
}

// orgHeader turns front matter into an org-roam drawer, #+title and #+filetags
func orgHeader(fm format.FrontMatter) string {
	var props []org.Property
	if fm.ID != "" {
		props = append(props, org.Property{Key: "ID", Value: fm.ID})
	}
	if len(fm.Aliases) > 0 {
		quoted := make([]string, len(fm.Aliases))
		for i, alias := range fm.Aliases {
			quoted[i] = `"` + alias + `"`
		}
		props = append(props, org.Property{Key: "ROAM_ALIASES", Value: strings.Join(quoted, " ")})
	}
	if len(fm.Refs) > 0 {
		props = append(props, org.Property{Key: "ROAM_REFS", Value: strings.Join(fm.Refs, " ")})
	}

	var sb strings.Builder
	if drawer := org.RenderDrawer(props); drawer != "" {
		sb.WriteString(drawer + "\n")
	}
	if fm.Title != "" {
		sb.WriteString("#+title: " + fm.Title + "\n")
	}
	if len(fm.Tags) > 0 {
		sb.WriteString("#+filetags: :" + strings.Join(fm.Tags, ":") + ":\n")
	}
	if sb.Len() > 0 {
		sb.WriteString("\n")
	}
	return sb.String()
}

type mdToOrg struct {
	// ids maps note names to org IDs
	ids map[string]string
}

func (c *mdToOrg) block(b ast.Block) ast.Block {
	if q, ok := b.(ast.Quote); ok {
		if div, ok := calloutDiv(q); ok {
			b = div
		}
	}
	return rewriteBlock(b, c.inlines)
}

// calloutDiv turns "> [!type] title" quotes into a special block of that type
func calloutDiv(q ast.Quote) (ast.Div, bool) {
	if len(q.Blocks) == 0 {
		return ast.Div{}, false
	}
	p, ok := q.Blocks[0].(ast.Paragraph)
	if !ok {
		return ast.Div{}, false
	}
	text := markdown.RenderInlines(p.Content)
	m := calloutRegexp.FindStringSubmatch(text)
	if m == nil {
		return ast.Div{}, false
	}

	children := q.Blocks[1:]
	if rest := strings.TrimSpace(text[len(m[0]):]); rest != "" {
		children = append([]ast.Block{ast.Paragraph{Content: markdown.ParseInlines(rest)}}, children...)
	}
	return ast.Div{Classes: []string{strings.ToLower(m[1])}, Children: children}, true
}

func (c *mdToOrg) inlines(in []ast.Inline) []ast.Inline {
	var out []ast.Inline
	for i := 0; i < len(in); i++ {
		switch v := in[i].(type) {
		case ast.Text:
			// ![[image.png]] embeds become file links
			if strings.HasSuffix(v.Text, "!") && i+1 < len(in) {
				if l, ok := in[i+1].(ast.Link); ok && l.Wiki && org.IsImagePath(l.Target) {
					if rest := strings.TrimSuffix(v.Text, "!"); rest != "" {
						out = append(out, ast.Text{Text: rest})
					}
					out = append(out, ast.Link{Target: "file:" + l.Target})
					i++
					continue
				}
			}
			out = append(out, v)
		case ast.Link:
			if v.Wiki {
				out = append(out, c.wikiLink(v))
				continue
			}
			v.Text = c.inlines(v.Text)
			out = append(out, v)
		default:
			out = append(out, rewriteSpans(v, c.inlines))
		}
	}
	return out
}

func (c *mdToOrg) wikiLink(l ast.Link) ast.Link {
	id, ok := c.ids[l.Target]
	if !ok {
		id = l.Target
		if !isUUID(id) {
			id = GenerateOrgID()
		}
		c.ids[l.Target] = id
	}

	link := ast.Link{Target: "id:" + id}
	if desc := ast.PlainText(l.Text); desc != "" && desc != l.Target {
		link.Text = l.Text
	}
	return link
}
