package org

import (
	"strings"

	"github.com/gerunddev/hybridnote/ast"
)

var planningKeywords = []string{"SCHEDULED:", "DEADLINE:", "CLOSED:"}

// Node is one headline with its drawer, body and child headlines
type Node struct {
	Headline   Headline
	Planning   string
	Properties []Property
	Body       []ast.Block
	Children   []*Node
}

// Property returns the value of the drawer property key, case-insensitively
func (n *Node) Property(key string) (string, bool) {
	return lookup(n.Properties, key)
}

// Document is a parsed org file
type Document struct {
	Keywords   []Property
	Properties []Property
	Preamble   []ast.Block
	Nodes      []*Node
}

// Keyword returns the value of a #+KEY: line, case-insensitively
func (d *Document) Keyword(key string) (string, bool) {
	return lookup(d.Keywords, key)
}

// Property returns the value of a file-level drawer property
func (d *Document) Property(key string) (string, bool) {
	return lookup(d.Properties, key)
}

func lookup(props []Property, key string) (string, bool) {
	for _, p := range props {
		if strings.EqualFold(p.Key, key) {
			return p.Value, true
		}
	}
	return "", false
}

// Parse builds the headline tree of an org document. Headlines nest by
// level using a stack; drawer properties attach to the nearest enclosing
// headline, or to the document before the first headline.
func Parse(text string, keywords []string) *Document {
	doc := &Document{}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var (
		stack   []*Node
		body    []string
		current *Node
	)

	flush := func() {
		blocks := ParseBody(body)
		body = nil
		if current == nil {
			doc.Preamble = append(doc.Preamble, blocks...)
			return
		}
		current.Body = append(current.Body, blocks...)
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if begin, ok := ParseBeginLine(line); ok {
			end := FindEnd(lines, i, begin.Type)
			if end < 0 {
				end = len(lines) - 1
			}
			body = append(body, lines[i:end+1]...)
			i = end
			continue
		}

		if h, ok := ParseHeadline(line, keywords); ok {
			flush()
			node := &Node{Headline: h}
			for len(stack) > 0 && stack[len(stack)-1].Headline.Level >= h.Level {
				stack = stack[:len(stack)-1]
			}
			if len(stack) == 0 {
				doc.Nodes = append(doc.Nodes, node)
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)
			current = node

			if i+1 < len(lines) && IsPlanningLine(lines[i+1]) {
				node.Planning = strings.TrimSpace(lines[i+1])
				i++
			}
			continue
		}

		if IsDrawerStart(line) {
			i++
			for ; i < len(lines) && !IsDrawerEnd(lines[i]); i++ {
				p, ok := ParsePropertyLine(lines[i])
				if !ok {
					continue
				}
				if current == nil {
					doc.Properties = append(doc.Properties, p)
				} else {
					current.Properties = append(current.Properties, p)
				}
			}
			continue
		}

		if current == nil {
			if kw, ok := ParseKeywordLine(line); ok {
				doc.Keywords = append(doc.Keywords, kw)
				continue
			}
		}

		body = append(body, line)
	}
	flush()
	return doc
}

// IsPlanningLine reports whether line is a SCHEDULED, DEADLINE or CLOSED line
func IsPlanningLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, kw := range planningKeywords {
		if strings.HasPrefix(trimmed, kw) {
			return true
		}
	}
	return false
}

// Tags returns the #+FILETAGS of the document followed by every headline
// tag, deduplicated in first-seen order.
func (d *Document) Tags() []string {
	seen := map[string]bool{}
	var tags []string
	add := func(tag string) {
		if tag != "" && !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}

	if filetags, ok := d.Keyword("FILETAGS"); ok {
		for _, tag := range strings.FieldsFunc(filetags, func(r rune) bool { return r == ':' || r == ' ' }) {
			add(tag)
		}
	}
	var visit func(nodes []*Node)
	visit = func(nodes []*Node) {
		for _, n := range nodes {
			for _, tag := range n.Headline.Tags {
				add(tag)
			}
			visit(n.Children)
		}
	}
	visit(d.Nodes)
	return tags
}

// Lower flattens the headline tree into a block sequence in pre-order: each
// headline's heading, then its body, then its children. TODO keywords stay
// in the heading text; tags, planning lines and drawers are dropped.
func (d *Document) Lower() []ast.Block {
	blocks := append([]ast.Block(nil), d.Preamble...)
	var visit func(nodes []*Node)
	visit = func(nodes []*Node) {
		for _, n := range nodes {
			title := n.Headline.Title
			if n.Headline.Keyword != "" {
				title = strings.TrimSpace(n.Headline.Keyword + " " + title)
			}
			blocks = append(blocks, ast.Heading{Level: n.Headline.Level, Content: ParseInlines(title)})
			blocks = append(blocks, n.Body...)
			visit(n.Children)
		}
	}
	visit(d.Nodes)
	return blocks
}
