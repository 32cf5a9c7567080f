package convert

import (
	"regexp"
	"strings"

	"github.com/gerunddev/hybridnote/ast"
	"github.com/gerunddev/hybridnote/markdown"
	"github.com/gerunddev/hybridnote/org"
)

var (
	trailingTagsRegexp = regexp.MustCompile(`(?:\s+#[\p{L}\p{N}_@%]+)+$`)
	hashtagRegexp      = regexp.MustCompile(`#([\p{L}\p{N}_@%]+)`)
)

// headline is a heading in either dialect with its task state, org tags
// and planning dates. Markdown spells tasks as "## - [ ] Title" followed by
// Obsidian Tasks metadata lines; org uses TODO keywords and a planning line.
type headline struct {
	level     int
	keyword   string
	priority  string
	title     []ast.Inline
	tags      []string
	scheduled string
	deadline  string
	closed    string
}

func markdownHeadline(h ast.Heading) headline {
	hl := headline{level: h.Level}
	content := h.Content
	if rest, ok := cutTextPrefix(content, "- [ ] "); ok {
		hl.keyword, content = "TODO", rest
	} else if rest, ok := cutTextPrefix(content, "- [x] "); ok {
		hl.keyword, content = "DONE", rest
	}
	hl.title, hl.tags = cutTrailingTags(content)
	return hl
}

// cutTrailingTags splits " #tag" words off the end of a heading
func cutTrailingTags(content []ast.Inline) ([]ast.Inline, []string) {
	if len(content) == 0 {
		return content, nil
	}
	last, ok := content[len(content)-1].(ast.Text)
	if !ok {
		return content, nil
	}
	loc := trailingTagsRegexp.FindStringIndex(last.Text)
	if loc == nil {
		return content, nil
	}

	var tags []string
	for _, m := range hashtagRegexp.FindAllStringSubmatch(last.Text[loc[0]:], -1) {
		tags = append(tags, m[1])
	}
	title := append([]ast.Inline(nil), content[:len(content)-1]...)
	if rest := last.Text[:loc[0]]; rest != "" {
		title = append(title, ast.Text{Text: rest})
	}
	return title, tags
}

// absorbMetadata takes the task dates and priority from a paragraph made
// only of metadata lines. It reports false, leaving h unchanged, when any
// line is something else.
func (h *headline) absorbMetadata(p ast.Paragraph) bool {
	meta := *h
	for _, line := range strings.Split(markdown.RenderInlines(p.Content), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, scheduledMarker):
			meta.scheduled = strings.TrimSpace(strings.TrimPrefix(line, scheduledMarker))
		case strings.HasPrefix(line, deadlineMarker):
			meta.deadline = strings.TrimSpace(strings.TrimPrefix(line, deadlineMarker))
		case strings.HasPrefix(line, closedMarker):
			meta.closed = strings.TrimSpace(strings.TrimPrefix(line, closedMarker))
		case strings.HasPrefix(line, priorityMarker):
			level := strings.TrimSpace(strings.TrimPrefix(line, priorityMarker))
			for letter, name := range priorityNames {
				if name == level {
					meta.priority = letter
				}
			}
		default:
			return false
		}
	}
	*h = meta
	return true
}

// org renders the headline and, when it has dates, its planning line
func (h headline) org() string {
	title := org.RenderInlines(h.title)
	if h.priority != "" {
		title = strings.TrimSpace("[#" + h.priority + "] " + title)
	}
	line := org.Headline{Level: h.level, Keyword: h.keyword, Title: title, Tags: h.tags}.String()

	var planning []string
	if h.scheduled != "" {
		planning = append(planning, "SCHEDULED: <"+h.scheduled+">")
	}
	if h.deadline != "" {
		planning = append(planning, "DEADLINE: <"+h.deadline+">")
	}
	if h.closed != "" {
		planning = append(planning, "CLOSED: ["+h.closed+"]")
	}
	if len(planning) == 0 {
		return line
	}
	return line + "\n" + strings.Join(planning, " ")
}

func orgHeadline(n *org.Node) headline {
	h := headline{level: n.Headline.Level, keyword: n.Headline.Keyword, tags: n.Headline.Tags}
	title := n.Headline.Title
	if h.keyword != "" {
		if m := priorityRegexp.FindStringSubmatch(title); m != nil {
			h.priority = m[1]
			title = title[len(m[0]):]
		}
	}
	h.title = org.ParseInlines(title)

	for _, m := range planningRegexp.FindAllStringSubmatch(n.Planning, -1) {
		switch m[1] {
		case "SCHEDULED":
			h.scheduled = m[2]
		case "DEADLINE":
			h.deadline = m[2]
		case "CLOSED":
			h.closed = m[2]
		}
	}
	return h
}

// markdown renders the heading line followed by task metadata lines
func (h headline) markdown() string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat("#", h.level) + " ")
	switch h.keyword {
	case "TODO":
		sb.WriteString("- [ ] ")
	case "DONE":
		sb.WriteString("- [x] ")
	}
	sb.WriteString(markdown.RenderInlines(h.title))
	for _, tag := range h.tags {
		sb.WriteString(" #" + tag)
	}
	if h.keyword == "" {
		return sb.String()
	}

	if h.scheduled != "" {
		sb.WriteString("\n" + scheduledMarker + h.scheduled)
	}
	if h.deadline != "" {
		sb.WriteString("\n" + deadlineMarker + h.deadline)
	}
	if h.closed != "" {
		sb.WriteString("\n" + closedMarker + h.closed)
	}
	if name, ok := priorityNames[h.priority]; ok {
		sb.WriteString("\n" + priorityMarker + name)
	}
	return sb.String()
}
