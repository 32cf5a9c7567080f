// Package org implements the org-mode grammar: headlines, section bodies,
// whole documents and their lowering into the shared block tree.
package org

import (
	"regexp"
	"slices"
	"strings"
)

// MaxLevel is the deepest headline accepted, matching the heading levels of the block tree.
const MaxLevel = 6

// DefaultTodoKeywords are recognized when no keyword list is configured
var DefaultTodoKeywords = []string{"TODO", "DONE"}

var tagsRegexp = regexp.MustCompile(`^:([\p{L}\p{N}_@#%]+:)+$`)

// Headline is a parsed "** TODO Title :tag:" line
type Headline struct {
	Level   int
	Keyword string
	Title   string
	Tags    []string
}

// ParseHeadline parses line as an org headline. keywords lists the TODO
// keywords to recognize; nil means DefaultTodoKeywords.
func ParseHeadline(line string, keywords []string) (Headline, bool) {
	level := 0
	for level < len(line) && line[level] == '*' {
		level++
	}
	if level == 0 || level > MaxLevel || level >= len(line) || line[level] != ' ' {
		return Headline{}, false
	}
	if keywords == nil {
		keywords = DefaultTodoKeywords
	}

	h := Headline{Level: level}
	rest := strings.TrimSpace(line[level+1:])

	if fields := strings.Fields(rest); len(fields) > 1 {
		if last := fields[len(fields)-1]; tagsRegexp.MatchString(last) {
			h.Tags = strings.Split(strings.Trim(last, ":"), ":")
			rest = strings.TrimSpace(strings.TrimSuffix(rest, last))
		}
	}

	if kw, title, found := strings.Cut(rest, " "); found && slices.Contains(keywords, kw) {
		h.Keyword = kw
		rest = strings.TrimSpace(title)
	} else if slices.Contains(keywords, rest) {
		h.Keyword = rest
		rest = ""
	}

	h.Title = rest
	return h, true
}

// IsHeadline reports whether line starts an org headline
func IsHeadline(line string) bool {
	_, ok := ParseHeadline(line, nil)
	return ok
}

// String renders the headline back to org syntax
func (h Headline) String() string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat("*", h.Level))
	if h.Keyword != "" {
		sb.WriteString(" " + h.Keyword)
	}
	if h.Title != "" {
		sb.WriteString(" " + h.Title)
	}
	if len(h.Tags) > 0 {
		sb.WriteString(" :" + strings.Join(h.Tags, ":") + ":")
	}
	return sb.String()
}

// Property is a key/value pair from a :PROPERTIES: drawer or a #+KEY: line
type Property struct {
	Key   string
	Value string
}

var propertyRegexp = regexp.MustCompile(`^:([^:\s]+):(?:\s+(.*))?$`)

// ParsePropertyLine parses a ":KEY: value" drawer line
func ParsePropertyLine(line string) (Property, bool) {
	m := propertyRegexp.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return Property{}, false
	}
	key := m[1]
	if strings.EqualFold(key, "PROPERTIES") || strings.EqualFold(key, "END") {
		return Property{}, false
	}
	return Property{Key: key, Value: strings.TrimSpace(m[2])}, true
}

var keywordRegexp = regexp.MustCompile(`^#\+([A-Za-z_]+):\s*(.*)$`)

// ParseKeywordLine parses a "#+KEY: value" line
func ParseKeywordLine(line string) (Property, bool) {
	m := keywordRegexp.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return Property{}, false
	}
	return Property{Key: strings.ToUpper(m[1]), Value: strings.TrimSpace(m[2])}, true
}

// IsDrawerStart reports whether line opens a :PROPERTIES: drawer
func IsDrawerStart(line string) bool {
	return strings.EqualFold(strings.TrimSpace(line), ":PROPERTIES:")
}

// IsDrawerEnd reports whether line closes a drawer
func IsDrawerEnd(line string) bool {
	return strings.EqualFold(strings.TrimSpace(line), ":END:")
}

// RenderDrawer renders properties as a :PROPERTIES: drawer. It returns ""
// when there is nothing to write.
func RenderDrawer(props []Property) string {
	if len(props) == 0 {
		return ""
	}
	lines := []string{":PROPERTIES:"}
	for _, p := range props {
		if p.Value == "" {
			lines = append(lines, ":"+p.Key+":")
			continue
		}
		lines = append(lines, ":"+p.Key+": "+p.Value)
	}
	lines = append(lines, ":END:")
	return strings.Join(lines, "\n")
}
