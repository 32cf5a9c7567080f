package section

import (
	"testing"

	"github.com/gerunddev/hybridnote/ast"
	"github.com/gerunddev/hybridnote/parser"
)

func heading(id NodeID, level int, title string) BlockNode {
	return BlockNode{ID: id, Block: ast.NewHeading(level, title)}
}

func para(id NodeID, text string) BlockNode {
	return BlockNode{ID: id, Block: ast.NewParagraph(text)}
}

func TestBuildNestsByLevel(t *testing.T) {
	root := Build([]BlockNode{
		heading(1, 1, "H1"),
		para(2, "A"),
		heading(3, 2, "H2"),
		para(4, "B"),
		heading(5, 1, "H1 again"),
		para(6, "C"),
	})

	if root.Level != 0 || root.Title != nil {
		t.Fatalf("root = level %d title %v, want level 0 and no title", root.Level, root.Title)
	}
	if len(root.Children) != 2 {
		t.Fatalf("root has %d children, want 2", len(root.Children))
	}

	first := root.Children[0]
	if first.Level != 1 || len(first.Blocks) != 1 || len(first.Children) != 1 {
		t.Errorf("first section = %+v", first)
	}
	if nested := first.Children[0]; nested.Level != 2 || len(nested.Blocks) != 1 || nested.TitleText() != "H2" {
		t.Errorf("nested section = %+v", nested)
	}
	if second := root.Children[1]; len(second.Blocks) != 1 || second.TitleText() != "H1 again" {
		t.Errorf("second section = %+v", second)
	}
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name         string
		nodes        []BlockNode
		rootBlocks   int
		rootChildren int
	}{
		{"empty", nil, 0, 0},
		{"no headings", []BlockNode{para(1, "a"), para(2, "b")}, 2, 0},
		{"preamble stays at root", []BlockNode{para(1, "Intro"), heading(2, 1, "Title"), para(3, "Body")}, 1, 1},
		{"level skip nests", []BlockNode{heading(1, 1, "H1"), heading(2, 3, "H3"), para(3, "deep")}, 0, 1},
		{"deeper first", []BlockNode{heading(1, 3, "H3"), heading(2, 1, "H1")}, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := Build(tt.nodes)
			if len(root.Blocks) != tt.rootBlocks {
				t.Errorf("root blocks = %d, want %d", len(root.Blocks), tt.rootBlocks)
			}
			if len(root.Children) != tt.rootChildren {
				t.Errorf("root children = %d, want %d", len(root.Children), tt.rootChildren)
			}
		})
	}
}

func TestBuildPreservesIDs(t *testing.T) {
	root := Build([]BlockNode{heading(10, 1, "Title"), para(11, "Text")})
	section := root.Children[0]
	if section.ID != 10 {
		t.Errorf("section ID = %d, want 10", section.ID)
	}
	if section.Blocks[0].ID != 11 {
		t.Errorf("block ID = %d, want 11", section.Blocks[0].ID)
	}

	found, ok := root.Find(10)
	if !ok || found.TitleText() != "Title" {
		t.Errorf("Find(10) = %+v, %v", found, ok)
	}
	if _, ok := root.Find(11); ok {
		t.Error("Find(11) found a section for a paragraph")
	}
}

func TestBuildManySiblings(t *testing.T) {
	var nodes []BlockNode
	for i := 0; i < 100; i++ {
		nodes = append(nodes, heading(NodeID(i*2), 1, "H"), para(NodeID(i*2+1), "P"))
	}
	if got := len(Build(nodes).Children); got != 100 {
		t.Errorf("children = %d, want 100", got)
	}
}

func TestTextSpan(t *testing.T) {
	s := TextSpan{Start: 2, End: 5}
	tests := []struct {
		pos  int
		want bool
	}{
		{1, false}, {2, true}, {4, true}, {5, false},
	}
	for _, tt := range tests {
		if got := s.Contains(tt.pos); got != tt.want {
			t.Errorf("Contains(%d) = %v, want %v", tt.pos, got, tt.want)
		}
	}

	if !s.Intersects(TextSpan{Start: 4, End: 9}) {
		t.Error("overlapping spans do not intersect")
	}
	if s.Intersects(TextSpan{Start: 5, End: 9}) {
		t.Error("adjacent spans intersect")
	}
}

func TestNodesFromHybrid(t *testing.T) {
	m := parser.NewDefaultManager()
	doc := "Preamble\n\n# One\nbody one\n\n## Two\n\n```go\nx\n```\n\n# Three"
	if err := m.ParseDocument(doc); err != nil {
		t.Fatal(err)
	}

	nodes := NodesFromHybrid(m.Blocks())
	// "# One\nbody one" is one chunk holding two blocks
	if len(nodes) != 6 {
		t.Fatalf("got %d nodes, want 6", len(nodes))
	}
	for i, n := range nodes {
		if n.ID != NodeID(i+1) {
			t.Errorf("node %d ID = %d", i, n.ID)
		}
	}
	if nodes[1].Span != (TextSpan{Start: 2, End: 4}) || nodes[2].Span != nodes[1].Span {
		t.Errorf("split chunk spans = %+v, %+v", nodes[1].Span, nodes[2].Span)
	}

	root := NewDocument("doc", nodes).Root
	if len(root.Blocks) != 1 || len(root.Children) != 2 {
		t.Fatalf("root = %d blocks %d children, want 1 and 2", len(root.Blocks), len(root.Children))
	}
	one := root.Children[0]
	if one.TitleText() != "One" || len(one.Blocks) != 1 || len(one.Children) != 1 {
		t.Errorf("section One = %+v", one)
	}
	if two := one.Children[0]; len(two.Blocks) != 1 {
		t.Errorf("section Two should own the code block: %+v", two)
	}

	if sec, ok := root.At(8); !ok || sec.TitleText() != "Two" {
		t.Errorf("At(8) = %+v, %v, want section Two", sec, ok)
	}
	if sec, ok := root.At(11); !ok || sec.TitleText() != "Three" {
		t.Errorf("At(11) = %+v, %v, want section Three", sec, ok)
	}
}

func TestWalkSkipsChildren(t *testing.T) {
	root := Build([]BlockNode{heading(1, 1, "A"), heading(2, 2, "A.1"), heading(3, 1, "B")})
	var seen []string
	root.Walk(func(s *Section) bool {
		seen = append(seen, s.TitleText())
		return s.TitleText() != "A"
	})
	want := []string{"", "A", "B"}
	if len(seen) != len(want) {
		t.Fatalf("visited %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("visited %v, want %v", seen, want)
			break
		}
	}
}
