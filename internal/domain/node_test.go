package domain

import (
	"path/filepath"
	"testing"
)

func p(parts ...string) string {
	return filepath.Join(append([]string{string(filepath.Separator)}, parts...)...)
}

// buildSampleTree returns:
//
//	/root
//	  docs/
//	    a.txt
//	    deep/
//	      b.txt
//	  music/
//	  readme.md
func buildSampleTree(t *testing.T) *TreeNode {
	t.Helper()
	root := NewDirectory(p("root"))
	docs := NewDirectory(p("root", "docs"))
	deep := NewDirectory(p("root", "docs", "deep"))
	music := NewDirectory(p("root", "music"))

	mustAttach(t, root, docs)
	mustAttach(t, root, music)
	mustAttach(t, root, NewFile(p("root", "readme.md")))
	mustAttach(t, docs, NewFile(p("root", "docs", "a.txt")))
	mustAttach(t, docs, deep)
	mustAttach(t, deep, NewFile(p("root", "docs", "deep", "b.txt")))
	return root
}

func mustAttach(t *testing.T, parent, child *TreeNode) {
	t.Helper()
	if err := parent.Attach(child, len(parent.Children)); err != nil {
		t.Fatalf("Attach(%s, %s) failed: %v", parent.Path, child.Path, err)
	}
}

func assertPathInvariant(t *testing.T, root *TreeNode) {
	t.Helper()
	root.Walk(func(n *TreeNode) bool {
		for _, child := range n.Children {
			if want := ChildPath(n.Path, child.Name); child.Path != want {
				t.Errorf("child path = %s, expected %s", child.Path, want)
			}
			if child.Parent != n {
				t.Errorf("child %s has wrong parent", child.Path)
			}
		}
		return true
	})
}

func TestAttach_ClampsIndex(t *testing.T) {
	tests := []struct {
		name  string
		index int
		want  int
	}{
		{"negative", -5, 0},
		{"middle", 1, 1},
		{"past end", 99, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := NewDirectory(p("d"))
			mustAttach(t, dir, NewFile(p("d", "x")))
			mustAttach(t, dir, NewFile(p("d", "y")))

			child := NewFile(p("elsewhere", "z"))
			if err := dir.Attach(child, tt.index); err != nil {
				t.Fatalf("Attach failed: %v", err)
			}
			if dir.Children[tt.want] != child {
				t.Errorf("child inserted at wrong position, expected %d", tt.want)
			}
			if child.Path != p("d", "z") {
				t.Errorf("expected repaired path %s, got %s", p("d", "z"), child.Path)
			}
		})
	}
}

func TestAttach_RejectsFileParent(t *testing.T) {
	file := NewFile(p("f.txt"))
	if err := file.Attach(NewFile(p("g.txt")), 0); err != ErrNotDirectory {
		t.Errorf("expected ErrNotDirectory, got %v", err)
	}
}

func TestDetach(t *testing.T) {
	root := buildSampleTree(t)
	b := root.Find(p("root", "docs", "deep", "b.txt"))
	if b == nil {
		t.Fatal("b.txt not found")
	}

	if !root.Detach(b) {
		t.Fatal("expected Detach to find b.txt")
	}
	if root.Find(b.Path) != nil {
		t.Error("b.txt still reachable after Detach")
	}
	if root.Detach(b) {
		t.Error("second Detach should report not found")
	}
}

func TestDetach_StaleParentFallsBackToSearch(t *testing.T) {
	root := buildSampleTree(t)
	a := root.Find(p("root", "docs", "a.txt"))
	a.Parent = nil // unknown parent

	if !root.Detach(a) {
		t.Fatal("expected whole-tree search to find a.txt")
	}
	if len(root.Find(p("root", "docs")).Children) != 1 {
		t.Error("docs should have one child left")
	}
}

func TestRename_RoundTripRestoresPaths(t *testing.T) {
	root := buildSampleTree(t)
	docs := root.Find(p("root", "docs"))

	before := map[*TreeNode]string{}
	docs.Walk(func(n *TreeNode) bool {
		before[n] = n.Path
		return true
	})

	docs.Rename("papers")
	if docs.Path != p("root", "papers") {
		t.Fatalf("expected %s, got %s", p("root", "papers"), docs.Path)
	}
	if b := root.Find(p("root", "papers", "deep", "b.txt")); b == nil {
		t.Error("descendant path not cascaded")
	}
	assertPathInvariant(t, root)

	docs.Rename("docs")
	for n, path := range before {
		if n.Path != path {
			t.Errorf("path not restored: got %s, expected %s", n.Path, path)
		}
	}
}

func TestReparent(t *testing.T) {
	root := buildSampleTree(t)
	deep := root.Find(p("root", "docs", "deep"))
	music := root.Find(p("root", "music"))

	if err := root.Reparent(deep, music); err != nil {
		t.Fatalf("Reparent failed: %v", err)
	}
	if deep.Parent != music {
		t.Error("deep should now belong to music")
	}
	if root.Find(p("root", "music", "deep", "b.txt")) == nil {
		t.Error("descendant not found under new location")
	}
	if len(root.Find(p("root", "docs")).Children) != 1 {
		t.Error("deep still owned by docs")
	}
	assertPathInvariant(t, root)
}

func TestReparent_Invalid(t *testing.T) {
	root := buildSampleTree(t)
	docs := root.Find(p("root", "docs"))
	deep := root.Find(p("root", "docs", "deep"))
	readme := root.Find(p("root", "readme.md"))

	tests := []struct {
		name    string
		node    *TreeNode
		dest    *TreeNode
		wantErr error
	}{
		{"into itself", docs, docs, ErrInvalidMove},
		{"into descendant", docs, deep, ErrInvalidMove},
		{"into file", deep, readme, ErrNotDirectory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := root.Reparent(tt.node, tt.dest); err != tt.wantErr {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
	assertPathInvariant(t, root)
}

func TestIsWithin(t *testing.T) {
	tests := []struct {
		root, path string
		expected   bool
	}{
		{p("a"), p("a"), true},
		{p("a"), p("a", "b"), true},
		{p("a"), p("ab"), false},
		{p("a", "b"), p("a"), false},
		{"", p("a"), false},
		{p("a"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.root+"|"+tt.path, func(t *testing.T) {
			if got := IsWithin(tt.root, tt.path); got != tt.expected {
				t.Errorf("IsWithin(%q, %q) = %v, expected %v", tt.root, tt.path, got, tt.expected)
			}
		})
	}
}

func TestSortChildren_DirectoriesFirst(t *testing.T) {
	dir := NewDirectory(p("d"))
	mustAttach(t, dir, NewFile(p("d", "b.txt")))
	mustAttach(t, dir, NewDirectory(p("d", "Zeta")))
	mustAttach(t, dir, NewFile(p("d", "A.txt")))
	mustAttach(t, dir, NewDirectory(p("d", "alpha")))

	dir.SortChildren()

	want := []string{"alpha", "Zeta", "A.txt", "b.txt"}
	for i, name := range want {
		if dir.Children[i].Name != name {
			t.Errorf("position %d: got %s, expected %s", i, dir.Children[i].Name, name)
		}
	}
}

func TestFlatten_OnlyExpanded(t *testing.T) {
	root := buildSampleTree(t)
	root.Expand()

	if got := len(root.Flatten()); got != 4 {
		t.Errorf("expected 4 visible nodes, got %d", got)
	}

	b := root.Find(p("root", "docs", "deep", "b.txt"))
	b.ExpandAncestors()
	if got := len(root.Flatten()); got != root.Count() {
		t.Errorf("expected all %d nodes visible, got %d", root.Count(), got)
	}
	if b.Depth() != 3 {
		t.Errorf("expected depth 3, got %d", b.Depth())
	}
}
