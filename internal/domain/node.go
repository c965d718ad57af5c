package domain

import (
	"path/filepath"
	"slices"
	"strings"
)

// NodeKind tags a tree node as a file or a directory. Only directories own
// children.
type NodeKind int

const (
	KindFile NodeKind = iota
	KindDirectory
)

func (k NodeKind) String() string {
	switch k {
	case KindDirectory:
		return "Directory"
	default:
		return "File"
	}
}

// TreeNode represents one file-system entry in the mirrored tree
type TreeNode struct {
	Kind       NodeKind
	Name       string // Last path segment
	Path       string // Absolute path, identity key
	Children   []*TreeNode
	Parent     *TreeNode
	IsExpanded bool
}

// NewDirectory creates a directory node for path
func NewDirectory(path string) *TreeNode {
	path = filepath.Clean(path)
	return &TreeNode{Kind: KindDirectory, Name: filepath.Base(path), Path: path}
}

// NewFile creates a file node for path
func NewFile(path string) *TreeNode {
	path = filepath.Clean(path)
	return &TreeNode{Kind: KindFile, Name: filepath.Base(path), Path: path}
}

// IsDir reports whether the node is a directory
func (n *TreeNode) IsDir() bool {
	return n.Kind == KindDirectory
}

// ChildPath builds the path of a child entry named name under parentPath
func ChildPath(parentPath, name string) string {
	return filepath.Join(parentPath, name)
}

// IsWithin reports whether path equals root or lies below it
func IsWithin(root, path string) bool {
	if root == "" || path == "" {
		return false
	}
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Attach inserts child into n's children at index, clamped to
// [0, len(children)]. The child's path is repaired if it does not match its new
// location.
func (n *TreeNode) Attach(child *TreeNode, index int) error {
	if !n.IsDir() {
		return ErrNotDirectory
	}
	index = max(0, min(index, len(n.Children)))
	n.Children = slices.Insert(n.Children, index, child)
	child.Parent = n
	if want := ChildPath(n.Path, child.Name); child.Path != want {
		child.Relocate(want)
	}
	return nil
}

// Detach removes node from its owning collection within the tree rooted at n.
// The parent link is tried first; when it is unknown or stale the whole tree is
// searched. Returns whether the node was found.
func (n *TreeNode) Detach(node *TreeNode) bool {
	if node == nil {
		return false
	}
	if p := node.Parent; p != nil && p.removeChild(node) {
		node.Parent = nil
		return true
	}

	found := false
	n.Walk(func(candidate *TreeNode) bool {
		if found {
			return false
		}
		if candidate.removeChild(node) {
			found = true
			return false
		}
		return true
	})
	if found {
		node.Parent = nil
	}
	return found
}

func (n *TreeNode) removeChild(child *TreeNode) bool {
	i := slices.Index(n.Children, child)
	if i < 0 {
		return false
	}
	n.Children = slices.Delete(n.Children, i, i+1)
	return true
}

// Relocate sets the node's path, derives its name, and cascades the new prefix
// to every descendant.
func (n *TreeNode) Relocate(newPath string) {
	n.Path = filepath.Clean(newPath)
	n.Name = filepath.Base(n.Path)
	for _, child := range n.Children {
		child.Relocate(ChildPath(n.Path, child.Name))
	}
}

// Rename changes the node's name in place, keeping it in the same parent
func (n *TreeNode) Rename(newName string) {
	dir := filepath.Dir(n.Path)
	if n.Parent != nil {
		dir = n.Parent.Path
	}
	n.Relocate(ChildPath(dir, newName))
}

// Reparent detaches node from the tree rooted at n, cascades its path under
// dest and appends it to dest's children.
func (n *TreeNode) Reparent(node, dest *TreeNode) error {
	if !dest.IsDir() {
		return ErrNotDirectory
	}
	if node == dest || node.IsAncestorOf(dest) {
		return ErrInvalidMove
	}
	n.Detach(node)
	node.Relocate(ChildPath(dest.Path, node.Name))
	return dest.Attach(node, len(dest.Children))
}

// IsAncestorOf reports whether n is a strict ancestor of other
func (n *TreeNode) IsAncestorOf(other *TreeNode) bool {
	for p := other.Parent; p != nil; p = p.Parent {
		if p == n {
			return true
		}
	}
	return false
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the visited node's children.
func (n *TreeNode) Walk(fn func(*TreeNode) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Find returns the node at path in the subtree rooted at n, or nil
func (n *TreeNode) Find(path string) *TreeNode {
	path = filepath.Clean(path)
	if !IsWithin(n.Path, path) {
		return nil
	}
	if n.Path == path {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(path); found != nil {
			return found
		}
	}
	return nil
}

// Count returns the number of nodes in the subtree, n included
func (n *TreeNode) Count() int {
	count := 0
	n.Walk(func(*TreeNode) bool {
		count++
		return true
	})
	return count
}

// SortChildren orders children directories first, then by case-insensitive name
func (n *TreeNode) SortChildren() {
	slices.SortStableFunc(n.Children, func(a, b *TreeNode) int {
		if a.IsDir() != b.IsDir() {
			if a.IsDir() {
				return -1
			}
			return 1
		}
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
}

// Flatten returns all visible nodes in the tree (for list rendering)
func (n *TreeNode) Flatten() []*TreeNode {
	var result []*TreeNode
	n.flattenRecursive(&result)
	return result
}

func (n *TreeNode) flattenRecursive(result *[]*TreeNode) {
	*result = append(*result, n)
	if n.IsExpanded {
		for _, child := range n.Children {
			child.flattenRecursive(result)
		}
	}
}

// Depth returns the depth of this node in the tree
func (n *TreeNode) Depth() int {
	depth := 0
	for current := n.Parent; current != nil; current = current.Parent {
		depth++
	}
	return depth
}

// Toggle expands or collapses the node
func (n *TreeNode) Toggle() {
	n.IsExpanded = !n.IsExpanded
}

// Expand sets the node as expanded
func (n *TreeNode) Expand() {
	n.IsExpanded = true
}

// Collapse sets the node as collapsed
func (n *TreeNode) Collapse() {
	n.IsExpanded = false
}

// ExpandAncestors expands every ancestor of n so it shows up in Flatten
func (n *TreeNode) ExpandAncestors() {
	for p := n.Parent; p != nil; p = p.Parent {
		p.IsExpanded = true
	}
}
