package domain

import "strings"

// TreeIndex is a flat pre-order list of node references used for name search.
// It is rebuilt wholesale whenever the tree is loaded.
type TreeIndex struct {
	entries []*TreeNode
}

// BuildIndex walks root in pre-order and records every node
func BuildIndex(root *TreeNode) *TreeIndex {
	idx := &TreeIndex{}
	if root == nil {
		return idx
	}
	root.Walk(func(n *TreeNode) bool {
		idx.entries = append(idx.entries, n)
		return true
	})
	return idx
}

// Len returns the number of indexed nodes
func (idx *TreeIndex) Len() int {
	return len(idx.entries)
}

// Entries returns the indexed nodes in pre-order
func (idx *TreeIndex) Entries() []*TreeNode {
	return idx.entries
}

// Matches returns every node whose name contains query, case-insensitively.
// Prefix matches come first; within each group pre-order is kept.
func (idx *TreeIndex) Matches(query string) []*TreeNode {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var prefix, substring []*TreeNode
	for _, n := range idx.entries {
		name := strings.ToLower(n.Name)
		switch {
		case strings.HasPrefix(name, query):
			prefix = append(prefix, n)
		case strings.Contains(name, query):
			substring = append(substring, n)
		}
	}
	return append(prefix, substring...)
}

// Search returns the match at offset (wrapping past the last match) and the
// offset of the following match.
func (idx *TreeIndex) Search(query string, offset int) (*TreeNode, int, error) {
	matches := idx.Matches(query)
	if len(matches) == 0 {
		return nil, 0, ErrNoResults
	}
	i := offset % len(matches)
	if i < 0 {
		i += len(matches)
	}
	return matches[i], (i + 1) % len(matches), nil
}

// SearchCursor remembers where the previous search stopped so repeated calls
// with the same query cycle through all matches.
type SearchCursor struct {
	query  string
	offset int
}

// Next returns the next match for query. Changing the query restarts from the
// best match.
func (c *SearchCursor) Next(idx *TreeIndex, query string) (*TreeNode, error) {
	if !strings.EqualFold(strings.TrimSpace(query), c.query) {
		c.query = strings.ToLower(strings.TrimSpace(query))
		c.offset = 0
	}
	node, next, err := idx.Search(c.query, c.offset)
	if err != nil {
		c.offset = 0
		return nil, err
	}
	c.offset = next
	return node, nil
}

// Reset forgets the previous query
func (c *SearchCursor) Reset() {
	c.query = ""
	c.offset = 0
}
