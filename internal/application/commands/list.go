package commands

import (
	"context"

	"packbrowser/internal/application"
	"packbrowser/internal/domain"
)

// ListEntry is one line of a listing. Depth is relative to the listed node.
type ListEntry struct {
	Name  string
	Path  string
	IsDir bool
	Depth int
}

func entryFor(node *domain.TreeNode, depth int) ListEntry {
	return ListEntry{Name: node.Name, Path: node.Path, IsDir: node.IsDir(), Depth: depth}
}

// ListCommand lists the direct children of a directory
type ListCommand struct {
	session *application.Session
	Path    string
}

// NewListCommand creates a new ListCommand
func NewListCommand(session *application.Session, path string) *ListCommand {
	return &ListCommand{
		session: session,
		Path:    path,
	}
}

// Execute runs the list command. Listing a file returns the file itself.
func (c *ListCommand) Execute(ctx context.Context) ([]ListEntry, error) {
	node, err := findNode(c.session, c.pathOrRoot())
	if err != nil {
		return nil, err
	}
	if !node.IsDir() {
		return []ListEntry{entryFor(node, 0)}, nil
	}

	entries := make([]ListEntry, 0, len(node.Children))
	for _, child := range node.Children {
		entries = append(entries, entryFor(child, 0))
	}
	return entries, nil
}

func (c *ListCommand) pathOrRoot() string {
	if c.Path == "" {
		return "."
	}
	return c.Path
}

// TreeCommand returns a subtree in pre-order
type TreeCommand struct {
	session  *application.Session
	Path     string
	MaxDepth int // 0 means unlimited
}

// NewTreeCommand creates a new TreeCommand
func NewTreeCommand(session *application.Session, path string, maxDepth int) *TreeCommand {
	return &TreeCommand{
		session:  session,
		Path:     path,
		MaxDepth: maxDepth,
	}
}

// Execute runs the tree command
func (c *TreeCommand) Execute(ctx context.Context) ([]ListEntry, error) {
	path := c.Path
	if path == "" {
		path = "."
	}
	start, err := findNode(c.session, path)
	if err != nil {
		return nil, err
	}

	base := start.Depth()
	var entries []ListEntry
	start.Walk(func(n *domain.TreeNode) bool {
		depth := n.Depth() - base
		entries = append(entries, entryFor(n, depth))
		return c.MaxDepth <= 0 || depth < c.MaxDepth
	})
	return entries, nil
}

// BreadcrumbsResult is the compacted trail for a location
type BreadcrumbsResult struct {
	Visible  []domain.BreadcrumbItem
	Overflow []domain.BreadcrumbItem
}

// BreadcrumbsCommand navigates to a path and returns its breadcrumb trail
type BreadcrumbsCommand struct {
	session    *application.Session
	Path       string
	MaxVisible int
}

// NewBreadcrumbsCommand creates a new BreadcrumbsCommand
func NewBreadcrumbsCommand(session *application.Session, path string, maxVisible int) *BreadcrumbsCommand {
	return &BreadcrumbsCommand{
		session:    session,
		Path:       path,
		MaxVisible: maxVisible,
	}
}

// Execute runs the breadcrumbs command
func (c *BreadcrumbsCommand) Execute(ctx context.Context) (*BreadcrumbsResult, error) {
	if err := application.ValidateRequired("path", c.Path); err != nil {
		return nil, err
	}
	node, err := findNode(c.session, c.Path)
	if err != nil {
		return nil, err
	}
	if err := c.session.NavigateTo(node.Path); err != nil {
		return nil, err
	}

	visible, overflow := c.session.Breadcrumbs(c.MaxVisible)
	return &BreadcrumbsResult{Visible: visible, Overflow: overflow}, nil
}
