package commands

import (
	"fmt"
	"path/filepath"

	"packbrowser/internal/application"
	"packbrowser/internal/domain"
)

// findNode resolves path against the session tree. Relative paths are taken
// from the browsing root.
func findNode(session *application.Session, path string) (*domain.TreeNode, error) {
	root := session.Tree()
	if root == nil {
		return nil, fmt.Errorf("no tree loaded: %w", application.ErrNotAvailable)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(root.Path, path)
	}
	node := root.Find(filepath.Clean(path))
	if node == nil {
		return nil, fmt.Errorf("%w: %s", application.ErrNotFound, path)
	}
	return node, nil
}
