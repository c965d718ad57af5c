package commands

import (
	"context"
	"fmt"

	"packbrowser/internal/application"
	"packbrowser/internal/domain"
	"packbrowser/internal/ports"
)

// ImportResult contains the result of importing export manifests
type ImportResult struct {
	Containers []string
	Exports    int
	Message    string
}

// ImportExportsCommand loads export manifests into the catalog. With a
// container set only that container is imported; otherwise every container
// in the session tree that has a manifest next to it is.
type ImportExportsCommand struct {
	session   *application.Session
	catalog   ports.ExportCatalog
	manifests ports.ManifestReader
	Container string
}

// NewImportExportsCommand creates a new ImportExportsCommand
func NewImportExportsCommand(session *application.Session, catalog ports.ExportCatalog, manifests ports.ManifestReader, container string) *ImportExportsCommand {
	return &ImportExportsCommand{
		session:   session,
		catalog:   catalog,
		manifests: manifests,
		Container: container,
	}
}

// ImportPlan is the list of containers an import will read. It holds no
// session reference, so it may run on any goroutine.
type ImportPlan struct {
	catalog    ports.ExportCatalog
	manifests  ports.ManifestReader
	Containers []string
}

// Plan resolves the containers to import from the session tree
func (c *ImportExportsCommand) Plan() (*ImportPlan, error) {
	containers, err := c.containers()
	if err != nil {
		return nil, err
	}
	return &ImportPlan{catalog: c.catalog, manifests: c.manifests, Containers: containers}, nil
}

// Execute runs the import command
func (c *ImportExportsCommand) Execute(ctx context.Context) (*ImportResult, error) {
	plan, err := c.Plan()
	if err != nil {
		return nil, err
	}
	return plan.Execute(ctx)
}

// Execute reads every planned manifest into the catalog
func (p *ImportPlan) Execute(ctx context.Context) (*ImportResult, error) {
	result := &ImportResult{}
	for _, container := range p.Containers {
		exports, err := p.manifests.ReadExports(ctx, container)
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest for %s: %w", container, err)
		}
		if err := p.catalog.Import(ctx, container, exports); err != nil {
			return nil, fmt.Errorf("failed to import %s: %w", container, err)
		}
		result.Containers = append(result.Containers, container)
		result.Exports += len(exports)
	}

	result.Message = fmt.Sprintf("Imported %d exports from %d containers", result.Exports, len(result.Containers))
	return result, nil
}

func (c *ImportExportsCommand) containers() ([]string, error) {
	if c.Container != "" {
		node, err := findNode(c.session, c.Container)
		if err != nil {
			return nil, err
		}
		return []string{node.Path}, nil
	}

	root := c.session.Tree()
	if root == nil {
		return nil, fmt.Errorf("no tree loaded: %w", application.ErrNotAvailable)
	}

	var containers []string
	root.Walk(func(n *domain.TreeNode) bool {
		if !n.IsDir() && n.Parent != nil {
			if manifest := root.Find(c.manifests.ManifestPath(n.Path)); manifest != nil && manifest != n {
				containers = append(containers, n.Path)
			}
		}
		return true
	})
	return containers, nil
}
