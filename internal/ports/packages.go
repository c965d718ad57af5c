package ports

import (
	"context"

	"packbrowser/internal/domain"
)

// PackageProvider exposes the exports of an asset package container
type PackageProvider interface {
	// ExportCount returns the number of exports in container
	ExportCount(ctx context.Context, container string) (int, error)

	// Exports returns up to count exports starting at start, in index order
	Exports(ctx context.Context, container string, start, count int) ([]domain.ExportDescriptor, error)

	// ResolveIndex returns the index of the export called name
	ResolveIndex(ctx context.Context, container, name string) (int, error)
}

// ExportCatalog is a PackageProvider backed by a persistent store that export
// manifests are imported into.
type ExportCatalog interface {
	PackageProvider

	// Lifecycle
	Open(path string) error
	Close() error

	// Import replaces every export recorded for container
	Import(ctx context.Context, container string, exports []domain.ExportDescriptor) error

	// Containers lists the containers known to the catalog below root
	Containers(ctx context.Context, root string) ([]string, error)

	// Forget drops container and everything recorded below it
	Forget(ctx context.Context, container string) error

	// Relocate rewrites container paths after a rename or move
	Relocate(ctx context.Context, oldPath, newPath string) error
}

// ManifestReader reads the export table recorded alongside a container
type ManifestReader interface {
	// ManifestPath returns where the manifest for container lives
	ManifestPath(container string) string

	// ReadExports returns every export of container in index order
	ReadExports(ctx context.Context, container string) ([]domain.ExportDescriptor, error)
}
