package ports

import "context"

// Entry is one item returned by a directory listing
type Entry struct {
	Name  string
	Path  string // Absolute path
	IsDir bool
}

// FileSystemGateway is the physical file-system capability behind the tree.
// Every call blocks until done or ctx is cancelled; failures carry the path
// they concern.
type FileSystemGateway interface {
	// List returns the entries of directory
	List(ctx context.Context, directory string) ([]Entry, error)

	// Copy copies src to dst. Directories require recursive.
	Copy(ctx context.Context, src, dst string, recursive bool) error

	// Move moves or renames src to dst
	Move(ctx context.Context, src, dst string) error

	// Delete removes path. Non-empty directories require recursive.
	Delete(ctx context.Context, path string, recursive bool) error

	// CreateDirectory creates a single directory
	CreateDirectory(ctx context.Context, path string) error

	// Exists reports whether path exists
	Exists(ctx context.Context, path string) (bool, error)

	// Stat describes path. A missing path yields domain.ErrNotFound.
	Stat(ctx context.Context, path string) (Entry, error)
}
