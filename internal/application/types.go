package application

import "packbrowser/internal/domain"

// Re-export domain types for use by adapters
type (
	TreeNode         = domain.TreeNode
	NodeKind         = domain.NodeKind
	BreadcrumbItem   = domain.BreadcrumbItem
	NavigationState  = domain.NavigationState
	PaginationWindow = domain.PaginationWindow
	ExportDescriptor = domain.ExportDescriptor
)

const (
	KindFile      = domain.KindFile
	KindDirectory = domain.KindDirectory
)

// ComputeWindow returns the export page window containing requested
func ComputeWindow(total, requested, pageSize int) (PaginationWindow, error) {
	return domain.ComputeWindow(total, requested, pageSize)
}
