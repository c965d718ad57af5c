package commands

import (
	"context"
	"errors"
	"fmt"

	"packbrowser/internal/application"
	"packbrowser/internal/domain"
	"packbrowser/internal/ports"
)

// ExportsResult is one page of a container's export table
type ExportsResult struct {
	Container string
	Window    domain.PaginationWindow
	Exports   []domain.ExportDescriptor
	Label     string
}

// ExportsCommand fetches the window of exports around an export of a
// container. Containers at or above domain.PaginationThreshold are paged.
type ExportsCommand struct {
	provider   ports.PackageProvider
	Container  string
	Index      int
	ExportName string // resolved to Index when set
	PageSize   int
}

// NewExportsCommand creates a new ExportsCommand
func NewExportsCommand(provider ports.PackageProvider, container string, index int, pageSize int) *ExportsCommand {
	return &ExportsCommand{
		provider:  provider,
		Container: container,
		Index:     index,
		PageSize:  pageSize,
	}
}

// Validate checks if the request is valid
func (c *ExportsCommand) Validate() error {
	if err := application.ValidateRequired("container", c.Container); err != nil {
		return err
	}
	if c.PageSize < 0 {
		return &application.ValidationError{Field: "pageSize", Message: "page size must be positive"}
	}
	return nil
}

// Execute runs the exports command. An export name that does not resolve
// falls back to the first export.
func (c *ExportsCommand) Execute(ctx context.Context) (*ExportsResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	total, err := c.provider.ExportCount(ctx, c.Container)
	if err != nil {
		return nil, fmt.Errorf("failed to count exports: %w", err)
	}

	index := c.Index
	if c.ExportName != "" {
		resolved, err := c.provider.ResolveIndex(ctx, c.Container, c.ExportName)
		switch {
		case errors.Is(err, application.ErrNotFound):
			index = 0
		case err != nil:
			return nil, fmt.Errorf("failed to resolve export: %w", err)
		default:
			index = resolved
		}
	}

	pageSize := c.PageSize
	if pageSize == 0 {
		pageSize = domain.DefaultPageSize
	}

	window, err := domain.ComputeWindow(total, index, pageSize)
	if err != nil {
		return nil, err
	}

	exports, err := c.provider.Exports(ctx, c.Container, window.InclusiveStart, window.Len())
	if err != nil {
		return nil, fmt.Errorf("failed to read exports: %w", err)
	}

	return &ExportsResult{
		Container: c.Container,
		Window:    window,
		Exports:   exports,
		Label:     window.Label(),
	}, nil
}
