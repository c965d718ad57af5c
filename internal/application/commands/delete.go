package commands

import (
	"context"
	"fmt"

	"packbrowser/internal/application"
)

// DeleteResult contains the result of a delete operation
type DeleteResult struct {
	DeletedPath string
	Message     string
}

// DeleteCommand deletes a file or a directory with its content
type DeleteCommand struct {
	session *application.Session
	Path    string
}

// NewDeleteCommand creates a new DeleteCommand
func NewDeleteCommand(session *application.Session, path string) *DeleteCommand {
	return &DeleteCommand{
		session: session,
		Path:    path,
	}
}

// Validate checks if the delete operation is valid
func (c *DeleteCommand) Validate() error {
	return application.ValidateRequired("path", c.Path)
}

// Execute runs the delete command
func (c *DeleteCommand) Execute(ctx context.Context) (*DeleteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	node, err := findNode(c.session, c.Path)
	if err != nil {
		return nil, err
	}

	path := node.Path
	if err := c.session.Delete(ctx, node); err != nil {
		return nil, fmt.Errorf("failed to delete %s: %w", path, err)
	}

	return &DeleteResult{
		DeletedPath: path,
		Message:     fmt.Sprintf("Deleted %s", path),
	}, nil
}
