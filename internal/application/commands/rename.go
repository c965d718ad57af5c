package commands

import (
	"context"
	"fmt"

	"packbrowser/internal/application"
)

// RenameResult contains the result of a rename operation
type RenameResult struct {
	OldPath string
	NewPath string
	Message string
}

// RenameCommand renames a file or directory in place
type RenameCommand struct {
	session *application.Session
	Path    string
	NewName string
}

// NewRenameCommand creates a new RenameCommand
func NewRenameCommand(session *application.Session, path, newName string) *RenameCommand {
	return &RenameCommand{
		session: session,
		Path:    path,
		NewName: newName,
	}
}

// Validate checks if the rename operation is valid
func (c *RenameCommand) Validate() error {
	if err := application.ValidateRequired("path", c.Path); err != nil {
		return err
	}
	return application.ValidateName(c.NewName)
}

// Execute runs the rename command
func (c *RenameCommand) Execute(ctx context.Context) (*RenameResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	node, err := findNode(c.session, c.Path)
	if err != nil {
		return nil, err
	}

	oldPath := node.Path
	if err := c.session.Rename(ctx, node, c.NewName); err != nil {
		return nil, fmt.Errorf("failed to rename: %w", err)
	}

	return &RenameResult{
		OldPath: oldPath,
		NewPath: node.Path,
		Message: fmt.Sprintf("Renamed %s to %s", oldPath, node.Name),
	}, nil
}
