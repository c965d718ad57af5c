package commands

import (
	"context"
	"fmt"

	"packbrowser/internal/application"
)

// CreateFolderResult contains the result of creating a folder
type CreateFolderResult struct {
	Path    string
	Message string
}

// CreateFolderCommand creates a directory inside a parent directory
type CreateFolderCommand struct {
	session    *application.Session
	ParentPath string
	Name       string
}

// NewCreateFolderCommand creates a new CreateFolderCommand
func NewCreateFolderCommand(session *application.Session, parentPath, name string) *CreateFolderCommand {
	return &CreateFolderCommand{
		session:    session,
		ParentPath: parentPath,
		Name:       name,
	}
}

// Validate checks if the create operation is valid
func (c *CreateFolderCommand) Validate() error {
	if err := application.ValidateRequired("parentPath", c.ParentPath); err != nil {
		return err
	}
	return application.ValidateName(c.Name)
}

// Execute runs the create folder command
func (c *CreateFolderCommand) Execute(ctx context.Context) (*CreateFolderResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	parent, err := findNode(c.session, c.ParentPath)
	if err != nil {
		return nil, err
	}
	if !parent.IsDir() {
		return nil, &application.ValidationError{
			Field:   "parentPath",
			Message: fmt.Sprintf("%s is not a directory", parent.Path),
		}
	}

	node, err := c.session.CreateFolder(ctx, parent, c.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	return &CreateFolderResult{
		Path:    node.Path,
		Message: fmt.Sprintf("Created %s", node.Path),
	}, nil
}
