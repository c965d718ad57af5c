package commands

import (
	"context"
	"fmt"

	"packbrowser/internal/application"
)

// MoveResult contains the result of moving an entry
type MoveResult struct {
	OldPath string
	NewPath string
	Message string
}

// MoveCommand moves a file or directory into another directory
type MoveCommand struct {
	session     *application.Session
	SourcePath  string
	Destination string
}

// NewMoveCommand creates a new MoveCommand
func NewMoveCommand(session *application.Session, sourcePath, destination string) *MoveCommand {
	return &MoveCommand{
		session:     session,
		SourcePath:  sourcePath,
		Destination: destination,
	}
}

// Validate checks if the move operation is valid
func (c *MoveCommand) Validate() error {
	if err := application.ValidateRequired("sourcePath", c.SourcePath); err != nil {
		return err
	}
	return application.ValidateRequired("destination", c.Destination)
}

// Execute runs the move command
func (c *MoveCommand) Execute(ctx context.Context) (*MoveResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	node, err := findNode(c.session, c.SourcePath)
	if err != nil {
		return nil, err
	}
	dest, err := findNode(c.session, c.Destination)
	if err != nil {
		return nil, err
	}

	oldPath := node.Path
	if err := c.session.Move(ctx, node, dest); err != nil {
		return nil, fmt.Errorf("failed to move: %w", err)
	}

	return &MoveResult{
		OldPath: oldPath,
		NewPath: node.Path,
		Message: fmt.Sprintf("Moved %s to %s", oldPath, node.Path),
	}, nil
}

// ValidateMoveDestination checks a move without executing it
func ValidateMoveDestination(node, dest *application.TreeNode) error {
	switch {
	case node.Parent == nil:
		return &application.MoveError{Source: node.Path, Dest: dest.Path, Reason: "the browsing root cannot be moved", Err: application.ErrInvalidMove}
	case !dest.IsDir():
		return &application.MoveError{Source: node.Path, Dest: dest.Path, Reason: "destination is not a directory", Err: application.ErrNotDirectory}
	case node == dest || node.IsAncestorOf(dest):
		return &application.MoveError{Source: node.Path, Dest: dest.Path, Reason: "destination is inside the source", Err: application.ErrInvalidMove}
	}
	return nil
}
