package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the tree model, navigation and paging
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidName     = errors.New("invalid name")
	ErrIO              = errors.New("i/o failure")
	ErrCancelled       = errors.New("cancelled")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNotAvailable    = errors.New("not available")
	ErrNoResults       = errors.New("no results")
	ErrNotDirectory    = errors.New("not a directory")
	ErrInvalidMove     = errors.New("invalid move")
)

// IOError wraps a failed physical operation with the operation name and the
// affected path.
type IOError struct {
	Op   string // e.g. "copy", "move", "list"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Is reports every IOError as ErrIO so callers can branch on the category
// without caring about the underlying cause.
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

// NewIOError builds an IOError, passing cancellation through untouched.
func NewIOError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrCancelled) {
		return err
	}
	return &IOError{Op: op, Path: path, Err: err}
}
