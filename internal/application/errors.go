package application

import (
	"errors"
	"fmt"

	"packbrowser/internal/domain"
)

// Error taxonomy, shared with the domain layer
var (
	ErrNotFound        = domain.ErrNotFound
	ErrInvalidName     = domain.ErrInvalidName
	ErrIO              = domain.ErrIO
	ErrCancelled       = domain.ErrCancelled
	ErrIndexOutOfRange = domain.ErrIndexOutOfRange
	ErrNotAvailable    = domain.ErrNotAvailable
	ErrNoResults       = domain.ErrNoResults
	ErrNotDirectory    = domain.ErrNotDirectory
	ErrInvalidMove     = domain.ErrInvalidMove
)

// IOError is the failure of a physical operation
type IOError = domain.IOError

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NameError is returned for illegal rename or create targets
type NameError struct {
	Name   string
	Reason string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("invalid name %q: %s", e.Name, e.Reason)
}

func (e *NameError) Is(target error) bool {
	return target == ErrInvalidName
}

// MoveError represents a move-related failure
type MoveError struct {
	Source string
	Dest   string
	Reason string
	Err    error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("cannot move %s to %s: %s", e.Source, e.Dest, e.Reason)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

// IsCancelled reports whether err is a cancellation rather than a failure
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
