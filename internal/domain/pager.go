package domain

import (
	"errors"
	"fmt"
)

const (
	// PaginationThreshold is the export count from which a package is paged
	PaginationThreshold = 5000
	// DefaultPageSize is the reference configuration: one export per page
	DefaultPageSize = 1
)

var ErrInvalidPageSize = errors.New("page size must be positive")

// ExportDescriptor describes one export of an asset package
type ExportDescriptor struct {
	Index      int
	Name       string
	Class      string
	Outer      int // Index of the outer export, -1 for top level
	SerialSize int64
}

// PaginationWindow is the bounded range of exports materialized at once
type PaginationWindow struct {
	InclusiveStart int
	ExclusiveEnd   int
	RequestedIndex int
	TotalCount     int
	PageSize       int
}

// ComputeWindow returns the page window containing requested. Containers below
// PaginationThreshold are never paged: the window spans the whole container
// whatever requested is. For paged containers requested must lie in
// [0, total); callers that failed to resolve an index pass 0.
func ComputeWindow(total, requested, pageSize int) (PaginationWindow, error) {
	if pageSize < 1 {
		return PaginationWindow{}, fmt.Errorf("%w: %d", ErrInvalidPageSize, pageSize)
	}
	if total < 0 {
		return PaginationWindow{}, fmt.Errorf("%w: negative total %d", ErrIndexOutOfRange, total)
	}

	w := PaginationWindow{RequestedIndex: requested, TotalCount: total, PageSize: pageSize}
	if !IsPaginated(total) {
		w.ExclusiveEnd = total
		return w, nil
	}

	if requested < 0 || requested >= total {
		return PaginationWindow{}, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, requested, total)
	}
	w.InclusiveStart = max(0, requested-requested%pageSize)
	w.ExclusiveEnd = min(w.InclusiveStart+pageSize, total)
	return w, nil
}

// IsPaginated reports whether a container of total exports is paged
func IsPaginated(total int) bool {
	return total >= PaginationThreshold
}

// Len returns the number of exports in the window
func (w PaginationWindow) Len() int {
	return w.ExclusiveEnd - w.InclusiveStart
}

// Contains reports whether index falls inside the window
func (w PaginationWindow) Contains(index int) bool {
	return index >= w.InclusiveStart && index < w.ExclusiveEnd
}

// Paginated reports whether the window is a page of a larger container
func (w PaginationWindow) Paginated() bool {
	return IsPaginated(w.TotalCount)
}

// HasNext reports whether exports follow the window
func (w PaginationWindow) HasNext() bool {
	return w.ExclusiveEnd < w.TotalCount
}

// HasPrev reports whether exports precede the window
func (w PaginationWindow) HasPrev() bool {
	return w.InclusiveStart > 0
}

// Next returns the window that follows w, or w itself on the last page
func (w PaginationWindow) Next() PaginationWindow {
	if !w.HasNext() {
		return w
	}
	next, err := ComputeWindow(w.TotalCount, w.ExclusiveEnd, w.PageSize)
	if err != nil {
		return w
	}
	return next
}

// Prev returns the window that precedes w, or w itself on the first page
func (w PaginationWindow) Prev() PaginationWindow {
	if !w.HasPrev() {
		return w
	}
	prev, err := ComputeWindow(w.TotalCount, w.InclusiveStart-1, w.PageSize)
	if err != nil {
		return w
	}
	return prev
}

// Label renders the window as "N of M" using 1-based positions
func (w PaginationWindow) Label() string {
	switch {
	case w.TotalCount == 0:
		return "0 of 0"
	case w.Len() == 1:
		return fmt.Sprintf("%d of %d", w.InclusiveStart+1, w.TotalCount)
	default:
		return fmt.Sprintf("%d-%d of %d", w.InclusiveStart+1, w.ExclusiveEnd, w.TotalCount)
	}
}
