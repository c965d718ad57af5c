package domain

import (
	"path/filepath"
	"strings"
)

// OverflowMarker is the display name of the elision marker
const OverflowMarker = "…"

// BreadcrumbItem is one segment of the breadcrumb trail
type BreadcrumbItem struct {
	Name       string
	Path       string
	IsOverflow bool
}

// Trail derives the breadcrumb segments from an authoritative root and the
// current location.
type Trail struct {
	root  string
	items []BreadcrumbItem
}

// Initialize sets the authoritative root and rebuilds the trail at the root
func (t *Trail) Initialize(root string) {
	if root == "" {
		t.root = ""
		t.items = nil
		return
	}
	t.root = filepath.Clean(root)
	t.Update(t.root)
}

// Root returns the authoritative root, empty when unset
func (t *Trail) Root() string {
	return t.root
}

// Update recomputes the trail from root to current. The trail is left empty
// when the root is unset or current lies outside it; navigation and root
// changes can race, so this is not an error.
func (t *Trail) Update(current string) {
	t.items = nil
	if t.root == "" || !IsWithin(t.root, current) {
		return
	}

	t.items = append(t.items, BreadcrumbItem{Name: filepath.Base(t.root), Path: t.root})

	rel, err := filepath.Rel(t.root, filepath.Clean(current))
	if err != nil || rel == "." {
		return
	}

	path := t.root
	for _, segment := range strings.Split(rel, string(filepath.Separator)) {
		if segment == "" {
			continue
		}
		path = ChildPath(path, segment)
		t.items = append(t.items, BreadcrumbItem{Name: segment, Path: path})
	}
}

// Items returns a copy of the full trail
func (t *Trail) Items() []BreadcrumbItem {
	return append([]BreadcrumbItem(nil), t.items...)
}

// Len returns the number of segments in the full trail
func (t *Trail) Len() int {
	return len(t.items)
}

// Compact applies the overflow policy for maxVisible displayed elements. When
// the trail is longer, the result is the first segment, an overflow marker and
// the last maxVisible-2 segments; the elided middle is returned as overflow.
func (t *Trail) Compact(maxVisible int) (visible, overflow []BreadcrumbItem) {
	n := len(t.items)
	if n <= max(maxVisible, 1) {
		return t.Items(), nil
	}

	tail := max(maxVisible-2, 0)
	visible = make([]BreadcrumbItem, 0, tail+2)
	visible = append(visible, t.items[0], BreadcrumbItem{Name: OverflowMarker, IsOverflow: true})
	visible = append(visible, t.items[n-tail:]...)
	overflow = append([]BreadcrumbItem(nil), t.items[1:n-tail]...)
	return visible, overflow
}

// FitBreadcrumbs is the width-fitting policy for the trail: given the measured
// width of every segment, the width of the overflow marker and the available
// width, it returns the maxVisible value to pass to Compact. The first and last
// segments are always shown; interior segments are added greedily starting next
// to the current location while they fit. A trail that does not fit always
// loses at least one segment to the marker.
func FitBreadcrumbs(widths []int, markerWidth, available int) int {
	n := len(widths)
	total := 0
	for _, w := range widths {
		total += w
	}
	if n <= 2 || total <= available {
		return n
	}

	used := widths[0] + widths[n-1] + markerWidth
	tail := 1
	for i := n - 2; i >= 1; i-- {
		if used+widths[i] > available {
			break
		}
		used += widths[i]
		tail++
	}
	return min(tail+2, n-1)
}
