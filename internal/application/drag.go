package application

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"packbrowser/internal/domain"
)

// Point is a pointer position in cells
type Point struct {
	X, Y int
}

// DragThreshold is the distance a press must travel before it becomes a drag
type DragThreshold struct {
	MinX, MinY int
}

// DragPhase is the state of the drag gesture
type DragPhase int

const (
	DragIdle DragPhase = iota
	DragPending
	DragActive
)

// DragPreview describes where a drop would land. Computing it never mutates
// the tree.
type DragPreview struct {
	Node        *domain.TreeNode
	Destination *domain.TreeNode
	Index       int
}

// DragReparenter turns pointer gestures into moves and external drops into
// imports. The physical operation always runs before the model changes.
type DragReparenter struct {
	session   *Session
	threshold DragThreshold

	phase   DragPhase
	node    *domain.TreeNode
	origin  Point
	preview *DragPreview
}

func NewDragReparenter(session *Session, threshold DragThreshold) *DragReparenter {
	return &DragReparenter{session: session, threshold: threshold}
}

// Phase returns the current gesture phase
func (d *DragReparenter) Phase() DragPhase {
	return d.phase
}

// Active reports whether a drag is in progress
func (d *DragReparenter) Active() bool {
	return d.phase == DragActive
}

// Node returns the node being dragged, nil when idle
func (d *DragReparenter) Node() *domain.TreeNode {
	return d.node
}

// Preview returns the last computed drop preview, nil when none
func (d *DragReparenter) Preview() *DragPreview {
	return d.preview
}

// Press records a pointer press on node. Nothing is dragged until Motion
// exceeds the threshold.
func (d *DragReparenter) Press(node *domain.TreeNode, at Point) {
	d.Reset()
	if node == nil || node.Parent == nil {
		return
	}
	d.phase = DragPending
	d.node = node
	d.origin = at
}

// Motion reports pointer movement and returns whether a drag is active
func (d *DragReparenter) Motion(at Point) bool {
	if d.phase != DragPending {
		return d.phase == DragActive
	}
	if abs(at.X-d.origin.X) > d.threshold.MinX || abs(at.Y-d.origin.Y) > d.threshold.MinY {
		d.phase = DragActive
		d.session.log.Debug("drag started", zap.String("path", d.node.Path))
	}
	return d.phase == DragActive
}

// Over computes the drop preview for the node under the pointer. Returns nil
// when the drop would be refused or be a no-op.
func (d *DragReparenter) Over(target *domain.TreeNode) *DragPreview {
	d.preview = nil
	if d.phase != DragActive {
		return nil
	}
	dest := DestinationFor(target)
	if dest == nil || dest == d.node.Parent || checkMove(d.node, dest) != nil {
		return nil
	}
	d.preview = &DragPreview{Node: d.node, Destination: dest, Index: len(dest.Children)}
	return d.preview
}

// Drop releases the pointer over target. A press that never became a drag, or
// a drop on empty space, does nothing.
func (d *DragReparenter) Drop(ctx context.Context, target *domain.TreeNode) error {
	defer d.Reset()
	if d.phase != DragActive {
		return nil
	}
	dest := DestinationFor(target)
	if dest == nil {
		return nil
	}
	return d.session.Move(ctx, d.node, dest)
}

// DropExternal copies foreign paths into target. Only directory targets accept
// external drops; anything else is a no-op. Each path is attempted; the
// returned error joins every failure.
func (d *DragReparenter) DropExternal(ctx context.Context, paths []string, target *domain.TreeNode) ([]*domain.TreeNode, error) {
	d.Reset()
	if target == nil || !target.IsDir() {
		return nil, nil
	}

	var added []*domain.TreeNode
	var errs []error
	for _, path := range paths {
		node, err := d.session.Import(ctx, path, target)
		if err != nil {
			errs = append(errs, err)
			if IsCancelled(err) {
				break
			}
			continue
		}
		added = append(added, node)
	}
	return added, errors.Join(errs...)
}

// Reset abandons the gesture
func (d *DragReparenter) Reset() {
	d.phase = DragIdle
	d.node = nil
	d.preview = nil
	d.origin = Point{}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
