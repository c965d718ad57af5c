package application

import (
	"context"
	"path/filepath"
	"slices"

	"go.uber.org/zap"

	"packbrowser/internal/domain"
)

// NavigationController owns the current location, the back/forward history
// and the breadcrumb trail. Every transition rebuilds the trail and then calls
// the sync hook so the UI can select the new location. Selection changes that
// arrive while the hook runs are ignored.
type NavigationController struct {
	state   domain.NavigationState
	trail   domain.Trail
	syncing bool
	onSync  func(path string)
	reload  func(ctx context.Context, root string) error
	log     *zap.Logger
}

func newNavigationController(log *zap.Logger, reload func(ctx context.Context, root string) error) *NavigationController {
	return &NavigationController{log: log, reload: reload}
}

// OnSync installs the hook called after every transition
func (c *NavigationController) OnSync(fn func(path string)) {
	c.onSync = fn
}

// Current returns the current location, empty while idle
func (c *NavigationController) Current() string {
	return c.state.Current
}

// State returns a copy of the navigation state
func (c *NavigationController) State() domain.NavigationState {
	return domain.NavigationState{
		Current: c.state.Current,
		Back:    slices.Clone(c.state.Back),
		Forward: slices.Clone(c.state.Forward),
	}
}

func (c *NavigationController) CanGoBack() bool {
	return len(c.state.Back) > 0
}

func (c *NavigationController) CanGoForward() bool {
	return len(c.state.Forward) > 0
}

// Trail returns the full breadcrumb trail for the current location
func (c *NavigationController) Trail() []domain.BreadcrumbItem {
	return c.trail.Items()
}

// Navigate moves to path. recordHistory pushes the old location onto the back
// stack and clears the forward stack.
func (c *NavigationController) Navigate(path string, recordHistory bool) {
	c.state.Visit(filepath.Clean(path), recordHistory)
	c.transitioned()
}

// GoBack returns to the previous location, ErrNotAvailable when there is none
func (c *NavigationController) GoBack() error {
	if _, err := c.state.StepBack(); err != nil {
		return err
	}
	c.transitioned()
	return nil
}

// GoForward undoes the last GoBack, ErrNotAvailable when there is nothing to redo
func (c *NavigationController) GoForward() error {
	if _, err := c.state.StepForward(); err != nil {
		return err
	}
	c.transitioned()
	return nil
}

// Refresh reloads the tree from the current root. Both stacks are cleared
// only when the reload succeeds.
func (c *NavigationController) Refresh(ctx context.Context) error {
	root := c.trail.Root()
	if root == "" || c.reload == nil {
		return ErrNotAvailable
	}
	if err := c.reload(ctx, root); err != nil {
		return err
	}
	c.state.ClearHistory()
	return nil
}

// SelectionChanged is called by the UI when the user selects path. It is
// ignored while a transition is pushing its own selection. Reports whether a
// navigation happened.
func (c *NavigationController) SelectionChanged(path string) bool {
	if c.syncing || path == "" {
		return false
	}
	if filepath.Clean(path) == c.state.Current {
		return false
	}
	c.Navigate(path, true)
	return true
}

func (c *NavigationController) transitioned() {
	c.trail.Update(c.state.Current)
	c.log.Debug("navigated",
		zap.String("path", c.state.Current),
		zap.Int("back", len(c.state.Back)),
		zap.Int("forward", len(c.state.Forward)),
	)

	if c.onSync == nil || c.syncing {
		return
	}
	c.syncing = true
	defer func() { c.syncing = false }()
	c.onSync(c.state.Current)
}

// reset points the trail at a freshly loaded root
func (c *NavigationController) reset(root string, clearHistory bool) {
	c.trail.Initialize(root)
	if clearHistory {
		c.state.ClearHistory()
	}
}

// retain drops history entries for which keep reports false
func (c *NavigationController) retain(keep func(path string) bool) {
	for _, path := range slices.Concat(c.state.Back, c.state.Forward) {
		if !keep(path) {
			c.state.Prune(path)
		}
	}
}

// removed prunes history below path. When the current location was removed
// the controller falls back to fallback without recording it.
func (c *NavigationController) removed(path, fallback string) {
	if c.state.Prune(path) {
		c.Navigate(fallback, false)
	}
}

// relocated makes history follow a renamed or moved node
func (c *NavigationController) relocated(oldPath, newPath string) {
	current := c.state.Current
	c.state.Rewrite(oldPath, newPath)
	if c.state.Current != current {
		c.transitioned()
	}
}
