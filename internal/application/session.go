package application

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"packbrowser/internal/domain"
	"packbrowser/internal/logging"
	"packbrowser/internal/ports"
)

// ChangeKind classifies a structural change applied to the tree
type ChangeKind int

const (
	ChangeAdded ChangeKind = iota
	ChangeRemoved
	ChangeMoved
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeRemoved:
		return "removed"
	case ChangeMoved:
		return "moved"
	default:
		return "unknown"
	}
}

// Change describes one structural change. OldPath is set for moves and renames.
type Change struct {
	Kind    ChangeKind
	Path    string
	OldPath string
	IsDir   bool
}

// ClipboardMode says what Paste does with the clipboard node
type ClipboardMode int

const (
	ClipboardCopy ClipboardMode = iota
	ClipboardCut
)

type clipEntry struct {
	node *domain.TreeNode
	mode ClipboardMode
}

// Session is the single owner of the tree, its search index and the
// navigation state. It is not safe for concurrent use: blocking work is
// prepared with BeginLoad, run anywhere, and applied back with ApplyLoad on
// the owning goroutine.
type Session struct {
	id   string
	gw   ports.FileSystemGateway
	sink ports.ErrorSink
	log  *zap.Logger

	root       *domain.TreeNode
	index      *domain.TreeIndex
	indexStale bool
	cursor     domain.SearchCursor
	nav        *NavigationController

	generation uint64
	cancelLoad context.CancelFunc

	clip      *clipEntry
	listeners []func(Change)
}

// Option configures a Session
type Option func(*Session)

// WithLogger replaces the session logger
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) {
		s.log = log
	}
}

// WithSessionID fixes the session id instead of generating one
func WithSessionID(id string) Option {
	return func(s *Session) {
		s.id = id
	}
}

// NewSession creates an idle session. Failures are reported to sink.
func NewSession(gw ports.FileSystemGateway, sink ports.ErrorSink, opts ...Option) *Session {
	s := &Session{
		gw:   gw,
		sink: sink,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = logging.NewSessionID()
	}
	if s.log == nil {
		s.log = logging.ForSession(s.id)
	}
	if s.sink == nil {
		s.sink = discardSink{}
	}
	s.nav = newNavigationController(s.log, s.refreshLoad)
	return s
}

type discardSink struct{}

func (discardSink) Report(string) {}

// ID returns the session identifier carried by every log line
func (s *Session) ID() string {
	return s.id
}

// Tree returns the loaded root, nil before the first load
func (s *Session) Tree() *domain.TreeNode {
	return s.root
}

// Navigation exposes the navigation controller
func (s *Session) Navigation() *NavigationController {
	return s.nav
}

// Subscribe registers fn for every structural change
func (s *Session) Subscribe(fn func(Change)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Session) emit(change Change) {
	for _, fn := range s.listeners {
		fn(change)
	}
}

// --- Loading ---

// LoadRequest is a prepared tree load. Run may be called on any goroutine.
type LoadRequest struct {
	Root string

	ctx          context.Context
	gw           ports.FileSystemGateway
	target       string
	clearHistory bool
	generation   uint64
}

// LoadResult is the outcome of a LoadRequest, applied with Session.ApplyLoad
type LoadResult struct {
	Root    string
	Tree    *domain.TreeNode
	Err     error
	Elapsed time.Duration

	target       string
	clearHistory bool
	generation   uint64
}

// Run walks the file system. It does not touch the session.
func (r *LoadRequest) Run() *LoadResult {
	start := time.Now()
	tree, err := BuildTree(r.ctx, r.gw, r.Root)
	return &LoadResult{
		Root:         r.Root,
		Tree:         tree,
		Err:          err,
		Elapsed:      time.Since(start),
		target:       r.target,
		clearHistory: r.clearHistory,
		generation:   r.generation,
	}
}

// BeginLoad prepares a load of root, cancelling any load still in flight
func (s *Session) BeginLoad(ctx context.Context, root string) *LoadRequest {
	root = filepath.Clean(root)
	return s.beginLoad(ctx, root, root, false)
}

// BeginReload prepares a reload of the current root that keeps the current
// location when it still exists.
func (s *Session) BeginReload(ctx context.Context) (*LoadRequest, error) {
	if s.root == nil {
		return nil, ErrNotAvailable
	}
	return s.beginLoad(ctx, s.root.Path, s.nav.Current(), false), nil
}

// BeginRefresh prepares a reload that lands on the root. The history is
// cleared when the result is applied, so a cancelled or failed refresh
// keeps it.
func (s *Session) BeginRefresh(ctx context.Context) (*LoadRequest, error) {
	if s.root == nil {
		return nil, ErrNotAvailable
	}
	return s.beginLoad(ctx, s.root.Path, s.root.Path, true), nil
}

func (s *Session) beginLoad(ctx context.Context, root, target string, clearHistory bool) *LoadRequest {
	s.CancelLoad()
	loadCtx, cancel := context.WithCancel(ctx)
	s.cancelLoad = cancel
	s.generation++

	s.log.Debug("load started", zap.String("root", root), zap.Uint64("generation", s.generation))
	return &LoadRequest{
		Root:         root,
		ctx:          loadCtx,
		gw:           s.gw,
		target:       target,
		clearHistory: clearHistory,
		generation:   s.generation,
	}
}

// CancelLoad cancels the load in flight, if any
func (s *Session) CancelLoad() {
	if s.cancelLoad != nil {
		s.cancelLoad()
		s.cancelLoad = nil
	}
}

// ApplyLoad installs a finished load. Results from superseded or cancelled
// loads leave the session untouched and return ErrCancelled.
func (s *Session) ApplyLoad(res *LoadResult) error {
	if res.generation != s.generation {
		s.log.Debug("discarding stale load", zap.String("root", res.Root), zap.Uint64("generation", res.generation))
		return fmt.Errorf("%w: superseded load of %s", ErrCancelled, res.Root)
	}
	s.CancelLoad()

	if res.Err != nil {
		return s.fail("load", res.Err)
	}
	if !res.Tree.IsDir() {
		return s.fail("load", fmt.Errorf("%w: %s", ErrNotDirectory, res.Root))
	}

	rootChanged := s.root == nil || s.root.Path != res.Tree.Path
	s.root = res.Tree
	s.rebuildIndex()
	s.clip = nil

	s.nav.reset(s.root.Path, rootChanged || res.clearHistory)
	s.nav.retain(func(path string) bool { return s.root.Find(path) != nil })

	target := s.root
	if node := s.root.Find(res.target); node != nil {
		target = node
	}
	target.ExpandAncestors()
	s.nav.Navigate(target.Path, false)

	s.log.Info("tree loaded",
		zap.String("root", s.root.Path),
		zap.Int("nodes", s.index.Len()),
		zap.Duration("elapsed", res.Elapsed),
	)
	return nil
}

// Load runs a full load synchronously
func (s *Session) Load(ctx context.Context, root string) error {
	return s.ApplyLoad(s.BeginLoad(ctx, root).Run())
}

// Refresh reloads the tree synchronously and clears the history once the
// new tree is installed
func (s *Session) Refresh(ctx context.Context) error {
	return s.nav.Refresh(ctx)
}

func (s *Session) refreshLoad(ctx context.Context, root string) error {
	return s.ApplyLoad(s.beginLoad(ctx, filepath.Clean(root), filepath.Clean(root), true).Run())
}

// --- Lookup and navigation ---

// Find returns the node at path, or nil
func (s *Session) Find(path string) *domain.TreeNode {
	if s.root == nil {
		return nil
	}
	return s.root.Find(filepath.Clean(path))
}

// Current returns the node at the current location, or nil while idle
func (s *Session) Current() *domain.TreeNode {
	if s.nav.Current() == "" {
		return nil
	}
	return s.Find(s.nav.Current())
}

// Reveal expands every ancestor of path and returns its node
func (s *Session) Reveal(path string) *domain.TreeNode {
	node := s.Find(path)
	if node != nil {
		node.ExpandAncestors()
	}
	return node
}

// NavigateTo moves to path, recording history
func (s *Session) NavigateTo(path string) error {
	node := s.Reveal(path)
	if node == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	s.nav.Navigate(node.Path, true)
	return nil
}

// Breadcrumbs returns the compacted trail for the current location
func (s *Session) Breadcrumbs(maxVisible int) (visible, overflow []domain.BreadcrumbItem) {
	return s.nav.trail.Compact(maxVisible)
}

// --- Search ---

func (s *Session) rebuildIndex() {
	s.index = domain.BuildIndex(s.root)
	s.indexStale = false
	s.cursor.Reset()
}

func (s *Session) ensureIndex() *domain.TreeIndex {
	if s.root == nil {
		return domain.BuildIndex(nil)
	}
	if s.index == nil || s.indexStale {
		s.rebuildIndex()
	}
	return s.index
}

// Search returns the next match for query, cycling through matches on
// repeated calls with the same query. The match is revealed in the tree.
func (s *Session) Search(query string) (*domain.TreeNode, error) {
	node, err := s.cursor.Next(s.ensureIndex(), query)
	if err != nil {
		return nil, err
	}
	node.ExpandAncestors()
	return node, nil
}

// SearchAll returns every match for query in rank order
func (s *Session) SearchAll(query string) []*domain.TreeNode {
	return s.ensureIndex().Matches(query)
}

// --- Structural edits ---

// Rename renames node physically and then in the model
func (s *Session) Rename(ctx context.Context, node *domain.TreeNode, newName string) error {
	if node == nil {
		return s.fail("rename", fmt.Errorf("%w: nothing to rename", ErrNotFound))
	}
	if err := ValidateName(newName); err != nil {
		return s.fail("rename", err)
	}
	if node.Parent == nil {
		return s.fail("rename", &ValidationError{Field: "path", Message: "the browsing root cannot be renamed"})
	}
	if newName == node.Name {
		return nil
	}

	target := domain.ChildPath(node.Parent.Path, newName)
	if !strings.EqualFold(newName, node.Name) {
		exists, err := s.gw.Exists(ctx, target)
		if err != nil {
			return s.fail("rename", checkCancelled(ctx, err))
		}
		if exists {
			return s.fail("rename", &NameError{Name: newName, Reason: "an entry with this name already exists"})
		}
	}

	oldPath := node.Path
	if err := s.gw.Move(ctx, oldPath, target); err != nil {
		return s.fail("rename", checkCancelled(ctx, err))
	}

	node.Rename(newName)
	node.Parent.SortChildren()
	s.relocated(oldPath, node)
	s.log.Info("renamed", zap.String("from", oldPath), zap.String("to", node.Path))
	return nil
}

// Move moves node into dest physically and then in the model. Moving a node
// into its current parent is a no-op.
func (s *Session) Move(ctx context.Context, node, dest *domain.TreeNode) error {
	if err := checkMove(node, dest); err != nil {
		return s.fail("move", err)
	}
	if node.Parent == dest {
		return nil
	}

	target := domain.ChildPath(dest.Path, node.Name)
	exists, err := s.gw.Exists(ctx, target)
	if err != nil {
		return s.fail("move", checkCancelled(ctx, err))
	}
	if exists {
		return s.fail("move", &MoveError{Source: node.Path, Dest: dest.Path, Reason: "destination already exists", Err: ErrInvalidMove})
	}

	oldPath := node.Path
	if err := s.gw.Move(ctx, oldPath, target); err != nil {
		return s.fail("move", checkCancelled(ctx, err))
	}
	if err := s.root.Reparent(node, dest); err != nil {
		return s.fail("move", err)
	}

	s.relocated(oldPath, node)
	s.log.Info("moved", zap.String("from", oldPath), zap.String("to", node.Path))
	return nil
}

func checkMove(node, dest *domain.TreeNode) error {
	switch {
	case node == nil || dest == nil:
		return fmt.Errorf("%w: nothing to move", ErrInvalidMove)
	case node.Parent == nil:
		return &MoveError{Source: node.Path, Dest: dest.Path, Reason: "the browsing root cannot be moved", Err: ErrInvalidMove}
	case !dest.IsDir():
		return &MoveError{Source: node.Path, Dest: dest.Path, Reason: "destination is not a directory", Err: ErrNotDirectory}
	case node == dest || node.IsAncestorOf(dest):
		return &MoveError{Source: node.Path, Dest: dest.Path, Reason: "destination is inside the source", Err: ErrInvalidMove}
	}
	return nil
}

func (s *Session) relocated(oldPath string, node *domain.TreeNode) {
	s.nav.relocated(oldPath, node.Path)
	s.emit(Change{Kind: ChangeMoved, Path: node.Path, OldPath: oldPath, IsDir: node.IsDir()})
}

// Delete removes node physically and then from the model. History entries at
// or below node are dropped; if the current location was removed the session
// falls back to the parent.
func (s *Session) Delete(ctx context.Context, node *domain.TreeNode) error {
	if node == nil {
		return s.fail("delete", fmt.Errorf("%w: nothing to delete", ErrNotFound))
	}
	if node.Parent == nil {
		return s.fail("delete", &ValidationError{Field: "path", Message: "the browsing root cannot be deleted"})
	}

	if err := s.gw.Delete(ctx, node.Path, node.IsDir()); err != nil {
		return s.fail("delete", checkCancelled(ctx, err))
	}

	parent := node.Parent
	s.root.Detach(node)
	s.indexStale = true
	if s.clip != nil && (s.clip.node == node || node.IsAncestorOf(s.clip.node)) {
		s.clip = nil
	}
	s.nav.removed(node.Path, parent.Path)

	s.emit(Change{Kind: ChangeRemoved, Path: node.Path, IsDir: node.IsDir()})
	s.log.Info("deleted", zap.String("path", node.Path))
	return nil
}

// CreateFolder creates a directory called name inside parent
func (s *Session) CreateFolder(ctx context.Context, parent *domain.TreeNode, name string) (*domain.TreeNode, error) {
	if err := ValidateName(name); err != nil {
		return nil, s.fail("create folder", err)
	}
	if parent == nil || !parent.IsDir() {
		return nil, s.fail("create folder", ErrNotDirectory)
	}

	target := domain.ChildPath(parent.Path, name)
	exists, err := s.gw.Exists(ctx, target)
	if err != nil {
		return nil, s.fail("create folder", checkCancelled(ctx, err))
	}
	if exists {
		return nil, s.fail("create folder", &NameError{Name: name, Reason: "an entry with this name already exists"})
	}

	if err := s.gw.CreateDirectory(ctx, target); err != nil {
		return nil, s.fail("create folder", checkCancelled(ctx, err))
	}

	node := domain.NewDirectory(target)
	s.insert(parent, node)
	s.log.Info("created folder", zap.String("path", node.Path))
	return node, nil
}

func (s *Session) insert(parent, node *domain.TreeNode) {
	// Attach cannot fail: parent is a directory.
	_ = parent.Attach(node, len(parent.Children))
	parent.SortChildren()
	parent.Expand()
	s.indexStale = true
	s.emit(Change{Kind: ChangeAdded, Path: node.Path, IsDir: node.IsDir()})
}

// --- Clipboard ---

// Cut marks node to be moved by the next Paste
func (s *Session) Cut(node *domain.TreeNode) {
	s.clip = &clipEntry{node: node, mode: ClipboardCut}
}

// Copy marks node to be copied by the next Paste
func (s *Session) Copy(node *domain.TreeNode) {
	s.clip = &clipEntry{node: node, mode: ClipboardCopy}
}

// Clipboard returns the pending clipboard node and mode
func (s *Session) Clipboard() (*domain.TreeNode, ClipboardMode, bool) {
	if s.clip == nil {
		return nil, ClipboardCopy, false
	}
	return s.clip.node, s.clip.mode, true
}

// Paste copies or moves the clipboard node into target. A file target pastes
// next to it. Cut entries are consumed by a successful paste.
func (s *Session) Paste(ctx context.Context, target *domain.TreeNode) (*domain.TreeNode, error) {
	if s.clip == nil {
		return nil, ErrNotAvailable
	}
	dest := DestinationFor(target)
	node := s.clip.node

	if s.clip.mode == ClipboardCut {
		if err := s.Move(ctx, node, dest); err != nil {
			return nil, err
		}
		s.clip = nil
		return node, nil
	}
	return s.copyInto(ctx, "paste", node.Path, node.IsDir(), dest)
}

// Import copies an external path into dest and mirrors it into the tree
func (s *Session) Import(ctx context.Context, src string, dest *domain.TreeNode) (*domain.TreeNode, error) {
	info, err := s.gw.Stat(ctx, src)
	if err != nil {
		return nil, s.fail("import", checkCancelled(ctx, err))
	}
	return s.copyInto(ctx, "import", filepath.Clean(src), info.IsDir, dest)
}

func (s *Session) copyInto(ctx context.Context, op, src string, isDir bool, dest *domain.TreeNode) (*domain.TreeNode, error) {
	if dest == nil || !dest.IsDir() {
		return nil, s.fail(op, ErrNotDirectory)
	}
	if isDir && domain.IsWithin(src, dest.Path) {
		return nil, s.fail(op, &MoveError{Source: src, Dest: dest.Path, Reason: "destination is inside the source", Err: ErrInvalidMove})
	}

	name, err := s.freeName(ctx, dest.Path, filepath.Base(src))
	if err != nil {
		return nil, s.fail(op, checkCancelled(ctx, err))
	}
	target := domain.ChildPath(dest.Path, name)

	if err := s.gw.Copy(ctx, src, target, isDir); err != nil {
		return nil, s.fail(op, checkCancelled(ctx, err))
	}

	mirror, err := BuildTree(ctx, s.gw, target)
	if err != nil {
		return nil, s.fail(op, err)
	}
	mirror.IsExpanded = false
	s.insert(dest, mirror)
	s.log.Info("copied", zap.String("from", src), zap.String("to", target), zap.Int("nodes", mirror.Count()))
	return mirror, nil
}

// freeName returns name, or "stem (copy N).ext" when name is taken in dir
func (s *Session) freeName(ctx context.Context, dir, name string) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if stem == "" {
		stem, ext = name, ""
	}

	candidate := name
	for n := 1; ; n++ {
		exists, err := s.gw.Exists(ctx, domain.ChildPath(dir, candidate))
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		if n == 1 {
			candidate = fmt.Sprintf("%s (copy)%s", stem, ext)
		} else {
			candidate = fmt.Sprintf("%s (copy %d)%s", stem, n, ext)
		}
	}
}

// DestinationFor returns the directory a drop or paste onto target lands in:
// the target itself for directories, its parent otherwise.
func DestinationFor(target *domain.TreeNode) *domain.TreeNode {
	if target == nil || target.IsDir() {
		return target
	}
	return target.Parent
}

// --- Failure reporting ---

// fail reports err to the sink once and returns it. Cancellations are logged
// but never reported.
func (s *Session) fail(op string, err error) error {
	if IsCancelled(err) {
		s.log.Info(op+" cancelled", zap.Error(err))
		return err
	}

	var ioErr *IOError
	if errors.As(err, &ioErr) {
		s.log.Error(op+" failed", zap.String("path", ioErr.Path), zap.Error(err))
	} else {
		s.log.Warn(op+" rejected", zap.Error(err))
	}
	s.sink.Report(fmt.Sprintf("%s failed: %v", capitalize(op), err))
	return err
}

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
