package application

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"go.uber.org/zap"

	"packbrowser/internal/domain"
	"packbrowser/internal/ports"
)

func pth(parts ...string) string {
	return filepath.Join(append([]string{string(filepath.Separator)}, parts...)...)
}

// memFS is an in-memory FileSystemGateway. Keys are absolute paths, values
// report whether the path is a directory.
type memFS struct {
	nodes      map[string]bool
	fail       map[string]error // keyed by "op path"
	calls      []string
	beforeList func(path string)
}

// newMemFS builds a file system from slash-separated paths relative to the
// file system root. A trailing slash marks a directory.
func newMemFS(layout ...string) *memFS {
	m := &memFS{nodes: map[string]bool{}, fail: map[string]error{}}
	m.nodes[pth()] = true
	for _, entry := range layout {
		isDir := strings.HasSuffix(entry, "/")
		m.add(pth(strings.Split(strings.Trim(entry, "/"), "/")...), isDir)
	}
	return m
}

// sampleFS returns:
//
//	/root
//	  docs/
//	    a.txt
//	    deep/
//	      b.txt
//	  music/
//	  readme.md
//	/ext
//	  pack/
//	    one.pak
//	    sub/
//	      two.pak
//	  loose.pak
func sampleFS() *memFS {
	return newMemFS(
		"root/docs/a.txt",
		"root/docs/deep/b.txt",
		"root/music/",
		"root/readme.md",
		"ext/pack/one.pak",
		"ext/pack/sub/two.pak",
		"ext/loose.pak",
	)
}

func (m *memFS) add(path string, isDir bool) {
	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		m.nodes[dir] = true
		if dir == filepath.Dir(dir) {
			break
		}
	}
	m.nodes[path] = isDir
}

func (m *memFS) has(path string) bool {
	_, ok := m.nodes[path]
	return ok
}

func (m *memFS) count(op string) int {
	n := 0
	for _, call := range m.calls {
		if strings.HasPrefix(call, op+" ") {
			n++
		}
	}
	return n
}

func (m *memFS) check(ctx context.Context, op, path string) error {
	m.calls = append(m.calls, op+" "+path)
	if err := ctx.Err(); err != nil {
		return err
	}
	if err, ok := m.fail[op+" "+path]; ok {
		return domain.NewIOError(op, path, err)
	}
	return nil
}

func (m *memFS) below(path string) []string {
	var out []string
	for p := range m.nodes {
		if domain.IsWithin(path, p) {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

func (m *memFS) List(ctx context.Context, dir string) ([]ports.Entry, error) {
	if m.beforeList != nil {
		m.beforeList(dir)
	}
	if err := m.check(ctx, "list", dir); err != nil {
		return nil, err
	}
	if isDir, ok := m.nodes[dir]; !ok || !isDir {
		return nil, domain.NewIOError("list", dir, errors.New("not a directory"))
	}

	var entries []ports.Entry
	for p, isDir := range m.nodes {
		if p != dir && filepath.Dir(p) == dir {
			entries = append(entries, ports.Entry{Name: filepath.Base(p), Path: p, IsDir: isDir})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (m *memFS) transfer(op, src, dst string, keepSource bool) error {
	if !m.has(src) {
		return domain.NewIOError(op, src, errors.New("no such file"))
	}
	if m.has(dst) {
		return domain.NewIOError(op, dst, errors.New("file exists"))
	}
	if isDir, ok := m.nodes[filepath.Dir(dst)]; !ok || !isDir {
		return domain.NewIOError(op, dst, errors.New("parent missing"))
	}
	for _, p := range m.below(src) {
		rel, _ := filepath.Rel(src, p)
		m.nodes[filepath.Join(dst, rel)] = m.nodes[p]
		if !keepSource {
			delete(m.nodes, p)
		}
	}
	return nil
}

func (m *memFS) Copy(ctx context.Context, src, dst string, recursive bool) error {
	if err := m.check(ctx, "copy", src); err != nil {
		return err
	}
	if m.nodes[src] && !recursive {
		return domain.NewIOError("copy", src, errors.New("is a directory"))
	}
	return m.transfer("copy", src, dst, true)
}

func (m *memFS) Move(ctx context.Context, src, dst string) error {
	if err := m.check(ctx, "move", src); err != nil {
		return err
	}
	return m.transfer("move", src, dst, false)
}

func (m *memFS) Delete(ctx context.Context, path string, recursive bool) error {
	if err := m.check(ctx, "delete", path); err != nil {
		return err
	}
	if !m.has(path) {
		return domain.NewIOError("delete", path, errors.New("no such file"))
	}
	below := m.below(path)
	if len(below) > 1 && !recursive {
		return domain.NewIOError("delete", path, errors.New("directory not empty"))
	}
	for _, p := range below {
		delete(m.nodes, p)
	}
	return nil
}

func (m *memFS) CreateDirectory(ctx context.Context, path string) error {
	if err := m.check(ctx, "mkdir", path); err != nil {
		return err
	}
	if m.has(path) {
		return domain.NewIOError("mkdir", path, errors.New("file exists"))
	}
	m.nodes[path] = true
	return nil
}

func (m *memFS) Exists(ctx context.Context, path string) (bool, error) {
	if err := m.check(ctx, "exists", path); err != nil {
		return false, err
	}
	return m.has(path), nil
}

func (m *memFS) Stat(ctx context.Context, path string) (ports.Entry, error) {
	if err := m.check(ctx, "stat", path); err != nil {
		return ports.Entry{}, err
	}
	isDir, ok := m.nodes[path]
	if !ok {
		return ports.Entry{}, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	return ports.Entry{Name: filepath.Base(path), Path: path, IsDir: isDir}, nil
}

type recordingSink struct {
	messages []string
}

func (r *recordingSink) Report(message string) {
	r.messages = append(r.messages, message)
}

// newLoadedSession returns a session over fs with /root loaded
func newLoadedSession(t *testing.T, fs *memFS) (*Session, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	s := NewSession(fs, sink, WithLogger(zap.NewNop()), WithSessionID("test"))
	if err := s.Load(context.Background(), pth("root")); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return s, sink
}

func mustFind(t *testing.T, s *Session, path string) *domain.TreeNode {
	t.Helper()
	node := s.Find(path)
	if node == nil {
		t.Fatalf("node %s not found", path)
	}
	return node
}

func assertTreeMatchesFS(t *testing.T, s *Session, fs *memFS) {
	t.Helper()
	s.Tree().Walk(func(n *domain.TreeNode) bool {
		isDir, ok := fs.nodes[n.Path]
		if !ok {
			t.Errorf("tree node %s missing on disk", n.Path)
		} else if isDir != n.IsDir() {
			t.Errorf("tree node %s kind mismatch", n.Path)
		}
		for _, child := range n.Children {
			if child.Parent != n || child.Path != domain.ChildPath(n.Path, child.Name) {
				t.Errorf("broken link under %s: %s", n.Path, child.Path)
			}
		}
		return true
	})
	for _, p := range fs.below(s.Tree().Path) {
		if s.Find(p) == nil {
			t.Errorf("disk entry %s missing from tree", p)
		}
	}
}
