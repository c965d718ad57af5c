package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"packbrowser/internal/adapters/filesystem"
	"packbrowser/internal/application"
	"packbrowser/internal/domain"
)

type recordingSink struct {
	messages []string
}

func (r *recordingSink) Report(message string) {
	r.messages = append(r.messages, message)
}

// setupSession creates and loads:
//
//	root/
//	  docs/
//	    a.txt
//	    deep/
//	      b.txt
//	  music/
//	  packs/
//	    world.pak
//	    world.pak.exports.json
//	  readme.md
func setupSession(t *testing.T) (*application.Session, *recordingSink, string) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "root")

	for _, dir := range []string{"docs/deep", "music", "packs"} {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(dir)), 0755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}
	for _, file := range []string{"docs/a.txt", "docs/deep/b.txt", "packs/world.pak", "packs/world.pak.exports.json", "readme.md"} {
		if err := os.WriteFile(filepath.Join(root, filepath.FromSlash(file)), []byte(file), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", file, err)
		}
	}

	sink := &recordingSink{}
	session := application.NewSession(filesystem.NewGateway(false), sink, application.WithLogger(zap.NewNop()))
	if err := session.Load(context.Background(), root); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return session, sink, root
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}

// memProvider serves a synthetic export table of the given size
type memProvider struct {
	counts map[string]int
	names  map[string]int
	reads  [][2]int
}

func (m *memProvider) ExportCount(_ context.Context, container string) (int, error) {
	n, ok := m.counts[container]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return n, nil
}

func (m *memProvider) Exports(_ context.Context, container string, start, count int) ([]domain.ExportDescriptor, error) {
	m.reads = append(m.reads, [2]int{start, count})
	out := make([]domain.ExportDescriptor, 0, count)
	for i := start; i < start+count && i < m.counts[container]; i++ {
		out = append(out, domain.ExportDescriptor{Index: i, Name: exportName(i), Class: "StaticMesh", Outer: -1})
	}
	return out, nil
}

func (m *memProvider) ResolveIndex(_ context.Context, _ string, name string) (int, error) {
	i, ok := m.names[name]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return i, nil
}

func exportName(i int) string {
	return fmt.Sprintf("Export_%05d", i)
}
