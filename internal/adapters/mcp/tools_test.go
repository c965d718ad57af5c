package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"packbrowser/internal/adapters/filesystem"
	"packbrowser/internal/adapters/manifest"
	"packbrowser/internal/adapters/sqlite"
	"packbrowser/internal/application"
	"packbrowser/internal/domain"
)

// setupWorkspace creates and loads:
//
//	root/
//	  docs/
//	    a.txt
//	  packs/
//	    world.pak                (6000 exports)
//	    world.pak.exports.json
//	  readme.md
func setupWorkspace(t *testing.T) (*Workspace, string) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "root")
	for _, dir := range []string{"docs", "packs"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			t.Fatal(err)
		}
	}
	for _, file := range []string{"docs/a.txt", "packs/world.pak", "readme.md"} {
		if err := os.WriteFile(filepath.Join(root, filepath.FromSlash(file)), []byte(file), 0644); err != nil {
			t.Fatal(err)
		}
	}

	exports := make([]domain.ExportDescriptor, 6000)
	for i := range exports {
		exports[i] = domain.ExportDescriptor{Index: i, Name: fmt.Sprintf("Mesh_%04d", i), Class: "StaticMesh", Outer: -1}
	}
	if err := manifest.Write(filepath.Join(root, "packs", "world.pak"), exports); err != nil {
		t.Fatal(err)
	}

	catalog := sqlite.NewCatalog()
	if err := catalog.Open(filepath.Join(t.TempDir(), "catalog.db")); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { catalog.Close() })

	session := application.NewSession(filesystem.NewGateway(false), nil, application.WithLogger(zap.NewNop()))
	if err := session.Load(context.Background(), root); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	return NewWorkspace(session, WorkspaceConfig{
		Catalog:     catalog,
		Manifests:   manifest.NewReader(),
		PageSize:    1,
		Breadcrumbs: 3,
	}), root
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args

	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler returned a protocol error: %v", err)
	}
	if len(result.Content) == 0 {
		t.Fatal("empty result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content %#v", result.Content[0])
	}
	return text.Text, result.IsError
}

func TestReadTools(t *testing.T) {
	w, _ := setupWorkspace(t)

	tests := []struct {
		name    string
		handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args    map[string]any
		want    []string
		wantErr bool
	}{
		{"ls root", w.list, nil, []string{"docs/", "packs/", "readme.md"}, false},
		{"ls file", w.list, map[string]any{"path": "readme.md"}, []string{"readme.md"}, false},
		{"ls missing", w.list, map[string]any{"path": "nope"}, []string{"not found"}, true},
		{"tree depth", w.tree, map[string]any{"depth": 1}, []string{"root/\n  docs/\n  packs/\n  readme.md"}, false},
		{"tree nested", w.tree, map[string]any{"path": "docs"}, []string{"docs/\n  a.txt"}, false},
		{"search prefix first", w.search, map[string]any{"query": "a"}, []string{"a.txt", "readme.md"}, false},
		{"search nothing", w.search, map[string]any{"query": "zzz"}, []string{"No results found."}, false},
		{"search empty", w.search, nil, []string{"query is required"}, true},
		{"crumbs", w.crumbs, map[string]any{"path": "docs/a.txt"}, []string{"root > docs > a.txt"}, false},
		{"crumbs elided", w.crumbs, map[string]any{"path": "docs/a.txt", "max_visible": 2}, []string{"root > …", "elided: docs > a.txt"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isErr := call(t, tt.handler, tt.args)
			if isErr != tt.wantErr {
				t.Errorf("IsError = %v, expected %v (%s)", isErr, tt.wantErr, text)
			}
			for _, want := range tt.want {
				if !strings.Contains(text, want) {
					t.Errorf("result missing %q:\n%s", want, text)
				}
			}
		})
	}
}

func TestImportThenExports(t *testing.T) {
	w, root := setupWorkspace(t)

	if text, isErr := call(t, w.exports, map[string]any{"container": "packs/world.pak"}); !isErr {
		t.Errorf("exports before import should fail, got %s", text)
	}

	text, isErr := call(t, w.importExports, nil)
	if isErr || !strings.Contains(text, "Imported 6000 exports from 1 containers") {
		t.Fatalf("import: %s", text)
	}

	text, isErr = call(t, w.exports, map[string]any{"container": filepath.Join(root, "packs", "world.pak"), "index": 47})
	if isErr {
		t.Fatalf("exports failed: %s", text)
	}
	if !strings.Contains(text, "48 of 6000") || !strings.Contains(text, "47  Mesh_0047  StaticMesh") {
		t.Errorf("unexpected window:\n%s", text)
	}
	if strings.Contains(text, "Mesh_0048") {
		t.Errorf("window should hold a single export:\n%s", text)
	}

	text, _ = call(t, w.exports, map[string]any{"container": "packs/world.pak", "name": "Mesh_5999"})
	if !strings.Contains(text, "6000 of 6000") {
		t.Errorf("lookup by name:\n%s", text)
	}
}

func TestWriteTools(t *testing.T) {
	w, root := setupWorkspace(t)

	steps := []struct {
		name    string
		handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args    map[string]any
		wantErr bool
	}{
		{"mkdir", w.mkdir, map[string]any{"name": "archive"}, false},
		{"mkdir bad name", w.mkdir, map[string]any{"name": "a/b"}, true},
		{"rename", w.rename, map[string]any{"path": "docs", "name": "papers"}, false},
		{"move", w.move, map[string]any{"source": "readme.md", "destination": "archive"}, false},
		{"move into itself", w.move, map[string]any{"source": "papers", "destination": "papers"}, true},
		{"delete", w.delete, map[string]any{"path": "papers"}, false},
		{"delete missing", w.delete, map[string]any{"path": "papers"}, true},
	}
	for _, step := range steps {
		text, isErr := call(t, step.handler, step.args)
		if isErr != step.wantErr {
			t.Fatalf("%s: IsError = %v, expected %v (%s)", step.name, isErr, step.wantErr, text)
		}
	}

	if _, err := os.Stat(filepath.Join(root, "archive", "readme.md")); err != nil {
		t.Errorf("move not applied: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "papers")); !os.IsNotExist(err) {
		t.Error("papers should be deleted")
	}

	text, _ := call(t, w.list, nil)
	if strings.Contains(text, "docs") || !strings.Contains(text, "archive/") {
		t.Errorf("tree out of sync:\n%s", text)
	}
}

func TestRefreshPicksUpExternalChanges(t *testing.T) {
	w, root := setupWorkspace(t)
	if err := os.WriteFile(filepath.Join(root, "new.txt"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	if text, isErr := call(t, w.refresh, nil); isErr {
		t.Fatalf("refresh failed: %s", text)
	}
	text, _ := call(t, w.list, nil)
	if !strings.Contains(text, "new.txt") {
		t.Errorf("refresh did not load new.txt:\n%s", text)
	}
}

func TestHandleSerializesCalls(t *testing.T) {
	w, _ := setupWorkspace(t)
	handler := w.handle("ls", w.list)

	done := make(chan struct{})
	for range 8 {
		go func() {
			defer func() { done <- struct{}{} }()
			if _, err := handler(context.Background(), mcp.CallToolRequest{}); err != nil {
				t.Errorf("handler failed: %v", err)
			}
		}()
	}
	for range 8 {
		<-done
	}
}
