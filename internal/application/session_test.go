package application

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"
)

func TestSession_LoadLandsOnRoot(t *testing.T) {
	s, sink := newLoadedSession(t, sampleFS())

	if s.Navigation().Current() != pth("root") {
		t.Errorf("expected current %s, got %s", pth("root"), s.Navigation().Current())
	}
	if s.Navigation().CanGoBack() || s.Navigation().CanGoForward() {
		t.Error("fresh load should have no history")
	}
	visible, _ := s.Breadcrumbs(5)
	if len(visible) != 1 || visible[0].Name != "root" {
		t.Errorf("unexpected trail %+v", visible)
	}
	if len(sink.messages) != 0 {
		t.Errorf("unexpected reports: %v", sink.messages)
	}
}

func TestSession_LoadMissingRootReportsOnce(t *testing.T) {
	sink := &recordingSink{}
	s := NewSession(sampleFS(), sink, WithLogger(zap.NewNop()))

	err := s.Load(context.Background(), pth("nowhere"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if s.Tree() != nil {
		t.Error("tree installed after failed load")
	}
	if len(sink.messages) != 1 {
		t.Errorf("expected one report, got %v", sink.messages)
	}
}

func TestSession_StaleLoadIsIgnored(t *testing.T) {
	fs := sampleFS()
	sink := &recordingSink{}
	s := NewSession(fs, sink, WithLogger(zap.NewNop()))
	ctx := context.Background()

	first := s.BeginLoad(ctx, pth("root")).Run()
	second := s.BeginLoad(ctx, pth("ext"))

	if err := s.ApplyLoad(first); !IsCancelled(err) {
		t.Fatalf("expected stale result to be discarded, got %v", err)
	}
	if s.Tree() != nil {
		t.Fatal("stale result was installed")
	}

	if err := s.ApplyLoad(second.Run()); err != nil {
		t.Fatalf("ApplyLoad failed: %v", err)
	}
	if s.Tree().Path != pth("ext") {
		t.Errorf("expected ext tree, got %s", s.Tree().Path)
	}
	if len(sink.messages) != 0 {
		t.Errorf("cancellation must not be reported: %v", sink.messages)
	}
}

func TestSession_SupersededLoadIsCancelled(t *testing.T) {
	s := NewSession(sampleFS(), &recordingSink{}, WithLogger(zap.NewNop()))
	ctx := context.Background()

	first := s.BeginLoad(ctx, pth("root"))
	s.BeginLoad(ctx, pth("ext"))

	res := first.Run()
	if !IsCancelled(res.Err) {
		t.Errorf("superseded load should observe cancellation, got %v", res.Err)
	}
}

func TestSession_Rename(t *testing.T) {
	fs := sampleFS()
	s, sink := newLoadedSession(t, fs)
	var changes []Change
	s.Subscribe(func(c Change) { changes = append(changes, c) })

	if err := s.NavigateTo(pth("root", "docs", "deep")); err != nil {
		t.Fatal(err)
	}
	docs := mustFind(t, s, pth("root", "docs"))

	if err := s.Rename(context.Background(), docs, "papers"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}

	if !fs.has(pth("root", "papers", "deep", "b.txt")) || fs.has(pth("root", "docs")) {
		t.Error("physical rename not applied")
	}
	if s.Find(pth("root", "papers", "deep", "b.txt")) == nil {
		t.Error("descendant paths not cascaded")
	}
	if s.Navigation().Current() != pth("root", "papers", "deep") {
		t.Errorf("current not rewritten: %s", s.Navigation().Current())
	}
	want := []Change{{Kind: ChangeMoved, Path: pth("root", "papers"), OldPath: pth("root", "docs"), IsDir: true}}
	if !reflect.DeepEqual(changes, want) {
		t.Errorf("changes = %+v", changes)
	}
	if len(sink.messages) != 0 {
		t.Errorf("unexpected reports: %v", sink.messages)
	}
	assertTreeMatchesFS(t, s, fs)
}

func TestSession_RenameRejected(t *testing.T) {
	tests := []struct {
		name    string
		newName string
		wantErr error
	}{
		{"empty", "", ErrInvalidName},
		{"whitespace", "   ", ErrInvalidName},
		{"separator", "a/b", ErrInvalidName},
		{"dot dot", "..", ErrInvalidName},
		{"reserved char", "a?b", ErrInvalidName},
		{"taken", "music", ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := sampleFS()
			s, sink := newLoadedSession(t, fs)
			docs := mustFind(t, s, pth("root", "docs"))

			err := s.Rename(context.Background(), docs, tt.newName)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if fs.count("move") != 0 {
				t.Error("rejected rename touched the disk")
			}
			if docs.Name != "docs" {
				t.Errorf("model changed: %s", docs.Name)
			}
			if len(sink.messages) != 1 {
				t.Errorf("expected one report, got %v", sink.messages)
			}
		})
	}
}

func TestSession_RenamePhysicalFailureKeepsModel(t *testing.T) {
	fs := sampleFS()
	s, sink := newLoadedSession(t, fs)
	docs := mustFind(t, s, pth("root", "docs"))
	fs.fail["move "+docs.Path] = errors.New("device busy")

	err := s.Rename(context.Background(), docs, "papers")
	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	var ioErr *IOError
	if !errors.As(err, &ioErr) || ioErr.Path != docs.Path {
		t.Errorf("expected path context, got %v", err)
	}
	if docs.Path != pth("root", "docs") || s.Find(pth("root", "docs", "a.txt")) == nil {
		t.Error("model mutated after physical failure")
	}
	if len(sink.messages) != 1 {
		t.Errorf("expected one report, got %v", sink.messages)
	}
}

func TestSession_RenameRootRejected(t *testing.T) {
	s, _ := newLoadedSession(t, sampleFS())
	var vErr *ValidationError
	if err := s.Rename(context.Background(), s.Tree(), "x"); !errors.As(err, &vErr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestSession_Move(t *testing.T) {
	fs := sampleFS()
	s, _ := newLoadedSession(t, fs)
	deep := mustFind(t, s, pth("root", "docs", "deep"))
	music := mustFind(t, s, pth("root", "music"))

	if err := s.NavigateTo(deep.Path); err != nil {
		t.Fatal(err)
	}
	if err := s.NavigateTo(pth("root", "docs", "deep", "b.txt")); err != nil {
		t.Fatal(err)
	}

	if err := s.Move(context.Background(), deep, music); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	if deep.Parent != music || deep.Path != pth("root", "music", "deep") {
		t.Errorf("model not updated: %s", deep.Path)
	}
	if s.Navigation().Current() != pth("root", "music", "deep", "b.txt") {
		t.Errorf("current not rewritten: %s", s.Navigation().Current())
	}
	if back := s.Navigation().State().Back; back[len(back)-1] != pth("root", "music", "deep") {
		t.Errorf("back stack not rewritten: %v", back)
	}
	assertTreeMatchesFS(t, s, fs)
}

func TestSession_MoveRejected(t *testing.T) {
	fs := sampleFS()
	s, sink := newLoadedSession(t, fs)
	docs := mustFind(t, s, pth("root", "docs"))
	deep := mustFind(t, s, pth("root", "docs", "deep"))
	readme := mustFind(t, s, pth("root", "readme.md"))

	tests := []struct {
		name    string
		node    *TreeNode
		dest    *TreeNode
		wantErr error
	}{
		{"into itself", docs, docs, ErrInvalidMove},
		{"into descendant", docs, deep, ErrInvalidMove},
		{"into file", deep, readme, ErrNotDirectory},
		{"root", s.Tree(), deep, ErrInvalidMove},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Move(context.Background(), tt.node, tt.dest); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
	if fs.count("move") != 0 {
		t.Error("rejected moves touched the disk")
	}
	if len(sink.messages) != len(tests) {
		t.Errorf("expected %d reports, got %v", len(tests), sink.messages)
	}
	assertTreeMatchesFS(t, s, fs)
}

func TestSession_MoveIntoSameParentIsNoop(t *testing.T) {
	fs := sampleFS()
	s, _ := newLoadedSession(t, fs)

	a := mustFind(t, s, pth("root", "docs", "a.txt"))
	if err := s.Move(context.Background(), a, a.Parent); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fs.count("move") != 0 {
		t.Error("no-op move touched the disk")
	}
}

func TestSession_DeletePrunesHistory(t *testing.T) {
	fs := sampleFS()
	s, _ := newLoadedSession(t, fs)

	for _, path := range []string{pth("root", "docs"), pth("root", "docs", "deep"), pth("root", "music")} {
		if err := s.NavigateTo(path); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.Delete(context.Background(), mustFind(t, s, pth("root", "docs"))); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	state := s.Navigation().State()
	if !reflect.DeepEqual(state.Back, []string{pth("root")}) {
		t.Errorf("back stack still references removed nodes: %v", state.Back)
	}
	if state.Current != pth("root", "music") {
		t.Errorf("current changed: %s", state.Current)
	}
	if fs.has(pth("root", "docs", "a.txt")) {
		t.Error("physical delete not applied")
	}
	if _, err := s.Search("b.txt"); !errors.Is(err, ErrNoResults) {
		t.Errorf("deleted node still searchable: %v", err)
	}
	assertTreeMatchesFS(t, s, fs)
}

func TestSession_DeleteCurrentFallsBackToParent(t *testing.T) {
	s, _ := newLoadedSession(t, sampleFS())
	if err := s.NavigateTo(pth("root", "docs", "deep")); err != nil {
		t.Fatal(err)
	}

	if err := s.Delete(context.Background(), mustFind(t, s, pth("root", "docs", "deep"))); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got := s.Navigation().Current(); got != pth("root", "docs") {
		t.Errorf("expected fallback to docs, got %s", got)
	}
}

func TestSession_CreateFolder(t *testing.T) {
	fs := sampleFS()
	s, _ := newLoadedSession(t, fs)

	node, err := s.CreateFolder(context.Background(), s.Tree(), "new")
	if err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}
	if !fs.nodes[node.Path] {
		t.Error("directory not created on disk")
	}

	var order []string
	for _, child := range s.Tree().Children {
		order = append(order, child.Name)
	}
	if !reflect.DeepEqual(order, []string{"docs", "music", "new", "readme.md"}) {
		t.Errorf("unexpected order %v", order)
	}
	if found, err := s.Search("new"); err != nil || found != node {
		t.Errorf("new folder not searchable: %v", err)
	}

	if _, err := s.CreateFolder(context.Background(), s.Tree(), "new"); !errors.Is(err, ErrInvalidName) {
		t.Errorf("expected duplicate to be rejected, got %v", err)
	}
}

func TestSession_PasteCopyPicksFreeNames(t *testing.T) {
	fs := sampleFS()
	s, _ := newLoadedSession(t, fs)
	a := mustFind(t, s, pth("root", "docs", "a.txt"))

	s.Copy(a)
	for _, want := range []string{"a (copy).txt", "a (copy 2).txt"} {
		node, err := s.Paste(context.Background(), a)
		if err != nil {
			t.Fatalf("Paste failed: %v", err)
		}
		if node.Name != want {
			t.Errorf("expected %s, got %s", want, node.Name)
		}
	}
	if _, _, ok := s.Clipboard(); !ok {
		t.Error("copy entries survive paste")
	}
	assertTreeMatchesFS(t, s, fs)
}

func TestSession_PasteCutMoves(t *testing.T) {
	fs := sampleFS()
	s, _ := newLoadedSession(t, fs)
	readme := mustFind(t, s, pth("root", "readme.md"))

	s.Cut(readme)
	node, err := s.Paste(context.Background(), mustFind(t, s, pth("root", "docs", "a.txt")))
	if err != nil {
		t.Fatalf("Paste failed: %v", err)
	}
	if node.Path != pth("root", "docs", "readme.md") {
		t.Errorf("unexpected destination %s", node.Path)
	}
	if _, _, ok := s.Clipboard(); ok {
		t.Error("cut entry not consumed")
	}
	assertTreeMatchesFS(t, s, fs)
}

func TestSession_PasteDirectoryIntoItselfRejected(t *testing.T) {
	fs := sampleFS()
	s, _ := newLoadedSession(t, fs)
	docs := mustFind(t, s, pth("root", "docs"))

	s.Copy(docs)
	if _, err := s.Paste(context.Background(), mustFind(t, s, pth("root", "docs", "deep"))); !errors.Is(err, ErrInvalidMove) {
		t.Errorf("expected ErrInvalidMove, got %v", err)
	}
	if fs.count("copy") != 0 {
		t.Error("rejected paste touched the disk")
	}
}

func TestSession_PasteEmptyClipboard(t *testing.T) {
	s, sink := newLoadedSession(t, sampleFS())
	if _, err := s.Paste(context.Background(), s.Tree()); !errors.Is(err, ErrNotAvailable) {
		t.Errorf("expected ErrNotAvailable, got %v", err)
	}
	if len(sink.messages) != 0 {
		t.Errorf("empty clipboard should not be reported: %v", sink.messages)
	}
}

func TestSession_SearchRevealsMatch(t *testing.T) {
	s, _ := newLoadedSession(t, sampleFS())

	node, err := s.Search("B.TXT")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	for p := node.Parent; p != nil; p = p.Parent {
		if !p.IsExpanded {
			t.Errorf("ancestor %s not expanded", p.Path)
		}
	}
}

func TestSession_RefreshClearsHistoryAndReloads(t *testing.T) {
	fs := sampleFS()
	s, _ := newLoadedSession(t, fs)
	s.NavigateTo(pth("root", "docs"))
	s.NavigateTo(pth("root", "music"))

	fs.add(pth("root", "music", "song.ogg"), false)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if s.Navigation().CanGoBack() || s.Navigation().CanGoForward() {
		t.Error("refresh should clear history")
	}
	if s.Navigation().Current() != pth("root") {
		t.Errorf("refresh should land on root, got %s", s.Navigation().Current())
	}
	if s.Find(pth("root", "music", "song.ogg")) == nil {
		t.Error("refresh did not reload the tree")
	}
}

func TestSession_ReloadKeepsLocation(t *testing.T) {
	fs := sampleFS()
	s, _ := newLoadedSession(t, fs)
	s.NavigateTo(pth("root", "docs"))
	s.NavigateTo(pth("root", "docs", "deep"))

	delete(fs.nodes, pth("root", "music"))
	req, err := s.BeginReload(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.ApplyLoad(req.Run()); err != nil {
		t.Fatalf("ApplyLoad failed: %v", err)
	}

	if s.Navigation().Current() != pth("root", "docs", "deep") {
		t.Errorf("reload moved current to %s", s.Navigation().Current())
	}
	if !s.Navigation().CanGoBack() {
		t.Error("reload of the same root should keep history")
	}
}

func TestSession_RefreshKeepsHistoryUntilApplied(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(s *Session, fs *memFS) *LoadResult
	}{
		{"cancelled", func(s *Session, _ *memFS) *LoadResult {
			req, _ := s.BeginRefresh(context.Background())
			s.CancelLoad()
			return req.Run()
		}},
		{"superseded", func(s *Session, _ *memFS) *LoadResult {
			req, _ := s.BeginRefresh(context.Background())
			res := req.Run()
			s.BeginReload(context.Background())
			return res
		}},
		{"failed", func(s *Session, fs *memFS) *LoadResult {
			fs.fail["list "+pth("root")] = errors.New("permission denied")
			req, _ := s.BeginRefresh(context.Background())
			return req.Run()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := sampleFS()
			s, _ := newLoadedSession(t, fs)
			s.NavigateTo(pth("root", "docs"))
			s.NavigateTo(pth("root", "music"))
			before := s.Navigation().State()

			if err := s.ApplyLoad(tt.prepare(s, fs)); err == nil {
				t.Fatal("expected the refresh to be rejected")
			}
			if after := s.Navigation().State(); !reflect.DeepEqual(before, after) {
				t.Errorf("history changed: before %+v, after %+v", before, after)
			}
		})
	}
}

func TestSession_BeginRefreshClearsHistoryOnApply(t *testing.T) {
	s, _ := newLoadedSession(t, sampleFS())
	s.NavigateTo(pth("root", "docs"))
	s.NavigateTo(pth("root", "music"))

	req, err := s.BeginRefresh(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !s.Navigation().CanGoBack() {
		t.Fatal("history cleared before the refresh ran")
	}
	if err := s.ApplyLoad(req.Run()); err != nil {
		t.Fatalf("ApplyLoad failed: %v", err)
	}
	if s.Navigation().CanGoBack() || s.Navigation().CanGoForward() {
		t.Error("applied refresh should clear history")
	}
	if s.Navigation().Current() != pth("root") {
		t.Errorf("refresh should land on root, got %s", s.Navigation().Current())
	}
}

func TestSession_FailedSyncRefreshKeepsHistory(t *testing.T) {
	fs := sampleFS()
	s, _ := newLoadedSession(t, fs)
	s.NavigateTo(pth("root", "docs"))

	fs.fail["list "+pth("root")] = errors.New("permission denied")
	if err := s.Refresh(context.Background()); err == nil {
		t.Fatal("expected Refresh to fail")
	}
	if !s.Navigation().CanGoBack() {
		t.Error("failed refresh cleared history")
	}
}

func TestSession_NilNodeEdits(t *testing.T) {
	s, sink := newLoadedSession(t, sampleFS())

	if err := s.Rename(context.Background(), nil, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Rename(nil) = %v, expected ErrNotFound", err)
	}
	if err := s.Delete(context.Background(), nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(nil) = %v, expected ErrNotFound", err)
	}
	if len(sink.messages) != 2 {
		t.Errorf("expected two reports, got %v", sink.messages)
	}
}
