package views

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"packbrowser/internal/application"
)

func doneMsg(t *testing.T, cmd tea.Cmd) OperationDoneMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(OperationDoneMsg)
	if !ok {
		t.Fatalf("expected OperationDoneMsg, got %#v", msg)
	}
	return msg
}

func TestNameModel_Rename(t *testing.T) {
	_, session, root := setupBrowser(t)
	m := NewNameModel(session)

	m.SetTarget(NameRename, session.Find(filepath.Join(root, "docs")))
	if m.form.Value(0) != "docs" {
		t.Errorf("rename should prefill the current name, got %q", m.form.Value(0))
	}

	m.form.Reset("papers")
	_, cmd := m.Update(keyMsg("enter"))
	msg := doneMsg(t, cmd)

	if msg.Focus != filepath.Join(root, "papers") {
		t.Errorf("focus = %s", msg.Focus)
	}
	if _, err := os.Stat(filepath.Join(root, "papers", "a.txt")); err != nil {
		t.Errorf("rename not applied on disk: %v", err)
	}
}

func TestNameModel_CreateFolderNextToFile(t *testing.T) {
	_, session, root := setupBrowser(t)
	m := NewNameModel(session)

	m.SetTarget(NameCreateFolder, session.Find(filepath.Join(root, "docs", "a.txt")))
	m.form.Reset("drafts")
	_, cmd := m.Update(keyMsg("enter"))
	msg := doneMsg(t, cmd)

	if msg.Focus != filepath.Join(root, "docs", "drafts") {
		t.Errorf("focus = %s", msg.Focus)
	}
	if info, err := os.Stat(msg.Focus); err != nil || !info.IsDir() {
		t.Errorf("folder not created: %v", err)
	}
}

func TestNameModel_InvalidNameRefused(t *testing.T) {
	_, session, root := setupBrowser(t)
	m := NewNameModel(session)

	m.SetTarget(NameCreateFolder, session.Tree())
	m.form.Reset("a/b")
	_, cmd := m.Update(keyMsg("enter"))

	if cmd != nil {
		t.Error("an invalid name must not submit")
	}
	if !errors.Is(m.form.Err, application.ErrInvalidName) {
		t.Errorf("expected ErrInvalidName, got %v", m.form.Err)
	}
	if _, err := os.Stat(filepath.Join(root, "a")); !os.IsNotExist(err) {
		t.Error("nothing should be created")
	}
}

func TestNameModel_EscCancels(t *testing.T) {
	_, session, _ := setupBrowser(t)
	m := NewNameModel(session)
	m.SetTarget(NameCreateFolder, session.Tree())

	_, cmd := m.Update(keyMsg("esc"))
	if _, ok := cmd().(SwitchToBrowserMsg); !ok {
		t.Error("esc should return to the browser")
	}
}

func TestMoveModel(t *testing.T) {
	_, session, root := setupBrowser(t)
	m := NewMoveModel(session)

	readme := session.Find(filepath.Join(root, "readme.md"))
	m.SetSource(readme)
	if m.form.Value(0) != "" {
		t.Errorf("a root child should prefill the root, got %q", m.form.Value(0))
	}

	m.form.Reset("nowhere")
	if _, cmd := m.Update(keyMsg("enter")); cmd != nil {
		t.Error("a missing destination must not submit")
	}

	m.form.Reset("music")
	_, cmd := m.Update(keyMsg("enter"))
	msg := doneMsg(t, cmd)
	if msg.Focus != filepath.Join(root, "music", "readme.md") {
		t.Errorf("focus = %s", msg.Focus)
	}
}

func TestMoveModel_RejectsDescendant(t *testing.T) {
	_, session, root := setupBrowser(t)
	m := NewMoveModel(session)

	m.SetSource(session.Find(filepath.Join(root, "docs")))
	m.form.Reset("docs")
	if _, cmd := m.Update(keyMsg("enter")); cmd != nil {
		t.Error("moving a folder into itself must not submit")
	}
	if !errors.Is(m.form.Err, application.ErrInvalidMove) {
		t.Errorf("expected ErrInvalidMove, got %v", m.form.Err)
	}
}

func TestDeleteModel(t *testing.T) {
	_, session, root := setupBrowser(t)
	m := NewDeleteModel(session)

	m.SetTarget(session.Find(filepath.Join(root, "docs")))
	if view := m.View(); !contains(view, "1 entries inside") {
		t.Errorf("delete view should count the entries inside:\n%s", view)
	}

	_, cmd := m.Update(keyMsg("y"))
	msg := doneMsg(t, cmd)
	if msg.Focus != root {
		t.Errorf("focus should fall back to the parent, got %s", msg.Focus)
	}
	if _, err := os.Stat(filepath.Join(root, "docs")); !os.IsNotExist(err) {
		t.Error("docs still on disk")
	}
}

func TestDeleteModel_Cancel(t *testing.T) {
	_, session, root := setupBrowser(t)
	m := NewDeleteModel(session)
	m.SetTarget(session.Find(filepath.Join(root, "readme.md")))

	_, cmd := m.Update(keyMsg("n"))
	if _, ok := cmd().(SwitchToBrowserMsg); !ok {
		t.Error("n should return to the browser")
	}
	if _, err := os.Stat(filepath.Join(root, "readme.md")); err != nil {
		t.Error("cancel must not delete")
	}
}

func TestSearchModel(t *testing.T) {
	_, session, root := setupBrowser(t)
	m := NewSearchModel(session)

	m.Update(keyMsg("a"))
	if len(m.results) != 2 || m.results[0].Name != "a.txt" {
		t.Fatalf("unexpected results %v", m.results)
	}

	_, cmd := m.Update(keyMsg("enter"))
	msg, ok := cmd().(SearchSelectMsg)
	if !ok || msg.Path != filepath.Join(root, "docs", "a.txt") || msg.Query != "a" {
		t.Errorf("unexpected selection %#v", msg)
	}
}
