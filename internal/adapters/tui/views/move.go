package views

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"packbrowser/internal/application"
	"packbrowser/internal/application/commands"
)

// MoveModel asks for a destination directory and moves an entry into it
type MoveModel struct {
	ViewState
	session *application.Session
	form    *InputForm
	source  *application.TreeNode
}

// NewMoveModel creates a new move view model
func NewMoveModel(session *application.Session) *MoveModel {
	m := &MoveModel{session: session}
	m.form = NewInputForm(NewInputField("Destination", "path relative to the root", 0, m.check))
	return m
}

// SetSource sets the entry to move and prefills its current directory
func (m *MoveModel) SetSource(node *application.TreeNode) {
	m.source = node
	m.ClearMessage()

	prefill := ""
	if root := m.session.Tree(); root != nil && node.Parent != nil {
		if rel, err := filepath.Rel(root.Path, node.Parent.Path); err == nil && rel != "." {
			prefill = rel
		}
	}
	m.form.Reset(prefill)
}

// resolve maps the typed destination to a node. Empty means the root.
func (m *MoveModel) resolve(value string) (*application.TreeNode, error) {
	root := m.session.Tree()
	if root == nil {
		return nil, application.ErrNotAvailable
	}
	path := value
	if !filepath.IsAbs(path) {
		path = filepath.Join(root.Path, path)
	}
	dest := m.session.Find(path)
	if dest == nil {
		return nil, fmt.Errorf("%s does not exist", value)
	}
	return dest, nil
}

func (m *MoveModel) check(value string) error {
	if m.source == nil {
		return nil
	}
	dest, err := m.resolve(value)
	if err != nil {
		return err
	}
	return commands.ValidateMoveDestination(m.source, dest)
}

// Init initializes the move view
func (m *MoveModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the move view
func (m *MoveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.SetSize(msg.Width, msg.Height)
		return m, nil
	}

	event, cmd := m.form.Update(msg)
	switch event {
	case FormCancelled:
		return m, switchToBrowser
	case FormSubmitted:
		return m, m.move()
	}
	return m, cmd
}

func (m *MoveModel) move() tea.Cmd {
	if m.source == nil {
		m.SetMessage("no source selected", true)
		return nil
	}
	dest, err := m.resolve(m.form.Value(0))
	if err != nil {
		m.SetError(err)
		return nil
	}

	oldPath := m.source.Path
	if err := m.session.Move(context.Background(), m.source, dest); err != nil {
		return nil
	}
	if m.source.Path == oldPath {
		return done("Already there", oldPath)
	}
	return done(fmt.Sprintf("Moved %s to %s", m.source.Name, dest.Name), m.source.Path)
}

// View renders the move view
func (m *MoveModel) View() string {
	v := NewViewBuilder().Title("Move")
	if m.source != nil {
		v.Line(RenderTargetInfo(m.source, "Move")).BlankLine()
	}
	v.Message(m.Message, m.MessageErr)
	v.Line(m.form.View("move"))
	return v.String()
}
