package views

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"packbrowser/internal/adapters/tui/styles"
	"packbrowser/internal/application"
)

// DeleteModel asks before deleting a node from disk and from the tree
type DeleteModel struct {
	ViewState
	session *application.Session
	confirm *Confirmation
}

// NewDeleteModel creates a new delete view model
func NewDeleteModel(session *application.Session) *DeleteModel {
	return &DeleteModel{
		session: session,
		confirm: NewConfirmation(),
	}
}

// SetTarget sets the node to delete
func (m *DeleteModel) SetTarget(node *application.TreeNode) {
	m.confirm.Ask(node)
	m.ClearMessage()
}

// Init initializes the delete view
func (m *DeleteModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the delete view
func (m *DeleteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch m.confirm.Answer(msg) {
		case Yes:
			return m, m.doDelete()
		case No:
			return m, switchToBrowser
		}
	}
	return m, nil
}

func (m *DeleteModel) doDelete() tea.Cmd {
	node := m.confirm.Target
	if node == nil {
		m.SetMessage("no target selected", true)
		return nil
	}

	parent := node.Parent
	if err := m.session.Delete(context.Background(), node); err != nil {
		return nil
	}

	focus := ""
	if parent != nil {
		focus = parent.Path
	}
	return done(fmt.Sprintf("Deleted %s", node.Name), focus)
}

// View renders the delete confirmation view
func (m *DeleteModel) View() string {
	node := m.confirm.Target
	v := NewViewBuilder().Title("Delete")
	v.Line(styles.ErrorMsg.Render("This cannot be undone.")).BlankLine()
	v.Line(RenderTargetInfo(node, "Delete")).BlankLine()

	if node != nil && node.IsDir() {
		v.Muted(fmt.Sprintf("  %d entries inside go with it.", node.Count()-1)).BlankLine()
	}

	v.Message(m.Message, m.MessageErr)
	v.Line(m.confirm.Prompt("Delete from disk?"))
	return v.String()
}
