package views

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"packbrowser/internal/application"
)

// NameMode selects what the name form does on submit
type NameMode int

const (
	NameCreateFolder NameMode = iota
	NameRename
)

// NameModel asks for a name and creates a folder or renames an entry
type NameModel struct {
	ViewState
	session *application.Session
	form    *InputForm
	mode    NameMode
	target  *application.TreeNode
}

// NewNameModel creates a new name form
func NewNameModel(session *application.Session) *NameModel {
	return &NameModel{
		session: session,
		form:    NewInputForm(NewInputField("Name", "new name", 255, application.ValidateName)),
	}
}

// SetTarget prepares the form. For NameCreateFolder the target is the
// directory that receives the folder, or a file whose parent does.
func (m *NameModel) SetTarget(mode NameMode, node *application.TreeNode) {
	m.mode = mode
	m.ClearMessage()
	switch mode {
	case NameRename:
		m.target = node
		m.form.Reset(node.Name)
	default:
		m.target = application.DestinationFor(node)
		m.form.Reset()
	}
}

// Init initializes the name form
func (m *NameModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the name form
func (m *NameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.SetSize(msg.Width, msg.Height)
		return m, nil
	}

	event, cmd := m.form.Update(msg)
	switch event {
	case FormCancelled:
		return m, switchToBrowser
	case FormSubmitted:
		return m, m.submit()
	}
	return m, cmd
}

func (m *NameModel) submit() tea.Cmd {
	if m.target == nil {
		m.SetMessage("no target selected", true)
		return nil
	}
	name := m.form.Value(0)
	ctx := context.Background()

	switch m.mode {
	case NameRename:
		oldName := m.target.Name
		if err := m.session.Rename(ctx, m.target, name); err != nil {
			return nil
		}
		return done(fmt.Sprintf("Renamed %s to %s", oldName, m.target.Name), m.target.Path)
	default:
		node, err := m.session.CreateFolder(ctx, m.target, name)
		if err != nil {
			return nil
		}
		return done(fmt.Sprintf("Created %s", node.Name), node.Path)
	}
}

// View renders the name form
func (m *NameModel) View() string {
	title, action, submit := "New Folder", "Inside", "create"
	if m.mode == NameRename {
		title, action, submit = "Rename", "Rename", "rename"
	}

	v := NewViewBuilder().Title(title)
	if m.target != nil {
		v.Line(RenderTargetInfo(m.target, action)).BlankLine()
	}
	v.Message(m.Message, m.MessageErr)
	v.Line(m.form.View(submit))
	return v.String()
}

func switchToBrowser() tea.Msg {
	return SwitchToBrowserMsg{}
}

func done(message, focus string) tea.Cmd {
	return func() tea.Msg {
		return OperationDoneMsg{Message: message, Focus: focus}
	}
}

