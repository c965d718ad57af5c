package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"packbrowser/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// helpSection groups browser bindings under a heading
type helpSection struct {
	title    string
	bindings []key.Binding
}

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
	sections []helpSection
}

// NewHelpModel creates a new help view model listing the browser bindings
func NewHelpModel() *HelpModel {
	k := BrowserKeys
	return &HelpModel{
		sections: []helpSection{
			{"Navigation", []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Enter, k.Parent, k.Back, k.Forward}},
			{"Search", []key.Binding{k.Search, k.NextMatch}},
			{"Edit", []key.Binding{k.New, k.Rename, k.Move, k.Delete, k.Cut, k.Copy, k.Paste}},
			{"Packages", []key.Binding{k.Exports, k.Import}},
			{"General", []key.Binding{k.Yank, k.Edit, k.Reload, k.Refresh, k.Help, k.Quit}},
		},
	}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, switchToBrowser
		}
	}

	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("packbrowser help"))
	b.WriteString("\n\n")

	for _, section := range m.sections {
		b.WriteString(styles.InputLabel.Render(section.title))
		b.WriteString("\n")
		for _, binding := range section.bindings {
			help := binding.Help()
			b.WriteString(helpLine(help.Key, help.Desc))
		}
		b.WriteString("\n")
	}

	b.WriteString(styles.InputLabel.Render("Mouse"))
	b.WriteString("\n")
	b.WriteString(helpLine("click", "Select"))
	b.WriteString(helpLine("drag", "Move onto a folder"))
	b.WriteString(helpLine("wheel", "Scroll"))
	b.WriteString(helpLine("paste paths", "Copy files in from outside"))
	b.WriteString("\n")

	b.WriteString(styles.HelpDesc.Render("Press "))
	b.WriteString(styles.HelpKey.Render("esc"))
	b.WriteString(styles.HelpDesc.Render(" or "))
	b.WriteString(styles.HelpKey.Render("?"))
	b.WriteString(styles.HelpDesc.Render(" to close"))

	return styles.App.Render(b.String())
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 16)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	if w := len([]rune(s)); w < length {
		return s + strings.Repeat(" ", length-w)
	}
	return s
}
