package views

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"packbrowser/internal/adapters/tui/styles"
	"packbrowser/internal/application/commands"
	"packbrowser/internal/domain"
	"packbrowser/internal/ports"
)

// ExportsKeyMap defines key bindings for the export table view
type ExportsKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Next key.Binding
	Prev key.Binding
	Jump key.Binding
	Yank key.Binding
	Back key.Binding
}

var ExportsKeys = ExportsKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Next: key.NewBinding(
		key.WithKeys("n", "pgdown", "right", "l"),
		key.WithHelp("n", "next page"),
	),
	Prev: key.NewBinding(
		key.WithKeys("p", "pgup", "left", "h"),
		key.WithHelp("p", "prev page"),
	),
	Jump: key.NewBinding(
		key.WithKeys("g", ":"),
		key.WithHelp("g", "go to export"),
	),
	Yank: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy name"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "q"),
		key.WithHelp("esc", "back"),
	),
}

// exportsLoadedMsg carries one fetched window. seq discards answers to
// requests that were superseded.
type exportsLoadedMsg struct {
	seq    int
	result *commands.ExportsResult
	err    error
}

// ExportsModel shows the export table of a package container one window at
// a time.
type ExportsModel struct {
	ViewState
	provider ports.PackageProvider
	pageSize int

	container string
	result    *commands.ExportsResult
	scroller  *Scroller
	loading   bool
	seq       int

	jumping bool
	jump    *InputForm
}

// NewExportsModel creates an export table view. provider may be nil when no
// catalog is configured.
func NewExportsModel(provider ports.PackageProvider, pageSize int) *ExportsModel {
	return &ExportsModel{
		provider: provider,
		pageSize: pageSize,
		scroller: NewScroller(1),
		jump:     NewInputForm(NewInputField("Export", "index or name", 0, nil)),
	}
}

// Open starts loading the first window of container
func (m *ExportsModel) Open(container string) tea.Cmd {
	m.container = container
	m.result = nil
	m.jumping = false
	m.scroller.Reset()
	m.ClearMessage()
	return m.fetch(0, "")
}

func (m *ExportsModel) fetch(index int, name string) tea.Cmd {
	if m.provider == nil {
		m.SetMessage("No export catalog configured", true)
		return nil
	}

	m.seq++
	m.loading = true
	seq, provider, container, pageSize := m.seq, m.provider, m.container, m.pageSize
	return func() tea.Msg {
		cmd := commands.NewExportsCommand(provider, container, index, pageSize)
		cmd.ExportName = name
		result, err := cmd.Execute(context.Background())
		return exportsLoadedMsg{seq: seq, result: result, err: err}
	}
}

// Init initializes the export view
func (m *ExportsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the export view
func (m *ExportsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		m.scroller.SetHeight(m.tableRows())
		return m, nil

	case exportsLoadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.SetError(msg.err)
			return m, nil
		}
		m.result = msg.result
		m.scroller.SetHeight(m.tableRows())
		m.scroller.SetTotal(len(msg.result.Exports))
		m.scroller.SetCursor(msg.result.Window.RequestedIndex - msg.result.Window.InclusiveStart)
		return m, nil

	case tea.KeyMsg:
		if m.jumping {
			return m, m.updateJump(msg)
		}
		m.ClearMessage()

		switch {
		case key.Matches(msg, ExportsKeys.Back):
			return m, switchToBrowser

		case key.Matches(msg, ExportsKeys.Up):
			m.scroller.Up()

		case key.Matches(msg, ExportsKeys.Down):
			m.scroller.Down()

		case key.Matches(msg, ExportsKeys.Next):
			if m.result != nil && m.result.Window.HasNext() {
				return m, m.fetch(m.result.Window.Next().RequestedIndex, "")
			}

		case key.Matches(msg, ExportsKeys.Prev):
			if m.result != nil && m.result.Window.HasPrev() {
				return m, m.fetch(m.result.Window.Prev().RequestedIndex, "")
			}

		case key.Matches(msg, ExportsKeys.Jump):
			m.jumping = true
			m.jump.Reset()
			return m, m.jump.Init()

		case key.Matches(msg, ExportsKeys.Yank):
			if export := m.selected(); export != nil {
				if err := clipboard.WriteAll(export.Name); err != nil {
					m.SetMessage("clipboard unavailable: "+err.Error(), true)
				} else {
					m.SetMessage("Copied "+export.Name, false)
				}
			}
		}
	}
	return m, nil
}

// updateJump feeds the go-to form. Numbers are 1-based export positions;
// anything else is looked up as an export name.
func (m *ExportsModel) updateJump(msg tea.KeyMsg) tea.Cmd {
	event, cmd := m.jump.Update(msg)
	switch event {
	case FormCancelled:
		m.jumping = false
		return nil
	case FormSubmitted:
		m.jumping = false
		value := m.jump.Value(0)
		if value == "" {
			return nil
		}
		if n, err := strconv.Atoi(value); err == nil {
			return m.fetch(n-1, "")
		}
		return m.fetch(0, value)
	}
	return cmd
}

func (m *ExportsModel) selected() *domain.ExportDescriptor {
	if m.result == nil || len(m.result.Exports) == 0 {
		return nil
	}
	return &m.result.Exports[m.scroller.Cursor()]
}

// tableRows is the number of export rows that fit under the header
func (m *ExportsModel) tableRows() int {
	return max(m.Height-12, 1)
}

// View renders the export view
func (m *ExportsModel) View() string {
	v := NewViewBuilder().Title("Exports")
	v.Line(styles.InputLabel.Render(filepath.Base(m.container)) + "  " + styles.MutedText.Render(m.container))

	switch {
	case m.result == nil && m.loading:
		v.BlankLine().Muted("Loading...")
	case m.result == nil:
		v.BlankLine()
	default:
		w := m.result.Window
		status := w.Label()
		if w.Paginated() {
			status = fmt.Sprintf("%s  (page size %d)", status, w.PageSize)
		}
		v.Line(styles.Subtitle.Render(status)).BlankLine()
		m.renderTable(v)
	}

	v.BlankLine().Message(m.Message, m.MessageErr)
	if m.jumping {
		v.Line(m.jump.View("go"))
		return v.String()
	}
	v.Help(ExportsKeys.Up, ExportsKeys.Down, ExportsKeys.Next, ExportsKeys.Prev, ExportsKeys.Jump, ExportsKeys.Yank, ExportsKeys.Back)
	return v.String()
}

func (m *ExportsModel) renderTable(v *ViewBuilder) {
	exports := m.result.Exports
	if len(exports) == 0 {
		v.Muted("No exports")
		return
	}

	first := m.result.Window.InclusiveStart
	start, end := m.scroller.VisibleRange()
	for i := start; i < end; i++ {
		export := exports[i]
		outer := ""
		if at := export.Outer - first; export.Outer >= 0 && at >= 0 && at < len(exports) {
			outer = styles.MutedText.Render(" in " + exports[at].Name)
		} else if export.Outer >= 0 {
			outer = styles.MutedText.Render(fmt.Sprintf(" in #%d", export.Outer))
		}

		name := export.Name
		if i == m.scroller.Cursor() {
			name = styles.NodeSelected.Render(name)
		}
		line := lipgloss.JoinHorizontal(lipgloss.Top,
			styles.ExportIndex.Render(strconv.Itoa(export.Index)),
			"  ",
			name,
			"  ",
			styles.ExportClass.Render(export.Class),
			outer,
		)
		v.Line(line)
	}
}
