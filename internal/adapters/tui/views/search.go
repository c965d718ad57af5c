package views

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"packbrowser/internal/adapters/tui/styles"
	"packbrowser/internal/application"
)

// SearchKeyMap defines key bindings for the search view
type SearchKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Yank   key.Binding
	Cancel key.Binding
}

var SearchKeys = SearchKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "go to"),
	),
	Yank: key.NewBinding(
		key.WithKeys("ctrl+y"),
		key.WithHelp("ctrl+y", "copy path"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

const searchResultRows = 12

// SearchModel lists every node whose name matches the query, prefix matches
// first.
type SearchModel struct {
	ViewState
	session  *application.Session
	input    textinput.Model
	results  []*application.TreeNode
	scroller *Scroller
}

// NewSearchModel creates a new search view model
func NewSearchModel(session *application.Session) *SearchModel {
	input := textinput.New()
	input.Placeholder = "Search names..."
	input.Focus()

	return &SearchModel{
		session:  session,
		input:    input,
		scroller: NewScroller(searchResultRows),
	}
}

// Init initializes the search view
func (m *SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

// Reset clears the query and results
func (m *SearchModel) Reset() {
	m.input.SetValue("")
	m.results = nil
	m.scroller.Reset()
	m.ClearMessage()
	m.input.Focus()
}

// Query returns the current query text
func (m *SearchModel) Query() string {
	return m.input.Value()
}

// Update handles messages for the search view
func (m *SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, SearchKeys.Cancel):
			return m, switchToBrowser

		case key.Matches(msg, SearchKeys.Up):
			m.scroller.Up()
			return m, nil

		case key.Matches(msg, SearchKeys.Down):
			m.scroller.Down()
			return m, nil

		case key.Matches(msg, SearchKeys.Yank):
			if node := m.selected(); node != nil {
				if err := clipboard.WriteAll(node.Path); err != nil {
					m.SetMessage("clipboard unavailable: "+err.Error(), true)
				} else {
					m.SetMessage("Copied "+node.Path, false)
				}
			}
			return m, nil

		case key.Matches(msg, SearchKeys.Select):
			if node := m.selected(); node != nil {
				query := m.Query()
				path := node.Path
				return m, func() tea.Msg {
					return SearchSelectMsg{Path: path, Query: query}
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if query := m.input.Value(); query != before {
		m.results = m.session.SearchAll(query)
		m.scroller.SetTotal(len(m.results))
		m.scroller.SetCursor(0)
	}
	return m, cmd
}

func (m *SearchModel) selected() *application.TreeNode {
	if len(m.results) == 0 {
		return nil
	}
	return m.results[m.scroller.Cursor()]
}

// SearchSelectMsg is sent when a search result is chosen
type SearchSelectMsg struct {
	Path  string
	Query string
}

// View renders the search view
func (m *SearchModel) View() string {
	v := NewViewBuilder().Title("Search")
	v.Line(styles.InputFocused.Render(m.input.View())).BlankLine()

	query := strings.TrimSpace(m.input.Value())
	switch {
	case query == "":
		v.Muted("Type to search file and folder names")
	case len(m.results) == 0:
		v.Muted("No results found")
	default:
		v.Line(styles.Subtitle.Render(fmt.Sprintf("%d results", len(m.results)))).BlankLine()
		start, end := m.scroller.VisibleRange()
		for i := start; i < end; i++ {
			v.Line(m.renderResult(m.results[i], query, i == m.scroller.Cursor()))
		}
		if rest := len(m.results) - end; rest > 0 {
			v.Muted(fmt.Sprintf("... and %d more", rest))
		}
	}

	v.BlankLine().Message(m.Message, m.MessageErr)
	v.Help(SearchKeys.Up, SearchKeys.Down, SearchKeys.Select, SearchKeys.Yank, SearchKeys.Cancel)
	return v.String()
}

func (m *SearchModel) renderResult(node *application.TreeNode, query string, selected bool) string {
	location := ""
	if root := m.session.Tree(); root != nil && node.Parent != nil {
		if rel, err := filepath.Rel(root.Path, node.Parent.Path); err == nil && rel != "." {
			location = rel
		}
	}

	if selected {
		return styles.NodeSelected.Render(node.Name) + "  " + styles.MutedText.Render(location)
	}
	return highlightMatch(node.Name, query, styles.NodeStyle(node.IsDir())) + "  " + styles.MutedText.Render(location)
}

// highlightMatch marks the first case-insensitive occurrence of query in name
func highlightMatch(name, query string, base lipgloss.Style) string {
	lowerName, lowerQuery := strings.ToLower(name), strings.ToLower(query)
	at := strings.Index(lowerName, lowerQuery)
	// Offsets are only valid when lowering kept byte lengths.
	if query == "" || at < 0 || len(lowerName) != len(name) || len(lowerQuery) != len(query) {
		return base.Render(name)
	}
	end := at + len(query)
	return base.Render(name[:at]) + styles.SearchMatch.Render(name[at:end]) + base.Render(name[end:])
}
