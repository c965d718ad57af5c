package views

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"packbrowser/internal/adapters/tui/styles"
	"packbrowser/internal/application"
	"packbrowser/internal/domain"
)

// BrowserKeyMap defines key bindings for the browser view
type BrowserKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Left      key.Binding
	Right     key.Binding
	Enter     key.Binding
	Parent    key.Binding
	Back      key.Binding
	Forward   key.Binding
	Search    key.Binding
	NextMatch key.Binding
	New       key.Binding
	Rename    key.Binding
	Move      key.Binding
	Delete    key.Binding
	Cut       key.Binding
	Copy      key.Binding
	Paste     key.Binding
	Exports   key.Binding
	Import    key.Binding
	Yank      key.Binding
	Edit      key.Binding
	Reload    key.Binding
	Refresh   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("pgdn", "page down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "expand"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Parent: key.NewBinding(
		key.WithKeys("u", "backspace"),
		key.WithHelp("u", "go to parent"),
	),
	Back: key.NewBinding(
		key.WithKeys("[", "alt+left"),
		key.WithHelp("[", "back"),
	),
	Forward: key.NewBinding(
		key.WithKeys("]", "alt+right"),
		key.WithHelp("]", "forward"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	NextMatch: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next match"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new folder"),
	),
	Rename: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rename"),
	),
	Move: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "move"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d", "delete"),
		key.WithHelp("d", "delete"),
	),
	Cut: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "cut"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy"),
	),
	Paste: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "paste"),
	),
	Exports: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "exports"),
	),
	Import: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "import manifest"),
	),
	Yank: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy path"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Reload: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "reload"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "refresh"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Screen rows above the first tree row: padding, title, breadcrumbs, blank.
// Rows below the tree: blank, message, help, padding.
const (
	treeTop      = 4
	treeBottom   = 4
	treeLeft     = 2
	defaultWidth = 80
)

// BrowserModel is the model for the tree browser view
type BrowserModel struct {
	ViewState
	session   *application.Session
	drag      *application.DragReparenter
	rows      []*domain.TreeNode
	scroller  *Scroller
	loading   bool
	lastQuery string
}

// NewBrowserModel creates a browser over session. The cursor follows every
// navigation transition.
func NewBrowserModel(session *application.Session, threshold application.DragThreshold) *BrowserModel {
	m := &BrowserModel{
		session:  session,
		drag:     application.NewDragReparenter(session, threshold),
		scroller: NewScroller(1),
	}
	session.Navigation().OnSync(m.selectPath)
	return m
}

type treeLoadedMsg struct {
	result *application.LoadResult
}

// IsLoadResult reports whether msg carries a finished tree load, which the
// browser must apply whatever view is showing.
func IsLoadResult(msg tea.Msg) bool {
	_, ok := msg.(treeLoadedMsg)
	return ok
}

// Load starts loading root in the background
func (m *BrowserModel) Load(root string) tea.Cmd {
	return m.run(m.session.BeginLoad(context.Background(), root))
}

// Reload rereads the tree and keeps the current location when it survives
func (m *BrowserModel) Reload() tea.Cmd {
	req, err := m.session.BeginReload(context.Background())
	if err != nil {
		return nil
	}
	return m.run(req)
}

// Refresh clears the history and rereads the tree from the root
func (m *BrowserModel) Refresh() tea.Cmd {
	req, err := m.session.BeginRefresh(context.Background())
	if err != nil {
		return nil
	}
	return m.run(req)
}

func (m *BrowserModel) run(req *application.LoadRequest) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		return treeLoadedMsg{result: req.Run()}
	}
}

// Init initializes the browser
func (m *BrowserModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case treeLoadedMsg:
		err := m.session.ApplyLoad(msg.result)
		if errors.Is(err, application.ErrCancelled) {
			return m, nil
		}
		m.loading = false
		m.refreshRows()
		if current := m.session.Current(); current != nil {
			m.selectPath(current.Path)
		}
		return m, nil

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tea.KeyMsg:
		m.ClearMessage()
		if msg.Paste {
			return m, m.dropPasted(string(msg.Runes))
		}
		return m, m.handleKey(msg)
	}

	return m, nil
}

func (m *BrowserModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	nav := m.session.Navigation()
	node := m.Selected()

	switch {
	case key.Matches(msg, BrowserKeys.Quit):
		return tea.Quit

	case key.Matches(msg, BrowserKeys.Up):
		m.scroller.Up()

	case key.Matches(msg, BrowserKeys.Down):
		m.scroller.Down()

	case key.Matches(msg, BrowserKeys.PageUp):
		m.scroller.PageUp()

	case key.Matches(msg, BrowserKeys.PageDown):
		m.scroller.PageDown()

	case key.Matches(msg, BrowserKeys.Left):
		if node == nil {
			return nil
		}
		if node.IsDir() && node.IsExpanded && node.Parent != nil {
			node.Collapse()
			m.refreshRows()
		} else if node.Parent != nil {
			m.focus(node.Parent)
		}

	case key.Matches(msg, BrowserKeys.Right):
		if node != nil && node.IsDir() && !node.IsExpanded {
			node.Expand()
			m.refreshRows()
		}

	case key.Matches(msg, BrowserKeys.Enter):
		if node == nil {
			return nil
		}
		if node.IsDir() && node.Parent != nil {
			node.Toggle()
			m.refreshRows()
		}
		nav.SelectionChanged(node.Path)
		if !node.IsDir() {
			return openExports(node.Path)
		}

	case key.Matches(msg, BrowserKeys.Parent):
		if current := m.session.Current(); current != nil && current.Parent != nil {
			nav.Navigate(current.Parent.Path, true)
		}

	case key.Matches(msg, BrowserKeys.Back):
		if err := nav.GoBack(); err != nil {
			m.SetMessage("Nothing to go back to", true)
		}

	case key.Matches(msg, BrowserKeys.Forward):
		if err := nav.GoForward(); err != nil {
			m.SetMessage("Nothing to go forward to", true)
		}

	case key.Matches(msg, BrowserKeys.Search):
		return func() tea.Msg { return SwitchToSearchMsg{} }

	case key.Matches(msg, BrowserKeys.NextMatch):
		return m.nextMatch()

	case key.Matches(msg, BrowserKeys.New):
		if node != nil {
			return func() tea.Msg { return SwitchToNameMsg{Mode: NameCreateFolder, Node: node} }
		}

	case key.Matches(msg, BrowserKeys.Rename):
		if node != nil && node.Parent != nil {
			return func() tea.Msg { return SwitchToNameMsg{Mode: NameRename, Node: node} }
		}

	case key.Matches(msg, BrowserKeys.Move):
		if node != nil && node.Parent != nil {
			return func() tea.Msg { return SwitchToMoveMsg{SourceNode: node} }
		}

	case key.Matches(msg, BrowserKeys.Delete):
		if node != nil && node.Parent != nil {
			return func() tea.Msg { return SwitchToDeleteMsg{TargetNode: node} }
		}

	case key.Matches(msg, BrowserKeys.Cut):
		if node != nil && node.Parent != nil {
			m.session.Cut(node)
			m.SetMessage("Cut "+node.Name, false)
		}

	case key.Matches(msg, BrowserKeys.Copy):
		if node != nil && node.Parent != nil {
			m.session.Copy(node)
			m.SetMessage("Copied "+node.Name, false)
		}

	case key.Matches(msg, BrowserKeys.Paste):
		return m.paste(node)

	case key.Matches(msg, BrowserKeys.Exports):
		if node != nil && !node.IsDir() {
			return openExports(node.Path)
		}

	case key.Matches(msg, BrowserKeys.Import):
		container := ""
		if node != nil && !node.IsDir() {
			container = node.Path
		}
		return func() tea.Msg { return ImportExportsMsg{Container: container} }

	case key.Matches(msg, BrowserKeys.Yank):
		if node != nil {
			if err := clipboard.WriteAll(node.Path); err != nil {
				m.SetMessage("clipboard unavailable: "+err.Error(), true)
			} else {
				m.SetMessage("Copied path "+node.Path, false)
			}
		}

	case key.Matches(msg, BrowserKeys.Edit):
		if node != nil && !node.IsDir() {
			path := node.Path
			return func() tea.Msg { return OpenEditorMsg{Path: path} }
		}

	case key.Matches(msg, BrowserKeys.Reload):
		return m.Reload()

	case key.Matches(msg, BrowserKeys.Refresh):
		return m.Refresh()

	case key.Matches(msg, BrowserKeys.Help):
		return func() tea.Msg { return SwitchToHelpMsg{} }
	}

	return nil
}

// nextMatch cycles through the matches of the last search
func (m *BrowserModel) nextMatch() tea.Cmd {
	if m.lastQuery == "" {
		m.SetMessage("No search yet", true)
		return nil
	}
	node, err := m.session.Search(m.lastQuery)
	if err != nil {
		m.SetMessage(fmt.Sprintf("No match for %q", m.lastQuery), true)
		return nil
	}
	m.refreshRows()
	m.focus(node)
	return nil
}

// ShowSearchResult moves to a node picked in the search view and remembers
// the query for NextMatch.
func (m *BrowserModel) ShowSearchResult(path, query string) {
	m.lastQuery = query
	if err := m.session.NavigateTo(path); err != nil {
		m.SetError(err)
	}
}

func (m *BrowserModel) paste(target *domain.TreeNode) tea.Cmd {
	clip, mode, ok := m.session.Clipboard()
	if !ok {
		m.SetMessage("Clipboard is empty", true)
		return nil
	}
	if target == nil {
		target = m.session.Tree()
	}

	name := clip.Name
	node, err := m.session.Paste(context.Background(), target)
	if err != nil {
		return nil
	}
	verb := "Copied"
	if mode == application.ClipboardCut {
		verb = "Moved"
	}
	m.Focus(node.Path)
	m.SetMessage(fmt.Sprintf("%s %s", verb, name), false)
	return nil
}

// dropPasted treats pasted text as paths dropped from outside, which is how
// terminals deliver file drops.
func (m *BrowserModel) dropPasted(text string) tea.Cmd {
	paths := ParseDroppedPaths(text)
	if len(paths) == 0 {
		return nil
	}
	target := application.DestinationFor(m.Selected())
	if target == nil {
		target = m.session.Tree()
	}

	added, err := m.drag.DropExternal(context.Background(), paths, target)
	m.refreshRows()
	if len(added) > 0 {
		m.Focus(added[len(added)-1].Path)
	}
	if err == nil && len(added) > 0 {
		m.SetMessage(fmt.Sprintf("Copied %d item(s) into %s", len(added), target.Name), false)
	}
	return nil
}

// --- Mouse ---

func (m *BrowserModel) rowAt(y int) *domain.TreeNode {
	index := m.scroller.RowAt(y - treeTop)
	if index < 0 {
		return nil
	}
	return m.rows[index]
}

func (m *BrowserModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	at := application.Point{X: msg.X, Y: msg.Y}

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.scroller.Up()

	case msg.Button == tea.MouseButtonWheelDown:
		m.scroller.Down()

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		node := m.rowAt(msg.Y)
		if node == nil {
			return nil
		}
		m.focus(node)
		m.drag.Press(node, at)
		if node.Parent == nil {
			// The root cannot be dragged; a press on it is a plain click.
			m.session.Navigation().SelectionChanged(node.Path)
		}

	case msg.Action == tea.MouseActionMotion:
		if m.drag.Motion(at) {
			m.drag.Over(m.rowAt(msg.Y))
		}

	case msg.Action == tea.MouseActionRelease:
		if m.drag.Phase() == application.DragPending {
			node := m.drag.Node()
			m.drag.Reset()
			m.session.Navigation().SelectionChanged(node.Path)
			if node.IsDir() {
				node.Toggle()
				m.refreshRows()
			}
			return nil
		}
		if !m.drag.Active() {
			return nil
		}

		node := m.drag.Node()
		oldPath := node.Path
		if err := m.drag.Drop(context.Background(), m.rowAt(msg.Y)); err != nil {
			m.refreshRows()
			return nil
		}
		m.refreshRows()
		if node.Path != oldPath {
			m.Focus(node.Path)
			m.SetMessage(fmt.Sprintf("Moved %s to %s", node.Name, node.Parent.Name), false)
		}
	}
	return nil
}

// --- Selection ---

// Selected returns the node under the cursor
func (m *BrowserModel) Selected() *domain.TreeNode {
	if len(m.rows) == 0 {
		return nil
	}
	return m.rows[m.scroller.Cursor()]
}

// selectPath is the navigation sync hook: it reveals path and puts the cursor
// on it.
func (m *BrowserModel) selectPath(path string) {
	node := m.session.Reveal(path)
	if node == nil {
		return
	}
	m.refreshRows()
	m.focus(node)
}

// Focus reveals the node at path and puts the cursor on it
func (m *BrowserModel) Focus(path string) {
	node := m.session.Reveal(path)
	m.refreshRows()
	if node != nil {
		m.focus(node)
	}
}

func (m *BrowserModel) focus(node *domain.TreeNode) {
	for i, row := range m.rows {
		if row == node {
			m.scroller.SetCursor(i)
			return
		}
	}
}

func (m *BrowserModel) refreshRows() {
	selected := m.Selected()
	root := m.session.Tree()
	if root == nil {
		m.rows = nil
		m.scroller.SetTotal(0)
		return
	}
	m.rows = root.Flatten()
	m.scroller.SetHeight(m.treeRows())
	m.scroller.SetTotal(len(m.rows))
	if selected != nil {
		m.focus(selected)
	}
}

// SetSize updates the view dimensions
func (m *BrowserModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.scroller.SetHeight(m.treeRows())
}

func (m *BrowserModel) treeRows() int {
	return max(m.Height-treeTop-treeBottom, 1)
}

// --- View ---

// View renders the browser
func (m *BrowserModel) View() string {
	root := m.session.Tree()
	if root == nil {
		if m.loading {
			return styles.App.Render("Loading...")
		}
		return styles.App.Render(RenderMessage(m.Message, m.MessageErr))
	}

	var b strings.Builder

	title := styles.Title.Render("packbrowser")
	if m.loading {
		title += styles.MutedText.Render("  loading...")
	}
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(m.renderBreadcrumbs())
	b.WriteString("\n\n")

	start, end := m.scroller.VisibleRange()
	for i := start; i < end; i++ {
		b.WriteString(m.renderNode(m.rows[i], i == m.scroller.Cursor()))
		b.WriteString("\n")
	}
	for i := end - start; i < m.treeRows(); i++ {
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.Message != "" {
		b.WriteString(RenderMessage(m.Message, m.MessageErr))
	} else {
		b.WriteString(m.renderStatus())
	}
	b.WriteString("\n")
	b.WriteString(RenderHelpLine(BrowserKeys.Search, BrowserKeys.Back, BrowserKeys.Forward, BrowserKeys.New, BrowserKeys.Rename, BrowserKeys.Move, BrowserKeys.Delete, BrowserKeys.Exports, BrowserKeys.Help, BrowserKeys.Quit))

	return styles.App.Render(b.String())
}

func (m *BrowserModel) renderBreadcrumbs() string {
	width := m.Width - 2*treeLeft
	if width <= 0 {
		width = defaultWidth
	}
	budget := BreadcrumbBudget(m.session.Navigation().Trail(), width)
	visible, _ := m.session.Breadcrumbs(budget)
	return RenderBreadcrumbs(visible)
}

func (m *BrowserModel) renderStatus() string {
	var parts []string
	if node := m.Selected(); node != nil {
		parts = append(parts, node.Kind.String())
		if node.IsDir() {
			parts = append(parts, fmt.Sprintf("%d entries", len(node.Children)))
		}
	}
	if clip, mode, ok := m.session.Clipboard(); ok {
		verb := "copy"
		if mode == application.ClipboardCut {
			verb = "cut"
		}
		parts = append(parts, fmt.Sprintf("clipboard: %s %s", verb, clip.Name))
	}
	if history := historyHint(m.session.Navigation()); history != "" {
		parts = append(parts, history)
	}
	if m.drag.Active() {
		if preview := m.drag.Preview(); preview != nil {
			parts = append(parts, "drop into "+preview.Destination.Name)
		} else {
			parts = append(parts, "dragging "+m.drag.Node().Name)
		}
	}
	return styles.MutedText.Render(strings.Join(parts, "  •  "))
}

// historyHint names the history directions available from nav
func historyHint(nav *application.NavigationController) string {
	switch back, forward := nav.CanGoBack(), nav.CanGoForward(); {
	case back && forward:
		return "◀ back  forward ▶"
	case back:
		return "◀ back"
	case forward:
		return "forward ▶"
	}
	return ""
}

func (m *BrowserModel) renderNode(node *domain.TreeNode, selected bool) string {
	indent := strings.Repeat("  ", node.Depth())

	var prefix string
	switch {
	case !node.IsDir():
		prefix = styles.TreeLeaf
	case node.IsExpanded:
		prefix = styles.TreeExpanded
	default:
		prefix = styles.TreeCollapsed
	}

	gutter := "  "
	if node.Path == m.session.Navigation().Current() {
		gutter = styles.CrumbOverflow.Render("› ")
	}

	style := styles.NodeStyle(node.IsDir())
	if clip, mode, ok := m.session.Clipboard(); ok && mode == application.ClipboardCut && clip == node {
		style = styles.NodeCut
	}
	if preview := m.drag.Preview(); preview != nil && preview.Destination == node {
		style = styles.DropTarget
	}
	if selected {
		style = styles.NodeSelected
	}

	return gutter + indent + styles.TreeBranch.Render(prefix) + style.Render(node.Name)
}

func openExports(path string) tea.Cmd {
	return func() tea.Msg { return OpenExportsMsg{Path: path} }
}

// Messages for view switching
type SwitchToNameMsg struct {
	Mode NameMode
	Node *domain.TreeNode
}

type SwitchToMoveMsg struct {
	SourceNode *domain.TreeNode
}

type SwitchToDeleteMsg struct {
	TargetNode *domain.TreeNode
}

type SwitchToSearchMsg struct{}

type SwitchToHelpMsg struct{}

type SwitchToBrowserMsg struct{}

// OpenExportsMsg asks for the export table of a package file
type OpenExportsMsg struct {
	Path string
}

// OpenEditorMsg asks to open a file in the external editor
type OpenEditorMsg struct {
	Path string
}

// ImportExportsMsg asks to import export manifests into the catalog. An empty
// container imports every manifest under the root.
type ImportExportsMsg struct {
	Container string
}

// OperationDoneMsg reports a finished edit; Focus is the path to select
type OperationDoneMsg struct {
	Message string
	Focus   string
}
