package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"packbrowser/internal/adapters/notify"
	"packbrowser/internal/adapters/tui/views"
	"packbrowser/internal/application"
	"packbrowser/internal/application/commands"
	"packbrowser/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBrowser ViewState = iota
	ViewName
	ViewMove
	ViewDelete
	ViewSearch
	ViewExports
	ViewHelp
)

// Config wires the application to its adapters. Catalog and Manifests may be
// nil, which disables the export views.
type Config struct {
	Root      string
	PageSize  int
	Threshold application.DragThreshold
	Catalog   ports.ExportCatalog
	Manifests ports.ManifestReader
	Editor    ports.EditorOpener
	Logger    *zap.Logger
	SessionID string
}

// App is the main TUI application model. It owns the browsing session and
// routes messages to the active view.
type App struct {
	cfg     Config
	session *application.Session
	notices *notify.Buffer

	state   ViewState
	browser *views.BrowserModel
	name    *views.NameModel
	move    *views.MoveModel
	delete  *views.DeleteModel
	search  *views.SearchModel
	exports *views.ExportsModel
	help    *views.HelpModel
}

// NewApp creates a new TUI application over the file-system gateway
func NewApp(gw ports.FileSystemGateway, cfg Config) *App {
	notices := &notify.Buffer{}
	var opts []application.Option
	if cfg.Logger != nil {
		opts = append(opts, application.WithLogger(cfg.Logger))
	}
	if cfg.SessionID != "" {
		opts = append(opts, application.WithSessionID(cfg.SessionID))
	}
	var sink ports.ErrorSink = notices
	if cfg.Logger != nil {
		sink = notify.Multi{notify.NewLogSink(cfg.Logger), notices}
	}
	session := application.NewSession(gw, sink, opts...)
	if cfg.Catalog != nil {
		application.SyncCatalog(context.Background(), session, cfg.Catalog)
	}

	var provider ports.PackageProvider
	if cfg.Catalog != nil {
		provider = cfg.Catalog
	}

	return &App{
		cfg:     cfg,
		session: session,
		notices: notices,
		state:   ViewBrowser,
		browser: views.NewBrowserModel(session, cfg.Threshold),
		name:    views.NewNameModel(session),
		move:    views.NewMoveModel(session),
		delete:  views.NewDeleteModel(session),
		search:  views.NewSearchModel(session),
		exports: views.NewExportsModel(provider, cfg.PageSize),
		help:    views.NewHelpModel(),
	}
}

// Session returns the browsing session
func (a *App) Session() *application.Session {
	return a.session
}

// Init starts loading the root
func (a *App) Init() tea.Cmd {
	return a.browser.Load(a.cfg.Root)
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := a.update(msg)
	a.flushNotices()
	return a, cmd
}

func (a *App) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.browser.SetSize(msg.Width, msg.Height)
		a.name.SetSize(msg.Width, msg.Height)
		a.move.SetSize(msg.Width, msg.Height)
		a.delete.SetSize(msg.Width, msg.Height)
		a.search.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		_, cmd := a.exports.Update(msg)
		return cmd

	// View switching messages
	case views.SwitchToNameMsg:
		a.state = ViewName
		a.name.SetTarget(msg.Mode, msg.Node)
		return a.name.Init()

	case views.SwitchToMoveMsg:
		a.state = ViewMove
		a.move.SetSource(msg.SourceNode)
		return a.move.Init()

	case views.SwitchToDeleteMsg:
		a.state = ViewDelete
		a.delete.SetTarget(msg.TargetNode)
		return nil

	case views.SwitchToSearchMsg:
		a.state = ViewSearch
		a.search.Reset()
		return a.search.Init()

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return nil

	case views.SwitchToBrowserMsg:
		a.state = ViewBrowser
		return nil

	case views.OperationDoneMsg:
		a.state = ViewBrowser
		a.browser.Focus(msg.Focus)
		a.browser.SetMessage(msg.Message, false)
		return nil

	case views.SearchSelectMsg:
		a.state = ViewBrowser
		a.browser.ShowSearchResult(msg.Path, msg.Query)
		return nil

	case views.OpenExportsMsg:
		if a.cfg.Catalog == nil {
			a.browser.SetMessage("No export catalog configured", true)
			return nil
		}
		a.state = ViewExports
		return a.exports.Open(msg.Path)

	case views.ImportExportsMsg:
		return a.importExports(msg.Container)

	case importDoneMsg:
		if msg.err != nil {
			a.browser.SetError(msg.err)
			return nil
		}
		a.browser.SetMessage(msg.message, false)
		return nil

	case views.OpenEditorMsg:
		a.state = ViewBrowser
		return a.openEditor(msg.Path)

	case editorFinishedMsg:
		if msg.err != nil {
			a.browser.SetError(fmt.Errorf("editor: %w", msg.err))
		}
		return a.browser.Reload()
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewName:
		_, cmd = a.name.Update(msg)
	case ViewMove:
		_, cmd = a.move.Update(msg)
	case ViewDelete:
		_, cmd = a.delete.Update(msg)
	case ViewSearch:
		_, cmd = a.search.Update(msg)
	case ViewExports:
		_, cmd = a.exports.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	default:
		_, cmd = a.browser.Update(msg)
	}

	// Loads finish in the background whatever view is showing.
	if a.state != ViewBrowser && views.IsLoadResult(msg) {
		_, loaded := a.browser.Update(msg)
		return tea.Batch(cmd, loaded)
	}
	return cmd
}

// flushNotices shows session failure reports in the active view, one line
// per report, oldest first
func (a *App) flushNotices() {
	notices := a.notices.Drain()
	if len(notices) == 0 {
		return
	}
	message := strings.Join(notices, "\n")
	switch a.state {
	case ViewName:
		a.name.SetMessage(message, true)
	case ViewMove:
		a.move.SetMessage(message, true)
	case ViewDelete:
		a.delete.SetMessage(message, true)
	default:
		a.browser.SetMessage(message, true)
	}
}

type importDoneMsg struct {
	message string
	err     error
}

func (a *App) importExports(container string) tea.Cmd {
	if a.cfg.Catalog == nil || a.cfg.Manifests == nil {
		a.browser.SetMessage("No export catalog configured", true)
		return nil
	}

	// The container list is read from the tree here, on the update goroutine;
	// only manifest parsing and catalog writes run in the background.
	cmd := commands.NewImportExportsCommand(a.session, a.cfg.Catalog, a.cfg.Manifests, container)
	plan, err := cmd.Plan()
	if err != nil {
		a.browser.SetError(err)
		return nil
	}
	return func() tea.Msg {
		result, err := plan.Execute(context.Background())
		if err != nil {
			return importDoneMsg{err: err}
		}
		return importDoneMsg{message: result.Message}
	}
}

type editorFinishedMsg struct{ err error }

func (a *App) openEditor(path string) tea.Cmd {
	if a.cfg.Editor == nil {
		return nil
	}

	cmd, err := a.cfg.Editor.Command(path)
	if err != nil {
		return func() tea.Msg {
			return editorFinishedMsg{err: err}
		}
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewName:
		return a.name.View()
	case ViewMove:
		return a.move.View()
	case ViewDelete:
		return a.delete.View()
	case ViewSearch:
		return a.search.View()
	case ViewExports:
		return a.exports.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.browser.View()
	}
}

// Run starts the program on the terminal with mouse motion reporting, which
// drag and drop needs.
func Run(app *App) error {
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
