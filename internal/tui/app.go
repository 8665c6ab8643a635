// Package tui is the menu-driven interface over an inventory session.
//
// AppModel keeps a stack of screens. Screens never touch the session; they
// send messages (shared.OpenMenuMsg, shared.ScanRequestMsg, ...) and AppModel
// turns those into session calls, running slow ones as commands.
package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/file-inventory/internal/config"
	"github.com/joe/file-inventory/internal/discover"
	"github.com/joe/file-inventory/internal/session"
	"github.com/joe/file-inventory/internal/store"
	"github.com/joe/file-inventory/internal/tui/screens"
	"github.com/joe/file-inventory/internal/tui/shared"
)

// DefaultMarkdownPath is where the folder tree is exported from the menu.
const DefaultMarkdownPath = "folder_structure.md"

// Options wires an AppModel. Session and Config are required.
type Options struct {
	Session *session.Session
	Config  *config.Config
	System  *discover.System
	Watcher *store.Watcher // Optional
	Logger  *slog.Logger
	Now     func() time.Time

	// Warnings are shown once on start, e.g. a corrupt store or a bad theme.
	Warnings []error
}

// AppModel is the top-level model
type AppModel struct {
	session  *session.Session
	config   *config.Config
	system   *discover.System
	watcher  *store.Watcher
	logger   *slog.Logger
	now      func() time.Time
	stack    []tea.Model
	bridge   *shared.EventBridge
	scanning bool
	busy     bool

	// pendingRefresh remembers a change on disk seen while busy
	pendingRefresh bool

	width  int
	height int
}

// NewAppModel creates the app with the main menu on top.
func NewAppModel(opts Options) *AppModel {
	app := &AppModel{
		session: opts.Session,
		config:  opts.Config,
		system:  opts.System,
		watcher: opts.Watcher,
		logger:  opts.Logger,
		now:     opts.Now,
	}

	if app.system == nil {
		app.system = discover.Local()
	}

	if app.logger == nil {
		app.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if app.now == nil {
		app.now = time.Now
	}

	app.stack = []tea.Model{app.menu(shared.MenuMain)}

	if err := errors.Join(opts.Warnings...); err != nil {
		app.stack = append(app.stack, screens.NewNoticeScreen("Warning", nil, err))
	}

	return app
}

// CurrentScreen returns the screen on top (for testing)
func (a AppModel) CurrentScreen() tea.Model {
	return a.top()
}

// Depth returns the number of stacked screens (for testing)
func (a AppModel) Depth() int {
	return len(a.stack)
}

// Busy reports whether a session operation is running
func (a AppModel) Busy() bool {
	return a.busy || a.scanning
}

// Init implements tea.Model
func (a AppModel) Init() tea.Cmd {
	return tea.Batch(a.top().Init(), a.listenWatcher())
}

// Update implements tea.Model
func (a AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
	case tea.KeyMsg:
		if a.busy && msg.String() != shared.KeyCtrlC {
			return a, nil
		}

	// Navigation
	case shared.OpenMenuMsg:
		return a.push(a.menu(msg.Menu))
	case shared.BackMsg:
		return a.pop(), nil
	case shared.HomeMsg:
		return a.home(), nil
	case shared.PromptMsg:
		return a.push(screens.NewPromptScreen(msg))
	case shared.PromptSubmittedMsg:
		return a.handlePrompt(msg)
	case shared.ReportMsg:
		return a.showReport(msg.Kind, msg.Arg, false)

	// Scanning
	case shared.ScanRequestMsg:
		return a.startScan(msg.Root)
	case shared.ScanEventMsg:
		return a.forwardScanEvent(msg)
	case shared.ScanFinishedMsg:
		return a.finishScan(msg)

	// Store operations
	case shared.RemoveRequestMsg:
		return a.runOperation(a.removeCmd(msg))
	case shared.ReloadRequestMsg:
		return a.runOperation(a.reloadCmd())
	case shared.RetrySaveMsg:
		return a.runOperation(a.saveCmd())
	case shared.ExportTreeMsg:
		return a.runOperation(a.exportCmd(msg.Path))
	case shared.OperationDoneMsg:
		return a.operationDone(msg)
	case shared.StoreChangedMsg:
		return a.storeChanged()
	case shared.RefreshedMsg:
		return a.refreshed(msg)
	}

	return a.forward(msg)
}

// View implements tea.Model
func (a AppModel) View() string {
	view := a.top().View()

	if a.busy {
		view += "\n\n" + shared.RenderDim("Working...")
	}

	return view
}

func (a AppModel) top() tea.Model {
	return a.stack[len(a.stack)-1]
}

func (a AppModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := a.top().Update(msg)
	a.stack = append(a.stack[:len(a.stack)-1:len(a.stack)-1], updated)

	return a, cmd
}

func (a AppModel) push(screen tea.Model) (tea.Model, tea.Cmd) {
	a.stack = append(a.stack[:len(a.stack):len(a.stack)], screen)

	return a, a.sizeAndInit(screen)
}

// replace swaps the top screen, keeping the main menu at the bottom.
func (a AppModel) replace(screen tea.Model) (tea.Model, tea.Cmd) {
	if len(a.stack) == 1 {
		return a.push(screen)
	}

	a.stack = append(a.stack[:len(a.stack)-1:len(a.stack)-1], screen)

	return a, a.sizeAndInit(screen)
}

func (a AppModel) pop() AppModel {
	if len(a.stack) > 1 {
		a.stack = a.stack[:len(a.stack)-1:len(a.stack)-1]
	}

	return a
}

func (a AppModel) home() AppModel {
	a.stack = a.stack[:1:1]

	return a
}

func (a AppModel) sizeAndInit(screen tea.Model) tea.Cmd {
	cmd := screen.Init()
	if a.width == 0 {
		return cmd
	}

	size := tea.WindowSizeMsg{Width: a.width, Height: a.height}

	return tea.Batch(cmd, shared.Send(size))
}

func (a AppModel) listenWatcher() tea.Cmd {
	if a.watcher == nil {
		return nil
	}

	changes := a.watcher.Changes()

	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}

		return shared.StoreChangedMsg{}
	}
}

func (a AppModel) storeChanged() (tea.Model, tea.Cmd) {
	if a.busy || a.scanning {
		a.pendingRefresh = true

		return a, a.listenWatcher()
	}

	a, refresh := a.startRefresh()

	return a, tea.Batch(refresh, a.listenWatcher())
}

func (a AppModel) startRefresh() (AppModel, tea.Cmd) {
	a.busy = true
	sess := a.session

	return a, func() tea.Msg {
		reloaded, err := sess.Refresh(context.Background())

		return shared.RefreshedMsg{Reloaded: reloaded, Err: err}
	}
}

func (a AppModel) refreshed(msg shared.RefreshedMsg) (tea.Model, tea.Cmd) {
	a.busy = false

	if msg.Reloaded {
		a.logger.Info("inventory reloaded after change on disk", "path", a.session.Location())
	}

	if msg.Err != nil {
		return a.push(screens.NewNoticeScreen("Inventory changed on disk", nil, msg.Err))
	}

	return a, nil
}

// settle runs a refresh that was postponed while busy.
func (a AppModel) settle() (AppModel, tea.Cmd) {
	if !a.pendingRefresh || a.busy || a.scanning {
		return a, nil
	}

	a.pendingRefresh = false

	return a.startRefresh()
}
