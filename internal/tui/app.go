// internal/tui/app.go
//
// This is the dashboard for browsing modules. It uses bubbletea, which
// follows The Elm Architecture:
//
// 1. Model: the App, which wraps the navigation state machine
// 2. Update: turns key presses into navigation events
// 3. View: renders the three panels from read-only accessors
//
// The flow is: Key -> Message -> Update -> nav.State -> View -> Screen

package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/kingrea/toolbox/internal/catalog"
	"github.com/kingrea/toolbox/internal/config"
	"github.com/kingrea/toolbox/internal/logbook"
	"github.com/kingrea/toolbox/internal/nav"
	"github.com/kingrea/toolbox/internal/runner"
)

const (
	redrawInterval = 250 * time.Millisecond
	minWidth       = 80
	minHeight      = 20
)

// Option customizes App construction for tests and alternate runtimes.
type Option func(*App)

// WithConfig applies the loaded configuration. The runner kind is honored
// unless WithRunner is also given.
func WithConfig(cfg config.Config) Option {
	return func(a *App) { a.cfg = cfg }
}

// WithRunner overrides the command runner.
func WithRunner(r runner.CommandRunner) Option {
	return func(a *App) {
		if r != nil {
			a.runner = r
		}
	}
}

// WithLogbook records activity and shows its tail in the footer.
func WithLogbook(lb *logbook.Logbook) Option {
	return func(a *App) { a.logbook = lb }
}

// WithContext sets the context handed to the runner.
func WithContext(ctx context.Context) Option {
	return func(a *App) {
		if ctx != nil {
			a.ctx = ctx
		}
	}
}

// WithStatus replaces the initial status line, e.g. to surface a scan error.
func WithStatus(status string) Option {
	return func(a *App) { a.initialStatus = status }
}

type tickMsg time.Time

type runFinishedMsg struct {
	selection nav.Selection
	result    runner.Result
	err       error
}

// App is the main application model.
type App struct {
	nav     *nav.State
	cfg     config.Config
	runner  runner.CommandRunner
	logbook *logbook.Logbook
	ctx     context.Context

	keys      keyMap
	help      help.Model
	search    textinput.Model
	searching bool

	initialStatus string
	pending       *nav.Selection
	queue         []nav.Selection
	running       bool

	width  int
	height int
	clock  time.Time
}

// New creates the dashboard over an already built catalog.
func New(cat *catalog.Catalog, opts ...Option) *App {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search modules"
	search.CharLimit = 64

	a := &App{
		nav:    nav.New(cat),
		cfg:    config.Default(),
		ctx:    context.Background(),
		keys:   defaultKeyMap(),
		help:   help.New(),
		search: search,
		clock:  time.Now(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	if a.runner == nil {
		r, err := runner.New(a.cfg.Runner)
		if err != nil {
			a.logWarn("Runner · %v; falling back to dry-run", err)
			r = runner.DryRun{}
		}
		a.runner = r
	}
	if a.initialStatus != "" {
		a.nav.SetStatus(a.initialStatus)
	} else if cat.IsFallback() {
		a.nav.SetStatus(fmt.Sprintf("No modules found under %s. Showing an example entry.", cat.Root()))
	}
	a.queueAutoRuns()
	return a
}

// State exposes the navigation state for read-only inspection.
func (a *App) State() *nav.State { return a.nav }

// queueAutoRuns selects each configured auto-run module and queues its first
// action.
func (a *App) queueAutoRuns() {
	if len(a.cfg.AutoExecute) == 0 {
		return
	}
	status := a.nav.Status()
	cat := a.nav.Catalog()
	for _, id := range a.cfg.AutoExecute {
		ci, mi, ok := cat.Find(id)
		if !ok {
			a.logWarn("Auto-run · unknown module %s", id)
			continue
		}
		a.nav.Select(ci, mi)
		a.nav.FocusNext()
		sel, ok := a.nav.Activate()
		if !ok {
			a.logWarn("Auto-run · module %s has no actions", id)
			continue
		}
		a.queue = append(a.queue, sel)
	}
	if len(a.queue) == 0 {
		a.nav.SetStatus(status)
		return
	}
	a.nav.SetStatus(fmt.Sprintf("Auto-run queued %d action(s).", len(a.queue)))
	a.logInfo("Auto-run · queued %d action(s)", len(a.queue))
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(tick(), a.advanceQueue())
}

func tick() tea.Cmd {
	return tea.Tick(redrawInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.search.Width = max(10, msg.Width/2)
		return a, nil

	case tickMsg:
		a.clock = time.Time(msg)
		return a, tick()

	case runFinishedMsg:
		return a, a.handleRunFinished(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.searching {
			return a, a.handleSearchKey(msg)
		}
		if a.pending != nil {
			return a, a.handleConfirmKey(msg)
		}
		return a.handleKey(msg)
	}

	if a.searching {
		var cmd tea.Cmd
		a.search, cmd = a.search.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		a.logInfo("Session closed")
		return a, tea.Quit
	case key.Matches(msg, a.keys.FocusNext):
		a.nav.FocusNext()
	case key.Matches(msg, a.keys.FocusPrev):
		a.nav.FocusPrev()
	case key.Matches(msg, a.keys.Up):
		a.nav.MoveUp()
	case key.Matches(msg, a.keys.Down):
		a.nav.MoveDown()
	case key.Matches(msg, a.keys.Activate):
		sel, ok := a.nav.Activate()
		if !ok {
			return a, nil
		}
		a.logInfo("Selected · %s/%s: %s", sel.ModuleID, sel.Action, sel.Command)
		return a, a.request(sel)
	case key.Matches(msg, a.keys.Search):
		a.searching = true
		a.search.Reset()
		a.nav.SetStatus("Type to search modules. Enter keeps the match, Esc closes.")
		return a, a.search.Focus()
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
	}
	return a, nil
}

func (a *App) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		a.searching = false
		a.search.Blur()
		if msg.Type == tea.KeyEsc || strings.TrimSpace(a.search.Value()) == "" {
			a.nav.SetStatus(nav.StatusReady)
		}
		return nil
	}
	var cmd tea.Cmd
	a.search, cmd = a.search.Update(msg)
	a.applySearch()
	return cmd
}

// applySearch moves the selection to the best fuzzy match for the query.
func (a *App) applySearch() {
	query := strings.TrimSpace(a.search.Value())
	if query == "" {
		return
	}
	entries := a.nav.Catalog().All()
	sources := make([]string, len(entries))
	for i, entry := range entries {
		sources[i] = entry.Module.Name + " " + entry.Module.ID
	}
	matches := fuzzy.Find(query, sources)
	if len(matches) == 0 {
		a.nav.SetStatus(fmt.Sprintf("No modules match %q", query))
		return
	}
	sort.Stable(matches)
	best := entries[matches[0].Index]
	a.nav.Select(best.CategoryIndex, best.ModuleIndex)
	a.nav.SetStatus(fmt.Sprintf("%d match(es) for %q · %s", len(matches), query, best.Module.Name))
}

func (a *App) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Confirm):
		sel := *a.pending
		a.pending = nil
		return a.run(sel)
	case key.Matches(msg, a.keys.Cancel):
		sel := *a.pending
		a.pending = nil
		a.nav.SetStatus(fmt.Sprintf("Cancelled %s.", sel.Action))
		a.logInfo("Cancelled · %s/%s", sel.ModuleID, sel.Action)
		return a.advanceQueue()
	}
	return nil
}

// request hands a selection to the runner, asking for confirmation first
// unless skip_confirmation is set. A busy runner queues the selection.
func (a *App) request(sel nav.Selection) tea.Cmd {
	if a.running || a.pending != nil {
		a.queue = append(a.queue, sel)
		a.nav.SetStatus(fmt.Sprintf("Queued %s.", sel.Action))
		return nil
	}
	if a.cfg.SkipConfirmation {
		return a.run(sel)
	}
	a.pending = &sel
	a.nav.SetStatus(fmt.Sprintf("Run %s (%s)? [y/n]", sel.Action, sel.Command))
	return nil
}

func (a *App) run(sel nav.Selection) tea.Cmd {
	a.running = true
	a.nav.SetStatus(fmt.Sprintf("Running %s...", sel.Action))
	r := a.runner
	ctx := a.ctx
	req := runner.Request{
		ModuleID: sel.ModuleID,
		Action:   sel.Action,
		Command:  sel.Command,
		Dir:      sel.Dir,
	}
	return func() tea.Msg {
		res, err := r.Run(ctx, req)
		return runFinishedMsg{selection: sel, result: res, err: err}
	}
}

func (a *App) advanceQueue() tea.Cmd {
	if a.running || a.pending != nil || len(a.queue) == 0 {
		return nil
	}
	next := a.queue[0]
	a.queue = a.queue[1:]
	return a.request(next)
}

func (a *App) handleRunFinished(msg runFinishedMsg) tea.Cmd {
	a.running = false
	sel := msg.selection
	if errors.Is(msg.err, runner.ErrUnimplemented) && msg.result.Message != "" {
		a.nav.SetStatus(msg.result.Message)
		a.logWarn("Run · %s/%s %s: %v", sel.ModuleID, sel.Action, msg.result.Status, msg.err)
	} else if msg.err != nil {
		a.nav.SetStatus(fmt.Sprintf("%s failed: %v", sel.Action, msg.err))
		a.logError("Run · %s/%s failed: %v", sel.ModuleID, sel.Action, msg.err)
	} else {
		status := strings.TrimSpace(msg.result.Message)
		if status == "" {
			status = fmt.Sprintf("%s %s.", sel.Action, msg.result.Status)
		}
		a.nav.SetStatus(status)
		a.logInfo("Run · %s/%s %s", sel.ModuleID, sel.Action, msg.result.Status)
	}
	return a.advanceQueue()
}

func (a *App) tooSmall() bool {
	if a.cfg.SizeBypass || a.width == 0 || a.height == 0 {
		return false
	}
	return a.width < minWidth || a.height < minHeight
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

func (a *App) logWarn(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Warn(format, args...)
}

func (a *App) logError(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Error(format, args...)
}
