package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/five82/stayer/internal/actions"
	"github.com/five82/stayer/internal/prefs"
	"github.com/five82/stayer/internal/state"
)

// View is the screen currently shown.
type View int

const (
	ViewOffers View = iota
	ViewDetail
	ViewFavorites
	ViewLogin
	ViewComment
	ViewActivity
)

// Dispatcher runs synchronization operations against the store.
type Dispatcher interface {
	Dispatch(ctx context.Context, op actions.Operation) (actions.Result, error)
}

// Options configure the UI.
type Options struct {
	Context    context.Context
	Dispatcher Dispatcher
	Store      *state.Store
	PollTick   time.Duration
	ThemeName  string
	PrefsPath  string
	LogPath    string
	Logger     *slog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	dispatcher Dispatcher
	store      *state.Store
	prefsPath  string
	logPath    string
	pollTick   time.Duration
	logger     *slog.Logger
	keys       keyMap

	// UI state
	theme    Theme
	view     View
	width    int
	height   int
	ready    bool
	showHelp bool
	spinner  spinner.Model

	// Data state
	snapshot state.Snapshot
	errorID  uuid.UUID // occurrence id of the latest reported failure

	// Offers and favorites cursors
	selected    int
	favSelected int

	// Detail state
	detailID       string
	detailFrom     View
	detailViewport viewport.Model

	login    loginForm
	comment  commentForm
	activity activityState
}

// New creates the Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = 250 * time.Millisecond
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	theme := GetTheme(themeName)
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent))

	m := Model{
		ctx:        ctx,
		dispatcher: opts.Dispatcher,
		store:      opts.Store,
		prefsPath:  prefsPath,
		logPath:    opts.LogPath,
		pollTick:   pollTick,
		logger:     logger,
		keys:       defaultKeyMap(),
		theme:      theme,
		view:       ViewOffers,
		spinner:    spin,
		login:      newLoginForm(),
		comment:    newCommentForm(),
		activity:   activityState{minLevel: defaultActivityLevel},
	}
	if m.store != nil {
		m.snapshot = m.store.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(m.pollTick),
		m.spinner.Tick,
		m.dispatch(actions.CheckAuth{}),
		m.dispatch(actions.FetchOffers{}),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.detailViewport = viewport.New(m.width, m.contentHeight())
			m.activity.viewport = viewport.New(m.width, m.contentHeight())
		}
		m.ready = true
		m.login.resize(m.width)
		m.comment.resize(m.width)
		m.updateViewports()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case opDoneMsg:
		return m.handleOpDone(msg)

	case activityMsg:
		m.handleActivity(msg)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Forms need blink and other internal messages.
	switch m.view {
	case ViewLogin:
		return m.updateLoginInputs(msg)
	case ViewComment:
		return m.updateCommentInput(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.snapshot.AuthorizationStatus == state.AuthUnknown {
		return m.renderLoadingScreen()
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	// Forms own the keyboard.
	switch m.view {
	case ViewLogin:
		return m.handleLoginKey(msg)
	case ViewComment:
		return m.handleCommentKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent))
		m.savePrefs()
		m.updateViewports()
		return m, nil

	case key.Matches(msg, m.keys.ViewActivity):
		if m.view != ViewActivity {
			m.activity.from = m.view
		}
		m.view = ViewActivity
		return m, m.loadActivity()

	case key.Matches(msg, m.keys.ViewFavorites):
		return m.openFavorites()

	case key.Matches(msg, m.keys.Login):
		return m.toggleSession()

	case key.Matches(msg, m.keys.Back):
		m.goBack()
		return m, nil

	case key.Matches(msg, m.keys.Dismiss) && m.snapshot.ErrorMessage != "":
		id := m.errorID
		m.errorID = uuid.Nil
		return m, m.dispatch(actions.DismissError{ID: id})
	}

	switch m.view {
	case ViewOffers:
		return m.handleOffersKey(msg)
	case ViewDetail:
		return m.handleDetailKey(msg)
	case ViewFavorites:
		return m.handleFavoritesKey(msg)
	case ViewActivity:
		return m.handleActivityKey(msg)
	}
	return m, nil
}

// goBack leaves the current view.
func (m *Model) goBack() {
	switch m.view {
	case ViewActivity:
		m.view = m.activity.from
	case ViewDetail:
		m.view = ViewOffers
		if m.detailFrom == ViewFavorites {
			m.view = ViewFavorites
		}
	case ViewFavorites:
		m.view = ViewOffers
	}
}

// handleTick refreshes the snapshot and the activity log when shown.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.view == ViewActivity {
		cmds = append(cmds, m.loadActivity())
	}
	return m, tea.Batch(cmds...)
}

// applySnapshot stores a fresh snapshot and keeps cursors in range.
func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	m.selected = clamp(m.selected, len(snap.CityOffers()))
	m.favSelected = clamp(m.favSelected, len(flattenGroups(snap.FavoritesByCity())))
	m.updateViewports()
}

// handleOpDone reacts to a finished operation.
func (m Model) handleOpDone(msg opDoneMsg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{fetchSnapshotCmd(m.store)}
	if msg.result.ErrorID != uuid.Nil {
		m.errorID = msg.result.ErrorID
	}

	switch op := msg.op.(type) {
	case actions.Login:
		m.login.busy = false
		if msg.err != nil {
			m.login.err = "Could not sign in. Check your email and password."
			m.logger.Info("login rejected", "error", msg.err)
			break
		}
		m.view = m.login.from
		m.login.reset()
		cmds = append(cmds, m.dispatch(actions.FetchOffers{}), m.dispatch(actions.FetchFavorites{}))

	case actions.Logout:
		if msg.err != nil {
			m.logger.Warn("logout failed", "error", msg.err)
			break
		}
		if m.view == ViewFavorites {
			m.view = ViewOffers
		}
		cmds = append(cmds, m.dispatch(actions.FetchOffers{}))

	case actions.PostComment:
		m.comment.busy = false
		if msg.err != nil {
			m.comment.err = "Your review was not sent. Please try again."
			break
		}
		m.store.SetOfferComments(op.OfferID, msg.result.Comments)
		m.comment.reset()
		m.view = ViewDetail
	}
	return m, tea.Batch(cmds...)
}

// savePrefs persists theme, city and sorting.
func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{
		Theme:   m.theme.Name,
		City:    m.snapshot.City,
		Sorting: m.snapshot.Sorting.Label(),
	}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save preferences failed", "error", err)
	}
}

// contentHeight is the height left for the active view.
func (m Model) contentHeight() int {
	h := m.height - 2 // header + command bar
	if m.snapshot.ErrorMessage != "" {
		h--
	}
	if h < 1 {
		return 1
	}
	return h
}

func (m *Model) updateViewports() {
	if !m.ready {
		return
	}
	m.updateDetailViewport()
	m.updateActivityViewport()
}

// renderMain renders header, command bar, error banner and the active view.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	if banner := m.renderErrorBanner(); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
	}
	b.WriteString(m.renderContent())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.view {
	case ViewDetail:
		return m.renderDetail()
	case ViewFavorites:
		return m.renderFavorites()
	case ViewLogin:
		return m.renderLogin()
	case ViewComment:
		return m.renderCommentForm()
	case ViewActivity:
		return m.renderActivity()
	default:
		return m.renderOffers()
	}
}

// renderLoadingScreen is shown until the session probe answers.
func (m Model) renderLoadingScreen() string {
	styles := m.theme.Styles()
	text := m.spinner.View() + " " + styles.MutedText.Render("Loading...")
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, text)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type opDoneMsg struct {
	op     actions.Operation
	result actions.Result
	err    error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// dispatch runs op off the UI goroutine.
func (m Model) dispatch(op actions.Operation) tea.Cmd {
	if m.dispatcher == nil {
		return nil
	}
	ctx, d := m.ctx, m.dispatcher
	return func() tea.Msg {
		result, err := d.Dispatch(ctx, op)
		return opDoneMsg{op: op, result: result, err: err}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
