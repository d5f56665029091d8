package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/stayer/internal/logtail"
)

const (
	activityLines        = 500
	defaultActivityLevel = logtail.LevelInfo
)

// activityState holds the log tail shown in the activity view.
type activityState struct {
	viewport viewport.Model
	entries  []logtail.Entry
	minLevel logtail.Level
	err      error
	from     View
	follow   bool
}

type activityMsg struct {
	entries []logtail.Entry
	err     error
}

// loadActivity reads the tail of the log file off the UI goroutine.
func (m Model) loadActivity() tea.Cmd {
	path := m.logPath
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		entries, err := logtail.ReadEntries(path, activityLines)
		return activityMsg{entries: entries, err: err}
	}
}

func (m *Model) handleActivity(msg activityMsg) {
	m.activity.err = msg.err
	if msg.err == nil {
		m.activity.entries = msg.entries
	}
	atBottom := m.activity.viewport.AtBottom() || len(m.activity.entries) == 0
	m.updateActivityViewport()
	if atBottom || m.activity.follow {
		m.activity.viewport.GotoBottom()
	}
}

// handleActivityKey processes keyboard input for the activity view.
func (m Model) handleActivityKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.CycleLevel):
		m.activity.minLevel = nextLevel(m.activity.minLevel)
		m.updateActivityViewport()
		m.activity.viewport.GotoBottom()
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.activity.follow = false
		m.activity.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.activity.follow = true
		m.activity.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.activity.viewport, cmd = m.activity.viewport.Update(msg)
	m.activity.follow = m.activity.viewport.AtBottom()
	return m, cmd
}

func nextLevel(level logtail.Level) logtail.Level {
	if level >= logtail.LevelError {
		return logtail.LevelDebug
	}
	return level + 1
}

func (m *Model) updateActivityViewport() {
	m.activity.viewport.Width = m.width
	m.activity.viewport.Height = m.contentHeight()
	m.activity.viewport.SetContent(m.renderActivityContent())
}

// renderActivity renders the activity view.
func (m Model) renderActivity() string {
	return m.activity.viewport.View()
}

// renderActivityContent formats the filtered log entries.
func (m Model) renderActivityContent() string {
	styles := m.theme.Styles()
	if m.logPath == "" {
		return styles.MutedText.Render("No log file configured.")
	}
	if m.activity.err != nil {
		return styles.DangerText.Render("Cannot read " + m.logPath + ": " + m.activity.err.Error())
	}
	entries := logtail.Filter(m.activity.entries, m.activity.minLevel)
	if len(entries) == 0 {
		return styles.MutedText.Render("No activity yet.")
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, m.renderEntry(e, styles))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderEntry(e logtail.Entry, styles Styles) string {
	if e.Level == logtail.LevelUnknown {
		return styles.FaintText.Render(truncate(e.Raw, m.width))
	}

	levelStyle := styles.InfoText
	switch e.Level {
	case logtail.LevelDebug:
		levelStyle = styles.FaintText
	case logtail.LevelWarn:
		levelStyle = styles.WarningText
	case logtail.LevelError:
		levelStyle = styles.DangerText
	}

	parts := []string{
		styles.FaintText.Render(e.Time),
		levelStyle.Bold(true).Render(e.Level.String()),
		styles.Text.Render(e.Message),
	}
	if e.Attrs != "" {
		parts = append(parts, styles.MutedText.Render(e.Attrs))
	}
	return strings.Join(parts, " ")
}
