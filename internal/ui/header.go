package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/stayer/internal/state"
)

// renderHeader renders the top bar: logo, city tabs and session.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < 100
	sep := bg.Spaces(2)

	parts := []string{bg.Render("stayer", styles.Logo)}

	tabs := make([]string, 0, len(state.Cities))
	for _, city := range state.Cities {
		name := city
		if compact {
			name = string([]rune(city)[:3])
		}
		if city == m.snapshot.City {
			tabs = append(tabs, bg.Render(name, styles.AccentText.Bold(true).Underline(true)))
		} else {
			tabs = append(tabs, bg.Render(name, styles.MutedText))
		}
	}
	parts = append(parts, bg.Join(tabs, " "))
	parts = append(parts, m.renderSession(styles, bg))

	if !compact && !m.snapshot.LastUpdated.IsZero() {
		parts = append(parts,
			bg.Render("Updated", styles.FaintText)+bg.Space()+
				bg.Render(m.snapshot.LastUpdated.Format("15:04:05"), styles.MutedText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(bg.Join(parts, sep))
}

// renderSession shows the signed in user with the favorites count, or the
// sign in hint.
func (m Model) renderSession(styles Styles, bg BgStyle) string {
	switch m.snapshot.AuthorizationStatus {
	case state.Auth:
		email := ""
		if m.snapshot.User != nil {
			email = truncateMiddle(m.snapshot.User.Email, 32)
		}
		return bg.Render("●", styles.SuccessText) + bg.Space() +
			bg.Render(email, styles.Text) + bg.Space() +
			bg.Render(fmt.Sprintf("♥ %d", len(m.snapshot.Favorites)), styles.Favorite)
	case state.NoAuth:
		return bg.Render("○ Sign in", styles.WarningText)
	default:
		return bg.Render("…", styles.FaintText)
	}
}

// renderCommandBar renders the key hints for the active view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()

	type command struct {
		key  string
		desc string
	}
	var commands []command
	switch m.view {
	case ViewOffers:
		commands = []command{
			{"h/l", "City"}, {"s", "Sort"}, {"enter", "Open"}, {"f", "Bookmark"},
			{"F", "Favorites"}, {"r", "Refresh"},
		}
	case ViewDetail:
		commands = []command{
			{"esc", "Back"}, {"f", "Bookmark"}, {"c", "Review"}, {"r", "Reload"},
		}
	case ViewFavorites:
		commands = []command{
			{"esc", "Back"}, {"enter", "Open"}, {"f", "Remove"}, {"r", "Reload"},
		}
	case ViewActivity:
		commands = []command{
			{"esc", "Back"}, {"w", "Level " + m.activity.minLevel.String()}, {"g/G", "Top/Bottom"},
		}
	case ViewLogin, ViewComment:
		commands = []command{{"esc", "Cancel"}}
	}

	if m.view != ViewLogin && m.view != ViewComment {
		if m.snapshot.ErrorMessage != "" {
			commands = append(commands, command{"x", "Dismiss"})
		}
		session := "Sign in"
		if m.snapshot.IsAuthorized() {
			session = "Sign out"
		}
		commands = append(commands,
			command{"L", session}, command{"a", "Activity"}, command{"?", "Help"}, command{"q", "Quit"})
	}

	var out string
	for i, cmd := range commands {
		if i > 0 {
			out += styles.FaintText.Render("  ")
		}
		out += styles.AccentText.Render(cmd.key) + " " + styles.MutedText.Render(cmd.desc)
	}
	out += styles.FaintText.Render("  [" + m.theme.Name + "]")

	return lipgloss.NewStyle().Width(m.width).MaxHeight(1).Render(out)
}

// renderErrorBanner renders the transient error message, if any.
func (m Model) renderErrorBanner() string {
	if m.snapshot.ErrorMessage == "" {
		return ""
	}
	styles := m.theme.Styles()
	return styles.Banner.Width(m.width).Render(truncate(m.snapshot.ErrorMessage, m.width-2))
}
