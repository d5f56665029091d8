package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/stayer/internal/actions"
	"github.com/five82/stayer/internal/api"
	"github.com/five82/stayer/internal/state"
)

// openFavorites shows the favorites page and reloads the list. Anonymous
// users get the login form instead.
func (m Model) openFavorites() (tea.Model, tea.Cmd) {
	if !m.snapshot.IsAuthorized() {
		return m.openLogin()
	}
	m.view = ViewFavorites
	m.favSelected = 0
	return m, m.dispatch(actions.FetchFavorites{})
}

// flattenGroups lists grouped offers in display order.
func flattenGroups(groups []state.CityGroup) []api.Offer {
	var out []api.Offer
	for _, g := range groups {
		out = append(out, g.Offers...)
	}
	return out
}

// handleFavoritesKey processes keyboard input for the favorites page.
func (m Model) handleFavoritesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	favorites := flattenGroups(m.snapshot.FavoritesByCity())
	if key.Matches(msg, m.keys.Refresh) {
		return m, m.dispatch(actions.FetchFavorites{})
	}
	if len(favorites) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.favSelected < len(favorites)-1 {
			m.favSelected++
		}
	case key.Matches(msg, m.keys.Up):
		if m.favSelected > 0 {
			m.favSelected--
		}
	case key.Matches(msg, m.keys.Top):
		m.favSelected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.favSelected = len(favorites) - 1
	case key.Matches(msg, m.keys.Open):
		return m.openDetail(favorites[m.favSelected].ID, ViewFavorites)
	case key.Matches(msg, m.keys.ToggleFavorite):
		return m, m.dispatch(actions.ToggleFavorite{OfferID: favorites[m.favSelected].ID, Favorite: false})
	}
	return m, nil
}

// renderFavorites renders saved offers grouped by city.
func (m Model) renderFavorites() string {
	styles := m.theme.Styles()
	groups := m.snapshot.FavoritesByCity()

	var b strings.Builder
	if len(groups) == 0 {
		b.WriteString(styles.Text.Bold(true).Render("Favorites (empty)"))
		b.WriteString("\n")
		b.WriteString(styles.Text.Render("Nothing yet saved."))
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render("Save properties to narrow down search or plan your future trips."))
		return b.String()
	}

	b.WriteString(styles.Text.Bold(true).Render("Saved listing"))
	b.WriteString("\n")

	idx := 0
	for _, group := range groups {
		b.WriteString(styles.AccentText.Bold(true).Render(group.City))
		b.WriteString(styles.MutedText.Render(fmt.Sprintf(" (%d)", len(group.Offers))))
		b.WriteString("\n")
		for _, offer := range group.Offers {
			b.WriteString(m.renderOfferCard(offer, idx == m.favSelected))
			b.WriteString("\n")
			idx++
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}
