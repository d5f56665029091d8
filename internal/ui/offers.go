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

// linesPerOffer is the height of one offer card in lists.
const linesPerOffer = 2

// handleOffersKey processes keyboard input for the offers list.
func (m Model) handleOffersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	offers := m.snapshot.CityOffers()

	switch {
	case key.Matches(msg, m.keys.NextCity):
		m.changeCity(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevCity):
		m.changeCity(-1)
		return m, nil
	case key.Matches(msg, m.keys.CycleSort):
		m.store.SetSorting(m.snapshot.Sorting.Next())
		m.snapshot = m.store.Snapshot()
		m.selected = 0
		m.highlight(m.snapshot.CityOffers())
		m.savePrefs()
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, m.dispatch(actions.FetchOffers{})
	}

	if len(offers) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(offers)-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = len(offers) - 1
	case key.Matches(msg, m.keys.Open):
		return m.openDetail(offers[m.selected].ID, ViewOffers)
	case key.Matches(msg, m.keys.ToggleFavorite):
		return m.toggleFavorite(offers[m.selected])
	default:
		return m, nil
	}
	m.highlight(offers)
	return m, nil
}

// changeCity moves the city tab by step and resets the list cursor.
func (m *Model) changeCity(step int) {
	idx := 0
	for i, city := range state.Cities {
		if city == m.snapshot.City {
			idx = i
			break
		}
	}
	idx = (idx + step + len(state.Cities)) % len(state.Cities)

	m.store.SetCity(state.Cities[idx])
	m.store.SetActiveOffer("")
	m.snapshot = m.store.Snapshot()
	m.selected = 0
	m.savePrefs()
}

// highlight marks the offer under the cursor as active.
func (m *Model) highlight(offers []api.Offer) {
	if m.selected < 0 || m.selected >= len(offers) {
		return
	}
	m.store.SetActiveOffer(offers[m.selected].ID)
	m.snapshot.ActiveOfferID = offers[m.selected].ID
}

// toggleFavorite flips the bookmark on offer, sending anonymous users to the
// login form first.
func (m Model) toggleFavorite(offer api.Offer) (tea.Model, tea.Cmd) {
	if !m.snapshot.IsAuthorized() {
		return m.openLogin()
	}
	return m, m.dispatch(actions.ToggleFavorite{OfferID: offer.ID, Favorite: !offer.IsFavorite})
}

// renderOffers renders the offer list for the selected city.
func (m Model) renderOffers() string {
	styles := m.theme.Styles()
	height := m.contentHeight()
	offers := m.snapshot.CityOffers()

	var b strings.Builder
	if m.snapshot.OffersLoading && len(offers) == 0 {
		b.WriteString(m.spinner.View() + " " + styles.MutedText.Render("Loading offers..."))
		return b.String()
	}
	if len(offers) == 0 {
		b.WriteString(styles.Text.Bold(true).Render("No places to stay available"))
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render(
			fmt.Sprintf("We could not find any property available at the moment in %s", m.snapshot.City)))
		return b.String()
	}

	title := fmt.Sprintf("%d %s to stay in %s", len(offers), plural(len(offers), "place", "places"), m.snapshot.City)
	b.WriteString(styles.Text.Bold(true).Render(title))
	b.WriteString("  ")
	b.WriteString(styles.MutedText.Render("Sort by"))
	b.WriteString(" ")
	b.WriteString(styles.AccentText.Render(m.snapshot.Sorting.Label()))
	if m.snapshot.OffersLoading {
		b.WriteString(" " + m.spinner.View())
	}
	b.WriteString("\n")

	start, end := visibleWindow(m.selected, len(offers), (height-1)/linesPerOffer)
	for i := start; i < end; i++ {
		b.WriteString(m.renderOfferCard(offers[i], i == m.selected))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// renderOfferCard renders one offer in two lines.
func (m Model) renderOfferCard(offer api.Offer, selected bool) string {
	styles := m.theme.Styles()
	width := m.width - 4

	marker := "  "
	if selected {
		marker = styles.AccentText.Render("▶ ")
	}

	var first []string
	if offer.IsPremium {
		first = append(first, styles.Premium.Render("Premium"))
	}
	first = append(first,
		styles.Text.Bold(true).Render(formatPrice(offer.Price)),
		styles.MutedText.Render("/ night"),
		styles.Rating.Render(ratingStars(offer.Rating)),
		bookmark(offer.IsFavorite, styles),
	)

	titleStyle := styles.Text
	if offer.ID == m.snapshot.ActiveOfferID {
		titleStyle = styles.Selected
	}
	second := titleStyle.Render(truncate(offer.Title, width-len(offer.Type)-6)) +
		"  " + styles.MutedText.Render(titleCase(offer.Type))

	return marker + strings.Join(first, " ") + "\n  " + second
}

// bookmark renders the favorite marker.
func bookmark(favorite bool, styles Styles) string {
	if favorite {
		return styles.Favorite.Render("★ In bookmarks")
	}
	return styles.FaintText.Render("☆ To bookmarks")
}

// visibleWindow returns the range of rows to draw so that selected stays on
// screen when only capacity rows fit.
func visibleWindow(selected, total, capacity int) (start, end int) {
	if capacity <= 0 {
		capacity = 1
	}
	if total <= capacity {
		return 0, total
	}
	start = selected - capacity/2
	if start < 0 {
		start = 0
	}
	if start+capacity > total {
		start = total - capacity
	}
	return start, start + capacity
}

func clamp(idx, length int) int {
	if length == 0 || idx < 0 {
		return 0
	}
	if idx >= length {
		return length - 1
	}
	return idx
}
