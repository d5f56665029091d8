package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/stayer/internal/actions"
	"github.com/five82/stayer/internal/api"
)

// openDetail shows offerID and loads its detail, comments and nearby offers.
func (m Model) openDetail(offerID string, from View) (tea.Model, tea.Cmd) {
	m.detailID = offerID
	m.detailFrom = from
	m.view = ViewDetail
	m.store.SetActiveOffer(offerID)
	m.detailViewport.GotoTop()
	m.updateDetailViewport()

	return m, tea.Batch(
		m.dispatch(actions.FetchOfferDetail{OfferID: offerID}),
		m.dispatch(actions.FetchOfferComments{OfferID: offerID}),
		m.dispatch(actions.FetchNearbyOffers{OfferID: offerID}),
	)
}

// detailOffer returns the loaded detail when it belongs to the open offer.
func (m Model) detailOffer() *api.Offer {
	if d := m.snapshot.OfferDetail; d != nil && d.ID == m.detailID {
		return d
	}
	return nil
}

// handleDetailKey processes keyboard input for the detail view.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFavorite):
		if offer := m.detailOffer(); offer != nil {
			return m.toggleFavorite(*offer)
		}
		return m, nil
	case key.Matches(msg, m.keys.Comment):
		if !m.snapshot.IsAuthorized() {
			return m.openLogin()
		}
		return m.openCommentForm(m.detailID)
	case key.Matches(msg, m.keys.Refresh):
		return m.openDetail(m.detailID, m.detailFrom)
	case key.Matches(msg, m.keys.Top):
		m.detailViewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.detailViewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

// updateDetailViewport resizes the viewport and re-renders its content.
func (m *Model) updateDetailViewport() {
	m.detailViewport.Width = m.width
	m.detailViewport.Height = m.contentHeight()
	m.detailViewport.SetContent(m.renderDetailContent())
}

// renderDetail renders the detail view.
func (m Model) renderDetail() string {
	if m.detailOffer() == nil {
		styles := m.theme.Styles()
		if m.snapshot.Loading {
			return m.spinner.View() + " " + styles.MutedText.Render("Loading offer...")
		}
		return styles.MutedText.Render("This offer is not available.")
	}
	return m.detailViewport.View()
}

// renderDetailContent renders the full offer page.
func (m Model) renderDetailContent() string {
	offer := m.detailOffer()
	if offer == nil {
		return ""
	}
	styles := m.theme.Styles()
	width := m.width - 2
	if width < 20 {
		width = 20
	}
	para := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteString("\n")
	}

	if offer.IsPremium {
		line(styles.Premium.Render("Premium"))
	}
	line(styles.Text.Bold(true).Render(offer.Title) + "  " + bookmark(offer.IsFavorite, styles))
	line(styles.Rating.Render(ratingStars(offer.Rating)) + " " + styles.MutedText.Render(fmt.Sprintf("%.1f", offer.Rating)))

	facts := []string{titleCase(offer.Type)}
	if offer.Bedrooms > 0 {
		facts = append(facts, fmt.Sprintf("%d %s", offer.Bedrooms, plural(offer.Bedrooms, "Bedroom", "Bedrooms")))
	}
	if offer.MaxAdults > 0 {
		facts = append(facts, fmt.Sprintf("Max %d %s", offer.MaxAdults, plural(offer.MaxAdults, "adult", "adults")))
	}
	line(styles.MutedText.Render(strings.Join(facts, " · ")))
	line(styles.Text.Bold(true).Render(formatPrice(offer.Price)) + " " + styles.MutedText.Render("night"))
	line("")

	if len(offer.Goods) > 0 {
		line(styles.AccentText.Render("What's inside"))
		line(para.Render(strings.Join(offer.Goods, ", ")))
		line("")
	}

	if offer.Host != nil {
		host := styles.Text.Render(offer.Host.Name)
		if offer.Host.IsPro {
			host += " " + styles.InfoText.Render("Pro")
		}
		line(styles.AccentText.Render("Meet the host") + "  " + host)
	}
	if offer.Description != "" {
		line(para.Render(offer.Description))
	}
	line("")

	m.renderReviews(&b, styles, para)
	m.renderNearby(&b, styles)

	return strings.TrimSuffix(b.String(), "\n")
}

// renderReviews writes the reviews section.
func (m Model) renderReviews(b *strings.Builder, styles Styles, para lipgloss.Style) {
	var reviews []api.Review
	if m.snapshot.CommentsOfferID == m.detailID {
		reviews = m.snapshot.Comments
	}

	b.WriteString(styles.AccentText.Render("Reviews") + " " + styles.MutedText.Render(fmt.Sprintf("· %d", len(reviews))))
	b.WriteString("\n")
	for _, review := range reviewsForDisplay(reviews) {
		author := styles.Text.Bold(true).Render(review.User.Name)
		if review.User.IsPro {
			author += " " + styles.InfoText.Render("Pro")
		}
		b.WriteString("  " + author + "  " + styles.Rating.Render(ratingStars(review.Rating)) +
			"  " + styles.FaintText.Render(reviewDate(review)))
		b.WriteString("\n")
		b.WriteString(para.PaddingLeft(2).Render(review.Comment))
		b.WriteString("\n")
	}
	if m.snapshot.IsAuthorized() {
		b.WriteString(styles.MutedText.Render("Press c to write a review"))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

// renderNearby writes the nearby offers section of the open offer.
func (m Model) renderNearby(b *strings.Builder, styles Styles) {
	if m.snapshot.NearbyOfferID != m.detailID || len(m.snapshot.Nearby) == 0 {
		return
	}
	b.WriteString(styles.AccentText.Render("Other places in the neighbourhood"))
	b.WriteString("\n")
	for _, offer := range m.snapshot.Nearby {
		b.WriteString(fmt.Sprintf("  %s %s  %s  %s\n",
			styles.Text.Bold(true).Render(formatPrice(offer.Price)),
			styles.Rating.Render(ratingStars(offer.Rating)),
			styles.Text.Render(truncate(offer.Title, 48)),
			bookmark(offer.IsFavorite, styles),
		))
	}
}
