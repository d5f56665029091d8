package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/stayer/internal/actions"
)

const (
	minReviewLength = 50
	maxReviewLength = 300
)

var ratingTitles = []string{"terribly", "badly", "not bad", "good", "perfect"}

// commentForm holds the review draft for one offer.
type commentForm struct {
	offerID string
	text    textarea.Model
	rating  int // 0 until chosen
	err     string
	busy    bool
}

func newCommentForm() commentForm {
	text := textarea.New()
	text.Placeholder = "Tell how was your stay, what you like and what can be improved"
	text.CharLimit = maxReviewLength
	text.ShowLineNumbers = false
	text.SetHeight(5)
	return commentForm{text: text}
}

func (f *commentForm) resize(width int) {
	w := width - 4
	if w > 80 {
		w = 80
	}
	if w < 20 {
		w = 20
	}
	f.text.SetWidth(w)
}

func (f *commentForm) reset() {
	f.text.Reset()
	f.text.Blur()
	f.rating = 0
	f.err = ""
	f.busy = false
}

// ready reports whether the draft can be submitted.
func (f commentForm) ready() bool {
	length := utf8.RuneCountInString(strings.TrimSpace(f.text.Value()))
	return f.rating >= 1 && f.rating <= 5 && length >= minReviewLength && length <= maxReviewLength
}

// openCommentForm starts a review for offerID. A draft for the same offer
// is kept.
func (m Model) openCommentForm(offerID string) (tea.Model, tea.Cmd) {
	if m.comment.offerID != offerID {
		m.comment.reset()
		m.comment.offerID = offerID
	}
	m.comment.err = ""
	m.view = ViewComment
	return m, m.comment.text.Focus()
}

// handleCommentKey processes keyboard input for the review form. Digits pick
// the rating only with alt held so they can still be typed.
func (m Model) handleCommentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.comment.text.Blur()
		m.view = ViewDetail
		return m, nil
	case "alt+1", "alt+2", "alt+3", "alt+4", "alt+5":
		m.comment.rating = int(msg.String()[len("alt+")] - '0')
		return m, nil
	case "ctrl+s":
		if m.comment.busy {
			return m, nil
		}
		if !m.comment.ready() {
			m.comment.err = fmt.Sprintf("Pick a rating and write %d to %d characters.", minReviewLength, maxReviewLength)
			return m, nil
		}
		m.comment.err = ""
		m.comment.busy = true
		return m, m.dispatch(actions.PostComment{
			OfferID: m.comment.offerID,
			Text:    strings.TrimSpace(m.comment.text.Value()),
			Rating:  m.comment.rating,
		})
	}
	if m.comment.busy {
		return m, nil
	}
	return m.updateCommentInput(msg)
}

// updateCommentInput forwards msg to the textarea.
func (m Model) updateCommentInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.comment.text, cmd = m.comment.text.Update(msg)
	return m, cmd
}

// renderCommentForm renders the review form.
func (m Model) renderCommentForm() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Your review"))
	b.WriteString("\n\n")

	var stars []string
	for i := 1; i <= 5; i++ {
		star := styles.FaintText.Render("☆")
		if i <= m.comment.rating {
			star = styles.Rating.Render("★")
		}
		stars = append(stars, star)
	}
	rating := strings.Join(stars, " ")
	if m.comment.rating > 0 {
		rating += "  " + styles.MutedText.Render(ratingTitles[m.comment.rating-1])
	}
	b.WriteString(rating)
	b.WriteString("\n")
	b.WriteString(m.comment.text.View())
	b.WriteString("\n")

	length := utf8.RuneCountInString(strings.TrimSpace(m.comment.text.Value()))
	countStyle := styles.MutedText
	if length >= minReviewLength {
		countStyle = styles.SuccessText
	}
	b.WriteString(countStyle.Render(fmt.Sprintf("%d/%d", length, maxReviewLength)))
	b.WriteString("  ")

	switch {
	case m.comment.busy:
		b.WriteString(m.spinner.View() + " " + styles.MutedText.Render("Sending..."))
	case m.comment.err != "":
		b.WriteString(styles.DangerText.Render(m.comment.err))
	default:
		b.WriteString(styles.MutedText.Render(fmt.Sprintf(
			"alt+1..5: rating  ctrl+s: submit (at least %d characters)  esc: back", minReviewLength)))
	}
	return b.String()
}
