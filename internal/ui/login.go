package ui

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/stayer/internal/actions"
	"github.com/five82/stayer/internal/api"
)

// loginForm holds the sign-in inputs.
type loginForm struct {
	email    textinput.Model
	password textinput.Model
	focus    int // 0 = email, 1 = password
	err      string
	busy     bool
	from     View
}

func newLoginForm() loginForm {
	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 254
	email.Prompt = "E-mail   "

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 128
	password.Prompt = "Password "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return loginForm{email: email, password: password}
}

func (f *loginForm) resize(width int) {
	w := width - 12
	if w > 48 {
		w = 48
	}
	if w < 10 {
		w = 10
	}
	f.email.Width = w
	f.password.Width = w
}

func (f *loginForm) reset() {
	f.email.Reset()
	f.password.Reset()
	f.email.Blur()
	f.password.Blur()
	f.focus = 0
	f.err = ""
	f.busy = false
	f.from = ViewOffers
}

// setFocus moves the cursor to input idx.
func (f *loginForm) setFocus(idx int) tea.Cmd {
	f.focus = idx
	if idx == 0 {
		f.password.Blur()
		return f.email.Focus()
	}
	f.email.Blur()
	return f.password.Focus()
}

// validate mirrors the API rules so obvious mistakes never leave the client.
func (f loginForm) validate() (api.AuthData, string) {
	auth := api.AuthData{
		Email:    strings.TrimSpace(f.email.Value()),
		Password: f.password.Value(),
	}
	if !strings.Contains(auth.Email, "@") || strings.HasPrefix(auth.Email, "@") || strings.HasSuffix(auth.Email, "@") {
		return auth, "Enter a valid email address."
	}
	if !validPassword(auth.Password) {
		return auth, "The password must contain at least one letter and one digit."
	}
	return auth, ""
}

func validPassword(password string) bool {
	var letter, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}

// openLogin shows the sign-in form and remembers where to return.
func (m Model) openLogin() (tea.Model, tea.Cmd) {
	if m.view != ViewLogin {
		m.login.from = m.view
		if m.login.from == ViewComment {
			m.login.from = ViewDetail
		}
	}
	m.login.err = ""
	m.view = ViewLogin
	return m, m.login.setFocus(0)
}

// toggleSession opens the login form, or signs out an authorized user.
func (m Model) toggleSession() (tea.Model, tea.Cmd) {
	if m.snapshot.IsAuthorized() {
		return m, m.dispatch(actions.Logout{})
	}
	return m.openLogin()
}

// handleLoginKey processes keyboard input for the sign-in form.
func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = m.login.from
		m.login.reset()
		return m, nil
	case "tab", "shift+tab", "up", "down":
		return m, m.login.setFocus(1 - m.login.focus)
	case "enter":
		if m.login.focus == 0 {
			return m, m.login.setFocus(1)
		}
		if m.login.busy {
			return m, nil
		}
		auth, problem := m.login.validate()
		if problem != "" {
			m.login.err = problem
			return m, nil
		}
		m.login.err = ""
		m.login.busy = true
		return m, m.dispatch(actions.Login{Credentials: auth})
	}
	return m.updateLoginInputs(msg)
}

// updateLoginInputs forwards msg to the focused input.
func (m Model) updateLoginInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.login.focus == 0 {
		m.login.email, cmd = m.login.email.Update(msg)
	} else {
		m.login.password, cmd = m.login.password.Update(msg)
	}
	return m, cmd
}

// renderLogin renders the sign-in form.
func (m Model) renderLogin() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Sign in"))
	b.WriteString("\n\n")
	b.WriteString(m.login.email.View())
	b.WriteString("\n")
	b.WriteString(m.login.password.View())
	b.WriteString("\n\n")

	switch {
	case m.login.busy:
		b.WriteString(m.spinner.View() + " " + styles.MutedText.Render("Signing in..."))
	case m.login.err != "":
		b.WriteString(styles.DangerText.Render(m.login.err))
	default:
		b.WriteString(styles.MutedText.Render("enter: next/sign in  tab: switch field  esc: cancel"))
	}
	return b.String()
}
