// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package login is the authentication view: a two-field form that can run
// either the login or the signup flow.
package login

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/veritas-tui/internal/api"
	"github.com/jeranaias/veritas-tui/internal/model"
	"github.com/jeranaias/veritas-tui/internal/ui/styles"
)

// Authenticator runs the credential exchange against the backend.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
	Signup(ctx context.Context, email, password string) (*api.SignupResponse, error)
}

// DoneMsg reports a settled authentication attempt. On success Token is
// non-empty; the app root persists it and moves to the chat view.
type DoneMsg struct {
	Token string
	User  *model.User
	Err   error
}

const (
	fieldEmail = iota
	fieldPassword
	fieldCount
)

// =============================================================================
// LOGIN MODEL
// =============================================================================

// Model is the login view state.
type Model struct {
	theme *styles.Theme
	auth  Authenticator

	inputs     [fieldCount]textinput.Model
	focus      int
	signup     bool
	submitting bool
	errText    string

	width  int
	height int
}

// New creates the login view with the email field focused.
func New(theme *styles.Theme, auth Authenticator) Model {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'
	password.CharLimit = 128

	m := Model{theme: theme, auth: auth}
	m.inputs[fieldEmail] = email
	m.inputs[fieldPassword] = password
	return m
}

// Init satisfies tea.Model-style composition.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles one message.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case DoneMsg:
		m.submitting = false
		if msg.Err != nil {
			m.errText = msg.Err.Error()
		}
		// Success is handled by the app root; this view only clears its
		// in-flight flag.
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "tab", "shift+tab", "up", "down":
			m.cycleFocus(msg.String() == "shift+tab" || msg.String() == "up")
			return m, nil

		case "ctrl+s":
			m.signup = !m.signup
			m.errText = ""
			return m, nil

		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// cycleFocus moves focus between the form fields.
func (m *Model) cycleFocus(backward bool) {
	m.inputs[m.focus].Blur()
	if backward {
		m.focus = (m.focus - 1 + fieldCount) % fieldCount
	} else {
		m.focus = (m.focus + 1) % fieldCount
	}
	m.inputs[m.focus].Focus()
}

// submit validates locally and dispatches the exchange.
func (m Model) submit() (Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	email := strings.TrimSpace(m.inputs[fieldEmail].Value())
	password := m.inputs[fieldPassword].Value()
	if email == "" || password == "" {
		m.errText = "email and password are required"
		return m, nil
	}

	m.errText = ""
	m.submitting = true
	signup := m.signup
	auth := m.auth
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if signup {
			resp, err := auth.Signup(ctx, email, password)
			if err != nil {
				return DoneMsg{Err: err}
			}
			return DoneMsg{Token: resp.Session.AccessToken, User: &resp.User}
		}
		resp, err := auth.Login(ctx, email, password)
		if err != nil {
			return DoneMsg{Err: err}
		}
		return DoneMsg{Token: resp.AccessToken, User: &resp.User}
	}
}

// View renders the centered form.
func (m Model) View() string {
	title := "Sign in to veritas"
	action := "create an account"
	if m.signup {
		title = "Create your veritas account"
		action = "sign in instead"
	}

	var b strings.Builder
	b.WriteString(m.theme.HeaderTitle.Render(title))
	b.WriteString("\n\n")

	labels := [fieldCount]string{"Email", "Password"}
	for i := range m.inputs {
		b.WriteString(m.theme.FormLabel.Render(labels[i]))
		b.WriteString("\n")
		field := m.theme.FormField
		if i == m.focus {
			field = m.theme.FormFieldFocused
		}
		b.WriteString(field.Render(m.inputs[i].View()))
		b.WriteString("\n")
	}

	if m.submitting {
		b.WriteString("\n" + m.theme.FormHint.Render("contacting server..."))
	} else if m.errText != "" {
		b.WriteString("\n" + m.theme.FormError.Render(styles.StatusIndicators.Error+" "+m.errText))
	}

	b.WriteString("\n\n")
	b.WriteString(m.theme.FormHint.Render("enter to submit - ctrl+s to " + action))

	box := m.theme.FormBox.Render(b.String())
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
