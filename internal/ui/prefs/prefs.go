// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package prefs is the news-preferences editor: categories, sources,
// language and region, saved to the backend.
package prefs

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/veritas-tui/internal/model"
	"github.com/jeranaias/veritas-tui/internal/ui/styles"
)

// Saver persists the preferences server-side.
type Saver interface {
	UpdatePreferences(ctx context.Context, prefs model.NewsPreferences) error
}

// SavedMsg reports a settled save.
type SavedMsg struct {
	Err error
}

// CloseMsg asks the app root to leave the editor.
type CloseMsg struct{}

const (
	fieldCategories = iota
	fieldSources
	fieldLanguage
	fieldRegion
	fieldCount
)

var fieldLabels = [fieldCount]string{"Categories", "Sources", "Language", "Region"}

// =============================================================================
// PREFERENCES MODEL
// =============================================================================

// Model is the preferences editor state.
type Model struct {
	theme *styles.Theme
	saver Saver

	inputs [fieldCount]textinput.Model
	focus  int

	saving bool
	saved  bool
	errText string

	width  int
	height int
}

// New creates the editor pre-filled from the user's current preferences.
func New(theme *styles.Theme, saver Saver, current *model.NewsPreferences) Model {
	m := Model{theme: theme, saver: saver}

	placeholders := [fieldCount]string{
		"politics, science, technology",
		"reuters, ap",
		"en",
		"us",
	}
	for i := range m.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 200
		m.inputs[i] = in
	}
	m.inputs[fieldCategories].Focus()

	if current != nil {
		m.inputs[fieldCategories].SetValue(strings.Join(current.Categories, ", "))
		m.inputs[fieldSources].SetValue(strings.Join(current.Sources, ", "))
		m.inputs[fieldLanguage].SetValue(current.Language)
		m.inputs[fieldRegion].SetValue(current.Region)
	}
	return m
}

// Init satisfies tea.Model-style composition.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Preferences builds the NewsPreferences from the current field values.
func (m Model) Preferences() model.NewsPreferences {
	return model.NewsPreferences{
		Categories: splitList(m.inputs[fieldCategories].Value()),
		Sources:    splitList(m.inputs[fieldSources].Value()),
		Language:   strings.TrimSpace(m.inputs[fieldLanguage].Value()),
		Region:     strings.TrimSpace(m.inputs[fieldRegion].Value()),
	}
}

// Update handles one message.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case SavedMsg:
		m.saving = false
		if msg.Err != nil {
			m.errText = msg.Err.Error()
		} else {
			m.saved = true
			m.errText = ""
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			return m, func() tea.Msg { return CloseMsg{} }

		case "tab", "down":
			m.cycleFocus(false)
			return m, nil

		case "shift+tab", "up":
			m.cycleFocus(true)
			return m, nil

		case "enter":
			return m.save()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.saved = false
	return m, cmd
}

// cycleFocus moves between fields.
func (m *Model) cycleFocus(backward bool) {
	m.inputs[m.focus].Blur()
	if backward {
		m.focus = (m.focus - 1 + fieldCount) % fieldCount
	} else {
		m.focus = (m.focus + 1) % fieldCount
	}
	m.inputs[m.focus].Focus()
}

// save dispatches the preference write.
func (m Model) save() (Model, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	m.saving = true
	m.saved = false
	m.errText = ""

	prefs := m.Preferences()
	saver := m.saver
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return SavedMsg{Err: saver.UpdatePreferences(ctx, prefs)}
	}
}

// View renders the editor.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.HeaderTitle.Render("News preferences"))
	b.WriteString("\n\n")

	for i := range m.inputs {
		b.WriteString(m.theme.FormLabel.Render(fieldLabels[i]))
		b.WriteString("\n")
		field := m.theme.FormField
		if i == m.focus {
			field = m.theme.FormFieldFocused
		}
		b.WriteString(field.Render(m.inputs[i].View()))
		b.WriteString("\n")
	}

	switch {
	case m.saving:
		b.WriteString("\n" + m.theme.FormHint.Render("saving..."))
	case m.errText != "":
		b.WriteString("\n" + m.theme.FormError.Render(styles.StatusIndicators.Error+" "+m.errText))
	case m.saved:
		b.WriteString("\n" + styles.RenderSuccess("saved"))
	}

	b.WriteString("\n\n")
	b.WriteString(m.theme.FormHint.Render("enter to save - esc to go back"))

	box := m.theme.FormBox.Render(b.String())
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// splitList parses a comma-separated field into trimmed, non-empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
