// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/veritas-tui/internal/ui/styles"
)

// maxInputRunes caps a single query. Long pastes get clipped rather than
// rejected.
const maxInputRunes = 4000

// =============================================================================
// CHAT INPUT
// =============================================================================

// Input is the chat query input: a single-line-feeling textarea with a
// character counter.
type Input struct {
	area  textarea.Model
	theme *styles.Theme
	width int
}

// NewInput creates the chat input, focused.
func NewInput(theme *styles.Theme) Input {
	ta := textarea.New()
	ta.Placeholder = "Ask about a claim, or paste a headline to check..."
	ta.Prompt = "> "
	ta.CharLimit = maxInputRunes
	ta.SetHeight(1)
	ta.ShowLineNumbers = false
	ta.Focus()

	return Input{area: ta, theme: theme}
}

// SetWidth resizes the input to the terminal width.
func (i *Input) SetWidth(width int) {
	i.width = width
	i.area.SetWidth(width - 2)
}

// Value returns the raw text currently entered.
func (i Input) Value() string {
	return i.area.Value()
}

// Reset clears the input after a send.
func (i *Input) Reset() {
	i.area.Reset()
}

// Focus gives the input keyboard focus.
func (i *Input) Focus() tea.Cmd {
	return i.area.Focus()
}

// Blur removes keyboard focus.
func (i *Input) Blur() {
	i.area.Blur()
}

// Focused reports whether the input has focus.
func (i Input) Focused() bool {
	return i.area.Focused()
}

// Update handles key messages.
func (i Input) Update(msg tea.Msg) (Input, tea.Cmd) {
	var cmd tea.Cmd
	i.area, cmd = i.area.Update(msg)
	return i, cmd
}

// View renders the input row with the character counter.
func (i Input) View() string {
	view := i.theme.InputContainer.Width(i.width).Render(i.area.View())

	used := len([]rune(i.area.Value()))
	counter := toStr(used) + "/" + toStr(maxInputRunes)
	counterStyle := i.theme.CharCount
	if used > maxInputRunes*9/10 {
		counterStyle = i.theme.CharCountWarning
	}
	return view + "\n" + counterStyle.Width(i.width).Render(counter)
}
