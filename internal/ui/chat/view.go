// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/veritas-tui/internal/model"
	"github.com/jeranaias/veritas-tui/internal/ui/components"
)

// View renders the chat screen.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if m.controller.Loading() && !m.stream.Streaming() {
		b.WriteString(m.spinner.View())
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.statusBar.View())
	return b.String()
}

// renderHeader draws the one-line brand bar.
func (m Model) renderHeader() string {
	title := m.theme.HeaderBrand.Render("veritas")
	subtitle := m.theme.HeaderSubtitle.Render(" - news fact checking")
	line := title + subtitle
	if m.err != nil {
		line += "  " + m.theme.ErrorTitle.Render(m.err.Error())
	}
	return lipgloss.NewStyle().Width(m.width).Render(line)
}

// refreshTranscript rebuilds the viewport content from the ledger plus any
// in-flight streaming turn, and pins the view to the bottom.
func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}

	turns := m.ledger.All()
	if len(turns) == 0 && !m.stream.Streaming() {
		m.viewport.SetContent(m.welcome.View())
		return
	}

	var b strings.Builder
	for i, turn := range turns {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(components.RenderTurn(m.theme, m.renderedCopy(turn), m.viewport.Width))
		b.WriteString("\n")
	}
	if m.stream.Streaming() {
		if len(turns) > 0 {
			b.WriteString("\n")
		}
		b.WriteString(components.RenderTurn(m.theme, m.stream.Turn, m.viewport.Width))
		b.WriteString("\n")
	}

	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

// renderedCopy runs finalized assistant content through the markdown
// renderer. User turns and streaming partials stay verbatim.
func (m Model) renderedCopy(turn model.Turn) model.Turn {
	if m.markdown == nil || turn.Role != model.RoleAssistant || turn.IsStreaming {
		return turn
	}
	out, err := m.markdown.Render(turn.Content)
	if err != nil {
		return turn
	}
	turn.Content = strings.TrimRight(out, "\n")
	return turn
}
