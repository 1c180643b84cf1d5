// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/veritas-tui/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN
// =============================================================================

// Welcome fills an empty transcript with the capability overview.
type Welcome struct {
	version string
	width   int
	height  int
	theme   *styles.Theme
}

// NewWelcome creates the welcome screen.
func NewWelcome(theme *styles.Theme) Welcome {
	return Welcome{
		version: "dev",
		theme:   theme,
	}
}

// SetVersion sets the version string.
func (w *Welcome) SetVersion(version string) {
	w.version = version
}

// SetSize updates the dimensions.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// View renders the welcome box centered in the available space.
func (w Welcome) View() string {
	width := w.width
	if width == 0 {
		width = 80
	}
	height := w.height
	if height == 0 {
		height = 24
	}

	boxWidth := 62
	if width < 70 {
		boxWidth = width - 8
	}
	if boxWidth < 40 {
		boxWidth = 40
	}

	var b strings.Builder
	b.WriteString(w.theme.WelcomeLogo.Render("veritas"))
	b.WriteString("  ")
	b.WriteString(w.theme.WelcomeVersion.Render(w.version))
	b.WriteString("\n\n")
	b.WriteString(w.theme.WelcomeInfo.Render("Your news fact-checking companion. You can:"))
	b.WriteString("\n\n")
	b.WriteString(w.theme.WelcomeKey.Render("  1.") + w.theme.WelcomeInfo.Render(" Fact-check a claim or headline"))
	b.WriteString("\n")
	b.WriteString(w.theme.WelcomeKey.Render("  2.") + w.theme.WelcomeInfo.Render(" Summarize an article or topic"))
	b.WriteString("\n")
	b.WriteString(w.theme.WelcomeKey.Render("  3.") + w.theme.WelcomeInfo.Render(" Ask questions about the news"))
	b.WriteString("\n\n")
	b.WriteString(w.theme.FormHint.Render("Type below and press enter to start."))

	box := w.theme.WelcomeBox.Width(boxWidth).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
