// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/veritas-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBar is the single-row footer: chat mode, realtime connection state,
// session identity and key hints.
type StatusBar struct {
	theme *styles.Theme

	mode      string
	sessionID string
	connected bool
	loading   bool
	width     int
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) StatusBar {
	return StatusBar{theme: theme}
}

// SetMode sets the displayed chat mode label.
func (s *StatusBar) SetMode(mode string) {
	s.mode = mode
}

// SetSessionID sets the active session identity.
func (s *StatusBar) SetSessionID(id string) {
	s.sessionID = id
}

// SetConnected flags the realtime channel state.
func (s *StatusBar) SetConnected(connected bool) {
	s.connected = connected
}

// SetLoading flags an in-flight send.
func (s *StatusBar) SetLoading(loading bool) {
	s.loading = loading
}

// SetWidth resizes the bar.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// View renders the bar.
func (s StatusBar) View() string {
	var left []string

	left = append(left, s.theme.ModeBadge.Render(strings.ToUpper(s.mode)))

	if s.connected {
		left = append(left, s.theme.Connected.Render(styles.StatusIndicators.Active+" live"))
	} else {
		left = append(left, s.theme.Disconnected.Render(styles.StatusIndicators.Pending+" offline"))
	}

	if s.sessionID != "" {
		left = append(left, s.theme.ShortcutDesc.Render("session "+truncate(s.sessionID, 12)))
	}
	if s.loading {
		left = append(left, s.theme.ShortcutDesc.Render("sending"))
	}

	hints := s.theme.ShortcutKey.Render("tab") + s.theme.ShortcutDesc.Render(" mode  ") +
		s.theme.ShortcutKey.Render("ctrl+n") + s.theme.ShortcutDesc.Render(" new  ") +
		s.theme.ShortcutKey.Render("ctrl+f") + s.theme.ShortcutDesc.Render(" feed  ") +
		s.theme.ShortcutKey.Render("ctrl+c") + s.theme.ShortcutDesc.Render(" quit")

	leftView := strings.Join(left, "  ")
	gap := s.width - lipgloss.Width(leftView) - lipgloss.Width(hints) - 2
	if gap < 1 {
		gap = 1
	}

	return s.theme.StatusBar.Width(s.width).Render(
		leftView + strings.Repeat(" ", gap) + hints)
}
