// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	core "github.com/jeranaias/veritas-tui/internal/chat"
	"github.com/jeranaias/veritas-tui/internal/model"
	"github.com/jeranaias/veritas-tui/internal/realtime"
	"github.com/jeranaias/veritas-tui/internal/session"
	"github.com/jeranaias/veritas-tui/internal/ui/components"
	"github.com/jeranaias/veritas-tui/internal/ui/styles"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the chat view state.
type Model struct {
	theme *styles.Theme
	keys  keyMap

	viewport  viewport.Model
	input     components.Input
	statusBar components.StatusBar
	welcome   components.Welcome
	spinner   components.Spinner

	ledger     *model.Ledger
	controller *core.Controller
	sessions   *session.Store
	manager    *realtime.Manager

	markdown *glamour.TermRenderer

	stream      core.State
	throttle    *RenderThrottle
	idleTimeout time.Duration

	width     int
	height    int
	ready     bool
	connected bool
	err       error
}

// Options carries the wired dependencies for the chat view.
type Options struct {
	Theme       *styles.Theme
	Ledger      *model.Ledger
	Controller  *core.Controller
	Sessions    *session.Store
	Manager     *realtime.Manager
	IdleTimeout time.Duration
	Version     string
}

// New creates the chat view.
func New(opts Options) Model {
	welcome := components.NewWelcome(opts.Theme)
	welcome.SetVersion(opts.Version)

	statusBar := components.NewStatusBar(opts.Theme)
	statusBar.SetMode(string(opts.Controller.Mode()))

	m := Model{
		theme:       opts.Theme,
		keys:        defaultKeyMap(),
		input:       components.NewInput(opts.Theme),
		statusBar:   statusBar,
		welcome:     welcome,
		spinner:     components.NewCheckingSpinner(),
		ledger:      opts.Ledger,
		controller:  opts.Controller,
		sessions:    opts.Sessions,
		manager:     opts.Manager,
		throttle:    NewRenderThrottle(),
		idleTimeout: opts.IdleTimeout,
	}
	return m
}

// Init starts the session, the realtime pump and the sweep timer.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		newSessionCmd(context.Background(), m.sessions),
		waitForChunk(m.manager.Events(), m.manager.Done()),
		idleTickCmd(),
		m.input.Focus(),
	)
}

// setSize lays the view out for a new terminal size and rebuilds the
// markdown renderer at the matching wrap width.
func (m *Model) setSize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)

	inputHeight := 3  // bordered input plus counter row
	chromeHeight := 2 // header row + status bar
	viewportHeight := height - inputHeight - chromeHeight
	if viewportHeight < 3 {
		viewportHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(width, viewportHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = viewportHeight
	}

	m.input.SetWidth(width)
	m.statusBar.SetWidth(width)
	m.welcome.SetSize(width, viewportHeight)

	wrap := width * 3 / 4
	if wrap > 100 {
		wrap = 100
	}
	if r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	); err == nil {
		m.markdown = r
	}

	m.refreshTranscript()
}

// applyEffects folds reducer effects into the ledger and throttle.
func (m *Model) applyEffects(effects []core.Effect) {
	for _, eff := range effects {
		switch eff.Kind {
		case core.EffectAppendTurn:
			m.ledger.Append(eff.Turn)
		case core.EffectDiscardPartial:
			m.throttle.Reset()
		}
	}
}
