// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	core "github.com/jeranaias/veritas-tui/internal/chat"
)

// Update handles one message.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SessionReadyMsg:
		m.err = msg.Err
		m.connected = msg.Err == nil
		m.statusBar.SetConnected(m.connected)
		m.statusBar.SetSessionID(m.sessions.ID())
		m.stream = core.State{}
		m.throttle.Reset()
		m.refreshTranscript()
		return m, nil

	case StreamChunkMsg:
		return m.handleChunk(msg)

	case StreamClosedMsg:
		m.connected = false
		m.statusBar.SetConnected(false)
		return m, nil

	case StreamTickMsg:
		if _, ok := m.throttle.Flush(); ok {
			m.refreshTranscript()
		}
		if m.stream.Streaming() {
			cmds = append(cmds, streamTickCmd())
		}
		return m, tea.Batch(cmds...)

	case IdleTickMsg:
		var effects []core.Effect
		m.stream, effects = core.SweepIdle(m.stream, msg.Time, m.idleTimeout)
		if len(effects) > 0 {
			m.applyEffects(effects)
			m.spinner.Stop()
			m.refreshTranscript()
		}
		return m, idleTickCmd()

	case DispatchDoneMsg:
		m.statusBar.SetLoading(false)
		if msg.Err != nil {
			// The apology turn is already in the ledger; just stop the
			// spinner and surface the transcript.
			m.spinner.Stop()
			m.refreshTranscript()
		}
		return m, nil
	}

	// Everything else (spinner frames, blink) flows to the components.
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	cmds = append(cmds, cmd)
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// handleKey routes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Send):
		return m.handleSend()

	case key.Matches(msg, m.keys.CycleMode):
		m.cycleMode()
		return m, nil

	case key.Matches(msg, m.keys.NewSession):
		m.stream, _ = core.Reset(m.stream)
		m.throttle.Reset()
		m.spinner.Stop()
		return m, newSessionCmd(context.Background(), m.sessions)

	case key.Matches(msg, m.keys.OpenFeed):
		return m, func() tea.Msg { return OpenFeedMsg{} }

	case key.Matches(msg, m.keys.ScrollUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.ScrollDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleSend runs the synchronous half of a send and schedules the rest.
func (m Model) handleSend() (Model, tea.Cmd) {
	turn, err := m.controller.Prepare(m.sessions.ID(), m.input.Value())
	if err != nil {
		if errors.Is(err, core.ErrEmptyContent) || errors.Is(err, core.ErrNoSession) {
			// Validation failures are a no-op: nothing sent, nothing appended.
			return m, nil
		}
		m.err = err
		return m, nil
	}

	m.input.Reset()
	m.statusBar.SetLoading(true)
	m.refreshTranscript()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	spin := m.spinner.Start()
	return m, tea.Batch(
		spin,
		func() tea.Msg {
			defer cancel()
			return dispatchCmd(ctx, m.controller, turn)()
		},
	)
}

// handleChunk folds one realtime chunk through the reducer.
func (m Model) handleChunk(msg StreamChunkMsg) (Model, tea.Cmd) {
	// The mailbox survives resubscribes, so a chunk buffered before a
	// session switch can still surface here. Drop anything not addressed
	// to the current session before it touches the reducer.
	if msg.Chunk.SessionID != m.sessions.ID() {
		return m, waitForChunk(m.manager.Events(), m.manager.Done())
	}

	wasStreaming := m.stream.Streaming()

	var effects []core.Effect
	m.stream, effects = core.Apply(m.stream, msg.Chunk, time.Now())
	m.applyEffects(effects)

	cmds := []tea.Cmd{waitForChunk(m.manager.Events(), m.manager.Done())}

	if m.stream.Streaming() {
		m.spinner.Stop()
		m.throttle.Set(m.stream.Turn.Content)
		if !wasStreaming {
			m.refreshTranscript()
			cmds = append(cmds, streamTickCmd())
		}
	} else {
		// Finalized or abandoned: render the settled transcript now.
		m.spinner.Stop()
		m.statusBar.SetLoading(false)
		m.throttle.ForceFlush()
		m.refreshTranscript()
	}

	return m, tea.Batch(cmds...)
}

// cycleMode advances to the next chat mode and reflects it in the footer.
func (m *Model) cycleMode() {
	modes := core.Modes()
	current := m.controller.Mode()
	for i, mode := range modes {
		if mode == current {
			next := modes[(i+1)%len(modes)]
			m.controller.SetMode(next)
			m.statusBar.SetMode(string(next))
			return
		}
	}
	m.controller.SetMode(modes[0])
	m.statusBar.SetMode(string(modes[0]))
}
