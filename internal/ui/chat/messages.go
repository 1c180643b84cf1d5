// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	core "github.com/jeranaias/veritas-tui/internal/chat"
	"github.com/jeranaias/veritas-tui/internal/model"
	"github.com/jeranaias/veritas-tui/internal/realtime"
	"github.com/jeranaias/veritas-tui/internal/session"
)

// =============================================================================
// MESSAGES
// =============================================================================

// StreamChunkMsg delivers one realtime chunk into the update loop.
type StreamChunkMsg struct {
	Chunk realtime.StreamChunk
}

// StreamClosedMsg reports that the realtime event channel closed.
type StreamClosedMsg struct{}

// StreamTickMsg drives throttled re-renders while streaming.
type StreamTickMsg struct {
	Time time.Time
}

// IdleTickMsg drives the idle-timeout sweep.
type IdleTickMsg struct {
	Time time.Time
}

// SessionReadyMsg reports the outcome of creating or switching a session.
type SessionReadyMsg struct {
	Session *model.Session
	Err     error
}

// DispatchDoneMsg reports a settled send. The failure turn, if any, is
// already in the ledger by the time this arrives.
type DispatchDoneMsg struct {
	Err error
}

// OpenFeedMsg asks the app root to switch to the news feed view.
type OpenFeedMsg struct{}

// =============================================================================
// COMMANDS
// =============================================================================

// waitForChunk blocks on the manager's event channel for the next chunk.
// Re-issued after every delivery.
func waitForChunk(events <-chan realtime.StreamChunk, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case chunk, ok := <-events:
			if !ok {
				return StreamClosedMsg{}
			}
			return StreamChunkMsg{Chunk: chunk}
		case <-done:
			return StreamClosedMsg{}
		}
	}
}

// dispatchCmd runs the blocking half of a send off the UI loop.
func dispatchCmd(ctx context.Context, controller *core.Controller, turn model.Turn) tea.Cmd {
	return func() tea.Msg {
		return DispatchDoneMsg{Err: controller.Dispatch(ctx, turn)}
	}
}

// newSessionCmd creates a fresh session through the store.
func newSessionCmd(ctx context.Context, store *session.Store) tea.Cmd {
	return func() tea.Msg {
		sess, err := store.CreateSession(ctx)
		return SessionReadyMsg{Session: sess, Err: err}
	}
}

// idleTickCmd schedules the next idle sweep. Coarse on purpose; the sweep
// itself compares against the configured timeout.
func idleTickCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(t time.Time) tea.Msg {
		return IdleTickMsg{Time: t}
	})
}
