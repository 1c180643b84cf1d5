// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/jeranaias/veritas-tui/internal/model"
	"github.com/jeranaias/veritas-tui/internal/realtime"
)

// =============================================================================
// REDUCER STATE
// =============================================================================

// Phase is the lifecycle stage of the assistant turn under construction.
type Phase int

const (
	// PhaseIdle means no streaming turn exists.
	PhaseIdle Phase = iota
	// PhaseStarted means a start chunk opened a turn with no content yet.
	PhaseStarted
	// PhaseAccumulating means at least one content chunk has landed.
	PhaseAccumulating
)

// String returns the phase name for logs and tests.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseStarted:
		return "started"
	case PhaseAccumulating:
		return "accumulating"
	default:
		return "unknown"
	}
}

// State is the reducer's complete view of the in-flight assistant turn.
// The zero value is the idle state.
//
// At most one turn streams at a time, keyed by its message id. The turn
// is owned here until an end chunk finalizes it; only then does it become
// eligible for the ledger.
type State struct {
	Phase Phase
	Turn  model.Turn

	// LastEventAt drives the idle-timeout sweep.
	LastEventAt time.Time
}

// Streaming reports whether a partial turn exists.
func (s State) Streaming() bool {
	return s.Phase != PhaseIdle
}

// =============================================================================
// EFFECTS
// =============================================================================

// EffectKind tags what the caller must do with an emitted effect.
type EffectKind int

const (
	// EffectAppendTurn carries a finalized turn for the ledger.
	EffectAppendTurn EffectKind = iota
	// EffectDiscardPartial reports a partial turn dropped without a
	// replacement. Informational; nothing enters the ledger.
	EffectDiscardPartial
)

// Effect is one side effect produced by a reduction step.
type Effect struct {
	Kind EffectKind
	Turn model.Turn
}

// =============================================================================
// REDUCTION
// =============================================================================

// Apply folds one chunk into the state. It is pure: no I/O, no clock reads
// beyond the caller-supplied now, so every transition is unit-testable.
//
// Content carries replace semantics: the latest received value is ground
// truth, so re-applying an identical chunk is idempotent. A chunk bearing a
// message id different from the in-flight turn abandons that turn silently
// and starts over; the stream has moved on and the partial is unrecoverable.
func Apply(s State, chunk realtime.StreamChunk, now time.Time) (State, []Effect) {
	var effects []Effect

	if s.Streaming() && chunk.MessageID != s.Turn.ID {
		effects = append(effects, Effect{Kind: EffectDiscardPartial, Turn: s.Turn})
		s = State{}
	}

	switch chunk.Type {
	case realtime.ChunkStart:
		if s.Streaming() {
			// Duplicate start for the in-flight turn: refresh, keep content.
			s.LastEventAt = now
			return s, effects
		}
		s = State{
			Phase:       PhaseStarted,
			Turn:        newStreamingTurn(chunk, now),
			LastEventAt: now,
		}
		return s, effects

	case realtime.ChunkData:
		if !s.Streaming() {
			// Stream joined mid-flight; the first data chunk opens the turn.
			s = State{
				Phase:       PhaseAccumulating,
				Turn:        newStreamingTurn(chunk, now),
				LastEventAt: now,
			}
			return s, effects
		}
		s.Phase = PhaseAccumulating
		s.Turn = mergeChunk(s.Turn, chunk)
		s.LastEventAt = now
		return s, effects

	case realtime.ChunkEnd:
		if !s.Streaming() {
			s.Turn = newStreamingTurn(chunk, now)
		} else {
			s.Turn = mergeChunk(s.Turn, chunk)
		}
		final := s.Turn
		final.IsStreaming = false
		effects = append(effects, Effect{Kind: EffectAppendTurn, Turn: final})
		return State{}, effects
	}

	// Unknown types are filtered at the decode boundary; nothing to do.
	return s, effects
}

// Reset discards any in-flight turn, as on unsubscribe, session switch, or
// transport failure. The partial never reaches the ledger.
func Reset(s State) (State, []Effect) {
	if !s.Streaming() {
		return State{}, nil
	}
	return State{}, []Effect{{Kind: EffectDiscardPartial, Turn: s.Turn}}
}

// SweepIdle discards a streaming turn that has received no chunk within the
// timeout window and emits a synthetic failure turn in its place, so the
// transcript explains the silence instead of spinning forever.
func SweepIdle(s State, now time.Time, timeout time.Duration) (State, []Effect) {
	if !s.Streaming() || timeout <= 0 {
		return s, nil
	}
	if now.Sub(s.LastEventAt) < timeout {
		return s, nil
	}
	effects := []Effect{
		{Kind: EffectDiscardPartial, Turn: s.Turn},
		{Kind: EffectAppendTurn, Turn: model.NewErrorTurn(s.Turn.SessionID)},
	}
	return State{}, effects
}

// newStreamingTurn builds the mutable turn a chunk opens.
func newStreamingTurn(chunk realtime.StreamChunk, now time.Time) model.Turn {
	role := chunk.Role
	if role == "" {
		role = model.RoleAssistant
	}
	ts := chunk.Timestamp
	if ts.IsZero() {
		ts = now
	}
	return model.Turn{
		ID:              chunk.MessageID,
		Role:            role,
		Content:         chunk.Content,
		SessionID:       chunk.SessionID,
		Timestamp:       ts,
		IsStreaming:     true,
		FactCheckResult: chunk.FactCheckResult,
		NewsSummary:     chunk.NewsSummary,
	}
}

// mergeChunk folds a chunk into the in-flight turn. Content replaces when
// present; an end chunk with empty content keeps what accumulated. Structured
// payloads replace whenever the chunk carries them.
func mergeChunk(turn model.Turn, chunk realtime.StreamChunk) model.Turn {
	if chunk.Content != "" || chunk.Type == realtime.ChunkData {
		turn.Content = chunk.Content
	}
	if chunk.FactCheckResult != nil {
		turn.FactCheckResult = chunk.FactCheckResult
	}
	if chunk.NewsSummary != nil {
		turn.NewsSummary = chunk.NewsSummary
	}
	return turn
}
