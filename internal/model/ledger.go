// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"sync"
	"time"
)

// =============================================================================
// LEDGER TYPE
// =============================================================================

// Ledger is the ordered, per-session transcript of finalized turns.
//
// The Ledger is append-only: turns keep their insertion order and are not
// mutated after Append. The one mutable streaming turn lives in the reducer,
// never here. The ledger is safe for concurrent use: dispatch runs in
// command goroutines and appends failure turns there while the UI loop
// reads, so every method takes the mutex and each mutation is atomic with
// respect to reads.
type Ledger struct {
	mu    sync.Mutex
	turns []Turn
	ids   map[string]struct{}
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		turns: make([]Turn, 0),
		ids:   make(map[string]struct{}),
	}
}

// Append adds a finalized turn to the end of the transcript.
// Returns false when the turn id already exists or the turn is still
// streaming; such turns are rejected to preserve the ledger invariants.
func (l *Ledger) Append(turn Turn) bool {
	if turn.ID == "" || turn.IsStreaming {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.ids[turn.ID]; exists {
		return false
	}
	l.turns = append(l.turns, turn)
	l.ids[turn.ID] = struct{}{}
	return true
}

// All returns the transcript in insertion order. The returned slice is a
// copy; callers cannot mutate ledger state through it.
func (l *Ledger) All() []Turn {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Turn, len(l.turns))
	copy(out, l.turns)
	return out
}

// Len returns the number of finalized turns.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.turns)
}

// Last returns the most recent turn and true, or a zero turn and false when
// the ledger is empty.
func (l *Ledger) Last() (Turn, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.turns) == 0 {
		return Turn{}, false
	}
	return l.turns[len(l.turns)-1], true
}

// Contains reports whether a turn with the given id has been appended.
func (l *Ledger) Contains(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.ids[id]
	return ok
}

// Clear removes all turns, e.g. when the current session changes.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = make([]Turn, 0)
	l.ids = make(map[string]struct{})
}

// Context returns up to n of the most recent finalized turns, oldest first.
// This is the conversational context that accompanies a send; streaming
// turns never appear here because they are never appended.
func (l *Ledger) Context(n int) []Turn {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n <= 0 || len(l.turns) == 0 {
		return nil
	}
	start := len(l.turns) - n
	if start < 0 {
		start = 0
	}
	out := make([]Turn, len(l.turns)-start)
	copy(out, l.turns[start:])
	return out
}

// Title derives a session title from the first user turn, in the manner of
// the transcript list view.
func (l *Ledger) Title() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, t := range l.turns {
		if t.Role == RoleUser && t.Content != "" {
			return t.Preview(50)
		}
	}
	return "New Chat"
}

// UpdatedAt returns the timestamp of the most recent turn, or the zero time
// for an empty ledger.
func (l *Ledger) UpdatedAt() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.turns) == 0 {
		return time.Time{}
	}
	return l.turns[len(l.turns)-1].Timestamp
}
