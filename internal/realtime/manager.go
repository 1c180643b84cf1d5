// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package realtime

import (
	"context"
	"log"
	"sync"
)

// =============================================================================
// SUBSCRIPTION MANAGER
// =============================================================================

// Manager maintains at most one live channel subscription, bound to the
// current session. Subscribe tears down the previous subscription before
// joining the new topic, so events from an abandoned session can never
// interleave with the active one.
//
// Decoded chunks for the active session are forwarded on Events in delivery
// order. Chunks tagged with a different session id are dropped at this
// boundary.
type Manager struct {
	dialer Dialer

	mu        sync.Mutex
	sessionID string
	channel   Channel
	cancel    context.CancelFunc
	gen       int

	events chan StreamChunk
	done   chan struct{}
}

// NewManager creates a subscription manager over the given dialer.
func NewManager(dialer Dialer) *Manager {
	return &Manager{
		dialer: dialer,
		events: make(chan StreamChunk, eventBufferSize),
		done:   make(chan struct{}),
	}
}

// Events is the single fan-in stream of chunks for the active session.
// It stays open across resubscribes; after Shutdown no further chunks
// are delivered.
func (m *Manager) Events() <-chan StreamChunk {
	return m.events
}

// Done is closed by Shutdown.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// SessionID returns the session currently subscribed to, or "".
func (m *Manager) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionID
}

// Subscribe switches the manager to the given session. Any previous
// subscription is closed first; subscribing to the already-active session
// is a no-op. An empty id is equivalent to Unsubscribe.
func (m *Manager) Subscribe(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sessionID == m.sessionID {
		return nil
	}

	m.teardownLocked()

	if sessionID == "" {
		return nil
	}

	chanCtx, cancel := context.WithCancel(ctx)
	ch, err := m.dialer.Join(chanCtx, sessionID)
	if err != nil {
		cancel()
		return err
	}

	m.sessionID = sessionID
	m.channel = ch
	m.cancel = cancel
	m.gen++

	go m.forward(ch, sessionID, m.gen)
	return nil
}

// Unsubscribe closes the active subscription, if any.
func (m *Manager) Unsubscribe() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardownLocked()
}

// Shutdown closes the active subscription and the Events stream. The
// manager must not be used afterward.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	m.teardownLocked()
	m.mu.Unlock()
	close(m.done)
}

// teardownLocked closes the current channel and drops anything its
// forwarder already delivered into the mailbox, so a subscriber of the
// next session never drains chunks from the previous one. Callers hold
// m.mu.
func (m *Manager) teardownLocked() {
	if m.channel != nil {
		m.channel.Close()
		m.cancel()
		m.channel = nil
		m.cancel = nil
	}
	m.sessionID = ""
	// Invalidate the old forwarder even before it observes the closed
	// channel, then discard any chunks it buffered.
	m.gen++
	for {
		select {
		case <-m.events:
		default:
			return
		}
	}
}

// forward pumps one channel's events into the shared stream, filtering by
// session id and dropping everything once a newer generation takes over.
func (m *Manager) forward(ch Channel, sessionID string, gen int) {
	for chunk := range ch.Events() {
		if chunk.SessionID != "" && chunk.SessionID != sessionID {
			continue
		}
		// Stamp chunks that arrived without a session tag so downstream
		// consumers can always attribute them.
		if chunk.SessionID == "" {
			chunk.SessionID = sessionID
		}

		m.mu.Lock()
		stale := m.gen != gen
		m.mu.Unlock()
		if stale {
			return
		}

		select {
		case m.events <- chunk:
		case <-m.done:
			return
		}
	}

	if err := ch.Err(); err != nil {
		log.Printf("realtime: subscription for %s ended: %v", sessionID, err)
	}
}
