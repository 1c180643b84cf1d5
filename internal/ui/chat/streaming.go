// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// RENDER THROTTLE
// =============================================================================

// RenderThrottle caps transcript re-renders during streaming. Chunks carry
// full content snapshots, so only the latest one matters; anything that
// arrives between frames is simply superseded. The view re-renders at most
// once per frame interval instead of once per chunk.
//
// Thread-safety: chunks land from the realtime forwarding goroutine while
// the Bubble Tea loop reads, so everything is mutex-guarded.
type RenderThrottle struct {
	mu        sync.Mutex
	content   string
	dirty     bool
	lastFlush time.Time

	minInterval time.Duration
}

// frameInterval is ~30fps, smooth without burning CPU on chatty streams.
const frameInterval = 33 * time.Millisecond

// NewRenderThrottle creates a throttle at the default frame rate.
func NewRenderThrottle() *RenderThrottle {
	return &RenderThrottle{
		minInterval: frameInterval,
		lastFlush:   time.Now(),
	}
}

// Set records the latest content snapshot, replacing whatever was pending.
func (r *RenderThrottle) Set(content string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.content = content
	r.dirty = true
}

// Flush returns the pending snapshot if a frame interval has elapsed.
// The second return is false when nothing new is due.
func (r *RenderThrottle) Flush() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.dirty || time.Since(r.lastFlush) < r.minInterval {
		return "", false
	}
	r.dirty = false
	r.lastFlush = time.Now()
	return r.content, true
}

// ForceFlush returns the pending snapshot immediately, interval or not.
// Used when a stream finalizes so the last frame is never dropped.
func (r *RenderThrottle) ForceFlush() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.dirty {
		return "", false
	}
	r.dirty = false
	r.lastFlush = time.Now()
	return r.content, true
}

// Reset drops any pending snapshot, as on stream abandon or session switch.
func (r *RenderThrottle) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.content = ""
	r.dirty = false
	r.lastFlush = time.Now()
}

// Pending reports whether an unflushed snapshot exists.
func (r *RenderThrottle) Pending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dirty
}

// streamTickCmd schedules the next streaming frame.
func streamTickCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return StreamTickMsg{Time: t}
	})
}
