// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jeranaias/veritas-tui/internal/model"
)

// ErrNoSession indicates no session is active.
var ErrNoSession = errors.New("no active session")

// Creator opens sessions on the backend.
type Creator interface {
	CreateSession(ctx context.Context) (*model.Session, error)
}

// Loader fetches a stored transcript.
type Loader interface {
	SessionMessages(ctx context.Context, sessionID string) ([]model.Turn, error)
}

// Subscriber binds the realtime subscription to the current session.
type Subscriber interface {
	Subscribe(ctx context.Context, sessionID string) error
	Unsubscribe()
}

// Archiver snapshots a finished transcript before the store discards it.
// Archiving is best effort; the server history stays canonical.
type Archiver interface {
	ArchiveSession(ctx context.Context, sess model.Session, turns []model.Turn) error
}

// =============================================================================
// SESSION STORE
// =============================================================================

// Store owns the single current session and coordinates everything that
// must change with it: the transcript ledger, the realtime subscription,
// and any in-flight streaming turn.
//
// Switching sessions is strictly ordered: tear down the old subscription,
// drop local state, then establish the new session and its subscription.
// Events from an abandoned session can therefore never land in the new
// transcript.
type Store struct {
	creator Creator
	loader  Loader
	subs    Subscriber
	ledger  *model.Ledger

	mu       sync.Mutex
	current  *model.Session
	archiver Archiver

	// onReset discards the in-flight streaming turn, if any. Set by the
	// chat layer.
	onReset func()
}

// NewStore creates a session store. loader may be nil when transcript
// resume is not wired (plain CLI one-shot mode).
func NewStore(creator Creator, loader Loader, subs Subscriber, ledger *model.Ledger) *Store {
	return &Store{
		creator: creator,
		loader:  loader,
		subs:    subs,
		ledger:  ledger,
	}
}

// OnReset registers the streaming-state reset hook.
func (s *Store) OnReset(fn func()) {
	s.mu.Lock()
	s.onReset = fn
	s.mu.Unlock()
}

// WithArchiver registers the local transcript archiver.
func (s *Store) WithArchiver(a Archiver) *Store {
	s.mu.Lock()
	s.archiver = a
	s.mu.Unlock()
	return s
}

// Current returns the active session, or nil.
func (s *Store) Current() *model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// ID returns the active session id, or "".
func (s *Store) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	return s.current.ID
}

// CreateSession opens a fresh session: the prior subscription is torn
// down, local state is cleared, the backend session is created, and the
// new subscription is established. On backend failure the store is left
// with no session rather than the stale one.
func (s *Store) CreateSession(ctx context.Context) (*model.Session, error) {
	s.reset()

	sess, err := s.creator.CreateSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if err := s.subs.Subscribe(ctx, sess.ID); err != nil {
		return nil, fmt.Errorf("subscribe to session %s: %w", sess.ID, err)
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	return sess, nil
}

// Resume switches to an existing session, seeding the ledger from the
// stored transcript before subscribing.
func (s *Store) Resume(ctx context.Context, sess *model.Session) error {
	if sess == nil || sess.ID == "" {
		return ErrNoSession
	}
	s.reset()

	if s.loader != nil {
		turns, err := s.loader.SessionMessages(ctx, sess.ID)
		if err != nil {
			return fmt.Errorf("load transcript for %s: %w", sess.ID, err)
		}
		for _, t := range turns {
			s.ledger.Append(t)
		}
	}

	if err := s.subs.Subscribe(ctx, sess.ID); err != nil {
		return fmt.Errorf("subscribe to session %s: %w", sess.ID, err)
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	return nil
}

// ClearSession drops the current session, its subscription, and all local
// conversation state.
func (s *Store) ClearSession() {
	s.reset()
}

// reset tears down in strict order: subscription first, then the streaming
// turn, then the transcript. The outgoing transcript is archived locally
// before it is cleared.
func (s *Store) reset() {
	s.subs.Unsubscribe()

	s.mu.Lock()
	onReset := s.onReset
	archiver := s.archiver
	current := s.current
	s.current = nil
	s.mu.Unlock()

	if onReset != nil {
		onReset()
	}

	if archiver != nil && current != nil && s.ledger.Len() > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		// Best effort: a failed archive must not block the switch.
		_ = archiver.ArchiveSession(ctx, *current, s.ledger.All())
		cancel()
	}
	s.ledger.Clear()
}
