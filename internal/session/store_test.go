// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"testing"

	"github.com/jeranaias/veritas-tui/internal/model"
)

// fakeBackend implements Creator and Loader.
type fakeBackend struct {
	nextID    string
	createErr error
	turns     []model.Turn
	loadErr   error
}

func (f *fakeBackend) CreateSession(ctx context.Context) (*model.Session, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &model.Session{ID: f.nextID, Title: "New Chat"}, nil
}

func (f *fakeBackend) SessionMessages(ctx context.Context, sessionID string) ([]model.Turn, error) {
	return f.turns, f.loadErr
}

// fakeSubs records subscription lifecycle calls in order.
type fakeSubs struct {
	log          []string
	subscribeErr error
}

func (f *fakeSubs) Subscribe(ctx context.Context, sessionID string) error {
	if f.subscribeErr != nil {
		return f.subscribeErr
	}
	f.log = append(f.log, "subscribe:"+sessionID)
	return nil
}

func (f *fakeSubs) Unsubscribe() {
	f.log = append(f.log, "unsubscribe")
}

// fakeArchiver records archived transcripts per session.
type fakeArchiver struct {
	archived map[string][]model.Turn
	err      error
}

func (f *fakeArchiver) ArchiveSession(ctx context.Context, sess model.Session, turns []model.Turn) error {
	if f.err != nil {
		return f.err
	}
	if f.archived == nil {
		f.archived = make(map[string][]model.Turn)
	}
	f.archived[sess.ID] = turns
	return nil
}

// =============================================================================
// CREATE TESTS
// =============================================================================

func TestStore_CreateSession(t *testing.T) {
	backend := &fakeBackend{nextID: "s1"}
	subs := &fakeSubs{}
	ledger := model.NewLedger()
	store := NewStore(backend, backend, subs, ledger)

	sess, err := store.CreateSession(context.Background())
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if sess.ID != "s1" || store.ID() != "s1" {
		t.Errorf("session = %+v, store.ID = %q", sess, store.ID())
	}
	if len(subs.log) == 0 || subs.log[len(subs.log)-1] != "subscribe:s1" {
		t.Errorf("subscription log = %v, want subscribe:s1 last", subs.log)
	}
}

func TestStore_CreateSessionClearsPriorState(t *testing.T) {
	backend := &fakeBackend{nextID: "s2"}
	subs := &fakeSubs{}
	ledger := model.NewLedger()
	ledger.Append(model.NewUserTurn("s1", "old conversation"))

	resetCalled := false
	store := NewStore(backend, backend, subs, ledger)
	store.OnReset(func() { resetCalled = true })

	if _, err := store.CreateSession(context.Background()); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if ledger.Len() != 0 {
		t.Error("ledger should be cleared on session switch")
	}
	if !resetCalled {
		t.Error("streaming reset hook should fire on session switch")
	}
	// Teardown must happen before the new subscription.
	if len(subs.log) != 2 || subs.log[0] != "unsubscribe" || subs.log[1] != "subscribe:s2" {
		t.Errorf("log = %v, want [unsubscribe subscribe:s2]", subs.log)
	}
}

func TestStore_CreateSessionBackendFailure(t *testing.T) {
	backend := &fakeBackend{createErr: errors.New("backend down")}
	subs := &fakeSubs{}
	store := NewStore(backend, backend, subs, model.NewLedger())

	if _, err := store.CreateSession(context.Background()); err == nil {
		t.Fatal("CreateSession should surface the backend error")
	}
	if store.Current() != nil {
		t.Error("failed create must leave no session, not a stale one")
	}
}

// =============================================================================
// RESUME AND CLEAR TESTS
// =============================================================================

func TestStore_ResumeSeedsLedger(t *testing.T) {
	backend := &fakeBackend{turns: []model.Turn{
		{ID: "m1", Role: model.RoleUser, Content: "hi", SessionID: "s1"},
		{ID: "m2", Role: model.RoleAssistant, Content: "hello", SessionID: "s1"},
	}}
	subs := &fakeSubs{}
	ledger := model.NewLedger()
	store := NewStore(backend, backend, subs, ledger)

	err := store.Resume(context.Background(), &model.Session{ID: "s1"})
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}

	if ledger.Len() != 2 {
		t.Errorf("ledger has %d turns, want the stored transcript", ledger.Len())
	}
	if store.ID() != "s1" {
		t.Errorf("ID = %q, want s1", store.ID())
	}
}

func TestStore_ResumeRejectsNil(t *testing.T) {
	store := NewStore(&fakeBackend{}, nil, &fakeSubs{}, model.NewLedger())
	if err := store.Resume(context.Background(), nil); !errors.Is(err, ErrNoSession) {
		t.Errorf("err = %v, want ErrNoSession", err)
	}
}

func TestStore_ClearSession(t *testing.T) {
	backend := &fakeBackend{nextID: "s1"}
	subs := &fakeSubs{}
	ledger := model.NewLedger()
	store := NewStore(backend, backend, subs, ledger)

	store.CreateSession(context.Background())
	ledger.Append(model.NewUserTurn("s1", "hello"))

	store.ClearSession()

	if store.Current() != nil {
		t.Error("ClearSession should drop the current session")
	}
	if ledger.Len() != 0 {
		t.Error("ClearSession should clear the ledger")
	}
	if subs.log[len(subs.log)-1] != "unsubscribe" {
		t.Errorf("log = %v, want trailing unsubscribe", subs.log)
	}
}

func TestStore_SwitchArchivesOutgoingTranscript(t *testing.T) {
	backend := &fakeBackend{nextID: "s1"}
	subs := &fakeSubs{}
	ledger := model.NewLedger()
	archiver := &fakeArchiver{}
	store := NewStore(backend, backend, subs, ledger).WithArchiver(archiver)

	store.CreateSession(context.Background())
	ledger.Append(model.NewUserTurn("s1", "is this claim true?"))
	ledger.Append(model.NewAssistantTurn("s1", "mostly"))

	backend.nextID = "s2"
	if _, err := store.CreateSession(context.Background()); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if got := archiver.archived["s1"]; len(got) != 2 {
		t.Errorf("archived %d turns for s1, want 2", len(got))
	}
	if ledger.Len() != 0 {
		t.Error("ledger should be cleared after archiving")
	}
}

func TestStore_ArchiveFailureDoesNotBlockSwitch(t *testing.T) {
	backend := &fakeBackend{nextID: "s1"}
	ledger := model.NewLedger()
	store := NewStore(backend, backend, &fakeSubs{}, ledger).
		WithArchiver(&fakeArchiver{err: errors.New("disk full")})

	store.CreateSession(context.Background())
	ledger.Append(model.NewUserTurn("s1", "hello"))

	backend.nextID = "s2"
	if _, err := store.CreateSession(context.Background()); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if store.ID() != "s2" {
		t.Errorf("ID = %q, want s2", store.ID())
	}
	if ledger.Len() != 0 {
		t.Error("ledger should be cleared even when archiving fails")
	}
}
