// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jeranaias/veritas-tui/internal/model"
)

// turnPayload carries the structured parts of a turn that don't get their
// own columns.
type turnPayload struct {
	FactCheckResult *model.FactCheckResult `json:"factCheckResult,omitempty"`
	NewsSummary     *model.NewsSummary     `json:"newsSummary,omitempty"`
}

// =============================================================================
// TRANSCRIPT ARCHIVE
// =============================================================================

// ArchiveSession snapshots a session and its finalized transcript for
// offline review. Re-archiving the same session replaces the snapshot.
func (s *Store) ArchiveSession(ctx context.Context, sess model.Session, turns []model.Turn) error {
	if s.db == nil {
		return ErrClosed
	}
	if sess.ID == "" {
		return errors.New("empty session id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin archive write: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	createdAt := sess.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO archived_sessions (id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title, updated_at = excluded.updated_at`,
		sess.ID, sess.GetTitle(), createdAt.Unix(), now.Unix()); err != nil {
		return fmt.Errorf("archive session %s: %w", sess.ID, err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM archived_turns WHERE session_id = ?`, sess.ID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO archived_turns (id, session_id, seq, role, content, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, t := range turns {
		if t.IsStreaming {
			// Partial turns never reach the archive.
			continue
		}
		payload := ""
		if t.FactCheckResult != nil || t.NewsSummary != nil {
			raw, err := json.Marshal(turnPayload{t.FactCheckResult, t.NewsSummary})
			if err != nil {
				return fmt.Errorf("encode turn %s: %w", t.ID, err)
			}
			payload = string(raw)
		}
		if _, err := stmt.ExecContext(ctx,
			t.ID, sess.ID, i, string(t.Role), t.Content, payload, t.Timestamp.Unix()); err != nil {
			return fmt.Errorf("archive turn %s: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

// ArchivedTranscript returns a session's archived turns in order.
func (s *Store) ArchivedTranscript(ctx context.Context, sessionID string) ([]model.Turn, error) {
	if s.db == nil {
		return nil, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, role, content, payload, created_at
		FROM archived_turns WHERE session_id = ? ORDER BY seq`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("query archive: %w", err)
	}
	defer rows.Close()

	var out []model.Turn
	for rows.Next() {
		var (
			turn    model.Turn
			role    string
			payload string
			created int64
		)
		if err := rows.Scan(&turn.ID, &role, &turn.Content, &payload, &created); err != nil {
			return nil, err
		}
		turn.Role = model.Role(role)
		turn.SessionID = sessionID
		turn.Timestamp = time.Unix(created, 0)
		if payload != "" {
			var p turnPayload
			if err := json.Unmarshal([]byte(payload), &p); err == nil {
				turn.FactCheckResult = p.FactCheckResult
				turn.NewsSummary = p.NewsSummary
			}
		}
		out = append(out, turn)
	}
	return out, rows.Err()
}

// ArchivedSessions lists archived sessions, most recently updated first.
func (s *Store) ArchivedSessions(ctx context.Context) ([]model.Session, error) {
	if s.db == nil {
		return nil, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, created_at, updated_at
		FROM archived_sessions ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query archived sessions: %w", err)
	}
	defer rows.Close()

	var out []model.Session
	for rows.Next() {
		var (
			sess             model.Session
			created, updated int64
		)
		if err := rows.Scan(&sess.ID, &sess.Title, &created, &updated); err != nil {
			return nil, err
		}
		sess.CreatedAt = time.Unix(created, 0)
		sess.UpdatedAt = time.Unix(updated, 0)
		out = append(out, sess)
	}
	return out, rows.Err()
}

// DeleteArchivedSession removes a session and its turns.
func (s *Store) DeleteArchivedSession(ctx context.Context, sessionID string) error {
	if s.db == nil {
		return ErrClosed
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM archived_sessions WHERE id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("delete archived session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
