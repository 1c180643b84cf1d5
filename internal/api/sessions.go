// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jeranaias/veritas-tui/internal/model"
)

// CreateSession opens a new chat session on the backend.
func (c *Client) CreateSession(ctx context.Context) (*model.Session, error) {
	var out model.Session
	if err := c.do(ctx, http.MethodPost, "/sessions/", struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// sessionMessage is the wire shape of a stored message.
type sessionMessage struct {
	ID              string                 `json:"id"`
	SessionID       string                 `json:"session_id"`
	Role            string                 `json:"role"`
	Content         string                 `json:"content"`
	CreatedAt       string                 `json:"created_at"`
	FactCheckResult *model.FactCheckResult `json:"factCheckResult,omitempty"`
	NewsSummary     *model.NewsSummary     `json:"newsSummary,omitempty"`
}

// SessionMessages fetches the stored transcript for a session, oldest
// first, for seeding the ledger when resuming a conversation.
func (c *Client) SessionMessages(ctx context.Context, sessionID string) ([]model.Turn, error) {
	if sessionID == "" {
		return nil, ErrNotFound
	}

	var raw []sessionMessage
	path := "/sessions/" + url.PathEscape(sessionID) + "/messages"
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}

	turns := make([]model.Turn, 0, len(raw))
	for _, m := range raw {
		role := model.Role(m.Role)
		if m.ID == "" || !role.Valid() {
			// Skip rows the client cannot represent; the rest of the
			// transcript is still useful.
			continue
		}
		turn := model.Turn{
			ID:              m.ID,
			Role:            role,
			Content:         m.Content,
			SessionID:       m.SessionID,
			Timestamp:       parseWireTime(m.CreatedAt),
			FactCheckResult: m.FactCheckResult,
			NewsSummary:     m.NewsSummary,
		}
		turns = append(turns, turn)
	}
	return turns, nil
}
