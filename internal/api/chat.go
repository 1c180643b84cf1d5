// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/jeranaias/veritas-tui/internal/model"
)

// chatRequest is the body for submitting a turn. The reply never comes
// back on this call; it arrives over the realtime channel.
type chatRequest struct {
	SessionID string        `json:"session_id"`
	UserQuery string        `json:"user_query"`
	Mode      string        `json:"mode"`
	Context   []chatMessage `json:"context,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SendTurn submits one user turn with its trailing conversational context.
// Implements the chat controller's Sender interface.
func (c *Client) SendTurn(ctx context.Context, sessionID, query, mode string, history []model.Turn) error {
	body := chatRequest{
		SessionID: sessionID,
		UserQuery: query,
		Mode:      mode,
	}
	for _, t := range history {
		body.Context = append(body.Context, chatMessage{Role: string(t.Role), Content: t.Content})
	}

	path := "/chat/" + url.PathEscape(sessionID) + "/chat"
	return c.do(ctx, http.MethodPost, path, body, nil)
}

// parseWireTime parses the backend's RFC3339 timestamps, falling back to
// now for rows with missing or mangled times.
func parseWireTime(s string) time.Time {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts
	}
	return time.Now()
}
