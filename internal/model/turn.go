// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat turns, sessions,
// and fact-check payloads.
package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role identifies the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// Valid reports whether the role is one the client understands.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// =============================================================================
// TURN TYPE
// =============================================================================

// Turn is a single exchanged message in a chat session.
//
// A Turn with IsStreaming=true is owned by the streaming reducer and is not
// part of the transcript; it must never be sent to the backend as
// conversational context. Once finalized and appended to the Ledger a Turn
// is treated as immutable.
type Turn struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	SessionID string    `json:"session_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	// Streaming state; never true for a Ledger entry.
	IsStreaming bool `json:"-"`

	// Structured assistant payloads.
	FactCheckResult *FactCheckResult `json:"factCheckResult,omitempty"`
	NewsSummary     *NewsSummary     `json:"newsSummary,omitempty"`
}

// NewUserTurn creates a user turn with a locally generated unique id.
func NewUserTurn(sessionID, content string) Turn {
	return Turn{
		ID:        uuid.New().String(),
		Role:      RoleUser,
		Content:   content,
		SessionID: sessionID,
		Timestamp: time.Now(),
	}
}

// NewAssistantTurn creates a finalized assistant turn.
func NewAssistantTurn(sessionID, content string) Turn {
	return Turn{
		ID:        uuid.New().String(),
		Role:      RoleAssistant,
		Content:   content,
		SessionID: sessionID,
		Timestamp: time.Now(),
	}
}

// ErrorTurnContent is the fixed text shown when a send fails. The user
// always sees a terminal assistant response, even when the backend never
// streams one.
const ErrorTurnContent = "Sorry, I encountered an error. Please try again."

// NewErrorTurn creates the synthetic assistant turn used on send failure.
func NewErrorTurn(sessionID string) Turn {
	return NewAssistantTurn(sessionID, ErrorTurnContent)
}

// Preview returns a single-line truncated preview of the turn content.
func (t Turn) Preview(maxRunes int) string {
	content := t.Content
	runes := []rune(content)
	if len(runes) > maxRunes {
		if maxRunes <= 3 {
			return string(runes[:maxRunes])
		}
		content = string(runes[:maxRunes-3]) + "..."
	}
	return content
}

// IsEmpty reports whether the turn carries no content or payloads.
func (t Turn) IsEmpty() bool {
	return t.Content == "" && t.FactCheckResult == nil && t.NewsSummary == nil
}

// =============================================================================
// SESSION TYPE
// =============================================================================

// Session is a server-tracked conversation context.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetTitle returns the session title or a default.
func (s *Session) GetTitle() string {
	if s != nil && s.Title != "" {
		return s.Title
	}
	return "New Chat"
}
