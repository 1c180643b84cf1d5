// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jeranaias/veritas-tui/internal/model"
)

// =============================================================================
// STREAM CHUNK
// =============================================================================

// ChunkType classifies a streamed delivery event.
type ChunkType string

const (
	// ChunkStart opens an assistant turn and establishes its message id.
	ChunkStart ChunkType = "start"
	// ChunkData carries the latest known full content for the turn.
	ChunkData ChunkType = "chunk"
	// ChunkEnd finalizes the turn.
	ChunkEnd ChunkType = "end"
)

// Valid reports whether the chunk type is known.
func (t ChunkType) Valid() bool {
	return t == ChunkStart || t == ChunkData || t == ChunkEnd
}

// StreamChunk is one incremental delivery event for an assistant turn under
// construction, as broadcast on the realtime channel.
//
// Content carries replace semantics: each chunk holds the latest known full
// content string for the turn, not a delta. Re-delivering an identical chunk
// is therefore idempotent.
type StreamChunk struct {
	Type      ChunkType  `json:"type"`
	SessionID string     `json:"session_id"`
	MessageID string     `json:"message_id,omitempty"`
	Role      model.Role `json:"role,omitempty"`
	Content   string     `json:"content,omitempty"`

	FactCheckResult *model.FactCheckResult `json:"factCheckResult,omitempty"`
	NewsSummary     *model.NewsSummary     `json:"newsSummary,omitempty"`

	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Decode errors.
var (
	// ErrMalformedChunk indicates an event payload that does not parse.
	ErrMalformedChunk = errors.New("malformed stream chunk")

	// ErrUnknownChunkType indicates an event with an unrecognized type tag.
	ErrUnknownChunkType = errors.New("unknown chunk type")

	// ErrMissingMessageID indicates a chunk without a message id.
	ErrMissingMessageID = errors.New("chunk missing message_id")
)

// DecodeStreamChunk parses and validates a broadcast payload at the
// boundary, before the event reaches the typed core.
func DecodeStreamChunk(data []byte) (StreamChunk, error) {
	var chunk StreamChunk
	if err := json.Unmarshal(data, &chunk); err != nil {
		return StreamChunk{}, fmt.Errorf("%w: %v", ErrMalformedChunk, err)
	}
	if err := chunk.Validate(); err != nil {
		return StreamChunk{}, err
	}
	return chunk, nil
}

// Validate checks the invariants a chunk must satisfy before it is
// forwarded to the reducer.
func (c StreamChunk) Validate() error {
	if !c.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownChunkType, c.Type)
	}
	if c.MessageID == "" {
		return ErrMissingMessageID
	}
	if c.Role != "" && !c.Role.Valid() {
		return fmt.Errorf("%w: bad role %q", ErrMalformedChunk, c.Role)
	}
	return nil
}

// IsTerminal reports whether the chunk finalizes its turn.
func (c StreamChunk) IsTerminal() bool {
	return c.Type == ChunkEnd
}

// =============================================================================
// ROW INSERT EVENT
// =============================================================================

// RowInsert is the row-level insert notification delivered in the
// non-streaming variant: each insert on chat_messages is one complete,
// already-finalized message.
type RowInsert struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ToChunk converts a row insert to a terminal StreamChunk so both delivery
// modes flow through the same reducer.
func (r RowInsert) ToChunk() (StreamChunk, error) {
	if r.ID == "" {
		return StreamChunk{}, ErrMissingMessageID
	}
	role := model.Role(r.Role)
	if !role.Valid() {
		return StreamChunk{}, fmt.Errorf("%w: bad role %q", ErrMalformedChunk, r.Role)
	}

	ts, err := time.Parse(time.RFC3339, r.CreatedAt)
	if err != nil {
		ts = time.Now()
	}

	return StreamChunk{
		Type:      ChunkEnd,
		SessionID: r.SessionID,
		MessageID: r.ID,
		Role:      role,
		Content:   r.Content,
		Timestamp: ts,
	}, nil
}
