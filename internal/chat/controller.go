// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/veritas-tui/internal/model"
)

// Context window accompanying each send. Streaming turns never appear in
// it because they are never appended to the ledger.
const contextWindow = 5

// =============================================================================
// MODES
// =============================================================================

// Mode selects how the backend treats a submitted turn.
type Mode string

const (
	ModeFactCheck Mode = "fact-check"
	ModeSummarize Mode = "summarize"
	ModeGeneral   Mode = "general"
)

// Valid reports whether the mode is one of the supported values.
func (m Mode) Valid() bool {
	return m == ModeFactCheck || m == ModeSummarize || m == ModeGeneral
}

// Label returns the mode's display name.
func (m Mode) Label() string {
	switch m {
	case ModeFactCheck:
		return "Fact Check"
	case ModeSummarize:
		return "Summarize"
	case ModeGeneral:
		return "General"
	default:
		return string(m)
	}
}

// Modes lists the selectable modes in display order.
func Modes() []Mode {
	return []Mode{ModeFactCheck, ModeSummarize, ModeGeneral}
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Validation errors returned by Prepare. Both mean "do nothing": the send
// never starts and no turn is appended.
var (
	ErrEmptyContent = errors.New("empty message content")
	ErrNoSession    = errors.New("no active session")
)

// Sender submits one turn to the backend. The assistant's reply does not
// come back on this call; it arrives over the realtime channel.
type Sender interface {
	SendTurn(ctx context.Context, sessionID, query, mode string, history []model.Turn) error
}

// Controller owns the send-turn flow: validate, append the user turn
// optimistically, flag loading, dispatch the request, and on failure append
// the fixed apology turn.
//
// Prepare runs synchronously in the UI loop so the user's turn is visible
// before any network round trip. Dispatch blocks and is meant to run in a
// command goroutine.
type Controller struct {
	ledger *model.Ledger
	sender Sender

	mu      sync.Mutex
	mode    Mode
	loading bool
}

// NewController creates a controller over the given ledger and sender,
// defaulting to fact-check mode.
func NewController(ledger *model.Ledger, sender Sender) *Controller {
	return &Controller{
		ledger: ledger,
		sender: sender,
		mode:   ModeFactCheck,
	}
}

// Mode returns the active chat mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SetMode switches the chat mode. Unknown modes are ignored.
func (c *Controller) SetMode(m Mode) {
	if !m.Valid() {
		return
	}
	c.mu.Lock()
	c.mode = m
	c.mu.Unlock()
}

// Loading reports whether a send is in flight. The UI shows the thinking
// indicator while this is set and no partial streaming turn exists yet.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Prepare validates and normalizes the content, appends the optimistic user
// turn, and marks the controller loading. It returns the appended turn, or
// ErrEmptyContent / ErrNoSession when the send must not start.
func (c *Controller) Prepare(sessionID, content string) (model.Turn, error) {
	query := Normalize(content)
	if query == "" {
		return model.Turn{}, ErrEmptyContent
	}
	if sessionID == "" {
		return model.Turn{}, ErrNoSession
	}

	turn := model.NewUserTurn(sessionID, query)
	c.ledger.Append(turn)

	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	return turn, nil
}

// Dispatch submits the prepared turn to the backend with the trailing
// conversational context. On failure it appends exactly one synthetic
// assistant turn with the fixed apology text. Loading clears when the
// request settles, success or not.
func (c *Controller) Dispatch(ctx context.Context, turn model.Turn) error {
	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	history := c.ledger.Context(contextWindow)
	err := c.sender.SendTurn(ctx, turn.SessionID, turn.Content, string(c.Mode()), history)
	if err != nil {
		c.ledger.Append(model.NewErrorTurn(turn.SessionID))
		return err
	}
	return nil
}

// Send runs the full flow in one blocking call, for the plain-terminal
// paths that have no command loop.
func (c *Controller) Send(ctx context.Context, sessionID, content string) (model.Turn, error) {
	turn, err := c.Prepare(sessionID, content)
	if err != nil {
		return model.Turn{}, err
	}
	return turn, c.Dispatch(ctx, turn)
}

// Normalize canonicalizes user input to NFC and trims surrounding
// whitespace, so visually identical strings compare and render identically.
func Normalize(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}
