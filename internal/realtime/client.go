// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jeranaias/veritas-tui/internal/model"
)

// Configuration constants for the realtime channel transport.
const (
	// DefaultHeartbeatInterval keeps the websocket alive.
	DefaultHeartbeatInterval = 30 * time.Second

	// DefaultDialTimeout bounds the websocket handshake.
	DefaultDialTimeout = 10 * time.Second

	// writeTimeout bounds each outbound frame.
	writeTimeout = 10 * time.Second

	// eventBufferSize is the per-channel mailbox capacity. Events beyond
	// this block the read pump rather than being dropped; delivery order
	// is inherited from the transport.
	eventBufferSize = 64

	// broadcastEvent is the event name carrying StreamChunk payloads.
	broadcastEvent = "message-broadcast"
)

// Error variables for the realtime transport.
var (
	// ErrNotConfigured indicates the realtime URL or key is not set.
	ErrNotConfigured = errors.New("realtime service not configured")

	// ErrChannelClosed indicates the channel was closed by Leave or a
	// transport failure.
	ErrChannelClosed = errors.New("realtime channel closed")
)

// =============================================================================
// CHANNEL INTERFACE
// =============================================================================

// Channel is a live subscription to one session's event stream.
//
// Events is closed when the channel is torn down, whether by Close or by a
// transport error; in-flight partial turns are the reducer's problem, not
// the channel's.
type Channel interface {
	// Events delivers decoded chunks in transport order.
	Events() <-chan StreamChunk

	// Err returns the transport error that closed the channel, or nil
	// after a clean Close.
	Err() error

	// Close leaves the topic and releases the connection.
	Close() error
}

// Dialer joins the realtime topic for a session.
type Dialer interface {
	Join(ctx context.Context, sessionID string) (Channel, error)
}

// =============================================================================
// WEBSOCKET CLIENT
// =============================================================================

// Client joins per-session realtime channels over a websocket. Each Join
// opens its own connection; Close tears it down. This keeps channel
// lifecycle 1:1 with the subscription, which is all this product needs.
type Client struct {
	baseURL   string
	apiKey    string
	heartbeat time.Duration
	dialer    *websocket.Dialer
}

// NewClient creates a realtime client for the given service URL and
// public key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		apiKey:    apiKey,
		heartbeat: DefaultHeartbeatInterval,
		dialer: &websocket.Dialer{
			HandshakeTimeout: DefaultDialTimeout,
		},
	}
}

// WithHeartbeat sets a custom heartbeat interval.
func (c *Client) WithHeartbeat(d time.Duration) *Client {
	if d > 0 {
		c.heartbeat = d
	}
	return c
}

// IsConfigured reports whether the client has a URL and key.
func (c *Client) IsConfigured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

// topicFor returns the channel topic for a session id.
func topicFor(sessionID string) string {
	return "realtime:chat_messages:session_id=eq." + sessionID
}

// socketURL builds the websocket endpoint with the public key attached.
func (c *Client) socketURL() (string, error) {
	u, err := url.Parse(c.baseURL + "/websocket")
	if err != nil {
		return "", fmt.Errorf("invalid realtime URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	q := u.Query()
	q.Set("apikey", c.apiKey)
	q.Set("vsn", "1.0.0")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Join opens a connection, joins the session topic, and starts the read and
// heartbeat pumps. The returned Channel delivers events until Close or a
// transport error.
func (c *Client) Join(ctx context.Context, sessionID string) (Channel, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}
	if sessionID == "" {
		return nil, errors.New("empty session id")
	}

	endpoint, err := c.socketURL()
	if err != nil {
		return nil, err
	}

	conn, _, err := c.dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("realtime dial failed: %w", err)
	}

	ch := &wsChannel{
		conn:      conn,
		topic:     topicFor(sessionID),
		sessionID: sessionID,
		events:    make(chan StreamChunk, eventBufferSize),
		done:      make(chan struct{}),
		heartbeat: c.heartbeat,
	}

	if err := ch.join(); err != nil {
		conn.Close()
		return nil, err
	}

	go ch.readPump()
	go ch.heartbeatPump()

	return ch, nil
}

// =============================================================================
// WEBSOCKET CHANNEL
// =============================================================================

// frame is the phoenix-style envelope used on the wire.
type frame struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     string          `json:"ref,omitempty"`
}

// broadcastPayload wraps a broadcast event's inner payload.
type broadcastPayload struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// insertPayload wraps a row-level change notification.
type insertPayload struct {
	Type   string    `json:"type"`
	Record RowInsert `json:"record"`
}

type wsChannel struct {
	conn      *websocket.Conn
	topic     string
	sessionID string
	heartbeat time.Duration

	writeMu sync.Mutex
	refSeq  atomic.Int64

	events    chan StreamChunk
	done      chan struct{}
	closeOnce sync.Once

	errMu sync.Mutex
	err   error
}

// Events implements Channel.
func (ch *wsChannel) Events() <-chan StreamChunk {
	return ch.events
}

// Err implements Channel.
func (ch *wsChannel) Err() error {
	ch.errMu.Lock()
	defer ch.errMu.Unlock()
	return ch.err
}

// Close implements Channel. Safe to call multiple times.
func (ch *wsChannel) Close() error {
	ch.closeOnce.Do(func() {
		close(ch.done)
		ch.send("phx_leave", json.RawMessage(`{}`))
		ch.conn.Close()
	})
	return nil
}

// join sends the phx_join frame for the topic.
func (ch *wsChannel) join() error {
	cfg := fmt.Sprintf(
		`{"config":{"broadcast":{"self":false},"postgres_changes":[{"event":"INSERT","schema":"public","table":"chat_messages","filter":"session_id=eq.%s"}]}}`,
		ch.sessionID)
	return ch.send("phx_join", json.RawMessage(cfg))
}

// send writes one frame under the write lock.
func (ch *wsChannel) send(event string, payload json.RawMessage) error {
	f := frame{
		Topic:   ch.topic,
		Event:   event,
		Payload: payload,
		Ref:     fmt.Sprintf("%d", ch.refSeq.Add(1)),
	}
	if event == "heartbeat" {
		f.Topic = "phoenix"
	}

	ch.writeMu.Lock()
	defer ch.writeMu.Unlock()
	ch.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return ch.conn.WriteJSON(f)
}

// readPump decodes inbound frames and forwards chunks in delivery order.
// Malformed events are logged and skipped; a read error tears the channel
// down and surfaces via Err.
func (ch *wsChannel) readPump() {
	defer func() {
		close(ch.events)
		ch.Close()
	}()

	for {
		var f frame
		if err := ch.conn.ReadJSON(&f); err != nil {
			select {
			case <-ch.done:
				// Clean close, not a transport failure.
			default:
				ch.setErr(fmt.Errorf("%w: %v", ErrChannelClosed, err))
			}
			return
		}

		chunk, ok := ch.decodeFrame(f)
		if !ok {
			continue
		}

		select {
		case ch.events <- chunk:
		case <-ch.done:
			return
		}
	}
}

// decodeFrame extracts a StreamChunk from a broadcast or insert frame.
// Replies, presence, and heartbeat acks are ignored.
func (ch *wsChannel) decodeFrame(f frame) (StreamChunk, bool) {
	switch f.Event {
	case "broadcast":
		var bp broadcastPayload
		if err := json.Unmarshal(f.Payload, &bp); err != nil || bp.Event != broadcastEvent {
			return StreamChunk{}, false
		}
		chunk, err := DecodeStreamChunk(bp.Payload)
		if err != nil {
			log.Printf("realtime: dropping event: %v", err)
			return StreamChunk{}, false
		}
		return chunk, true

	case "postgres_changes":
		var ip insertPayload
		if err := json.Unmarshal(f.Payload, &ip); err != nil || ip.Type != "INSERT" {
			return StreamChunk{}, false
		}
		chunk, err := ip.Record.ToChunk()
		if err != nil {
			log.Printf("realtime: dropping insert: %v", err)
			return StreamChunk{}, false
		}
		// User rows echo back our own sends; only assistant rows are
		// new information.
		if chunk.Role != model.RoleAssistant {
			return StreamChunk{}, false
		}
		return chunk, true
	}
	return StreamChunk{}, false
}

// heartbeatPump keeps the socket alive until the channel closes.
func (ch *wsChannel) heartbeatPump() {
	ticker := time.NewTicker(ch.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ch.done:
			return
		case <-ticker.C:
			if err := ch.send("heartbeat", json.RawMessage(`{}`)); err != nil {
				return
			}
		}
	}
}

func (ch *wsChannel) setErr(err error) {
	ch.errMu.Lock()
	defer ch.errMu.Unlock()
	if ch.err == nil {
		ch.err = err
	}
}
