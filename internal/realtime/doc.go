// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package realtime subscribes to per-session message channels and delivers
// streaming chunk events to the chat reducer.
//
// Two delivery modes flow through the same pipe: broadcast events carrying
// typed StreamChunk payloads (start/chunk/end with replace-semantics
// content), and row-level INSERT notifications for backends that write
// complete messages instead of streaming. Row inserts are converted to
// terminal chunks so downstream code handles one event shape.
//
// # Key Types
//
//   - StreamChunk: One delivery event, validated at the boundary
//   - Client: Websocket transport joining one channel per subscription
//   - Manager: Holds at most one live subscription, keyed by session id
//
// # Usage
//
//	mgr := realtime.NewManager(realtime.NewClient(url, key))
//	if err := mgr.Subscribe(ctx, sessionID); err != nil { ... }
//	for chunk := range mgr.Events() { ... }
package realtime
