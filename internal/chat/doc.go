// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat drives the conversation: the send-turn controller and the
// streaming reducer that folds realtime chunks into the transcript.
//
// The reducer is a pure function over (State, StreamChunk); the in-flight
// assistant turn lives in State until an end chunk finalizes it into a
// ledger append. The controller handles the outbound half: optimistic user
// turn, loading flag, request dispatch, and the fixed apology turn on
// failure.
package chat
