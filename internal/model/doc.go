// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat turns, sessions,
// and fact-check payloads.
//
// This package defines the core domain types used throughout the client
// for representing the transcript and the structured assistant results.
//
// # Key Types
//
//   - Turn: Single message with role, content, timestamp, and optional
//     fact-check or summary payloads
//   - Ledger: Ordered, append-only transcript of finalized turns
//   - Session: Server-tracked conversation context
//   - FactCheckResult / NewsSummary: Structured assistant payloads
//   - NewsArticle, User, NewsPreferences: Feed and account types
//
// # Usage
//
// Build a transcript:
//
//	ledger := model.NewLedger()
//	ledger.Append(model.NewUserTurn(sessionID, "Is the moon made of cheese?"))
//
// Streaming turns (IsStreaming=true) are owned by the chat reducer and are
// rejected by the ledger until finalized.
package model
