// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage is the local SQLite layer: a read-through cache for
// news feed pages and an archive of finished chat transcripts.
//
// Both live in one database (~/.veritas/veritas.db) opened in WAL mode
// with a single-connection pool. Everything here is advisory client-side
// state; the backend remains the source of truth.
package storage
