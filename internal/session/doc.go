// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session tracks the single current chat session.
//
// The Store coordinates session switches across the pieces that depend on
// them: the backend session record, the realtime subscription, the
// transcript ledger, and the in-flight streaming turn. Teardown always
// precedes the new subscription so stale events cannot cross sessions.
package session
