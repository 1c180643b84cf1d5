// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat is the main veritas view: the transcript viewport, the query
// input and the status bar. It folds realtime stream chunks through the
// reducer into the ledger and drives sends through the controller.
package chat
