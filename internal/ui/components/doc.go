// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the veritas TUI:
// turn bubbles with fact-check and summary cards, the chat input, the status
// bar, loading spinners and the welcome screen.
package components
