// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the plain-terminal surface of veritas: argument
// parsing, the one-shot ask command, the line-oriented chat REPL and the
// login/logout helpers. The TUI lives in internal/ui.
package cli
