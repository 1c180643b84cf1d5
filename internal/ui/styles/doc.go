// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles holds the color palette and Lip Gloss style sets shared by
// every veritas view: turn bubbles, verdict badges, forms, the feed list and
// the status bar. Colors are adaptive; the ui.theme config key can force the
// dark or light variant.
package styles
