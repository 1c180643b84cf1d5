// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package feed is the news browser view: the main, personalized and
// trending feeds with a read-through local cache, plus the article detail
// pane.
package feed
