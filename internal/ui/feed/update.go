// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package feed

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/veritas-tui/internal/storage"
)

// feedOrder is the tab cycle.
var feedOrder = []string{storage.FeedMain, storage.FeedPersonalized, storage.FeedTrending}

// Update handles one message.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(min(msg.Width-4, 100)),
		); err == nil {
			m.markdown = r
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ArticlesLoadedMsg:
		if msg.Feed != m.feed {
			// A slow fetch for a tab the user already left.
			return m, nil
		}
		m.loading = false
		m.spinner.Stop()
		m.err = msg.Err
		if msg.Err == nil {
			m.articles = msg.Articles
			m.fromCache = msg.FromCache
			if m.cursor >= len(m.articles) {
				m.cursor = 0
			}
		}
		return m, nil

	case ArticleLoadedMsg:
		m.loading = false
		m.spinner.Stop()
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.detail = msg.Article
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

// handleKey routes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc", "q":
		if m.detail != nil {
			m.detail = nil
			return m, nil
		}
		return m, func() tea.Msg { return CloseMsg{} }

	case "tab":
		m.feed = nextFeed(m.feed)
		m.cursor = 0
		m.detail = nil
		return m, m.reload()

	case "r":
		// Manual refresh skips the fresh-cache fast path for one round.
		m.skipCacheOnce = true
		return m, m.reload()

	case "up", "k":
		if m.detail == nil && m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.detail == nil && m.cursor < len(m.articles)-1 {
			m.cursor++
		}
		return m, nil

	case "enter":
		if m.detail != nil || m.cursor >= len(m.articles) {
			return m, nil
		}
		m.loading = true
		spin := m.spinner.Start()
		return m, tea.Batch(spin, loadArticleCmd(m.source, m.cache, m.articles[m.cursor].ID))
	}
	return m, nil
}

// nextFeed cycles main -> personalized -> trending -> main.
func nextFeed(feed string) string {
	for i, f := range feedOrder {
		if f == feed {
			return feedOrder[(i+1)%len(feedOrder)]
		}
	}
	return feedOrder[0]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
