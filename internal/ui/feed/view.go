// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package feed

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/veritas-tui/internal/storage"
	"github.com/jeranaias/veritas-tui/internal/ui/styles"
)

// feedLabel maps the cache partition name to its tab label.
func feedLabel(feed string) string {
	switch feed {
	case storage.FeedPersonalized:
		return "For You"
	case storage.FeedTrending:
		return "Trending"
	default:
		return "Top Stories"
	}
}

// View renders the feed screen.
func (m Model) View() string {
	if m.detail != nil {
		return m.renderDetail()
	}

	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View())
	case m.err != nil:
		b.WriteString(m.theme.ErrorBox.Render(
			m.theme.ErrorTitle.Render("Could not load the feed") + "\n" +
				m.theme.ErrorMessage.Render(m.err.Error())))
	case len(m.articles) == 0:
		b.WriteString(m.theme.FeedMeta.Render("Nothing here yet. Press r to refresh."))
	default:
		b.WriteString(m.renderList())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderTabs draws the feed selector with the active tab highlighted.
func (m Model) renderTabs() string {
	var tabs []string
	for _, f := range feedOrder {
		label := feedLabel(f)
		if f == m.feed {
			tabs = append(tabs, m.theme.FeedItemSelected.Render(label))
		} else {
			tabs = append(tabs, m.theme.FeedItem.Render(label))
		}
	}
	row := strings.Join(tabs, " ")
	if m.fromCache {
		row += "  " + m.theme.FeedBadge.Render("cached")
	}
	return row
}

// renderList draws the article rows.
func (m Model) renderList() string {
	width := m.width
	if width == 0 {
		width = 80
	}
	titleWidth := width - 6

	now := time.Now()
	var b strings.Builder
	for i, a := range m.articles {
		title := truncateCells(a.Title, titleWidth)
		if i == m.cursor {
			b.WriteString(m.theme.FeedItemSelected.Render("> " + title))
		} else {
			b.WriteString(m.theme.FeedItem.Render("  " + title))
		}
		b.WriteString("\n")

		meta := a.Source
		if !a.PublishedAt.IsZero() {
			meta += " - " + relative(a.PublishedAt, now)
		}
		if a.Verified {
			meta += " " + styles.StatusIndicators.Success
		}
		b.WriteString("    " + m.theme.FeedMeta.Render(truncateCells(meta, titleWidth)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderDetail draws one article full-screen.
func (m Model) renderDetail() string {
	a := m.detail

	var b strings.Builder
	b.WriteString(m.theme.FeedTitle.Render(a.Title))
	b.WriteString("\n")

	meta := a.Source
	if a.Author != "" {
		meta += " - " + a.Author
	}
	if !a.PublishedAt.IsZero() {
		meta += " - " + a.PublishedAt.Format("Jan 2, 2006")
	}
	b.WriteString(m.theme.FeedMeta.Render(meta))
	b.WriteString("\n\n")

	body := a.Content
	if body == "" {
		body = a.Description
	}
	if m.markdown != nil {
		if out, err := m.markdown.Render(body); err == nil {
			body = strings.TrimRight(out, "\n")
		}
	}
	b.WriteString(body)

	if a.URL != "" {
		b.WriteString("\n\n" + styles.RenderLink(a.URL))
	}

	b.WriteString("\n\n" + m.theme.FormHint.Render("esc to go back"))
	return b.String()
}

// renderFooter draws the key hints row.
func (m Model) renderFooter() string {
	hints := m.theme.ShortcutKey.Render("tab") + m.theme.ShortcutDesc.Render(" feed  ") +
		m.theme.ShortcutKey.Render("enter") + m.theme.ShortcutDesc.Render(" read  ") +
		m.theme.ShortcutKey.Render("r") + m.theme.ShortcutDesc.Render(" refresh  ") +
		m.theme.ShortcutKey.Render("esc") + m.theme.ShortcutDesc.Render(" back")
	return m.theme.StatusBar.Width(max(m.width, lipgloss.Width(hints))).Render(hints)
}

// truncateCells shortens s to the given terminal cell width.
func truncateCells(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}

// relative renders a coarse "how long ago" for list metadata.
func relative(t time.Time, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Hour:
		return "recent"
	case d < 24*time.Hour:
		return t.Format("15:04")
	default:
		return t.Format("Jan 2")
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
