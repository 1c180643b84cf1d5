// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/veritas-tui/internal/model"
	"github.com/jeranaias/veritas-tui/internal/ui/styles"
)

// streamCursor marks the live tail of a turn still being streamed.
const streamCursor = "▌"

// =============================================================================
// TURN RENDERING
// =============================================================================

// RenderTurn renders one transcript turn as a bubble, including any
// fact-check or summary card attached to it. Width is the usable column
// count of the transcript viewport.
func RenderTurn(theme *styles.Theme, turn model.Turn, width int) string {
	if width < 20 {
		width = 20
	}
	bubbleWidth := width * 3 / 4

	content := turn.Content
	if turn.IsStreaming {
		content += streamCursor
	}

	var bubble string
	switch {
	case turn.Role == model.RoleUser:
		bubble = theme.UserBubble.Width(bubbleWidth).Render(content)
		bubble = lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble)
	case isNotice(turn):
		bubble = theme.SystemBubble.Width(bubbleWidth).Render(content)
		bubble = lipgloss.PlaceHorizontal(width, lipgloss.Center, bubble)
	default:
		bubble = theme.AssistantBubble.Width(bubbleWidth).Render(content)
	}

	parts := []string{bubble}

	if !turn.IsStreaming {
		if turn.FactCheckResult != nil {
			parts = append(parts, RenderVerdictCard(theme, turn.FactCheckResult, bubbleWidth))
		}
		if turn.NewsSummary != nil {
			parts = append(parts, RenderSummaryCard(theme, turn.NewsSummary, bubbleWidth))
		}
	}

	if ts := fmtClock(turn.Timestamp); ts != "" {
		meta := lipgloss.NewStyle().Foreground(styles.TextMuted).Render(ts)
		if turn.Role == model.RoleUser {
			meta = lipgloss.PlaceHorizontal(width, lipgloss.Right, meta)
		}
		parts = append(parts, meta)
	}

	return strings.Join(parts, "\n")
}

// isNotice reports whether the turn is a synthetic client-side notice rather
// than real assistant output.
func isNotice(turn model.Turn) bool {
	return turn.Role == model.RoleAssistant && turn.Content == model.ErrorTurnContent
}

// =============================================================================
// VERDICT CARD
// =============================================================================

// RenderVerdictCard renders the structured fact-check outcome under an
// assistant turn: verdict badge, confidence and up to three sources.
func RenderVerdictCard(theme *styles.Theme, fc *model.FactCheckResult, width int) string {
	var b strings.Builder

	badge := verdictBadge(theme, fc.Verdict)
	confidence := theme.Confidence.Render(" " + fmtPercent(fc.Confidence) + " confidence")
	b.WriteString(badge + confidence)

	if fc.Claim != "" {
		b.WriteString("\n" + theme.FeedMeta.Render(truncate("Claim: "+fc.Claim, width)))
	}
	if fc.Explanation != "" {
		explanation := lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Width(width).
			Render(fc.Explanation)
		b.WriteString("\n" + explanation)
	}

	for i, src := range fc.Sources {
		if i == 3 {
			remaining := len(fc.Sources) - 3
			b.WriteString("\n" + theme.FeedMeta.Render("+"+toStr(remaining)+" more sources"))
			break
		}
		name := src.Name
		if name == "" {
			name = src.URL
		}
		b.WriteString("\n- " + theme.SourceLink.Render(truncate(name, width-2)))
	}

	return theme.VerdictCard.Render(b.String())
}

// verdictBadge picks the badge style for a verdict. Unknown values render
// with the neutral style so a new server-side verdict degrades gracefully.
func verdictBadge(theme *styles.Theme, v model.Verdict) string {
	label := strings.ToUpper(v.DisplayName())
	switch v {
	case model.VerdictTrue:
		return theme.VerdictTrue.Render(label)
	case model.VerdictFalse:
		return theme.VerdictFalse.Render(label)
	case model.VerdictMisleading:
		return theme.VerdictMixed.Render(label)
	default:
		return theme.VerdictUnknown.Render(label)
	}
}

// =============================================================================
// SUMMARY CARD
// =============================================================================

// RenderSummaryCard renders a news summary attached to an assistant turn:
// the source article, key points and sentiment.
func RenderSummaryCard(theme *styles.Theme, ns *model.NewsSummary, width int) string {
	var b strings.Builder

	b.WriteString(theme.FeedBadge.Render("SUMMARY"))
	if ns.OriginalArticle.Title != "" {
		b.WriteString(" " + theme.FeedTitle.Render(truncate(ns.OriginalArticle.Title, width-10)))
	}

	for _, point := range ns.KeyPoints {
		b.WriteString("\n- " + truncate(point, width-2))
	}

	if ns.Sentiment != "" {
		b.WriteString("\n" + theme.FeedMeta.Render("sentiment: "+string(ns.Sentiment)))
	}

	return theme.VerdictCard.Render(b.String())
}
