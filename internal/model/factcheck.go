// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// =============================================================================
// FACT CHECK TYPES
// =============================================================================

// Verdict is the outcome of a fact check.
type Verdict string

const (
	VerdictTrue       Verdict = "true"
	VerdictFalse      Verdict = "false"
	VerdictMisleading Verdict = "misleading"
	VerdictUnverified Verdict = "unverified"
)

// Valid reports whether the verdict is a known value.
func (v Verdict) Valid() bool {
	switch v {
	case VerdictTrue, VerdictFalse, VerdictMisleading, VerdictUnverified:
		return true
	}
	return false
}

// DisplayName returns a human-readable label for the verdict.
func (v Verdict) DisplayName() string {
	switch v {
	case VerdictTrue:
		return "True"
	case VerdictFalse:
		return "False"
	case VerdictMisleading:
		return "Misleading"
	case VerdictUnverified:
		return "Unverified"
	default:
		return string(v)
	}
}

// Source is a reference backing a fact-check verdict.
type Source struct {
	Name        string  `json:"name"`
	URL         string  `json:"url"`
	Reliability float64 `json:"reliability"`
}

// FactCheckResult is the structured outcome of checking a claim.
type FactCheckResult struct {
	Claim       string        `json:"claim"`
	Verdict     Verdict       `json:"verdict"`
	Confidence  float64       `json:"confidence"` // 0.0 to 1.0
	Sources     []Source      `json:"sources"`
	Explanation string        `json:"explanation"`
	RelatedNews []NewsArticle `json:"relatedNews,omitempty"`
}

// =============================================================================
// NEWS SUMMARY TYPES
// =============================================================================

// Sentiment classifies the tone of a summarized article.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// NewsSummary is a condensed rendering of a news article.
type NewsSummary struct {
	OriginalArticle NewsArticle `json:"originalArticle"`
	Summary         string      `json:"summary"`
	KeyPoints       []string    `json:"keyPoints"`
	Sentiment       Sentiment   `json:"sentiment"`
}

// =============================================================================
// NEWS ARTICLE TYPE
// =============================================================================

// NewsArticle is one article from the news feed.
type NewsArticle struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Source      string    `json:"source"`
	Author      string    `json:"author,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	Verified    bool      `json:"verified"`
}

// =============================================================================
// USER TYPES
// =============================================================================

// NewsPreferences holds a user's topic preferences.
type NewsPreferences struct {
	Categories []string `json:"categories"`
	Sources    []string `json:"sources"`
	Language   string   `json:"language"`
	Region     string   `json:"region"`
}

// User is the authenticated account.
type User struct {
	ID          string           `json:"id"`
	Email       string           `json:"email"`
	Name        string           `json:"name"`
	Preferences *NewsPreferences `json:"preferences,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
}
