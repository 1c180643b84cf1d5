// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package feed

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/veritas-tui/internal/api"
	"github.com/jeranaias/veritas-tui/internal/model"
	"github.com/jeranaias/veritas-tui/internal/storage"
	"github.com/jeranaias/veritas-tui/internal/ui/components"
	"github.com/jeranaias/veritas-tui/internal/ui/styles"
)

// Source fetches feed pages from the backend.
type Source interface {
	News(ctx context.Context, q api.NewsQuery) ([]model.NewsArticle, error)
	PersonalizedNews(ctx context.Context, q api.NewsQuery) ([]model.NewsArticle, error)
	TrendingNews(ctx context.Context) ([]model.NewsArticle, error)
	Article(ctx context.Context, id string) (*model.NewsArticle, error)
}

// Cache is the local read-through store. May be nil; the view then always
// goes to the network.
type Cache interface {
	CacheArticles(ctx context.Context, feed, category string, articles []model.NewsArticle) error
	CachedArticles(ctx context.Context, feed, category string, ttl time.Duration) ([]model.NewsArticle, error)
	CachedArticle(ctx context.Context, id string) (*model.NewsArticle, error)
}

// =============================================================================
// MESSAGES
// =============================================================================

// ArticlesLoadedMsg delivers one feed page.
type ArticlesLoadedMsg struct {
	Feed      string
	Articles  []model.NewsArticle
	FromCache bool
	Err       error
}

// ArticleLoadedMsg delivers one article detail.
type ArticleLoadedMsg struct {
	Article *model.NewsArticle
	Err     error
}

// CloseMsg asks the app root to return to the chat view.
type CloseMsg struct{}

// =============================================================================
// FEED MODEL
// =============================================================================

// Model is the feed view state.
type Model struct {
	theme *styles.Theme

	source Source
	cache  Cache

	feed     string // storage.FeedMain / FeedPersonalized / FeedTrending
	category string
	pageSize int
	cacheTTL time.Duration

	articles      []model.NewsArticle
	cursor        int
	fromCache     bool
	loading       bool
	skipCacheOnce bool
	err           error

	detail   *model.NewsArticle
	markdown *glamour.TermRenderer

	spinner components.Spinner

	width  int
	height int
}

// Options carries the feed view dependencies.
type Options struct {
	Theme    *styles.Theme
	Source   Source
	Cache    Cache
	Category string
	PageSize int
	CacheTTL time.Duration
}

// New creates the feed view on the main feed.
func New(opts Options) Model {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	spinner := components.NewSpinner()
	spinner.SetMessage("Fetching news")

	return Model{
		theme:    opts.Theme,
		source:   opts.Source,
		cache:    opts.Cache,
		feed:     storage.FeedMain,
		category: opts.Category,
		pageSize: pageSize,
		cacheTTL: opts.CacheTTL,
		spinner:  spinner,
	}
}

// Init loads the first page.
func (m Model) Init() tea.Cmd {
	return m.reload()
}

// reload kicks off a fetch for the current feed.
func (m *Model) reload() tea.Cmd {
	m.loading = true
	m.err = nil
	ttl := m.cacheTTL
	if m.skipCacheOnce {
		ttl = 0
		m.skipCacheOnce = false
	}
	spin := m.spinner.Start()
	return tea.Batch(spin, loadFeedCmd(m.source, m.cache, m.feed, m.category, m.pageSize, ttl))
}

// =============================================================================
// COMMANDS
// =============================================================================

// loadFeedCmd resolves one feed page: fresh cache first, then the network
// (populating the cache), then stale cache as a last resort when offline.
func loadFeedCmd(source Source, cache Cache, feed, category string, pageSize int, ttl time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if cache != nil && ttl > 0 {
			if cached, err := cache.CachedArticles(ctx, feed, category, ttl); err == nil && len(cached) > 0 {
				return ArticlesLoadedMsg{Feed: feed, Articles: cached, FromCache: true}
			}
		}

		articles, err := fetchFeed(ctx, source, feed, category, pageSize)
		if err == nil {
			if cache != nil {
				// Best effort; a failed cache write never blocks the view.
				_ = cache.CacheArticles(ctx, feed, category, articles)
			}
			return ArticlesLoadedMsg{Feed: feed, Articles: articles}
		}

		if cache != nil {
			const staleWindow = 30 * 24 * time.Hour
			if cached, cerr := cache.CachedArticles(ctx, feed, category, staleWindow); cerr == nil && len(cached) > 0 {
				return ArticlesLoadedMsg{Feed: feed, Articles: cached, FromCache: true}
			}
		}
		return ArticlesLoadedMsg{Feed: feed, Err: err}
	}
}

// fetchFeed hits the endpoint matching the feed partition.
func fetchFeed(ctx context.Context, source Source, feed, category string, pageSize int) ([]model.NewsArticle, error) {
	switch feed {
	case storage.FeedPersonalized:
		return source.PersonalizedNews(ctx, api.NewsQuery{Category: category, Limit: pageSize})
	case storage.FeedTrending:
		return source.TrendingNews(ctx)
	default:
		return source.News(ctx, api.NewsQuery{Category: category, Limit: pageSize})
	}
}

// loadArticleCmd resolves one article, cache first for offline reads.
func loadArticleCmd(source Source, cache Cache, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		article, err := source.Article(ctx, id)
		if err == nil {
			return ArticleLoadedMsg{Article: article}
		}
		if cache != nil {
			if cached, cerr := cache.CachedArticle(ctx, id); cerr == nil {
				return ArticleLoadedMsg{Article: cached}
			}
		}
		return ArticleLoadedMsg{Err: err}
	}
}
