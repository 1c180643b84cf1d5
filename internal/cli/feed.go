// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// feed.go - Plain-terminal news feed listing.

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/veritas-tui/internal/api"
	"github.com/jeranaias/veritas-tui/internal/model"
	"github.com/jeranaias/veritas-tui/internal/storage"
	"github.com/jeranaias/veritas-tui/internal/ui/styles"
)

// Articles older than this never serve as an offline fallback.
const staleWindow = 30 * 24 * time.Hour

// NewsSource is the slice of the API client the feed command needs.
type NewsSource interface {
	News(ctx context.Context, q api.NewsQuery) ([]model.NewsArticle, error)
	PersonalizedNews(ctx context.Context, q api.NewsQuery) ([]model.NewsArticle, error)
	TrendingNews(ctx context.Context) ([]model.NewsArticle, error)
}

// RunFeed prints one feed page, read-through cached: fresh cache, then
// network, then the stale cache as an offline fallback.
func RunFeed(deps *Deps, source NewsSource, opts Options) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	feedKey := feedKeyFor(opts.Feed)
	ttl := time.Duration(deps.Config.News.CacheTTLHours) * time.Hour
	cacheOn := deps.Config.News.CacheEnabled && deps.Store != nil

	if cacheOn {
		articles, err := deps.Store.CachedArticles(ctx, feedKey, opts.Category, ttl)
		if err == nil && len(articles) > 0 {
			printArticles(articles, true)
			return nil
		}
	}

	articles, netErr := fetchFeed(ctx, source, deps, opts)
	if netErr == nil {
		if cacheOn {
			_ = deps.Store.CacheArticles(ctx, feedKey, opts.Category, articles)
		}
		printArticles(articles, false)
		return nil
	}

	if cacheOn {
		articles, err := deps.Store.CachedArticles(ctx, feedKey, opts.Category, staleWindow)
		if err == nil && len(articles) > 0 {
			fmt.Println(styles.RenderWarning("offline; showing cached articles"))
			printArticles(articles, true)
			return nil
		}
	}
	return fmt.Errorf("fetch %s feed: %w", opts.Feed, netErr)
}

func feedKeyFor(name string) string {
	switch name {
	case "personalized":
		return storage.FeedPersonalized
	case "trending":
		return storage.FeedTrending
	default:
		return storage.FeedMain
	}
}

func fetchFeed(ctx context.Context, source NewsSource, deps *Deps, opts Options) ([]model.NewsArticle, error) {
	q := api.NewsQuery{Category: opts.Category, Limit: deps.Config.News.PageSize}
	switch opts.Feed {
	case "personalized":
		return source.PersonalizedNews(ctx, q)
	case "trending":
		return source.TrendingNews(ctx)
	default:
		return source.News(ctx, q)
	}
}

// printArticles writes one article per block: headline, then source and age.
func printArticles(articles []model.NewsArticle, cached bool) {
	if len(articles) == 0 {
		fmt.Println("no articles")
		return
	}
	width := GetTerminalWidth()
	now := time.Now()

	for i, a := range articles {
		title := a.Title
		if runewidth.StringWidth(title) > width-6 {
			title = runewidth.Truncate(title, width-6, "...")
		}
		fmt.Printf("%2d. %s\n", i+1, title)

		meta := a.Source
		if a.Category != "" {
			meta += " | " + a.Category
		}
		if !a.PublishedAt.IsZero() {
			meta += " | " + relativeAge(a.PublishedAt, now)
		}
		fmt.Println("    " + meta)
		if a.URL != "" {
			fmt.Println("    " + styles.RenderLink(a.URL))
		}
	}
	if cached {
		fmt.Println(styles.RenderInfo("(from local cache)"))
	}
}

func relativeAge(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
