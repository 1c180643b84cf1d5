// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jeranaias/veritas-tui/internal/api"
	"github.com/jeranaias/veritas-tui/internal/model"
	"github.com/jeranaias/veritas-tui/internal/storage"
	"github.com/jeranaias/veritas-tui/internal/ui/styles"
)

// =============================================================================
// FAKES
// =============================================================================

type fakeSource struct {
	articles []model.NewsArticle
	err      error
	calls    int
}

func (f *fakeSource) News(ctx context.Context, q api.NewsQuery) ([]model.NewsArticle, error) {
	f.calls++
	return f.articles, f.err
}

func (f *fakeSource) PersonalizedNews(ctx context.Context, q api.NewsQuery) ([]model.NewsArticle, error) {
	f.calls++
	return f.articles, f.err
}

func (f *fakeSource) TrendingNews(ctx context.Context) ([]model.NewsArticle, error) {
	f.calls++
	return f.articles, f.err
}

func (f *fakeSource) Article(ctx context.Context, id string) (*model.NewsArticle, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	for _, a := range f.articles {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, errors.New("no such article")
}

type fakeCache struct {
	fresh  []model.NewsArticle
	stored []model.NewsArticle
	byID   map[string]model.NewsArticle
}

func (f *fakeCache) CacheArticles(ctx context.Context, feed, category string, articles []model.NewsArticle) error {
	f.stored = append(f.stored, articles...)
	return nil
}

func (f *fakeCache) CachedArticles(ctx context.Context, feed, category string, ttl time.Duration) ([]model.NewsArticle, error) {
	if ttl == 0 {
		return nil, nil
	}
	return f.fresh, nil
}

func (f *fakeCache) CachedArticle(ctx context.Context, id string) (*model.NewsArticle, error) {
	if a, ok := f.byID[id]; ok {
		return &a, nil
	}
	return nil, storage.ErrNotFound
}

func articles(ids ...string) []model.NewsArticle {
	out := make([]model.NewsArticle, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.NewsArticle{ID: id, Title: "headline " + id})
	}
	return out
}

// =============================================================================
// READ-THROUGH TESTS
// =============================================================================

func TestLoadFeed_FreshCacheSkipsNetwork(t *testing.T) {
	src := &fakeSource{articles: articles("net")}
	cache := &fakeCache{fresh: articles("cached")}

	msg := loadFeedCmd(src, cache, storage.FeedMain, "", 20, time.Hour)().(ArticlesLoadedMsg)
	if !msg.FromCache {
		t.Error("fresh cache entries should satisfy the load")
	}
	if src.calls != 0 {
		t.Errorf("network hit %d times despite fresh cache", src.calls)
	}
	if len(msg.Articles) != 1 || msg.Articles[0].ID != "cached" {
		t.Errorf("articles = %+v", msg.Articles)
	}
}

func TestLoadFeed_NetworkPopulatesCache(t *testing.T) {
	src := &fakeSource{articles: articles("a1", "a2")}
	cache := &fakeCache{}

	msg := loadFeedCmd(src, cache, storage.FeedMain, "science", 20, time.Hour)().(ArticlesLoadedMsg)
	if msg.Err != nil {
		t.Fatalf("load: %v", msg.Err)
	}
	if msg.FromCache {
		t.Error("empty cache should fall through to the network")
	}
	if len(cache.stored) != 2 {
		t.Errorf("cache received %d articles, want 2", len(cache.stored))
	}
}

func TestLoadFeed_StaleCacheServesOffline(t *testing.T) {
	src := &fakeSource{err: errors.New("network down")}
	cache := &staleOnlyCache{stale: articles("old")}

	msg := loadFeedCmd(src, cache, storage.FeedMain, "", 20, time.Hour)().(ArticlesLoadedMsg)
	if msg.Err != nil {
		t.Fatalf("stale cache should mask the network failure, got %v", msg.Err)
	}
	if !msg.FromCache || len(msg.Articles) != 1 {
		t.Errorf("msg = %+v", msg)
	}
}

// staleOnlyCache returns entries only for the wide stale window.
type staleOnlyCache struct {
	stale []model.NewsArticle
}

func (s *staleOnlyCache) CacheArticles(ctx context.Context, feed, category string, a []model.NewsArticle) error {
	return nil
}

func (s *staleOnlyCache) CachedArticles(ctx context.Context, feed, category string, ttl time.Duration) ([]model.NewsArticle, error) {
	if ttl > 24*time.Hour {
		return s.stale, nil
	}
	return nil, nil
}

func (s *staleOnlyCache) CachedArticle(ctx context.Context, id string) (*model.NewsArticle, error) {
	return nil, storage.ErrNotFound
}

func TestLoadArticle_FallsBackToCache(t *testing.T) {
	src := &fakeSource{err: errors.New("network down")}
	cache := &fakeCache{byID: map[string]model.NewsArticle{"a1": {ID: "a1", Title: "kept"}}}

	msg := loadArticleCmd(src, cache, "a1")().(ArticleLoadedMsg)
	if msg.Err != nil || msg.Article == nil || msg.Article.Title != "kept" {
		t.Errorf("msg = %+v", msg)
	}
}

// =============================================================================
// MODEL TESTS
// =============================================================================

func TestUpdate_IgnoresStaleTabLoad(t *testing.T) {
	m := New(Options{Theme: styles.NewTheme("dark"), Source: &fakeSource{}, CacheTTL: time.Hour})
	m.feed = storage.FeedTrending

	m, _ = m.Update(ArticlesLoadedMsg{Feed: storage.FeedMain, Articles: articles("late")})
	if len(m.articles) != 0 {
		t.Error("load for an abandoned tab must be dropped")
	}
}

func TestUpdate_CursorClampedOnReload(t *testing.T) {
	m := New(Options{Theme: styles.NewTheme("dark"), Source: &fakeSource{}})
	m.articles = articles("a", "b", "c")
	m.cursor = 2

	m, _ = m.Update(ArticlesLoadedMsg{Feed: storage.FeedMain, Articles: articles("only")})
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want clamped to 0", m.cursor)
	}
}

func TestNextFeed_Cycles(t *testing.T) {
	got := nextFeed(storage.FeedMain)
	if got != storage.FeedPersonalized {
		t.Errorf("after main: %q", got)
	}
	if nextFeed(storage.FeedTrending) != storage.FeedMain {
		t.Error("trending should wrap to main")
	}
	if nextFeed("bogus") != storage.FeedMain {
		t.Error("unknown feed should reset to main")
	}
}
