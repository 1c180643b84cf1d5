// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jeranaias/veritas-tui/internal/model"
)

// Feed names used as cache partitions.
const (
	FeedMain         = "main"
	FeedPersonalized = "personalized"
	FeedTrending     = "trending"
)

// =============================================================================
// ARTICLE CACHE
// =============================================================================

// CacheArticles stores one feed page, replacing any previous entries for
// the same article ids.
func (s *Store) CacheArticles(ctx context.Context, feed, category string, articles []model.NewsArticle) error {
	if s.db == nil {
		return ErrClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cache write: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO articles (id, category, feed, payload, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			category = excluded.category,
			feed = excluded.feed,
			payload = excluded.payload,
			fetched_at = excluded.fetched_at`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range articles {
		if a.ID == "" {
			continue
		}
		payload, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("encode article %s: %w", a.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, a.ID, category, feed, string(payload), now); err != nil {
			return fmt.Errorf("cache article %s: %w", a.ID, err)
		}
	}
	return tx.Commit()
}

// CachedArticles returns cached entries for a feed page that are newer
// than ttl, most recently fetched first. An empty result is not an error;
// the caller falls through to the network.
func (s *Store) CachedArticles(ctx context.Context, feed, category string, ttl time.Duration) ([]model.NewsArticle, error) {
	if s.db == nil {
		return nil, ErrClosed
	}

	cutoff := time.Now().Add(-ttl).Unix()
	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM articles
		WHERE feed = ? AND category = ? AND fetched_at >= ?
		ORDER BY fetched_at DESC`,
		feed, category, cutoff)
	if err != nil {
		return nil, fmt.Errorf("query article cache: %w", err)
	}
	defer rows.Close()

	var out []model.NewsArticle
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var a model.NewsArticle
		if err := json.Unmarshal([]byte(payload), &a); err != nil {
			// A mangled row is dropped, not fatal.
			continue
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CachedArticle returns one cached article by id regardless of age, for
// the detail view when the network is down.
func (s *Store) CachedArticle(ctx context.Context, id string) (*model.NewsArticle, error) {
	if s.db == nil {
		return nil, ErrClosed
	}

	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM articles WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var a model.NewsArticle
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		return nil, fmt.Errorf("decode cached article: %w", err)
	}
	return &a, nil
}

// PruneArticles removes cache entries older than maxAge and returns the
// number removed.
func (s *Store) PruneArticles(ctx context.Context, maxAge time.Duration) (int64, error) {
	if s.db == nil {
		return 0, ErrClosed
	}
	cutoff := time.Now().Add(-maxAge).Unix()
	res, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune article cache: %w", err)
	}
	return res.RowsAffected()
}
