// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jeranaias/veritas-tui/internal/model"
)

// NewsQuery narrows a feed request. Zero values are omitted from the
// query string.
type NewsQuery struct {
	Category string
	Search   string
	Page     int
	Limit    int
}

func (q NewsQuery) encode() string {
	v := url.Values{}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// newsResponse is the feed envelope.
type newsResponse struct {
	Articles []model.NewsArticle `json:"articles"`
	Total    int                 `json:"total"`
}

// News fetches the article feed with optional filters.
func (c *Client) News(ctx context.Context, q NewsQuery) ([]model.NewsArticle, error) {
	var out newsResponse
	if err := c.do(ctx, http.MethodGet, "/news"+q.encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.Articles, nil
}

// PersonalizedNews fetches the preference-filtered feed for the current
// user.
func (c *Client) PersonalizedNews(ctx context.Context, q NewsQuery) ([]model.NewsArticle, error) {
	var out newsResponse
	if err := c.do(ctx, http.MethodGet, "/news/personalized"+q.encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.Articles, nil
}

// TrendingNews fetches the trending articles list.
func (c *Client) TrendingNews(ctx context.Context) ([]model.NewsArticle, error) {
	var out newsResponse
	if err := c.do(ctx, http.MethodGet, "/news/trending", nil, &out); err != nil {
		return nil, err
	}
	return out.Articles, nil
}

// Article fetches a single article by id.
func (c *Client) Article(ctx context.Context, id string) (*model.NewsArticle, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	var out model.NewsArticle
	if err := c.do(ctx, http.MethodGet, "/news/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
