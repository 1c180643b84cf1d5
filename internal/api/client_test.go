// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/veritas-tui/internal/model"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, TokenFunc(func() string { return "test-token" }))
}

// =============================================================================
// TRANSPORT TESTS
// =============================================================================

func TestClient_SendsBearerToken(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))

	if _, err := c.Me(context.Background()); err != nil {
		t.Fatalf("Me: %v", err)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
}

func TestClient_NotConfigured(t *testing.T) {
	c := NewClient("", nil)
	if _, err := c.Me(context.Background()); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	attempts := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(model.Session{ID: "s1"})
	}))

	sess, err := c.CreateSession(context.Background())
	if err != nil {
		t.Fatalf("CreateSession after retries: %v", err)
	}
	if sess.ID != "s1" || attempts != 3 {
		t.Errorf("sess=%+v attempts=%d", sess, attempts)
	}
}

func TestClient_NoRetryOnAuthFailure(t *testing.T) {
	attempts := 0
	unauthorized := false
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"token expired"}`))
	}))
	c.OnUnauthorized(func() { unauthorized = true })

	_, err := c.Me(context.Background())
	if !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("err = %v, want ErrAuthFailed", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, auth failures must not retry", attempts)
	}
	if !unauthorized {
		t.Error("OnUnauthorized hook should fire on 401")
	}
}

func TestClient_MapsNotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	if _, err := c.Article(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// =============================================================================
// AUTH TESTS
// =============================================================================

func TestClient_Login(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "a@b.c", req["email"])

		json.NewEncoder(w).Encode(LoginResponse{
			AccessToken: "tok-123",
			User:        model.User{ID: "u1", Email: "a@b.c"},
		})
	}))

	resp, err := c.Login(context.Background(), "a@b.c", "hunter2")
	require.NoError(t, err)
	require.Equal(t, "tok-123", resp.AccessToken)
	require.Equal(t, "u1", resp.User.ID)
}

func TestClient_LoginValidation(t *testing.T) {
	c := NewClient("http://unused", nil)
	if _, err := c.Login(context.Background(), "", "pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("empty email: err = %v", err)
	}
	if _, err := c.Login(context.Background(), "a@b.c", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("empty password: err = %v", err)
	}
}

func TestClient_Signup(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/signup", r.URL.Path)
		w.Write([]byte(`{"user":{"id":"u2"},"session":{"access_token":"tok-456"}}`))
	}))

	resp, err := c.Signup(context.Background(), "new@user.io", "pw")
	require.NoError(t, err)
	require.Equal(t, "tok-456", resp.Session.AccessToken)
}

// =============================================================================
// SESSION AND CHAT TESTS
// =============================================================================

func TestClient_SessionMessages(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/sessions/s1/messages", r.URL.Path)
		w.Write([]byte(`[
			{"id":"m1","session_id":"s1","role":"user","content":"hi","created_at":"2025-06-01T12:00:00Z"},
			{"id":"m2","session_id":"s1","role":"assistant","content":"hello"},
			{"id":"","role":"user","content":"dropped"}
		]`))
	}))

	turns, err := c.SessionMessages(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, turns, 2, "rows without ids are skipped")
	require.Equal(t, model.RoleUser, turns[0].Role)
	require.Equal(t, "hello", turns[1].Content)
}

func TestClient_SendTurn(t *testing.T) {
	var got chatRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/s1/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{}`))
	}))

	history := []model.Turn{model.NewUserTurn("s1", "earlier")}
	err := c.SendTurn(context.Background(), "s1", "Is the moon made of cheese?", "fact-check", history)
	require.NoError(t, err)
	require.Equal(t, "s1", got.SessionID)
	require.Equal(t, "Is the moon made of cheese?", got.UserQuery)
	require.Equal(t, "fact-check", got.Mode)
	require.Len(t, got.Context, 1)
}

// =============================================================================
// NEWS TESTS
// =============================================================================

func TestClient_NewsQueryEncoding(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"articles":[{"id":"a1","title":"headline"}],"total":1}`))
	}))

	articles, err := c.News(context.Background(), NewsQuery{Category: "science", Page: 2, Limit: 10})
	require.NoError(t, err)
	require.Len(t, articles, 1)
	require.Equal(t, "category=science&limit=10&page=2", gotQuery)
}

func TestClient_TrendingNews(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/news/trending", r.URL.Path)
		w.Write([]byte(`{"articles":[],"total":0}`))
	}))
	_, err := c.TrendingNews(context.Background())
	require.NoError(t, err)
}
