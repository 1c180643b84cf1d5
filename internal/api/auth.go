// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jeranaias/veritas-tui/internal/model"
)

// ErrInvalidCredentials indicates an empty email or password before any
// request is made.
var ErrInvalidCredentials = errors.New("email and password are required")

// LoginResponse is the payload returned by login.
type LoginResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	User        model.User `json:"user"`
}

// SignupResponse is the payload returned by signup. The token is nested
// under session, unlike login.
type SignupResponse struct {
	User    model.User `json:"user"`
	Session struct {
		AccessToken string `json:"access_token"`
	} `json:"session"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates with email and password and returns the access token
// and user profile. The caller is responsible for persisting the token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var out LoginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Signup creates a new account and returns the user plus a fresh session
// token.
func (c *Client) Signup(ctx context.Context, email, password string) (*SignupResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var out SignupResponse
	err := c.do(ctx, http.MethodPost, "/auth/signup", loginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout invalidates the current server-side session. A failure here is
// not fatal; the caller clears local credentials regardless.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// Me fetches the current user's profile and preferences.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePreferences replaces the user's news preferences.
func (c *Client) UpdatePreferences(ctx context.Context, prefs model.NewsPreferences) error {
	return c.do(ctx, http.MethodPut, "/auth/preferences", prefs, nil)
}
