// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the REST client for the fact-checking backend.
//
// One Client covers all endpoint groups: auth (login, signup, logout,
// profile, preferences), sessions (create, transcript fetch), chat (turn
// submission), and the news feed. Transport concerns are shared: pooled
// HTTP client with a TLS 1.2 floor, client-side rate limiting, retry with
// exponential backoff on rate-limit and 5xx responses, response size
// capping, and sentinel error mapping.
//
// Bearer tokens come from a TokenSource so the client never owns
// credentials; a 401 fires the OnUnauthorized hook exactly where the app
// can clear stored credentials and return to the login form.
package api
