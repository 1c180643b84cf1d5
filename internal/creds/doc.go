// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package creds stores the auth token encrypted at rest.
//
// The token lives under the fixed storage key "auth-token" in the config
// directory, JSON-encoded and sealed with XChaCha20-Poly1305. The cipher
// key is derived (PBKDF2-SHA-256) from a random per-device secret kept
// alongside with mode 0600.
package creds
