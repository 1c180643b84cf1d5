// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management
// for veritas.
//
// Supports both TOML and JSON configuration formats, with sensible
// defaults, environment variable overrides, validation, atomic saves,
// and live reload when the file changes on disk.
//
// Configuration file locations (in order of precedence):
//   - ~/.veritas/config.toml
//   - ~/.veritas/config.json
//   - Built-in defaults
//
// Environment overrides (applied last): VERITAS_API_URL,
// VERITAS_REALTIME_URL, VERITAS_REALTIME_KEY, VERITAS_MODE,
// VERITAS_THEME.
package config
