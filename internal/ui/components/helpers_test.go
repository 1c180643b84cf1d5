// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"testing"
	"time"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "short", 10, "short"},
		{"exact", "12345", 5, "12345"},
		{"cut", "a very long headline", 10, "a very..."},
		{"zero width", "anything", 0, ""},
		{"tiny width", "abcdef", 2, "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.in, tt.width); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}

func TestTruncate_WideRunes(t *testing.T) {
	// Each CJK rune occupies two cells; the result must respect cell
	// width, not rune count.
	got := truncate("日本語のニュース見出し", 8)
	if len([]rune(got)) >= 10 {
		t.Errorf("wide-rune headline not truncated: %q", got)
	}
}

func TestFmtPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0%"},
		{0.994, "99%"},
		{0.995, "100%"},
		{1, "100%"},
		{-0.5, "0%"},
		{1.5, "100%"},
	}
	for _, tt := range tests {
		if got := fmtPercent(tt.in); got != tt.want {
			t.Errorf("fmtPercent(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFmtRelative(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{30 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{49 * time.Hour, "2d ago"},
	}
	for _, tt := range tests {
		if got := fmtRelative(now.Add(-tt.ago), now); got != tt.want {
			t.Errorf("fmtRelative(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
	if got := fmtRelative(time.Time{}, now); got != "" {
		t.Errorf("zero time = %q, want empty", got)
	}
}
