// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDefaultsToTUI(t *testing.T) {
	opts, err := Parse(nil)
	require.NoError(t, err)
	require.Equal(t, CmdTUI, opts.Command)
}

func TestParseAsk(t *testing.T) {
	opts, err := Parse([]string{"ask", "is", "water", "wet"})
	require.NoError(t, err)
	require.Equal(t, CmdAsk, opts.Command)
	require.Equal(t, "is water wet", opts.Query)
}

func TestParseAskWithMode(t *testing.T) {
	opts, err := Parse([]string{"ask", "-m", "summarize", "climate summit"})
	require.NoError(t, err)
	require.Equal(t, "summarize", opts.Mode)
	require.Equal(t, "climate summit", opts.Query)

	opts, err = Parse([]string{"ask", "--mode=general", "hello"})
	require.NoError(t, err)
	require.Equal(t, "general", opts.Mode)
}

func TestParseAskRequiresQuestion(t *testing.T) {
	_, err := Parse([]string{"ask"})
	require.Error(t, err)
}

func TestParseRejectsUnknownMode(t *testing.T) {
	_, err := Parse([]string{"ask", "-m", "vibes", "question"})
	require.Error(t, err)
}

func TestParseFeed(t *testing.T) {
	opts, err := Parse([]string{"feed", "trending", "-c", "science"})
	require.NoError(t, err)
	require.Equal(t, CmdFeed, opts.Command)
	require.Equal(t, "trending", opts.Feed)
	require.Equal(t, "science", opts.Category)
}

func TestParseFeedDefaultsToMain(t *testing.T) {
	opts, err := Parse([]string{"feed"})
	require.NoError(t, err)
	require.Equal(t, "main", opts.Feed)
}

func TestParseFeedRejectsUnknownFeed(t *testing.T) {
	_, err := Parse([]string{"feed", "gossip"})
	require.Error(t, err)
}

func TestParseChatPlain(t *testing.T) {
	opts, err := Parse([]string{"chat", "--plain"})
	require.NoError(t, err)
	require.Equal(t, CmdChat, opts.Command)
	require.True(t, opts.Plain)
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse([]string{"frobnicate"})
	require.Error(t, err)
}

func TestParseUnknownFlag(t *testing.T) {
	_, err := Parse([]string{"ask", "--loud", "question"})
	require.Error(t, err)
}

func TestCompleteCommand(t *testing.T) {
	require.Equal(t, []string{"/mode"}, completeCommand("/mo"))
	require.Len(t, completeCommand("/"), len(replCommands))
	require.Nil(t, completeCommand("hello"))
}

func TestFeedKeyFor(t *testing.T) {
	require.Equal(t, "personalized", feedKeyFor("personalized"))
	require.Equal(t, "trending", feedKeyFor("trending"))
	require.Equal(t, "main", feedKeyFor("main"))
	require.Equal(t, "main", feedKeyFor(""))
}

func TestRelativeAge(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.Equal(t, "just now", relativeAge(now.Add(-10*time.Second), now))
	require.Equal(t, "5m ago", relativeAge(now.Add(-5*time.Minute), now))
	require.Equal(t, "3h ago", relativeAge(now.Add(-3*time.Hour), now))
	require.Equal(t, "2d ago", relativeAge(now.Add(-48*time.Hour), now))
}
