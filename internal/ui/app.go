// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui composes the veritas screens: login, chat, the news feed and
// the preferences editor. The App model owns which screen is active and
// routes messages to it.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/veritas-tui/internal/creds"
	"github.com/jeranaias/veritas-tui/internal/model"
	"github.com/jeranaias/veritas-tui/internal/ui/chat"
	"github.com/jeranaias/veritas-tui/internal/ui/feed"
	"github.com/jeranaias/veritas-tui/internal/ui/login"
	"github.com/jeranaias/veritas-tui/internal/ui/prefs"
	"github.com/jeranaias/veritas-tui/internal/ui/styles"
)

// screen identifies the active view.
type screen int

const (
	screenLogin screen = iota
	screenChat
	screenFeed
	screenPrefs
)

// SessionExpiredMsg is sent from outside the program (the API client's
// unauthorized hook) when the backend rejects the stored token. The app
// drops back to the login screen; the credential store is already cleared.
type SessionExpiredMsg struct{}

// PrefsSaver persists news preferences; satisfied by the API client.
type PrefsSaver = prefs.Saver

// =============================================================================
// APP ROOT
// =============================================================================

// App is the root Bubble Tea model.
type App struct {
	theme *styles.Theme

	screen screen
	login  login.Model
	chat   chat.Model
	feed   feed.Model
	prefs  prefs.Model

	creds      *creds.Store
	prefsSaver PrefsSaver
	user       *model.User

	width  int
	height int
}

// Options carries the wired screens and stores.
type Options struct {
	Theme      *styles.Theme
	Login      login.Model
	Chat       chat.Model
	Feed       feed.Model
	Creds      *creds.Store
	PrefsSaver PrefsSaver

	// Authenticated starts directly on the chat screen when a stored
	// token exists.
	Authenticated bool
	User          *model.User
}

// NewApp creates the root model.
func NewApp(opts Options) App {
	app := App{
		theme:      opts.Theme,
		login:      opts.Login,
		chat:       opts.Chat,
		feed:       opts.Feed,
		creds:      opts.Creds,
		prefsSaver: opts.PrefsSaver,
		user:       opts.User,
	}
	if opts.Authenticated {
		app.screen = screenChat
	}
	return app
}

// Init starts the active screen.
func (a App) Init() tea.Cmd {
	if a.screen == screenChat {
		return a.chat.Init()
	}
	return a.login.Init()
}

// Update routes one message.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Every screen gets the new size so switches render correctly.
		var cmds []tea.Cmd
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		cmds = append(cmds, cmd)
		a.chat, cmd = a.chat.Update(msg)
		cmds = append(cmds, cmd)
		a.feed, cmd = a.feed.Update(msg)
		cmds = append(cmds, cmd)
		a.prefs, cmd = a.prefs.Update(msg)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)

	case SessionExpiredMsg:
		a.screen = screenLogin
		return a, a.login.Init()

	case login.DoneMsg:
		if msg.Err != nil || msg.Token == "" {
			var cmd tea.Cmd
			a.login, cmd = a.login.Update(msg)
			return a, cmd
		}
		if a.creds != nil {
			// A failed write still leaves this process authenticated;
			// the next start just asks again.
			_ = a.creds.SaveToken(msg.Token)
		}
		a.user = msg.User
		a.screen = screenChat
		return a, a.chat.Init()

	case chat.OpenFeedMsg:
		a.screen = screenFeed
		return a, a.feed.Init()

	case feed.CloseMsg:
		a.screen = screenChat
		return a, nil

	case prefs.CloseMsg:
		a.screen = screenChat
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+p" && (a.screen == screenChat || a.screen == screenFeed) {
			var current *model.NewsPreferences
			if a.user != nil {
				current = a.user.Preferences
			}
			a.prefs = prefs.New(a.theme, a.prefsSaver, current)
			a.screen = screenPrefs
			return a, a.prefs.Init()
		}
	}

	return a.routeToActive(msg)
}

// routeToActive forwards a message to the current screen only.
func (a App) routeToActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.screen {
	case screenLogin:
		a.login, cmd = a.login.Update(msg)
	case screenChat:
		a.chat, cmd = a.chat.Update(msg)
	case screenFeed:
		a.feed, cmd = a.feed.Update(msg)
	case screenPrefs:
		a.prefs, cmd = a.prefs.Update(msg)
	}
	return a, cmd
}

// View renders the active screen.
func (a App) View() string {
	switch a.screen {
	case screenLogin:
		return a.login.View()
	case screenFeed:
		return a.feed.View()
	case screenPrefs:
		return a.prefs.View()
	default:
		return a.chat.View()
	}
}
