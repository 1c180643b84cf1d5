// veritas TUI - a terminal client for news fact checking.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/veritas-tui/internal/api"
	corechat "github.com/jeranaias/veritas-tui/internal/chat"
	"github.com/jeranaias/veritas-tui/internal/cli"
	"github.com/jeranaias/veritas-tui/internal/config"
	"github.com/jeranaias/veritas-tui/internal/creds"
	"github.com/jeranaias/veritas-tui/internal/model"
	"github.com/jeranaias/veritas-tui/internal/realtime"
	"github.com/jeranaias/veritas-tui/internal/session"
	"github.com/jeranaias/veritas-tui/internal/storage"
	"github.com/jeranaias/veritas-tui/internal/ui"
	uichat "github.com/jeranaias/veritas-tui/internal/ui/chat"
	"github.com/jeranaias/veritas-tui/internal/ui/feed"
	"github.com/jeranaias/veritas-tui/internal/ui/login"
	"github.com/jeranaias/veritas-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
	api.Version = Version
}

func main() {
	opts, err := cli.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cli.PrintUsage()
		os.Exit(2)
	}

	switch opts.Command {
	case cli.CmdVersion:
		cli.PrintVersion()
		return
	case cli.CmdHelp:
		cli.PrintUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config error, using defaults: %v\n", err)
		cfg = config.Default()
	}
	config.SetGlobal(cfg)

	credsDir, err := config.ConfigDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	credStore := creds.NewStore(credsDir)

	// Internal logging goes to a file; stderr would tear up the TUI.
	if err := config.EnsureConfigDir(); err == nil {
		logPath := filepath.Join(credsDir, "veritas.log")
		if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600); err == nil {
			log.SetOutput(f)
			defer f.Close()
		}
	}

	apiClient := api.NewClient(cfg.API.BaseURL, api.TokenFunc(func() string {
		tok, err := credStore.Token()
		if err != nil {
			return ""
		}
		return tok
	})).WithMaxRetries(cfg.API.MaxRetries)

	switch opts.Command {
	case cli.CmdLogin:
		exitOnError(cli.RunLogin(apiClient, credStore))
		return
	case cli.CmdLogout:
		exitOnError(cli.RunLogout(apiClient, credStore))
		return
	}

	rtClient := realtime.NewClient(cfg.Realtime.URL, cfg.Realtime.Key).
		WithHeartbeat(time.Duration(cfg.Realtime.HeartbeatSecs) * time.Second)
	manager := realtime.NewManager(rtClient)
	defer manager.Shutdown()

	ledger := model.NewLedger()
	controller := corechat.NewController(ledger, apiClient)
	controller.SetMode(corechat.Mode(cfg.Chat.DefaultMode))
	sessions := session.NewStore(apiClient, apiClient, manager, ledger)

	var store *storage.Store
	if dbPath, pathErr := storage.DefaultPath(); pathErr == nil {
		var openErr error
		store, openErr = storage.Open(dbPath)
		if openErr != nil {
			// The app works without local storage; caching and archives
			// are just unavailable.
			fmt.Fprintf(os.Stderr, "Warning: local storage unavailable: %v\n", openErr)
			store = nil
		} else {
			defer store.Close()
		}
	}
	if store != nil {
		sessions.WithArchiver(store)
	}

	deps := &cli.Deps{
		Auth:       apiClient,
		Sessions:   sessions,
		Controller: controller,
		Ledger:     ledger,
		Manager:    manager,
		Creds:      credStore,
		Store:      store,
		Config:     cfg,
	}

	switch opts.Command {
	case cli.CmdAsk:
		exitOnError(cli.RunAsk(deps, opts))
	case cli.CmdChat:
		exitOnError(cli.RunChat(deps, opts))
	case cli.CmdFeed:
		exitOnError(cli.RunFeed(deps, apiClient, opts))
	default:
		runTUI(cfg, apiClient, credStore, deps, opts)
	}
}

// runTUI wires the screens and runs the Bubble Tea program.
func runTUI(cfg *config.Config, apiClient *api.Client, credStore *creds.Store, deps *cli.Deps, opts cli.Options) {
	theme := styles.NewTheme(cfg.UI.Theme)

	if opts.Mode != "" {
		deps.Controller.SetMode(corechat.Mode(opts.Mode))
	}

	authenticated := credStore.HasToken()
	var user *model.User
	if authenticated {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		user, _ = apiClient.Me(ctx)
		cancel()
	}

	chatModel := uichat.New(uichat.Options{
		Theme:       theme,
		Ledger:      deps.Ledger,
		Controller:  deps.Controller,
		Sessions:    deps.Sessions,
		Manager:     deps.Manager,
		IdleTimeout: time.Duration(cfg.Chat.StreamIdleTimeoutSecs) * time.Second,
		Version:     Version,
	})

	var articleCache feed.Cache
	if deps.Store != nil && cfg.News.CacheEnabled {
		articleCache = deps.Store
	}
	feedModel := feed.New(feed.Options{
		Theme:    theme,
		Source:   apiClient,
		Cache:    articleCache,
		Category: cfg.News.DefaultCategory,
		PageSize: cfg.News.PageSize,
		CacheTTL: time.Duration(cfg.News.CacheTTLHours) * time.Hour,
	})

	app := ui.NewApp(ui.Options{
		Theme:         theme,
		Login:         login.New(theme, apiClient),
		Chat:          chatModel,
		Feed:          feedModel,
		Creds:         credStore,
		PrefsSaver:    apiClient,
		Authenticated: authenticated,
		User:          user,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())

	// Live-reload config edits; consumers read config.Global().
	if watcher, err := config.Watch(nil); err == nil {
		defer watcher.Close()
	}

	// A 401 means the stored token is dead: clear it and drop the UI back
	// to the login screen.
	apiClient.OnUnauthorized(func() {
		_ = credStore.Clear()
		p.Send(ui.SessionExpiredMsg{})
	})

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running veritas: %v\n", err)
		os.Exit(1)
	}
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
