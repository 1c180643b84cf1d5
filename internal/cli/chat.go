// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Line-oriented chat REPL for terminals without TUI support.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"

	core "github.com/jeranaias/veritas-tui/internal/chat"
	"github.com/jeranaias/veritas-tui/internal/config"
	"github.com/jeranaias/veritas-tui/internal/ui/styles"
)

const historyFile = "history"

// replCommands drive tab completion in the REPL.
var replCommands = []string{"/mode", "/new", "/help", "/quit"}

// RunChat runs the interactive line REPL until /quit or EOF.
func RunChat(deps *Deps, opts Options) error {
	if !IsTTY() {
		return ErrNoTTY
	}
	if opts.Mode != "" {
		deps.Controller.SetMode(core.Mode(opts.Mode))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := deps.Sessions.CreateSession(ctx); err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer deps.Sessions.ClearSession()

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(completeCommand)
	loadHistory(line)
	defer saveHistory(line)

	fmt.Printf("veritas %s - mode: %s (/help for commands)\n",
		Version, deps.Controller.Mode().Label())

	for {
		input, err := line.Prompt("> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if quit := runCommand(ctx, deps, input); quit {
				return nil
			}
			continue
		}

		sendCtx, sendCancel := context.WithTimeout(ctx, 2*time.Minute)
		_, err = deps.Controller.Send(sendCtx, deps.Sessions.ID(), input)
		if err != nil {
			sendCancel()
			fmt.Println(styles.RenderError(oneLine(err)))
			continue
		}

		reply := awaitReply(deps)
		sendCancel()
		printTurn(reply)
	}
}

// runCommand handles one slash command; the bool result requests exit.
func runCommand(ctx context.Context, deps *Deps, input string) bool {
	fields := strings.Fields(input)
	switch fields[0] {
	case "/quit", "/exit":
		return true

	case "/new":
		if _, err := deps.Sessions.CreateSession(ctx); err != nil {
			fmt.Println(styles.RenderError("new session: " + err.Error()))
			return false
		}
		fmt.Println(styles.RenderInfo("started a fresh conversation"))

	case "/mode":
		if len(fields) < 2 {
			fmt.Printf("mode: %s (fact-check, summarize, general)\n",
				deps.Controller.Mode())
			return false
		}
		m := core.Mode(fields[1])
		if !m.Valid() {
			fmt.Println(styles.RenderError("unknown mode " + fields[1]))
			return false
		}
		deps.Controller.SetMode(m)
		fmt.Println(styles.RenderInfo("mode: " + m.Label()))

	case "/help":
		fmt.Print(`Commands:
  /mode [name]  Show or switch the chat mode
  /new          Start a fresh conversation
  /quit         Exit
`)

	default:
		fmt.Println(styles.RenderError("unknown command " + fields[0] + " (/help)"))
	}
	return false
}

// completeCommand offers slash-command completions.
func completeCommand(prefix string) []string {
	if !strings.HasPrefix(prefix, "/") {
		return nil
	}
	var out []string
	for _, cmd := range replCommands {
		if strings.HasPrefix(cmd, prefix) {
			out = append(out, cmd)
		}
	}
	return out
}

// oneLine keeps REPL error output on a single line.
func oneLine(err error) string {
	return strings.ReplaceAll(err.Error(), "\n", " ")
}

// historyPath resolves ~/.veritas/history, or "" when no config dir exists.
func historyPath() string {
	dir, err := config.ConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, historyFile)
}

func loadHistory(line *liner.State) {
	path := historyPath()
	if path == "" {
		return
	}
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = line.ReadHistory(f)
}

func saveHistory(line *liner.State) {
	path := historyPath()
	if path == "" {
		return
	}
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = line.WriteHistory(f)
}
