// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Argument parsing and command selection for veritas.

package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdLogin
	CmdLogout
	CmdFeed
	CmdVersion
	CmdHelp
)

// Options is the parsed command line.
type Options struct {
	Command  Command
	Query    string // ask: the question
	Mode     string // ask/chat: fact-check | summarize | general
	Plain    bool   // chat: line REPL instead of the TUI
	Feed     string // feed: main | personalized | trending
	Category string // feed: category filter
}

// Parse interprets the argument list (without the program name).
func Parse(args []string) (Options, error) {
	opts := Options{Command: CmdTUI, Feed: "main"}
	if len(args) == 0 {
		return opts, nil
	}

	switch args[0] {
	case "ask":
		opts.Command = CmdAsk
		rest, err := parseFlags(&opts, args[1:])
		if err != nil {
			return opts, err
		}
		if len(rest) == 0 {
			return opts, fmt.Errorf("ask: a question is required")
		}
		opts.Query = strings.Join(rest, " ")
		return opts, nil

	case "chat":
		opts.Command = CmdChat
		_, err := parseFlags(&opts, args[1:])
		return opts, err

	case "login":
		opts.Command = CmdLogin
		return opts, nil

	case "logout":
		opts.Command = CmdLogout
		return opts, nil

	case "feed":
		opts.Command = CmdFeed
		rest, err := parseFlags(&opts, args[1:])
		if err != nil {
			return opts, err
		}
		if len(rest) > 0 {
			opts.Feed = rest[0]
		}
		switch opts.Feed {
		case "main", "personalized", "trending":
		default:
			return opts, fmt.Errorf("feed: unknown feed %q", opts.Feed)
		}
		return opts, nil

	case "version", "--version", "-V":
		opts.Command = CmdVersion
		return opts, nil

	case "help", "--help", "-h":
		opts.Command = CmdHelp
		return opts, nil
	}

	return opts, fmt.Errorf("unknown command %q (try 'veritas help')", args[0])
}

// parseFlags consumes shared flags and returns positional leftovers.
func parseFlags(opts *Options, args []string) ([]string, error) {
	var rest []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--plain":
			opts.Plain = true
		case arg == "--mode" || arg == "-m":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires a value", arg)
			}
			i++
			opts.Mode = args[i]
		case strings.HasPrefix(arg, "--mode="):
			opts.Mode = strings.TrimPrefix(arg, "--mode=")
		case arg == "--category" || arg == "-c":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires a value", arg)
			}
			i++
			opts.Category = args[i]
		case strings.HasPrefix(arg, "--category="):
			opts.Category = strings.TrimPrefix(arg, "--category=")
		case strings.HasPrefix(arg, "-"):
			return nil, fmt.Errorf("unknown flag %q", arg)
		default:
			rest = append(rest, arg)
		}
	}

	if opts.Mode != "" {
		switch opts.Mode {
		case "fact-check", "summarize", "general":
		default:
			return nil, fmt.Errorf("unknown mode %q", opts.Mode)
		}
	}
	return rest, nil
}

// PrintVersion writes the build identity to stdout.
func PrintVersion() {
	fmt.Printf("veritas %s (%s, built %s)\n", Version, GitCommit, BuildDate)
}

// PrintUsage writes command help to stderr.
func PrintUsage() {
	fmt.Fprint(os.Stderr, `veritas - news fact checking from your terminal

Usage:
  veritas                 Launch the TUI
  veritas ask [question]  Ask one question and print the answer
  veritas chat --plain    Line-oriented chat without the TUI
  veritas feed [name]     Print a news feed (main, personalized, trending)
  veritas login           Sign in and store the token
  veritas logout          Drop the stored token
  veritas version         Print version information

Flags:
  -m, --mode MODE         fact-check (default), summarize, or general
  -c, --category NAME     Feed category filter
      --plain             Plain terminal mode for chat

Examples:
  veritas ask "Is the moon made of cheese?"
  veritas ask -m summarize "Summarize today's climate summit coverage"
  veritas feed trending
`)
}
