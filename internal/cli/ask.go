// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question command.
//
// Handles "veritas ask": opens a session, sends the question in the
// selected mode, waits for the streamed reply on the realtime channel and
// prints it with the verdict or summary card.

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	core "github.com/jeranaias/veritas-tui/internal/chat"
	"github.com/jeranaias/veritas-tui/internal/config"
	"github.com/jeranaias/veritas-tui/internal/creds"
	"github.com/jeranaias/veritas-tui/internal/model"
	"github.com/jeranaias/veritas-tui/internal/realtime"
	"github.com/jeranaias/veritas-tui/internal/session"
	"github.com/jeranaias/veritas-tui/internal/storage"
	"github.com/jeranaias/veritas-tui/internal/ui/styles"
)

// Deps bundles the wired services the CLI commands run against.
type Deps struct {
	Auth       AuthClient
	Sessions   *session.Store
	Controller *core.Controller
	Ledger     *model.Ledger
	Manager    *realtime.Manager
	Creds      *creds.Store
	Store      *storage.Store // may be nil when local storage failed to open
	Config     *config.Config
}

// RunAsk executes one question end to end and prints the reply.
func RunAsk(deps *Deps, opts Options) error {
	if opts.Mode != "" {
		deps.Controller.SetMode(core.Mode(opts.Mode))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := deps.Sessions.CreateSession(ctx); err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer deps.Sessions.ClearSession()

	_, err := deps.Controller.Send(ctx, deps.Sessions.ID(), opts.Query)
	if err != nil {
		// The apology turn is already in the ledger; surface it and the
		// underlying cause.
		fmt.Println(model.ErrorTurnContent)
		return err
	}

	reply := awaitReply(deps)
	printTurn(reply)
	return nil
}

// awaitReply folds realtime chunks until the assistant turn finalizes.
// Silence past the configured idle timeout yields the synthetic apology
// turn, exactly as the TUI sweep would.
func awaitReply(deps *Deps) model.Turn {
	timeout := time.Duration(deps.Config.Chat.StreamIdleTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	state := core.State{}
	idle := time.NewTimer(timeout)
	defer idle.Stop()

	for {
		select {
		case chunk, ok := <-deps.Manager.Events():
			if !ok {
				return model.NewErrorTurn(deps.Sessions.ID())
			}
			// Chunks buffered before a session switch carry the old id;
			// they must not feed this session's reply.
			if chunk.SessionID != deps.Sessions.ID() {
				continue
			}
			if !idle.Stop() {
				<-idle.C
			}
			idle.Reset(timeout)

			var effects []core.Effect
			state, effects = core.Apply(state, chunk, time.Now())
			for _, eff := range effects {
				if eff.Kind == core.EffectAppendTurn {
					deps.Ledger.Append(eff.Turn)
					return eff.Turn
				}
			}

		case <-idle.C:
			var effects []core.Effect
			state, effects = core.SweepIdle(state, time.Now(), timeout)
			for _, eff := range effects {
				if eff.Kind == core.EffectAppendTurn {
					deps.Ledger.Append(eff.Turn)
					return eff.Turn
				}
			}
			apology := model.NewErrorTurn(deps.Sessions.ID())
			deps.Ledger.Append(apology)
			return apology
		}
	}
}

// printTurn writes one finalized turn to stdout, markdown-rendered when
// stdout is a terminal.
func printTurn(turn model.Turn) {
	fmt.Println(renderContent(turn.Content))

	if turn.FactCheckResult != nil {
		printVerdict(turn.FactCheckResult)
	}
	if turn.NewsSummary != nil {
		printSummary(turn.NewsSummary)
	}
}

// renderContent applies glamour when colors are on, raw text otherwise.
func renderContent(content string) string {
	if !ColorsEnabled() {
		return content
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(GetTerminalWidth()-2),
	)
	if err != nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}

// printVerdict writes the fact-check outcome as plain, parseable lines.
func printVerdict(fc *model.FactCheckResult) {
	label := strings.ToUpper(fc.Verdict.DisplayName())
	line := fmt.Sprintf("%s (%.0f%% confidence)", label, fc.Confidence*100)
	switch fc.Verdict {
	case model.VerdictTrue:
		fmt.Println(styles.RenderSuccess(line))
	case model.VerdictFalse:
		fmt.Println(styles.RenderError(line))
	case model.VerdictMisleading:
		fmt.Println(styles.RenderWarning(line))
	default:
		fmt.Println(styles.RenderInfo(line))
	}
	if fc.Explanation != "" {
		fmt.Println(fc.Explanation)
	}
	for _, src := range fc.Sources {
		name := src.Name
		if name == "" {
			name = src.URL
		}
		fmt.Fprintf(os.Stdout, "  - %s\n", name)
	}
}

// printSummary writes the structured summary lines.
func printSummary(ns *model.NewsSummary) {
	if ns.OriginalArticle.Title != "" {
		fmt.Println("Summary of: " + ns.OriginalArticle.Title)
	}
	for _, point := range ns.KeyPoints {
		fmt.Println("  - " + point)
	}
	if ns.Sentiment != "" {
		fmt.Println("  sentiment: " + string(ns.Sentiment))
	}
}
