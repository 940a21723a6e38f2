package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/fridgechef/internal/conversation"
	"github.com/hammamikhairi/fridgechef/internal/display"
	"github.com/hammamikhairi/fridgechef/internal/domain"
	"github.com/hammamikhairi/fridgechef/internal/engine"
	"github.com/hammamikhairi/fridgechef/internal/logger"
	"github.com/hammamikhairi/fridgechef/internal/markup"
)

func runInteractive(cmd *cobra.Command) error {
	d, err := setup(cmd)
	if err != nil {
		return err
	}
	defer d.close()

	renderer, err := display.NewRenderer()
	if err != nil {
		return err
	}

	// Cancelled when the UI quits.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	ui := display.NewUI()
	eng := d.engine()
	app := &cliApp{
		engine:   eng,
		parser:   conversation.NewKeywordParser(d.log),
		ui:       ui,
		renderer: renderer,
		log:      d.log,
	}

	fmt.Println(display.RenderBanner(display.StartupNotes(d.cfg.UseOffline())...))

	go func() {
		ui.WaitReady()
		go app.watch(ctx)
		app.run(ctx)
		ui.Quit()
	}()

	// Bubble Tea owns the terminal and blocks until quit.
	if err := ui.Run(); err != nil {
		d.log.Error("display: %v", err)
	}
	cancel()
	eng.CloseDetail()
	return nil
}

type cliApp struct {
	engine   *engine.Engine
	parser   domain.IntentParser
	ui       *display.UI
	renderer *display.Renderer
	log      *logger.Logger
}

func (a *cliApp) run(ctx context.Context) {
	uiCh := a.ui.InputChan()
	for {
		var input string
		var ok bool

		select {
		case <-ctx.Done():
			return
		case input, ok = <-uiCh:
			if !ok {
				return
			}
		}

		intent, err := a.parser.Parse(ctx, input)
		if err != nil {
			a.log.Error("parsing input: %v", err)
			continue
		}

		a.log.Debug("intent: %s (payload=%q)", intent.Type, intent.Payload)
		if !a.handleIntent(ctx, intent) {
			return
		}
	}
}

// handleIntent acts on one intent. It returns false when the user quits.
// Lookups run in their own goroutine so the prompt stays responsive; the
// watcher prints their outcome.
func (a *cliApp) handleIntent(ctx context.Context, intent *domain.Intent) bool {
	switch intent.Type {
	case domain.IntentQuit:
		a.ui.PrintChat("Bye.")
		return false
	case domain.IntentHelp:
		a.ui.PrintBlock(display.Help())
	case domain.IntentSearch:
		go a.engine.Search(ctx, intent.Payload)
	case domain.IntentSelect:
		a.selectRecipe(ctx, intent.Payload)
	case domain.IntentToggleNarration, domain.IntentStopNarration:
		a.narrate(ctx, intent.Type)
	case domain.IntentCloseDetail:
		if a.engine.Snapshot().Phase() == domain.PhaseViewClosed {
			a.ui.PrintHint("No recipe is open.")
			break
		}
		a.engine.CloseDetail()
		a.ui.PrintHint("Recipe closed.")
	case domain.IntentShowResults:
		a.showResults(a.engine.Snapshot())
	case domain.IntentShowDetail:
		a.showDetail(a.engine.Snapshot())
	case domain.IntentUnknown:
		// Empty input.
	}
	return true
}

// selectRecipe opens result number n ("3") or a recipe id ("#716429").
func (a *cliApp) selectRecipe(ctx context.Context, payload string) {
	if strings.HasPrefix(payload, "#") {
		id, err := domain.ParseRecipeID(payload)
		if err != nil {
			a.ui.PrintHint(fmt.Sprintf("%q is not a recipe id.", payload))
			return
		}
		go a.engine.LoadDetail(ctx, id)
		return
	}

	snap := a.engine.Snapshot()
	if !snap.Search.IsSuccess() {
		a.ui.PrintHint("Search for something first.")
		return
	}
	n, err := strconv.Atoi(payload)
	if err != nil || n < 1 || n > len(snap.Search.Value) {
		a.ui.PrintHint(fmt.Sprintf("Pick a number between 1 and %d.", len(snap.Search.Value)))
		return
	}
	go a.engine.LoadDetail(ctx, snap.Search.Value[n-1].ID)
}

// narrate handles "speak" (toggle) and "stop" (stop only).
func (a *cliApp) narrate(ctx context.Context, intent domain.IntentType) {
	snap := a.engine.Snapshot()
	switch planNarration(intent, snap.Phase()) {
	case stepStop:
		a.engine.ToggleNarration(ctx, "")
	case stepNothingPlaying:
		a.ui.PrintHint("Nothing is playing.")
	case stepNoRecipe:
		a.ui.PrintHint("Open a recipe first.")
	case stepStart:
		text := markup.PlainText(snap.Detail.Value.InstructionsHTML)
		if text == "" {
			a.ui.PrintHint("This recipe has no instructions to read.")
			return
		}
		a.engine.ToggleNarration(ctx, text)
	}
}

// watch renders state changes as they are committed.
func (a *cliApp) watch(ctx context.Context) {
	snaps, unsubscribe := a.engine.Subscribe()
	defer unsubscribe()

	var v viewTracker
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-snaps:
			if !ok {
				return
			}
			a.ui.SetStatus(snap)
			for _, ev := range v.update(snap) {
				a.render(ev, snap)
			}
		}
	}
}

func (a *cliApp) render(ev viewEvent, snap domain.Snapshot) {
	switch ev {
	case showResults:
		a.showResults(snap)
	case showSearchError:
		a.ui.PrintUrgent(snap.Search.Message)
	case showDetail:
		a.showDetail(snap)
	case showDetailError:
		a.ui.PrintUrgent(snap.Detail.Message)
		a.ui.PrintHint("Type 'close' to dismiss, or pick another recipe.")
	case showSpeaking:
		a.ui.PrintHint("Reading aloud. Type 'stop' to stop.")
	case showSilent:
		a.ui.PrintHint("Narration stopped.")
	}
}

func (a *cliApp) showResults(snap domain.Snapshot) {
	switch {
	case snap.Search.IsSuccess():
		a.ui.PrintBlock(a.renderer.Results(snap.Query, snap.Search.Value))
	case snap.Search.IsFailed():
		a.ui.PrintUrgent(snap.Search.Message)
	case snap.Search.IsLoading():
		a.ui.PrintHint("Still searching...")
	default:
		a.ui.PrintHint("No search yet. Type a dish to search.")
	}
}

func (a *cliApp) showDetail(snap domain.Snapshot) {
	switch snap.Phase() {
	case domain.PhaseOpenSilent, domain.PhaseOpenSpeaking:
		out, err := a.renderer.Detail(snap.Detail.Value)
		if err != nil {
			a.log.Error("rendering recipe: %v", err)
			a.ui.PrintBlock(display.DetailMarkdown(snap.Detail.Value))
			return
		}
		a.ui.PrintBlock(out)
		a.ui.PrintHint("Type 'speak' to hear the instructions, 'close' to go back.")
	case domain.PhaseFailed:
		a.ui.PrintUrgent(snap.Detail.Message)
	case domain.PhaseLoading:
		a.ui.PrintHint("Still loading...")
	default:
		a.ui.PrintHint("No recipe is open.")
	}
}
