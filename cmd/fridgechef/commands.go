package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/fridgechef/internal/display"
	"github.com/hammamikhairi/fridgechef/internal/domain"
	"github.com/hammamikhairi/fridgechef/internal/engine"
	"github.com/hammamikhairi/fridgechef/internal/markup"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search recipes and print the results",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := setup(cmd)
		if err != nil {
			return err
		}
		defer d.close()

		query := strings.Join(args, " ")
		eng := d.engine()
		eng.Search(cmd.Context(), query)

		snap := eng.Snapshot()
		switch {
		case snap.Search.IsSuccess():
			r, err := display.NewRenderer()
			if err != nil {
				return err
			}
			fmt.Println(r.Results(snap.Query, snap.Search.Value))
			return nil
		case snap.Search.IsFailed():
			return errors.New(snap.Search.Message)
		default:
			return errors.New("nothing to search for")
		}
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one recipe, optionally reading the instructions aloud",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := domain.ParseRecipeID(args[0])
		if err != nil {
			return fmt.Errorf("%q is not a recipe id", args[0])
		}
		speak, _ := cmd.Flags().GetBool("speak")

		d, err := setup(cmd)
		if err != nil {
			return err
		}
		defer d.close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		eng := d.engine()
		eng.LoadDetail(ctx, id)

		snap := eng.Snapshot()
		if snap.Phase() != domain.PhaseOpenSilent {
			if snap.Detail.Message != "" {
				return errors.New(snap.Detail.Message)
			}
			return ctx.Err()
		}

		r, err := display.NewRenderer()
		if err != nil {
			return err
		}
		out, err := r.Detail(snap.Detail.Value)
		if err != nil {
			return err
		}
		fmt.Print(out)

		if !speak {
			return nil
		}
		text := markup.PlainText(snap.Detail.Value.InstructionsHTML)
		if text == "" {
			return errors.New("this recipe has no instructions to read")
		}
		return narrate(ctx, d, eng, text)
	},
}

// narrate reads text aloud and waits until it ends or ctx is cancelled.
func narrate(ctx context.Context, d *deps, eng *engine.Engine, text string) error {
	snaps, unsubscribe := eng.Subscribe()
	defer unsubscribe()

	eng.ToggleNarration(ctx, text)
	if !eng.Snapshot().Narration.Speaking {
		return errors.New("narration could not start")
	}
	fmt.Println(display.BannerStyle.Render("  Reading aloud, press Ctrl+C to stop."))

	for {
		select {
		case <-ctx.Done():
			eng.CloseDetail()
			d.log.Info("narration interrupted")
			return nil
		case snap := <-snaps:
			if !snap.Narration.Speaking {
				return nil
			}
		}
	}
}

func init() {
	showCmd.Flags().Bool("speak", false, "read the instructions aloud")
	rootCmd.AddCommand(searchCmd, showCmd)
}
