package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/capitals/internal/clock"
	"github.com/mesh-intelligence/capitals/pkg/types"
)

func newClocksCmd(e *env) *cobra.Command {
	var (
		watch bool
		dur   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "clocks",
		Short: "Show the time in each capital",
		Long:  "Clocks fetches the current time of every capital at once. With --watch the\nboard keeps advancing locally every tick until interrupted or --for elapses.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			board := clock.NewBoard(e.timeSource(), types.DefaultCities, e.log)
			readings := board.Sync(ctx)

			out := cmd.OutOrStdout()
			render := func(r []types.CityTime) {
				if e.flags.jsonMode {
					// One compact document per line so watchers can stream it.
					data, _ := json.Marshal(viewReadings(r))
					fmt.Fprintln(out, string(data))
					return
				}
				printReadings(out, r)
			}

			if !watch {
				if e.flags.jsonMode {
					return printJSON(out, viewReadings(readings))
				}
				printReadings(out, readings)
				return nil
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
			defer stop()
			if dur > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, dur)
				defer cancel()
			}

			render(readings)
			board.Run(ctx, e.settings.Clock.Tick, func(r []types.CityTime) {
				if !e.flags.jsonMode {
					fmt.Fprintln(out)
				}
				render(r)
			})
			return nil
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep updating every tick")
	cmd.Flags().DurationVar(&dur, "for", 0, "stop watching after this long (default: until interrupted)")
	return cmd
}
