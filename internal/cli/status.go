package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"livewatch-cli/internal/console"
	"livewatch-cli/internal/format"
	"livewatch-cli/internal/gateway"
	"livewatch-cli/internal/model"
)

func newStatusCmd(app *App) *cobra.Command {
	var (
		watch    bool
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Backend storage usage and record counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			system := gateway.NewSystem(app.client)
			if !watch {
				st, err := system.Get(cmd.Context())
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, format.Envelope{Data: st})
			}

			every := interval
			if every <= 0 {
				every = app.cfg.API.StatusInterval
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// One document per successful poll; failures go to stderr and polling goes on.
			load := func(ctx context.Context) (model.SystemStatus, error) {
				st, err := system.Get(ctx)
				if err != nil {
					return st, err
				}
				return st, writeOut(cmd, app, format.Envelope{Data: st})
			}
			snap := console.NewSnapshotController[model.SystemStatus](app.env(cmd), "status", load)
			return snap.Poll(ctx, every)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "Keep polling until interrupted")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Poll period for --watch (default: api.status_interval)")
	return cmd
}
