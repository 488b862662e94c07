package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"livewatch-cli/internal/devserver"
)

func newDevserverCmd(app *App) *cobra.Command {
	var (
		addr string
		seed bool
	)
	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Run an in-memory backend for local use",
		Example: `  livewatch devserver --seed &
  livewatch --base-url http://localhost:5000/api anchors list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			srv := devserver.New(devserver.Options{Logger: app.log, Seed: seed})
			if err := srv.Run(ctx, addr); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":5000", "Listen address")
	cmd.Flags().BoolVar(&seed, "seed", false, "Load demo anchors, recordings and summaries")
	return cmd
}
