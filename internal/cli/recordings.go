package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"livewatch-cli/internal/format"
	"livewatch-cli/internal/gateway"
	"livewatch-cli/internal/model"
	"livewatch-cli/internal/statusutil"
	"livewatch-cli/internal/transport"
)

func newRecordingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recordings",
		Aliases: []string{"recording"},
		Short:   "Captured live sessions (read-only)",
	}
	cmd.AddCommand(newRecordingsListCmd(app))
	cmd.AddCommand(newRecordingsShowCmd(app))
	return cmd
}

func newRecordingsListCmd(app *App) *cobra.Command {
	var (
		anchorID string
		status   string
		page     int
		perPage  int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recordings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := statusutil.ParseRecordingStatus(status)
			if err != nil {
				return writeErr(cmd, usageError{msg: err.Error()})
			}
			f := gateway.RecordingFilter{
				Paging:   gateway.Paging{Page: page, PerPage: perPage},
				AnchorID: model.ID(strings.TrimSpace(anchorID)),
				Status:   st,
			}
			p, err := gateway.NewRecordings(app.client).ListPage(cmd.Context(), f)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{Data: p.Items, Meta: pageMeta(p)})
		},
	}
	cmd.Flags().StringVar(&anchorID, "anchor-id", "", "Only recordings of this anchor")
	cmd.Flags().StringVar(&status, "status", "", "pending|recording|completed|failed")
	cmd.Flags().IntVar(&page, "page", 0, "Page number (1-based)")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "Page size")
	return cmd
}

func newRecordingsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <recording-id>",
		Short: "Show one recording with its summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := model.ID(strings.TrimSpace(args[0]))
			r, err := gateway.NewRecordings(app.client).Get(cmd.Context(), id)
			if transport.IsNotFound(err) {
				return writeErr(cmd, errNotFound("recording", id.String()))
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{Data: r})
		},
	}
}
