package cli

import (
	"github.com/spf13/cobra"

	"livewatch-cli/internal/format"
)

func newJournalCmd(app *App) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Recent anchor mutations made from this machine, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return writeErr(cmd, usageError{msg: "--limit must be positive"})
			}
			st, err := app.store()
			if err != nil {
				return writeErr(cmd, err)
			}
			j, err := st.OpenJournal(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer j.Close()

			entries, err := j.Tail(cmd.Context(), limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{
				Data: entries,
				Meta: map[string]any{"count": len(entries), "consoleId": j.ConsoleID()},
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum entries to show")
	return cmd
}
