package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"livewatch-cli/internal/format"
	"livewatch-cli/internal/gateway"
	"livewatch-cli/internal/model"
	"livewatch-cli/internal/publish"
	"livewatch-cli/internal/transport"
)

func newSummariesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "summaries",
		Aliases: []string{"summary"},
		Short:   "AI summaries of recordings (read-only)",
	}
	cmd.AddCommand(newSummariesListCmd(app))
	cmd.AddCommand(newSummariesShowCmd(app))
	cmd.AddCommand(newSummariesExportCmd(app))
	return cmd
}

func newSummariesListCmd(app *App) *cobra.Command {
	var (
		anchorID string
		page     int
		perPage  int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List summaries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := gateway.SummaryFilter{
				Paging:   gateway.Paging{Page: page, PerPage: perPage},
				AnchorID: model.ID(strings.TrimSpace(anchorID)),
			}
			p, err := gateway.NewSummaries(app.client).ListPage(cmd.Context(), f)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{Data: p.Items, Meta: pageMeta(p)})
		},
	}
	cmd.Flags().StringVar(&anchorID, "anchor-id", "", "Only summaries of this anchor's recordings")
	cmd.Flags().IntVar(&page, "page", 0, "Page number (1-based)")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "Page size")
	return cmd
}

func newSummariesShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <summary-id>",
		Short: "Show one summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := model.ID(strings.TrimSpace(args[0]))
			s, err := gateway.NewSummaries(app.client).Get(cmd.Context(), id)
			if transport.IsNotFound(err) {
				return writeErr(cmd, errNotFound("summary", id.String()))
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{Data: s})
		},
	}
}

func newSummariesExportCmd(app *App) *cobra.Command {
	var (
		to       string
		anchorID string
		opt      publish.WriteOptions
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write summaries as markdown files with an index",
		Example: strings.TrimSpace(`
  livewatch summaries export --to ./reports
  livewatch summaries export --to ./reports --anchor-id 1 --overwrite
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(to) == "" {
				return writeErr(cmd, usageError{msg: "missing --to"})
			}
			g := gateway.NewSummaries(app.client)
			all, err := allSummaries(cmd.Context(), g, model.ID(strings.TrimSpace(anchorID)))
			if err != nil {
				return writeErr(cmd, err)
			}
			// Detail responses carry more recording context than list rows.
			full := make([]model.Summary, 0, len(all))
			for _, s := range all {
				d, err := g.Get(cmd.Context(), s.ID)
				if err != nil {
					return writeErr(cmd, err)
				}
				full = append(full, d)
			}
			res, err := publish.WriteSummaries(full, to, opt)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{Data: res, Meta: map[string]any{"count": len(res.Written) - 1}})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Output directory (required)")
	cmd.Flags().StringVar(&anchorID, "anchor-id", "", "Only summaries of this anchor's recordings")
	cmd.Flags().BoolVar(&opt.IncludeUnfinished, "include-unfinished", false, "Also export summaries still being generated")
	cmd.Flags().BoolVar(&opt.Overwrite, "overwrite", false, "Replace existing files")
	return cmd
}

const exportPageSize = 50

// allSummaries walks every page the backend announces.
func allSummaries(ctx context.Context, g *gateway.Summaries, anchorID model.ID) ([]model.Summary, error) {
	var out []model.Summary
	for page := 1; ; page++ {
		p, err := g.ListPage(ctx, gateway.SummaryFilter{
			Paging:   gateway.Paging{Page: page, PerPage: exportPageSize},
			AnchorID: anchorID,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, p.Items...)
		if !p.HasMore() {
			return out, nil
		}
	}
}
