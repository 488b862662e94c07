package cli

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"livewatch-cli/internal/console"
	"livewatch-cli/internal/format"
	"livewatch-cli/internal/gateway"
	"livewatch-cli/internal/model"
)

func newAnchorsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "anchors",
		Aliases: []string{"anchor"},
		Short:   "Monitored streamers",
	}
	cmd.AddCommand(newAnchorsListCmd(app))
	cmd.AddCommand(newAnchorsAddCmd(app))
	cmd.AddCommand(newAnchorsUpdateCmd(app))
	cmd.AddCommand(newAnchorsDeleteCmd(app))
	return cmd
}

func newAnchorsListCmd(app *App) *cobra.Command {
	var (
		followed string
		page     int
		perPage  int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List anchors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := gateway.AnchorFilter{Paging: gateway.Paging{Page: page, PerPage: perPage}}
			if strings.TrimSpace(followed) != "" {
				b, err := strconv.ParseBool(followed)
				if err != nil {
					return writeErr(cmd, usageError{msg: "--followed must be true or false"})
				}
				f.Followed = &b
			}
			p, err := gateway.NewAnchors(app.client).ListPage(cmd.Context(), f)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{Data: p.Items, Meta: pageMeta(p)})
		},
	}
	cmd.Flags().StringVar(&followed, "followed", "", "Only followed (true) or unfollowed (false) anchors")
	cmd.Flags().IntVar(&page, "page", 0, "Page number (1-based)")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "Page size")
	return cmd
}

func newAnchorsAddCmd(app *App) *cobra.Command {
	var v console.AnchorValues
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an anchor",
		Example: strings.TrimSpace(`
  livewatch anchors add --name 张财经 --douyin-id zcj001 --room-id 7301
  livewatch anchors add --name 李股神 --douyin-id lgs --followed=false
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g := &capturingAnchors{AnchorGateway: app.anchorGateway(cmd.Context())}
			modal := console.NewModalController[model.Anchor, console.AnchorValues](app.env(cmd), console.AnchorForm{Gateway: g}, nil)
			if err := modal.OpenCreate(); err != nil {
				return writeErr(cmd, err)
			}
			// Submit reports failures on stderr itself.
			if err := modal.Submit(cmd.Context(), v); err != nil {
				return reported(err)
			}
			return writeOut(cmd, app, format.Envelope{Data: g.last})
		},
	}
	cmd.Flags().StringVar(&v.Name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&v.PlatformID, "douyin-id", "", "Platform account id (required, cannot change later)")
	cmd.Flags().StringVar(&v.RoomID, "room-id", "", "Live room id")
	cmd.Flags().StringVar(&v.AvatarURL, "avatar-url", "", "Avatar image URL")
	cmd.Flags().BoolVar(&v.Followed, "followed", true, "Record this anchor's streams")
	return cmd
}

func newAnchorsUpdateCmd(app *App) *cobra.Command {
	var v console.AnchorValues
	cmd := &cobra.Command{
		Use:   "update <anchor-id>",
		Short: "Edit an anchor (only the flags given change)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := model.ID(strings.TrimSpace(args[0]))
			current, err := gateway.NewAnchors(app.client).Find(cmd.Context(), id)
			if errors.Is(err, gateway.ErrNotFound) {
				return writeErr(cmd, errNotFound("anchor", id.String()))
			}
			if err != nil {
				return writeErr(cmd, err)
			}

			g := &capturingAnchors{AnchorGateway: app.anchorGateway(cmd.Context())}
			modal := console.NewModalController[model.Anchor, console.AnchorValues](app.env(cmd), console.AnchorForm{Gateway: g}, nil)
			if err := modal.OpenEdit(current); err != nil {
				return writeErr(cmd, err)
			}
			values := modal.Values()
			flags := cmd.Flags()
			if flags.Changed("name") {
				values.Name = v.Name
			}
			if flags.Changed("room-id") {
				values.RoomID = v.RoomID
			}
			if flags.Changed("avatar-url") {
				values.AvatarURL = v.AvatarURL
			}
			if flags.Changed("followed") {
				values.Followed = v.Followed
			}
			if err := modal.Submit(cmd.Context(), values); err != nil {
				return reported(err)
			}
			return writeOut(cmd, app, format.Envelope{Data: g.last})
		},
	}
	cmd.Flags().StringVar(&v.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&v.RoomID, "room-id", "", "Live room id")
	cmd.Flags().StringVar(&v.AvatarURL, "avatar-url", "", "Avatar image URL")
	cmd.Flags().BoolVar(&v.Followed, "followed", true, "Record this anchor's streams")
	return cmd
}

func newAnchorsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <anchor-id>",
		Short: "Delete an anchor with its recordings and summaries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := model.ID(strings.TrimSpace(args[0]))
			src := console.AnchorSource{Gateway: app.anchorGateway(cmd.Context())}
			lc := console.NewListController[model.Anchor](app.env(cmd), "anchors", src)
			// Remove refetches the list once after a successful delete; a failed refetch is
			// reported on stderr and leaves remaining unset.
			if err := lc.Remove(cmd.Context(), id); err != nil {
				return reported(err)
			}
			meta := map[string]any{}
			if st := lc.State(); st.Fetched {
				meta["remaining"] = len(st.Items)
			}
			return writeOut(cmd, app, format.Envelope{Data: map[string]any{"id": id, "deleted": true}, Meta: meta})
		},
	}
}

// capturingAnchors keeps the record the backend returned from the last create or update
// so the command can print it.
type capturingAnchors struct {
	console.AnchorGateway
	last model.Anchor
}

func (g *capturingAnchors) Create(ctx context.Context, in model.AnchorInput) (model.Anchor, error) {
	a, err := g.AnchorGateway.Create(ctx, in)
	if err == nil {
		g.last = a
	}
	return a, err
}

func (g *capturingAnchors) Update(ctx context.Context, id model.ID, patch model.AnchorPatch) (model.Anchor, error) {
	a, err := g.AnchorGateway.Update(ctx, id, patch)
	if err == nil {
		g.last = a
	}
	return a, err
}
