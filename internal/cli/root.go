package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"livewatch-cli/internal/config"
	"livewatch-cli/internal/console"
	"livewatch-cli/internal/format"
	"livewatch-cli/internal/gateway"
	"livewatch-cli/internal/logger"
	"livewatch-cli/internal/metrics"
	"livewatch-cli/internal/store"
	"livewatch-cli/internal/transport"
	"livewatch-cli/internal/tui"
)

type App struct {
	ConfigPath string
	BaseURL    string
	Timeout    time.Duration
	Format     string
	PrettyJSON bool

	cfg     *config.Config
	log     *logrus.Logger
	metrics *metrics.Metrics
	client  *transport.Client
	journal *store.Journal
	closers []func()
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "livewatch",
		Short:         "Operator console for the live-stream monitoring backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive console
  livewatch

  # Scriptable commands
  livewatch anchors list --followed true
  livewatch anchors add --name 张财经 --douyin-id zcj001
  livewatch summaries show 3 --format edn

  # Local backend for trying things out
  livewatch devserver --seed
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			return runTUI(cmd, app)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// The TUI owns the terminal, so its logs go to the log file only.
		return app.setup(cmd, !cmd.HasParent())
	}

	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		app.close()
		return nil
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{msg: err.Error()}
	})

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Path to config.yaml (default: ~/.livewatch/config.yaml)")
	cmd.PersistentFlags().StringVar(&app.BaseURL, "base-url", "", "Backend API base URL (overrides LIVEWATCH_BASE_URL and the config file)")
	cmd.PersistentFlags().DurationVar(&app.Timeout, "timeout", 0, "Per-request timeout, e.g. 10s")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", "", "Output format (json|edn)")

	cmd.AddCommand(newAnchorsCmd(app))
	cmd.AddCommand(newRecordingsCmd(app))
	cmd.AddCommand(newSummariesCmd(app))
	cmd.AddCommand(newStatusCmd(app))
	cmd.AddCommand(newJournalCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newDevserverCmd(app))

	return cmd
}

// setup layers configuration as defaults < file < LIVEWATCH_* env < flags, then builds
// the logger, metrics and HTTP client every command shares.
func (app *App) setup(cmd *cobra.Command, interactive bool) error {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return writeErr(cmd, err)
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return writeErr(cmd, err)
	}
	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.API.BaseURL = app.BaseURL
	}
	if flags.Changed("timeout") {
		cfg.API.Timeout = app.Timeout
	}
	if flags.Changed("format") {
		cfg.Output.Format = app.Format
	}
	if flags.Changed("pretty") {
		cfg.Output.Pretty = app.PrettyJSON
	}
	if err := cfg.Validate(); err != nil {
		return writeErr(cmd, configError{err})
	}
	app.cfg = cfg

	opts := logger.Options{Level: cfg.Log.Level, File: cfg.Log.File}
	if !interactive {
		opts.Console = cmd.ErrOrStderr()
	}
	log, err := logger.New(opts)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.log = log

	app.metrics = metrics.New()
	if cfg.Metrics.Addr != "" {
		ctx, cancel := context.WithCancel(cmd.Context())
		app.closers = append(app.closers, cancel)
		go func() {
			if err := app.metrics.Serve(ctx, cfg.Metrics.Addr, log); err != nil {
				log.WithError(err).Warn("metrics endpoint stopped")
			}
		}()
	}

	client, err := transport.New(transport.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		RateLimit: cfg.API.RateLimit,
		Burst:     cfg.API.Burst,
		Logger:    log,
		Metrics:   app.metrics,
	})
	if err != nil {
		return writeErr(cmd, configError{err})
	}
	app.client = client
	return nil
}

func (app *App) close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		app.closers[i]()
	}
	app.closers = nil
}

func (app *App) store() (store.Store, error) {
	dir, err := app.cfg.ResolveStateDir()
	if err != nil {
		return store.Store{}, err
	}
	return store.Store{Dir: dir}, nil
}

// openJournal opens the local mutation journal once per process. A journal that cannot
// be opened is logged and skipped; it never blocks a mutation.
func (app *App) openJournal(ctx context.Context) *store.Journal {
	if app.journal != nil {
		return app.journal
	}
	st, err := app.store()
	if err == nil {
		app.journal, err = st.OpenJournal(ctx)
	}
	if err != nil {
		app.log.WithError(err).Warn("journal unavailable")
		return nil
	}
	j := app.journal
	app.closers = append(app.closers, func() { _ = j.Close() })
	return j
}

// anchorGateway is the anchor resource with journaling when the journal is available.
func (app *App) anchorGateway(ctx context.Context) console.AnchorGateway {
	g := gateway.NewAnchors(app.client)
	if j := app.openJournal(ctx); j != nil {
		return store.NewJournaledAnchors(g, j, app.log)
	}
	return g
}

// env routes controller notices to stderr.
func (app *App) env(cmd *cobra.Command) console.Env {
	return console.Env{
		Notifier: &console.WriterNotifier{W: cmd.ErrOrStderr()},
		Log:      app.log,
		Metrics:  app.metrics,
	}
}

func runTUI(cmd *cobra.Command, app *App) error {
	st, err := app.store()
	if err != nil {
		return err
	}
	system := gateway.NewSystem(app.client)
	return tui.Run(tui.Options{
		Anchors:        app.anchorGateway(cmd.Context()),
		Recordings:     gateway.NewRecordings(app.client),
		Summaries:      gateway.NewSummaries(app.client),
		Status:         system.Get,
		Store:          st,
		Log:            app.log,
		Metrics:        app.metrics,
		StatusInterval: app.cfg.API.StatusInterval,
	})
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.cfg.Output.Format, app.cfg.Output.Pretty)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), "error: "+console.Describe(err))
	return reported(err)
}

func pageMeta[T any](p gateway.Page[T]) map[string]any {
	meta := map[string]any{"count": len(p.Items)}
	if p.Total > 0 || p.Pages > 0 {
		meta["total"] = p.Total
		meta["page"] = p.Page
		meta["perPage"] = p.PerPage
		meta["pages"] = p.Pages
	}
	return meta
}
