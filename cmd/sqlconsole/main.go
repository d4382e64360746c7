// Command sqlconsole asks a natural-language → SQL backend questions and
// renders the SQL, explanation, result table and chart it returns.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cortexai/sqlconsole/internal/chart"
	"github.com/cortexai/sqlconsole/internal/config"
	"github.com/cortexai/sqlconsole/internal/controller"
	"github.com/cortexai/sqlconsole/internal/server"
	"github.com/cortexai/sqlconsole/internal/service"
	"github.com/cortexai/sqlconsole/internal/tui"
	"github.com/cortexai/sqlconsole/internal/view"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	backendURL string
	logLevel   string
	preview    bool
	asJSON     bool
)

// console bundles the components shared by every front end
type console struct {
	cfg     *config.Config
	backend *service.QueryService
	screen  *view.Screen
	charts  *chart.Manager
	ctrl    *controller.Controller
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "sqlconsole",
		Short: "Ask a natural-language SQL backend and explore the results",
		Long: `sqlconsole sends questions to a text-to-SQL backend and renders the
generated SQL, its explanation, the result table and an optional chart.`,
		SilenceUsage: true,
		RunE:         runTUI,
	}
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "Backend base URL (overrides SQLCONSOLE_BACKEND_URL)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.Flags().BoolVar(&preview, "preview", false, "Also start the HTTP preview server")

	askCmd := &cobra.Command{
		Use:   "ask [question...]",
		Short: "Ask one question and print the rendered result",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAsk,
	}
	askCmd.Flags().BoolVar(&asJSON, "json", false, "Print the view snapshot as JSON")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP preview server only",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	rootCmd.AddCommand(askCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if backendURL != "" {
		cfg.BackendURL = backendURL
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLogging(cfg *config.Config, out io.Writer) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, NoColor: out != os.Stderr})
		return
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}

func newConsole(cfg *config.Config) *console {
	screen := view.NewScreen()
	backend := service.NewQueryService(cfg.BackendURL, cfg.QueryPath, cfg.RequestTimeout)
	factory := chart.NewGoChartFactory(cfg.ChartDir, cfg.ChartFormat, cfg.ChartWidth, cfg.ChartHeight)
	charts := chart.NewManager(factory, screen)
	ctrl := controller.New(backend, screen, charts,
		controller.WithDiscardStale(cfg.DiscardStale),
		controller.WithAuditLogger(controller.NewAuditLogger(cfg.EnableAudit)),
	)
	return &console{cfg: cfg, backend: backend, screen: screen, charts: charts, ctrl: ctrl}
}

func (c *console) previewServer() (*server.Server, error) {
	return server.New(c.cfg, server.Deps{
		Controller: c.ctrl,
		Screen:     c.screen,
		Charts:     c.charts,
		Backend:    c.backend,
	})
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	setupLogging(cfg, logFile)

	c := newConsole(cfg)
	defer c.charts.Clear()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	term := tui.NewLockedOutput(os.Stdout)
	copyBtn := view.NewCopyButton(tui.NewTerminalClipboard(term), cfg.CopyFeedback)
	model := tui.NewModel(ctx, c.ctrl, c.screen, copyBtn)

	if !preview {
		return tui.Run(ctx, model, term)
	}

	srv, err := c.previewServer()
	if err != nil {
		return err
	}
	g, gctx := errgroup.WithContext(ctx)
	uiCtx, cancelUI := context.WithCancel(gctx)
	defer cancelUI()
	g.Go(func() error {
		// Quitting the UI ends the preview server too.
		defer stop()
		return tui.Run(uiCtx, model, term)
	})
	g.Go(func() error {
		return srv.Run(gctx)
	})
	return g.Wait()
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	setupLogging(cfg, os.Stderr)

	c := newConsole(cfg)
	question := strings.Join(args, " ")

	outcome, ok := c.ctrl.Ask(cmd.Context(), question)
	if !ok {
		return fmt.Errorf("question is empty")
	}
	log.Debug().Str("outcome", outcome.String()).Msg("query settled")

	snap := c.screen.Snapshot()
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	fmt.Fprintln(cmd.OutOrStdout(), tui.RenderSnapshot(snap, 0))
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	setupLogging(cfg, os.Stderr)

	c := newConsole(cfg)
	defer c.charts.Clear()

	srv, err := c.previewServer()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
