package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"calview/internal/config"
	"calview/internal/dataset"
	"calview/internal/dates"
	"calview/internal/ics"
	appLog "calview/internal/log"
	"calview/internal/model"
	"calview/internal/render"
)

const placeholderText = "Nothing scheduled this month"

var (
	configPath string
	debug      bool

	rootCmd = &cobra.Command{
		Use:   "calview",
		Short: "Month calendar and timeline views over community items",
		Long: `calview lays out events, goals and attendance records as a month grid or a
Gantt-style timeline, from YAML datasets and ICS calendars.

Examples:
  calview grid                          # Current month as a calendar
  calview grid --month 2025-02 -f json  # February 2025 as JSON
  calview timeline --kind goal          # Goals of the current month
  calview serve --listen :8080          # JSON API`,
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath,
		"Path to config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug logging")
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	appLog.SetOutput(cmd.ErrOrStderr())
	if debug {
		appLog.SetLevel(appLog.LevelDebug)
	}
	return nil
}

// app is what every subcommand needs: the effective config, a loaded store
// and today's date in the display timezone.
type app struct {
	cfg   *config.Config
	store *dataset.Store
	today dates.Date
}

func loadApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if !debug {
		appLog.SetLevel(appLog.ParseLevel(cfg.LogLevel))
	}
	if err := cfg.ExpandPaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	loc := cfg.Location()
	appLog.Debug("effective config",
		"config_path", configPath,
		"timezone", loc.String(),
		"refresh", cfg.RefreshCron,
		"source_count", len(cfg.Sources),
	)

	store := dataset.New(cfg.Sources, ics.NewFetcher(cfg.CacheDir, 0), loc)
	if err := store.Reload(ctx); err != nil {
		// Failed sources are logged by the store; render what did load.
		appLog.Warn("some sources failed to load", "err", err)
	}
	return &app{cfg: cfg, store: store, today: dates.TodayIn(loc)}, nil
}

// viewFlags are shared by grid and timeline.
type viewFlags struct {
	month  string
	kind   string
	format string
}

func (f *viewFlags) register(cmd *cobra.Command, defaultKind string) {
	cmd.Flags().StringVarP(&f.month, "month", "m", "",
		"Month to show as YYYY-MM (default current month)")
	cmd.Flags().StringVarP(&f.kind, "kind", "k", defaultKind,
		"Item kind to show (event, goal, attendance); empty shows all")
	cmd.Flags().StringVarP(&f.format, "format", "f", render.FormatText,
		"Output format (text, table, json)")
}

type viewRequest struct {
	period dates.Period
	kind   model.Kind
	format string
}

func (f *viewFlags) resolve(today dates.Date) (viewRequest, error) {
	req := viewRequest{period: dates.PeriodOf(today)}
	if f.month != "" {
		p, err := dates.ParsePeriod(f.month)
		if err != nil {
			return req, err
		}
		req.period = p
	}
	if f.kind != "" {
		k, err := model.ParseKind(f.kind)
		if err != nil {
			return req, err
		}
		req.kind = k
	}
	format, err := render.ParseFormat(f.format)
	if err != nil {
		return req, err
	}
	req.format = format
	return req, nil
}

// textOptions sizes terminal output for out when it is a terminal.
func textOptions(cfg *config.Config, out io.Writer) render.Options {
	f, _ := out.(*os.File)
	return render.Options{
		Width:      render.TerminalWidth(f, 80),
		LabelWidth: cfg.LabelWidth,
		Color:      render.ColorEnabled(cfg.Color, f),
	}
}
