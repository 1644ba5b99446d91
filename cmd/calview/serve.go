package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"calview/internal/dataset"
	appLog "calview/internal/log"
	"calview/internal/web"
)

var (
	serveListen string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the calendar and timeline JSON API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveListen, "listen", "",
		"HTTP listen address (overrides config if set)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			appLog.Info("signal received, shutting down", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	// CLI --listen overrides config file listen if provided.
	if serveListen != "" {
		a.cfg.Listen = serveListen
	}

	if _, err := a.store.Schedule(ctx, a.cfg.RefreshCron); err != nil {
		return err
	}

	versions, err := a.store.Watch(ctx)
	switch {
	case errors.Is(err, dataset.ErrNothingToWatch):
		appLog.Debug("no local sources; file watching disabled")
	case err != nil:
		return err
	default:
		go func() {
			for v := range versions {
				appLog.Info("dataset changed on disk", "version", v)
			}
		}()
	}

	appLog.Info("calview serving",
		"listen", a.cfg.Listen,
		"sources", len(a.cfg.Sources),
		"refresh", a.cfg.RefreshCron,
	)
	return web.NewServer(a.cfg, a.store).ListenAndServe(ctx)
}
