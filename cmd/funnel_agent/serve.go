package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/hiring-funnel/internal/logger"
	"github.com/jonathan/hiring-funnel/internal/metrics"
	"github.com/jonathan/hiring-funnel/internal/server"
	"github.com/spf13/cobra"
)

type serveOptions struct {
	host string
	port int
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long:  `Start an HTTP server that exposes the analysis, calibration, health and metrics endpoints.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.host, "host", "", "Host to bind (defaults to server.host)")
	cmd.Flags().IntVar(&opts.port, "port", 8080, "Port to listen on (defaults to server.port)")
	return cmd
}

func runServe(cmd *cobra.Command, root *rootOptions, opts *serveOptions) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = opts.host
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = opts.port
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(cfg.Logging.JSON, cfg.Logging.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.NewDefault()
	analyzer, cleanup, err := buildAnalyzer(ctx, cfg, log, m)
	if err != nil {
		return err
	}
	defer cleanup()

	return server.New(cfg, analyzer, m, log).ListenAndServe(ctx)
}
