package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ensaio/internal/app"
	"ensaio/internal/config"
	"ensaio/internal/infrastructure"
)

type serveOptions struct {
	host string
	port int
	open bool
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulation form and the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, root, opts)
		},
	}
	cmd.Flags().StringVar(&opts.host, "host", "", "listen address (default from config)")
	cmd.Flags().IntVar(&opts.port, "port", 0, "listen port (default from config)")
	cmd.Flags().BoolVar(&opts.open, "open", false, "open the form in the default browser")
	return cmd
}

// serverOverrides maps the serve flags onto the server config
func (o *serveOptions) serverOverrides(cmd *cobra.Command) []config.Override {
	var overrides []config.Override
	if cmd.Flags().Changed("host") {
		host := o.host
		overrides = append(overrides, func(c *config.Config) { c.Server.Host = host })
	}
	if cmd.Flags().Changed("port") {
		port := o.port
		overrides = append(overrides, func(c *config.Config) { c.Server.Port = port })
	}
	return overrides
}

func runServe(cmd *cobra.Command, root *rootOptions, opts *serveOptions) error {
	cfg, err := root.loadConfig(opts.serverOverrides(cmd)...)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer infrastructure.CloseLogFile()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApplication(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	if err := application.Start(ctx); err != nil {
		return err
	}

	if opts.open {
		if err := app.OpenBrowser(ctx, application.URL(), logger); err != nil {
			logger.WarnContext(ctx, "Could not open browser",
				slog.String("url", application.URL()),
				slog.String("error", err.Error()))
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Servidor em %s (Ctrl+C para encerrar)\n", application.URL())

	select {
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	case <-application.Done():
	}

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()
	return application.Stop(stopCtx)
}
