package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/kardianos/service"
	"github.com/spf13/cobra"

	"ensaio/internal/app"
	"ensaio/internal/config"
	"ensaio/internal/infrastructure"
)

// program runs the web server under the system service manager
type program struct {
	root   *rootOptions
	stdout io.Writer

	app      *app.Application
	stopping atomic.Bool
}

// Start must not block; the server runs in the application's own goroutines
func (p *program) Start(s service.Service) error {
	cfg, err := p.root.loadConfig()
	if err != nil {
		return err
	}
	if !service.Interactive() {
		if err := cfg.ResolvePaths(); err != nil {
			return err
		}
	}
	logger, err := newServiceLogger(cfg, p.stdout)
	if err != nil {
		return err
	}

	ctx := context.Background()
	application, err := app.NewApplication(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	if err := application.Start(ctx); err != nil {
		return err
	}
	p.app = application

	go func() {
		<-application.Done()
		if !p.stopping.Load() && !service.Interactive() {
			logger.Error("Server stopped unexpectedly")
			_ = s.Stop()
		}
	}()
	return nil
}

func (p *program) Stop(service.Service) error {
	if p.app == nil {
		return nil
	}
	p.stopping.Store(true)
	defer infrastructure.CloseLogFile()

	ctx, cancel := context.WithTimeout(context.Background(), p.app.Config.Server.ShutdownTimeout+time.Second)
	defer cancel()
	return p.app.Stop(ctx)
}

// newServiceLogger also writes to the rotating file, since a service has no console
func newServiceLogger(cfg *config.Config, stdout io.Writer) (*slog.Logger, error) {
	logging := cfg.Logging
	if !service.Interactive() && logging.Output == "console" {
		logging.Output = "file"
	}
	cfg.Logging = logging
	return newLoggerFor(cfg, stdout)
}

// serviceConfig describes the installed service. The config path is made
// absolute because service managers do not start in the working directory.
func serviceConfig(root *rootOptions) (*service.Config, error) {
	args := []string{"service", "run"}
	if root.configPath != "" {
		path, err := filepath.Abs(root.configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config path: %w", err)
		}
		args = append(args, "--config", path)
	}
	if root.offline {
		args = append(args, "--offline")
	}
	if root.logLevel != "" {
		args = append(args, "--log-level", root.logLevel)
	}
	return &service.Config{
		Name:        config.ServiceName,
		DisplayName: config.ServiceDisplayName,
		Description: config.ServiceDescription,
		Arguments:   args,
	}, nil
}

func newServiceCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Install and control the web server as a system service",
	}

	for _, action := range service.ControlAction {
		cmd.AddCommand(&cobra.Command{
			Use:   action,
			Short: fmt.Sprintf("%s the %s service", action, config.ServiceName),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s, err := newService(cmd, root)
				if err != nil {
					return err
				}
				if err := service.Control(s, action); err != nil {
					return fmt.Errorf("service %s failed (valid actions: %q): %w", action, service.ControlAction, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "service %s: ok\n", action)
				return nil
			},
		})
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run under the service manager (used by the installed service)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newService(cmd, root)
			if err != nil {
				return err
			}
			return s.Run()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print whether the service is installed and running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newService(cmd, root)
			if err != nil {
				return err
			}
			status, err := s.Status()
			if err != nil && !errors.Is(err, service.ErrNotInstalled) {
				return fmt.Errorf("failed to query service: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), statusText(status))
			return err
		},
	})

	return cmd
}

func newService(cmd *cobra.Command, root *rootOptions) (service.Service, error) {
	svcConfig, err := serviceConfig(root)
	if err != nil {
		return nil, err
	}
	s, err := service.New(&program{root: root, stdout: cmd.OutOrStdout()}, svcConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return s, nil
}

func statusText(status service.Status) string {
	switch status {
	case service.StatusRunning:
		return "running"
	case service.StatusStopped:
		return "stopped"
	}
	return "not installed"
}
