// Package main provides the CLI entrypoint for ensaio.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"ensaio/internal/config"
	"ensaio/internal/infrastructure"
	"ensaio/pkg/contracts"
)

// rootOptions holds the flags shared by every subcommand
type rootOptions struct {
	configPath string
	offline    bool
	logLevel   string
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errSimulationFailed) {
			fmt.Fprintln(os.Stderr, "erro:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           config.ServiceName,
		Short:         "Simulação de ensaios MR e DP via planilha",
		Version:       contracts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config.yaml (default: search ./config.yaml, ./configs/config.yaml, next to the binary)")
	flags.BoolVar(&opts.offline, "offline", false, "use the in-process record store instead of Google Sheets")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(newServeCmd(opts))
	for _, mode := range []string{"mr", "dp"} {
		rootCmd.AddCommand(newSimulateCmd(opts, mode))
	}
	rootCmd.AddCommand(newServiceCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// loadConfig reads the configuration and applies the persistent flags on top
func (o *rootOptions) loadConfig(overrides ...config.Override) (*config.Config, error) {
	all := make([]config.Override, 0, len(overrides)+2)
	if o.offline {
		all = append(all, func(c *config.Config) { c.Sheets.Offline = true })
	}
	if o.logLevel != "" {
		level := o.logLevel
		all = append(all, func(c *config.Config) { c.Logging.Level = level })
	}
	all = append(all, overrides...)

	cfg, err := config.Load(o.configPath, all...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newLogger writes console logs to the command's stderr so stdout stays clean
func newLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	return newLoggerFor(cfg, cmd.ErrOrStderr())
}

func newLoggerFor(cfg *config.Config, console io.Writer) (*slog.Logger, error) {
	logger, err := infrastructure.NewLogger(cfg.Logging, console)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.With(slog.String("service", config.ServiceName)), nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), contracts.GetFullVersionString())
			return err
		},
	}
}
