package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ensaio/internal/app"
	"ensaio/internal/console"
	"ensaio/internal/dataprocessing"
	"ensaio/internal/files"
	"ensaio/internal/infrastructure"
	"ensaio/internal/services"
	"ensaio/pkg/contracts/domain"
)

// errSimulationFailed is returned after the failure was already printed
var errSimulationFailed = errors.New("simulation failed")

var flagReplacer = strings.NewReplacer("#", "n", "σ", "sigma", ",", "-", ".", "-", " ", "-")

// flagName turns an input label into a flag name: "25,4 mm" is p25-4,
// "#10 (%)" is n10 and "σd" is sigmad.
func flagName(label string) string {
	name := strings.ToLower(strings.TrimSpace(label))
	if i := strings.Index(name, "("); i >= 0 {
		name = strings.TrimSpace(name[:i])
	}
	if sieve, ok := strings.CutSuffix(name, " mm"); ok {
		name = "p" + sieve
	}
	return flagReplacer.Replace(name)
}

type simulateOptions struct {
	schema dataprocessing.Schema
	values []string
	out    string
}

func newSimulateCmd(root *rootOptions, slug string) *cobra.Command {
	mode, _ := domain.ParseMode(slug)
	schema, _ := dataprocessing.SchemaFor(mode)
	opts := &simulateOptions{
		schema: schema,
		values: make([]string, len(schema.Fields)),
	}

	cmd := &cobra.Command{
		Use:   slug,
		Short: fmt.Sprintf("Run a %s (%s) simulation", mode.DisplayName(), mode),
		Long: fmt.Sprintf("Writes the %d inputs to the %q sheet and prints the results.\n"+
			"Decimals use a comma, e.g. --%s 12,5", len(schema.Fields), schema.Sheet, flagName(schema.Fields[0])),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulate(cmd, root, opts)
		},
	}

	for i, label := range schema.Fields {
		cmd.Flags().StringVar(&opts.values[i], flagName(label), dataprocessing.DefaultInput, label)
	}
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "also save the results as an Excel workbook at this path or directory")
	return cmd
}

func runSimulate(cmd *cobra.Command, root *rootOptions, opts *simulateOptions) error {
	ctx := infrastructure.EnsureTraceID(cmd.Context())
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer infrastructure.CloseLogFile()

	store, err := app.NewStore(ctx, cfg.Sheets, logger)
	if err != nil {
		return err
	}
	service := services.NewSimulationService(store, logger,
		services.WithSheetNames(cfg.Sheets.MRSheet, cfg.Sheets.DPSheet))

	out := console.NewRenderer(cmd.OutOrStdout())
	result := service.Run(ctx, opts.schema.Mode, opts.values)
	if !result.OK() {
		if err := console.NewRenderer(cmd.ErrOrStderr()).Error(result.Message()); err != nil {
			return err
		}
		return errSimulationFailed
	}
	if err := out.Result(result.Table); err != nil {
		return err
	}

	if opts.out == "" {
		return nil
	}
	data, err := service.Export(ctx, result.Table)
	if err != nil {
		return fmt.Errorf("failed to build workbook: %w", err)
	}
	saved, err := files.NewManager(logger).SaveWorkbook(opts.out, opts.schema.Mode.ExportFileName(), data)
	if err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return out.Info("Planilha salva em " + saved)
}
