package app

import (
	"context"
	"fmt"
	"log/slog"

	"ensaio/internal/config"
	"ensaio/internal/sheetstore"
)

// NewStore returns the record store described by cfg: the in-process
// offline store, or the Google Sheets spreadsheet.
func NewStore(ctx context.Context, cfg config.SheetsConfig, logger *slog.Logger) (sheetstore.RecordStore, error) {
	if cfg.Offline {
		logger.InfoContext(ctx, "Using offline record store",
			slog.String("mr_sheet", cfg.MRSheet),
			slog.String("dp_sheet", cfg.DPSheet))
		return sheetstore.NewOfflineStore(cfg.MRSheet, cfg.DPSheet), nil
	}

	store, err := sheetstore.NewGoogleStore(ctx, cfg.SpreadsheetID, cfg.CredentialsFile, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to spreadsheet %s: %w", cfg.SpreadsheetID, err)
	}
	logger.InfoContext(ctx, "Using Google Sheets record store",
		slog.String("spreadsheet_id", cfg.SpreadsheetID),
		slog.String("credentials_file", cfg.CredentialsFile))
	return store, nil
}
