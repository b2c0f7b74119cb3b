package sheetstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"ensaio/internal/dataprocessing"
	"ensaio/pkg/contracts/domain"
)

// GoogleStore is a RecordStore backed by one Google Sheets spreadsheet
type GoogleStore struct {
	service       *sheets.Service
	spreadsheetID string
	logger        *slog.Logger
}

// NewGoogleStore authenticates with a service-account credentials file.
// Extra options are appended after the credentials.
func NewGoogleStore(ctx context.Context, spreadsheetID, credentialsFile string, logger *slog.Logger, opts ...option.ClientOption) (*GoogleStore, error) {
	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheets credentials: %w", err)
	}
	if len(credentialsJSON) == 0 {
		return nil, fmt.Errorf("sheets credentials file %s is empty", credentialsFile)
	}

	clientOpts := append([]option.ClientOption{
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(sheets.SpreadsheetsScope),
	}, opts...)

	service, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return NewGoogleStoreWithService(service, spreadsheetID, logger), nil
}

// NewGoogleStoreWithService wraps an already configured sheets service
func NewGoogleStoreWithService(service *sheets.Service, spreadsheetID string, logger *slog.Logger) *GoogleStore {
	return &GoogleStore{
		service:       service,
		spreadsheetID: spreadsheetID,
		logger:        logger.With(slog.String("component", "sheetstore")),
	}
}

// Update writes values verbatim (RAW input option) at sheet!a1Range
func (s *GoogleStore) Update(ctx context.Context, sheet, a1Range string, values [][]any) error {
	target := dataprocessing.QuoteSheet(sheet) + "!" + a1Range

	resp, err := s.service.Spreadsheets.Values.Update(
		s.spreadsheetID,
		target,
		&sheets.ValueRange{Values: values},
	).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return &StoreError{Op: OpUpdate, Sheet: sheet, Err: err}
	}

	s.logger.DebugContext(ctx, "sheet range updated",
		slog.String("range", target),
		slog.Int64("updated_cells", resp.UpdatedCells))
	return nil
}

// GetAllRecords reads the whole sheet with unformatted values
func (s *GoogleStore) GetAllRecords(ctx context.Context, sheet string) (*domain.Records, error) {
	resp, err := s.service.Spreadsheets.Values.Get(
		s.spreadsheetID,
		dataprocessing.QuoteSheet(sheet),
	).ValueRenderOption("UNFORMATTED_VALUE").Context(ctx).Do()
	if err != nil {
		return nil, &StoreError{Op: OpGetAllRecords, Sheet: sheet, Err: err}
	}

	records, err := RecordsFromRows(resp.Values)
	if err != nil {
		return nil, &StoreError{Op: OpGetAllRecords, Sheet: sheet, Err: err}
	}

	s.logger.DebugContext(ctx, "sheet records read",
		slog.String("sheet", sheet),
		slog.Int("rows", records.Len()))
	return records, nil
}

// Ping checks that the spreadsheet is reachable with the configured credentials
func (s *GoogleStore) Ping(ctx context.Context) error {
	_, err := s.service.Spreadsheets.Get(s.spreadsheetID).Fields("spreadsheetId").Context(ctx).Do()
	if err != nil {
		return &StoreError{Op: OpPing, Err: err}
	}
	return nil
}
