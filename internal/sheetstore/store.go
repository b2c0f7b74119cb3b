// Package sheetstore reads and writes the spreadsheet that computes the
// derived laboratory results.
//
// GoogleStore talks to Google Sheets; MemoryStore keeps the grid in process
// and recomputes it through Formula hooks, standing in for the spreadsheet
// in tests and offline runs. Instrumented adds tracing and latency metrics
// to either.
package sheetstore

import (
	"context"
	"errors"
	"fmt"

	"ensaio/pkg/contracts/domain"
)

// Store operation names, used in errors, spans and metrics
const (
	OpUpdate        = "update"
	OpGetAllRecords = "get_all_records"
	OpPing          = "ping"
)

// ErrDuplicateHeader is returned when two header cells carry the same text
var ErrDuplicateHeader = errors.New("duplicate header")

// RecordStore is the remote table the simulation writes inputs to and reads
// derived records from. No ordering or freshness guarantee is made between
// an Update and a following GetAllRecords.
type RecordStore interface {
	// Update writes a rectangular block of values at a range such as "A2:H2" on sheet
	Update(ctx context.Context, sheet, a1Range string, values [][]any) error
	// GetAllRecords returns every row below the header row keyed by header
	GetAllRecords(ctx context.Context, sheet string) (*domain.Records, error)
}

// Pinger is implemented by stores that can check their connection
type Pinger interface {
	Ping(ctx context.Context) error
}

// StoreError wraps any failure talking to the record store
type StoreError struct {
	Op    string
	Sheet string
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("record store %s on sheet %q: %v", e.Op, e.Sheet, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// RecordsFromRows turns a raw grid into records. The first row is the header;
// shorter rows are padded with "" and columns past the header are dropped.
func RecordsFromRows(rows [][]any) (*domain.Records, error) {
	records := &domain.Records{Rows: []domain.Record{}}
	if len(rows) == 0 {
		return records, nil
	}

	headers := make([]string, len(rows[0]))
	seen := make(map[string]bool, len(rows[0]))
	for i, cell := range rows[0] {
		name := cellText(cell)
		if name != "" && seen[name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateHeader, name)
		}
		seen[name] = true
		headers[i] = name
	}
	records.Headers = headers

	for _, row := range rows[1:] {
		rec := make(domain.Record, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(row) && row[i] != nil {
				rec[h] = row[i]
			} else {
				rec[h] = ""
			}
		}
		records.Rows = append(records.Rows, rec)
	}
	return records, nil
}

func cellText(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
