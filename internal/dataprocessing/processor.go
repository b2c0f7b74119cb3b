package dataprocessing

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"ensaio/pkg/contracts/domain"
)

// Stored values are fixed-point: σ3 and σd scaled by 1000, MR by 100, DP (%) by 100000.
const (
	stressScale  = 1000
	modulusScale = 100
	dpScale      = 100000

	stressPlaces  = 3
	modulusPlaces = 2
	dpPlaces      = 5
)

// Required columns. DP headers are compared after normalizeColumn.
const (
	ColumnSigma3  = "σ3"
	ColumnSigmaD  = "σd"
	ColumnModulus = "MR (MPa)"

	ColumnCycles = "ciclos"
	ColumnDP     = "dp (%)"
)

var (
	errEmptyValue   = errors.New("empty value")
	errNotNumeric   = errors.New("not a number")
	errNotFiniteNum = errors.New("not a finite number")
)

// Convert formats records for the given mode. It never mutates records and
// returns no table at all when any row fails.
func Convert(mode domain.Mode, records *domain.Records) (*domain.Table, error) {
	switch mode {
	case domain.ModeMR:
		return ConvertMR(records)
	case domain.ModeDP:
		return ConvertDP(records)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

// ConvertMR divides σ3 and σd by 1000 and MR (MPa) by 100, then formats them
// with 3, 3 and 2 decimals.
func ConvertMR(records *domain.Records) (*domain.Table, error) {
	required := []string{ColumnSigma3, ColumnSigmaD, ColumnModulus}
	headers := headersOf(records)

	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	for _, col := range required {
		if !present[col] {
			return nil, &SchemaError{
				Mode:     domain.ModeMR,
				Sheet:    MRSchema.Results,
				Expected: required,
				Found:    headers,
			}
		}
	}

	table := &domain.Table{
		Mode:    domain.ModeMR,
		Columns: append([]string(nil), MRSchema.Outputs...),
		Rows:    make([][]string, 0, records.Len()),
	}
	if records == nil {
		return table, nil
	}

	for i, rec := range records.Rows {
		sigma3, err := cellFloat(rec, ColumnSigma3, i)
		if err != nil {
			return nil, err
		}
		sigmaD, err := cellFloat(rec, ColumnSigmaD, i)
		if err != nil {
			return nil, err
		}
		modulus, err := cellFloat(rec, ColumnModulus, i)
		if err != nil {
			return nil, err
		}
		table.Rows = append(table.Rows, []string{
			FormatDecimal(sigma3/stressScale, stressPlaces),
			FormatDecimal(sigmaD/stressScale, stressPlaces),
			FormatDecimal(modulus/modulusScale, modulusPlaces),
		})
	}
	return table, nil
}

// ConvertDP looks up ciclos and dp (%) case-insensitively, rounds dp (%) to 5
// places and reports DP = round(dp/100000, 5). Row order is kept as read;
// cycles that do not increase only produce a warning.
func ConvertDP(records *domain.Records) (*domain.Table, error) {
	headers := headersOf(records)
	schemaErr := func(dup string) error {
		return &SchemaError{
			Mode:      domain.ModeDP,
			Sheet:     DPSchema.Results,
			Expected:  []string{"Ciclos", "DP (%)"},
			Found:     headers,
			Duplicate: dup,
		}
	}

	// normalized name -> original header
	columns := make(map[string]string, len(headers))
	for _, h := range headers {
		key := normalizeColumn(h)
		if _, dup := columns[key]; dup && (key == ColumnCycles || key == ColumnDP) {
			return nil, schemaErr(h)
		}
		columns[key] = h
	}
	cyclesKey, okCycles := columns[ColumnCycles]
	dpKey, okDP := columns[ColumnDP]
	if !okCycles || !okDP {
		return nil, schemaErr("")
	}

	table := &domain.Table{
		Mode:    domain.ModeDP,
		Columns: append([]string(nil), DPSchema.Outputs...),
		Rows:    make([][]string, 0, records.Len()),
		Points:  make([]domain.ChartPoint, 0, records.Len()),
	}
	if records == nil {
		return table, nil
	}

	outOfOrder := 0
	firstOutOfOrder := 0
	for i, rec := range records.Rows {
		cycles, err := toInt(rec[cyclesKey])
		if err != nil {
			return nil, &ConversionError{Column: cyclesKey, Row: sheetRow(i), Value: rec[cyclesKey], Err: err}
		}
		percent, err := cellFloat(rec, dpKey, i)
		if err != nil {
			return nil, err
		}
		dp := Round(Round(percent, dpPlaces)/dpScale, dpPlaces)

		if i > 0 && cycles <= table.Points[i-1].Cycle {
			if outOfOrder == 0 {
				firstOutOfOrder = sheetRow(i)
			}
			outOfOrder++
		}

		table.Rows = append(table.Rows, []string{
			strconv.FormatInt(cycles, 10),
			FormatDecimal(dp, dpPlaces),
		})
		table.Points = append(table.Points, domain.ChartPoint{Cycle: cycles, Value: dp})
	}

	if outOfOrder > 0 {
		table.Warnings = append(table.Warnings, fmt.Sprintf(
			"%d linha(s) com ciclos fora de ordem crescente, a partir da linha %d", outOfOrder, firstOutOfOrder))
	}
	return table, nil
}

// normalizeColumn trims and lowercases a header
func normalizeColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func headersOf(records *domain.Records) []string {
	if records == nil {
		return nil
	}
	return records.Headers
}

// sheetRow maps a zero-based data index to its spreadsheet row; the header is row 1
func sheetRow(i int) int {
	return i + 2
}

func cellFloat(rec domain.Record, column string, i int) (float64, error) {
	v, err := toFloat(rec[column])
	if err != nil {
		return 0, &ConversionError{Column: column, Row: sheetRow(i), Value: rec[column], Err: err}
	}
	return v, nil
}

// toFloat accepts numbers as they are and strings with either decimal separator
func toFloat(v any) (float64, error) {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0, errEmptyValue
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, errNotNumeric
		}
		f = parsed
	case string:
		text := strings.TrimSpace(n)
		if text == "" {
			return 0, errEmptyValue
		}
		parsed, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", "."), 64)
		if err != nil {
			return 0, errNotNumeric
		}
		f = parsed
	default:
		return 0, errNotNumeric
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFiniteNum
	}
	return f, nil
}

// toInt truncates fractional numbers toward zero; strings must be integers
func toInt(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case string:
		text := strings.TrimSpace(n)
		if text == "" {
			return 0, errEmptyValue
		}
		parsed, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return 0, errNotNumeric
		}
		return parsed, nil
	case json.Number:
		if parsed, err := n.Int64(); err == nil {
			return parsed, nil
		}
	}
	f, err := toFloat(v)
	if err != nil {
		return 0, err
	}
	if f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0, errNotNumeric
	}
	return int64(f), nil
}
