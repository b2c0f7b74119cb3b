package dataprocessing

import (
	"fmt"
	"strconv"
	"strings"

	"ensaio/pkg/contracts/domain"
)

// DefaultInput is the text pre-filled in every input field
const DefaultInput = "0,00"

// Schema is the ordered input layout of a mode and where it lands in the store
type Schema struct {
	Mode domain.Mode
	// Sheet receives the input row
	Sheet string
	// Range is the A1 range, relative to Sheet, written on every submission
	Range string
	// Fields are the input labels in write order
	Fields []string
	// Results is the sheet holding the derived table, usually the same as Sheet
	Results string
	// Outputs are the column headers of the formatted table
	Outputs []string
}

// MRSchema is the resilient modulus layout: eight inputs at A2:H2
var MRSchema = Schema{
	Mode:    domain.ModeMR,
	Sheet:   "Interface MR",
	Range:   "A2:H2",
	Fields:  []string{"OT (%)", "IP", "25,4 mm", "9,5 mm", "4,76 mm", "2 mm", "0,42 mm", "0,074 mm"},
	Results: "Interface MR",
	Outputs: []string{"σ3", "σd", "MR (MPa)"},
}

// DPSchema is the permanent deformation layout: seven inputs at A2:G2
var DPSchema = Schema{
	Mode:    domain.ModeDP,
	Sheet:   "Interface DP",
	Range:   "A2:G2",
	Fields:  []string{"OT (%)", "Yd (max)", "#10 (%)", "#40 (%)", "#200 (%)", "σ3", "σd"},
	Results: "Interface DP",
	Outputs: []string{"ciclos", "DP"},
}

// SchemaFor returns a copy of the schema registered for mode
func SchemaFor(mode domain.Mode) (Schema, error) {
	switch mode {
	case domain.ModeMR:
		return MRSchema.clone(), nil
	case domain.ModeDP:
		return DPSchema.clone(), nil
	}
	return Schema{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

// WithSheet points both input and result ranges at another sheet name.
// An empty name keeps the current one.
func (s Schema) WithSheet(name string) Schema {
	out := s.clone()
	if name = strings.TrimSpace(name); name != "" {
		out.Sheet = name
		out.Results = name
	}
	return out
}

// Defaults returns one DefaultInput per field
func (s Schema) Defaults() []string {
	out := make([]string, len(s.Fields))
	for i := range out {
		out[i] = DefaultInput
	}
	return out
}

// A1Range returns the sheet-qualified input range, e.g. 'Interface MR'!A2:H2
func (s Schema) A1Range() string {
	return QuoteSheet(s.Sheet) + "!" + s.Range
}

// BuildRow checks that values line up with the declared fields and that the
// declared range is exactly as wide as the field list.
func (s Schema) BuildRow(values []float64) ([]any, error) {
	if len(values) != len(s.Fields) {
		return nil, fmt.Errorf("%w: %s expects %d values, got %d", ErrFieldCount, s.Mode, len(s.Fields), len(values))
	}
	width, err := RangeWidth(s.Range)
	if err != nil {
		return nil, err
	}
	if width != len(s.Fields) {
		return nil, fmt.Errorf("%w: range %s spans %d columns for %d fields", ErrFieldCount, s.Range, width, len(s.Fields))
	}
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row, nil
}

func (s Schema) clone() Schema {
	out := s
	out.Fields = append([]string(nil), s.Fields...)
	out.Outputs = append([]string(nil), s.Outputs...)
	return out
}

// QuoteSheet wraps a sheet name in single quotes for A1 notation,
// doubling any embedded quote.
func QuoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// RangeWidth returns the column count of a single-row range like "A2:H2"
func RangeWidth(rng string) (int, error) {
	start, end, ok := strings.Cut(strings.ToUpper(strings.TrimSpace(rng)), ":")
	if !ok {
		end = start
	}
	first, firstRow, err := splitCell(start)
	if err != nil {
		return 0, err
	}
	last, lastRow, err := splitCell(end)
	if err != nil {
		return 0, err
	}
	if firstRow != lastRow {
		return 0, fmt.Errorf("range %q spans more than one row", rng)
	}
	if last < first {
		return 0, fmt.Errorf("range %q is reversed", rng)
	}
	return last - first + 1, nil
}

// splitCell turns "H2" into column 8 and row 2
func splitCell(cell string) (int, int, error) {
	i := 0
	col := 0
	for i < len(cell) && cell[i] >= 'A' && cell[i] <= 'Z' {
		col = col*26 + int(cell[i]-'A'+1)
		i++
	}
	if i == 0 || i == len(cell) {
		return 0, 0, fmt.Errorf("invalid cell reference %q", cell)
	}
	row, err := strconv.Atoi(cell[i:])
	if err != nil || row < 1 {
		return 0, 0, fmt.Errorf("invalid cell reference %q", cell)
	}
	return col, row, nil
}
