package domain

import "strings"

// Mode identifies which laboratory test a submission belongs to
type Mode string

const (
	ModeMR Mode = "MR" // Módulo de Resiliência
	ModeDP Mode = "DP" // Deformação Permanente
)

// Modes lists the supported modes in display order
var Modes = []Mode{ModeMR, ModeDP}

// ParseMode accepts "mr", "MR", " dp " and so on
func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToUpper(strings.TrimSpace(s))) {
	case ModeMR:
		return ModeMR, true
	case ModeDP:
		return ModeDP, true
	}
	return "", false
}

// DisplayName returns the Portuguese name shown in the mode selector
func (m Mode) DisplayName() string {
	switch m {
	case ModeMR:
		return "Módulo de Resiliência"
	case ModeDP:
		return "Deformação Permanente"
	}
	return string(m)
}

// ActionLabel returns the submit button text for the mode
func (m Mode) ActionLabel() string {
	return "Calcular " + string(m)
}

// Slug is the lower-case form used in URLs and file names
func (m Mode) Slug() string {
	return strings.ToLower(string(m))
}

// ExportFileName is the download name for the mode's workbook
func (m Mode) ExportFileName() string {
	return "resultados_" + string(m) + ".xlsx"
}

// Record is one row read back from the record store, keyed by column header.
// Values are whatever the store produced: float64, int, string, bool or nil.
type Record map[string]any

// Records is a full read of one logical table
type Records struct {
	Headers []string `json:"headers"`
	Rows    []Record `json:"rows"`
}

// Len returns the number of data rows
func (r *Records) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// ChartPoint is one (cycle, DP fraction) sample for the DP line chart
type ChartPoint struct {
	Cycle int64   `json:"ciclos"`
	Value float64 `json:"dp"`
}

// Table is the formatted result of one submission.
// Rows hold display strings in Columns order; Points is only set for DP.
type Table struct {
	Mode     Mode         `json:"mode"`
	Columns  []string     `json:"columns"`
	Rows     [][]string   `json:"rows"`
	Points   []ChartPoint `json:"points,omitempty"`
	Warnings []string     `json:"warnings,omitempty"`
}

// HasChart reports whether the table carries a DP series
func (t *Table) HasChart() bool {
	return t != nil && t.Mode == ModeDP && len(t.Points) > 0
}
