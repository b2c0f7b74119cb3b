package exporter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"ensaio/pkg/contracts/domain"
)

const (
	// SheetName is the only sheet of an exported workbook
	SheetName = "Resultados"

	// ContentType is the MIME type of an exported workbook
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	chartAnchor = "E2"
	chartTitle  = "Gráfico DP"
	dpNumFmt    = "0.00000"
)

// ErrEmptyTable is returned for a nil table or one without columns
var ErrEmptyTable = errors.New("nothing to export")

// Disposition returns the Content-Disposition header for a mode's download
func Disposition(mode domain.Mode) string {
	return fmt.Sprintf(`attachment; filename="%s"`, mode.ExportFileName())
}

// Export renders table as xlsx bytes
func Export(table *domain.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, table); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders table as an xlsx workbook into w
func Write(w io.Writer, table *domain.Table) error {
	if table == nil || len(table.Columns) == 0 {
		return ErrEmptyTable
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := writeHeader(f, table.Columns); err != nil {
		return err
	}

	var err error
	if table.Mode == domain.ModeDP {
		err = writeDP(f, table)
	} else {
		err = writeStrings(f, table.Rows)
	}
	if err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, columns []string) error {
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	last, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", last+"1", style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	return f.SetColWidth(SheetName, "A", last, 14)
}

// writeStrings writes every cell as the already formatted text
func writeStrings(f *excelize.File, rows [][]string) error {
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		if err := f.SetSheetRow(SheetName, "A"+strconv.Itoa(i+2), &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	return nil
}

// writeDP writes ciclos as integers and DP as numbers shown with five
// decimals, so that the chart can plot them.
func writeDP(f *excelize.File, table *domain.Table) error {
	if len(table.Points) != len(table.Rows) {
		return fmt.Errorf("dp table has %d rows but %d chart points", len(table.Rows), len(table.Points))
	}

	n := len(table.Points)
	for i, p := range table.Points {
		row := []interface{}{p.Cycle, p.Value}
		if err := f.SetSheetRow(SheetName, "A"+strconv.Itoa(i+2), &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if n == 0 {
		return nil
	}

	numFmt := dpNumFmt
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return fmt.Errorf("failed to create dp style: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "B2", "B"+strconv.Itoa(n+1), style); err != nil {
		return fmt.Errorf("failed to style dp column: %w", err)
	}

	categories, values := ChartRanges(n)
	err = f.AddChart(SheetName, chartAnchor, &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{{
			Name:       "DP",
			Categories: categories,
			Values:     values,
			Marker:     excelize.ChartMarker{Symbol: "circle", Size: 5},
		}},
		Title: []excelize.RichTextRun{{Text: chartTitle}},
		XAxis: excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Ciclos"}}},
		YAxis: excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "DP"}}, NumFmt: excelize.ChartNumFmt{CustomNumFmt: dpNumFmt}},
		Legend: excelize.ChartLegend{Position: "none"},
	})
	if err != nil {
		return fmt.Errorf("failed to add dp chart: %w", err)
	}
	return nil
}

// ChartRanges returns the category and value references for n data rows.
// The header is spreadsheet row 1, so data spans rows 2 through n+1.
func ChartRanges(n int) (categories, values string) {
	last := strconv.Itoa(n + 1)
	categories = fmt.Sprintf("%s!$A$2:$A$%s", SheetName, last)
	values = fmt.Sprintf("%s!$B$2:$B$%s", SheetName, last)
	return categories, values
}
