package exporter

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ensaio/pkg/contracts/domain"
)

func dpTable() *domain.Table {
	return &domain.Table{
		Mode:    domain.ModeDP,
		Columns: []string{"ciclos", "DP"},
		Rows:    [][]string{{"100", "0,00550"}, {"1000", "0,00720"}, {"10000", "0,00910"}},
		Points: []domain.ChartPoint{
			{Cycle: 100, Value: 0.0055},
			{Cycle: 1000, Value: 0.0072},
			{Cycle: 10000, Value: 0.0091},
		},
	}
}

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

// chartXML returns the drawing XML of every chart part in the workbook
func chartXML(t *testing.T, data []byte) []string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	var charts []string
	for _, file := range zr.File {
		if !strings.HasPrefix(file.Name, "xl/charts/chart") {
			continue
		}
		rc, err := file.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		charts = append(charts, string(body))
	}
	return charts
}

func TestExportMR(t *testing.T) {
	table := &domain.Table{
		Mode:    domain.ModeMR,
		Columns: []string{"σ3", "σd", "MR (MPa)"},
		Rows:    [][]string{{"0,021", "0,063", "150,00"}, {"0,035", "0,105", "456,78"}},
	}

	data, err := Export(table)
	require.NoError(t, err)

	f := openWorkbook(t, data)
	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"σ3", "σd", "MR (MPa)"},
		{"0,021", "0,063", "150,00"},
		{"0,035", "0,105", "456,78"},
	}, rows)
	assert.Empty(t, chartXML(t, data))
}

func TestExportDP(t *testing.T) {
	data, err := Export(dpTable())
	require.NoError(t, err)

	f := openWorkbook(t, data)
	header, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, header, 4)
	assert.Equal(t, []string{"ciclos", "DP"}, header[0])

	cycles, err := f.GetCellValue(SheetName, "A3", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "1000", cycles)

	dp, err := f.GetCellValue(SheetName, "B2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "0.0055", dp)

	charts := chartXML(t, data)
	require.Len(t, charts, 1)
	assert.Contains(t, charts[0], "Resultados!$A$2:$A$4")
	assert.Contains(t, charts[0], "Resultados!$B$2:$B$4")
	assert.Contains(t, charts[0], chartTitle)
	assert.NotContains(t, charts[0], "$A$5")
}

// MR cells keep the comma-formatted text; DP cells are numbers so the chart
// can plot them, shown with five decimals.
func TestExportCellTypes(t *testing.T) {
	textTypes := []excelize.CellType{excelize.CellTypeSharedString, excelize.CellTypeInlineString}

	mr, err := Export(&domain.Table{
		Mode:    domain.ModeMR,
		Columns: []string{"σ3", "σd", "MR (MPa)"},
		Rows:    [][]string{{"0,021", "0,063", "150,00"}},
	})
	require.NoError(t, err)
	f := openWorkbook(t, mr)
	typ, err := f.GetCellType(SheetName, "C2")
	require.NoError(t, err)
	assert.Contains(t, textTypes, typ)

	dp, err := Export(dpTable())
	require.NoError(t, err)
	f = openWorkbook(t, dp)
	for _, cell := range []string{"A2", "B2"} {
		typ, err := f.GetCellType(SheetName, cell)
		require.NoError(t, err)
		assert.NotContains(t, textTypes, typ, cell)
	}

	shown, err := f.GetCellValue(SheetName, "B2")
	require.NoError(t, err)
	assert.Equal(t, "0.00550", shown)
}

func TestExportDPWithoutRows(t *testing.T) {
	table := &domain.Table{Mode: domain.ModeDP, Columns: []string{"ciclos", "DP"}}

	data, err := Export(table)
	require.NoError(t, err)

	rows, err := openWorkbook(t, data).GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Empty(t, chartXML(t, data))
}

func TestExportErrors(t *testing.T) {
	_, err := Export(nil)
	assert.ErrorIs(t, err, ErrEmptyTable)

	_, err = Export(&domain.Table{Mode: domain.ModeMR})
	assert.ErrorIs(t, err, ErrEmptyTable)

	table := dpTable()
	table.Points = table.Points[:1]
	_, err = Export(table)
	assert.Error(t, err)
}

func TestChartRanges(t *testing.T) {
	categories, values := ChartRanges(1)
	assert.Equal(t, "Resultados!$A$2:$A$2", categories)
	assert.Equal(t, "Resultados!$B$2:$B$2", values)

	categories, _ = ChartRanges(120)
	assert.Equal(t, "Resultados!$A$2:$A$121", categories)
}

func TestDisposition(t *testing.T) {
	assert.Equal(t, `attachment; filename="resultados_MR.xlsx"`, Disposition(domain.ModeMR))
	assert.Equal(t, `attachment; filename="resultados_DP.xlsx"`, Disposition(domain.ModeDP))
}
