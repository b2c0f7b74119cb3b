package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ensaio/pkg/contracts/domain"
)

func dpTable() *domain.Table {
	return &domain.Table{
		Mode:    domain.ModeDP,
		Columns: []string{"ciclos", "DP"},
		Rows:    [][]string{{"1000", "0,00550"}, {"2000", "0,00612"}, {"5000", "0,00700"}},
		Points: []domain.ChartPoint{
			{Cycle: 1000, Value: 0.0055},
			{Cycle: 2000, Value: 0.00612},
			{Cycle: 5000, Value: 0.007},
		},
	}
}

func TestRendererTable(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	out := r.Table(&domain.Table{
		Mode:    domain.ModeMR,
		Columns: []string{"σ3", "σd", "MR (MPa)"},
		Rows:    [][]string{{"2,500", "1,500", "120,00"}},
	})

	assert.Contains(t, out, "σ3")
	assert.Contains(t, out, "MR (MPa)")
	assert.Contains(t, out, "120,00")
	assert.Contains(t, out, "╭")
	assert.NotContains(t, out, "\x1b[", "no colors when not writing to a terminal")
}

func TestRendererResultMR(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	require.NoError(t, r.Result(&domain.Table{
		Mode:     domain.ModeMR,
		Columns:  []string{"σ3", "σd", "MR (MPa)"},
		Rows:     [][]string{{"2,500", "1,500", "120,00"}},
		Warnings: []string{"aviso"},
	}))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Resultados"))
	assert.Contains(t, out, "! aviso")
	assert.NotContains(t, out, "Gráfico DP")
}

func TestRendererResultDP(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf).WithWidth(60)

	require.NoError(t, r.Result(dpTable()))

	out := buf.String()
	assert.Contains(t, out, "0,00612")
	assert.Contains(t, out, "Gráfico DP")
	assert.Contains(t, out, "Ciclos")
}

func TestRendererError(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	require.NoError(t, r.Error("Valor inválido para 'IP'. Use vírgula para decimais."))
	require.NoError(t, r.Info("salvo em resultados_MR.xlsx"))

	assert.Equal(t, "Valor inválido para 'IP'. Use vírgula para decimais.\nsalvo em resultados_MR.xlsx\n", buf.String())
}

func TestNewRendererDefaultWidth(t *testing.T) {
	assert.Equal(t, defaultWidth, NewRenderer(&bytes.Buffer{}).Width())
	assert.Equal(t, 100, NewRenderer(&bytes.Buffer{}).WithWidth(100).Width())
	assert.Equal(t, defaultWidth, NewRenderer(&bytes.Buffer{}).WithWidth(0).Width())
}

func TestChart(t *testing.T) {
	out := Chart(dpTable().Points, 50, 10)
	lines := strings.Split(out, "\n")

	for _, line := range lines {
		assert.LessOrEqual(t, runewidth.StringWidth(line), 50, line)
	}
	assert.Equal(t, "     DP", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "0,00700 │"), lines[1])
	assert.True(t, strings.HasPrefix(lines[10], "0,00000 │"), lines[10])
	assert.Equal(t, 3, strings.Count(out, string(marker)))
	assert.Contains(t, out, "1000")
	assert.Contains(t, out, "5000")
	assert.True(t, strings.HasSuffix(out, "Ciclos"))
}

func TestChartMarkersAtCorners(t *testing.T) {
	out := Chart([]domain.ChartPoint{{Cycle: 0, Value: 0}, {Cycle: 10, Value: 1}}, 30, 5)
	lines := strings.Split(out, "\n")

	// top row ends with the last point, bottom row starts with the first
	assert.True(t, strings.HasSuffix(lines[1], string(marker)), lines[1])
	assert.Contains(t, lines[5], "│"+string(marker))
}

func TestChartEdgeCases(t *testing.T) {
	assert.Empty(t, Chart(nil, 80, 10))

	single := Chart([]domain.ChartPoint{{Cycle: 1000, Value: 0.0055}}, 40, 1)
	assert.Equal(t, 1, strings.Count(single, string(marker)))

	narrow := Chart(dpTable().Points, 5, 4)
	assert.Equal(t, 3, strings.Count(narrow, string(marker)))
}
