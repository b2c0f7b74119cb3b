package sheetstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ensaio/internal/dataprocessing"
	"ensaio/pkg/contracts/domain"
)

func TestRecordsFromRows(t *testing.T) {
	rows := [][]any{
		{"Ciclos", "DP (%)", "", "Obs"},
		{100.0, 550.0, "ignored", "ok"},
		{200.0},
		{},
	}

	records, err := RecordsFromRows(rows)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ciclos", "DP (%)", "", "Obs"}, records.Headers)
	require.Equal(t, 3, records.Len())
	assert.Equal(t, domain.Record{"Ciclos": 100.0, "DP (%)": 550.0, "Obs": "ok"}, records.Rows[0])
	assert.Equal(t, domain.Record{"Ciclos": 200.0, "DP (%)": "", "Obs": ""}, records.Rows[1])
	assert.Equal(t, "", records.Rows[2]["Ciclos"])
}

func TestRecordsFromRowsEdgeCases(t *testing.T) {
	records, err := RecordsFromRows(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, records.Len())
	assert.Empty(t, records.Headers)

	records, err = RecordsFromRows([][]any{{"σ3", "σd"}})
	require.NoError(t, err)
	assert.Equal(t, 0, records.Len())
	assert.Equal(t, []string{"σ3", "σd"}, records.Headers)

	_, err = RecordsFromRows([][]any{{"σ3", "σ3"}})
	assert.ErrorIs(t, err, ErrDuplicateHeader)

	records, err = RecordsFromRows([][]any{{"", "", 10.0}})
	require.NoError(t, err)
	assert.Equal(t, []string{"", "", "10"}, records.Headers)
}

func TestMemoryStoreUpdateAndRead(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.SetGrid("Interface MR", [][]any{{"OT (%)", "IP", "σ3"}})

	require.NoError(t, store.Update(ctx, "Interface MR", "A2:B2", [][]any{{10.5, 3.0}}))
	assert.Equal(t, 1, store.Updates())

	records, err := store.GetAllRecords(ctx, "Interface MR")
	require.NoError(t, err)
	require.Equal(t, 1, records.Len())
	assert.Equal(t, 10.5, records.Rows[0]["OT (%)"])
	assert.Equal(t, 3.0, records.Rows[0]["IP"])
	assert.Equal(t, "", records.Rows[0]["σ3"])

	require.NoError(t, store.Update(ctx, "Interface MR", "C3", [][]any{{7.0}}))
	grid := store.Grid("Interface MR")
	require.Len(t, grid, 3)
	assert.Equal(t, 7.0, grid[2][2])
}

func TestMemoryStoreFormula(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.SetGrid("calc", [][]any{{"x", "double"}, {0.0, 0.0}})
	store.SetFormula("calc", func(grid [][]any) [][]any {
		x, _ := grid[1][0].(float64)
		grid[1][1] = 2 * x
		return grid
	})

	require.NoError(t, store.Update(ctx, "calc", "A2", [][]any{{21.0}}))
	records, err := store.GetAllRecords(ctx, "calc")
	require.NoError(t, err)
	assert.Equal(t, 42.0, records.Rows[0]["double"])
}

func TestMemoryStoreFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("quota exceeded")

	store := NewMemoryStore()
	_, err := store.GetAllRecords(ctx, "missing")
	var sErr *StoreError
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, OpGetAllRecords, sErr.Op)

	store.UpdateErr = boom
	err = store.Update(ctx, "s", "A2", [][]any{{1.0}})
	require.ErrorAs(t, err, &sErr)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, OpUpdate, sErr.Op)
	assert.Equal(t, 0, store.Updates())

	store.UpdateErr = nil
	assert.Error(t, store.Update(ctx, "s", "2A", [][]any{{1.0}}))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, store.Update(cancelled, "s", "A2", nil), context.Canceled)
}

func TestOfflineStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewOfflineStore("Interface MR", "Interface DP")

	row, err := dataprocessing.MRSchema.BuildRow([]float64{10, 12, 100, 90, 75, 60, 40, 25})
	require.NoError(t, err)
	require.NoError(t, store.Update(ctx, "Interface MR", "A2:H2", [][]any{row}))

	records, err := store.GetAllRecords(ctx, "Interface MR")
	require.NoError(t, err)
	table, err := dataprocessing.ConvertMR(records)
	require.NoError(t, err)
	require.Len(t, table.Rows, len(mrStressStates))
	assert.Equal(t, "0,020", table.Rows[0][0])
	assert.Equal(t, "0,420", table.Rows[len(table.Rows)-1][1])

	row, err = dataprocessing.DPSchema.BuildRow([]float64{10, 1.9, 80, 60, 35, 0.1, 0.3})
	require.NoError(t, err)
	require.NoError(t, store.Update(ctx, "Interface DP", "A2:G2", [][]any{row}))

	records, err = store.GetAllRecords(ctx, "Interface DP")
	require.NoError(t, err)
	dpTable, err := dataprocessing.ConvertDP(records)
	require.NoError(t, err)
	require.Len(t, dpTable.Points, len(dpCycles))
	assert.Empty(t, dpTable.Warnings)
	for i := 1; i < len(dpTable.Points); i++ {
		assert.Greater(t, dpTable.Points[i].Value, dpTable.Points[i-1].Value)
	}
}

func TestTopLeft(t *testing.T) {
	col, row, err := topLeft("A2:H2")
	require.NoError(t, err)
	assert.Equal(t, 0, col)
	assert.Equal(t, 1, row)

	col, row, err = topLeft("ab10")
	require.NoError(t, err)
	assert.Equal(t, 27, col)
	assert.Equal(t, 9, row)

	_, _, err = topLeft("A0")
	assert.Error(t, err)
}
