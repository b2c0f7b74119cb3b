package sheetstore

import (
	"math"

	"ensaio/internal/dataprocessing"
)

// Stress states of the resilient modulus protocol, in MPa (σ3, σd)
var mrStressStates = [][2]float64{
	{0.020, 0.020}, {0.020, 0.040}, {0.020, 0.060},
	{0.035, 0.035}, {0.035, 0.070}, {0.035, 0.105},
	{0.050, 0.050}, {0.050, 0.100}, {0.050, 0.150},
	{0.070, 0.070}, {0.070, 0.140}, {0.070, 0.210},
	{0.105, 0.105}, {0.105, 0.210}, {0.105, 0.315},
	{0.140, 0.140}, {0.140, 0.280}, {0.140, 0.420},
}

// Load cycles sampled in the permanent deformation sheet
var dpCycles = []float64{10, 100, 500, 1000, 5000, 10000, 50000, 100000, 150000}

const atmosphere = 0.1 // reference stress, MPa

// NewOfflineStore returns a MemoryStore laid out like the laboratory
// spreadsheet, with deterministic formulas standing in for the real ones.
// The numbers it derives are placeholders for running without Google
// Sheets, not a calibrated material model. Empty names fall back to the
// default sheets of each mode.
func NewOfflineStore(mrSheet, dpSheet string) *MemoryStore {
	store := NewMemoryStore()

	mr := dataprocessing.MRSchema.WithSheet(mrSheet)
	mrSheet = mr.Sheet
	store.SetGrid(mrSheet, layout(mr.Fields, []string{"σ3", "σd", "MR (MPa)"}, len(mrStressStates)))
	store.SetFormula(mrSheet, mrFormula(len(mr.Fields)))

	dp := dataprocessing.DPSchema.WithSheet(dpSheet)
	dpSheet = dp.Sheet
	store.SetGrid(dpSheet, layout(dp.Fields, []string{"Ciclos", "DP (%)"}, len(dpCycles)))
	store.SetFormula(dpSheet, dpFormula(len(dp.Fields)))

	return store
}

// layout builds a header row plus rows blank input cells and zeroed outputs
func layout(inputs, outputs []string, rows int) [][]any {
	header := make([]any, 0, len(inputs)+len(outputs))
	for _, h := range inputs {
		header = append(header, h)
	}
	for _, h := range outputs {
		header = append(header, h)
	}

	grid := [][]any{header}
	for i := 0; i < rows; i++ {
		row := make([]any, len(header))
		for c := range inputs {
			row[c] = ""
		}
		for c := range outputs {
			row[len(inputs)+c] = 0.0
		}
		grid = append(grid, row)
	}
	return grid
}

// mrFormula fills σ3, σd (kPa) and MR (MPa × 100) for every stress state
func mrFormula(width int) Formula {
	return func(grid [][]any) [][]any {
		in := inputRow(grid, width)
		ot, ip, p2, p0074 := in[0], in[1], in[5], in[7]

		base := 120 + 0.8*p2 - 1.5*ip - 0.6*p0074 - 2*math.Abs(ot-10)
		base = math.Max(base, 20)

		for i, state := range mrStressStates {
			row := ensureRow(grid, i+1, width+3)
			sigma3, sigmaD := state[0], state[1]
			modulus := base * math.Pow(sigma3/atmosphere, 0.35) * math.Pow(sigmaD/atmosphere, -0.08)

			row[width] = math.Round(sigma3 * 1000)
			row[width+1] = math.Round(sigmaD * 1000)
			row[width+2] = math.Round(modulus * 100)
		}
		return grid
	}
}

// dpFormula fills Ciclos and DP (%) × 100000 for every sampled cycle
func dpFormula(width int) Formula {
	return func(grid [][]any) [][]any {
		in := inputRow(grid, width)
		p200, sigma3, sigmaD := in[4], in[5], in[6]

		psi1 := 0.05 + 0.002*p200
		s3 := math.Max(sigma3, 0.01) / atmosphere
		sd := math.Max(sigmaD, 0.01) / atmosphere

		for i, n := range dpCycles {
			row := ensureRow(grid, i+1, width+2)
			strain := psi1 * math.Pow(s3, -0.2) * math.Pow(sd, 1.1) * math.Pow(n, 0.06)

			row[width] = n
			row[width+1] = math.Round(strain * 100000 * 100000) / 100000
		}
		return grid
	}
}

// inputRow reads the numeric inputs written to the first data row
func inputRow(grid [][]any, width int) []float64 {
	out := make([]float64, width)
	if len(grid) < 2 {
		return out
	}
	for i := 0; i < width && i < len(grid[1]); i++ {
		if v, ok := grid[1][i].(float64); ok {
			out[i] = v
		}
	}
	return out
}

func ensureRow(grid [][]any, i, width int) []any {
	for len(grid[i]) < width {
		grid[i] = append(grid[i], "")
	}
	return grid[i]
}
