package testutil

// MRRow is one derived row of the "Interface MR" sheet, in stored units
type MRRow struct {
	Sigma3, SigmaD, Modulus float64
}

// DPRow is one derived row of the "Interface DP" sheet, in stored units
type DPRow struct {
	Cycles  float64
	Percent float64
}

// MRGrid returns an "Interface MR" grid: the eight inputs followed by the
// derived columns, with rows below the header.
func MRGrid(rows ...MRRow) [][]any {
	grid := [][]any{{"OT (%)", "IP", "25,4 mm", "9,5 mm", "4,76 mm", "2 mm", "0,42 mm", "0,074 mm", "σ3", "σd", "MR (MPa)"}}
	for _, r := range rows {
		grid = append(grid, []any{0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, r.Sigma3, r.SigmaD, r.Modulus})
	}
	return grid
}

// DPGrid returns an "Interface DP" grid with the seven inputs followed by
// the "Ciclos" and "DP (%)" columns.
func DPGrid(rows ...DPRow) [][]any {
	grid := [][]any{{"OT (%)", "Yd (max)", "#10 (%)", "#40 (%)", "#200 (%)", "σ3", "σd", "Ciclos", "DP (%)"}}
	for _, r := range rows {
		grid = append(grid, []any{0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, r.Cycles, r.Percent})
	}
	return grid
}
