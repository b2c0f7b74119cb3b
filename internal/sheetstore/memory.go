package sheetstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"ensaio/pkg/contracts/domain"
)

// Formula recomputes a sheet's grid after each write, the way spreadsheet
// formulas would. It receives a copy and returns the grid to keep.
type Formula func(grid [][]any) [][]any

// MemoryStore is an in-process RecordStore holding one grid per sheet
type MemoryStore struct {
	mu       sync.Mutex
	grids    map[string][][]any
	formulas map[string]Formula

	// UpdateErr and GetErr, when set, make the matching call fail
	UpdateErr error
	GetErr    error

	updates int
}

// NewMemoryStore returns an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		grids:    make(map[string][][]any),
		formulas: make(map[string]Formula),
	}
}

// SetGrid replaces the content of sheet; row 0 is the header row
func (m *MemoryStore) SetGrid(sheet string, grid [][]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grids[sheet] = copyGrid(grid)
}

// SetFormula installs the recompute hook of sheet
func (m *MemoryStore) SetFormula(sheet string, f Formula) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.formulas[sheet] = f
}

// Grid returns a copy of the current content of sheet
func (m *MemoryStore) Grid(sheet string) [][]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyGrid(m.grids[sheet])
}

// Updates returns how many successful Update calls were made
func (m *MemoryStore) Updates() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updates
}

// Update writes values starting at the top-left cell of a1Range
func (m *MemoryStore) Update(ctx context.Context, sheet, a1Range string, values [][]any) error {
	if err := ctx.Err(); err != nil {
		return &StoreError{Op: OpUpdate, Sheet: sheet, Err: err}
	}
	if m.UpdateErr != nil {
		return &StoreError{Op: OpUpdate, Sheet: sheet, Err: m.UpdateErr}
	}

	col, row, err := topLeft(a1Range)
	if err != nil {
		return &StoreError{Op: OpUpdate, Sheet: sheet, Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	grid := m.grids[sheet]
	for r, line := range values {
		for len(grid) <= row+r {
			grid = append(grid, nil)
		}
		for c, v := range line {
			for len(grid[row+r]) <= col+c {
				grid[row+r] = append(grid[row+r], "")
			}
			grid[row+r][col+c] = v
		}
	}
	if f := m.formulas[sheet]; f != nil {
		grid = f(copyGrid(grid))
	}
	m.grids[sheet] = grid
	m.updates++
	return nil
}

// GetAllRecords returns the records of sheet; an unknown sheet is an error
func (m *MemoryStore) GetAllRecords(ctx context.Context, sheet string) (*domain.Records, error) {
	if err := ctx.Err(); err != nil {
		return nil, &StoreError{Op: OpGetAllRecords, Sheet: sheet, Err: err}
	}
	if m.GetErr != nil {
		return nil, &StoreError{Op: OpGetAllRecords, Sheet: sheet, Err: m.GetErr}
	}

	m.mu.Lock()
	grid, ok := m.grids[sheet]
	grid = copyGrid(grid)
	m.mu.Unlock()

	if !ok {
		return nil, &StoreError{Op: OpGetAllRecords, Sheet: sheet, Err: fmt.Errorf("sheet not found")}
	}

	records, err := RecordsFromRows(grid)
	if err != nil {
		return nil, &StoreError{Op: OpGetAllRecords, Sheet: sheet, Err: err}
	}
	return records, nil
}

// topLeft returns the zero-based column and row of the first cell of a range
func topLeft(a1Range string) (int, int, error) {
	start, _, _ := strings.Cut(strings.ToUpper(strings.TrimSpace(a1Range)), ":")
	i := 0
	col := 0
	for i < len(start) && start[i] >= 'A' && start[i] <= 'Z' {
		col = col*26 + int(start[i]-'A'+1)
		i++
	}
	if i == 0 || i == len(start) {
		return 0, 0, fmt.Errorf("invalid range %q", a1Range)
	}
	row, err := strconv.Atoi(start[i:])
	if err != nil || row < 1 {
		return 0, 0, fmt.Errorf("invalid range %q", a1Range)
	}
	return col - 1, row - 1, nil
}

func copyGrid(grid [][]any) [][]any {
	if grid == nil {
		return nil
	}
	out := make([][]any, len(grid))
	for i, row := range grid {
		out[i] = append([]any(nil), row...)
	}
	return out
}
