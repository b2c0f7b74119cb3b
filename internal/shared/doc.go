// Package shared holds helpers used by the tests of several packages.
//
// The testutil subpackage provides:
//
//   - BufferedSlogHandler, an slog.Handler that captures records so tests can
//     assert on what a component logged
//   - result grid fixtures shaped like the "Interface MR" and "Interface DP"
//     sheets, ready to load into a sheetstore.MemoryStore
//
// Example usage:
//
//	logger, logs := testutil.NewTestLogger(t)
//	store := sheetstore.NewMemoryStore()
//	store.SetGrid("Interface DP", testutil.DPGrid(testutil.DPRow{Cycles: 100, Percent: 550}))
//	...
//	testutil.AssertLogContains(t, logs, slog.LevelInfo, "simulation completed")
//
// Nothing here is imported by production code.
package shared
