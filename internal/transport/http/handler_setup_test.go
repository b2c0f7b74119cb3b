package http

import (
	"io"
	"log/slog"
	"testing"

	apierrors "ensaio/internal/errors"
	"ensaio/internal/middleware"
	"ensaio/internal/services"
	"ensaio/internal/sheetstore"
	"ensaio/internal/shared/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newMemoryService returns a simulation service over a store holding one MR
// row and two DP rows
func newMemoryService(t *testing.T) (*services.SimulationService, *sheetstore.MemoryStore) {
	t.Helper()
	store := sheetstore.NewMemoryStore()
	store.SetGrid("Interface MR", testutil.MRGrid(testutil.MRRow{Sigma3: 2500, SigmaD: 1500, Modulus: 12000}))
	store.SetGrid("Interface DP", testutil.DPGrid(
		testutil.DPRow{Cycles: 1000, Percent: 550},
		testutil.DPRow{Cycles: 2000, Percent: 612.345678},
	))
	return services.NewSimulationService(store, discardLogger()), store
}

func newAPIHandler(service SimulationService) *SimulationHandler {
	logger := discardLogger()
	errorHandler := apierrors.NewErrorHandler(logger, false)
	return NewSimulationHandler(service, middleware.NewValidationMiddleware(logger, errorHandler), errorHandler, logger)
}
