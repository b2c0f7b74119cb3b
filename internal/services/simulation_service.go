package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ensaio/internal/dataprocessing"
	"ensaio/internal/exporter"
	"ensaio/internal/infrastructure"
	"ensaio/internal/sheetstore"
	"ensaio/pkg/contracts/domain"
)

// ErrorKind classifies why a submission failed
type ErrorKind string

const (
	KindNone       ErrorKind = ""
	KindValidation ErrorKind = "validation"
	KindSchema     ErrorKind = "schema"
	KindConversion ErrorKind = "conversion"
	KindStore      ErrorKind = "store"
	KindMode       ErrorKind = "mode"
	KindInternal   ErrorKind = "internal"
)

// Result is the outcome of one submission: a table or an error, never both
type Result struct {
	Mode  domain.Mode
	Table *domain.Table
	Err   error
}

// OK reports whether the submission produced a table
func (r *Result) OK() bool {
	return r != nil && r.Err == nil && r.Table != nil
}

// Kind returns the class of r.Err, or KindNone on success
func (r *Result) Kind() ErrorKind {
	if r == nil || r.Err == nil {
		return KindNone
	}
	return classify(r.Err)
}

// Message is the text shown to the user for a failed submission
func (r *Result) Message() string {
	switch r.Kind() {
	case KindNone:
		return ""
	case KindStore:
		return "Falha ao acessar a planilha. Tente novamente."
	case KindInternal:
		return "Erro inesperado ao processar a simulação."
	}
	return r.Err.Error()
}

func classify(err error) ErrorKind {
	var (
		validationErr *dataprocessing.ValidationError
		schemaErr     *dataprocessing.SchemaError
		conversionErr *dataprocessing.ConversionError
		storeErr      *sheetstore.StoreError
	)
	switch {
	case errors.As(err, &validationErr), errors.Is(err, dataprocessing.ErrFieldCount):
		return KindValidation
	case errors.As(err, &schemaErr):
		return KindSchema
	case errors.As(err, &conversionErr):
		return KindConversion
	case errors.As(err, &storeErr):
		return KindStore
	case errors.Is(err, dataprocessing.ErrUnknownMode):
		return KindMode
	}
	return KindInternal
}

// SimulationService runs the write-then-read round trip of a submission.
//
// Every submission of a mode overwrites the same input range and then reads
// the whole result sheet. Two submissions of the same mode running at once,
// from this process or any other client of the spreadsheet, may read each
// other's results. Nothing here locks or versions the range; deployments are
// expected to have one writer at a time.
type SimulationService struct {
	store   sheetstore.RecordStore
	schemas map[domain.Mode]dataprocessing.Schema
	tracer  trace.Tracer
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
}

// SimulationOption configures a SimulationService
type SimulationOption func(*SimulationService)

// WithSheetNames overrides the sheets used by each mode; empty keeps the default
func WithSheetNames(mrSheet, dpSheet string) SimulationOption {
	return func(s *SimulationService) {
		s.schemas[domain.ModeMR] = s.schemas[domain.ModeMR].WithSheet(mrSheet)
		s.schemas[domain.ModeDP] = s.schemas[domain.ModeDP].WithSheet(dpSheet)
	}
}

// WithTelemetry sets the tracer and metrics; metrics may be nil
func WithTelemetry(tracer trace.Tracer, metrics *infrastructure.BusinessMetrics) SimulationOption {
	return func(s *SimulationService) {
		if tracer != nil {
			s.tracer = tracer
		}
		s.metrics = metrics
	}
}

// NewSimulationService creates a service writing to and reading from store
func NewSimulationService(store sheetstore.RecordStore, logger *slog.Logger, opts ...SimulationOption) *SimulationService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &SimulationService{
		store: store,
		schemas: map[domain.Mode]dataprocessing.Schema{
			domain.ModeMR: dataprocessing.MRSchema.WithSheet(""),
			domain.ModeDP: dataprocessing.DPSchema.WithSheet(""),
		},
		tracer: otel.Tracer("ensaio/services"),
		logger: logger.With(slog.String("component", "simulation_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schema returns the input layout used for mode
func (s *SimulationService) Schema(mode domain.Mode) (dataprocessing.Schema, error) {
	schema, ok := s.schemas[mode]
	if !ok {
		return dataprocessing.Schema{}, dataprocessing.ErrUnknownMode
	}
	return schema.WithSheet(""), nil
}

// Run parses texts in field order and performs the round trip
func (s *SimulationService) Run(ctx context.Context, mode domain.Mode, texts []string) *Result {
	return s.run(ctx, mode, func(schema dataprocessing.Schema) ([]float64, error) {
		return dataprocessing.ParseFields(schema, texts)
	})
}

// RunForm parses texts keyed by field label and performs the round trip
func (s *SimulationService) RunForm(ctx context.Context, mode domain.Mode, form map[string]string) *Result {
	return s.run(ctx, mode, func(schema dataprocessing.Schema) ([]float64, error) {
		return dataprocessing.ParseForm(schema, form)
	})
}

func (s *SimulationService) run(ctx context.Context, mode domain.Mode, parse func(dataprocessing.Schema) ([]float64, error)) *Result {
	ctx, span := s.tracer.Start(ctx, "simulation.run",
		trace.WithAttributes(attribute.String("simulation.mode", string(mode))))
	defer span.End()

	start := time.Now()
	result := &Result{Mode: mode}
	result.Table, result.Err = s.roundTrip(ctx, mode, parse)
	if result.Err != nil {
		result.Table = nil
	}

	outcome := string(result.Kind())
	if outcome == "" {
		outcome = "success"
	}
	duration := time.Since(start)
	infrastructure.RecordSimulation(ctx, s.metrics, string(mode), outcome, duration)
	span.SetAttributes(attribute.String("simulation.outcome", outcome))

	if result.Err != nil {
		span.RecordError(result.Err)
		span.SetStatus(codes.Error, result.Err.Error())
		level := slog.LevelWarn
		if k := result.Kind(); k == KindStore || k == KindInternal {
			level = slog.LevelError
		}
		s.logger.Log(ctx, level, "simulation failed",
			slog.String("mode", string(mode)),
			slog.String("kind", outcome),
			slog.String("error", result.Err.Error()),
			slog.Duration("duration", duration))
		return result
	}

	span.SetAttributes(attribute.Int("simulation.rows", len(result.Table.Rows)))
	span.SetStatus(codes.Ok, "")
	for _, w := range result.Table.Warnings {
		s.logger.WarnContext(ctx, "simulation data warning",
			slog.String("mode", string(mode)),
			slog.String("warning", w))
	}
	s.logger.InfoContext(ctx, "simulation completed",
		slog.String("mode", string(mode)),
		slog.Int("rows", len(result.Table.Rows)),
		slog.Duration("duration", duration))
	return result
}

// roundTrip parses, writes the input row, reads the result sheet back and
// converts it. Nothing is written unless every field parses.
func (s *SimulationService) roundTrip(ctx context.Context, mode domain.Mode, parse func(dataprocessing.Schema) ([]float64, error)) (*domain.Table, error) {
	schema, err := s.Schema(mode)
	if err != nil {
		return nil, err
	}

	values, err := parse(schema)
	if err != nil {
		return nil, err
	}
	row, err := schema.BuildRow(values)
	if err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, schema.Sheet, schema.Range, [][]any{row}); err != nil {
		return nil, asStoreError(sheetstore.OpUpdate, schema.Sheet, err)
	}

	records, err := s.store.GetAllRecords(ctx, schema.Results)
	if err != nil {
		return nil, asStoreError(sheetstore.OpGetAllRecords, schema.Results, err)
	}

	table, err := dataprocessing.Convert(mode, records)
	if err != nil {
		var schemaErr *dataprocessing.SchemaError
		if errors.As(err, &schemaErr) {
			schemaErr.Sheet = schema.Results
		}
		return nil, err
	}
	return table, nil
}

// Export renders a successful table as a workbook
func (s *SimulationService) Export(ctx context.Context, table *domain.Table) ([]byte, error) {
	_, span := s.tracer.Start(ctx, "simulation.export")
	defer span.End()

	data, err := exporter.Export(table)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	infrastructure.RecordExport(ctx, s.metrics, string(table.Mode), len(data))
	span.SetAttributes(attribute.Int("export.bytes", len(data)))
	return data, nil
}

func asStoreError(op, sheet string, err error) error {
	var storeErr *sheetstore.StoreError
	if errors.As(err, &storeErr) {
		return err
	}
	return &sheetstore.StoreError{Op: op, Sheet: sheet, Err: err}
}
