package sheetstore

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ensaio/internal/infrastructure"
	"ensaio/pkg/contracts/domain"
)

// Instrumented decorates a RecordStore with a span and a latency sample per call
type Instrumented struct {
	next    RecordStore
	tracer  trace.Tracer
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
}

// NewInstrumented wraps next. metrics may be nil.
func NewInstrumented(next RecordStore, tracer trace.Tracer, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *Instrumented {
	return &Instrumented{
		next:    next,
		tracer:  tracer,
		metrics: metrics,
		logger:  logger.With(slog.String("component", "sheetstore")),
	}
}

// Update traces and forwards the write
func (s *Instrumented) Update(ctx context.Context, sheet, a1Range string, values [][]any) error {
	return s.trace(ctx, OpUpdate, sheet, func(ctx context.Context) error {
		return s.next.Update(ctx, sheet, a1Range, values)
	}, attribute.String("sheets.range", a1Range))
}

// GetAllRecords traces and forwards the read
func (s *Instrumented) GetAllRecords(ctx context.Context, sheet string) (*domain.Records, error) {
	var records *domain.Records
	err := s.trace(ctx, OpGetAllRecords, sheet, func(ctx context.Context) error {
		var err error
		records, err = s.next.GetAllRecords(ctx, sheet)
		if err == nil {
			trace.SpanFromContext(ctx).SetAttributes(attribute.Int("sheets.rows", records.Len()))
		}
		return err
	})
	return records, err
}

// Ping forwards to the wrapped store when it is a Pinger
func (s *Instrumented) Ping(ctx context.Context) error {
	p, ok := s.next.(Pinger)
	if !ok {
		return nil
	}
	return s.trace(ctx, OpPing, "", p.Ping)
}

func (s *Instrumented) trace(ctx context.Context, op, sheet string, fn func(context.Context) error, attrs ...attribute.KeyValue) error {
	ctx, span := s.tracer.Start(ctx, "sheets."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(append(attrs,
			attribute.String("sheets.operation", op),
			attribute.String("sheets.sheet", sheet),
		)...),
	)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start)

	infrastructure.RecordStoreCall(ctx, s.metrics, op, duration, err)
	span.SetAttributes(
		attribute.Float64("sheets.duration_ms", float64(duration.Milliseconds())),
		attribute.Bool("sheets.success", err == nil),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.WarnContext(ctx, "record store call failed",
			slog.String("op", op),
			slog.String("sheet", sheet),
			slog.String("error", err.Error()),
			slog.Duration("duration", duration))
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}
