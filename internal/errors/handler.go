package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"ensaio/internal/dataprocessing"
	"ensaio/internal/sheetstore"
)

// Common error types following RFC 7807
const (
	TypeValidation  = "/errors/validation"
	TypeNotFound    = "/errors/not-found"
	TypeRateLimit   = "/errors/rate-limit"
	TypeInternal    = "/errors/internal"
	TypeServiceDown = "/errors/service-unavailable"
	TypeTimeout     = "/errors/timeout"
	TypeBadRequest  = "/errors/bad-request"
)

// Simulation error types
const (
	TypeSchema      = "/errors/schema"
	TypeConversion  = "/errors/conversion"
	TypeStore       = "/errors/store"
	TypeUnknownMode = "/errors/unknown-mode"
)

// ErrorHandler provides centralized error handling
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError converts any error to RFC 7807 format and responds
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	reqID := middleware.GetReqID(r.Context())
	problem := h.ErrorToProblem(err, r)

	level := slog.LevelWarn
	if problem.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, "request failed",
		slog.String("error", err.Error()),
		slog.String("problem_type", problem.Type),
		slog.Int("status", problem.Status),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	problem.WithExtension("trace_id", reqID)
	if h.includeStack && problem.Status >= http.StatusInternalServerError {
		problem.WithExtension("stack", getStackTrace())
	}

	render.Render(w, r, problem)
}

// ErrorToProblem converts an error to RFC 7807 Problem Details.
// Simulation errors keep their user-facing message as the detail.
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	path := r.URL.Path

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewProblemDetails(
			http.StatusGatewayTimeout,
			TypeTimeout,
			"Request Timeout",
			"The request took too long to process and was cancelled",
			path,
		)
	}

	var (
		validationErr *dataprocessing.ValidationError
		schemaErr     *dataprocessing.SchemaError
		conversionErr *dataprocessing.ConversionError
		storeErr      *sheetstore.StoreError
		apiErr        *APIError
	)

	switch {
	case errors.As(err, &validationErr):
		return NewProblemDetails(
			http.StatusUnprocessableEntity,
			TypeValidation,
			"Invalid Input",
			validationErr.Error(),
			path,
		).WithExtension("field", validationErr.Field)

	case errors.As(err, &schemaErr):
		problem := NewProblemDetails(
			http.StatusBadGateway,
			TypeSchema,
			"Result Columns Missing",
			schemaErr.Error(),
			path,
		).WithExtension("expected", schemaErr.Expected).
			WithExtension("sheet", schemaErr.Sheet)
		if schemaErr.Duplicate != "" {
			problem.WithExtension("duplicate", schemaErr.Duplicate)
		}
		return problem

	case errors.As(err, &conversionErr):
		return NewProblemDetails(
			http.StatusBadGateway,
			TypeConversion,
			"Result Value Not Numeric",
			conversionErr.Error(),
			path,
		).WithExtension("column", conversionErr.Column).
			WithExtension("row", conversionErr.Row)

	case errors.As(err, &storeErr):
		return NewProblemDetails(
			http.StatusBadGateway,
			TypeStore,
			"Record Store Unavailable",
			"Falha ao acessar a planilha. Tente novamente.",
			path,
		).WithExtension("operation", storeErr.Op).
			WithExtension("sheet", storeErr.Sheet)

	case errors.Is(err, dataprocessing.ErrUnknownMode):
		return h.apiErrorToProblem(ErrUnknownMode, r)

	case errors.Is(err, dataprocessing.ErrFieldCount):
		return NewProblemDetails(
			http.StatusUnprocessableEntity,
			TypeValidation,
			"Invalid Input",
			err.Error(),
			path,
		)

	case errors.As(err, &apiErr):
		return h.apiErrorToProblem(apiErr, r)
	}

	return NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred while processing your request",
		path,
	)
}

// apiErrorToProblem converts APIError to ProblemDetails
func (h *ErrorHandler) apiErrorToProblem(apiErr *APIError, r *http.Request) *ProblemDetails {
	problemType := TypeInternal
	switch apiErr.ErrorCode {
	case "VALIDATION_FAILED":
		problemType = TypeValidation
	case "INVALID_REQUEST":
		problemType = TypeBadRequest
	case "NOT_FOUND":
		problemType = TypeNotFound
	case "UNKNOWN_MODE":
		problemType = TypeUnknownMode
	case "RATE_LIMIT_EXCEEDED":
		problemType = TypeRateLimit
	case "SERVICE_UNAVAILABLE":
		problemType = TypeServiceDown
	}

	problem := NewProblemDetails(
		apiErr.StatusCode,
		problemType,
		http.StatusText(apiErr.StatusCode),
		apiErr.Message,
		r.URL.Path,
	).WithExtension("error_code", apiErr.ErrorCode)

	if apiErr.Details != nil {
		problem.WithExtension("details", apiErr.Details)
	}

	return problem
}

// HandlePanic logs a recovered panic value and responds with an RFC 7807 500.
// middleware.Recoverer calls it.
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered interface{}) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.ErrorContext(r.Context(), "panic recovered",
		slog.Any("panic", recovered),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("stack", string(debug.Stack())),
	)

	problem := NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred",
		r.URL.Path,
	).WithExtension("trace_id", reqID)

	if h.includeStack {
		problem.WithExtension("panic", fmt.Sprintf("%v", recovered))
		problem.WithExtension("stack", getStackTrace())
	}

	render.Render(w, r, problem)
}

// NotFound returns a standard 404 error
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	problem := NewProblemDetails(
		http.StatusNotFound,
		TypeNotFound,
		"Not Found",
		"The requested resource was not found",
		r.URL.Path,
	).WithExtension("trace_id", middleware.GetReqID(r.Context()))

	render.Render(w, r, problem)
}

// MethodNotAllowed returns a standard 405 error
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	problem := NewProblemDetails(
		http.StatusMethodNotAllowed,
		TypeBadRequest,
		"Method Not Allowed",
		fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method),
		r.URL.Path,
	).WithExtension("trace_id", middleware.GetReqID(r.Context()))

	render.Render(w, r, problem)
}

// getStackTrace returns the current stack trace
func getStackTrace() string {
	buf := make([]byte, 1024*8)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}

// JSON helper for consistent JSON responses
func (h *ErrorHandler) JSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	render.Status(r, status)
	render.JSON(w, r, v)
}
