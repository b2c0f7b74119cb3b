package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"ensaio/internal/dataprocessing"
	apierrors "ensaio/internal/errors"
	"ensaio/internal/exporter"
	"ensaio/internal/middleware"
	"ensaio/internal/services"
	api "ensaio/pkg/contracts/api/v1"
	"ensaio/pkg/contracts/domain"
)

// SimulationService is the part of services.SimulationService the handlers use
type SimulationService interface {
	Schema(mode domain.Mode) (dataprocessing.Schema, error)
	Run(ctx context.Context, mode domain.Mode, texts []string) *services.Result
	RunForm(ctx context.Context, mode domain.Mode, form map[string]string) *services.Result
	Export(ctx context.Context, table *domain.Table) ([]byte, error)
}

// SimulationHandler serves the JSON simulation API
type SimulationHandler struct {
	service      SimulationService
	validator    *middleware.ValidationMiddleware
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewSimulationHandler creates a new simulation handler
func NewSimulationHandler(service SimulationService, validator *middleware.ValidationMiddleware, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *SimulationHandler {
	return &SimulationHandler{
		service:      service,
		validator:    validator,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "simulation")),
	}
}

// Routes returns the submission routes, to be mounted at /api/simulations.
// GetSchema is registered separately at /api/schemas/{mode}.
// Body checks are attached per route so other methods still get 405.
func (h *SimulationHandler) Routes() chi.Router {
	r := chi.NewRouter()
	body := r.With(middleware.ContentTypeValidator("application/json"), h.validator.ValidateRequest)
	body.Post("/{mode}", h.Simulate)
	body.Post("/{mode}/export", h.Export)
	return r
}

// Simulate handles POST /api/simulations/{mode}
func (h *SimulationHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	result, ok := h.submit(w, r)
	if !ok {
		return
	}

	render.JSON(w, r, api.SimulationResponse{
		Status: "success",
		Mode:   result.Mode,
		Table:  result.Table,
		Count:  len(result.Table.Rows),
	})
}

// Export handles POST /api/simulations/{mode}/export
func (h *SimulationHandler) Export(w http.ResponseWriter, r *http.Request) {
	result, ok := h.submit(w, r)
	if !ok {
		return
	}

	data, err := h.service.Export(r.Context(), result.Table)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", exporter.ContentType)
	w.Header().Set("Content-Disposition", exporter.Disposition(result.Mode))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.WarnContext(r.Context(), "export write failed",
			slog.String("mode", string(result.Mode)),
			slog.String("error", err.Error()))
	}
}

// GetSchema handles GET /api/schemas/{mode}
func (h *SimulationHandler) GetSchema(w http.ResponseWriter, r *http.Request) {
	mode, ok := h.mode(w, r)
	if !ok {
		return
	}

	schema, err := h.service.Schema(mode)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	fields := make([]api.SchemaField, len(schema.Fields))
	for i, label := range schema.Fields {
		fields[i] = api.SchemaField{Position: i + 1, Label: label, Default: dataprocessing.DefaultInput}
	}
	render.JSON(w, r, api.SchemaResponse{
		Mode:        mode,
		DisplayName: mode.DisplayName(),
		Sheet:       schema.Sheet,
		Range:       schema.Range,
		Fields:      fields,
		Outputs:     schema.Outputs,
	})
}

// submit decodes, validates and runs a submission, writing the problem
// response itself when anything fails
func (h *SimulationHandler) submit(w http.ResponseWriter, r *http.Request) (*services.Result, bool) {
	mode, ok := h.mode(w, r)
	if !ok {
		return nil, false
	}

	var req api.SimulationRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return nil, false
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return nil, false
	}

	var result *services.Result
	if req.Fields != nil {
		result = h.service.Run(r.Context(), mode, req.Fields)
	} else {
		result = h.service.RunForm(r.Context(), mode, req.Values)
	}
	if !result.OK() {
		err := result.Err
		if err == nil {
			err = services.ErrNoTable
		}
		h.errorHandler.HandleError(w, r, err)
		return nil, false
	}
	return result, true
}

func (h *SimulationHandler) mode(w http.ResponseWriter, r *http.Request) (domain.Mode, bool) {
	mode, ok := domain.ParseMode(chi.URLParam(r, "mode"))
	if !ok {
		h.errorHandler.HandleError(w, r, dataprocessing.ErrUnknownMode)
		return "", false
	}
	return mode, true
}
