package http

import (
	"bytes"
	"embed"
	"encoding/base64"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ensaio/internal/dataprocessing"
	apierrors "ensaio/internal/errors"
	"ensaio/internal/exporter"
	"ensaio/internal/middleware"
	"ensaio/internal/services"
	"ensaio/pkg/contracts/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageTitle is the heading of the simulation page
const PageTitle = "Simulação de Ensaio"

// FormHandler serves the browser form at /{mode}
type FormHandler struct {
	service      SimulationService
	errorHandler *apierrors.ErrorHandler
	page         *template.Template
	logger       *slog.Logger
}

type modeLink struct {
	Name   string
	Href   string
	Active bool
}

type fieldView struct {
	ID    string
	Label string
	Value string
}

type downloadView struct {
	Href     template.URL
	FileName string
	Label    string
}

type pageView struct {
	Title    string
	Subtitle string
	Action   string
	Modes    []modeLink
	Fields   []fieldView
	Table    *domain.Table
	Chart    *ChartView
	Download *downloadView
	Error    string
	Notice   string
	Warnings []string
}

// NewFormHandler parses the embedded page template
func NewFormHandler(service SimulationService, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *FormHandler {
	return &FormHandler{
		service:      service,
		errorHandler: errorHandler,
		page:         template.Must(template.ParseFS(templateFS, "templates/form.html")),
		logger:       logger.With(slog.String("handler", "form")),
	}
}

// Routes returns the page routes, to be mounted at the root
func (h *FormHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", RedirectToDefaultMode)
	r.Get("/{mode}", h.ShowForm)
	r.Post("/{mode}", h.Submit)
	return r
}

// RedirectToDefaultMode sends / to the MR form
func RedirectToDefaultMode(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/"+domain.ModeMR.Slug(), http.StatusFound)
}

// ShowForm handles GET /{mode}
func (h *FormHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
	mode, schema, ok := h.schema(w, r)
	if !ok {
		return
	}
	h.render(w, r, http.StatusOK, h.newPage(mode, schema, schema.Defaults()))
}

// Submit handles POST /{mode}
func (h *FormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	mode, schema, ok := h.schema(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, middleware.DefaultMaxBodySize)
	if err := r.ParseForm(); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	texts := schema.Defaults()
	form := make(map[string]string, len(schema.Fields))
	for i, label := range schema.Fields {
		if values, ok := r.PostForm[fieldID(i)]; ok && len(values) > 0 {
			texts[i] = values[0]
			form[label] = values[0]
		}
	}

	page := h.newPage(mode, schema, texts)
	result := h.service.RunForm(r.Context(), mode, form)
	if !result.OK() {
		page.Error = result.Message()
		if page.Error == "" {
			page.Error = services.ErrNoTable.Error()
		}
		h.render(w, r, statusFor(result.Kind()), page)
		return
	}

	page.Table = result.Table
	page.Warnings = result.Table.Warnings
	page.Chart = NewChartView(result.Table)

	data, err := h.service.Export(r.Context(), result.Table)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "workbook export failed",
			slog.String("mode", string(mode)),
			slog.String("error", err.Error()))
		page.Notice = "Não foi possível gerar o arquivo Excel."
	} else {
		page.Download = &downloadView{
			Href:     template.URL("data:" + exporter.ContentType + ";base64," + base64.StdEncoding.EncodeToString(data)),
			FileName: mode.ExportFileName(),
			Label:    "📥 Baixar resultados (Excel)",
		}
	}
	h.render(w, r, http.StatusOK, page)
}

func (h *FormHandler) schema(w http.ResponseWriter, r *http.Request) (domain.Mode, dataprocessing.Schema, bool) {
	mode, ok := domain.ParseMode(chi.URLParam(r, "mode"))
	if !ok {
		h.errorHandler.NotFound(w, r)
		return "", dataprocessing.Schema{}, false
	}
	schema, err := h.service.Schema(mode)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return "", dataprocessing.Schema{}, false
	}
	return mode, schema, true
}

func (h *FormHandler) newPage(mode domain.Mode, schema dataprocessing.Schema, texts []string) *pageView {
	page := &pageView{
		Title:    PageTitle,
		Subtitle: mode.DisplayName(),
		Action:   mode.ActionLabel(),
	}
	for _, m := range domain.Modes {
		page.Modes = append(page.Modes, modeLink{
			Name:   string(m) + " - " + m.DisplayName(),
			Href:   "/" + m.Slug(),
			Active: m == mode,
		})
	}
	for i, label := range schema.Fields {
		page.Fields = append(page.Fields, fieldView{ID: fieldID(i), Label: label, Value: texts[i]})
	}
	return page
}

// render executes into a buffer so a template failure still yields a clean 500
func (h *FormHandler) render(w http.ResponseWriter, r *http.Request, status int, page *pageView) {
	var buf bytes.Buffer
	if err := h.page.Execute(&buf, page); err != nil {
		h.logger.ErrorContext(r.Context(), "page render failed", slog.String("error", err.Error()))
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// fieldID is the form input name of the i-th field; labels are not valid names
func fieldID(i int) string {
	return "f" + strconv.Itoa(i)
}

func statusFor(kind services.ErrorKind) int {
	switch kind {
	case services.KindValidation:
		return http.StatusUnprocessableEntity
	case services.KindSchema, services.KindConversion, services.KindStore:
		return http.StatusBadGateway
	case services.KindMode:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
