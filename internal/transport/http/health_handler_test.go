package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "ensaio/internal/errors"
	"ensaio/internal/services"
	"ensaio/internal/sheetstore"
	"ensaio/pkg/contracts/domain"
)

// pingStore is a record store whose Ping result is fixed
type pingStore struct {
	*sheetstore.MemoryStore
	err error
}

func (p *pingStore) Ping(ctx context.Context) error { return p.err }

func healthRoutes(store sheetstore.RecordStore, offline bool) http.Handler {
	logger := discardLogger()
	svc := services.NewHealthService("1.2.3", "2026-01-01", store, offline, logger)
	return NewHealthHandler(svc, logger).Routes()
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthHandler_Endpoints(t *testing.T) {
	h := healthRoutes(sheetstore.NewMemoryStore(), false)

	tests := []struct {
		path   string
		status string
	}{
		{"/", "ok"},
		{"/live", "alive"},
		{"/ready", "ready"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(h, tt.path)
			require.Equal(t, http.StatusOK, rec.Code)
			var body services.HealthStatus
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body.Status)
			assert.Equal(t, "1.2.3", body.Version)
		})
	}
}

func TestHealthHandler_NotReady(t *testing.T) {
	store := &pingStore{MemoryStore: sheetstore.NewMemoryStore(), err: errors.New("forbidden")}
	h := healthRoutes(store, false)

	rec := get(h, "/ready")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body services.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not_ready", body.Status)
}

func TestHealthHandler_ReadyWhenPingSucceeds(t *testing.T) {
	h := healthRoutes(&pingStore{MemoryStore: sheetstore.NewMemoryStore()}, false)
	assert.Equal(t, http.StatusOK, get(h, "/ready").Code)
}

func TestHealthHandler_Version(t *testing.T) {
	logger := discardLogger()
	svc := services.NewHealthService("1.2.3", "2026-01-01", sheetstore.NewOfflineStore("", ""), true, logger)
	h := http.HandlerFunc(NewHealthHandler(svc, logger).Version)

	rec := get(h, "/api/version")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "1.2.3", body["version"])
	assert.Equal(t, "2026-01-01", body["build_time"])
	assert.Equal(t, true, body["offline"])
}

func TestMetricsHandler(t *testing.T) {
	errorHandler := apierrors.NewErrorHandler(discardLogger(), false)

	disabled := NewMetricsHandler(nil, errorHandler)
	assert.False(t, disabled.Enabled())
	assert.Equal(t, http.StatusNotFound, get(disabled, "/metrics").Code)

	exporter := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ensaio_simulations_total{mode=\"" + string(domain.ModeMR) + "\"} 1\n"))
	})
	enabled := NewMetricsHandler(exporter, errorHandler)
	assert.True(t, enabled.Enabled())
	rec := get(enabled, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ensaio_simulations_total")
}
