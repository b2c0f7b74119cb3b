package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"ensaio/internal/sheetstore"
	"ensaio/pkg/contracts"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	offline   bool
	store     sheetstore.RecordStore
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// NewHealthService creates a health service. store is pinged by
// ReadinessCheck when it implements sheetstore.Pinger.
func NewHealthService(version, buildTime string, store sheetstore.RecordStore, offline bool, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		buildTime: buildTime,
		offline:   offline,
		store:     store,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck reports ready when the record store answers
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	store := hs.checkStore(ctx)
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  map[string]interface{}{"record_store": store},
	}
	if store.Status != "ready" {
		status.Status = "not_ready"
	}
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":    hs.version,
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"offline":    hs.offline,
		"uptime":     time.Since(hs.startTime).Seconds(),
		"start_time": hs.startTime.Format(time.RFC3339),
	}
	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}
	if info := contracts.GetVersionInfo(); info.GitCommit != "unknown" {
		result["git_commit"] = info.GitCommit
	}
	result["api_version"] = contracts.APIVersion
	return result
}

func (hs *HealthService) checkStore(ctx context.Context) ServiceHealth {
	if hs.store == nil {
		return ServiceHealth{Status: "not_ready", Message: "record store not configured"}
	}
	if hs.offline {
		return ServiceHealth{Status: "ready", Message: "offline in-memory store"}
	}

	pinger, ok := hs.store.(sheetstore.Pinger)
	if !ok {
		return ServiceHealth{Status: "ready"}
	}

	start := time.Now()
	if err := pinger.Ping(ctx); err != nil {
		hs.logger.WarnContext(ctx, "record store ping failed", slog.String("error", err.Error()))
		return ServiceHealth{Status: "not_ready", Message: ErrStoreNotReady.Error()}
	}
	return ServiceHealth{Status: "ready", Latency: time.Since(start).String()}
}
