package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"ensaio/internal/sheetstore"
	"ensaio/pkg/contracts/domain"
)

type pingStore struct {
	sheetstore.RecordStore
	err error
}

func (p pingStore) Ping(context.Context) error { return p.err }

func TestReadinessCheck(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		store   sheetstore.RecordStore
		offline bool
		want    string
	}{
		{"no store", nil, false, "not_ready"},
		{"offline", sheetstore.NewMemoryStore(), true, "ready"},
		{"store without ping", sheetstore.NewMemoryStore(), false, "ready"},
		{"ping ok", pingStore{}, false, "ready"},
		{"ping fails", pingStore{err: errors.New("403")}, false, "not_ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs := NewHealthService("1.0.0", "", tt.store, tt.offline, nil)
			status := hs.ReadinessCheck(ctx)
			assert.Equal(t, tt.want, status.Status)
			assert.Contains(t, status.Services, "record_store")
		})
	}
}

func TestHealthAndLiveness(t *testing.T) {
	hs := NewHealthService("1.2.3", "2026-01-01", sheetstore.NewMemoryStore(), true, nil)

	assert.Equal(t, "ok", hs.HealthCheck(context.Background()).Status)

	live := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", live.Status)
	assert.Contains(t, live.Runtime, "goroutines")

	v := hs.Version()
	assert.Equal(t, "1.2.3", v["version"])
	assert.Equal(t, "2026-01-01", v["build_time"])
	assert.Equal(t, true, v["offline"])
	assert.Equal(t, "v1", v["api_version"])
	assert.NotContains(t, v, "git_commit")
}

func TestResultHelpers(t *testing.T) {
	var nilResult *Result
	assert.False(t, nilResult.OK())
	assert.Equal(t, KindNone, nilResult.Kind())

	r := &Result{Mode: domain.ModeMR, Err: errors.New("boom")}
	assert.Equal(t, KindInternal, r.Kind())
	assert.Equal(t, "Erro inesperado ao processar a simulação.", r.Message())
}
