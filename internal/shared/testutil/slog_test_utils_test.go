package testutil

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures log records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("test message", slog.String("key", "value"))
		logger.Error("error message", slog.Int("code", 500))

		assert.Equal(t, 2, handler.Count())
		assert.True(t, handler.ContainsMessage("test message"))
		assert.True(t, handler.ContainsAttr("key", "value"))
		assert.Len(t, handler.GetRecordsByLevel(slog.LevelError), 1)
	})

	t.Run("keeps attrs from With", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With(slog.String("component", "simulation")).
			WithGroup("store").
			Info("read", slog.String("sheet", "Interface DP"))

		records := handler.GetRecords()
		require.Len(t, records, 1)
		assert.Equal(t, "simulation", records[0].Attrs["component"])
		assert.Equal(t, "Interface DP", records[0].Attrs["store.sheet"])
	})

	t.Run("clear", func(t *testing.T) {
		logger, handler := NewTestLogger(t)
		logger.Info("message 1")
		logger.Info("message 2")

		handler.Clear()
		assert.Zero(t, handler.Count())
	})

	t.Run("assertion helpers", func(t *testing.T) {
		logger, handler := NewTestLogger(t)
		logger.Info("important message", slog.String("component", "test"))

		AssertLogContains(t, handler, slog.LevelInfo, "important")
		AssertLogAttr(t, handler, "component", "test")
		AssertNoErrors(t, handler)
	})

	t.Run("concurrent logging", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				logger.Info("concurrent log", slog.Int("goroutine", n))
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 10, handler.Count())
	})
}

func TestGrids(t *testing.T) {
	mr := MRGrid(MRRow{Sigma3: 2500, SigmaD: 1500, Modulus: 12000})
	require.Len(t, mr, 2)
	assert.Len(t, mr[1], len(mr[0]))
	assert.Equal(t, "MR (MPa)", mr[0][10])

	dp := DPGrid(DPRow{Cycles: 100, Percent: 550}, DPRow{Cycles: 200, Percent: 610})
	require.Len(t, dp, 3)
	assert.Equal(t, 200.0, dp[2][7])
}
