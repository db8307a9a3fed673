package metrics_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dgonzalez/nutrify/internal/domain"
	"github.com/dgonzalez/nutrify/internal/metrics"
)

func usage(total int) domain.Usage {
	return domain.Usage{
		PromptTokens:     total / 2,
		CompletionTokens: total - total/2,
		TotalTokens:      total,
	}
}

func TestStore_Record(t *testing.T) {
	t.Run("accumulates totals across calls", func(t *testing.T) {
		store := metrics.NewStore()

		store.Record("llama-3.3-70b-versatile", usage(100), 120*time.Millisecond)
		store.Record("llama-3.3-70b-versatile", usage(200), 80*time.Millisecond)
		store.Record("llama-3.1-8b-instant", usage(50), 40*time.Millisecond)

		stats := store.Snapshot()

		require.Equal(t, 3, stats.TotalCalls)
		require.Equal(t, 350, stats.TotalTokens)
		require.Equal(t, int64(240), stats.TotalTimeMs)
		require.Equal(t, int64(80), stats.AvgTimePerCall)
		require.Len(t, stats.LastCalls, 3)
	})

	t.Run("tracks per-model buckets", func(t *testing.T) {
		store := metrics.NewStore()

		store.Record("model-a", usage(100), 100*time.Millisecond)
		store.Record("model-a", usage(150), 50*time.Millisecond)
		store.Record("model-b", usage(30), 30*time.Millisecond)

		stats := store.Snapshot()

		require.Equal(t, domain.ModelStats{Calls: 2, Tokens: 250, TimeMs: 150}, stats.ByModel["model-a"])
		require.Equal(t, domain.ModelStats{Calls: 1, Tokens: 30, TimeMs: 30}, stats.ByModel["model-b"])
	})

	t.Run("keeps last calls most-recent-first", func(t *testing.T) {
		store := metrics.NewStore()

		store.Record("first", usage(10), time.Millisecond)
		store.Record("second", usage(10), time.Millisecond)
		store.Record("third", usage(10), time.Millisecond)

		stats := store.Snapshot()

		require.Equal(t, "third", stats.LastCalls[0].Model)
		require.Equal(t, "second", stats.LastCalls[1].Model)
		require.Equal(t, "first", stats.LastCalls[2].Model)
	})

	t.Run("evicts oldest entries beyond ten", func(t *testing.T) {
		store := metrics.NewStore()

		for i := 1; i <= 11; i++ {
			store.Record(fmt.Sprintf("call-%d", i), usage(10), time.Millisecond)
		}

		stats := store.Snapshot()

		require.Len(t, stats.LastCalls, 10)
		require.Equal(t, "call-11", stats.LastCalls[0].Model)
		require.Equal(t, "call-2", stats.LastCalls[9].Model)
		for _, record := range stats.LastCalls {
			require.NotEqual(t, "call-1", record.Model)
		}
	})

	t.Run("records prompt and completion token split", func(t *testing.T) {
		store := metrics.NewStore()

		store.Record("model-a", domain.Usage{PromptTokens: 70, CompletionTokens: 30, TotalTokens: 100}, time.Millisecond)

		stats := store.Snapshot()

		require.Equal(t, 70, stats.LastCalls[0].PromptTokens)
		require.Equal(t, 30, stats.LastCalls[0].CompletionTokens)
		require.Equal(t, 100, stats.LastCalls[0].Tokens)
	})
}

func TestStore_Snapshot(t *testing.T) {
	t.Run("returns copies, not live references", func(t *testing.T) {
		store := metrics.NewStore()
		store.Record("model-a", usage(100), time.Millisecond)

		stats := store.Snapshot()
		stats.ByModel["model-a"] = domain.ModelStats{Calls: 99}
		stats.LastCalls[0].Model = "tampered"

		fresh := store.Snapshot()
		require.Equal(t, 1, fresh.ByModel["model-a"].Calls)
		require.Equal(t, "model-a", fresh.LastCalls[0].Model)
	})

	t.Run("is empty at process start", func(t *testing.T) {
		stats := metrics.NewStore().Snapshot()

		require.Zero(t, stats.TotalCalls)
		require.Zero(t, stats.TotalTokens)
		require.Zero(t, stats.AvgTimePerCall)
		require.Empty(t, stats.LastCalls)
	})
}

func TestStore_ConcurrentRecords(t *testing.T) {
	store := metrics.NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Record("model-a", usage(10), time.Millisecond)
		}()
	}
	wg.Wait()

	stats := store.Snapshot()
	require.Equal(t, 50, stats.TotalCalls)
	require.Equal(t, 500, stats.TotalTokens)
	require.Len(t, stats.LastCalls, 10)
}
