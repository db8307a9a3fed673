// Package metrics keeps process-wide usage aggregates for provider calls.
// The store is an explicitly owned component injected into the gateway and
// the metrics endpoint, so tests get isolated instances.
package metrics

import (
	"sync"
	"time"

	"github.com/dgonzalez/nutrify/internal/domain"
)

// lastCallsLimit bounds the recent-call log. Oldest entries are evicted
// first; the slice stays ordered most-recent-first.
const lastCallsLimit = 10

// Store implements domain.MetricsRecorder. All state is guarded by a single
// mutex; each Record call is one atomic transaction so the recent-call log
// stays in total timestamp order under concurrent callers.
type Store struct {
	mu sync.Mutex

	totalCalls  int
	totalTokens int
	totalTime   time.Duration
	byModel     map[string]domain.ModelStats
	lastCalls   []domain.CallRecord

	now func() time.Time
}

// NewStore creates an empty metrics store (DI constructor).
func NewStore() *Store {
	return &Store{
		byModel: make(map[string]domain.ModelStats),
		now:     time.Now,
	}
}

// Record accumulates one completed provider call.
func (s *Store) Record(model string, usage domain.Usage, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalCalls++
	s.totalTokens += usage.TotalTokens
	s.totalTime += duration

	stats := s.byModel[model]
	stats.Calls++
	stats.Tokens += usage.TotalTokens
	stats.TimeMs += duration.Milliseconds()
	s.byModel[model] = stats

	record := domain.CallRecord{
		Timestamp:        s.now(),
		Model:            model,
		Tokens:           usage.TotalTokens,
		DurationMs:       duration.Milliseconds(),
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
	}

	s.lastCalls = append([]domain.CallRecord{record}, s.lastCalls...)
	if len(s.lastCalls) > lastCallsLimit {
		s.lastCalls = s.lastCalls[:lastCallsLimit]
	}
}

// Snapshot returns a deep copy of the current aggregates, never a live
// reference.
func (s *Store) Snapshot() domain.UsageStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	byModel := make(map[string]domain.ModelStats, len(s.byModel))
	for model, stats := range s.byModel {
		byModel[model] = stats
	}

	lastCalls := make([]domain.CallRecord, len(s.lastCalls))
	copy(lastCalls, s.lastCalls)

	var avg int64
	if s.totalCalls > 0 {
		avg = s.totalTime.Milliseconds() / int64(s.totalCalls)
	}

	return domain.UsageStats{
		TotalCalls:     s.totalCalls,
		TotalTokens:    s.totalTokens,
		TotalTimeMs:    s.totalTime.Milliseconds(),
		AvgTimePerCall: avg,
		ByModel:        byModel,
		LastCalls:      lastCalls,
	}
}
