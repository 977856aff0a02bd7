package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// StageStats holds counters for one pipeline stage.
type StageStats struct {
	Requests     int64
	Success      int64
	Errors       int64
	TotalLatency int64 // nanoseconds
	MaxLatency   int64
	MinLatency   int64
}

// Metrics collects pipeline performance counters. Counters use atomics;
// min/max updates take the mutex.
type Metrics struct {
	generation StageStats
	synthesis  StageStats
	mix        StageStats

	CacheHits   int64
	CacheMisses int64

	CompositionJobs   int64
	CompositionErrors int64

	mu sync.RWMutex
}

// Global is the process-wide metrics instance.
var Global = newMetrics()

func newMetrics() *Metrics {
	m := &Metrics{}
	m.generation.MinLatency = 1<<63 - 1
	m.synthesis.MinLatency = 1<<63 - 1
	m.mix.MinLatency = 1<<63 - 1
	return m
}

// RecordGeneration records one script-generation call.
func (m *Metrics) RecordGeneration(latency time.Duration, err error) {
	m.recordStage(&m.generation, latency, err)
}

// RecordSynthesis records one speech-synthesis call.
func (m *Metrics) RecordSynthesis(latency time.Duration, err error) {
	m.recordStage(&m.synthesis, latency, err)
}

// RecordMix records one mixing run.
func (m *Metrics) RecordMix(latency time.Duration, err error) {
	m.recordStage(&m.mix, latency, err)
}

func (m *Metrics) recordStage(s *StageStats, latency time.Duration, err error) {
	atomic.AddInt64(&s.Requests, 1)

	latencyNs := latency.Nanoseconds()
	atomic.AddInt64(&s.TotalLatency, latencyNs)

	if err != nil {
		atomic.AddInt64(&s.Errors, 1)
	} else {
		atomic.AddInt64(&s.Success, 1)
	}

	m.mu.Lock()
	if latencyNs > s.MaxLatency {
		s.MaxLatency = latencyNs
	}
	if latencyNs < s.MinLatency {
		s.MinLatency = latencyNs
	}
	m.mu.Unlock()
}

// RecordCacheHit records a script-cache hit.
func (m *Metrics) RecordCacheHit() {
	atomic.AddInt64(&m.CacheHits, 1)
}

// RecordCacheMiss records a script-cache miss.
func (m *Metrics) RecordCacheMiss() {
	atomic.AddInt64(&m.CacheMisses, 1)
}

// RecordCompositionJob records one async composition job outcome.
func (m *Metrics) RecordCompositionJob(err error) {
	atomic.AddInt64(&m.CompositionJobs, 1)
	if err != nil {
		atomic.AddInt64(&m.CompositionErrors, 1)
	}
}

// StageSnapshot is the exported view of one stage's counters.
type StageSnapshot struct {
	Requests    int64         `json:"requests"`
	Success     int64         `json:"success"`
	Errors      int64         `json:"errors"`
	SuccessRate float64       `json:"success_rate"`
	AvgLatency  time.Duration `json:"avg_latency"`
	MaxLatency  time.Duration `json:"max_latency"`
	MinLatency  time.Duration `json:"min_latency"`
}

// Snapshot is a point-in-time view of all counters.
type Snapshot struct {
	Generation        StageSnapshot `json:"generation"`
	Synthesis         StageSnapshot `json:"synthesis"`
	Mix               StageSnapshot `json:"mix"`
	CacheHits         int64         `json:"cache_hits"`
	CacheMisses       int64         `json:"cache_misses"`
	CacheHitRate      float64       `json:"cache_hit_rate"`
	CompositionJobs   int64         `json:"composition_jobs"`
	CompositionErrors int64         `json:"composition_errors"`
	Timestamp         time.Time     `json:"timestamp"`
}

// GetSnapshot returns a consistent view of the current counters.
func (m *Metrics) GetSnapshot() Snapshot {
	m.mu.RLock()
	generation := m.stageSnapshot(&m.generation)
	synthesis := m.stageSnapshot(&m.synthesis)
	mix := m.stageSnapshot(&m.mix)
	m.mu.RUnlock()

	hits := atomic.LoadInt64(&m.CacheHits)
	misses := atomic.LoadInt64(&m.CacheMisses)

	hitRate := 0.0
	if hits+misses > 0 {
		hitRate = float64(hits) / float64(hits+misses) * 100
	}

	return Snapshot{
		Generation:        generation,
		Synthesis:         synthesis,
		Mix:               mix,
		CacheHits:         hits,
		CacheMisses:       misses,
		CacheHitRate:      hitRate,
		CompositionJobs:   atomic.LoadInt64(&m.CompositionJobs),
		CompositionErrors: atomic.LoadInt64(&m.CompositionErrors),
		Timestamp:         time.Now(),
	}
}

// stageSnapshot must be called with at least the read lock held.
func (m *Metrics) stageSnapshot(s *StageStats) StageSnapshot {
	requests := atomic.LoadInt64(&s.Requests)
	success := atomic.LoadInt64(&s.Success)
	errCount := atomic.LoadInt64(&s.Errors)
	totalLatency := atomic.LoadInt64(&s.TotalLatency)

	minLatency := s.MinLatency
	if requests == 0 {
		minLatency = 0
	}

	avgLatency := int64(0)
	if requests > 0 {
		avgLatency = totalLatency / requests
	}

	successRate := 0.0
	if requests > 0 {
		successRate = float64(success) / float64(requests) * 100
	}

	return StageSnapshot{
		Requests:    requests,
		Success:     success,
		Errors:      errCount,
		SuccessRate: successRate,
		AvgLatency:  time.Duration(avgLatency),
		MaxLatency:  time.Duration(s.MaxLatency),
		MinLatency:  time.Duration(minLatency),
	}
}

// Reset clears all counters.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range []*StageStats{&m.generation, &m.synthesis, &m.mix} {
		atomic.StoreInt64(&s.Requests, 0)
		atomic.StoreInt64(&s.Success, 0)
		atomic.StoreInt64(&s.Errors, 0)
		atomic.StoreInt64(&s.TotalLatency, 0)
		s.MaxLatency = 0
		s.MinLatency = 1<<63 - 1
	}

	atomic.StoreInt64(&m.CacheHits, 0)
	atomic.StoreInt64(&m.CacheMisses, 0)
	atomic.StoreInt64(&m.CompositionJobs, 0)
	atomic.StoreInt64(&m.CompositionErrors, 0)
}
