package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestRecordStages(t *testing.T) {
	m := newMetrics()

	m.RecordGeneration(100*time.Millisecond, nil)
	m.RecordGeneration(300*time.Millisecond, errors.New("boom"))
	m.RecordSynthesis(50*time.Millisecond, nil)
	m.RecordMix(2*time.Second, nil)

	snap := m.GetSnapshot()

	if snap.Generation.Requests != 2 {
		t.Errorf("generation requests = %d, want 2", snap.Generation.Requests)
	}
	if snap.Generation.Success != 1 || snap.Generation.Errors != 1 {
		t.Errorf("generation success/errors = %d/%d, want 1/1",
			snap.Generation.Success, snap.Generation.Errors)
	}
	if snap.Generation.SuccessRate != 50 {
		t.Errorf("generation success rate = %v, want 50", snap.Generation.SuccessRate)
	}
	if snap.Generation.AvgLatency != 200*time.Millisecond {
		t.Errorf("generation avg latency = %v, want 200ms", snap.Generation.AvgLatency)
	}
	if snap.Generation.MaxLatency != 300*time.Millisecond {
		t.Errorf("generation max latency = %v, want 300ms", snap.Generation.MaxLatency)
	}
	if snap.Generation.MinLatency != 100*time.Millisecond {
		t.Errorf("generation min latency = %v, want 100ms", snap.Generation.MinLatency)
	}

	if snap.Synthesis.Requests != 1 || snap.Mix.Requests != 1 {
		t.Errorf("synthesis/mix requests = %d/%d, want 1/1",
			snap.Synthesis.Requests, snap.Mix.Requests)
	}
}

func TestEmptySnapshot(t *testing.T) {
	m := newMetrics()
	snap := m.GetSnapshot()

	if snap.Generation.Requests != 0 {
		t.Errorf("fresh metrics report %d requests", snap.Generation.Requests)
	}
	if snap.Generation.MinLatency != 0 {
		t.Errorf("fresh metrics report min latency %v, want 0", snap.Generation.MinLatency)
	}
	if snap.Generation.SuccessRate != 0 {
		t.Errorf("fresh metrics report success rate %v, want 0", snap.Generation.SuccessRate)
	}
}

func TestCacheCounters(t *testing.T) {
	m := newMetrics()

	m.RecordCacheHit()
	m.RecordCacheHit()
	m.RecordCacheHit()
	m.RecordCacheMiss()

	snap := m.GetSnapshot()
	if snap.CacheHits != 3 || snap.CacheMisses != 1 {
		t.Errorf("cache hits/misses = %d/%d, want 3/1", snap.CacheHits, snap.CacheMisses)
	}
	if snap.CacheHitRate != 75 {
		t.Errorf("cache hit rate = %v, want 75", snap.CacheHitRate)
	}
}

func TestCompositionJobCounters(t *testing.T) {
	m := newMetrics()

	m.RecordCompositionJob(nil)
	m.RecordCompositionJob(errors.New("mix failed"))
	m.RecordCompositionJob(nil)

	snap := m.GetSnapshot()
	if snap.CompositionJobs != 3 {
		t.Errorf("composition jobs = %d, want 3", snap.CompositionJobs)
	}
	if snap.CompositionErrors != 1 {
		t.Errorf("composition errors = %d, want 1", snap.CompositionErrors)
	}
}

func TestReset(t *testing.T) {
	m := newMetrics()

	m.RecordGeneration(time.Second, nil)
	m.RecordCacheHit()
	m.RecordCompositionJob(nil)

	m.Reset()

	snap := m.GetSnapshot()
	if snap.Generation.Requests != 0 || snap.CacheHits != 0 || snap.CompositionJobs != 0 {
		t.Errorf("counters survived Reset(): %+v", snap)
	}
	if snap.Generation.MinLatency != 0 {
		t.Errorf("min latency after Reset() = %v, want 0", snap.Generation.MinLatency)
	}
}

func TestConcurrentRecording(t *testing.T) {
	m := newMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.RecordSynthesis(time.Millisecond, nil)
				m.RecordCacheHit()
			}
		}()
	}
	wg.Wait()

	snap := m.GetSnapshot()
	if snap.Synthesis.Requests != 1000 {
		t.Errorf("synthesis requests = %d, want 1000", snap.Synthesis.Requests)
	}
	if snap.CacheHits != 1000 {
		t.Errorf("cache hits = %d, want 1000", snap.CacheHits)
	}
}
