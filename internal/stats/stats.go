// Package stats keeps a rolling window of document processing timings.
package stats

import (
	"sort"
	"sync"
	"time"
)

type sample struct {
	timestamp  time.Time
	durationMs int64
	words      int
	failed     bool
}

// Snapshot is a point-in-time aggregate of processing samples.
type Snapshot struct {
	Count  int     `json:"count"`
	Failed int     `json:"failed"`
	Words  int     `json:"words"`
	MinMs  int64   `json:"min_ms"`
	MaxMs  int64   `json:"max_ms"`
	AvgMs  float64 `json:"avg_ms"`
	P50Ms  float64 `json:"p50_ms"`
	P95Ms  float64 `json:"p95_ms"`
	P99Ms  float64 `json:"p99_ms"`
}

// Processing tracks recent document processing runs within a rolling window.
type Processing struct {
	mu      sync.Mutex
	samples []sample
	maxAge  time.Duration
}

func NewProcessing(maxAge time.Duration) *Processing {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Processing{
		samples: make([]sample, 0, 256),
		maxAge:  maxAge,
	}
}

// Record adds a successful run that produced the given number of words.
func (s *Processing) Record(d time.Duration, words int) {
	s.add(sample{durationMs: d.Milliseconds(), words: words})
}

// RecordFailure adds a failed run.
func (s *Processing) RecordFailure(d time.Duration) {
	s.add(sample{durationMs: d.Milliseconds(), failed: true})
}

func (s *Processing) add(sm sample) {
	if sm.durationMs < 0 {
		sm.durationMs = 0
	}
	now := time.Now()
	sm.timestamp = now

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.samples = append(s.samples, sm)
}

func (s *Processing) Snapshot() Snapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	if len(s.samples) == 0 {
		return Snapshot{}
	}

	snap := Snapshot{Count: len(s.samples)}
	values := make([]int64, 0, len(s.samples))
	var sum int64
	for _, sm := range s.samples {
		values = append(values, sm.durationMs)
		sum += sm.durationMs
		snap.Words += sm.words
		if sm.failed {
			snap.Failed++
		}
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	snap.MinMs = values[0]
	snap.MaxMs = values[len(values)-1]
	snap.AvgMs = float64(sum) / float64(len(values))
	snap.P50Ms = percentile(values, 50)
	snap.P95Ms = percentile(values, 95)
	snap.P99Ms = percentile(values, 99)
	return snap
}

func (s *Processing) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	writeIdx := 0
	for _, sm := range s.samples {
		if !sm.timestamp.Before(cutoff) {
			s.samples[writeIdx] = sm
			writeIdx++
		}
	}
	s.samples = s.samples[:writeIdx]
}

// percentile interpolates linearly between the closest ranks.
func percentile(sortedValues []int64, pct float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sortedValues[0])
	}
	if pct >= 100 {
		return float64(sortedValues[len(sortedValues)-1])
	}

	index := (float64(len(sortedValues)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sortedValues) {
		return float64(sortedValues[lower])
	}
	weight := index - float64(lower)
	lo := float64(sortedValues[lower])
	hi := float64(sortedValues[upper])
	return lo + ((hi - lo) * weight)
}
