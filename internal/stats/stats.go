// Package stats tracks job-duration percentiles across the jobs a modelhost
// process serves over its lifetime, using the same HdrHistogram-based approach
// the teacher's load-test monitor uses for request-latency percentiles
// (internal/stats in the teacher repo), narrowed to the one metric the host
// exposes in jobapi.Stats: JobDurationP50Ms / JobDurationP99Ms.
package stats

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Monitor accumulates job durations across the lifetime of a host process. A
// single Monitor is shared by the supervisor across successive Submit calls,
// so percentiles reflect every job the host has completed, not just the
// most recent one.
type Monitor struct {
	mu        sync.Mutex
	histogram *hdrhistogram.Histogram
}

// NewMonitor builds an empty Monitor. The histogram spans 1ms to 1 hour of
// job duration at 3 significant figures, mirroring the teacher's latency
// histogram construction scaled from microseconds to milliseconds.
func NewMonitor() *Monitor {
	return &Monitor{histogram: hdrhistogram.New(1, 3_600_000, 3)}
}

// Record adds one completed job's wall-clock duration to the distribution.
func (m *Monitor) Record(d time.Duration) {
	ms := d.Milliseconds()
	if ms < 1 {
		ms = 1
	}
	m.mu.Lock()
	_ = m.histogram.RecordValue(ms)
	m.mu.Unlock()
}

// Snapshot returns the P50 and P99 job duration in milliseconds observed so
// far. Both are zero until at least one job has completed.
func (m *Monitor) Snapshot() (p50Ms, p99Ms int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.histogram.ValueAtQuantile(50), m.histogram.ValueAtQuantile(99)
}
