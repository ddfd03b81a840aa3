package stats

import (
	"testing"
	"time"
)

func TestMonitorSnapshotZeroBeforeAnyRecord(t *testing.T) {
	m := NewMonitor()
	p50, p99 := m.Snapshot()
	if p50 != 0 || p99 != 0 {
		t.Fatalf("Snapshot() = (%d, %d), want (0, 0) before any Record", p50, p99)
	}
}

func TestMonitorRecordSingleValue(t *testing.T) {
	m := NewMonitor()
	m.Record(100 * time.Millisecond)

	p50, p99 := m.Snapshot()
	if p50 == 0 || p99 == 0 {
		t.Fatalf("Snapshot() = (%d, %d), want nonzero after one Record", p50, p99)
	}
	// HdrHistogram at 3 significant figures: a single 100ms sample should be
	// reported back within a small relative error.
	if p50 < 99 || p50 > 101 {
		t.Fatalf("p50 = %d, want ~100", p50)
	}
}

func TestMonitorRecordSubMillisecondClampsToOne(t *testing.T) {
	m := NewMonitor()
	m.Record(0)

	p50, _ := m.Snapshot()
	if p50 != 1 {
		t.Fatalf("p50 = %d, want 1 (sub-millisecond durations clamp to 1ms)", p50)
	}
}

func TestMonitorP99GreaterOrEqualP50AcrossSpread(t *testing.T) {
	m := NewMonitor()
	for _, ms := range []time.Duration{10, 20, 30, 40, 5000} {
		m.Record(ms * time.Millisecond)
	}

	p50, p99 := m.Snapshot()
	if p99 < p50 {
		t.Fatalf("p99 (%d) < p50 (%d)", p99, p50)
	}
}
