// Package supervisor implements the job supervisor (spec.md §4.6): the
// process-wide object that accepts at most one job at a time, spawns a worker
// subprocess for it, pumps its IPC channel into a running snapshot, and
// enforces the termination protocol.
package supervisor

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Amr-9/modelhost/internal/stats"
	"github.com/Amr-9/modelhost/internal/version"
	"github.com/Amr-9/modelhost/pkg/jobapi"
)

// logRetentionLimit bounds how many LogEntry values a job keeps in memory
// between polls (spec.md §4.6 "Log retention"). Each snapshot drains whatever
// is pending; if more than logRetentionLimit entries pile up before the next
// poll, appendLog keeps only the newest half of the limit, and the older
// entries are dropped without ever being served.
const logRetentionLimit = 10000

// Job is the mutable state of one run, guarded by mu. A Job only ever moves
// forward through the state machine; Complete/Failed/Terminated are sticky.
type Job struct {
	mu sync.Mutex

	id        string
	state     jobapi.State
	message   string
	progress  *float64
	results   map[string]json.RawMessage
	log       []jobapi.LogEntry
	exception *jobapi.Exception
	stats     jobapi.Stats

	startedAt time.Time
	durations *stats.Monitor

	cancel func()
}

// newJob starts a job's wall-clock timer. durations accumulates this job's
// duration alongside every other job this host process has completed, so
// Stats.JobDurationP50Ms/P99Ms report host-lifetime percentiles rather than
// a single run's duration (spec.md §4.6, Stats is "best-effort operational
// numbers").
func newJob(durations *stats.Monitor) *Job {
	return &Job{id: uuid.NewString(), state: jobapi.Pending, startedAt: time.Now(), durations: durations}
}

// ID returns the job's run-correlation id, generated once at submission and
// immutable thereafter — safe to read without locking.
func (j *Job) ID() string {
	return j.id
}

// Snapshot copies the job's current state into the wire shape returned by
// GET / and POST / (spec.md §7), then drains the accumulated log: each entry
// is returned in exactly one snapshot across consecutive polls (spec.md §4.6
// "Log retention" — "entries are removed from the state" once served).
func (j *Job) Snapshot() jobapi.Snapshot {
	j.mu.Lock()
	defer j.mu.Unlock()

	logCopy := j.log
	if logCopy == nil {
		logCopy = []jobapi.LogEntry{}
	}
	j.log = nil

	snap := jobapi.Snapshot{
		State:      j.state,
		Message:    j.message,
		Progress:   j.progress,
		Results:    j.results,
		Log:        logCopy,
		Exception:  j.exception,
		Stats:      &j.stats,
		APIVersion: version.APIVersion,
	}
	return snap
}

// transition moves the job to state, refusing to leave a terminal state
// (spec.md §4.6 "sticky terminal states").
func (j *Job) transition(state jobapi.State) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state.Terminal() {
		return
	}
	j.state = state
}

func (j *Job) applyUpdate(message *string, progress *float64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state.Terminal() {
		return
	}
	if j.state == jobapi.Pending {
		j.state = jobapi.Running
	}
	if message != nil {
		j.message = *message
	}
	if progress != nil {
		j.progress = progress
	}
}

func (j *Job) appendLog(entry jobapi.LogEntry) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.log = append(j.log, entry)
	if len(j.log) > logRetentionLimit {
		// Purge the oldest half, tail-to-head: drop everything before the
		// midpoint in one slice, rather than repeatedly shifting one entry at
		// a time off the front.
		keepFrom := len(j.log) - logRetentionLimit/2
		j.log = append([]jobapi.LogEntry(nil), j.log[keepFrom:]...)
	}
}

func (j *Job) complete(s jobapi.Stats) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state.Terminal() {
		return
	}
	one := 1.0
	j.state = jobapi.Complete
	j.progress = &one
	j.stats = j.withDurationPercentiles(s)
}

func (j *Job) fail(exc jobapi.Exception, s jobapi.Stats) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state.Terminal() {
		return
	}
	j.state = jobapi.Failed
	j.exception = &exc
	j.stats = j.withDurationPercentiles(s)
}

// withDurationPercentiles records this job's elapsed duration into the
// host-lifetime monitor and stamps the resulting percentiles onto s. Must be
// called with j.mu held.
func (j *Job) withDurationPercentiles(s jobapi.Stats) jobapi.Stats {
	if j.durations == nil {
		return s
	}
	j.durations.Record(time.Since(j.startedAt))
	s.JobDurationP50Ms, s.JobDurationP99Ms = j.durations.Snapshot()
	return s
}

func (j *Job) setResults(results map[string]json.RawMessage) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.results = results
}

func (j *Job) terminate() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state.Terminal() {
		return
	}
	j.state = jobapi.Terminated
}
