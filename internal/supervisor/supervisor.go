package supervisor

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Amr-9/modelhost/internal/manifest"
	"github.com/Amr-9/modelhost/internal/stats"
	"github.com/Amr-9/modelhost/pkg/jobapi"
)

// ErrJobRunning is returned by Submit when a job is already in flight — the
// host accepts exactly one job at a time (spec.md §4.6 "accept-one-job
// invariant").
var ErrJobRunning = errors.New("a job is already running")

// ErrNoJob is returned by Terminate when no job has ever been submitted.
var ErrNoJob = errors.New("no job has been submitted")

// defaultTerminateTimeout is used when POST /terminate carries no timeout.
const defaultTerminateTimeout = 10 * time.Second

// Supervisor owns the single in-flight job for this host process.
type Supervisor struct {
	manifest     *manifest.Manifest
	hostLogLevel jobapi.LogLevel
	durations    *stats.Monitor

	mu   sync.Mutex
	job  *Job
	proc *process
}

// New builds a Supervisor hosting the models declared in m.
func New(m *manifest.Manifest, hostLogLevel jobapi.LogLevel) *Supervisor {
	return &Supervisor{manifest: m, hostLogLevel: hostLogLevel, durations: stats.NewMonitor()}
}

// Submit accepts req as the host's one job, if none is currently running. It
// returns the missing-required-ports warning message (empty if none) alongside
// the newly created job, since a missing required port is a warning, not a
// rejection (spec.md §4.6 "missing-required-ports warning").
func (s *Supervisor) Submit(req jobapi.Request) (*Job, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.job != nil && !s.job.Snapshot().State.Terminal() {
		return nil, "", ErrJobRunning
	}

	model, ok := s.manifest.ModelByID(req.ModelID)
	if !ok {
		return nil, "", fmt.Errorf("supervisor: unknown model id %q", req.ModelID)
	}

	missing := manifest.MissingRequiredPorts(model, req.Ports)
	var warning string
	if len(missing) > 0 {
		warning = manifest.MissingPortsWarning(missing)
	}

	job := newJob(s.durations)
	if warning != "" {
		job.appendLog(jobapi.LogEntry{
			Level:     jobapi.Warning,
			Message:   warning,
			Timestamp: jobapi.NowTimestamp(time.Now()),
			Logger:    "supervisor",
		})
	}

	proc, err := spawnProcess(job, s.manifest, model, s.manifest.EntrypointPath(), req, s.hostLogLevel)
	if err != nil {
		return nil, "", err
	}

	s.job = job
	s.proc = proc

	log.Printf("supervisor: job %s accepted, model=%s", job.ID(), req.ModelID)
	go proc.pump()

	return job, warning, nil
}

// CurrentJobID returns the id of the most recently submitted job, or "" if
// none has been submitted yet.
func (s *Supervisor) CurrentJobID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.job == nil {
		return ""
	}
	return s.job.ID()
}

// Snapshot returns the current job's snapshot. While the job is still
// running, it augments Stats with a best-effort read of the worker
// subprocess's peak memory usage (spec.md §7, "Peak-memory reporting").
func (s *Supervisor) Snapshot() (jobapi.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.job == nil {
		return jobapi.Snapshot{State: jobapi.Pending, Log: []jobapi.LogEntry{}}, nil
	}

	snap := s.job.Snapshot()
	if !snap.State.Terminal() && s.proc != nil {
		if kb, ok := s.proc.peakRSSKB(); ok {
			statsCopy := *snap.Stats
			statsCopy.PeakMemoryUsage = kb * 1024
			snap.Stats = &statsCopy
		}
	}
	return snap, nil
}

// Terminate ends the in-flight job, honoring timeout before escalating to
// SIGKILL (spec.md §4.6 "Termination protocol"). timeoutSeconds <= 0 uses the
// default.
func (s *Supervisor) Terminate(timeoutSeconds float64) error {
	s.mu.Lock()
	proc := s.proc
	s.mu.Unlock()

	if proc == nil {
		return ErrNoJob
	}

	timeout := defaultTerminateTimeout
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds * float64(time.Second))
	}

	log.Printf("supervisor: terminating job %s (timeout=%s)", proc.job.ID(), timeout)
	proc.terminate(timeout)
	return nil
}
