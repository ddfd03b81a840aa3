package supervisor

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Amr-9/modelhost/internal/stats"
	"github.com/Amr-9/modelhost/pkg/jobapi"
)

func TestNewJobStartsPending(t *testing.T) {
	j := newJob(stats.NewMonitor())
	snap := j.Snapshot()
	if snap.State != jobapi.Pending {
		t.Fatalf("State = %v, want Pending", snap.State)
	}
	if j.ID() == "" {
		t.Fatal("ID() is empty, want a generated uuid")
	}
}

func TestJobIDStableAcrossUpdates(t *testing.T) {
	j := newJob(stats.NewMonitor())
	id := j.ID()
	j.applyUpdate(nil, nil)
	if j.ID() != id {
		t.Fatalf("ID() changed after applyUpdate: got %q, want %q", j.ID(), id)
	}
}

func TestJobApplyUpdateTransitionsToRunning(t *testing.T) {
	j := newJob(stats.NewMonitor())
	msg := "working"
	progress := 0.5
	j.applyUpdate(&msg, &progress)

	snap := j.Snapshot()
	if snap.State != jobapi.Running {
		t.Fatalf("State = %v, want Running", snap.State)
	}
	if snap.Message != "working" {
		t.Fatalf("Message = %q, want %q", snap.Message, "working")
	}
	if snap.Progress == nil || *snap.Progress != 0.5 {
		t.Fatalf("Progress = %v, want 0.5", snap.Progress)
	}
}

func TestJobCompleteIsSticky(t *testing.T) {
	j := newJob(stats.NewMonitor())
	j.complete(jobapi.Stats{})

	snap := j.Snapshot()
	if snap.State != jobapi.Complete {
		t.Fatalf("State = %v, want Complete", snap.State)
	}
	if snap.Progress == nil || *snap.Progress != 1.0 {
		t.Fatalf("Progress = %v, want 1.0", snap.Progress)
	}

	// A terminal state never moves again.
	j.fail(jobapi.Exception{Msg: "too late"}, jobapi.Stats{})
	snap = j.Snapshot()
	if snap.State != jobapi.Complete {
		t.Fatalf("State = %v after fail() on a completed job, want it to stay Complete", snap.State)
	}
	if snap.Exception != nil {
		t.Fatalf("Exception = %v, want nil (fail() must not apply after completion)", snap.Exception)
	}
}

func TestJobFailSetsException(t *testing.T) {
	j := newJob(stats.NewMonitor())
	exc := jobapi.Exception{Msg: "bad input", DeveloperMsg: "ValueError: bad input", ModelID: "demo"}
	j.fail(exc, jobapi.Stats{})

	snap := j.Snapshot()
	if snap.State != jobapi.Failed {
		t.Fatalf("State = %v, want Failed", snap.State)
	}
	if snap.Exception == nil || snap.Exception.Msg != "bad input" {
		t.Fatalf("Exception = %v, want Msg=bad input", snap.Exception)
	}
}

func TestJobCompleteRecordsDurationPercentiles(t *testing.T) {
	mon := stats.NewMonitor()
	j := newJob(mon)
	time.Sleep(5 * time.Millisecond)
	j.complete(jobapi.Stats{})

	snap := j.Snapshot()
	if snap.Stats == nil || snap.Stats.JobDurationP50Ms == 0 {
		t.Fatalf("Stats = %+v, want a nonzero JobDurationP50Ms after complete()", snap.Stats)
	}
}

func TestJobTerminateIsSticky(t *testing.T) {
	j := newJob(stats.NewMonitor())
	j.terminate()
	if j.Snapshot().State != jobapi.Terminated {
		t.Fatalf("State = %v, want Terminated", j.Snapshot().State)
	}

	j.complete(jobapi.Stats{})
	if j.Snapshot().State != jobapi.Terminated {
		t.Fatalf("State = %v after complete() on a terminated job, want it to stay Terminated", j.Snapshot().State)
	}
}

func TestJobAppendLogPurgesOldestHalfPastRetentionLimit(t *testing.T) {
	j := newJob(stats.NewMonitor())
	for i := 0; i < logRetentionLimit+10; i++ {
		j.appendLog(jobapi.LogEntry{Message: "line"})
	}

	snap := j.Snapshot()
	if len(snap.Log) > logRetentionLimit {
		t.Fatalf("len(Log) = %d, want <= %d after purge", len(snap.Log), logRetentionLimit)
	}
}

func TestJobSnapshotDrainsLogAfterServing(t *testing.T) {
	j := newJob(stats.NewMonitor())
	j.appendLog(jobapi.LogEntry{Message: "first"})
	j.appendLog(jobapi.LogEntry{Message: "second"})

	first := j.Snapshot()
	if len(first.Log) != 2 {
		t.Fatalf("first poll Log = %v, want 2 entries", first.Log)
	}

	second := j.Snapshot()
	if len(second.Log) != 0 {
		t.Fatalf("second poll Log = %v, want empty — entries must be served exactly once", second.Log)
	}

	j.appendLog(jobapi.LogEntry{Message: "third"})
	third := j.Snapshot()
	if len(third.Log) != 1 || third.Log[0].Message != "third" {
		t.Fatalf("third poll Log = %v, want only the entry logged since the previous poll", third.Log)
	}
}

func TestJobSetResultsVisibleInSnapshot(t *testing.T) {
	j := newJob(stats.NewMonitor())
	results := map[string]json.RawMessage{"out": json.RawMessage(`"value"`)}
	j.setResults(results)

	snap := j.Snapshot()
	if string(snap.Results["out"]) != `"value"` {
		t.Fatalf("Results[out] = %s, want \"value\"", snap.Results["out"])
	}
}
