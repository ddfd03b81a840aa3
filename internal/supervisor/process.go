package supervisor

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/Amr-9/modelhost/internal/ipc"
	"github.com/Amr-9/modelhost/internal/manifest"
	"github.com/Amr-9/modelhost/internal/worker"
	"github.com/Amr-9/modelhost/pkg/jobapi"
)

// subprocessStartupTimeLimit bounds how long a newly spawned worker has to
// write its first IPC frame before the supervisor gives up and fails the job
// (spec.md §5 "Resource model", SUBPROCESS_STARTUP_TIME_LIMIT).
const subprocessStartupTimeLimit = 30 * time.Second

// abnormalTerminationGracePeriod is how long the supervisor waits, after the
// IPC pipe has been read to EOF and the worker process has exited without
// ever sending a terminal IPC message, before concluding the exit was
// abnormal (spec.md §4.6 "Abnormal termination detection"). The job is failed
// only if it has not reached a terminal state by other means (such as a
// terminate request) once the period has passed.
const abnormalTerminationGracePeriod = 5 * time.Second

// process wraps one spawned worker subprocess for the duration of a job.
// exited is closed exactly once, by pump's call to cmd.Wait — the only place
// that waits on the child — after which waitErr holds its result.
type process struct {
	cmd      *exec.Cmd
	ipcR     *os.File
	stdinW   *os.File
	job      *Job
	manifest *manifest.Manifest

	exited  chan struct{}
	waitErr error
}

// spawnWorkerArg is the flag the host re-execs itself with to run the worker
// harness instead of the HTTP facade (spec.md §5 "prefer spawn-style process
// creation"): os/exec always gives the child a fresh address space, so there
// is no fork-style fallback to implement.
const spawnWorkerArg = "-worker"

func spawnProcess(job *Job, m *manifest.Manifest, model manifest.ModelDecl, entrypoint string, req jobapi.Request, hostLevel jobapi.LogLevel) (*process, error) {
	exePath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("supervisor: resolve executable path: %w", err)
	}

	ipcR, ipcW, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("supervisor: create ipc pipe: %w", err)
	}

	stdinR, stdinW, err := os.Pipe()
	if err != nil {
		ipcR.Close()
		ipcW.Close()
		return nil, fmt.Errorf("supervisor: create stdin pipe: %w", err)
	}

	cmd := exec.Command(exePath, spawnWorkerArg)
	cmd.Stdin = stdinR
	cmd.Stdout = nil
	cmd.Stderr = os.Stderr
	cmd.ExtraFiles = []*os.File{ipcW}
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		ipcR.Close()
		ipcW.Close()
		stdinR.Close()
		stdinW.Close()
		return nil, fmt.Errorf("supervisor: start worker: %w", err)
	}

	// The parent's copies of the child's ends are no longer needed once the
	// child has inherited them.
	stdinR.Close()
	ipcW.Close()

	in := worker.Input{Request: req, Model: model, Entrypoint: entrypoint, HostLevel: hostLevel}
	enc := json.NewEncoder(stdinW)
	if err := enc.Encode(in); err != nil {
		stdinW.Close()
		return nil, fmt.Errorf("supervisor: send worker input: %w", err)
	}
	stdinW.Close()

	return &process{cmd: cmd, ipcR: ipcR, stdinW: stdinW, job: job, manifest: m, exited: make(chan struct{})}, nil
}

// pump reads every IPC frame the worker sends until the pipe closes, applying
// each to the job, then waits for the process to exit and reconciles the
// job's final state (spec.md §4.6).
func (p *process) pump() {
	reader := ipc.NewReader(p.ipcR)
	sawTerminal := false
	timedOutAtStartup := false
	first := true

	_ = p.ipcR.SetReadDeadline(time.Now().Add(subprocessStartupTimeLimit))

	for {
		msg, err := reader.Next()
		if err != nil {
			if first {
				if netErr, ok := err.(interface{ Timeout() bool }); ok && netErr.Timeout() {
					timedOutAtStartup = true
				}
			}
			break
		}
		if first {
			first = false
			_ = p.ipcR.SetReadDeadline(time.Time{})
		}
		applyMessage(p.job, msg, &sawTerminal)
	}
	p.ipcR.Close()

	if timedOutAtStartup {
		pgid := p.cmd.Process.Pid
		_ = syscall.Kill(-pgid, syscall.SIGKILL)
	}

	p.waitErr = p.cmd.Wait()
	close(p.exited)
	waitErr := p.waitErr

	if timedOutAtStartup {
		msg := fmt.Sprintf("worker did not report within the %s startup time limit", subprocessStartupTimeLimit)
		p.job.fail(jobapi.Exception{DeveloperMsg: msg, Msg: msg}, jobapi.Stats{})
		return
	}

	if sawTerminal {
		return
	}

	// The process ended without ever reporting COMPLETE or FAIL, and its pipe
	// is already drained. Wait the grace period, then report an abnormal
	// termination unless the job reached a terminal state in the meantime
	// (spec.md §4.6 "Abnormal termination detection").
	time.Sleep(abnormalTerminationGracePeriod)

	p.job.mu.Lock()
	terminal := p.job.state.Terminal()
	p.job.mu.Unlock()
	if terminal {
		return
	}

	msg := "worker process exited without reporting a result"
	if waitErr != nil {
		msg = fmt.Sprintf("worker process exited abnormally: %v", waitErr)
	}
	p.job.fail(jobapi.Exception{
		DeveloperMsg: msg,
		Msg:          msg,
		ModelID:      "",
	}, jobapi.Stats{})
}

func applyMessage(job *Job, msg ipc.Message, sawTerminal *bool) {
	switch msg.Kind {
	case ipc.KindUpdate:
		if msg.Update != nil {
			job.applyUpdate(msg.Update.Message, msg.Update.Progress)
		}
	case ipc.KindLog:
		if msg.Log != nil {
			job.appendLog(*msg.Log)
		}
	case ipc.KindResults:
		if msg.Results != nil {
			job.setResults(msg.Results.Results)
		}
	case ipc.KindComplete:
		*sawTerminal = true
		if msg.Complete != nil {
			job.complete(msg.Complete.Stats)
		}
	case ipc.KindFail:
		*sawTerminal = true
		if msg.Fail != nil {
			job.fail(msg.Fail.Exception, msg.Fail.Stats)
		}
	}
}

// terminate implements the termination protocol (spec.md §4.6): SIGTERM the
// worker's process group, wait up to timeout for it to exit on its own, then
// SIGKILL.
func (p *process) terminate(timeout time.Duration) {
	pgid := p.cmd.Process.Pid
	_ = syscall.Kill(-pgid, syscall.SIGTERM)

	select {
	case <-p.exited:
	case <-time.After(timeout):
		_ = syscall.Kill(-pgid, syscall.SIGKILL)
		<-p.exited
	}

	p.job.terminate()
}

// peakRSSKB returns the worker subprocess's peak resident set size in
// kilobytes, read from /proc/<pid>/status (VmHWM) — a best-effort, Linux-only
// query; spec.md §7 requires the failure to be swallowed, not surfaced, since
// stats are optional enrichment.
func (p *process) peakRSSKB() (int64, bool) {
	if p.cmd.Process == nil {
		return 0, false
	}
	f, err := os.Open(fmt.Sprintf("/proc/%d/status", p.cmd.Process.Pid))
	if err != nil {
		return 0, false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "VmHWM:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0, false
		}
		kb, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return 0, false
		}
		return kb, true
	}
	return 0, false
}
