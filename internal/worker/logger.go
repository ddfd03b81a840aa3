package worker

import (
	"time"

	"github.com/Amr-9/modelhost/internal/ipc"
	"github.com/Amr-9/modelhost/pkg/jobapi"
)

// ipcLogger implements hostcontext.LogSink by framing every call as a LogEntry
// and forwarding it over the IPC channel, filtered to the job's effective log
// level (spec.md §4.4 "root logger shim").
type ipcLogger struct {
	out   *ipc.Writer
	level jobapi.LogLevel
	now   func() time.Time
}

func newIPCLogger(out *ipc.Writer, level jobapi.LogLevel) *ipcLogger {
	return &ipcLogger{out: out, level: level, now: time.Now}
}

func (l *ipcLogger) Log(level, msg, logger string) {
	l.emit(jobapi.LogLevel(level), msg, logger)
}

// Stdout and Stderr tee raw subprocess output into STDOUT/STDERR-level log
// entries (spec.md §4.4 "stdout/stderr tee-and-forward"), bypassing the level
// filter: captured process output is always retained regardless of the job's
// configured log level.
func (l *ipcLogger) Stdout(line string) {
	l.write(jobapi.LogEntry{Level: jobapi.Stdout, Message: line})
}
func (l *ipcLogger) Stderr(line string) {
	l.write(jobapi.LogEntry{Level: jobapi.Stderr, Message: line})
}

func (l *ipcLogger) emit(level jobapi.LogLevel, msg, logger string) {
	if CompareLevels(level, l.level) < 0 {
		return
	}
	l.write(jobapi.LogEntry{Level: level, Message: msg, Logger: logger})
}

func (l *ipcLogger) write(entry jobapi.LogEntry) {
	entry.Timestamp = jobapi.NowTimestamp(l.now())
	_ = l.out.Log(entry)
}
