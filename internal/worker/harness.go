package worker

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Amr-9/modelhost/internal/hostcontext"
	"github.com/Amr-9/modelhost/internal/ipc"
	"github.com/Amr-9/modelhost/internal/manifest"
	"github.com/Amr-9/modelhost/internal/upstream"
	"github.com/Amr-9/modelhost/pkg/jobapi"
)

// Input is everything the worker harness needs to run one job, sent by the
// supervisor over the worker's stdin (spec.md §4.4 "Invocation").
type Input struct {
	Request    jobapi.Request     `json:"request"`
	Model      manifest.ModelDecl `json:"model"`
	Entrypoint string             `json:"entrypoint"`
	HostLevel  jobapi.LogLevel    `json:"hostLevel"`
}

// Run executes one job inside the worker subprocess: it decodes Input from
// stdin, builds the execution context, invokes the model's registered entry
// point, and reports COMPLETE/FAILED plus the assembled results over out. It
// returns an error only when Input cannot be decoded; an unregistered
// entrypoint, a context that fails to build, and model failures are all
// reported as a FAILED message,
// not a Go error, since the whole point of the harness is to convert a model
// crash into a structured report rather than propagate it.
func Run(stdin io.Reader, out *ipc.Writer) error {
	var in Input
	if err := json.NewDecoder(stdin).Decode(&in); err != nil {
		return fmt.Errorf("worker: decode input: %w", err)
	}

	level := ResolveLogLevel(in.Request.LogLevel, in.HostLevel)
	logger := newIPCLogger(out, level)

	stopStdout := redirectStd(&os.Stdout, logger.Stdout)
	stopStderr := redirectStd(&os.Stderr, logger.Stderr)
	defer stopStdout()
	defer stopStderr()

	installTermHandler(logger)

	fn, err := ResolveEntrypoint(in.Model.ID, in.Entrypoint)
	if err != nil {
		_ = out.Fail(jobapi.Exception{
			DeveloperMsg: err.Error(),
			Msg:          err.Error(),
			ModelID:      in.Model.ID,
		}, jobapi.Stats{})
		return nil
	}

	sink := &updateSink{out: out}
	streamSink := &streamSink{}
	factories := upstream.NewFactories(&in.Request, streamSink)

	ctx, err := hostcontext.New(in.Model.ID, in.Request.Debug, in.Model.Ports, in.Request.Ports, factories, sink, logger)
	if err != nil {
		_ = out.Fail(jobapi.Exception{
			DeveloperMsg: err.Error(),
			Msg:          "failed to build execution context: " + err.Error(),
			ModelID:      in.Model.ID,
		}, jobapi.Stats{})
		return nil
	}
	streamSink.ctx = ctx

	invoke(fn, ctx, in.Model, out)
	return nil
}

// invoke calls the model's entrypoint, converting a panic into the same FAILED
// report a returned error produces (spec.md §4.4 "abnormal termination vs.
// handled failure": a panic here is still a clean process exit, unlike a
// genuine abnormal termination, which the supervisor detects from the process
// dying without ever reaching this report).
func invoke(fn ModelFunc, ctx *hostcontext.Context, model manifest.ModelDecl, out *ipc.Writer) {
	defer func() {
		if r := recover(); r != nil {
			_ = out.Fail(jobapi.Exception{
				DeveloperMsg: fmt.Sprintf("panic: %v", r),
				Msg:          "model code panicked",
				ModelID:      model.ID,
			}, jobapi.Stats{})
		}
	}()

	err := fn(ctx)
	if err != nil {
		reportFailure(ctx, model.ID, err, out)
		return
	}

	results, err := AssembleResults(ctx.Ports(), model.Ports, ctx)
	if err != nil {
		reportFailure(ctx, model.ID, err, out)
		return
	}

	_ = out.Results(results)
	_ = out.Complete(jobapi.Stats{})
}

func reportFailure(ctx *hostcontext.Context, modelID string, err error, out *ipc.Writer) {
	exc := jobapi.Exception{
		DeveloperMsg: err.Error(),
		Msg:          err.Error(),
		ModelID:      modelID,
	}
	var ue *UserModelError
	if errors.As(err, &ue) {
		exc.Msg = ue.Msg
		exc.Data = SanitizeExceptionData(ue.Data)
	}
	_ = out.Fail(exc, jobapi.Stats{})
}

// updateSink adapts a job's ipc.Writer to hostcontext.Sink.
type updateSink struct {
	out *ipc.Writer
}

func (s *updateSink) Update(message *string, progress *float64) {
	_ = s.out.Update(message, progress)
}

// streamSink adapts hostcontext's modification tracking to
// upstream.StreamModificationSink; it defers to ctx once built, since the
// upstream factories are constructed before the context that will receive
// their notifications.
type streamSink struct {
	ctx *hostcontext.Context
}

func (s *streamSink) RecordStreamModification(streamID string) {
	if s.ctx != nil {
		s.ctx.RecordStreamModification(streamID)
	}
}

// installTermHandler installs a SIGTERM handler that exits cleanly (spec.md
// §4.4 step 1): it logs receipt of the signal, then exits the process so the
// supervisor never has to fall through to the grace-period SIGKILL.
func installTermHandler(logger *ipcLogger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Log("WARNING", "received SIGTERM, terminating", "worker")
		os.Exit(0)
	}()
}
