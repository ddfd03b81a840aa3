// Package ipc implements the one-way, ordered byte stream the worker process
// uses to report back to the host (spec.md §4.5 "IPC Channel"). It is modeled as
// a tagged message union, grounded on original_source/as_models/web_api.py's use
// of a multiprocessing.Pipe to carry the same five message kinds between the
// model subprocess and the web API process.
package ipc

import (
	"encoding/json"

	"github.com/Amr-9/modelhost/pkg/jobapi"
)

// Kind tags a Message with its payload type.
type Kind string

const (
	KindUpdate   Kind = "update"
	KindLog      Kind = "log"
	KindComplete Kind = "complete"
	KindFail     Kind = "fail"
	KindResults  Kind = "results"
)

// Message is the tagged union carried over the wire. Exactly one of the payload
// fields is populated, selected by Kind.
type Message struct {
	Kind Kind `json:"kind"`

	Update   *UpdatePayload   `json:"update,omitempty"`
	Log      *jobapi.LogEntry `json:"log,omitempty"`
	Complete *CompletePayload `json:"complete,omitempty"`
	Fail     *FailPayload     `json:"fail,omitempty"`
	Results  *ResultsPayload  `json:"results,omitempty"`
}

// UpdatePayload carries a state-update sink call (spec.md §4.3).
type UpdatePayload struct {
	Message  *string  `json:"message,omitempty"`
	Progress *float64 `json:"progress,omitempty"`
}

// CompletePayload signals a model returned normally.
type CompletePayload struct {
	Stats jobapi.Stats `json:"stats"`
}

// FailPayload carries the sanitized exception a model raised, or that the
// harness synthesized for a panic, an unregistered model, or a context that
// failed to build (spec.md §4.4 "Exception handling"). An abnormal
// termination is recorded by the supervisor itself and never travels as a
// FailPayload.
type FailPayload struct {
	Exception jobapi.Exception `json:"exception"`
	Stats     jobapi.Stats     `json:"stats"`
}

// ResultsPayload carries the output-port results gathered after a model's
// entrypoint returns (spec.md §4.2 "Results assembly").
type ResultsPayload struct {
	Results map[string]json.RawMessage `json:"results"`
}

func updateMessage(message *string, progress *float64) Message {
	return Message{Kind: KindUpdate, Update: &UpdatePayload{Message: message, Progress: progress}}
}

func logMessage(entry jobapi.LogEntry) Message {
	return Message{Kind: KindLog, Log: &entry}
}

func completeMessage(stats jobapi.Stats) Message {
	return Message{Kind: KindComplete, Complete: &CompletePayload{Stats: stats}}
}

func failMessage(exc jobapi.Exception, stats jobapi.Stats) Message {
	return Message{Kind: KindFail, Fail: &FailPayload{Exception: exc, Stats: stats}}
}

func resultsMessage(results map[string]json.RawMessage) Message {
	return Message{Kind: KindResults, Results: &ResultsPayload{Results: results}}
}
