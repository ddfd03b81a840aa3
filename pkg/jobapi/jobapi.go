// Package jobapi defines the JSON wire shapes shared by the HTTP facade, the job
// supervisor, and the worker harness: the job request, port bindings, log entries,
// and the execution-state snapshot.
package jobapi

import (
	"encoding/json"
	"time"
)

// State is one of the execution state machine's five values (spec.md §3, §4.6).
type State string

const (
	Pending    State = "PENDING"
	Running    State = "RUNNING"
	Complete   State = "COMPLETE"
	Terminated State = "TERMINATED"
	Failed     State = "FAILED"
)

// Terminal reports whether s is one of the sticky terminal states.
func (s State) Terminal() bool {
	switch s {
	case Complete, Terminated, Failed:
		return true
	default:
		return false
	}
}

// LogLevel is the closed set of levels a LogEntry may carry.
type LogLevel string

const (
	Debug    LogLevel = "DEBUG"
	Info     LogLevel = "INFO"
	Warning  LogLevel = "WARNING"
	Error    LogLevel = "ERROR"
	Critical LogLevel = "CRITICAL"
	Stdout   LogLevel = "STDOUT"
	Stderr   LogLevel = "STDERR"
)

// LogEntry is a single structured log line forwarded from the worker to the host.
type LogEntry struct {
	Message    string   `json:"message"`
	Level      LogLevel `json:"level"`
	File       string   `json:"file,omitempty"`
	LineNumber int      `json:"lineNumber,omitempty"`
	Timestamp  string   `json:"timestamp"` // RFC-3339 UTC, ms precision
	Logger     string   `json:"logger,omitempty"`
}

// NowTimestamp formats t per spec.md §3: RFC-3339, UTC, millisecond precision.
func NowTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// Exception is the payload reported in state.exception on a FAILED job (spec.md §7).
type Exception struct {
	DeveloperMsg string `json:"developer_msg"`
	Msg          string `json:"msg"`
	Data         any    `json:"data,omitempty"`
	ModelID      string `json:"model_id"`
}

// Stats carries best-effort operational numbers alongside a snapshot.
type Stats struct {
	PeakMemoryUsage  int64 `json:"peakMemoryUsage,omitempty"`
	JobDurationP50Ms int64 `json:"jobDurationP50Ms,omitempty"`
	JobDurationP99Ms int64 `json:"jobDurationP99Ms,omitempty"`
}

// ServiceConfig is the shape a job request uses to describe an upstream service
// (sensorCloudConfiguration, analysisServicesConfiguration, threddsConfiguration,
// threddsUploadConfiguration) - spec.md §6, §4.3.
type ServiceConfig struct {
	URL      string `json:"url,omitempty"`
	Scheme   string `json:"scheme,omitempty"`
	Host     string `json:"host,omitempty"`
	APIRoot  string `json:"apiRoot,omitempty"`
	Port     int    `json:"port,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	APIKey   string `json:"apiKey,omitempty"`
	Verify   *bool  `json:"verify,omitempty"`
}

// VerifyTLS returns the configured verify flag, defaulting to true when unset.
func (c *ServiceConfig) VerifyTLS() bool {
	if c == nil || c.Verify == nil {
		return true
	}
	return *c.Verify
}

// Request is the body of POST / (spec.md §6).
type Request struct {
	ModelID  string                     `json:"modelId"`
	LogLevel LogLevel                   `json:"logLevel,omitempty"`
	Debug    bool                       `json:"debug,omitempty"`
	Ports    map[string]json.RawMessage `json:"ports,omitempty"`

	SensorCloudConfiguration      *ServiceConfig `json:"sensorCloudConfiguration,omitempty"`
	AnalysisServicesConfiguration *ServiceConfig `json:"analysisServicesConfiguration,omitempty"`
	ThreddsConfiguration          *ServiceConfig `json:"threddsConfiguration,omitempty"`
	ThreddsUploadConfiguration    *ServiceConfig `json:"threddsUploadConfiguration,omitempty"`
}

// TerminateRequest is the optional body of POST /terminate.
type TerminateRequest struct {
	Timeout float64 `json:"timeout,omitempty"` // seconds
}

// Snapshot is the body returned by GET / and after POST / and POST /terminate.
type Snapshot struct {
	State      State                      `json:"state"`
	Message    string                     `json:"message,omitempty"`
	Progress   *float64                   `json:"progress,omitempty"`
	Results    map[string]json.RawMessage `json:"results,omitempty"`
	Log        []LogEntry                 `json:"log"`
	Exception  *Exception                 `json:"exception,omitempty"`
	Stats      *Stats                     `json:"stats,omitempty"`
	APIVersion string                     `json:"api_version"`
}

// DocumentResult is the results[] payload shape for a document port (spec.md §3).
type DocumentResult struct {
	DocumentID string `json:"documentId,omitempty"`
	Document   any    `json:"document"`
	Index      *int   `json:"index,omitempty"`
}

// StreamResult is the results[] payload shape for a stream/multistream output port
// (resolved Open Question, SPEC_FULL.md §D.1).
type StreamResult struct {
	StreamID        string   `json:"streamId,omitempty"`
	StreamIDs       []string `json:"streamIds,omitempty"`
	OutdatedStreams []string `json:"outdatedStreams,omitempty"`
}
