// Package hostcontext implements the execution context (spec.md §4.3): the
// per-job object handed to user model code. It holds the port registry, the lazy
// upstream client factories, and the update/log sinks, and tracks which streams
// and documents were modified during the run.
package hostcontext

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Amr-9/modelhost/internal/manifest"
	"github.com/Amr-9/modelhost/internal/port"
	"github.com/Amr-9/modelhost/internal/upstream"
)

// DocumentModification is one entry in the modified-documents map: a document
// port's new value, keyed by DocumentModificationKey (the port name, plus the
// element index for a collection element), carrying the collection index and
// document id when applicable (spec.md §3, §4.2).
type DocumentModification struct {
	Name       string
	DocumentID *string
	Index      *int
	Document   json.RawMessage
}

// Sink receives the update() calls user code makes against the Context
// (spec.md §4.3 "the state-update sink").
type Sink interface {
	Update(message *string, progress *float64)
}

// LogSink receives structured log lines emitted by user code through the
// Context's logging methods (the "root logger shim" of spec.md §4.4).
type LogSink interface {
	Log(level, msg, logger string)
}

// Context is the object passed to user model code.
type Context struct {
	ModelID   string
	DebugMode bool

	ports     *port.Registry
	factories *upstream.Factories
	sink      Sink
	log       LogSink

	mu                sync.Mutex
	modifiedStreams   map[string]struct{}
	modifiedDocuments map[string]DocumentModification
}

// New builds a Context for one job: ports are built from the model's port
// declarations and the job's bindings (spec.md §4.4 "Invocation"); upstream
// clients are constructed lazily through factories.
func New(modelID string, debug bool, decls []manifest.PortDecl, bindings map[string]json.RawMessage, factories *upstream.Factories, sink Sink, log LogSink) (*Context, error) {
	ctx := &Context{
		ModelID:           modelID,
		DebugMode:         debug,
		factories:         factories,
		sink:              sink,
		log:               log,
		modifiedStreams:   make(map[string]struct{}),
		modifiedDocuments: make(map[string]DocumentModification),
	}

	reg, err := port.Build(decls, bindings, ctx, factories.GridCache())
	if err != nil {
		return nil, err
	}
	ctx.ports = reg

	return ctx, nil
}

// Ports returns the per-job port registry.
func (c *Context) Ports() *port.Registry { return c.ports }

// SensorClient lazily resolves the sensor-cloud client.
func (c *Context) SensorClient() (upstream.SensorClient, error) { return c.factories.Sensor() }

// AnalysisClient lazily resolves the analysis-services client.
func (c *Context) AnalysisClient() (upstream.AnalysisClient, error) { return c.factories.Analysis() }

// GridUploadClient lazily resolves the default grid-upload client.
func (c *Context) GridUploadClient() (port.GridClient, error) { return c.factories.GridUploadClient() }

// Update forwards any changed field to the sink (spec.md §4.3 "update(message?,
// progress?)"). The legacy positional modifiedStreams/modifiedDocuments arguments
// are accepted for backward compatibility (SPEC_FULL.md §D.3) but deprecated:
// callers should rely on port mutation and upstream-client proxies instead, since
// those are the only channels that can carry a collection index or document id
// alongside the modification.
func (c *Context) Update(message *string, progress *float64, legacyModifiedStreams []string, legacyModifiedDocuments map[string]json.RawMessage) {
	if len(legacyModifiedStreams) > 0 || len(legacyModifiedDocuments) > 0 {
		c.Warning("update() called with the deprecated modified_streams/modified_documents arguments; rely on port mutation instead")
	}

	c.mu.Lock()
	for _, s := range legacyModifiedStreams {
		c.modifiedStreams[s] = struct{}{}
	}
	for name, doc := range legacyModifiedDocuments {
		c.modifiedDocuments[name] = DocumentModification{Name: name, Document: doc}
	}
	c.mu.Unlock()

	if message != nil || progress != nil {
		c.sink.Update(message, progress)
	}
}

// Debug, Info, Warning, Error, and Critical forward a log line through the
// context's log sink (spec.md §4.4 "root logger shim"), tagged with the
// calling model's id as the logger name.
func (c *Context) Debug(msg string)    { c.log.Log("DEBUG", msg, c.ModelID) }
func (c *Context) Info(msg string)     { c.log.Log("INFO", msg, c.ModelID) }
func (c *Context) Warning(msg string)  { c.log.Log("WARNING", msg, c.ModelID) }
func (c *Context) Error(msg string)    { c.log.Log("ERROR", msg, c.ModelID) }
func (c *Context) Critical(msg string) { c.log.Log("CRITICAL", msg, c.ModelID) }

// DocumentModificationKey is the modifiedDocuments map key for a document
// port's name and, for a document_collection element, its index — every
// element of a collection shares its port declaration's Name, so the index
// must be folded into the key or one element's modification would overwrite
// another's record.
func DocumentModificationKey(portName string, index *int) string {
	if index == nil {
		return portName
	}
	return fmt.Sprintf("%s#%d", portName, *index)
}

// RecordDocumentModification implements port.ModificationSink.
func (c *Context) RecordDocumentModification(portName string, documentID *string, index *int, document json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modifiedDocuments[DocumentModificationKey(portName, index)] = DocumentModification{
		Name:       portName,
		DocumentID: documentID,
		Index:      index,
		Document:   document,
	}
}

// RecordStreamModification implements upstream.StreamModificationSink.
func (c *Context) RecordStreamModification(streamID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modifiedStreams[streamID] = struct{}{}
}

// ModifiedStreams returns the set of stream ids observed as modified during the run.
func (c *Context) ModifiedStreams() map[string]struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]struct{}, len(c.modifiedStreams))
	for k := range c.modifiedStreams {
		out[k] = struct{}{}
	}
	return out
}

// ModifiedDocuments returns the modified-documents map keyed by
// DocumentModificationKey.
func (c *Context) ModifiedDocuments() map[string]DocumentModification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]DocumentModification, len(c.modifiedDocuments))
	for k, v := range c.modifiedDocuments {
		out[k] = v
	}
	return out
}
