package port

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
)

// ModificationSink receives a notification whenever a document port's value changes.
// Implemented by the execution context (spec.md §3, §4.2, §4.3).
type ModificationSink interface {
	RecordDocumentModification(portName string, documentID *string, index *int, document json.RawMessage)
}

// DocumentPort is a single JSON document input or output port. Its value may be
// legally absent ("unset") even when the port was supplied, per spec.md §3.
type DocumentPort struct {
	base

	mu         sync.Mutex
	documentID *string
	value      json.RawMessage
	hasValue   bool

	index *int // set when this port lives inside a document_collection
	sink  ModificationSink
}

// Get returns the current document value, or def if the port was never supplied or
// never carried a document value.
func (p *DocumentPort) Get(def json.RawMessage) json.RawMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.supplied || !p.hasValue {
		return def
	}
	return p.value
}

// DocumentID returns the bound document id, if any.
func (p *DocumentPort) DocumentID() *string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.documentID
}

// Set assigns a new document value. Mutation is only permitted on output document
// ports (spec.md §4.2). Assignment compares against the current value; on change it
// records a modification with the sink and fires no other side effect.
func (p *DocumentPort) Set(value json.RawMessage) error {
	if p.Direction() != "output" {
		return fmt.Errorf("port %q: assignment only permitted on output document ports", p.Name())
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.hasValue && bytes.Equal(p.value, value) {
		return nil
	}

	p.value = value
	p.hasValue = true

	if p.sink != nil {
		p.sink.RecordDocumentModification(p.Name(), p.documentID, p.index, value)
	}
	return nil
}

func (p *DocumentPort) String() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.hasValue {
		return "<unset>"
	}
	if len(p.value) > 40 {
		return string(p.value[:40]) + "..."
	}
	return string(p.value)
}
