// Package port implements the typed port/binding model: the contract between the
// host, the worker harness, and user model code (spec.md §3, §4.2, §9).
//
// A Port is a tagged variant over Stream, Multistream, Document, Grid, and their
// Collection[T] wrapper. Ports never hold a back-reference to the execution context;
// instead a ModificationSink callback is threaded in at construction time, which
// avoids the context<->port reference cycle the source exhibits (spec.md §9).
package port

import "github.com/Amr-9/modelhost/internal/manifest"

// Port is the minimal contract every port variant satisfies.
type Port interface {
	Name() string
	Type() manifest.PortType
	Direction() manifest.Direction
	WasSupplied() bool
}

type base struct {
	decl     manifest.PortDecl
	supplied bool
}

func (b base) Name() string                  { return b.decl.Name }
func (b base) Type() manifest.PortType       { return b.decl.Type }
func (b base) Direction() manifest.Direction { return b.decl.Direction }
func (b base) WasSupplied() bool             { return b.supplied }

// StreamPort is a single-stream input or output port.
type StreamPort struct {
	base
	streamID string
}

// Get returns the bound stream id, or def if the port was not supplied.
func (p *StreamPort) Get(def string) string {
	if !p.supplied {
		return def
	}
	return p.streamID
}

func (p *StreamPort) String() string {
	if !p.supplied {
		return "<unset>"
	}
	return p.streamID
}

// MultistreamPort is an ordered list of stream ids bound to one port.
type MultistreamPort struct {
	base
	streamIDs []string
}

// Get returns the bound stream ids, or def if the port was not supplied.
func (p *MultistreamPort) Get(def []string) []string {
	if !p.supplied {
		return def
	}
	return p.streamIDs
}

func (p *MultistreamPort) String() string {
	if !p.supplied {
		return "<unset>"
	}
	out := ""
	for i, id := range p.streamIDs {
		if i > 0 {
			out += ","
		}
		out += id
	}
	return out
}
