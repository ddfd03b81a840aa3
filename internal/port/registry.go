package port

import (
	"encoding/json"
	"fmt"

	"github.com/Amr-9/modelhost/internal/manifest"
)

// Registry is the name -> Port map handed to user model code (spec.md §4.3,
// §9 "treat this as a map-first API").
type Registry struct {
	ports map[string]Port
}

// Get returns the port with the given name.
func (r *Registry) Get(name string) (Port, bool) {
	p, ok := r.ports[name]
	return p, ok
}

// Stream returns the named port as a *StreamPort, or false if it doesn't exist or
// isn't that type.
func (r *Registry) Stream(name string) (*StreamPort, bool) {
	p, ok := r.ports[name].(*StreamPort)
	return p, ok
}

// Multistream returns the named port as a *MultistreamPort.
func (r *Registry) Multistream(name string) (*MultistreamPort, bool) {
	p, ok := r.ports[name].(*MultistreamPort)
	return p, ok
}

// Document returns the named port as a *DocumentPort.
func (r *Registry) Document(name string) (*DocumentPort, bool) {
	p, ok := r.ports[name].(*DocumentPort)
	return p, ok
}

// Grid returns the named port as a *GridPort.
func (r *Registry) Grid(name string) (*GridPort, bool) {
	p, ok := r.ports[name].(*GridPort)
	return p, ok
}

// DocumentCollection returns the named port as a *Collection[*DocumentPort].
func (r *Registry) DocumentCollection(name string) (*Collection[*DocumentPort], bool) {
	p, ok := r.ports[name].(*Collection[*DocumentPort])
	return p, ok
}

// StreamCollection returns the named port as a *Collection[*StreamPort].
func (r *Registry) StreamCollection(name string) (*Collection[*StreamPort], bool) {
	p, ok := r.ports[name].(*Collection[*StreamPort])
	return p, ok
}

// GridCollection returns the named port as a *Collection[*GridPort].
func (r *Registry) GridCollection(name string) (*Collection[*GridPort], bool) {
	p, ok := r.ports[name].(*Collection[*GridPort])
	return p, ok
}

// All returns every declared port, in declaration order is not guaranteed (map).
func (r *Registry) All() map[string]Port { return r.ports }

// Build constructs a Registry from a model's port declarations and the job's
// bindings. Collection ports have their inner elements materialized with their
// indices before being wrapped (spec.md §4.4 "Invocation").
func Build(decls []manifest.PortDecl, bindings map[string]json.RawMessage, sink ModificationSink, cache ClientCache) (*Registry, error) {
	reg := &Registry{ports: make(map[string]Port, len(decls))}

	for _, decl := range decls {
		raw := bindings[decl.Name]
		p, err := buildPort(decl, raw, sink, cache)
		if err != nil {
			return nil, fmt.Errorf("port %q: %w", decl.Name, err)
		}
		reg.ports[decl.Name] = p
	}

	return reg, nil
}

func buildPort(decl manifest.PortDecl, raw json.RawMessage, sink ModificationSink, cache ClientCache) (Port, error) {
	decoded, err := decodeBinding(decl.Type, raw)
	if err != nil {
		return nil, err
	}
	supplied := decoded != nil

	switch decl.Type {
	case manifest.Stream:
		p := &StreamPort{base: base{decl: decl, supplied: supplied}}
		if supplied {
			p.streamID = decoded.(StreamBinding).StreamID
		}
		return p, nil

	case manifest.Multistream:
		p := &MultistreamPort{base: base{decl: decl, supplied: supplied}}
		if supplied {
			p.streamIDs = decoded.(MultistreamBinding).StreamIDs
		}
		return p, nil

	case manifest.Document:
		return buildDocumentPort(decl, decoded, supplied, nil, sink), nil

	case manifest.Grid:
		p := &GridPort{base: base{decl: decl, supplied: supplied}, cache: cache}
		if supplied {
			b := decoded.(GridBinding)
			p.catalog, p.dataset = b.Catalog, b.Dataset
		}
		return p, nil

	case manifest.DocumentCollection:
		return buildDocumentCollection(decl, decoded, supplied, sink)

	case manifest.StreamCollection:
		return buildStreamCollection(decl, decoded, supplied)

	case manifest.GridCollection:
		return buildGridCollection(decl, decoded, supplied, cache)

	default:
		return nil, fmt.Errorf("unsupported port type %q", decl.Type)
	}
}

func buildDocumentPort(decl manifest.PortDecl, decoded any, supplied bool, index *int, sink ModificationSink) *DocumentPort {
	p := &DocumentPort{base: base{decl: decl, supplied: supplied}, index: index, sink: sink}
	if supplied {
		b := decoded.(DocumentBinding)
		p.documentID = b.DocumentID
		if len(b.Document) > 0 {
			p.value = b.Document
			p.hasValue = true
		}
	}
	return p
}

func buildDocumentCollection(decl manifest.PortDecl, decoded any, supplied bool, sink ModificationSink) (*Collection[*DocumentPort], error) {
	c := &Collection[*DocumentPort]{base: base{decl: decl, supplied: supplied}}
	if !supplied {
		return c, nil
	}
	cb := decoded.(CollectionBinding)
	elemDecl := manifest.PortDecl{Name: decl.Name, Type: manifest.Document, Direction: decl.Direction, Required: decl.Required}
	c.elems = make([]indexed[*DocumentPort], len(cb.Ports))
	for i, elem := range cb.Ports {
		innerDecoded, err := decodeBinding(manifest.Document, elem.Binding)
		if err != nil {
			return nil, fmt.Errorf("collection element %d: %w", elem.Index, err)
		}
		idx := elem.Index
		c.elems[i] = indexed[*DocumentPort]{
			T:     buildDocumentPort(elemDecl, innerDecoded, innerDecoded != nil, &idx, sink),
			index: elem.Index,
		}
	}
	return c, nil
}

func buildStreamCollection(decl manifest.PortDecl, decoded any, supplied bool) (*Collection[*StreamPort], error) {
	c := &Collection[*StreamPort]{base: base{decl: decl, supplied: supplied}}
	if !supplied {
		return c, nil
	}
	cb := decoded.(CollectionBinding)
	elemDecl := manifest.PortDecl{Name: decl.Name, Type: manifest.Stream, Direction: decl.Direction, Required: decl.Required}
	c.elems = make([]indexed[*StreamPort], len(cb.Ports))
	for i, elem := range cb.Ports {
		innerDecoded, err := decodeBinding(manifest.Stream, elem.Binding)
		if err != nil {
			return nil, fmt.Errorf("collection element %d: %w", elem.Index, err)
		}
		p := &StreamPort{base: base{decl: elemDecl, supplied: innerDecoded != nil}}
		if innerDecoded != nil {
			p.streamID = innerDecoded.(StreamBinding).StreamID
		}
		c.elems[i] = indexed[*StreamPort]{T: p, index: elem.Index}
	}
	return c, nil
}

func buildGridCollection(decl manifest.PortDecl, decoded any, supplied bool, cache ClientCache) (*Collection[*GridPort], error) {
	c := &Collection[*GridPort]{base: base{decl: decl, supplied: supplied}}
	if !supplied {
		return c, nil
	}
	cb := decoded.(CollectionBinding)
	elemDecl := manifest.PortDecl{Name: decl.Name, Type: manifest.Grid, Direction: decl.Direction, Required: decl.Required}
	c.elems = make([]indexed[*GridPort], len(cb.Ports))
	for i, elem := range cb.Ports {
		innerDecoded, err := decodeBinding(manifest.Grid, elem.Binding)
		if err != nil {
			return nil, fmt.Errorf("collection element %d: %w", elem.Index, err)
		}
		p := &GridPort{base: base{decl: elemDecl, supplied: innerDecoded != nil}, cache: cache}
		if innerDecoded != nil {
			b := innerDecoded.(GridBinding)
			p.catalog, p.dataset = b.Catalog, b.Dataset
		}
		c.elems[i] = indexed[*GridPort]{T: p, index: elem.Index}
	}
	return c, nil
}
