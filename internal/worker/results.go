package worker

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/Amr-9/modelhost/internal/hostcontext"
	"github.com/Amr-9/modelhost/internal/manifest"
	"github.com/Amr-9/modelhost/internal/port"
	"github.com/Amr-9/modelhost/pkg/jobapi"
)

// AssembleResults builds the results map reported in a COMPLETE snapshot
// (spec.md §4.2 "Results assembly"): every output port's current value, shaped
// per its port type, plus any per-port result payloads for document mutations
// recorded in the context (spec.md §4.4) — a document/document_collection
// element only contributes to results if ctx.ModifiedDocuments() recorded a
// Set() against it, not merely because it carries a value from its initial
// binding. A stream output port contributes its id even if the model's code
// never wrote through the upstream client proxy, since streams are named by
// reference rather than by value — this host cannot tell "unmodified" from
// "intentionally left as-is" for a stream without an upload call (resolved
// Open Question, SPEC_FULL.md §D.1).
func AssembleResults(reg *port.Registry, decls []manifest.PortDecl, ctx *hostcontext.Context) (map[string]json.RawMessage, error) {
	modifiedStreams := ctx.ModifiedStreams()
	modifiedDocs := ctx.ModifiedDocuments()
	results := make(map[string]json.RawMessage, len(decls))

	for _, decl := range decls {
		if decl.Direction != manifest.Output {
			continue
		}

		p, _ := reg.Get(decl.Name)
		raw, err := resultFor(decl, p, modifiedStreams, modifiedDocs)
		if err != nil {
			return nil, err
		}
		if raw != nil {
			results[decl.Name] = raw
		}
	}

	return results, nil
}

func resultFor(decl manifest.PortDecl, p port.Port, modifiedStreams map[string]struct{}, modifiedDocs map[string]hostcontext.DocumentModification) (json.RawMessage, error) {
	switch decl.Type {
	case manifest.Stream:
		sp, ok := p.(*port.StreamPort)
		if !ok || !sp.WasSupplied() {
			return nil, nil
		}
		_, outdated := modifiedStreams[sp.Get("")]
		res := jobapi.StreamResult{StreamID: sp.Get("")}
		if outdated {
			res.OutdatedStreams = []string{sp.Get("")}
		}
		return json.Marshal(res)

	case manifest.Multistream:
		mp, ok := p.(*port.MultistreamPort)
		if !ok || !mp.WasSupplied() {
			return nil, nil
		}
		var outdated []string
		for _, id := range mp.Get(nil) {
			if _, ok := modifiedStreams[id]; ok {
				outdated = append(outdated, id)
			}
		}
		res := jobapi.StreamResult{StreamIDs: mp.Get(nil), OutdatedStreams: outdated}
		return json.Marshal(res)

	case manifest.Document:
		dp, ok := p.(*port.DocumentPort)
		if !ok {
			return nil, nil
		}
		if _, modified := modifiedDocs[hostcontext.DocumentModificationKey(decl.Name, nil)]; !modified {
			return nil, nil
		}
		doc := dp.Get(nil)
		if doc == nil {
			return nil, nil
		}
		res := jobapi.DocumentResult{Document: doc}
		if id := dp.DocumentID(); id != nil {
			res.DocumentID = *id
		} else {
			// The model produced a document but never assigned it an id; mint one
			// so results[].documentId is always a stable reference (spec.md §3
			// domain stack: default documentId generation).
			res.DocumentID = uuid.NewString()
		}
		return json.Marshal(res)

	case manifest.Grid:
		gp, ok := p.(*port.GridPort)
		if !ok || !gp.WasSupplied() {
			return nil, nil
		}
		return json.Marshal(gp.String())

	case manifest.DocumentCollection, manifest.StreamCollection, manifest.GridCollection:
		return collectionResult(decl, p, modifiedStreams, modifiedDocs)

	default:
		return nil, nil
	}
}

func collectionResult(decl manifest.PortDecl, p port.Port, modifiedStreams map[string]struct{}, modifiedDocs map[string]hostcontext.DocumentModification) (json.RawMessage, error) {
	switch decl.Type {
	case manifest.DocumentCollection:
		c, ok := p.(*port.Collection[*port.DocumentPort])
		if !ok {
			return nil, nil
		}
		out := make([]jobapi.DocumentResult, 0, c.Len())
		for _, el := range c.All() {
			idx := el.Index()
			if _, modified := modifiedDocs[hostcontext.DocumentModificationKey(decl.Name, &idx)]; !modified {
				continue
			}
			doc := el.Get(nil)
			if doc == nil {
				continue
			}
			res := jobapi.DocumentResult{Document: doc, Index: &idx}
			if id := el.DocumentID(); id != nil {
				res.DocumentID = *id
			} else {
				res.DocumentID = uuid.NewString()
			}
			out = append(out, res)
		}
		return json.Marshal(out)

	case manifest.StreamCollection:
		c, ok := p.(*port.Collection[*port.StreamPort])
		if !ok {
			return nil, nil
		}
		ids := make([]string, 0, c.Len())
		var outdated []string
		for _, el := range c.All() {
			if !el.WasSupplied() {
				continue
			}
			id := el.Get("")
			ids = append(ids, id)
			if _, ok := modifiedStreams[id]; ok {
				outdated = append(outdated, id)
			}
		}
		return json.Marshal(jobapi.StreamResult{StreamIDs: ids, OutdatedStreams: outdated})

	case manifest.GridCollection:
		c, ok := p.(*port.Collection[*port.GridPort])
		if !ok {
			return nil, nil
		}
		out := make([]string, 0, c.Len())
		for _, el := range c.All() {
			if el.WasSupplied() {
				out = append(out, el.String())
			}
		}
		return json.Marshal(out)

	default:
		return nil, nil
	}
}
