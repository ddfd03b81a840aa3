package worker

import (
	"encoding/json"
	"testing"

	"github.com/Amr-9/modelhost/internal/hostcontext"
	"github.com/Amr-9/modelhost/internal/manifest"
	"github.com/Amr-9/modelhost/internal/upstream"
	"github.com/Amr-9/modelhost/pkg/jobapi"
)

type noopSink struct{}

func (noopSink) Update(message *string, progress *float64) {}

type noopLogSink struct{}

func (noopLogSink) Log(level, msg, logger string) {}

func newTestContext(t *testing.T, decls []manifest.PortDecl, bindings map[string]json.RawMessage) *hostcontext.Context {
	t.Helper()
	factories := upstream.NewFactories(&jobapi.Request{}, nil)
	ctx, err := hostcontext.New("demo", false, decls, bindings, factories, noopSink{}, noopLogSink{})
	if err != nil {
		t.Fatalf("hostcontext.New: %v", err)
	}
	return ctx
}

// An output document port bound with an initial value but never mutated by
// the model must not appear in results — only ctx.ModifiedDocuments() entries
// count (spec.md §4.4, reviewed regression).
func TestAssembleResultsExcludesUnmutatedDocumentPort(t *testing.T) {
	decls := []manifest.PortDecl{{Name: "out", Type: manifest.Document, Direction: manifest.Output}}
	bindings := map[string]json.RawMessage{
		"out": json.RawMessage(`{"document":{"a":1}}`),
	}
	ctx := newTestContext(t, decls, bindings)

	results, err := AssembleResults(ctx.Ports(), decls, ctx)
	if err != nil {
		t.Fatalf("AssembleResults: %v", err)
	}
	if _, ok := results["out"]; ok {
		t.Fatalf("results[out] present for a document port that was never mutated: %v", results)
	}
}

// A document port the model explicitly Set() must appear in results.
func TestAssembleResultsIncludesMutatedDocumentPort(t *testing.T) {
	decls := []manifest.PortDecl{{Name: "out", Type: manifest.Document, Direction: manifest.Output}}
	bindings := map[string]json.RawMessage{
		"out": json.RawMessage(`{"document":{"a":1}}`),
	}
	ctx := newTestContext(t, decls, bindings)

	dp, ok := ctx.Ports().Document("out")
	if !ok {
		t.Fatal("port out not found or not a DocumentPort")
	}
	if err := dp.Set(json.RawMessage(`{"a":2}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	results, err := AssembleResults(ctx.Ports(), decls, ctx)
	if err != nil {
		t.Fatalf("AssembleResults: %v", err)
	}
	raw, ok := results["out"]
	if !ok {
		t.Fatalf("results[out] missing for a mutated document port: %v", results)
	}
	var res jobapi.DocumentResult
	if err := json.Unmarshal(raw, &res); err != nil {
		t.Fatalf("unmarshal DocumentResult: %v", err)
	}
	docJSON, err := json.Marshal(res.Document)
	if err != nil {
		t.Fatalf("marshal Document back: %v", err)
	}
	if string(docJSON) != `{"a":2}` {
		t.Fatalf("Document = %s, want {\"a\":2}", docJSON)
	}
}

// In a document_collection, only the elements the model actually mutated
// appear in results — unmutated elements (even if initially bound with a
// value) are excluded, and a mutation to one element must not leak onto
// another sharing the same port name (the index-collision bug fixed
// alongside this gating change).
func TestAssembleResultsDocumentCollectionOnlyIncludesMutatedElements(t *testing.T) {
	decls := []manifest.PortDecl{{Name: "docs", Type: manifest.DocumentCollection, Direction: manifest.Output}}
	bindings := map[string]json.RawMessage{
		"docs": json.RawMessage(`{"ports":[
			{"index":0,"binding":{"document":{"a":0}}},
			{"index":1,"binding":{"document":{"a":1}}}
		]}`),
	}
	ctx := newTestContext(t, decls, bindings)

	c, ok := ctx.Ports().DocumentCollection("docs")
	if !ok {
		t.Fatal("port docs not found or not a document collection")
	}
	var target *int
	for _, el := range c.All() {
		idx := el.Index()
		if idx == 1 {
			if err := el.Set(json.RawMessage(`{"a":99}`)); err != nil {
				t.Fatalf("Set: %v", err)
			}
			target = &idx
		}
	}
	if target == nil {
		t.Fatal("expected to find element with index 1")
	}

	results, err := AssembleResults(ctx.Ports(), decls, ctx)
	if err != nil {
		t.Fatalf("AssembleResults: %v", err)
	}
	raw, ok := results["docs"]
	if !ok {
		t.Fatalf("results[docs] missing: %v", results)
	}
	var out []jobapi.DocumentResult
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1 (only the mutated element)", len(out))
	}
	if out[0].Index == nil || *out[0].Index != 1 {
		t.Fatalf("out[0].Index = %v, want 1", out[0].Index)
	}
	docJSON, err := json.Marshal(out[0].Document)
	if err != nil {
		t.Fatalf("marshal Document back: %v", err)
	}
	if string(docJSON) != `{"a":99}` {
		t.Fatalf("out[0].Document = %s, want {\"a\":99}", docJSON)
	}
}

func TestAssembleResultsStreamAndGridUnaffectedByDocumentGating(t *testing.T) {
	decls := []manifest.PortDecl{
		{Name: "s", Type: manifest.Stream, Direction: manifest.Output},
		{Name: "g", Type: manifest.Grid, Direction: manifest.Output},
	}
	bindings := map[string]json.RawMessage{
		"s": json.RawMessage(`{"streamId":"stream-1"}`),
		"g": json.RawMessage(`{"catalog":"https://example/catalog.xml","dataset":"ds"}`),
	}
	ctx := newTestContext(t, decls, bindings)

	results, err := AssembleResults(ctx.Ports(), decls, ctx)
	if err != nil {
		t.Fatalf("AssembleResults: %v", err)
	}
	if _, ok := results["s"]; !ok {
		t.Fatalf("results[s] missing: %v", results)
	}
	if _, ok := results["g"]; !ok {
		t.Fatalf("results[g] missing: %v", results)
	}
}
