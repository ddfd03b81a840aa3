package port

import (
	"encoding/json"
	"testing"

	"github.com/Amr-9/modelhost/internal/manifest"
)

type recordingSink struct {
	calls int
	name  string
}

func (s *recordingSink) RecordDocumentModification(portName string, _ *string, _ *int, _ json.RawMessage) {
	s.calls++
	s.name = portName
}

func decls() []manifest.PortDecl {
	return []manifest.PortDecl{
		{Name: "in_stream", Type: manifest.Stream, Direction: manifest.Input},
		{Name: "out_doc", Type: manifest.Document, Direction: manifest.Output},
		{Name: "unsupplied_doc", Type: manifest.Document, Direction: manifest.Input},
		{Name: "docs", Type: manifest.DocumentCollection, Direction: manifest.Output},
	}
}

func bindings(t *testing.T) map[string]json.RawMessage {
	t.Helper()
	return map[string]json.RawMessage{
		"in_stream": json.RawMessage(`{"streamId":"s1"}`),
		"out_doc":   json.RawMessage(`{"documentId":"d1","document":{"k":"v"}}`),
		"docs":      json.RawMessage(`{"ports":[{"index":0,"binding":{"documentId":"d2","document":{"k":2}}}]}`),
	}
}

func TestBuildRegistryBasicPorts(t *testing.T) {
	reg, err := Build(decls(), bindings(t), nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	sp, ok := reg.Stream("in_stream")
	if !ok || !sp.WasSupplied() || sp.Get("") != "s1" {
		t.Fatalf("in_stream = %+v, ok=%v, want supplied s1", sp, ok)
	}

	dp, ok := reg.Document("out_doc")
	if !ok || !dp.WasSupplied() {
		t.Fatalf("out_doc missing or not supplied")
	}
	if id := dp.DocumentID(); id == nil || *id != "d1" {
		t.Fatalf("out_doc DocumentID = %v, want d1", id)
	}
	if string(dp.Get(nil)) != `{"k":"v"}` {
		t.Fatalf("out_doc Get() = %s, want {\"k\":\"v\"}", dp.Get(nil))
	}

	unsup, ok := reg.Document("unsupplied_doc")
	if !ok {
		t.Fatal("unsupplied_doc missing from registry")
	}
	if unsup.WasSupplied() {
		t.Fatal("unsupplied_doc should not be marked supplied")
	}
}

func TestDocumentPortSetFiresModificationSink(t *testing.T) {
	sink := &recordingSink{}
	d := decls()
	reg, err := Build(d, bindings(t), sink, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	dp, _ := reg.Document("out_doc")
	if err := dp.Set(json.RawMessage(`{"k":"new"}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if sink.calls != 1 || sink.name != "out_doc" {
		t.Fatalf("sink = %+v, want one call for out_doc", sink)
	}

	// Setting the identical value again must not re-fire the sink.
	if err := dp.Set(json.RawMessage(`{"k":"new"}`)); err != nil {
		t.Fatalf("Set (repeat): %v", err)
	}
	if sink.calls != 1 {
		t.Fatalf("sink.calls = %d after setting an identical value, want 1 (no-op)", sink.calls)
	}
}

func TestDocumentPortSetRejectsInputDirection(t *testing.T) {
	d := []manifest.PortDecl{{Name: "in_doc", Type: manifest.Document, Direction: manifest.Input}}
	reg, err := Build(d, map[string]json.RawMessage{}, nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	dp, _ := reg.Document("in_doc")
	if err := dp.Set(json.RawMessage(`{}`)); err == nil {
		t.Fatal("Set() on an input document port should fail")
	}
}

func TestDocumentCollectionElementsCarryIndex(t *testing.T) {
	reg, err := Build(decls(), bindings(t), nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	c, ok := reg.DocumentCollection("docs")
	if !ok || c.Len() != 1 {
		t.Fatalf("docs collection = %+v, ok=%v, want len 1", c, ok)
	}
	el := c.All()[0]
	if el.Index() != 0 {
		t.Fatalf("element index = %d, want 0", el.Index())
	}
	if id := el.DocumentID(); id == nil || *id != "d2" {
		t.Fatalf("element DocumentID = %v, want d2", id)
	}
}

func TestBuildRejectsUnsupportedPortType(t *testing.T) {
	d := []manifest.PortDecl{{Name: "bad", Type: "nonsense"}}
	if _, err := Build(d, map[string]json.RawMessage{}, nil, nil); err == nil {
		t.Fatal("Build() expected an error for an unsupported port type")
	}
}
