package manifest

import (
	"path/filepath"
	"testing"
)

func TestPortTypeIsCollection(t *testing.T) {
	cases := map[PortType]bool{
		Stream:             false,
		Document:           false,
		Grid:               false,
		StreamCollection:   true,
		DocumentCollection: true,
		GridCollection:     true,
	}
	for typ, want := range cases {
		if got := typ.IsCollection(); got != want {
			t.Fatalf("%s.IsCollection() = %v, want %v", typ, got, want)
		}
	}
}

func TestPortTypeElem(t *testing.T) {
	cases := map[PortType]PortType{
		StreamCollection:   Stream,
		DocumentCollection: Document,
		GridCollection:     Grid,
	}
	for typ, want := range cases {
		if got := typ.Elem(); got != want {
			t.Fatalf("%s.Elem() = %v, want %v", typ, got, want)
		}
	}
}

func TestPortTypeElemPanicsOnNonCollection(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Elem() on a non-collection type should panic")
		}
	}()
	Stream.Elem()
}

func TestModelByID(t *testing.T) {
	m := &Manifest{Models: []ModelDecl{{ID: "a"}, {ID: "b"}}}

	got, ok := m.ModelByID("b")
	if !ok || got.ID != "b" {
		t.Fatalf("ModelByID(b) = (%v, %v), want (ID=b, true)", got, ok)
	}

	if _, ok := m.ModelByID("missing"); ok {
		t.Fatal("ModelByID(missing) reported ok=true, want false")
	}
}

func TestEntrypointPathJoinsDir(t *testing.T) {
	// dir is unexported and normally set by Load to the manifest's directory.
	m := &Manifest{Entrypoint: "run.py", dir: filepath.Join("models", "demo")}
	if got, want := m.EntrypointPath(), filepath.Join("models", "demo", "run.py"); got != want {
		t.Fatalf("EntrypointPath() = %q, want %q", got, want)
	}
}
