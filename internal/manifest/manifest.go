// Package manifest loads and represents a model's manifest: its entrypoint and the
// port declarations of each model it exposes.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// PortType is the closed set of port types a manifest may declare.
type PortType string

const (
	Stream             PortType = "stream"
	Multistream        PortType = "multistream"
	Document           PortType = "document"
	Grid               PortType = "grid"
	StreamCollection   PortType = "stream_collection"
	DocumentCollection PortType = "document_collection"
	GridCollection     PortType = "grid_collection"
)

// IsCollection reports whether the port type is one of the collection variants.
func (t PortType) IsCollection() bool {
	switch t {
	case StreamCollection, DocumentCollection, GridCollection:
		return true
	default:
		return false
	}
}

// Elem returns the inner element type of a collection port type. It panics if
// called on a non-collection type; callers must check IsCollection first.
func (t PortType) Elem() PortType {
	switch t {
	case StreamCollection:
		return Stream
	case DocumentCollection:
		return Document
	case GridCollection:
		return Grid
	default:
		panic(fmt.Sprintf("manifest: %q is not a collection port type", t))
	}
}

func (t PortType) valid() bool {
	switch t {
	case Stream, Multistream, Document, Grid, StreamCollection, DocumentCollection, GridCollection:
		return true
	default:
		return false
	}
}

// Direction is a port's data-flow direction.
type Direction string

const (
	Input  Direction = "input"
	Output Direction = "output"
)

// PortDecl declares a single named port on a model.
type PortDecl struct {
	Name      string    `json:"name"`
	Type      PortType  `json:"type"`
	Direction Direction `json:"direction"`
	Required  bool      `json:"required"`
}

// ModelDecl declares one model exposed by this manifest.
type ModelDecl struct {
	ID    string     `json:"id"`
	Ports []PortDecl `json:"ports"`
}

// Manifest is the read-only description of a model directory.
type Manifest struct {
	Entrypoint string      `json:"entrypoint"`
	Models     []ModelDecl `json:"models"`

	// dir is the directory the manifest.json was loaded from; Entrypoint is
	// resolved relative to it.
	dir string
}

// Dir returns the directory the manifest was loaded from.
func (m *Manifest) Dir() string { return m.dir }

// EntrypointPath returns the entrypoint resolved relative to the manifest's directory.
func (m *Manifest) EntrypointPath() string {
	return filepath.Join(m.dir, m.Entrypoint)
}

// ModelByID returns the declared model matching id, or false if no such model exists.
func (m *Manifest) ModelByID(id string) (ModelDecl, bool) {
	for _, md := range m.Models {
		if md.ID == id {
			return md, true
		}
	}
	return ModelDecl{}, false
}

// Load resolves modelPath per the filesystem rule in spec.md §6: if modelPath is a
// directory, it must contain manifest.json; if it's a file not named manifest.json, a
// sibling manifest.json is expected; if it is itself manifest.json, it is read directly.
func Load(modelPath string) (*Manifest, error) {
	info, err := os.Stat(modelPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: stat %q: %w", modelPath, err)
	}

	var manifestFile string
	if info.IsDir() {
		manifestFile = filepath.Join(modelPath, "manifest.json")
	} else if filepath.Base(modelPath) == "manifest.json" {
		manifestFile = modelPath
	} else {
		manifestFile = filepath.Join(filepath.Dir(modelPath), "manifest.json")
	}

	data, err := os.ReadFile(manifestFile)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %q: %w", manifestFile, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: parse %q: %w", manifestFile, err)
	}
	m.dir = filepath.Dir(manifestFile)

	for _, md := range m.Models {
		for _, p := range md.Ports {
			if !p.Type.valid() {
				return nil, fmt.Errorf("manifest: model %q declares port %q with unknown type %q", md.ID, p.Name, p.Type)
			}
		}
	}

	return &m, nil
}
