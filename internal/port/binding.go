package port

import (
	"encoding/json"
	"fmt"

	"github.com/Amr-9/modelhost/internal/manifest"
)

// StreamBinding is the binding shape for a stream port: {streamId}.
type StreamBinding struct {
	StreamID string `json:"streamId"`
}

// MultistreamBinding is the binding shape for a multistream port: {streamIds: [...]}.
type MultistreamBinding struct {
	StreamIDs []string `json:"streamIds"`
}

// DocumentBinding is the binding shape for a document port. Both fields are optional;
// absence of Document is a legal "unset" state (spec.md §3).
type DocumentBinding struct {
	DocumentID *string         `json:"documentId,omitempty"`
	Document   json.RawMessage `json:"document,omitempty"`
}

// GridBinding is the binding shape for a grid port: catalog URL + dataset path.
type GridBinding struct {
	Catalog string `json:"catalog"`
	Dataset string `json:"dataset"`
}

// CollectionBinding is the binding shape shared by all three collection variants:
// an ordered list of inner bindings, each carrying the index matching its position.
type CollectionBinding struct {
	Ports []CollectionElem `json:"ports"`
}

// CollectionElem is one element of a collection binding; Binding is the raw inner
// binding JSON, decoded according to the collection's element port type.
type CollectionElem struct {
	Index   int             `json:"index"`
	Binding json.RawMessage `json:"binding"`
}

// decodeBinding parses raw per the declared port type, returning a typed value or nil
// if raw is empty (the port was not supplied).
func decodeBinding(t manifest.PortType, raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	switch t {
	case manifest.Stream:
		var b StreamBinding
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("port: decode stream binding: %w", err)
		}
		return b, nil
	case manifest.Multistream:
		var b MultistreamBinding
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("port: decode multistream binding: %w", err)
		}
		return b, nil
	case manifest.Document:
		var b DocumentBinding
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("port: decode document binding: %w", err)
		}
		return b, nil
	case manifest.Grid:
		var b GridBinding
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("port: decode grid binding: %w", err)
		}
		return b, nil
	case manifest.StreamCollection, manifest.DocumentCollection, manifest.GridCollection:
		var b CollectionBinding
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("port: decode collection binding: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("port: unsupported port type %q", t)
	}
}
