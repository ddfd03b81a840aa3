package port

import (
	"fmt"
	"net/url"
	"sync"
)

// GridClient is the minimal contract a gridded-data (THREDDS-style) client must
// satisfy to be cached and handed to a Dataset. Concrete clients live in
// internal/upstream; this interface exists here purely to break the import cycle
// a back-reference to the upstream package would otherwise create.
type GridClient interface {
	Authority() string
}

// ClientCache resolves-or-creates a GridClient for a given authority (host[:port]),
// with first-writer-wins semantics (spec.md §3 "Client cache").
type ClientCache interface {
	GridClient(authority, catalogURL string) (GridClient, error)
}

// Dataset is a lazily-materialized handle binding a grid client to a dataset path.
type Dataset struct {
	Client GridClient
	Path   string
}

// ErrCrossEnvironmentUpload is returned when an output grid port is uploaded to a
// client whose authority differs from the configured read-catalog authority
// (spec.md §4.2, SPEC_FULL.md §C).
type ErrCrossEnvironmentUpload struct {
	UploadAuthority string
	ReadAuthority   string
}

func (e *ErrCrossEnvironmentUpload) Error() string {
	return fmt.Sprintf("cross-environment upload: upload client authority %q does not match configured read-catalog authority %q",
		e.UploadAuthority, e.ReadAuthority)
}

// GridPort is a single gridded-dataset input or output port.
type GridPort struct {
	base

	catalog string
	dataset string

	cache ClientCache

	mu       sync.Mutex
	resolved *Dataset
}

// Authority derives the host[:port] authority component of the bound catalog URL.
func (p *GridPort) Authority() (string, error) {
	return authorityOf(p.catalog)
}

// Dataset lazily materializes the dataset handle on first access, retrieving or
// creating the upstream grid client in the shared client cache keyed by authority
// (spec.md §4.2 "Grid dataset lookup").
func (p *GridPort) Dataset() (*Dataset, error) {
	if !p.supplied {
		return nil, fmt.Errorf("port %q: grid port was not supplied", p.Name())
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.resolved != nil {
		return p.resolved, nil
	}

	authority, err := authorityOf(p.catalog)
	if err != nil {
		return nil, fmt.Errorf("port %q: %w", p.Name(), err)
	}

	client, err := p.cache.GridClient(authority, p.catalog)
	if err != nil {
		return nil, fmt.Errorf("port %q: resolve grid client: %w", p.Name(), err)
	}

	p.resolved = &Dataset{Client: client, Path: p.dataset}
	return p.resolved, nil
}

// Upload returns a Dataset suitable for writing, enforcing the cross-environment
// upload policy (spec.md §4.2). It is only valid on output ports. When explicit is
// nil, defaultUpload is used; its authority must equal the read client's authority.
func (p *GridPort) Upload(explicit GridClient, defaultUpload GridClient) (*Dataset, error) {
	if p.Direction() != "output" {
		return nil, fmt.Errorf("port %q: upload only permitted on output grid ports", p.Name())
	}

	uploadClient := explicit
	if uploadClient == nil {
		uploadClient = defaultUpload
	}
	if uploadClient == nil {
		return nil, fmt.Errorf("port %q: no upload client configured", p.Name())
	}

	readAuthority, err := authorityOf(p.catalog)
	if err != nil {
		return nil, fmt.Errorf("port %q: %w", p.Name(), err)
	}

	if uploadClient.Authority() != readAuthority {
		return nil, &ErrCrossEnvironmentUpload{
			UploadAuthority: uploadClient.Authority(),
			ReadAuthority:   readAuthority,
		}
	}

	return &Dataset{Client: uploadClient, Path: p.dataset}, nil
}

func (p *GridPort) String() string {
	if !p.supplied {
		return "<unset>"
	}
	return p.catalog + "::" + p.dataset
}

func authorityOf(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse catalog url %q: %w", rawURL, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("catalog url %q has no host component", rawURL)
	}
	return u.Host, nil
}
