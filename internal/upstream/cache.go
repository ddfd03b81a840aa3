package upstream

import (
	"sync"

	"github.com/Amr-9/modelhost/internal/port"
)

// Cache is the client cache keyed by authority (host+port): a mapping to a
// lazily-constructed upstream grid client, with first-writer-wins insertion
// semantics (spec.md §3 "Client cache", §5 "Shared-resource policy").
type Cache struct {
	opts TransportOptions
	auth *Auth

	mu      sync.Mutex
	clients map[string]port.GridClient
}

// NewCache builds a grid client cache that constructs new clients using auth and
// opts whenever an authority is seen for the first time.
func NewCache(auth *Auth, opts TransportOptions) *Cache {
	return &Cache{opts: opts, auth: auth, clients: make(map[string]port.GridClient)}
}

// GridClient implements port.ClientCache: it returns the existing client for
// authority if one was already constructed, or builds and inserts a new one.
// First-writer-wins: a concurrent second caller that loses the race gets back the
// first writer's client, not its own.
func (c *Cache) GridClient(authority, catalogURL string) (port.GridClient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.clients[authority]; ok {
		return existing, nil
	}

	client := &gridClient{
		httpClient: newHTTPClient(catalogURL, c.auth, c.opts),
		authority:  authority,
	}
	c.clients[authority] = client
	return client, nil
}
