package upstream

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/Amr-9/modelhost/internal/port"
	"github.com/Amr-9/modelhost/internal/retry"
	"github.com/Amr-9/modelhost/pkg/jobapi"
)

// SensorClient is the minimal factory contract for the sensor-cloud collaborator
// (spec.md §1 lists the concrete client as out of scope; only this shape is owned
// here).
type SensorClient interface {
	CreateObservations(ctx context.Context, streamID string, body []byte) error
}

// AnalysisClient is the minimal factory contract for the analysis-services
// collaborator.
type AnalysisClient interface {
	Invoke(ctx context.Context, path string, body []byte) ([]byte, error)
}

// httpClient is the shared base for the sensor and analysis REST clients: an
// http.Client wrapped by the retry engine (internal/retry), carrying auth derived
// from ResolveServiceConfig.
type httpClient struct {
	base string
	auth *Auth
	http *http.Client
}

// outboundRatePerSecond caps how many requests per second one authority's
// client may issue, so a retry storm against one misbehaving service can't
// starve the others sharing this process (spec.md §5 "Shared-resource
// policy").
const outboundRatePerSecond = 50

func newHTTPClient(baseURL string, auth *Auth, opts TransportOptions) *httpClient {
	return &httpClient{
		base: baseURL,
		auth: auth,
		http: &http.Client{Transport: NewPaced(NewTransport(opts), outboundRatePerSecond)},
	}
}

func (c *httpClient) do(req *http.Request) (*http.Response, error) {
	switch c.auth.Kind() {
	case APIKeyAuth:
		req.Header.Set("apikey", c.auth.APIKey)
	case BasicAuth:
		req.SetBasicAuth(c.auth.Username, c.auth.Password)
	}

	var resp *http.Response
	err := retry.Do(retry.DefaultPolicy(), func() error {
		var doErr error
		resp, doErr = c.http.Do(req)
		if doErr != nil {
			return doErr
		}
		if resp.StatusCode >= 400 {
			return &retry.HTTPError{Method: req.Method, StatusCode: resp.StatusCode, Header: resp.Header}
		}
		return nil
	})
	return resp, err
}

type restSensorClient struct{ *httpClient }

func (c *restSensorClient) CreateObservations(ctx context.Context, streamID string, body []byte) error {
	url := fmt.Sprintf("%s/streams/%s/observations", c.base, streamID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return nil
}

type restAnalysisClient struct{ *httpClient }

func (c *restAnalysisClient) Invoke(ctx context.Context, path string, body []byte) ([]byte, error) {
	url := c.base + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var out bytes.Buffer
	if _, err := out.ReadFrom(resp.Body); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// gridClient implements port.GridClient for a THREDDS-style catalog service.
type gridClient struct {
	*httpClient
	authority string
}

func (c *gridClient) Authority() string { return c.authority }

// Fetch retrieves the bytes of the dataset at path relative to the catalog.
func (c *gridClient) Fetch(ctx context.Context, path string) ([]byte, error) {
	url := c.base + "/" + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var out bytes.Buffer
	if _, err := out.ReadFrom(resp.Body); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Upload writes body to the dataset at path relative to the catalog.
func (c *gridClient) Upload(ctx context.Context, path string, body []byte) error {
	url := c.base + "/" + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return nil
}

var _ port.GridClient = (*gridClient)(nil)
