package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Amr-9/modelhost/pkg/jobapi"
)

// Client is the thin HTTP client both modelhost-monitor and modelhostctl use
// to talk to a running modelhost's facade (spec.md §7).
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a Client against baseURL (e.g. "http://127.0.0.1:8080").
func NewClient(baseURL string) *Client {
	return &Client{baseURL: baseURL, http: &http.Client{Timeout: 10 * time.Second}}
}

// Fetch performs GET / and returns the current snapshot.
func (c *Client) Fetch(ctx context.Context) (jobapi.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return jobapi.Snapshot{}, err
	}
	return c.do(req)
}

// Submit performs POST / with jr and returns the accepted job's snapshot.
func (c *Client) Submit(ctx context.Context, jr jobapi.Request) (jobapi.Snapshot, error) {
	body, err := json.Marshal(jr)
	if err != nil {
		return jobapi.Snapshot{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/", bytes.NewReader(body))
	if err != nil {
		return jobapi.Snapshot{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

// Terminate performs POST /terminate with an optional timeout, in seconds.
func (c *Client) Terminate(ctx context.Context, timeoutSeconds float64) (jobapi.Snapshot, error) {
	var body bytes.Buffer
	if timeoutSeconds > 0 {
		if err := json.NewEncoder(&body).Encode(jobapi.TerminateRequest{Timeout: timeoutSeconds}); err != nil {
			return jobapi.Snapshot{}, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/terminate", &body)
	if err != nil {
		return jobapi.Snapshot{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (jobapi.Snapshot, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return jobapi.Snapshot{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error == "" {
			apiErr.Error = resp.Status
		}
		return jobapi.Snapshot{}, fmt.Errorf("modelhost: %s", apiErr.Error)
	}

	var snap jobapi.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return jobapi.Snapshot{}, err
	}
	return snap, nil
}
