package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Request is the wire request to the reasoning service.
type Request struct {
	FreeText      string `json:"freeText"`
	SystemContext string `json:"systemContext"`
}

// ReasoningClient is the transport boundary to the external reasoning
// service. Implementations return the raw reply payload; validation happens
// in the gateway so every transport is held to the same contract.
type ReasoningClient interface {
	Generate(ctx context.Context, req Request) ([]byte, error)
}

// HTTPClient talks JSON over HTTP to a reasoning endpoint.
type HTTPClient struct {
	url    string
	apiKey string
	client *http.Client
}

// NewHTTPClient creates a client for the given endpoint. The apiKey may be
// empty for unauthenticated deployments.
func NewHTTPClient(url, apiKey string) *HTTPClient {
	return &HTTPClient{
		url:    url,
		apiKey: apiKey,
		// No client-level timeout: the gateway bounds each call through
		// its context so cancellation and timeout share one mechanism.
		client: &http.Client{},
	}
}

// Generate implements ReasoningClient.
func (c *HTTPClient) Generate(ctx context.Context, req Request) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal reasoning request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build reasoning request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call reasoning service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reasoning service returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read reasoning reply: %w", err)
	}
	return raw, nil
}
