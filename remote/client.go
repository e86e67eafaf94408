// Package remote provides the HTTP client and shape mappers for the
// external orchestration service.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Error carries the upstream status of a failed orchestrator call.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("orchestrator returned status %d: %s", e.StatusCode, e.Message)
}

// Client is an HTTP client for the orchestration service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new orchestrator client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{},
	}
}

// Request performs a single orchestrator call and decodes the response
// body as a JSON object. Empty, malformed and non-object bodies all
// decode to an empty map; only a non-2xx status is an error, carried as
// *Error with the upstream message when the body supplies one.
func (c *Client) Request(ctx context.Context, method, path string, body interface{}) (map[string]interface{}, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call orchestrator: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	data := map[string]interface{}{}
	var decoded interface{}
	if json.Unmarshal(respBody, &decoded) == nil {
		if m, ok := decoded.(map[string]interface{}); ok {
			data = m
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message, _ := data["message"].(string)
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return nil, &Error{StatusCode: resp.StatusCode, Message: message}
	}

	return data, nil
}
