package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RejectedError indicates the backend accepted the request transport-wise
// but flagged it unsuccessful ({"success": false}).
type RejectedError struct {
	Method string
	Path   string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("server rejected %s %s", e.Method, e.Path)
}

// IsRejected reports whether err (or any error in its chain) is a
// RejectedError.
func IsRejected(err error) bool {
	var rejected *RejectedError
	return errors.As(err, &rejected)
}

// statusResponse is the success-flagged envelope returned by every
// mutation endpoint.
type statusResponse struct {
	Success bool `json:"success"`
}

// Client is a thin HTTP client for the email REST backend. It handles
// JSON marshaling and maps the backend's {success: bool} envelope onto
// Go errors. There is no retry policy: a failed call is the caller's to
// log, and the next poll tick is the only recovery.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the backend rooted at baseURL
// (e.g. http://localhost:8000).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// do builds the request, sends it, and JSON-decodes the response into
// result when non-nil.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body interface{},
	result interface{},
) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("reading response body: %w", readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf(
			"unexpected status %d on %s %s: %s",
			resp.StatusCode, method, path, string(respBody),
		)
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf(
			"unmarshaling response from %s %s: %w", method, path, err,
		)
	}

	return nil
}

// doStatus performs a mutation request and converts a success:false
// envelope into a RejectedError.
func (c *Client) doStatus(
	ctx context.Context,
	method string,
	path string,
	body interface{},
) error {
	var status statusResponse
	if err := c.do(ctx, method, path, body, &status); err != nil {
		return err
	}
	if !status.Success {
		return &RejectedError{Method: method, Path: path}
	}
	return nil
}
