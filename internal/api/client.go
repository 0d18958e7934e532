package api

import (
	"bytes"         // Request body buffers
	"context"       // Request cancellation and deadlines
	"encoding/json" // JSON encoding/decoding
	"fmt"           // Error wrapping
	"io"            // Response body reading
	"net/http"      // HTTP client
	"strings"       // URL normalization
	"time"          // Request timing

	"github.com/google/uuid"     // Correlation IDs
	"github.com/sirupsen/logrus" // Structured logging
)

// Client talks to the external wallet backend over its REST contract.
// It issues no retries; every failed call is terminal until re-triggered.
type Client struct {
	baseURL string       // Normalized base URL, no trailing slash
	http    *http.Client // Underlying HTTP client with timeout
}

// NewClient creates a Client for the given base URL
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// do issues one request and returns the raw 2xx body. A nil body sends no
// payload; any other body is JSON-encoded (a bare float64 covers the raw
// number bodies of the wallet mutation endpoints). Non-2xx responses come
// back as *APIError; transport failures are wrapped and returned as-is.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		buf = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := uuid.NewString()             // Correlation ID for this call
	req.Header.Set("X-Request-ID", reqID) // Propagated so backend logs can be matched up

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		// Transport failure: no response was received
		logrus.WithFields(logrus.Fields{
			"request_id": reqID,
			"method":     method,
			"path":       path,
			"error":      err.Error(),
		}).Error("Request failed")
		return nil, fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", method, path, err)
	}
	logrus.WithFields(logrus.Fields{
		"request_id": reqID,
		"method":     method,
		"path":       path,
		"status":     resp.StatusCode,
		"duration":   time.Since(start).String(),
	}).Debug("Request completed")
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, decodeError(resp.StatusCode, raw)
	}
	return raw, nil
}

// getJSON issues a GET and decodes the response into out
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	raw, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode GET %s: %w", path, err)
	}
	return nil
}
