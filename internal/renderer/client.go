// Package renderer calls the external service that turns report HTML into documents.
package renderer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"quizdash/internal/domain"
	reportSvc "quizdash/internal/domain/services/report"
)

// maxDocumentBytes caps how much of a rendered document is read into memory.
const maxDocumentBytes = 50 * 1024 * 1024

// Client posts render payloads to the renderer and returns the produced document.
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ reportSvc.DocumentRenderer = (*Client)(nil)

// NewClient creates a renderer client. apiKey may be empty.
func NewClient(url, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		url:    url,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Render sends {"html": ..., "variables": {...}} and returns the response body
// with its content type. Network failures and 5xx responses are transport errors.
func (c *Client) Render(ctx context.Context, payload *reportSvc.RenderPayload) ([]byte, string, error) {
	if c.url == "" {
		return nil, "", &domain.TransportError{Op: "render", Err: errors.New("renderer is not configured")}
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal render payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create render request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", &domain.TransportError{Op: "render", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, "", &domain.TransportError{Op: "render", Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, "", &domain.TransportError{
			Op:  "render",
			Err: fmt.Errorf("renderer failed with status %d: %s", resp.StatusCode, truncate(body)),
		}
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("renderer rejected payload", "status", resp.StatusCode, "body", truncate(body))
		return nil, "", &domain.ValidationError{
			Message: fmt.Sprintf("renderer rejected the report with status %d", resp.StatusCode),
		}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}

	return body, contentType, nil
}

func truncate(body []byte) string {
	const max = 512
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
