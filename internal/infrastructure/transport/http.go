// Package transport implements the outbound Committer port over plain HTTP
// POST, which is all the carrier XML endpoints speak.
package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Poster submits carrier payloads as HTTP POST bodies and returns the raw
// response body. Retry and backoff are deliberately absent: carriers declare
// RetrySafe and a wrapping collaborator may act on it.
type Poster struct {
	client *http.Client
}

// NewPoster returns a Poster with a bounded per-call timeout.
func NewPoster(timeout time.Duration) *Poster {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Poster{client: &http.Client{Timeout: timeout}}
}

// Commit implements ports.Committer. A non-2xx status is a transport error;
// this layer does not interpret carrier payloads.
func (p *Poster) Commit(ctx context.Context, url, payload string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("transport: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transport: post %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("transport: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("transport: %s returned status %d", url, resp.StatusCode)
	}
	return string(body), nil
}
