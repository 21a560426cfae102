package util

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/youruser/votecard/internal/errs"
)

// DefaultMaxBytes caps upstream bodies when the caller passes a non-positive limit.
const DefaultMaxBytes = 20 << 20

const userAgent = "votecard/1.0"

// NewHTTPClient returns a client whose every request, body read included,
// is bounded by timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// GetBytes issues a single GET and returns the body. Transport failures and
// timeouts wrap errs.ErrUpstreamUnavailable; non-2xx statuses and oversized
// bodies wrap errs.ErrUpstreamBadResponse. There is no retry.
func GetBytes(ctx context.Context, client *http.Client, url string, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request for %s: %v", errs.ErrUpstreamBadResponse, url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", errs.ErrUpstreamUnavailable, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: GET %s: status %d", errs.ErrUpstreamBadResponse, url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", errs.ErrUpstreamUnavailable, url, err)
	}
	if int64(len(body)) > maxBytes {
		return nil, fmt.Errorf("%w: GET %s: body exceeds %d bytes", errs.ErrUpstreamBadResponse, url, maxBytes)
	}
	return body, nil
}
