// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pdiddy/trial-monitor/pkg/types"
)

// DefaultTimeout bounds each registry request. The upstream service sets
// no timeout of its own; an unbounded request could hang a whole run on
// one product.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent identifies the tool to the registry.
const DefaultUserAgent = "trial-monitor/0.1"

// NewClient returns an http.Client configured from cfg. A zero Timeout
// falls back to DefaultTimeout.
func NewClient(cfg types.HTTPConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// NewRequest builds a GET request with the User-Agent header set.
// An empty userAgent falls back to DefaultUserAgent.
func NewRequest(ctx context.Context, url, userAgent string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	return req, nil
}
